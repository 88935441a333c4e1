package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/datallboy/pagefetch/internal/fetcher"
	"github.com/datallboy/pagefetch/internal/infra/logger"
	"github.com/segmentio/ksuid"
)

type WorkspaceAllocator interface {
	Allocate() (domain.Workspace, error)
}

type ToolResolver interface {
	Resolve() (string, error)
}

type Normalizer interface {
	Normalize(a domain.Artifact) (domain.Artifact, error)
}

// Converter is the optional last stage. Available is queried once per run.
type Converter interface {
	Available() bool
	Run(ctx context.Context, a domain.Artifact) (domain.Artifact, error)
}

// FetcherFactory binds a Fetcher to the resolved tool path
type FetcherFactory func(toolPath string) fetcher.Fetcher

// Pipeline runs workspace → tool → fetch → normalize → convert exactly once
// per call and reports a single Outcome.
type Pipeline struct {
	Allocator   WorkspaceAllocator
	Resolver    ToolResolver
	NewFetcher  FetcherFactory
	Normalizer  Normalizer
	Converter   Converter
	Placeholder string

	Logger   *logger.Logger
	Clock    func() time.Time
	NewRunID func() string
}

func New(alloc WorkspaceAllocator, resolver ToolResolver, newFetcher FetcherFactory, norm Normalizer, conv Converter, placeholder string, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		Allocator:   alloc,
		Resolver:    resolver,
		NewFetcher:  newFetcher,
		Normalizer:  norm,
		Converter:   conv,
		Placeholder: placeholder,
		Logger:      log,
		Clock:       time.Now,
		NewRunID:    func() string { return ksuid.New().String() },
	}
}

// State names each step of a run
type State string

const (
	StateIdle              State = "idle"
	StateWorkspaceCreated  State = "workspace_created"
	StateToolResolved      State = "tool_resolved"
	StateFetched           State = "fetched"
	StateNormalized        State = "normalized"
	StateConverted         State = "converted"
	StateConversionSkipped State = "conversion_skipped"
	StateConversionFailed  State = "conversion_failed"
	StateReported          State = "reported"
)

// run carries the state for one invocation of Run
type run struct {
	p       *Pipeline
	state   State
	outcome domain.Outcome
}

// Run never returns an error; every failure is folded into the Outcome.
func (p *Pipeline) Run(ctx context.Context, rawURL string) domain.Outcome {
	r := &run{
		p:     p,
		state: StateIdle,
		outcome: domain.Outcome{
			RunID:     p.runID(),
			URL:       strings.TrimSpace(rawURL),
			StartedAt: p.now(),
		},
	}

	// Capability presence is decided once, before any work starts
	convertAvailable := p.Converter != nil && p.Converter.Available()

	if r.outcome.URL == "" {
		return r.fail(&domain.Error{Kind: domain.KindInvalidRequest, Op: "please enter a URL", Err: domain.ErrEmptyURL})
	}

	ws, err := p.Allocator.Allocate()
	if err != nil {
		return r.fail(err)
	}
	r.outcome.Workspace = ws.Dir
	r.advance(StateWorkspaceCreated)

	toolPath, err := p.Resolver.Resolve()
	if err != nil {
		return r.fail(err)
	}
	p.Logger.Debug("[%s] using download tool %s", r.outcome.RunID, toolPath)
	r.advance(StateToolResolved)

	req, err := domain.NewDownloadRequest(rawURL, ws.Dir, p.Placeholder)
	if err != nil {
		return r.fail(err)
	}

	p.Logger.Info("[%s] downloading %s to %s", r.outcome.RunID, req.URL, req.Dest)
	fetched, err := p.NewFetcher(toolPath).Fetch(ctx, req)
	if err != nil {
		return r.fail(err)
	}
	r.outcome.Artifact = fetched.Path
	r.advance(StateFetched)

	normalized, err := p.Normalizer.Normalize(fetched)
	if err != nil {
		return r.fail(err)
	}
	r.outcome.Artifact = normalized.Path
	r.advance(StateNormalized)

	if !convertAvailable {
		p.Logger.Warn("[%s] conversion unavailable, skipping markdown output", r.outcome.RunID)
		r.advance(StateConversionSkipped)
		return r.succeed(domain.OutcomeSuccess)
	}

	converted, err := p.Converter.Run(ctx, normalized)
	if err != nil {
		r.advance(StateConversionFailed)
		return r.fail(err)
	}

	if converted.Stage != domain.StageConverted {
		r.advance(StateConversionSkipped)
		return r.succeed(domain.OutcomeSuccess)
	}

	r.outcome.Converted = converted.Path
	r.advance(StateConverted)
	return r.succeed(domain.OutcomeSuccessConverted)
}

func (r *run) advance(s State) {
	r.p.Logger.Debug("[%s] %s -> %s", r.outcome.RunID, r.state, s)
	r.state = s
}

func (r *run) succeed(kind domain.OutcomeKind) domain.Outcome {
	r.outcome.Kind = kind
	r.outcome.Title = "Success"

	var sb strings.Builder
	if kind == domain.OutcomeSuccessConverted {
		fmt.Fprintf(&sb, "Downloaded to:\n%s\n\nConverted to:\n%s\n\n", r.outcome.Artifact, r.outcome.Converted)
		fmt.Fprintf(&sb, "All files are in the folder:\n%s", r.outcome.Workspace)
	} else {
		fmt.Fprintf(&sb, "Successfully downloaded:\n%s\n\n", r.outcome.Artifact)
		fmt.Fprintf(&sb, "All files are in the folder:\n%s\n(No Markdown file created.)", r.outcome.Workspace)
	}
	r.outcome.Message = sb.String()

	return r.report()
}

func (r *run) fail(err error) domain.Outcome {
	kind := domain.KindOf(err)

	r.outcome.Kind = domain.OutcomeFailure
	r.outcome.ErrorKind = kind
	r.outcome.Title = title(kind, r.state)
	r.outcome.Message = message(err)

	r.p.Logger.Error("[%s] %s: %v", r.outcome.RunID, r.outcome.Title, err)
	return r.report()
}

func (r *run) report() domain.Outcome {
	r.advance(StateReported)
	r.outcome.FinishedAt = r.p.now()
	return r.outcome
}

// title maps a failure to the notice category shown to the user.
// Filesystem failures are split by the step that raised them.
func title(kind domain.ErrorKind, state State) string {
	switch kind {
	case domain.KindInvalidRequest:
		return "Input Required"
	case domain.KindToolNotFound:
		return "wget Not Found"
	case domain.KindExecution:
		return "Missing Executable"
	case domain.KindDownload:
		return "Download Error"
	case domain.KindConversion:
		return "Conversion Error"
	case domain.KindFilesystem:
		switch state {
		case StateIdle:
			return "Folder Error"
		case StateFetched:
			return "Rename Error"
		default:
			return "File Error"
		}
	default:
		if state == StateConversionFailed {
			return "Unknown Conversion Error"
		}
		return "Unknown Error"
	}
}

func message(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return fmt.Sprintf("An unexpected error occurred:\n%v", err)
	}

	switch de.Kind {
	case domain.KindExecution:
		return "Could not run wget. Ensure it is installed or in the folder."
	case domain.KindDownload:
		msg := fmt.Sprintf("An error occurred while downloading:\nexit status %d", de.Code)
		if de.Output != "" {
			msg += "\n" + de.Output
		}
		return msg
	case domain.KindUnknown:
		return fmt.Sprintf("An unexpected error occurred:\n%v", err)
	default:
		return de.Error()
	}
}

func (p *Pipeline) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}

func (p *Pipeline) runID() string {
	if p.NewRunID == nil {
		return ksuid.New().String()
	}
	return p.NewRunID()
}
