package main

import (
	"fmt"

	"github.com/datallboy/pagefetch/internal/platform"
	"github.com/spf13/cobra"
)

const featuresText = `Key Features:
1. Creates a subfolder named with the current date and time.
2. Checks for wget in system PATH or the current folder.
3. Renames downloaded files to .html if no extension is present.
4. Converts the downloaded file to Markdown (if conversion is enabled).
5. Provides concise error handling for common failures.
`

const limitationsText = `Key Limitations:
1. Single-File Only: Only downloads one file per URL (no related resources).
2. Basic Wget Usage: No advanced features like recursion, cookies, etc.
3. File Overwrites: Overwrites existing files without warning.
4. No MIME Detection: Defaults to .html if no extension, which may mislabel.
5. Conversion Limitations: Complex HTML or PDF layouts may not convert perfectly.
6. No Progress Indicators: Large file downloads show no progress.
7. Requires Wget & Permissions: Wget in PATH or local folder; write permission required.
8. Basic Error Handling: Partial downloads or complex redirects aren't handled in-depth.
`

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report download tool and converter availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, cleanup, err := bootstrap(opts, false, false)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n", featuresText, limitationsText)

			return platform.ValidateDependencies(out, appCtx.Resolver, appCtx.Converter.Name())
		},
	}
}
