package cli

import (
	"fmt"

	"github.com/albertocavalcante/srcheaders/internal/log"
	"github.com/albertocavalcante/srcheaders/pkg/headers"
	"github.com/albertocavalcante/srcheaders/pkg/source"
	"github.com/spf13/cobra"
)

// runExtract prints the header of a single file. Validation failures never
// reach the scanner.
func runExtract(cmd *cobra.Command, opts *globalOptions, path string) error {
	contents, err := source.Load(path, opts.cfg.Extensions)
	if err != nil {
		return sourceExitError(err)
	}

	header := headers.ExtractWith(contents, opts.cfg.HeaderOptions()...)
	log.Info("header extracted", "file", path, "bytes", len(header))

	fmt.Fprintln(cmd.OutOrStdout(), header)
	return nil
}
