package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/scan"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	json    bool
	group   bool
	exclude []string
	workers int
}

func newScanCmd(global *globalOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Extract the headers of every source file under a directory",
		Long: `Walks a directory (default: the current directory) and extracts the
header of every source file with an accepted extension.

Hidden directories, bazel-* and the build output directories target, build,
out and node_modules are skipped. Output names match exactly, so packages
like "builder" or "output" are still scanned. --exclude takes doublestar globs relative to the directory.

The --group flag groups files by identical header text, which makes files
with a missing or outdated license header easy to spot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runScan(cmd, global, opts, root)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false,
		"Output as JSON")
	cmd.Flags().BoolVar(&opts.group, "group", false,
		"Group files by identical header")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil,
		"Glob patterns to exclude (e.g. '**/generated/**')")
	cmd.Flags().IntVar(&opts.workers, "workers", 0,
		"Number of files read concurrently (default: config or GOMAXPROCS)")

	return cmd
}

// ScanOutput is the JSON output of 'javaheaders scan --group'.
type ScanOutput struct {
	Groups  []scan.Group  `json:"groups"`
	Missing []string      `json:"missing,omitempty"`
	Failed  []scan.Result `json:"failed,omitempty"`
}

func runScan(cmd *cobra.Command, global *globalOptions, opts *scanOptions, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path must be a directory: %s", root)
	}

	scanner, err := newScanner(global, root, opts.exclude, opts.workers)
	if err != nil {
		return err
	}

	results, err := scanner.Scan(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.json && opts.group:
		return outputJSON(out, ScanOutput{
			Groups:  scan.GroupByHeader(results),
			Missing: scan.Missing(results),
			Failed:  scan.Failed(results),
		})
	case opts.json:
		if results == nil {
			results = []scan.Result{}
		}
		return outputJSON(out, results)
	case opts.group:
		printGroups(out, results)
	default:
		printResults(out, results)
	}
	return nil
}

// newScanner builds a scanner from the resolved configuration plus
// command-specific flags.
func newScanner(global *globalOptions, root string, exclude []string, workers int) (*scan.Scanner, error) {
	cfg := global.cfg
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	return scan.NewScanner(scan.Config{
		Root:       root,
		Extensions: cfg.Extensions,
		Exclude:    append(append([]string{}, cfg.Scan.Exclude...), exclude...),
		IgnoreDirs: cfg.Scan.IgnoreDirs,
		Workers:    workers,
		Options:    cfg.HeaderOptions(),
	})
}

func printResults(w io.Writer, results []scan.Result) {
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s: ERROR: %s\n", r.Path, r.Error)
			continue
		}
		if r.Header == "" {
			fmt.Fprintf(w, "%s: (no header)\n", r.Path)
			continue
		}
		fmt.Fprintf(w, "%s:\n%s\n", r.Path, r.Header)
	}
}

func printGroups(w io.Writer, results []scan.Result) {
	for _, g := range scan.GroupByHeader(results) {
		fmt.Fprintf(w, "[%s] %d file(s):\n", g.Digest, len(g.Paths))
		for _, p := range g.Paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
		fmt.Fprintf(w, "%s\n\n", g.Header)
	}

	if missing := scan.Missing(results); len(missing) > 0 {
		fmt.Fprintf(w, "No header (%d):\n", len(missing))
		for _, p := range missing {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}

	if failed := scan.Failed(results); len(failed) > 0 {
		fmt.Fprintf(w, "Unreadable (%d):\n", len(failed))
		for _, r := range failed {
			fmt.Fprintf(w, "  %s: %s\n", r.Path, r.Error)
		}
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
