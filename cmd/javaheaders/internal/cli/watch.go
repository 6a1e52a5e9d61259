package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type watchOptions struct {
	debounce int
	json     bool
	noColor  bool
	exclude  []string
}

func newWatchCmd(global *globalOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Report header changes as source files are edited",
		Long: `Watches a directory (default: the current directory) and reports every
source file whose header changes. Edits that leave the header untouched
are not reported.

Example output:

  $ javaheaders watch src
  javaheaders: watching 214 files in src
  [14:32:15] ~ main/java/com/acme/Foo.java (3f2a9c0d11e8b7a4)
  [14:32:40] - main/java/com/acme/Old.java

Press Ctrl+C to stop watching.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runWatch(cmd, global, opts, root)
		},
	}

	cmd.Flags().IntVar(&opts.debounce, "debounce", 0,
		"Debounce window in milliseconds (default: config or 500)")
	cmd.Flags().BoolVar(&opts.json, "json", false,
		"Stream JSON events, one per line")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false,
		"Disable colored output")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil,
		"Glob patterns to exclude (e.g. '**/generated/**')")

	return cmd
}

func runWatch(cmd *cobra.Command, global *globalOptions, opts *watchOptions, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path must be a directory: %s", root)
	}

	scanner, err := newScanner(global, root, opts.exclude, 0)
	if err != nil {
		return err
	}

	debounce := opts.debounce
	if debounce <= 0 {
		debounce = global.cfg.Watch.DebounceMs
	}

	out := cmd.OutOrStdout()
	p := newChangePrinter(out, opts.json, !opts.noColor && isTerminal(out))

	w, err := watch.New(watch.Config{
		Scanner:  scanner,
		Debounce: time.Duration(debounce) * time.Millisecond,
		OnChange: p.print,
		OnReady: func(files int) {
			if !opts.json {
				fmt.Fprintf(out, "javaheaders: watching %d files in %s\n", files, root)
			}
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}

// changePrinter writes watch changes; calls may come from timer goroutines.
type changePrinter struct {
	mu    sync.Mutex
	w     io.Writer
	json  bool
	color bool
	now   func() time.Time
}

func newChangePrinter(w io.Writer, jsonOut, color bool) *changePrinter {
	return &changePrinter{w: w, json: jsonOut, color: color, now: time.Now}
}

const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

func (p *changePrinter) print(c watch.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		_ = json.NewEncoder(p.w).Encode(c)
		return
	}

	ts := p.now().Format("15:04:05")
	mark, color := "~", colorYellow
	if c.Removed {
		mark, color = "-", colorRed
	}
	if p.color {
		mark = color + mark + colorReset
	}

	if c.Removed {
		fmt.Fprintf(p.w, "[%s] %s %s\n", ts, mark, c.Path)
		return
	}
	if c.Digest == "" {
		fmt.Fprintf(p.w, "[%s] %s %s (no header)\n", ts, mark, c.Path)
		return
	}
	fmt.Fprintf(p.w, "[%s] %s %s (%s)\n", ts, mark, c.Path, c.Digest)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
