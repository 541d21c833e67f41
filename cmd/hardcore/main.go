// Command hardcore plays the site's terminal boot sequence in a local
// terminal, with the same pacing the browser gets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bburg/bsquared-dev/internal/config"
	"github.com/bburg/bsquared-dev/internal/content"
	"github.com/bburg/bsquared-dev/internal/typewriter"
)

type options struct {
	noColor bool
	noArt   bool
	fast    bool
	dataDir string
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "hardcore [boot|intro]",
		Short: "Play the bsquared.dev terminal in your terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "boot"
			if len(args) == 1 {
				name = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err := play(ctx, name, opts, out, !opts.noColor && isTerminal(out))
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&opts.noArt, "no-art", false, "skip the ASCII banner")
	cmd.Flags().BoolVar(&opts.fast, "fast", false, "print without typing delays")
	cmd.Flags().StringVar(&opts.dataDir, "data", "data", "content directory, used by the intro script")
	return cmd
}

// play runs one script to completion or until ctx is cancelled.
func play(ctx context.Context, name string, opts options, out io.Writer, colored bool) error {
	lines, timing, err := loadScript(name, opts.dataDir)
	if err != nil {
		return err
	}
	if opts.fast {
		timing = typewriter.Timing{}
	}

	if !opts.noArt {
		fmt.Fprint(out, content.ASCIIArt)
	}
	r := newRenderer(out, colored)
	return typewriter.New(lines, typewriter.WithTiming(timing)).Run(ctx, r.Snapshot)
}

func loadScript(name, dataDir string) ([]string, typewriter.Timing, error) {
	switch name {
	case "boot":
		return content.BootScript(), config.Defaults().Typewriter.Timing(), nil
	case "intro":
		site, err := content.Load(dataDir)
		if err != nil {
			return nil, typewriter.Timing{}, err
		}
		return []string{site.Profile.Intro}, typewriter.Timing{BaseDelay: 40 * time.Millisecond}, nil
	}
	return nil, typewriter.Timing{}, fmt.Errorf("unknown script %q", name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
