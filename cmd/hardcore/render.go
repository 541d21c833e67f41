package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/bburg/bsquared-dev/internal/typewriter"
)

// renderer turns the snapshot stream into plain terminal output. Snapshots
// only ever grow, so each one prints just what the previous one lacked.
type renderer struct {
	w       io.Writer
	ink     *color.Color
	printed []string
	done    bool
}

func newRenderer(w io.Writer, colored bool) *renderer {
	ink := color.New(color.FgGreen)
	if colored {
		ink.EnableColor()
	} else {
		ink.DisableColor()
	}
	return &renderer{w: w, ink: ink}
}

func (r *renderer) Snapshot(s typewriter.Snapshot) error {
	if r.done {
		return nil
	}
	for i, line := range s.Lines {
		var fresh string
		if i < len(r.printed) {
			fresh = line[len(r.printed[i]):]
		} else {
			if i > 0 {
				if _, err := io.WriteString(r.w, "\n"); err != nil {
					return err
				}
			}
			fresh = line
		}
		if fresh == "" {
			continue
		}
		if _, err := r.ink.Fprint(r.w, fresh); err != nil {
			return err
		}
	}
	r.printed = append(r.printed[:0], s.Lines...)

	if s.Done {
		r.done = true
		_, err := fmt.Fprintln(r.w)
		return err
	}
	return nil
}
