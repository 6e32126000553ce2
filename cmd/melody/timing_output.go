package main

import (
	"fmt"
	"io"

	"melody/internal/observ"
)

// printTimings writes the phase summary; nothing when no phase ran.
func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || len(timer.Report().Phases) == 0 {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
