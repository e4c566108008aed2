package main

import (
	"fmt"
	"io"
	"path/filepath"

	"jsonerr/internal/driver"
)

// printFileTimings writes one line per measured file and a grand total.
func printFileTimings(out io.Writer, res *driver.Result, base string) {
	if out == nil || res == nil {
		return
	}
	var total float64
	measured := 0
	for _, fr := range res.Files {
		if fr == nil || fr.Timing == nil {
			continue
		}
		measured++
		total += fr.Timing.TotalMS
		name := fr.Path
		if rel, err := filepath.Rel(base, fr.Path); err == nil {
			name = rel
		}
		line := fmt.Sprintf("%s %.1f ms", name, fr.Timing.TotalMS)
		for _, p := range fr.Timing.Phases {
			line += fmt.Sprintf(" %s=%.1f", p.Name, p.DurationMS)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			panic(err)
		}
	}
	if measured > 1 {
		if _, err := fmt.Fprintf(out, "total %.1f ms over %d files\n", total, measured); err != nil {
			panic(err)
		}
	}
}
