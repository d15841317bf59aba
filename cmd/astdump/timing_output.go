package main

import (
	"fmt"
	"io"

	"astdump/internal/observ"
)

func printTimings(out io.Writer, report observ.Report, note string) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	if note != "" {
		fmt.Fprintf(out, "[%s] ", note)
	}
	fmt.Fprint(out, report.Format())
}
