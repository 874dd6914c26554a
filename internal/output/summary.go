package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tanq16/galgrab/internal/utils"
)

type ErrorReport struct {
	Subject string
	Error   error
	Time    time.Time
}

// Summary is the end-of-run tally for one gallery.
type Summary struct {
	Name      string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Bytes     int64
	Elapsed   time.Duration
	Errors    []ErrorReport
}

func PrintSummary(w io.Writer, s Summary) {
	indent := strings.Repeat(" ", 2)
	if s.Name != "" {
		fmt.Fprintln(w, indent+FHeader(s.Name))
	}
	completed := fmt.Sprintf("Completed %d of %d", s.Succeeded, s.Total)
	fmt.Fprintf(w, "%s%s %s %s\n", indent, FSuccess(StyleSymbols["pass"]), FSuccess(completed),
		FDebug(fmt.Sprintf("(%s in %s)", utils.FormatBytes(uint64(max(s.Bytes, 0))), s.Elapsed.Round(time.Millisecond))))
	if s.Skipped > 0 {
		skipped := fmt.Sprintf("Skipped %d of %d", s.Skipped, s.Total)
		fmt.Fprintf(w, "%s%s %s\n", indent, FWarning(StyleSymbols["warning"]), FWarning(skipped))
	}
	if s.Failed > 0 {
		failed := fmt.Sprintf("Failed %d of %d", s.Failed, s.Total)
		fmt.Fprintf(w, "%s%s %s\n", indent, FError(StyleSymbols["fail"]), FError(failed))
	}
	printErrors(w, s.Errors)
}

func printErrors(w io.Writer, errs []ErrorReport) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat(" ", 2)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range errs {
		fmt.Fprintf(w, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			FError(fmt.Sprintf("%d.", i+1)),
			FDebug(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			FError(err.Subject))
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", 2+4), FError(fmt.Sprintf("Error: %v", err.Error)))
	}
}

// PrintFailure reports a gallery that could not be downloaded at all.
func PrintFailure(w io.Writer, subject string, err error) {
	printErrors(w, []ErrorReport{{Subject: subject, Error: err, Time: time.Now()}})
}
