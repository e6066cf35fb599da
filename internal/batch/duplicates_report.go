package batch

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/wikimatter/internal/synth"
)

// PrintDuplicates writes the end-of-batch duplicate title report. Nothing is
// written when there are no duplicates.
func PrintDuplicates(w io.Writer, skipped []synth.SkippedPage, useColor bool) error {
	if len(skipped) == 0 {
		return nil
	}

	heading := color.New(color.FgYellow, color.Bold)
	title := color.New(color.FgCyan)
	if useColor {
		heading.EnableColor()
		title.EnableColor()
	} else {
		heading.DisableColor()
		title.DisableColor()
	}

	if _, err := heading.Fprintf(w, "%d page(s) share a title with an earlier page and may fail to publish:\n", len(skipped)); err != nil {
		return err
	}
	for _, s := range skipped {
		if _, err := fmt.Fprintf(w, "  %s  %s\n", title.Sprint(s.Title), s.Path); err != nil {
			return err
		}
	}
	return nil
}
