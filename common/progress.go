package common

import (
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
)

const plainBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}{{with string . "suffix"}} {{.}}{{end}}` + "\n"

// NewProgressBar starts a counting bar on w.
// Without a terminal the bar falls back to one line per refresh.
func NewProgressBar(w io.Writer, total int, name string) *pb.ProgressBar {
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Set("prefix", name)
	bar.SetRefreshRate(time.Second)
	if width, err := termutil.TerminalWidth(); width == 0 || err != nil {
		bar.SetTemplateString(plainBarTemplate)
	}
	return bar.Start()
}
