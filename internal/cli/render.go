package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"llmprep/internal/events"
)

// renderer drains a pipeline event channel and presents it on the terminal:
// log events go to stderr with a severity tag, progress events drive a
// single percent bar. It is the consumer side of the events contract.
type renderer struct {
	quiet bool
	bar   *progressbar.ProgressBar
	done  chan struct{}
}

// startRenderer launches a goroutine draining ch until it is closed. Call
// wait() after closing the channel to let the final events land.
func startRenderer(ch <-chan events.Event, quiet bool) *renderer {
	r := &renderer{quiet: quiet, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for ev := range ch {
			r.handle(ev)
		}
		if r.bar != nil {
			r.bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	}()
	return r
}

func (r *renderer) handle(ev events.Event) {
	if ev.Progress {
		if r.quiet {
			return
		}
		if r.bar == nil {
			r.bar = progressbar.NewOptions(100,
				progressbar.OptionSetDescription("Processing"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
			)
		}
		r.bar.Set(ev.Percent)
		return
	}
	if r.quiet && ev.Severity != events.Error {
		return
	}
	if r.bar != nil {
		// Keep log lines off the bar's row.
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Severity, ev.Message)
}

// wait blocks until the event channel has been fully drained.
func (r *renderer) wait() {
	<-r.done
}
