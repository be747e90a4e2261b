// Package events models pipeline progress and log delivery as a
// producer/consumer channel. Pipeline stages are producers of ordered
// {message, severity} and {percent} events; the consumer (typically the CLI
// renderer) drains asynchronously. Ordering within a single producer is
// preserved; cross-producer interleaving is acceptable.
package events

// Severity classifies a log event.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
	Summary
)

// String returns the upper-case label used in rendered log lines.
func (s Severity) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Summary:
		return "SUMMARY"
	default:
		return "INFO"
	}
}

// Event is either a log event (Message set) or a progress event
// (Progress true, Percent in 0..100).
type Event struct {
	Message  string
	Severity Severity
	Progress bool
	Percent  int
}

// Sink receives events from a pipeline stage. Implementations must be safe
// for use from the single producing goroutine of each stage.
type Sink interface {
	// Log emits an ordered {message, severity} event.
	Log(sev Severity, msg string)
	// Progress emits a {percent} event, 0..100.
	Progress(percent int)
}

// ChannelSink forwards events to a channel drained by a consumer goroutine.
type ChannelSink struct {
	ch chan<- Event
}

// NewChannelSink wraps ch as a Sink. The caller owns the channel and is
// responsible for draining it; sends block when the consumer falls behind,
// which bounds producer memory.
func NewChannelSink(ch chan<- Event) *ChannelSink {
	return &ChannelSink{ch: ch}
}

func (s *ChannelSink) Log(sev Severity, msg string) {
	s.ch <- Event{Message: msg, Severity: sev}
}

func (s *ChannelSink) Progress(percent int) {
	s.ch <- Event{Progress: true, Percent: percent}
}

// NopSink discards all events. Used when progress reporting is disabled.
type NopSink struct{}

func (NopSink) Log(Severity, string) {}
func (NopSink) Progress(int)         {}
