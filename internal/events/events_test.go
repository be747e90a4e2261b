package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for events:
// - Severity labels render as upper-case strings
// - ChannelSink preserves producer ordering
// - NopSink accepts events without observable effect

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "SUCCESS", Success.String())
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "SUMMARY", Summary.String())
}

func TestChannelSink_PreservesOrder(t *testing.T) {
	t.Parallel()

	ch := make(chan Event, 4)
	sink := NewChannelSink(ch)

	sink.Log(Info, "first")
	sink.Progress(50)
	sink.Log(Success, "second")
	close(ch)

	var got []Event
	for ev := range ch {
		got = append(got, ev)
	}

	assert.Equal(t, []Event{
		{Message: "first", Severity: Info},
		{Progress: true, Percent: 50},
		{Message: "second", Severity: Success},
	}, got)
}

func TestNopSink(t *testing.T) {
	t.Parallel()

	var s NopSink
	s.Log(Error, "dropped")
	s.Progress(100)
}
