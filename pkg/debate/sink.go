package debate

import (
	"github.com/u1i/crewai-debate/pkg/types"
)

// Sink receives debate events for logging and persistence. The core only
// appends; formatting and storage are the sink's concern. Sinks are called
// from the single controller goroutine, in transcript order.
type Sink interface {
	// RecordTurn is called once per appended turn, with a short summary
	// of the prompt context that produced it.
	RecordTurn(turn types.Turn, promptSummary string)
	// RecordResult is called once after a successful run with the final
	// summary and transcript.
	RecordResult(result *types.DebateResult)
	// RecordAnomaly reports a recoverable oddity, such as an ambiguous
	// moderator verdict.
	RecordAnomaly(round int, message string)
}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) RecordTurn(turn types.Turn, promptSummary string) {
	for _, s := range m {
		s.RecordTurn(turn, promptSummary)
	}
}

func (m MultiSink) RecordResult(result *types.DebateResult) {
	for _, s := range m {
		s.RecordResult(result)
	}
}

func (m MultiSink) RecordAnomaly(round int, message string) {
	for _, s := range m {
		s.RecordAnomaly(round, message)
	}
}
