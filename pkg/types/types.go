package types

import (
	"time"
)

// Role identifies which participant produced a turn.
type Role string

const (
	RoleProponent Role = "Proponent"
	RoleOpponent  Role = "Opponent"
	RoleModerator Role = "Moderator"
)

// Decision is the Moderator's per-round verdict.
type Decision string

const (
	// DecisionNone marks turns that are not moderator evaluations.
	DecisionNone     Decision = ""
	DecisionContinue Decision = "CONTINUE"
	DecisionDone     Decision = "DONE"
)

// Turn is a single participant contribution within a round. Turns are
// immutable once appended to a transcript.
type Turn struct {
	Round     int       `json:"round"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Decision  Decision  `json:"decision,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsEvaluation reports whether this turn carries a moderator decision.
func (t Turn) IsEvaluation() bool {
	return t.Decision != DecisionNone
}

// ParticipantConfig bundles the persona and backing model for one role.
// Loaded once at startup and never mutated.
type ParticipantConfig struct {
	Role      Role
	Name      string
	Goal      string
	Backstory string
	Model     string
}

// DebateConfig holds the per-run debate parameters.
type DebateConfig struct {
	Topic     string
	MaxRounds int
}

// Transcript is the ordered, append-only history of a debate. It has
// exactly one writer (the round controller); participants only read it,
// and all access is strictly sequential, so no locking is needed.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns recorded so far.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Rounds returns the highest round number seen so far, or 0 when empty.
func (t *Transcript) Rounds() int {
	if len(t.turns) == 0 {
		return 0
	}
	return t.turns[len(t.turns)-1].Round
}

// DebateResult is the final outcome of a run: the synthesis plus the
// finalized transcript and the number of rounds actually executed.
type DebateResult struct {
	Summary    string
	Transcript *Transcript
	Rounds     int
}
