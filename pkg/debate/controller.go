package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/u1i/crewai-debate/pkg/llm"
	"github.com/u1i/crewai-debate/pkg/types"
)

// Controller runs the debate loop: for each round Proponent, then
// Opponent, then a Moderator evaluation, until the Moderator says DONE or
// the round cap is reached, followed by one final summary invocation.
//
// The loop is strictly sequential. Every invocation's prompt is a pure
// function of the transcript left by the prior invocations, so nothing
// here may run concurrently.
type Controller struct {
	Proponent Participant
	Opponent  Participant
	Moderator Participant
	Config    types.DebateConfig
	Sink      Sink
}

// NewController wires the three participants to one completion service.
func NewController(completer llm.Completer, roles [3]types.ParticipantConfig, cfg types.DebateConfig, sink Sink) *Controller {
	if sink == nil {
		sink = MultiSink{}
	}
	return &Controller{
		Proponent: NewParticipant(roles[0], completer),
		Opponent:  NewParticipant(roles[1], completer),
		Moderator: NewParticipant(roles[2], completer),
		Config:    cfg,
		Sink:      sink,
	}
}

// Run executes the debate and returns the final result. On a failed
// participant invocation the run aborts; turns appended before the failure
// have already been delivered to the sink and remain valid history. The
// moderator's round cap is a hard ceiling: a CONTINUE verdict at the cap
// does not buy another round.
func (c *Controller) Run(ctx context.Context) (*types.DebateResult, error) {
	transcript := types.NewTranscript()
	rounds := 0

	for round := 1; ; round++ {
		rounds = round

		// Proponent: opening argument in round 1, rebuttal afterwards.
		if err := c.takeTurn(ctx, c.Proponent, round, transcript, ProponentInstructions(round)); err != nil {
			return nil, err
		}

		// Opponent critiques with the proponent's fresh turn in context.
		if err := c.takeTurn(ctx, c.Opponent, round, transcript, OpponentInstructions(round)); err != nil {
			return nil, err
		}

		// Moderator evaluation: continue or stop.
		instructions := EvaluationInstructions(round, c.Config.MaxRounds)
		raw, err := c.invoke(ctx, c.Moderator, transcript, instructions)
		if err != nil {
			return nil, err
		}

		decision, ok := ParseDecision(raw)
		if !ok {
			c.Sink.RecordAnomaly(round, fmt.Sprintf("moderator verdict contained neither CONTINUE nor DONE, defaulting to DONE: %q", raw))
		}

		c.append(transcript, types.Turn{
			Round:     round,
			Role:      c.Moderator.Config.Role,
			Text:      raw,
			Decision:  decision,
			Timestamp: time.Now(),
		}, contextSummary(round, c.Moderator.Config.Role, instructions, transcript.Len()))

		if decision == types.DecisionDone || round >= c.Config.MaxRounds {
			break
		}
	}

	summary, err := Summarize(ctx, c.Moderator, c.Config.Topic, transcript)
	if err != nil {
		// The transcript has already been flushed turn by turn; only the
		// synthesis is lost.
		return nil, err
	}

	result := &types.DebateResult{
		Summary:    summary,
		Transcript: transcript,
		Rounds:     rounds,
	}
	c.Sink.RecordResult(result)

	return result, nil
}

// takeTurn runs one non-evaluation participant invocation and appends the
// resulting turn.
func (c *Controller) takeTurn(ctx context.Context, p Participant, round int, transcript *types.Transcript, instructions string) error {
	text, err := c.invoke(ctx, p, transcript, instructions)
	if err != nil {
		return err
	}

	c.append(transcript, types.Turn{
		Round:     round,
		Role:      p.Config.Role,
		Text:      text,
		Timestamp: time.Now(),
	}, contextSummary(round, p.Config.Role, instructions, transcript.Len()))

	return nil
}

// invoke checks for cancellation, then runs one blocking participant call.
func (c *Controller) invoke(ctx context.Context, p Participant, transcript *types.Transcript, instructions string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Respond(ctx, c.Config.Topic, transcript, instructions)
}

func (c *Controller) append(transcript *types.Transcript, turn types.Turn, promptSummary string) {
	transcript.Append(turn)
	c.Sink.RecordTurn(turn, promptSummary)
}

func contextSummary(round int, role types.Role, instructions string, priorTurns int) string {
	return fmt.Sprintf("round %d %s prompt (%d prior turns in context):\n%s", round, role, priorTurns, instructions)
}
