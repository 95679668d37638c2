package debate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u1i/crewai-debate/pkg/llm"
	"github.com/u1i/crewai-debate/pkg/types"
)

const (
	propModel = "test/proponent"
	oppModel  = "test/opponent"
	modModel  = "test/moderator"
)

type completionCall struct {
	system string
	user   string
	model  string
}

// scriptedCompleter serves queued responses per model and records every
// call so tests can inspect the prompts the controller built.
type scriptedCompleter struct {
	responses map[string][]string
	failAt    map[string]int // 1-based call index per model that fails
	counts    map[string]int
	calls     []completionCall
}

func newScriptedCompleter() *scriptedCompleter {
	return &scriptedCompleter{
		responses: make(map[string][]string),
		failAt:    make(map[string]int),
		counts:    make(map[string]int),
	}
}

func (s *scriptedCompleter) script(model string, responses ...string) {
	s.responses[model] = append(s.responses[model], responses...)
}

func (s *scriptedCompleter) Complete(ctx context.Context, system, user, model string) (string, error) {
	s.calls = append(s.calls, completionCall{system: system, user: user, model: model})
	s.counts[model]++

	if n, ok := s.failAt[model]; ok && s.counts[model] == n {
		return "", &llm.CompletionError{Model: model, Reason: "scripted failure"}
	}

	queue := s.responses[model]
	if len(queue) == 0 {
		return fmt.Sprintf("%s response %d", model, s.counts[model]), nil
	}

	next := queue[0]
	if len(queue) > 1 {
		s.responses[model] = queue[1:]
	}
	return next, nil
}

// callsFor returns the prompts sent to one model, in order.
func (s *scriptedCompleter) callsFor(model string) []completionCall {
	var out []completionCall
	for _, c := range s.calls {
		if c.model == model {
			out = append(out, c)
		}
	}
	return out
}

type recordingSink struct {
	turns     []types.Turn
	prompts   []string
	results   []*types.DebateResult
	anomalies []string
}

func (r *recordingSink) RecordTurn(turn types.Turn, promptSummary string) {
	r.turns = append(r.turns, turn)
	r.prompts = append(r.prompts, promptSummary)
}

func (r *recordingSink) RecordResult(result *types.DebateResult) {
	r.results = append(r.results, result)
}

func (r *recordingSink) RecordAnomaly(round int, message string) {
	r.anomalies = append(r.anomalies, fmt.Sprintf("round %d: %s", round, message))
}

func newTestController(topic string, maxRounds int, sc *scriptedCompleter, sink Sink) *Controller {
	roles := [3]types.ParticipantConfig{
		{Role: types.RoleProponent, Name: "Proponent", Goal: "argue for", Backstory: "an advocate", Model: propModel},
		{Role: types.RoleOpponent, Name: "Opponent", Goal: "argue against", Backstory: "a critic", Model: oppModel},
		{Role: types.RoleModerator, Name: "Moderator", Goal: "keep order", Backstory: "impartial", Model: modModel},
	}
	return NewController(sc, roles, types.DebateConfig{Topic: topic, MaxRounds: maxRounds}, sink)
}

func TestRunEnforcesRoundCap(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE", "CONTINUE", "CONTINUE", "final synthesis")

	result, err := newTestController("Test topic", 3, sc, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rounds)
	assert.Equal(t, 9, result.Transcript.Len())
	assert.Equal(t, "final synthesis", result.Summary)
	// Three evaluations plus one summary.
	assert.Equal(t, 4, sc.counts[modModel])
}

func TestRunStopsEarlyOnDone(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE", "DONE", "final synthesis")

	result, err := newTestController("Test topic", 5, sc, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, 6, result.Transcript.Len())
	// No round 3: each debater spoke exactly twice.
	assert.Equal(t, 2, sc.counts[propModel])
	assert.Equal(t, 2, sc.counts[oppModel])
}

func TestRunCapOverridesContinuePreference(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE", "final synthesis")
	sink := &recordingSink{}

	result, err := newTestController("Test topic", 1, sc, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Rounds)
	assert.Equal(t, 3, result.Transcript.Len())
	require.Len(t, sink.results, 1)
	// One evaluation plus one summary, despite the CONTINUE verdict.
	assert.Equal(t, 2, sc.counts[modModel])
}

func TestRunTranscriptOrdering(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE", "CONTINUE", "DONE", "final synthesis")

	result, err := newTestController("Test topic", 5, sc, nil).Run(context.Background())
	require.NoError(t, err)

	turns := result.Transcript.Turns()
	require.Len(t, turns, 9)

	order := []types.Role{types.RoleProponent, types.RoleOpponent, types.RoleModerator}
	for i, turn := range turns {
		assert.Equal(t, i/3+1, turn.Round, "turn %d round", i)
		assert.Equal(t, order[i%3], turn.Role, "turn %d role", i)
		if turn.Role == types.RoleModerator {
			assert.True(t, turn.IsEvaluation(), "moderator turn %d carries a decision", i)
		} else {
			assert.Equal(t, types.DecisionNone, turn.Decision, "turn %d has no decision", i)
		}
	}
}

func TestRunContextMonotonicity(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(propModel, "proponent argument one", "proponent argument two")
	sc.script(oppModel, "opponent critique one", "opponent critique two")
	sc.script(modModel, "CONTINUE", "DONE", "final synthesis")

	_, err := newTestController("Test topic", 5, sc, nil).Run(context.Background())
	require.NoError(t, err)

	propCalls := sc.callsFor(propModel)
	oppCalls := sc.callsFor(oppModel)
	require.Len(t, propCalls, 2)
	require.Len(t, oppCalls, 2)

	// Round 1: the opponent sees the proponent's fresh turn, which the
	// proponent's own prompt could not contain.
	assert.NotContains(t, propCalls[0].user, "proponent argument one")
	assert.Contains(t, oppCalls[0].user, "proponent argument one")

	// Round 2 prompts contain every turn from round 1.
	for _, text := range []string{"proponent argument one", "opponent critique one", "CONTINUE"} {
		assert.Contains(t, propCalls[1].user, text)
	}

	// And the round 2 opponent additionally sees the round 2 proponent.
	assert.Contains(t, oppCalls[1].user, "proponent argument two")
	assert.NotContains(t, propCalls[1].user, "proponent argument two")
}

func TestRunEndToEndTwoRounds(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE", "DONE", "final synthesis")
	sink := &recordingSink{}

	result, err := newTestController("Test topic", 2, sc, sink).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, 6, result.Transcript.Len())
	assert.Len(t, sink.turns, 6)
	require.Len(t, sink.results, 1)
	assert.Equal(t, "final synthesis", sink.results[0].Summary)
	// Exactly one summary invocation after two evaluations.
	assert.Equal(t, 3, sc.counts[modModel])
	assert.Empty(t, sink.anomalies)
}

func TestRunAbortsWhenOpponentFails(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "CONTINUE")
	sc.failAt[oppModel] = 2
	sink := &recordingSink{}

	result, err := newTestController("Test topic", 3, sc, sink).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)

	var completionErr *llm.CompletionError
	require.ErrorAs(t, err, &completionErr)
	assert.Equal(t, oppModel, completionErr.Model)

	// Round 1 is complete, round 2 has only the proponent.
	require.Len(t, sink.turns, 4)
	assert.Equal(t, types.RoleProponent, sink.turns[3].Role)
	assert.Equal(t, 2, sink.turns[3].Round)
	assert.Empty(t, sink.results)
}

func TestRunRecordsAmbiguousDecision(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "Let's wrap up soon.", "final synthesis")
	sink := &recordingSink{}

	result, err := newTestController("Test topic", 5, sc, sink).Run(context.Background())
	require.NoError(t, err)

	// Ambiguity resolves to DONE: one round, run still succeeds.
	assert.Equal(t, 1, result.Rounds)
	require.Len(t, sink.anomalies, 1)
	assert.Contains(t, sink.anomalies[0], "defaulting to DONE")

	turns := result.Transcript.Turns()
	assert.Equal(t, types.DecisionDone, turns[2].Decision)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := newScriptedCompleter()
	sink := &recordingSink{}

	result, err := newTestController("Test topic", 3, sc, sink).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, result)
	assert.Empty(t, sink.turns)
	assert.Empty(t, sc.calls)
}

func TestRunPromptCarriesPersonaAndTopic(t *testing.T) {
	sc := newScriptedCompleter()
	sc.script(modModel, "DONE", "final synthesis")

	_, err := newTestController("Should cats rule the world?", 3, sc, nil).Run(context.Background())
	require.NoError(t, err)

	propCalls := sc.callsFor(propModel)
	require.NotEmpty(t, propCalls)
	assert.Contains(t, propCalls[0].system, "Proponent")
	assert.Contains(t, propCalls[0].system, "argue for")
	assert.Contains(t, propCalls[0].system, "an advocate")
	assert.Contains(t, propCalls[0].user, "Should cats rule the world?")

	modCalls := sc.callsFor(modModel)
	require.Len(t, modCalls, 2)
	assert.Contains(t, modCalls[0].user, "CONTINUE")
	assert.Contains(t, modCalls[0].user, "DONE")
	assert.Contains(t, modCalls[1].user, "balanced, comprehensive summary")
}
