package debate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/u1i/crewai-debate/pkg/types"
)

func TestProponentInstructionsByRound(t *testing.T) {
	opening := ProponentInstructions(1)
	assert.Contains(t, opening, "opening statement")

	rebuttal := ProponentInstructions(3)
	assert.Contains(t, rebuttal, "Round 3")
	assert.Contains(t, rebuttal, "rebuttal")
	assert.NotContains(t, rebuttal, "opening statement")
}

func TestEvaluationInstructionsMentionCapAndTokens(t *testing.T) {
	got := EvaluationInstructions(2, 4)
	assert.Contains(t, got, "2 round(s)")
	assert.Contains(t, got, "Maximum rounds allowed: 4")
	assert.Contains(t, got, `"CONTINUE"`)
	assert.Contains(t, got, `"DONE"`)
}

func TestRenderTranscript(t *testing.T) {
	tr := types.NewTranscript()
	assert.Equal(t, "(the debate has not started yet)", RenderTranscript(tr))

	tr.Append(types.Turn{Round: 1, Role: types.RoleProponent, Text: "first argument"})
	tr.Append(types.Turn{Round: 1, Role: types.RoleOpponent, Text: "first critique"})
	tr.Append(types.Turn{Round: 1, Role: types.RoleModerator, Text: "CONTINUE", Decision: types.DecisionContinue})

	rendered := RenderTranscript(tr)
	assert.Contains(t, rendered, "[Round 1] Proponent:\nfirst argument")
	assert.Contains(t, rendered, "[Round 1] Opponent:\nfirst critique")
	assert.Contains(t, rendered, "[Round 1] Moderator (evaluation): CONTINUE")

	// Order is preserved.
	assert.Less(t,
		strings.Index(rendered, "first argument"),
		strings.Index(rendered, "first critique"),
	)
}

func TestBuildUserContent(t *testing.T) {
	tr := types.NewTranscript()
	tr.Append(types.Turn{Round: 1, Role: types.RoleProponent, Text: "the case"})

	got := BuildUserContent("Test topic", tr, "critique the above")
	assert.Contains(t, got, "Topic: Test topic")
	assert.Contains(t, got, "the case")
	assert.Contains(t, got, "critique the above")
}
