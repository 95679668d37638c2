package debate

import (
	"fmt"
	"strings"

	"github.com/u1i/crewai-debate/pkg/types"
)

// ProponentInstructions returns the Proponent's task for the given round:
// an opening argument in round 1, a rebuttal afterwards.
func ProponentInstructions(round int) string {
	if round == 1 {
		return `This is your opening statement. Build a strong, well-reasoned opening argument in favor of the topic. Your argument should:
- Be logically structured and coherent
- Include supporting evidence and reasoning
- Address potential counterarguments
- Be persuasive and compelling

Present your complete opening argument clearly and thoroughly.`
	}

	return fmt.Sprintf(`Round %d: Defend your position and respond to the Opponent's critique. The Opponent has challenged your argument. Now you must:
- Address their specific criticisms directly
- Strengthen your position with additional evidence or reasoning
- Refute their counterarguments
- Clarify any misunderstandings
- Reinforce the strongest points of your case

Provide a strong rebuttal that defends and strengthens your position.`, round)
}

// OpponentInstructions returns the Opponent's critique task for the given
// round.
func OpponentInstructions(round int) string {
	return fmt.Sprintf(`Round %d: Critically analyze and respond to the Proponent's argument. Review the Proponent's most recent argument and the full debate history. Consider:
- Identify logical fallacies or weak reasoning in their current and previous arguments
- Point out unsupported claims or assumptions
- Highlight gaps in evidence or reasoning
- Note any inconsistencies or contradictions across their statements
- Present strong counterarguments
- Expose vulnerabilities in their position

Provide a detailed critique and counterargument. Be specific and direct in your response.`, round)
}

// EvaluationInstructions returns the Moderator's continue/stop task. The
// response must contain the token CONTINUE or DONE.
func EvaluationInstructions(round, maxRounds int) string {
	return fmt.Sprintf(`You have observed %d round(s) of debate. Review the exchange so far and decide:

1. Has the debate reached sufficient depth and resolution?
2. Are there still important points that need to be addressed?
3. Would additional rounds add value, or is the discussion becoming repetitive?

IMPORTANT: Respond with ONLY one word: "CONTINUE" if more debate is needed, or "DONE" if the debate has reached sufficient depth. Maximum rounds allowed: %d.

If this is round %d, you must respond with "DONE".`, round, maxRounds, maxRounds)
}

// SummaryInstructions returns the Moderator's final synthesis task.
func SummaryInstructions() string {
	return `Review the entire debate exchange and write a balanced, comprehensive summary that:
- Fairly represents both perspectives across all rounds
- Highlights the key points and arguments from each side
- Identifies the strengths and weaknesses of each position
- Notes how the debate evolved through the rounds
- Provides an objective assessment of the overall discussion
- Offers insights into which side made stronger points

Your summary should be clear, balanced, and useful for understanding the full debate.`
}

// RenderTranscript formats the full debate history for use in prompts.
// Every prior turn appears in order with its round and role.
func RenderTranscript(transcript *types.Transcript) string {
	if transcript.Len() == 0 {
		return "(the debate has not started yet)"
	}

	var sb strings.Builder
	for _, turn := range transcript.Turns() {
		if turn.IsEvaluation() {
			sb.WriteString(fmt.Sprintf("[Round %d] %s (evaluation): %s\n\n", turn.Round, turn.Role, turn.Text))
		} else {
			sb.WriteString(fmt.Sprintf("[Round %d] %s:\n%s\n\n", turn.Round, turn.Role, turn.Text))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
