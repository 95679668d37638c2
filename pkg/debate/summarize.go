package debate

import (
	"context"

	"github.com/u1i/crewai-debate/pkg/types"
)

// Summarize asks the Moderator for one balanced synthesis over the full
// finalized transcript. It runs exactly once, after the round loop has
// terminated. A failure here loses only the synthesis; the transcript has
// already been delivered to the sinks turn by turn.
func Summarize(ctx context.Context, moderator Participant, topic string, transcript *types.Transcript) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return moderator.Respond(ctx, topic, transcript, SummaryInstructions())
}
