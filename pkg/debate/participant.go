package debate

import (
	"context"
	"fmt"

	"github.com/u1i/crewai-debate/pkg/llm"
	"github.com/u1i/crewai-debate/pkg/types"
)

// Participant is a single debate role: one persona configuration backed by
// one model through the shared completion service. All three roles are
// instances of this one type; the per-role differences live entirely in
// the configuration and the instructions passed to Respond.
type Participant struct {
	Config    types.ParticipantConfig
	Completer llm.Completer
}

// NewParticipant creates a participant for the given role configuration.
func NewParticipant(cfg types.ParticipantConfig, completer llm.Completer) Participant {
	return Participant{Config: cfg, Completer: completer}
}

// Respond builds one completion request from the participant's persona,
// the topic, the full transcript so far, and the role-specific
// instructions, invokes the completion service synchronously, and returns
// the raw text. It does not mutate the transcript; the caller appends the
// result.
func (p Participant) Respond(ctx context.Context, topic string, transcript *types.Transcript, instructions string) (string, error) {
	return p.Completer.Complete(ctx, p.systemPreamble(), BuildUserContent(topic, transcript, instructions), p.Config.Model)
}

func (p Participant) systemPreamble() string {
	return fmt.Sprintf("You are the %s in a moderated debate.\n\nYour goal: %s\n\nBackstory: %s",
		p.Config.Name, p.Config.Goal, p.Config.Backstory)
}

// BuildUserContent assembles the user-facing prompt body: the topic, the
// rendered debate history, and the instructions for this turn.
func BuildUserContent(topic string, transcript *types.Transcript, instructions string) string {
	return fmt.Sprintf("Topic: %s\n\nDebate so far:\n%s\n\nInstructions:\n%s",
		topic, RenderTranscript(transcript), instructions)
}
