package debate

import (
	"regexp"
	"strings"

	"github.com/u1i/crewai-debate/pkg/types"
)

// decisionToken matches CONTINUE or DONE as a whole word, case-insensitive.
// Word boundaries keep "continuing" or "overdone" from matching.
var decisionToken = regexp.MustCompile(`(?i)\b(continue|done)\b`)

// ParseDecision extracts the Moderator's verdict from free text. The first
// whole-token occurrence of CONTINUE or DONE wins. When neither token is
// present the result defaults to Done and ok is false, so the caller can
// record the ambiguity before stopping.
func ParseDecision(raw string) (decision types.Decision, ok bool) {
	match := decisionToken.FindString(raw)
	if match == "" {
		return types.DecisionDone, false
	}
	if strings.EqualFold(match, "continue") {
		return types.DecisionContinue, true
	}
	return types.DecisionDone, true
}
