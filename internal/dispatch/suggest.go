package dispatch

import (
	"fmt"

	"github.com/gosuda/aicrm/internal/domain"
)

// SuggestNextAction applies the next-best-action rules to history, which
// must be ordered most recent first. The first matching rule wins.
func SuggestNextAction(hcpName string, history []*domain.Interaction) string {
	if len(history) == 0 {
		return fmt.Sprintf("No history for %s. Suggestion: Schedule intro meeting.", hcpName)
	}

	latest := history[0]
	if v := latest.FollowUpActions; v != nil && *v != "" {
		return fmt.Sprintf("Last to-do was: '%s'. Suggestion: Complete this.", *v)
	}
	if v := latest.ObservedSentiment; v != nil && *v == domain.SentimentNegative {
		return "Last sentiment was Negative. Suggestion: Schedule call to address concerns."
	}

	date := "an unknown date"
	if latest.InteractionDate != nil && *latest.InteractionDate != "" {
		date = *latest.InteractionDate
	}
	return fmt.Sprintf("Last interaction with %s was on %s. Suggestion: Plan a check-in.", hcpName, date)
}
