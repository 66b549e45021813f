package agent

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/gosuda/aicrm/internal/domain"
)

// Template variables.
const (
	varToday = "today"
	varInput = "input"
)

// Templates are rendered with schema.FString, so literal braces must not
// appear in the static text.
var plannerSystemPrompt = `You are the assistant inside a CRM used by pharmaceutical sales representatives.
Today's date is {today}.

Pick exactly one tool for the user's message:
- log_interaction: the user describes a meeting, call, email or visit with a healthcare professional.
- edit_interaction: the user wants to change a previously logged interaction. Use the interaction id they give or the one from the system context.
- query_hcp_history: the user asks what happened with, or when they last met, a healthcare professional.
- suggest_next_best_action: the user asks what to do next with a healthcare professional.
- fetch_clinical_data: the user asks about a drug or product.

Only fill arguments with facts the user stated. Use null for anything not mentioned.
Allowed interaction types: ` + strings.Join(domain.ValidInteractionTypes, ", ") + `.
Allowed sentiments: ` + strings.Join(domain.ValidSentiments, ", ") + `.
Dates are YYYY-MM-DD and times are 24h HH:mm.
If no tool fits, answer the user briefly in plain text instead.`

var extractorSystemPrompt = `You extract structured CRM records from a sales representative's notes about a healthcare professional.
Today's date is {today}. Convert relative dates such as "yesterday" into YYYY-MM-DD.

Always call the ` + ExtractionToolName + ` tool exactly once.
Fill a field only when the notes state it explicitly. Emit null for anything not explicitly stated.
Allowed interaction types: ` + strings.Join(domain.ValidInteractionTypes, ", ") + `.
Allowed sentiments: ` + strings.Join(domain.ValidSentiments, ", ") + `.
Times are 24h HH:mm.`

func newTemplate(system string) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage("{"+varInput+"}"),
	)
}

// ContextHint renders the hint that tells the model which record the user
// is looking at. It returns "" when no record is open.
func ContextHint(currentInteractionID *int64) string {
	if currentInteractionID == nil {
		return ""
	}
	return fmt.Sprintf("[System Context: The user is currently viewing interaction with ID %d. "+
		"If they say 'this interaction', use this ID.]\n\n", *currentInteractionID)
}
