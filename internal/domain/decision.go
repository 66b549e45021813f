package domain

// Actions a DispatchDecision can select.
const (
	ActionLogInteraction    = "log_interaction"
	ActionEditInteraction   = "edit_interaction"
	ActionQueryHCPHistory   = "query_hcp_history"
	ActionSuggestNextBest   = "suggest_next_best_action"
	ActionFetchClinicalData = "fetch_clinical_data"
	ActionDirectReply       = "direct_reply"
)

// DispatchDecision is the planner's single choice for one user request.
// Reply is only meaningful for ActionDirectReply.
type DispatchDecision struct {
	Action    string
	Arguments map[string]any
	Reply     string
}
