package agent

import (
	"github.com/cloudwego/eino/schema"

	"github.com/gosuda/aicrm/internal/domain"
)

// ExtractionToolName is the single tool the extractor binds.
const ExtractionToolName = "record_interaction"

func fieldParams(requireName bool) map[string]*schema.ParameterInfo {
	text := func(desc string) *schema.ParameterInfo {
		return &schema.ParameterInfo{Type: schema.String, Desc: desc}
	}

	return map[string]*schema.ParameterInfo{
		domain.FieldHCPName: {
			Type:     schema.String,
			Desc:     "Full name of the healthcare professional, e.g. Dr. Sharma.",
			Required: requireName,
		},
		domain.FieldInteractionType: {
			Type: schema.String,
			Desc: "Kind of touchpoint.",
			Enum: domain.ValidInteractionTypes,
		},
		domain.FieldInteractionDate: text("Date of the interaction as YYYY-MM-DD. Resolve relative dates against today's date."),
		domain.FieldInteractionTime: text("Time of the interaction as 24h HH:mm."),
		domain.FieldAttendees:       text("Other people present, comma separated."),
		domain.FieldTopicsDiscussed: text("Key discussion points."),
		domain.FieldMaterialsShared: text("Brochures, samples or documents handed over."),
		domain.FieldObservedSentiment: {
			Type: schema.String,
			Desc: "The HCP's attitude during the interaction.",
			Enum: domain.ValidSentiments,
		},
		domain.FieldOutcomes:        text("Agreements or results of the interaction."),
		domain.FieldFollowUpActions: text("Next steps the rep committed to."),
	}
}

// ExtractionTool describes the full interaction record as one tool call.
func ExtractionTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        ExtractionToolName,
		Desc:        "Record the structured details of one HCP interaction. Use null for anything not explicitly stated.",
		ParamsOneOf: schema.NewParamsOneOfByParams(fieldParams(true)),
	}
}

// ActionTools are the five actions the planner chooses between.
func ActionTools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        domain.ActionLogInteraction,
			Desc:        "Log a new interaction with an HCP from the user's description.",
			ParamsOneOf: schema.NewParamsOneOfByParams(fieldParams(true)),
		},
		{
			Name: domain.ActionEditInteraction,
			Desc: "Change fields of an existing interaction. Only include the fields the user wants changed.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"interaction_id": {
					Type:     schema.Integer,
					Desc:     "Numeric id of the interaction to edit.",
					Required: true,
				},
				"updates": {
					Type:      schema.Object,
					Desc:      "Map of field name to new value.",
					SubParams: fieldParams(false),
					Required:  true,
				},
			}),
		},
		{
			Name: domain.ActionQueryHCPHistory,
			Desc: "Look up the most recent logged interaction with an HCP.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				domain.FieldHCPName: {Type: schema.String, Desc: "Name or part of the name of the HCP.", Required: true},
			}),
		},
		{
			Name: domain.ActionSuggestNextBest,
			Desc: "Suggest the next best action for an HCP based on their interaction history.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				domain.FieldHCPName: {Type: schema.String, Desc: "Name or part of the name of the HCP.", Required: true},
			}),
		},
		{
			Name: domain.ActionFetchClinicalData,
			Desc: "Fetch clinical trial or product information for a drug.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {Type: schema.String, Desc: "Product or drug name, e.g. Valcor.", Required: true},
			}),
		},
	}
}
