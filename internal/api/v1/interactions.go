package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/domain"
)

const defaultListLimit = 100

// InteractionBody is a candidate record as confirmed in the UI form.
type InteractionBody struct {
	HCPName           string  `json:"hcp_name" minLength:"1" doc:"Healthcare professional name"`
	InteractionType   *string `json:"interaction_type,omitempty" nullable:"true" enum:"Scheduled Visit,Unscheduled Visit,Phone Call,Email,Conference" doc:"Interaction type"`
	InteractionDate   *string `json:"interaction_date,omitempty" nullable:"true" doc:"Date in YYYY-MM-DD form"`
	InteractionTime   *string `json:"interaction_time,omitempty" nullable:"true" doc:"24h time in HH:mm form"`
	Attendees         *string `json:"attendees,omitempty" nullable:"true" doc:"Who attended"`
	TopicsDiscussed   *string `json:"topics_discussed,omitempty" nullable:"true" doc:"Topics discussed"`
	MaterialsShared   *string `json:"materials_shared,omitempty" nullable:"true" doc:"Materials or samples shared"`
	ObservedSentiment *string `json:"observed_sentiment,omitempty" nullable:"true" enum:"Positive,Neutral,Negative,Inquisitive" doc:"Observed sentiment"`
	Outcomes          *string `json:"outcomes,omitempty" nullable:"true" doc:"Outcomes"`
	FollowUpActions   *string `json:"follow_up_actions,omitempty" nullable:"true" doc:"Follow-up actions"`
}

func (b *InteractionBody) fields() *domain.InteractionFields {
	return &domain.InteractionFields{
		HCPName:           b.HCPName,
		InteractionType:   b.InteractionType,
		InteractionDate:   b.InteractionDate,
		InteractionTime:   b.InteractionTime,
		Attendees:         b.Attendees,
		TopicsDiscussed:   b.TopicsDiscussed,
		MaterialsShared:   b.MaterialsShared,
		ObservedSentiment: b.ObservedSentiment,
		Outcomes:          b.Outcomes,
		FollowUpActions:   b.FollowUpActions,
	}
}

type CreateInteractionInput struct {
	Body InteractionBody
}

type CreateInteractionOutput struct {
	Body *domain.Interaction
}

type ListInteractionsInput struct {
	Skip    int    `query:"skip" minimum:"0" default:"0" doc:"Number of records to skip"`
	Limit   int    `query:"limit" minimum:"1" maximum:"1000" default:"100" doc:"Maximum number of records"`
	HCPName string `query:"hcp_name" doc:"Case-insensitive substring of the HCP name"`
}

type ListInteractionsOutput struct {
	Body []*domain.Interaction
}

type GetInteractionInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Interaction ID"`
}

type GetInteractionOutput struct {
	Body *domain.Interaction
}

type UpdateInteractionInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Interaction ID"`
	Body map[string]any
}

type UpdateInteractionOutput struct {
	Body *domain.Interaction
}

func RegisterInteractionRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-interaction",
		Method:        http.MethodPost,
		Path:          "/interactions",
		Summary:       "Save a confirmed interaction",
		Tags:          []string{"Interactions"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateInteractionInput) (*CreateInteractionOutput, error) {
		fields := input.Body.fields()
		if err := fields.Validate(); err != nil {
			return nil, validationError(err)
		}

		it, err := store.Interactions().Create(ctx, fields)
		if err != nil {
			return nil, internalError("create interaction", err)
		}

		return &CreateInteractionOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-interactions",
		Method:      http.MethodGet,
		Path:        "/interactions",
		Summary:     "List interactions, newest first",
		Tags:        []string{"Interactions"},
	}, func(ctx context.Context, input *ListInteractionsInput) (*ListInteractionsOutput, error) {
		limit := input.Limit
		if limit == 0 {
			limit = defaultListLimit
		}

		items, err := store.Interactions().List(ctx, domain.InteractionFilter{
			HCPName: input.HCPName,
			Limit:   limit,
			Offset:  input.Skip,
		})
		if err != nil {
			return nil, internalError("list interactions", err)
		}
		if items == nil {
			items = []*domain.Interaction{}
		}

		return &ListInteractionsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-interaction",
		Method:      http.MethodGet,
		Path:        "/interactions/{id}",
		Summary:     "Get an interaction by ID",
		Tags:        []string{"Interactions"},
	}, func(ctx context.Context, input *GetInteractionInput) (*GetInteractionOutput, error) {
		it, err := store.Interactions().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("interaction not found")
			}
			return nil, internalError("get interaction", err)
		}

		return &GetInteractionOutput{Body: it}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-interaction",
		Method:      http.MethodPatch,
		Path:        "/interactions/{id}",
		Summary:     "Partially update an interaction",
		Description: "Keys outside the field schema are ignored. A null value clears an optional field.",
		Tags:        []string{"Interactions"},
	}, func(ctx context.Context, input *UpdateInteractionInput) (*UpdateInteractionOutput, error) {
		patch, ignored, err := domain.ParsePatch(input.Body)
		if err != nil {
			return nil, validationError(err)
		}
		if len(ignored) > 0 {
			log.Debug().Int64("interaction_id", input.ID).Strs("ignored", ignored).Msg("api: update ignored unknown fields")
		}

		if len(patch) == 0 {
			if _, err := store.Interactions().GetByID(ctx, input.ID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("interaction not found")
				}
				return nil, internalError("get interaction", err)
			}
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("no valid fields to update for interaction %d", input.ID))
		}

		it, err := store.Interactions().Update(ctx, input.ID, patch)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("interaction not found")
			}
			return nil, internalError("update interaction", err)
		}

		return &UpdateInteractionOutput{Body: it}, nil
	})
}
