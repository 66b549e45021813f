package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Field names, matching both the JSON keys and the column names.
const (
	FieldHCPName           = "hcp_name"
	FieldInteractionType   = "interaction_type"
	FieldInteractionDate   = "interaction_date"
	FieldInteractionTime   = "interaction_time"
	FieldAttendees         = "attendees"
	FieldTopicsDiscussed   = "topics_discussed"
	FieldMaterialsShared   = "materials_shared"
	FieldObservedSentiment = "observed_sentiment"
	FieldOutcomes          = "outcomes"
	FieldFollowUpActions   = "follow_up_actions"
)

var fieldNames = []string{ //nolint:gochecknoglobals // allow-list of updatable fields
	FieldHCPName,
	FieldInteractionType,
	FieldInteractionDate,
	FieldInteractionTime,
	FieldAttendees,
	FieldTopicsDiscussed,
	FieldMaterialsShared,
	FieldObservedSentiment,
	FieldOutcomes,
	FieldFollowUpActions,
}

// Fields returns the updatable field names in schema order.
func Fields() []string {
	return slices.Clone(fieldNames)
}

// IsField reports whether name is an updatable interaction field.
// id and created_at are not.
func IsField(name string) bool {
	return slices.Contains(fieldNames, name)
}

// InteractionPatch maps field names to new values. A nil value clears the field.
type InteractionPatch map[string]*string

// Keys returns the patched field names sorted, so generated SQL is stable.
func (p InteractionPatch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply copies the patched values onto f. Unknown keys are skipped.
func (f *InteractionFields) Apply(p InteractionPatch) {
	for name, v := range p {
		if name == FieldHCPName {
			if v != nil {
				f.HCPName = *v
			}
			continue
		}
		if ptr := f.optional(name); ptr != nil {
			*ptr = v
		}
	}
}

// Value returns the current value of the named field, nil when unset or unknown.
func (f *InteractionFields) Value(name string) *string {
	if name == FieldHCPName {
		return &f.HCPName
	}
	if ptr := f.optional(name); ptr != nil {
		return *ptr
	}
	return nil
}

func (f *InteractionFields) optional(name string) **string {
	switch name {
	case FieldInteractionType:
		return &f.InteractionType
	case FieldInteractionDate:
		return &f.InteractionDate
	case FieldInteractionTime:
		return &f.InteractionTime
	case FieldAttendees:
		return &f.Attendees
	case FieldTopicsDiscussed:
		return &f.TopicsDiscussed
	case FieldMaterialsShared:
		return &f.MaterialsShared
	case FieldObservedSentiment:
		return &f.ObservedSentiment
	case FieldOutcomes:
		return &f.Outcomes
	case FieldFollowUpActions:
		return &f.FollowUpActions
	default:
		return nil
	}
}

// ParsePatch converts a loosely typed update map (decoded JSON) into a
// validated patch. Keys outside the allow-list are returned in ignored.
// Known keys must carry a string or null; hcp_name may not be cleared.
func ParsePatch(raw map[string]any) (InteractionPatch, []string, error) {
	patch := make(InteractionPatch, len(raw))
	var ignored []string

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if !IsField(name) {
			ignored = append(ignored, name)
			continue
		}

		var value *string
		switch v := raw[name].(type) {
		case nil:
		case string:
			value = &v
		default:
			return nil, ignored, &FieldError{
				Field:  name,
				Value:  fmt.Sprint(v),
				Reason: "must be a string or null",
				Err:    ErrInvalidFormat,
			}
		}

		if err := validateField(name, value); err != nil {
			return nil, ignored, err
		}
		patch[name] = value
	}

	return patch, ignored, nil
}

// NewInteractionFields builds a validated candidate record from a loosely
// typed map. hcp_name is required; unknown keys are returned in ignored.
func NewInteractionFields(raw map[string]any) (*InteractionFields, []string, error) {
	patch, ignored, err := ParsePatch(raw)
	if err != nil {
		return nil, ignored, err
	}
	if _, ok := patch[FieldHCPName]; !ok {
		return nil, ignored, &FieldError{Field: FieldHCPName, Reason: "is required", Err: ErrInvalidFormat}
	}

	var f InteractionFields
	f.Apply(patch)
	return &f, ignored, nil
}

func validateField(name string, v *string) error {
	switch name {
	case FieldHCPName:
		if v == nil || strings.TrimSpace(*v) == "" {
			return &FieldError{Field: FieldHCPName, Reason: "must not be empty", Err: ErrInvalidFormat}
		}
		return nil
	case FieldInteractionType:
		return ValidateInteractionType(v)
	case FieldObservedSentiment:
		return ValidateSentiment(v)
	case FieldInteractionDate:
		return ValidateDate(v)
	case FieldInteractionTime:
		return ValidateTime(v)
	default:
		return nil
	}
}
