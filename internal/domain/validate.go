package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateInteractionType accepts nil or one of ValidInteractionTypes.
func ValidateInteractionType(v *string) error {
	if v == nil || slices.Contains(ValidInteractionTypes, *v) {
		return nil
	}
	return &FieldError{
		Field:  FieldInteractionType,
		Value:  *v,
		Reason: "must be one of " + strings.Join(ValidInteractionTypes, ", "),
		Err:    ErrInvalidEnumValue,
	}
}

// ValidateSentiment accepts nil or one of ValidSentiments.
func ValidateSentiment(v *string) error {
	if v == nil || slices.Contains(ValidSentiments, *v) {
		return nil
	}
	return &FieldError{
		Field:  FieldObservedSentiment,
		Value:  *v,
		Reason: "must be one of " + strings.Join(ValidSentiments, ", "),
		Err:    ErrInvalidEnumValue,
	}
}

// ValidateTime accepts nil or a 24h HH:mm time.
func ValidateTime(v *string) error {
	if v == nil || timeOfDay.MatchString(*v) {
		return nil
	}
	return &FieldError{
		Field:  FieldInteractionTime,
		Value:  *v,
		Reason: "must be HH:mm (24h)",
		Err:    ErrInvalidFormat,
	}
}

// ValidateDate accepts nil or a calendar date in YYYY-MM-DD form.
func ValidateDate(v *string) error {
	if v == nil {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, *v); err == nil {
		return nil
	}
	return &FieldError{
		Field:  FieldInteractionDate,
		Value:  *v,
		Reason: "must be a date in YYYY-MM-DD form",
		Err:    ErrInvalidFormat,
	}
}

// Validate checks hcp_name and every constrained optional field.
func (f *InteractionFields) Validate() error {
	if strings.TrimSpace(f.HCPName) == "" {
		return &FieldError{Field: FieldHCPName, Reason: "must not be empty", Err: ErrInvalidFormat}
	}
	if err := ValidateInteractionType(f.InteractionType); err != nil {
		return err
	}
	if err := ValidateDate(f.InteractionDate); err != nil {
		return err
	}
	if err := ValidateTime(f.InteractionTime); err != nil {
		return err
	}
	return ValidateSentiment(f.ObservedSentiment)
}
