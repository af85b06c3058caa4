package utils

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ValidationError names the field that failed and why
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

// Validator represents a validation function
type Validator[T any] func(T) error

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotBlank rejects strings that are empty or only whitespace
func NotBlank(field string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Field: field, Value: value, Message: "cannot be empty"}
		}
		return nil
	}
}

// Positive rejects zero and negative numbers
func Positive(field string) Validator[int] {
	return func(value int) error {
		if value <= 0 {
			return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("must be positive, got %d", value)}
		}
		return nil
	}
}

// NonNegative rejects negative numbers
func NonNegative(field string) Validator[int] {
	return func(value int) error {
		if value < 0 {
			return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("cannot be negative, got %d", value)}
		}
		return nil
	}
}

// IsOneOf validates that a value is one of the allowed values
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, allowedValue := range allowed {
			if value == allowedValue {
				return nil
			}
		}
		return ValidationError{Field: field, Value: value, Message: fmt.Sprintf("must be one of: %v", allowed)}
	}
}

// ValidateEach validates every item and reports the first failure as field[i]
func ValidateEach[T any](field string, itemValidator Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for i, item := range value {
			if err := itemValidator(item); err != nil {
				message := err.Error()
				var verr ValidationError
				if stderrors.As(err, &verr) {
					message = verr.Message
				}
				return ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Value: item, Message: message}
			}
		}
		return nil
	}
}

// Custom validates using a custom function
func Custom[T any](field string, message string, validatorFunc func(T) bool) Validator[T] {
	return func(value T) error {
		if !validatorFunc(value) {
			return ValidationError{Field: field, Value: value, Message: message}
		}
		return nil
	}
}
