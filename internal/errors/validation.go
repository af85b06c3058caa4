package errors

import "fmt"

// InvalidArgumentError represents a rejected constructor or function argument
type InvalidArgumentError struct {
	*BaseError
	Argument string      // name of the offending argument
	Value    interface{} // value that was rejected
}

// NewInvalidArgumentError creates a new invalid-argument error
func NewInvalidArgumentError(argument string, value interface{}, reason string) *InvalidArgumentError {
	message := fmt.Sprintf("invalid argument '%s': %s", argument, reason)

	return &InvalidArgumentError{
		BaseError: New(InvalidArgumentErrorCode, message).
			WithContext("argument", argument),
		Argument: argument,
		Value:    value,
	}
}

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	*BaseError
	Token    string // the token that caused the error
	Position int    // position in the input where error occurred
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// NewSyntaxErrorWithToken creates a syntax error with token information
func NewSyntaxErrorWithToken(message, token string, position int) *SyntaxError {
	if token != "" {
		message = fmt.Sprintf("%s (near token '%s')", message, token)
	}

	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
		Token:     token,
		Position:  position,
	}
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds an underlying error cause
func (e *SyntaxError) WithCause(cause error) *SyntaxError {
	e.BaseError.WithCause(cause)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// ResolutionError represents a violation of the class resolution protocol
type ResolutionError struct {
	*BaseError
	ClassName string // internal name being resolved
	PassID    string // resolution pass that detected the problem
}

// NewResolutionError creates a new resolution error
func NewResolutionError(className, passID, reason string) *ResolutionError {
	message := fmt.Sprintf("cannot resolve '%s' in pass %s: %s", className, passID, reason)

	return &ResolutionError{
		BaseError: New(ResolutionErrorCode, message).
			WithContext("class_name", className).
			WithContext("pass_id", passID),
		ClassName: className,
		PassID:    passID,
	}
}
