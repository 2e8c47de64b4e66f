// =============================================================================
// Invoice Automation - Error Taxonomy
// =============================================================================
//
// Every failure that reaches the operator is classified into one of five
// kinds. The kind decides how the operator surface reacts:
//   - MissingInput: a required header field is empty; fix it and retry
//   - Structural:   the file, its columns or the template table are unusable;
//                   the session cannot continue with this input
//   - Validation:   a single edit or row is rejected; the session continues
//   - IO:           saving failed (permissions, locked file); retry the save
//   - Unknown:      anything else; reported with the raw detail
//
// Row-level extraction failures never become errors. They are collected as
// diagnostics by the extractor and only logged.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind classifies an Error.
type Kind int

const (
	// Unknown is the zero value so unclassified errors fall into it.
	Unknown Kind = iota
	MissingInput
	Structural
	Validation
	IO
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing input"
	case Structural:
		return "structural error"
	case Validation:
		return "validation error"
	case IO:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is a classified failure with enough context to tell the operator
// what went wrong and where.
type Error struct {
	// Kind is the category of the failure.
	Kind Kind

	// Op is the operation that failed ("load", "edit", "assemble", "export").
	Op string

	// Message is the human-readable description.
	Message string

	// Field is the name of the offending field, if any.
	Field string

	// Value is the offending value, if any.
	Value string

	// Customer names the row the failure belongs to, if any.
	Customer string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Customer != "" {
		fmt.Fprintf(&b, " (customer %q)", e.Customer)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [field %s", e.Field)
		if e.Value != "" {
			fmt.Fprintf(&b, ", value %q", e.Value)
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewMissingInput reports an empty required header field.
func NewMissingInput(op, field, message string) *Error {
	return &Error{Kind: MissingInput, Op: op, Field: field, Message: message}
}

// NewStructural reports an unusable file, sheet layout or template.
func NewStructural(op, message string, err error) *Error {
	return &Error{Kind: Structural, Op: op, Message: message, Err: err}
}

// NewValidation reports a rejected value.
func NewValidation(op, field, value, message string) *Error {
	return &Error{Kind: Validation, Op: op, Field: field, Value: value, Message: message}
}

// NewIO reports a failed read or write of an output file.
func NewIO(op, message string, err error) *Error {
	return &Error{Kind: IO, Op: op, Message: message, Err: err}
}

// NewUnknown wraps an unanticipated failure.
func NewUnknown(op string, err error) *Error {
	return &Error{Kind: Unknown, Op: op, Message: "unexpected failure", Err: err}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// OperatorMessage turns err into the text shown to the operator. Unknown
// failures get a contact hint appended.
func OperatorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("An error occurred: %v. Contact the developer.", err)
	}

	switch e.Kind {
	case Unknown:
		return fmt.Sprintf("An error occurred: %v. Contact the developer.", err)
	case MissingInput:
		return "Missing information: " + e.Message
	default:
		return strings.ToUpper(e.Kind.String()[:1]) + e.Kind.String()[1:] + ": " + err.Error()
	}
}
