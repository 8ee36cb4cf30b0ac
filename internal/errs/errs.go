// =============================================================================
// Sales Aggregation - Error Taxonomy
// =============================================================================
//
// Every failure of a run is classified into exactly one Kind. The Kind decides
// the fixed human-readable message printed at the CLI boundary; the wrapped
// cause is kept for logs only and never shown to the operator.
//
// KINDS:
//   KindUnknown         : wrong argument count, I/O faults, non-numeric amounts
//   KindMissingFile     : a master definition file does not exist
//   KindInvalidFormat   : a master definition line has the wrong shape
//   KindNonConsecutive  : record file numbers have a gap or duplicate
//   KindRecordFormat    : a record file has the wrong line count
//   KindUnknownCode     : a record references a code missing from a master table
//   KindAmountOverflow  : a running total would reach the digit ceiling
//
// =============================================================================

package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a run failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingFile
	KindInvalidFormat
	KindNonConsecutive
	KindRecordFormat
	KindUnknownCode
	KindAmountOverflow
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingFile:
		return "MissingFile"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindNonConsecutive:
		return "NonConsecutiveFiles"
	case KindRecordFormat:
		return "RecordFormatInvalid"
	case KindUnknownCode:
		return "UnknownCode"
	case KindAmountOverflow:
		return "AmountOverflow"
	default:
		return "UnknownError"
	}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error is a classified run failure.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Dimension is the label of the dimension that failed ("branch",
	// "commodity"). Empty when the failure is not dimension specific.
	Dimension string

	// File is the base name of the offending record file, if any.
	File string

	// Digits is the total ceiling in digits, used by KindAmountOverflow.
	Digits int

	// Err is the underlying cause. Logged, never printed.
	Err error
}

// New creates an Error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// WithDimension sets the dimension label and returns the receiver.
func (e *Error) WithDimension(label string) *Error {
	e.Dimension = label
	return e
}

// WithFile sets the offending file name and returns the receiver.
func (e *Error) WithFile(name string) *Error {
	e.File = name
	return e
}

// WithDigits sets the digit ceiling reported by overflow errors.
func (e *Error) WithDigits(digits int) *Error {
	e.Digits = digits
	return e
}

// Name returns the kind name qualified by dimension where the taxonomy
// distinguishes them, e.g. "UnknownBranchCode".
func (e *Error) Name() string {
	if e.Kind == KindUnknownCode && e.Dimension != "" {
		return "Unknown" + title(e.Dimension) + "Code"
	}
	return e.Kind.String()
}

// Message renders the fixed operator-facing message for the error.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingFile:
		return fmt.Sprintf("%s definition file does not exist", e.dimension())
	case KindInvalidFormat:
		return fmt.Sprintf("%s definition file has an invalid format", e.dimension())
	case KindNonConsecutive:
		return "sales file names are not consecutive"
	case KindRecordFormat:
		return fmt.Sprintf("%s has an invalid format", e.File)
	case KindUnknownCode:
		return fmt.Sprintf("%s has an invalid %s code", e.File, e.dimension())
	case KindAmountOverflow:
		digits := e.Digits
		if digits == 0 {
			digits = 10
		}
		return fmt.Sprintf("total amount exceeded %d digits", digits)
	default:
		return "an unexpected error occurred"
	}
}

// Error implements the error interface. Unlike Message it includes the cause.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name(), e.Message(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name(), e.Message())
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) dimension() string {
	if e.Dimension == "" {
		return "branch"
	}
	return e.Dimension
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// As returns the classified error in err's chain. Errors that carry no
// classification are reported as KindUnknown.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindUnknown, err)
}

// KindOf returns the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return KindUnknown
}

func title(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
