package ticket

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"servicedesk/domain/shared"
)

const (
	NumberPrefix    = "TICK"
	numberDelimiter = "-"

	MinYear     = 2000
	MaxYear     = 9999
	MinSequence = 1
	MaxSequence = 99999

	yearWidth     = 4
	sequenceWidth = 5
)

// Ticket number errors. Every failure also matches shared.ErrInvalidInput.
var (
	ErrNumberOutOfRange      = errors.New("ticket number out of range")
	ErrInvalidNumberFormat   = errors.New("invalid ticket number format")
	ErrInvalidNumberPrefix   = errors.New("invalid ticket number prefix")
	ErrInvalidNumberYear     = errors.New("invalid ticket number year")
	ErrInvalidNumberSequence = errors.New("invalid ticket number sequence")
)

// Number is the structured ticket identifier TICK-YYYY-NNNNN.
// The zero value is not a valid number; valid values only come from NewNumber and ParseNumber.
type Number struct {
	year     int
	sequence int
}

// NewNumber validates the ranges before building the number.
func NewNumber(year, sequence int) (Number, error) {
	if year < MinYear || year > MaxYear {
		return Number{}, numberError(fmt.Sprintf("year must be between %d and %d, got %d", MinYear, MaxYear, year),
			ErrNumberOutOfRange, ErrInvalidNumberYear)
	}
	if sequence < MinSequence || sequence > MaxSequence {
		return Number{}, numberError(fmt.Sprintf("sequence must be between %d and %d, got %d", MinSequence, MaxSequence, sequence),
			ErrNumberOutOfRange, ErrInvalidNumberSequence)
	}
	return Number{year: year, sequence: sequence}, nil
}

// ParseNumber parses the canonical text form.
func ParseNumber(text string) (Number, error) {
	segments := strings.Split(text, numberDelimiter)
	if len(segments) != 3 {
		return Number{}, numberError(fmt.Sprintf("ticket number %q must have the form %s-YYYY-NNNNN", text, NumberPrefix),
			ErrInvalidNumberFormat)
	}

	if segments[0] != NumberPrefix {
		return Number{}, numberError(fmt.Sprintf("ticket number %q must start with %s", text, NumberPrefix),
			ErrInvalidNumberPrefix)
	}

	year, ok := parseFixedDigits(segments[1], yearWidth)
	if !ok {
		return Number{}, numberError(fmt.Sprintf("year segment %q must be %d digits", segments[1], yearWidth),
			ErrInvalidNumberYear)
	}
	if year < MinYear || year > MaxYear {
		return Number{}, numberError(fmt.Sprintf("year must be between %d and %d, got %d", MinYear, MaxYear, year),
			ErrInvalidNumberYear)
	}

	sequence, ok := parseFixedDigits(segments[2], sequenceWidth)
	if !ok {
		return Number{}, numberError(fmt.Sprintf("sequence segment %q must be %d digits", segments[2], sequenceWidth),
			ErrInvalidNumberSequence)
	}
	if sequence < MinSequence || sequence > MaxSequence {
		return Number{}, numberError(fmt.Sprintf("sequence must be between %d and %d, got %d", MinSequence, MaxSequence, sequence),
			ErrInvalidNumberSequence)
	}

	return Number{year: year, sequence: sequence}, nil
}

// TryParseNumber is ParseNumber without the error.
func TryParseNumber(text string) (Number, bool) {
	n, err := ParseNumber(text)
	if err != nil {
		return Number{}, false
	}
	return n, true
}

// MustParseNumber panics on invalid input. Tests and fixtures only.
func MustParseNumber(text string) Number {
	n, err := ParseNumber(text)
	if err != nil {
		panic(err)
	}
	return n
}

func parseFixedDigits(segment string, width int) (int, bool) {
	if len(segment) != width {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return v, true
}

func numberError(message string, kinds ...error) error {
	return shared.NewInvalidInputError("ticket", "number", message, kinds...)
}

func (n Number) Year() int     { return n.year }
func (n Number) Sequence() int { return n.sequence }
func (n Number) IsZero() bool  { return n == Number{} }

func (n Number) Equals(other Number) bool { return n == other }

// Next returns the following sequence in the same year.
func (n Number) Next() (Number, error) {
	return NewNumber(n.year, n.sequence+1)
}

func (n Number) String() string {
	return fmt.Sprintf("%s%s%04d%s%05d", NumberPrefix, numberDelimiter, n.year, numberDelimiter, n.sequence)
}
