package ftracker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownWorkoutType is returned when a package code has no calculator.
	ErrUnknownWorkoutType = errors.New("unknown workout type")
	// ErrInvalidMeasurement is returned when a reading cannot produce finite metrics.
	ErrInvalidMeasurement = errors.New("invalid measurement")
	// ErrArity is returned when a package carries the wrong number of values.
	ErrArity = errors.New("argument count mismatch")
)

// MeasurementError reports the field that failed validation.
type MeasurementError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidMeasurement, e.Field, e.Value, e.Reason)
}

func (e *MeasurementError) Unwrap() error {
	return ErrInvalidMeasurement
}

// ArityError reports which fields a package is missing or has in excess.
type ArityError struct {
	Code     string
	Expected []string
	Got      int
}

func (e *ArityError) Error() string {
	want := len(e.Expected)
	if e.Got < want {
		return fmt.Sprintf("%s: %s expects %d values, got %d (missing %s)",
			ErrArity, e.Code, want, e.Got, strings.Join(e.Missing(), ", "))
	}
	return fmt.Sprintf("%s: %s expects %d values, got %d (%d extra)",
		ErrArity, e.Code, want, e.Got, e.Extra())
}

func (e *ArityError) Unwrap() error {
	return ErrArity
}

// Missing returns the names of the fields that were not supplied.
func (e *ArityError) Missing() []string {
	if e.Got >= len(e.Expected) {
		return nil
	}
	return append([]string(nil), e.Expected[e.Got:]...)
}

// Extra returns how many trailing values had no field to bind to.
func (e *ArityError) Extra() int {
	if e.Got <= len(e.Expected) {
		return 0
	}
	return e.Got - len(e.Expected)
}
