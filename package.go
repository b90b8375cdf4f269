package ftracker

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Workout codes accepted by ReadPackage.
const (
	CodeSwimming = "SWM"
	CodeRunning  = "RUN"
	CodeWalking  = "WLK"
)

// Package is one raw sensor packet: a workout code and its positional values.
type Package struct {
	Type string    `json:"type" toml:"type"`
	Data []float64 `json:"data" toml:"data"`
}

type constructor struct {
	fields []string
	build  func(v []float64) (Training, error)
}

var workouts = map[string]constructor{
	CodeSwimming: {
		fields: []string{"action", "duration", "weight", "length_pool", "count_pool"},
		build: func(v []float64) (Training, error) {
			action, err := count("action", v[0])
			if err != nil {
				return nil, err
			}
			lengthPool, err := count("length_pool", v[3])
			if err != nil {
				return nil, err
			}
			countPool, err := count("count_pool", v[4])
			if err != nil {
				return nil, err
			}
			return NewSwimming(action, v[1], v[2], lengthPool, countPool)
		},
	},
	CodeRunning: {
		fields: []string{"action", "duration", "weight"},
		build: func(v []float64) (Training, error) {
			action, err := count("action", v[0])
			if err != nil {
				return nil, err
			}
			return NewRunning(action, v[1], v[2])
		},
	},
	CodeWalking: {
		fields: []string{"action", "duration", "weight", "height"},
		build: func(v []float64) (Training, error) {
			action, err := count("action", v[0])
			if err != nil {
				return nil, err
			}
			return NewSportsWalking(action, v[1], v[2], v[3])
		},
	},
}

// ReadPackage builds the calculator for a workout code from its positional values.
func ReadPackage(workoutType string, data []float64) (Training, error) {
	c, ok := workouts[workoutType]
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownWorkoutType, workoutType, strings.Join(Codes(), ", "))
	}
	if len(data) != len(c.fields) {
		return nil, &ArityError{Code: workoutType, Expected: Fields(workoutType), Got: len(data)}
	}
	t, err := c.build(data)
	if err != nil {
		return nil, fmt.Errorf("read package %s: %w", workoutType, err)
	}
	if err := checkDerived(t); err != nil {
		return nil, fmt.Errorf("read package %s: %w", workoutType, err)
	}
	return t, nil
}

// checkDerived rejects finite inputs whose metrics overflow, such as a subnormal duration.
func checkDerived(t Training) error {
	metrics := []struct {
		field string
		value float64
	}{
		{"distance", t.Distance()},
		{"mean_speed", t.MeanSpeed()},
		{"calories", t.SpentCalories()},
	}
	for _, m := range metrics {
		if !isFinite(m.value) {
			return &MeasurementError{Field: m.field, Value: m.value, Reason: "overflows for the given values"}
		}
	}
	return nil
}

// Read builds the calculator for p.
func (p Package) Read() (Training, error) {
	return ReadPackage(p.Type, p.Data)
}

// Codes lists the supported workout codes in lexical order.
func Codes() []string {
	out := make([]string, 0, len(workouts))
	for code := range workouts {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Fields returns the ordered value names expected for a workout code, or nil if unknown.
func Fields(workoutType string) []string {
	c, ok := workouts[workoutType]
	if !ok {
		return nil
	}
	return append([]string(nil), c.fields...)
}

// ShowTrainingInfo computes and renders the summary line for one packet.
func ShowTrainingInfo(workoutType string, data []float64) (string, error) {
	t, err := ReadPackage(workoutType, data)
	if err != nil {
		return "", err
	}
	return t.TrainingInfo().Message(), nil
}

// DefaultPackages returns the reference packets printed when no input is supplied.
func DefaultPackages() []Package {
	return []Package{
		{Type: CodeSwimming, Data: []float64{720, 1, 80, 25, 40}},
		{Type: CodeRunning, Data: []float64{15000, 1, 75}},
		{Type: CodeWalking, Data: []float64{9000, 1, 75, 180}},
	}
}

func count(field string, v float64) (int, error) {
	if !isFinite(v) {
		return 0, &MeasurementError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v < 0 {
		return 0, &MeasurementError{Field: field, Value: v, Reason: "must not be negative"}
	}
	if v != math.Trunc(v) {
		return 0, &MeasurementError{Field: field, Value: v, Reason: "must be a whole number"}
	}
	if v > math.MaxInt32 {
		return 0, &MeasurementError{Field: field, Value: v, Reason: "is out of range"}
	}
	return int(v), nil
}
