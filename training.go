package ftracker

import (
	"fmt"
	"math"
)

const (
	// LenStep is the distance covered by one step, in metres.
	LenStep = 0.65
	// SwimmingLenStep is the distance covered by one stroke, in metres.
	SwimmingLenStep = 1.38
	// MInKm converts metres to kilometres.
	MInKm = 1000
	// MinInH converts hours to minutes.
	MinInH = 60
)

const (
	runningCaloriesMeanSpeedMultiplier = 18
	runningCaloriesMeanSpeedShift      = 20

	walkingCaloriesWeightMultiplier = 0.035
	walkingSpeedHeightMultiplier    = 0.029

	swimmingCaloriesMeanSpeedShift   = 1.1
	swimmingCaloriesWeightMultiplier = 2
)

// Training computes derived metrics for one workout.
type Training interface {
	// Distance returns the covered distance in km.
	Distance() float64
	// MeanSpeed returns the average speed in km/h.
	MeanSpeed() float64
	// SpentCalories returns the energy spent in kcal.
	SpentCalories() float64
	// TrainingInfo bundles the metrics into a summary.
	TrainingInfo() InfoMessage
}

// Workout holds the readings shared by every training kind.
type Workout struct {
	Action   int     `json:"action"`
	Duration float64 `json:"duration_h"`
	Weight   float64 `json:"weight_kg"`
}

func (w Workout) distance(lenStep float64) float64 {
	return float64(w.Action) * lenStep / MInKm
}

func (w Workout) meanSpeed(lenStep float64) float64 {
	return w.distance(lenStep) / w.Duration
}

func (w Workout) validate() error {
	if w.Action < 0 {
		return &MeasurementError{Field: "action", Value: float64(w.Action), Reason: "must not be negative"}
	}
	if err := positive("duration", w.Duration); err != nil {
		return err
	}
	return positive("weight", w.Weight)
}

// Running is a run measured in steps.
type Running struct {
	Workout
}

// NewRunning validates the readings and returns a running calculator.
func NewRunning(action int, duration, weight float64) (Running, error) {
	r := Running{Workout{Action: action, Duration: duration, Weight: weight}}
	if err := r.validate(); err != nil {
		return Running{}, fmt.Errorf("running: %w", err)
	}
	return r, nil
}

// Distance returns the covered distance in km.
func (r Running) Distance() float64 { return r.distance(LenStep) }

// MeanSpeed returns the average speed in km/h.
func (r Running) MeanSpeed() float64 { return r.meanSpeed(LenStep) }

// SpentCalories returns the energy spent in kcal. Speeds under 20/18 km/h yield a negative value.
func (r Running) SpentCalories() float64 {
	// Explicit conversions keep the compiler from fusing multiply-adds.
	speedTerm := float64(runningCaloriesMeanSpeedMultiplier*r.MeanSpeed()) - runningCaloriesMeanSpeedShift
	return speedTerm * r.Weight / MInKm * (r.Duration * MinInH)
}

// TrainingInfo bundles the metrics into a summary.
func (r Running) TrainingInfo() InfoMessage {
	return newInfoMessage(LabelRunning, r.Duration, r)
}

// SportsWalking is a walk measured in steps, adjusted for the athlete's height.
type SportsWalking struct {
	Workout
	Height float64 `json:"height"`
}

// NewSportsWalking validates the readings and returns a walking calculator.
func NewSportsWalking(action int, duration, weight, height float64) (SportsWalking, error) {
	w := SportsWalking{Workout: Workout{Action: action, Duration: duration, Weight: weight}, Height: height}
	if err := w.validate(); err != nil {
		return SportsWalking{}, fmt.Errorf("sports walking: %w", err)
	}
	if err := positive("height", height); err != nil {
		return SportsWalking{}, fmt.Errorf("sports walking: %w", err)
	}
	return w, nil
}

// Distance returns the covered distance in km.
func (w SportsWalking) Distance() float64 { return w.distance(LenStep) }

// MeanSpeed returns the average speed in km/h.
func (w SportsWalking) MeanSpeed() float64 { return w.meanSpeed(LenStep) }

// SpentCalories returns the energy spent in kcal.
// The squared speed is floor-divided by height, so small speeds contribute nothing.
func (w SportsWalking) SpentCalories() float64 {
	speed := w.MeanSpeed()
	base := float64(walkingCaloriesWeightMultiplier * w.Weight)
	heightTerm := float64(floorDiv(float64(speed*speed), w.Height) * walkingSpeedHeightMultiplier * w.Weight)
	return (base + heightTerm) * (w.Duration * MinInH)
}

// TrainingInfo bundles the metrics into a summary.
func (w SportsWalking) TrainingInfo() InfoMessage {
	return newInfoMessage(LabelSportsWalking, w.Duration, w)
}

// Swimming is a pool swim measured in strokes.
type Swimming struct {
	Workout
	LengthPool int `json:"length_pool"`
	CountPool  int `json:"count_pool"`
}

// NewSwimming validates the readings and returns a swimming calculator.
func NewSwimming(action int, duration, weight float64, lengthPool, countPool int) (Swimming, error) {
	s := Swimming{
		Workout:    Workout{Action: action, Duration: duration, Weight: weight},
		LengthPool: lengthPool,
		CountPool:  countPool,
	}
	if err := s.validate(); err != nil {
		return Swimming{}, fmt.Errorf("swimming: %w", err)
	}
	if lengthPool <= 0 {
		return Swimming{}, fmt.Errorf("swimming: %w",
			&MeasurementError{Field: "length_pool", Value: float64(lengthPool), Reason: "must be positive"})
	}
	if countPool < 0 {
		return Swimming{}, fmt.Errorf("swimming: %w",
			&MeasurementError{Field: "count_pool", Value: float64(countPool), Reason: "must not be negative"})
	}
	return s, nil
}

// Distance returns the distance derived from the stroke count, in km.
func (s Swimming) Distance() float64 { return s.distance(SwimmingLenStep) }

// MeanSpeed returns the pool distance over time in km/h.
// It does not use Distance: strokes and pool lengths are independent readings.
func (s Swimming) MeanSpeed() float64 {
	return float64(s.LengthPool) * float64(s.CountPool) / MInKm / s.Duration
}

// SpentCalories returns the energy spent in kcal.
func (s Swimming) SpentCalories() float64 {
	return (s.MeanSpeed() + swimmingCaloriesMeanSpeedShift) * swimmingCaloriesWeightMultiplier * s.Weight
}

// TrainingInfo bundles the metrics into a summary.
func (s Swimming) TrainingInfo() InfoMessage {
	return newInfoMessage(LabelSwimming, s.Duration, s)
}

func positive(field string, v float64) error {
	if !isFinite(v) {
		return &MeasurementError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &MeasurementError{Field: field, Value: v, Reason: "must be positive"}
	}
	return nil
}

// floorDiv mirrors floating-point floor division as computed from fmod,
// which differs from math.Floor(x/y) when x/y rounds up to an integer.
func floorDiv(x, y float64) float64 {
	mod := math.Mod(x, y)
	div := float64(x-mod) / y
	if mod != 0 && (y < 0) != (mod < 0) {
		div -= 1
	}
	if div == 0 {
		return math.Copysign(0, x/y)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}
	return floor
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
