package ftracker

import (
	"fmt"
	"strings"
)

// Labels reported in InfoMessage.TrainingType.
const (
	LabelRunning       = "Running"
	LabelSportsWalking = "SportsWalking"
	LabelSwimming      = "Swimming"
)

// InfoMessage is the computed summary of one workout.
type InfoMessage struct {
	TrainingType string  `json:"training_type"`
	Duration     float64 `json:"duration_h"`
	Distance     float64 `json:"distance_km"`
	Speed        float64 `json:"speed_kmh"`
	Calories     float64 `json:"calories_kcal"`
}

func newInfoMessage(label string, duration float64, t Training) InfoMessage {
	return InfoMessage{
		TrainingType: label,
		Duration:     duration,
		Distance:     t.Distance(),
		Speed:        t.MeanSpeed(),
		Calories:     t.SpentCalories(),
	}
}

// Message renders the summary as a single line with three decimals per value.
func (m InfoMessage) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Тип тренировки: %s; ", m.TrainingType)
	fmt.Fprintf(&b, "Длительность: %.3f ч.; ", m.Duration)
	fmt.Fprintf(&b, "Дистанция: %.3f км; ", m.Distance)
	fmt.Fprintf(&b, "Ср. скорость: %.3f км/ч; ", m.Speed)
	fmt.Fprintf(&b, "Потрачено ккал: %.3f.", m.Calories)
	return b.String()
}

func (m InfoMessage) String() string {
	return m.Message()
}
