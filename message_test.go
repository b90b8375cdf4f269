package ftracker

import (
	"regexp"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

var messagePattern = regexp.MustCompile(
	`^Тип тренировки: \w+; Длительность: -?\d+\.\d{3} ч\.; Дистанция: -?\d+\.\d{3} км; ` +
		`Ср\. скорость: -?\d+\.\d{3} км/ч; Потрачено ккал: -?\d+\.\d{3}\.$`)

func TestMessageKeepsThreeDecimals(t *testing.T) {
	tests := []struct {
		name string
		msg  InfoMessage
		want string
	}{
		{
			name: "integral values",
			msg:  InfoMessage{TrainingType: LabelSwimming, Duration: 1, Distance: 2, Speed: 3, Calories: 336},
			want: "Тип тренировки: Swimming; Длительность: 1.000 ч.; Дистанция: 2.000 км; Ср. скорость: 3.000 км/ч; Потрачено ккал: 336.000.",
		},
		{
			name: "negative calories",
			msg:  InfoMessage{TrainingType: LabelRunning, Duration: 0.5, Distance: 0.1, Speed: 0.2, Calories: -12.3456},
			want: "Тип тренировки: Running; Длительность: 0.500 ч.; Дистанция: 0.100 км; Ср. скорость: 0.200 км/ч; Потрачено ккал: -12.346.",
		},
		{
			name: "long fractions",
			msg:  InfoMessage{TrainingType: LabelSportsWalking, Duration: 1.23456, Distance: 0.0004, Speed: 9.9999, Calories: 100.0005},
			want: "Тип тренировки: SportsWalking; Длительность: 1.235 ч.; Дистанция: 0.000 км; Ср. скорость: 10.000 км/ч; Потрачено ккал: 100.001.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Message())
			assert.Equal(t, tt.want, tt.msg.String())
		})
	}
}

func TestMessageFormatRandomReadings(t *testing.T) {
	faker := gofakeit.New(7)
	for i := 0; i < 100; i++ {
		msg := InfoMessage{
			TrainingType: LabelRunning,
			Duration:     faker.Float64Range(0.01, 5),
			Distance:     faker.Float64Range(0, 60),
			Speed:        faker.Float64Range(0, 30),
			Calories:     faker.Float64Range(-50, 5000),
		}
		assert.Regexp(t, messagePattern, msg.Message())
	}
}
