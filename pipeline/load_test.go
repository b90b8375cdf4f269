package pipeline

import (
	"testing"

	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackages(t *testing.T) {
	want := []ftracker.Package{
		{Type: "SWM", Data: []float64{720, 1, 80, 25, 40}},
		{Type: "RUN", Data: []float64{15000, 1, 75}},
		{Type: "WLK", Data: []float64{9000, 1.5, 75, 180}},
	}

	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "json",
			file: "packages.json",
			data: `[
				{"type": "SWM", "data": [720, 1, 80, 25, 40]},
				{"type": "RUN", "data": [15000, 1, 75]},
				{"type": "WLK", "data": [9000, 1.5, 75, 180]}
			]`,
		},
		{
			name: "csv",
			file: "PACKAGES.CSV",
			data: "# code, values...\nSWM,720,1,80,25,40\n\nRUN, 15000, 1, 75\nWLK,9000,1.5,75,180,\n",
		},
		{
			name: "toml",
			file: "packages.toml",
			data: `
[[package]]
type = "SWM"
data = [720.0, 1.0, 80.0, 25.0, 40.0]

[[package]]
type = "RUN"
data = [15000.0, 1.0, 75.0]

[[package]]
type = "WLK"
data = [9000.0, 1.5, 75.0, 180.0]
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePackages(tt.file, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParsePackagesErrors(t *testing.T) {
	_, err := ParsePackages("packages.yaml", []byte("- RUN"))
	assert.ErrorContains(t, err, "unsupported package file")

	_, err = ParsePackages("packages.json", []byte(`{"type": "RUN"}`))
	assert.Error(t, err)

	_, err = ParsePackages("packages.csv", []byte("RUN,15000,abc,75\n"))
	assert.ErrorContains(t, err, "csv line 1 column 3")

	_, err = ParsePackages("packages.csv", []byte("RUN,15000,1,,75\n"))
	assert.ErrorContains(t, err, "csv line 1 column 4: empty value")

	_, err = ParsePackages("packages.csv", []byte("RUN,15000,1,75\nWLK,9000,1,,180\n"))
	assert.ErrorContains(t, err, "csv line 2 column 4: empty value")

	_, err = ParsePackages("packages.toml", []byte("[[package]\n"))
	assert.Error(t, err)
}

func TestParsePackagesKeepsUnknownCodes(t *testing.T) {
	got, err := ParsePackages("packages.csv", []byte("XYZ,1,2,3\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "XYZ", got[0].Type)

	_, err = got[0].Read()
	assert.ErrorIs(t, err, ftracker.ErrUnknownWorkoutType)
}
