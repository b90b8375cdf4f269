package fitimport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	ftracker "github.com/lucasjlepore/fit-tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

func TestReadBytesMapsSessions(t *testing.T) {
	data := buildTestFIT(t)

	res, err := ReadBytes(data, Athlete{WeightKG: 75, Height: 180})
	require.NoError(t, err)
	require.Len(t, res.Sessions, 3)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "session 3")

	pkgs := res.Packages()
	assert.Equal(t, ftracker.Package{Type: ftracker.CodeRunning, Data: []float64{15000, 1, 75}}, pkgs[0])
	assert.Equal(t, ftracker.Package{Type: ftracker.CodeWalking, Data: []float64{9000, 1, 75, 180}}, pkgs[1])
	assert.Equal(t, ftracker.Package{Type: ftracker.CodeSwimming, Data: []float64{720, 1, 75, 25, 40}}, pkgs[2])

	for _, p := range pkgs {
		_, err := p.Read()
		assert.NoError(t, err, "package %s", p.Type)
	}
	assert.False(t, res.Sessions[0].StartTime.IsZero())
}

func TestReadBytesRequiresWeight(t *testing.T) {
	_, err := ReadBytes(buildTestFIT(t), Athlete{Height: 180})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestReadBytesRejectsGarbage(t *testing.T) {
	_, err := ReadBytes(nil, Athlete{WeightKG: 70})
	require.Error(t, err)

	_, err = ReadBytes([]byte("definitely not a FIT file"), Athlete{WeightKG: 70})
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.fit")
	require.NoError(t, os.WriteFile(path, buildTestFIT(t), 0o644))

	res, err := ReadFile(path, Athlete{WeightKG: 80, Height: 175})
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)
	assert.Len(t, res.Packages(), 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.fit"), Athlete{WeightKG: 80})
	assert.Error(t, err)
}

func buildTestFIT(t *testing.T) []byte {
	t.Helper()

	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeActivity, header)
	require.NoError(t, err)

	activity, err := file.Activity()
	require.NoError(t, err)

	start := time.Date(2026, 2, 26, 7, 0, 0, 0, time.UTC)
	addSession := func(sport fit.Sport, offset time.Duration, cycles uint32, poolLength, lengths uint16) {
		s := fit.NewSessionMsg()
		s.Timestamp = start.Add(offset + time.Hour)
		s.StartTime = start.Add(offset)
		s.Sport = sport
		s.TotalTimerTime = 3600 * 1000
		s.TotalElapsedTime = 3600 * 1000
		s.TotalCycles = cycles
		s.PoolLength = poolLength
		s.NumActiveLengths = lengths
		activity.Sessions = append(activity.Sessions, s)
	}
	addSession(fit.SportRunning, 0, 7500, 0xFFFF, 0xFFFF)
	addSession(fit.SportWalking, 2*time.Hour, 4500, 0xFFFF, 0xFFFF)
	addSession(fit.SportSwimming, 4*time.Hour, 720, 2500, 40)
	addSession(fit.SportCycling, 6*time.Hour, 5000, 0xFFFF, 0xFFFF)

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	return buf.Bytes()
}
