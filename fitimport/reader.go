// Package fitimport converts FIT activity files into workout packages.
package fitimport

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	ftracker "github.com/lucasjlepore/fit-tracker"
	log "github.com/sirupsen/logrus"
	"github.com/tormoder/fit"
)

const secondsPerHour = 3600.0

// Athlete supplies the body measurements FIT activity files do not carry.
type Athlete struct {
	WeightKG float64
	// Height is passed through unchanged, in the unit the walking formula expects.
	Height float64
}

// Session is one FIT session mapped onto a workout package.
type Session struct {
	Index     int              `json:"index"`
	Sport     string           `json:"sport"`
	StartTime time.Time        `json:"start_time"`
	Package   ftracker.Package `json:"package"`
}

// Result holds the packages extracted from one FIT file.
type Result struct {
	Source   string    `json:"source"`
	Sessions []Session `json:"sessions"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Packages returns the extracted packages in session order.
func (r *Result) Packages() []ftracker.Package {
	out := make([]ftracker.Package, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		out = append(out, s.Package)
	}
	return out
}

// ReadFile decodes an activity FIT file from disk.
func ReadFile(path string, athlete Athlete) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read FIT file: %w", err)
	}
	res, err := ReadBytes(data, athlete)
	if err != nil {
		return nil, err
	}
	res.Source = path
	return res, nil
}

// ReadBytes decodes an activity FIT stream and maps each supported session to a package.
// Sessions of other sports are skipped with a warning.
func ReadBytes(data []byte, athlete Athlete) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FIT data")
	}
	if !isFinite(athlete.WeightKG) || athlete.WeightKG <= 0 {
		return nil, fmt.Errorf("athlete weight is required for FIT import")
	}

	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("activity file has no session message")
	}

	res := &Result{}
	for idx, session := range activity.Sessions {
		if session == nil {
			continue
		}
		pkg, ok := sessionPackage(session, athlete)
		if !ok {
			msg := fmt.Sprintf("session %d: sport %v is not supported", idx, session.Sport)
			log.Warn(msg)
			res.Warnings = append(res.Warnings, msg)
			continue
		}
		log.Debugf("session %d: %v mapped to %s %v", idx, session.Sport, pkg.Type, pkg.Data)
		res.Sessions = append(res.Sessions, Session{
			Index:     idx,
			Sport:     fmt.Sprint(session.Sport),
			StartTime: validTimeOrZero(session.StartTime),
			Package:   pkg,
		})
	}
	return res, nil
}

func sessionPackage(s *fit.SessionMsg, athlete Athlete) (ftracker.Package, bool) {
	duration := safePositive(s.GetTotalTimerTimeScaled()) / secondsPerHour
	cycles := float64(validUint32(s.TotalCycles))

	switch s.Sport {
	case fit.SportRunning:
		// Running and walking cycles are strides of two steps each.
		return ftracker.Package{
			Type: ftracker.CodeRunning,
			Data: []float64{cycles * 2, duration, athlete.WeightKG},
		}, true
	case fit.SportWalking, fit.SportHiking:
		return ftracker.Package{
			Type: ftracker.CodeWalking,
			Data: []float64{cycles * 2, duration, athlete.WeightKG, athlete.Height},
		}, true
	case fit.SportSwimming:
		poolLength := math.Round(float64(validUint16(s.PoolLength)) / 100)
		return ftracker.Package{
			Type: ftracker.CodeSwimming,
			Data: []float64{cycles, duration, athlete.WeightKG, poolLength, float64(validUint16(s.NumActiveLengths))},
		}, true
	default:
		return ftracker.Package{}, false
	}
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func validUint32(v uint32) uint32 {
	if v == math.MaxUint32 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func safePositive(v float64) float64 {
	if !isFinite(v) || v <= 0 {
		return 0
	}
	return v
}
