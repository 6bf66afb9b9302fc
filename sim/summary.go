package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/wallclimb/climb"
	"go.uber.org/zap/zapcore"
)

// Summary accumulates what happened over a session.
type Summary struct {
	Frames      int
	Elapsed     float64
	ModeChanges int
	Outcomes    map[climb.StepOutcome]int
	Start       mgl64.Vec3
	Final       mgl64.Vec3
	FinalMode   climb.MovementMode
	MaxZ        float64
	// AttachedFrames counts frames spent on a wall.
	AttachedFrames int
}

func newSummary(start mgl64.Vec3) Summary {
	return Summary{
		Outcomes: map[climb.StepOutcome]int{},
		Start:    start,
		Final:    start,
		MaxZ:     start.Z(),
	}
}

func (s *Summary) observe(frame int, elapsed float64, loc mgl64.Vec3, mode climb.MovementMode) {
	s.Frames = frame
	s.Elapsed = elapsed
	s.Final = loc
	s.FinalMode = mode
	if loc.Z() > s.MaxZ {
		s.MaxZ = loc.Z()
	}
	if mode == climb.ModeWallAttached {
		s.AttachedFrames++
	}
}

func (s Summary) outcomeString() string {
	keys := make([]climb.StepOutcome, 0, len(s.Outcomes))
	for k := range s.Outcomes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Outcomes[k]))
	}
	return strings.Join(parts, ",")
}

func (s Summary) String() string {
	return fmt.Sprintf("frames=%d time=%.2fs mode=%s final=(%.1f, %.1f, %.1f) max_z=%.1f attached=%d changes=%d steps=[%s]",
		s.Frames, s.Elapsed, s.FinalMode,
		s.Final.X(), s.Final.Y(), s.Final.Z(),
		s.MaxZ, s.AttachedFrames, s.ModeChanges, s.outcomeString())
}

func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("frames", s.Frames)
	enc.AddFloat64("elapsed", s.Elapsed)
	enc.AddString("final_mode", s.FinalMode.String())
	enc.AddFloat64("final_x", s.Final.X())
	enc.AddFloat64("final_z", s.Final.Z())
	enc.AddFloat64("max_z", s.MaxZ)
	enc.AddInt("attached_frames", s.AttachedFrames)
	enc.AddInt("mode_changes", s.ModeChanges)
	enc.AddString("steps", s.outcomeString())
	return nil
}
