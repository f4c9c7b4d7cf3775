// Package frame turns a regular orthogonal grid plus a section assignment
// into an analysis model, runs the injected solver over the governing load
// combinations and envelopes the member demands.
package frame

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/gorcf/internal/gb"
)

// Grid describes the frame geometry and the characteristic loads. Spans and
// story heights are in meters, line loads in kN/m, area loads in kN/m².
// Immutable for the duration of an optimization run.
type Grid struct {
	SpansM        []float64
	StoryHeightsM []float64

	DeadLoadKNM float64 // permanent line load on every beam
	LiveLoadKNM float64 // floor live line load on every beam

	// SnowLoadKNM2 is the roof snow pressure, applied to roof beams over
	// the frame spacing. Zero disables the snow combinations.
	SnowLoadKNM2 float64

	// Wind enables the wind combinations when non-nil.
	Wind *gb.WindParams

	// FrameSpacingM is the tributary width used to turn wind and snow
	// pressures into member loads. Required when either is present.
	FrameSpacingM float64
}

// Validate reports the first configuration problem, before any analysis.
func (g Grid) Validate() error {
	if len(g.SpansM) == 0 {
		return errors.New("grid needs at least one span")
	}
	if len(g.StoryHeightsM) == 0 {
		return errors.New("grid needs at least one story")
	}
	for i, s := range g.SpansM {
		if s <= 0 {
			return fmt.Errorf("span %d must be positive, got %.2f m", i+1, s)
		}
	}
	for i, h := range g.StoryHeightsM {
		if h <= 0 {
			return fmt.Errorf("story %d height must be positive, got %.2f m", i+1, h)
		}
	}
	if g.DeadLoadKNM <= 0 {
		return fmt.Errorf("dead load must be positive, got %.2f kN/m", g.DeadLoadKNM)
	}
	if g.LiveLoadKNM < 0 {
		return fmt.Errorf("live load must be non-negative, got %.2f kN/m", g.LiveLoadKNM)
	}
	if g.SnowLoadKNM2 < 0 {
		return fmt.Errorf("snow load must be non-negative, got %.2f kN/m²", g.SnowLoadKNM2)
	}
	if (g.Wind != nil || g.SnowLoadKNM2 > 0) && g.FrameSpacingM <= 0 {
		return errors.New("frame spacing must be positive when wind or snow is applied")
	}
	return nil
}

// Spans returns the number of bays.
func (g Grid) Spans() int { return len(g.SpansM) }

// Stories returns the number of stories.
func (g Grid) Stories() int { return len(g.StoryHeightsM) }

// WidthM is the total frame width.
func (g Grid) WidthM() float64 {
	var w float64
	for _, s := range g.SpansM {
		w += s
	}
	return w
}

// HeightM is the total frame height.
func (g Grid) HeightM() float64 {
	var h float64
	for _, s := range g.StoryHeightsM {
		h += s
	}
	return h
}

// ElevationM returns the height of floor level above the base,
// level 0 being the base itself.
func (g Grid) ElevationM(level int) float64 {
	var z float64
	for i := 0; i < level && i < len(g.StoryHeightsM); i++ {
		z += g.StoryHeightsM[i]
	}
	return z
}
