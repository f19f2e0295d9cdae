// Package fonts provides the shared font resource. The app loads one Set at
// startup and hands it to every control; nothing here is a package-level default.
package fonts

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
)

// Face is a tinyfont font with the metrics needed to place text by its top-left corner.
type Face struct {
	Font tinyfont.Fonter

	// Ascent is the distance from the top of a capital to the baseline.
	Ascent int
}

// NewFace measures f using the capital H.
// Concurrent use of the returned Face is not safe when the font reuses glyph state.
func NewFace(f tinyfont.Fonter) Face {
	face := Face{Font: f}
	if f == nil {
		return face
	}
	info := f.GetGlyph('H').Info()
	face.Ascent = -int(info.YOffset)
	if face.Ascent <= 0 {
		face.Ascent = int(info.Height)
	}
	return face
}

// Measure returns the advance width of s and the face's cap height.
func (f Face) Measure(s string) (w, h int) {
	if f.Font == nil {
		return 0, 0
	}
	_, outbox := tinyfont.LineWidth(f.Font, s)
	return int(outbox), f.Ascent
}

// Set groups the faces the UI uses.
type Set struct {
	Control Face
	Body    Face
}

// Load returns the standard set: bold for buttons and readouts, regular for hints.
func Load() Set {
	return Set{
		Control: NewFace(&freesans.Bold12pt7b),
		Body:    NewFace(&freesans.Regular9pt7b),
	}
}
