// Package tilt computes the hover tilt of a card from the pointer position inside it.
package tilt

import (
	"strconv"
	"strings"
)

// Perspective is the perspective distance, in pixels, of every tilt transform.
const Perspective = 1000

// Lift is how far a hovered card rises, in pixels.
const Lift = 10

// Rect is the size of the card being tilted.
type Rect struct {
	Width  float64
	Height float64
}

// Transform is a card transform in degrees and pixels.
type Transform struct {
	RotateX    float64
	RotateY    float64
	TranslateY float64
}

// Compute returns the tilt for a pointer at (x, y) relative to the card's top-left corner.
// The card leans toward the pointer: rotateX = (y - h/2)/10, rotateY = (w/2 - x)/10.
//
// Parameters:
//   - r: the card size
//   - x, y: pointer position inside the card
//
// Returns:
//   - Transform: the hover transform
func Compute(r Rect, x, y float64) Transform {
	return Transform{
		RotateX:    (y - r.Height/2) / 10,
		RotateY:    (r.Width/2 - x) / 10,
		TranslateY: -Lift,
	}
}

// Rest is the transform of a card the pointer has left.
func Rest() Transform {
	return Transform{}
}

// CSS renders the transform as a CSS transform value.
func (t Transform) CSS() string {
	var b strings.Builder
	b.WriteString("perspective(")
	b.WriteString(strconv.Itoa(Perspective))
	b.WriteString("px) rotateX(")
	b.WriteString(num(t.RotateX))
	b.WriteString("deg) rotateY(")
	b.WriteString(num(t.RotateY))
	b.WriteString("deg) translateY(")
	b.WriteString(num(t.TranslateY))
	b.WriteString("px)")
	return b.String()
}

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
