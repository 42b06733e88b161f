// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a normalized color with each channel in [0, 1].
type RGB [3]float32

// Hex is a packed 0xRRGGBB color as written in presets and style configs.
type Hex uint32

// RGB unpacks the hex color into normalized channels.
//
// Returns:
//   - RGB: the normalized red, green and blue channels
func (h Hex) RGB() RGB {
	return RGB{
		float32((h>>16)&0xff) / 255,
		float32((h>>8)&0xff) / 255,
		float32(h&0xff) / 255,
	}
}

// String formats the color as "#rrggbb".
func (h Hex) String() string {
	return fmt.Sprintf("#%06x", uint32(h)&0xffffff)
}

// MarshalText writes the color as "#rrggbb" so presets round-trip in a readable form.
func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText accepts "#rrggbb", "0xrrggbb" or a bare hex string.
func (h *Hex) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid hex color %q: %w", string(text), err)
	}
	if v > 0xffffff {
		return fmt.Errorf("hex color %q out of range", string(text))
	}
	*h = Hex(v)
	return nil
}

// Scale multiplies every channel by f.
//
// Parameters:
//   - f: the factor to apply
//
// Returns:
//   - RGB: the scaled color
func (c RGB) Scale(f float32) RGB {
	return RGB{c[0] * f, c[1] * f, c[2] * f}
}
