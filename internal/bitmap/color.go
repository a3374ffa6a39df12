package bitmap

import (
	"fmt"
	"strconv"
)

// BGRColor is an opaque 8-bit color in the container's channel order.
// It is used for fill and background parameters and never carries alpha.
type BGRColor struct {
	B uint8 `json:"b"`
	G uint8 `json:"g"`
	R uint8 `json:"r"`
}

// Hex returns the color as "#RRGGBB".
func (c BGRColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(hex string) (BGRColor, error) {
	if len(hex) == 0 {
		return BGRColor{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return BGRColor{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return BGRColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return BGRColor{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}
