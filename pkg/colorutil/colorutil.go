package colorutil

import (
	"fmt"
	"strconv"
)

// DefaultColor is the event background used when neither the activity
// type nor the employee defines one.
const DefaultColor = "#ABD6E3"

// defaultRGB is the fallback triple for unparseable color strings.
var defaultRGB = RGB{67, 84, 90}

// RGB is a color as three 0-255 channels.
type RGB struct {
	R, G, B int
}

// Parse decodes a "#RRGGBB" string. Anything that does not parse falls
// back to the default triple rather than failing.
func Parse(color string) RGB {
	if len(color) > 0 && color[0] == '#' {
		color = color[1:]
	}
	if len(color) != 6 {
		return defaultRGB
	}
	var out [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseInt(color[i*2:i*2+2], 16, 0)
		if err != nil {
			return defaultRGB
		}
		out[i] = int(v)
	}
	return RGB{out[0], out[1], out[2]}
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Gray returns the average of the three channels.
func (c RGB) Gray() int {
	return (c.R + c.G + c.B) / 3
}

// Increase adds inc to every channel, clamping to [0, 255].
func (c RGB) Increase(inc int) RGB {
	return RGB{clamp(c.R + inc), clamp(c.G + inc), clamp(c.B + inc)}
}

// IncreaseRatio lightens the color by ratio of the distance between its
// gray level and full white. Hue bias is preserved; the operation is not
// a fixed point, so re-applying it keeps lightening dark colors.
func (c RGB) IncreaseRatio(ratio float64) RGB {
	return c.Increase(int(float64(255-c.Gray()) * ratio))
}

// Valid reports whether color is a well-formed "#RRGGBB" string.
func Valid(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for i := 0; i < 3; i++ {
		if _, err := strconv.ParseInt(color[1+i*2:3+i*2], 16, 0); err != nil {
			return false
		}
	}
	return true
}

// Foreground picks a readable text color for the given background:
// black on light backgrounds, white on dark ones.
func Foreground(background string) string {
	if Parse(background).Gray() > 128 {
		return "black"
	}
	return "white"
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
