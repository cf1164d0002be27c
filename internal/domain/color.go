package domain

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// MidGray is the neutral value of every derived map: no displacement, no
// lighting change.
var MidGray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Neutral is MidGray as an intensity in [0,1].
const Neutral = 128.0 / 255.0

// ParseColor understands SVG colour names, #rgb, #rrggbb, #rrggbbaa and the
// grayNN / greyNN percentage grays ("grey50").
func ParseColor(s string) (color.NRGBA, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	bad := func(err error) (color.NRGBA, error) {
		return color.NRGBA{}, &OpError{Op: "color.parse", Kind: KindInvalidConfig, Err: err}
	}
	if k == "" {
		return bad(fmt.Errorf("empty colour"))
	}
	if k == "none" || k == "transparent" {
		return color.NRGBA{}, nil
	}

	if strings.HasPrefix(k, "#") {
		hex := k[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		if len(hex) != 8 {
			return bad(fmt.Errorf("bad hex colour %q", s))
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return bad(fmt.Errorf("bad hex colour %q: %w", s, err))
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}

	for _, prefix := range []string{"grey", "gray"} {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || rest == "" {
			continue
		}
		pct, err := strconv.Atoi(rest)
		if err != nil || pct < 0 || pct > 100 {
			break
		}
		y := uint8((pct*255 + 50) / 100)
		return color.NRGBA{R: y, G: y, B: y, A: 255}, nil
	}

	if c, ok := colornames.Map[k]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return bad(fmt.Errorf("unknown colour %q", s))
}

// HexColor renders c as #rrggbbaa, the form ImageMagick accepts.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
