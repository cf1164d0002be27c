package domain

import (
	"fmt"
	"strings"
)

// Mode is a pixel-combination rule for Composite.
type Mode uint8

const (
	// The overlay is placed over the base.
	ModeOver Mode = iota
	// The base colour is kept and its alpha replaced by the overlay's
	// intensity or alpha.
	ModeCopyOpacity
	// Overlay multiplied by base.
	ModeMultiply
	// Overlay divided by base.
	ModeDivideSrc
	// The lighter of overlay and base per channel.
	ModeLighten
	// Multiplies or screens the base depending on the overlay value, pivoting
	// on mid-gray.
	ModeHardLight
)

var modeNames = map[Mode]string{
	ModeOver:        "over",
	ModeCopyOpacity: "copy-opacity",
	ModeMultiply:    "multiply",
	ModeDivideSrc:   "divide-src",
	ModeLighten:     "lighten",
	ModeHardLight:   "hard-light",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", m)
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts the canonical names plus the spellings ImageMagick uses
// (hardlight, copyopacity, copy_opacity, dividesrc).
func ParseMode(s string) (Mode, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
	for m, name := range modeNames {
		if strings.ReplaceAll(name, "-", "") == k {
			return m, nil
		}
	}
	return 0, &OpError{
		Op:   "mode.parse",
		Kind: KindInvalidRequest,
		Err:  fmt.Errorf("unknown blend mode %q", s),
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode %d", m)
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// OpacitySource selects what CopyOpacity reads from the overlay.
type OpacitySource uint8

const (
	// Gray intensity of the overlay's colour channels (masks).
	OpacityFromIntensity OpacitySource = iota
	// The overlay's own alpha channel (restoring transparency).
	OpacityFromAlpha
)
