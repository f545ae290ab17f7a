package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tubeplay-cli/tubeplay/util"
)

// ErrVolumeOutOfRange is returned by SetVolume under VolumeReject.
var ErrVolumeOutOfRange = errors.New("volume out of range")

// VolumePolicy decides what happens to volumes outside 0-100.
type VolumePolicy int

const (
	VolumeClamp VolumePolicy = iota
	VolumeReject
)

func (p VolumePolicy) String() string {
	switch p {
	case VolumeReject:
		return "reject"
	default:
		return "clamp"
	}
}

// ParseVolumePolicy accepts "clamp" and "reject".
func ParseVolumePolicy(s string) (VolumePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return VolumeClamp, nil
	case "reject":
		return VolumeReject, nil
	default:
		return VolumeClamp, fmt.Errorf("unknown volume policy %q: expected clamp or reject", s)
	}
}

// Apply maps a percentage onto [0, 1].
func (p VolumePolicy) Apply(percent int) (float64, error) {
	if percent < 0 || percent > 100 {
		if p == VolumeReject {
			return 0, fmt.Errorf("%w: %d is not within 0-100", ErrVolumeOutOfRange, percent)
		}
		percent = util.Clamp(percent, 0, 100)
	}

	return float64(percent) / 100, nil
}
