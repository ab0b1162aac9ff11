// Package robot declares the read/write contracts the motion core consumes.
// Sensor and actuator drivers live outside this module and implement them;
// internal/sim provides a simulated implementation.
package robot

import (
	"fmt"
	"strings"

	"github.com/san-kum/drivetrain/internal/geom"
)

// HeadingSensor reports an absolute, drift-corrected heading.
type HeadingSensor interface {
	// DegHeading is on [0, 360).
	DegHeading() float64
	// RadHeading is on [0, 2π).
	RadHeading() float64
}

// RotationSensor reports cumulative wheel rotation in units proportional to
// linear distance travelled.
type RotationSensor interface {
	Rotation() float64
	ResetRotation()
}

// Localizer exposes the externally maintained position estimate. It may be
// updated out of band; readers get the latest value, possibly stale.
type Localizer interface {
	Position() geom.Coordinate
}

// Drivetrain is the write-only actuation handle.
type Drivetrain interface {
	SpinDiffy(right, left float64)
	Spin(v float64)
	Stop(mode BrakeMode)
}

// BrakeMode selects how the actuators halt.
type BrakeMode int

const (
	Coast BrakeMode = iota
	Brake
	Hold
)

func (m BrakeMode) String() string {
	switch m {
	case Coast:
		return "coast"
	case Brake:
		return "brake"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("BrakeMode(%d)", int(m))
	}
}

// ParseBrakeMode accepts the long names and the single-letter forms
// ("c", "b", "h") used in routine scripts.
func ParseBrakeMode(s string) (BrakeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "coast":
		return Coast, nil
	case "b", "brake":
		return Brake, nil
	case "h", "hold":
		return Hold, nil
	}
	return Coast, fmt.Errorf("unknown brake mode: %q", s)
}

// Robot bundles every contract a chassis needs.
type Robot interface {
	HeadingSensor
	RotationSensor
	Localizer
	Drivetrain
}
