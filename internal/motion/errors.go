package motion

import "github.com/pkg/errors"

// Domain errors for primitives that refuse to start.
var (
	// ErrDegenerateArc means the arc geometry gives no usable wheel ratio
	// (zero inner travel, a ratio of -1, a straight line, or a non-finite radius).
	ErrDegenerateArc = errors.New("motion: degenerate arc geometry")

	// ErrDegenerateCurve means the path is nil, the curve has no usable
	// length, or the lookup table has fewer than two steps.
	ErrDegenerateCurve = errors.New("motion: degenerate curve")
)
