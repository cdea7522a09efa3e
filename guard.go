package gom

import (
	"fmt"
	"math"
)

var fpTraps struct {
	enabled   bool
	suspended int
}

// EnableFPTraps sets whether floating point conditions are trapped.
func EnableFPTraps(on bool) {
	fpTraps.enabled = on
}

// FPTrapsEnabled reports whether floating point conditions are currently
// trapped. Traps are always suspended inside Guard.
func FPTrapsEnabled() bool {
	return fpTraps.enabled && fpTraps.suspended == 0
}

// CheckFloat returns an ErrFloatingPoint error for NaN or infinite values
// when traps are enabled. Native numeric code calls it where a hardware trap
// would have fired.
func CheckFloat(x float64) error {
	if FPTrapsEnabled() && (math.IsNaN(x) || math.IsInf(x, 0)) {
		return fmt.Errorf("%w: %v", ErrFloatingPoint, x)
	}
	return nil
}

// Guard runs fn as one crossing of the native/script boundary: floating
// point traps are suspended for its duration and restored afterwards, and a
// panic raised by fn is recovered into a *PanicError. Guards nest.
func Guard(tag string, fn func() error) (err error) {
	fpTraps.suspended++
	defer func() {
		fpTraps.suspended--
		if r := recover(); r != nil {
			err = &PanicError{Tag: tag, Value: r}
			TagLogger(tag).Error("panic at script boundary", "panic", r)
		}
	}()
	return fn()
}
