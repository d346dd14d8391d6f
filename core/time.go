package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Time is a count of virtual-time units. The unit is fixed process-wide by
// the resolution (nanoseconds unless SetResolution is called before the
// first event is scheduled). Negative values are valid only as relative
// durations; the simulation clock itself never goes below zero.
type Time int64

// Unit names a power-of-ten time unit.
type Unit int

const (
	FS Unit = iota
	PS
	NS
	US
	MS
	S
)

// exponent of each unit in femtoseconds (10^x fs per unit)
var unitExponent = [...]int{FS: 0, PS: 3, NS: 6, US: 9, MS: 12, S: 15}

var unitSuffix = [...]string{FS: "fs", PS: "ps", NS: "ns", US: "us", MS: "ms", S: "s"}

var suffixUnit = map[string]Unit{
	"fs": FS, "ps": PS, "ns": NS, "us": US, "ms": MS, "s": S,
}

var (
	resolution       = NS
	resolutionFrozen = false
)

// SetResolution selects the process-wide time unit. Calling it after the
// first event has been scheduled is a usage error and panics. Time values
// created before the call are not rescaled, so set the resolution before
// constructing any Time.
func SetResolution(u Unit) {
	if resolutionFrozen {
		panic("core: cannot change time resolution after an event has been scheduled")
	}
	resolution = u
}

// Resolution returns the current process-wide time unit.
func Resolution() Unit {
	return resolution
}

func freezeResolution() {
	resolutionFrozen = true
}

// pow10 for small non-negative exponents
func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// FromUnit builds a Time from a count of the given unit, converting through
// the resolution.
func FromUnit(value int64, u Unit) Time {
	diff := unitExponent[u] - unitExponent[resolution]
	if diff >= 0 {
		return Time(value * pow10(diff))
	}
	return Time(value / pow10(-diff))
}

// ToUnit converts t to a count of the given unit, truncating toward zero.
func (t Time) ToUnit(u Unit) int64 {
	diff := unitExponent[resolution] - unitExponent[u]
	if diff >= 0 {
		return int64(t) * pow10(diff)
	}
	return int64(t) / pow10(-diff)
}

// Seconds builds a Time from a floating-point number of seconds.
func Seconds(s float64) Time {
	scale := math.Pow10(unitExponent[S] - unitExponent[resolution])
	return Time(math.Round(s * scale))
}

// MilliSeconds builds a Time from an integer count of milliseconds.
func MilliSeconds(ms int64) Time { return FromUnit(ms, MS) }

// MicroSeconds builds a Time from an integer count of microseconds.
func MicroSeconds(us int64) Time { return FromUnit(us, US) }

// NanoSeconds builds a Time from an integer count of nanoseconds.
func NanoSeconds(ns int64) Time { return FromUnit(ns, NS) }

// TimeStep builds a Time directly from a count of resolution units.
func TimeStep(steps int64) Time { return Time(steps) }

// Seconds converts t to floating-point seconds.
func (t Time) Seconds() float64 {
	scale := math.Pow10(unitExponent[S] - unitExponent[resolution])
	return float64(t) / scale
}

// Nanoseconds converts t to an integer count of nanoseconds.
func (t Time) Nanoseconds() int64 { return t.ToUnit(NS) }

// String renders t as an integer count of resolution units with the unit
// suffix, e.g. "5000000000ns". ParseTime accepts exactly this form back.
func (t Time) String() string {
	return strconv.FormatInt(int64(t), 10) + unitSuffix[resolution]
}

// ParseTime parses a duration of the form "<number><unit>", where unit is
// one of fs, ps, ns, us, ms, s. A bare number is a count of resolution
// units. The number part may be a float ("0.5s").
func ParseTime(s string) (Time, error) {
	trimmed := strings.TrimSpace(s)
	cut := len(trimmed)
	for cut > 0 {
		c := trimmed[cut-1]
		if c >= 'a' && c <= 'z' {
			cut--
			continue
		}
		break
	}
	num, suffix := trimmed[:cut], trimmed[cut:]
	if num == "" {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	var u Unit
	if suffix == "" {
		u = resolution
	} else {
		var ok bool
		u, ok = suffixUnit[suffix]
		if !ok {
			return 0, fmt.Errorf("unknown time unit %q in %q", suffix, s)
		}
	}
	if i, err := strconv.ParseInt(num, 10, 64); err == nil {
		return FromUnit(i, u), nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	scale := math.Pow10(unitExponent[S] - unitExponent[resolution])
	unitScale := math.Pow10(unitExponent[u] - unitExponent[S])
	return Time(math.Round(f * unitScale * scale)), nil
}
