package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or displacement in world or field-grid space.
type Vec = r2.Vec

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func Add(a, b Vec) Vec           { return r2.Add(a, b) }
func Sub(a, b Vec) Vec           { return r2.Sub(a, b) }
func Scale(f float64, v Vec) Vec { return r2.Scale(f, v) }
func Norm(v Vec) float64         { return r2.Norm(v) }
func Dist(a, b Vec) float64      { return r2.Norm(r2.Sub(a, b)) }
func IsZero(v Vec) bool          { return v.X == 0 && v.Y == 0 }

func LerpVec(a, b Vec, t float64) Vec {
	return Vec{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Unit returns v scaled to length one, or the zero vector when v has no length.
func Unit(v Vec) Vec {
	if IsZero(v) {
		return Vec{}
	}
	return r2.Unit(v)
}

func IsValid(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Map rescales x from [inMin, inMax] to [outMin, outMax] and clamps the result
// to the output range. A degenerate input range maps to outMax.
func Map(x, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMax
	}
	t := (x - inMin) / (inMax - inMin)
	lo, hi := outMin, outMax
	if lo > hi {
		lo, hi = hi, lo
	}
	return Clamp(outMin+(outMax-outMin)*t, lo, hi)
}
