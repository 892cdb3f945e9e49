package common

import "math"

// Vec2 is a 2D value, used for movement input.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Vec3 is a world-space vector. Y is up; the ground plane is XZ.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) SqrMagnitude() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Magnitude() float64    { return math.Sqrt(v.SqrMagnitude()) }

// Normalized returns the unit vector, or zero for vectors shorter than 1e-5.
func (v Vec3) Normalized() Vec3 {
	m := v.Magnitude()
	if m < 1e-5 {
		return Vec3{}
	}
	return v.Scale(1 / m)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func Distance(a, b Vec3) float64 { return a.Sub(b).Magnitude() }

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// LerpClamped is Lerp with t clamped to [0,1].
func LerpClamped(a, b, t float64) float64 {
	return Lerp(a, b, Clamp01(t))
}

// Yaw returns the heading of dir around the up axis, 0 facing +Z.
func Yaw(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// LerpAngle interpolates along the shortest arc between two headings.
func LerpAngle(a, b, t float64) float64 {
	t = Clamp01(t)
	delta := math.Mod(b-a, 2*math.Pi)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	} else if delta < -math.Pi {
		delta += 2 * math.Pi
	}
	return a + delta*t
}

// Damp moves current toward target with exponential decay; dampTime is the
// time constant in seconds. A non-positive dampTime snaps to target.
func Damp(current, target, dampTime, dt float64) float64 {
	if dampTime <= 0 {
		return target
	}
	return target + (current-target)*math.Exp(-dt/dampTime)
}
