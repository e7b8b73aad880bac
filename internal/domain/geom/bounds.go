package geom

import (
	"gonum.org/v1/gonum/floats"
)

// Bounds3D holds per-axis min, max and range over a point set.
//
// Range is never stored as zero: a degenerate axis (all points equal) gets
// range 1 so normalization stays well-defined and maps the axis to the
// constant -0.5 instead of dividing by zero.
type Bounds3D struct {
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
	Ranges [3]float64 `json:"ranges"`
}

// ComputeBounds computes per-axis bounds over the full series.
func ComputeBounds(s Series) (Bounds3D, error) {
	if s.Len() == 0 {
		return Bounds3D{}, ErrEmptySeries
	}
	if len(s.Y) != len(s.X) || len(s.Z) != len(s.X) {
		return Bounds3D{}, ErrRaggedSeries
	}
	var b Bounds3D
	for i, col := range [3][]float64{s.X, s.Y, s.Z} {
		b.Min[i] = floats.Min(col)
		b.Max[i] = floats.Max(col)
		b.Ranges[i] = b.Max[i] - b.Min[i]
		if b.Ranges[i] == 0 {
			b.Ranges[i] = 1
		}
	}
	return b, nil
}

// Normalize rescales a series into [-0.5, 0.5] per axis relative to the
// given bounds: (p - min) / range - 0.5. The bounds must have been computed
// over a superset of s; otherwise values can leave the target interval.
func Normalize(s Series, b Bounds3D) Series {
	n := s.Len()
	out := Series{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
	for i, col := range [3][]float64{s.X, s.Y, s.Z} {
		dst := [3][]float64{out.X, out.Y, out.Z}[i]
		copy(dst, col)
		floats.AddConst(-b.Min[i], dst)
		floats.Scale(1/b.Ranges[i], dst)
		floats.AddConst(-0.5, dst)
	}
	return out
}
