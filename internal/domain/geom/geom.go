// Package geom implements the coordinate mapping and spatial normalization
// used to place telemetry in the AR scene.
//
// Positions are kept column-oriented (one slice per axis), which matches
// how the upstream source delivers channels and keeps the per-axis math
// vectorized.
package geom

// trackUnitScale converts track units (decimetres) to scene units (metres).
const trackUnitScale = 10.0

// Series holds a set of 3D points as per-axis columns of equal length.
type Series struct {
	X []float64
	Y []float64
	Z []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.X) }

// Rows converts the series to row form, one [x y z] triple per point,
// as consumed by the export document.
func (s Series) Rows() [][]float64 {
	rows := make([][]float64, s.Len())
	for i := range rows {
		rows[i] = []float64{s.X[i], s.Y[i], s.Z[i]}
	}
	return rows
}

// Concat concatenates series into one. Used to build the field-wide point
// set that shared bounds are computed from.
func Concat(series ...Series) Series {
	var n int
	for _, s := range series {
		n += s.Len()
	}
	out := Series{
		X: make([]float64, 0, n),
		Y: make([]float64, 0, n),
		Z: make([]float64, 0, n),
	}
	for _, s := range series {
		out.X = append(out.X, s.X...)
		out.Y = append(out.Y, s.Y...)
		out.Z = append(out.Z, s.Z...)
	}
	return out
}

// SceneFromTrack maps track-convention positions to scene convention.
//
// Track convention: X/Y span the ground plane, Z is altitude, units are
// tenths of a metre. Scene convention: Y is up, so track X stays X, track
// Y becomes scene Z (depth) and track Z becomes scene Y (height). The
// unit scale is applied to every axis before the remap.
func SceneFromTrack(track Series) Series {
	n := track.Len()
	out := Series{
		X: make([]float64, n),
		Y: make([]float64, n),
		Z: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.X[i] = track.X[i] / trackUnitScale
		out.Y[i] = track.Z[i] / trackUnitScale
		out.Z[i] = track.Y[i] / trackUnitScale
	}
	return out
}
