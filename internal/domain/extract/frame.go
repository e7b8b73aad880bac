package extract

import "math"

// Frame is a column-oriented sample frame: one time axis plus named
// channels of matching length. It is the shape the upstream source hands
// over for both positional and auxiliary series.
type Frame struct {
	Time     []SessionTime
	Channels map[string][]float64
}

// Len returns the number of samples in the frame.
func (f Frame) Len() int { return len(f.Time) }

// valid reports whether every channel column matches the time axis length.
func (f Frame) valid() bool {
	for _, col := range f.Channels {
		if len(col) != len(f.Time) {
			return false
		}
	}
	return true
}

// MergeChannels merges an auxiliary frame onto the base frame's time axis.
//
// The base (positional) axis wins: every base sample is kept, and each
// auxiliary channel is aligned to it by nearest timestamp. Base channels
// take precedence on name collisions. An empty auxiliary frame contributes
// nothing; the extractor zero-fills missing optional channels afterwards.
func MergeChannels(base, aux Frame) Frame {
	out := Frame{
		Time:     base.Time,
		Channels: make(map[string][]float64, len(base.Channels)+len(aux.Channels)),
	}
	for name, col := range base.Channels {
		out.Channels[name] = col
	}
	if aux.Len() == 0 {
		return out
	}

	auxSecs := make([]float64, aux.Len())
	for i, t := range aux.Time {
		auxSecs[i] = t.Seconds()
	}

	// Nearest-timestamp index for each base sample. Both axes are
	// time-ordered, so a single forward scan suffices.
	idx := make([]int, base.Len())
	j := 0
	for i, t := range base.Time {
		ts := t.Seconds()
		for j+1 < len(auxSecs) &&
			math.Abs(auxSecs[j+1]-ts) <= math.Abs(auxSecs[j]-ts) {
			j++
		}
		idx[i] = j
	}

	for name, col := range aux.Channels {
		if _, taken := out.Channels[name]; taken {
			continue
		}
		aligned := make([]float64, base.Len())
		for i, k := range idx {
			aligned[i] = col[k]
		}
		out.Channels[name] = aligned
	}
	return out
}
