package model

// MinMaxScaler rescales each feature column to [0, 1] using the min/max
// observed at fit time. Fit once on the training matrix and reused unchanged
// for every inference against that model.
type MinMaxScaler struct {
	min []float64
	max []float64
}

// FitScaler computes per-column bounds over the training matrix.
func FitScaler(x [][]float64) *MinMaxScaler {
	if len(x) == 0 {
		return &MinMaxScaler{}
	}
	cols := len(x[0])
	s := &MinMaxScaler{
		min: make([]float64, cols),
		max: make([]float64, cols),
	}
	copy(s.min, x[0])
	copy(s.max, x[0])
	for _, row := range x[1:] {
		for j, v := range row {
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > s.max[j] {
				s.max[j] = v
			}
		}
	}
	return s
}

// Transform scales a single vector. A degenerate column (max == min, e.g. a
// constant-volume window) maps to 0 rather than dividing by zero.
func (s *MinMaxScaler) Transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for j, x := range v {
		if j >= len(s.min) {
			break
		}
		span := s.max[j] - s.min[j]
		if span == 0 {
			out[j] = 0
			continue
		}
		out[j] = (x - s.min[j]) / span
	}
	return out
}

// TransformAll scales every row of a matrix.
func (s *MinMaxScaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}
