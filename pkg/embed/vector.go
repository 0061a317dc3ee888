package embed

import "math"

// NormalizeL2 scales v to unit length in place so that inner product
// against other unit vectors equals cosine similarity. Zero vectors
// are left untouched.
func NormalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

// NormalizeAll normalizes every vector of a batch in place.
func NormalizeAll(vectors [][]float32) {
	for _, v := range vectors {
		NormalizeL2(v)
	}
}
