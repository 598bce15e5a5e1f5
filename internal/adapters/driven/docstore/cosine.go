package docstore

import "math"

// cosineSimilarity computes dot(a,b) / (|a| * |b|), defined as 0 when
// either magnitude is 0. Vectors of differing lengths are compared over
// their common prefix; the mismatch is logged because the truncated score
// may not be meaningful.
func (s *Store) cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		s.logger.Warn("vector lengths differ, truncating for comparison",
			"len_a", len(a),
			"len_b", len(b),
		)
		n := min(len(a), len(b))
		a = a[:n]
		b = b[:n]
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
