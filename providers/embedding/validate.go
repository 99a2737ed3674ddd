package embedding

import (
	"fmt"
	"math"

	"github.com/JidouAI/metrio-memory/pkg/errs"
)

// validateVector converts a decoded JSON vector to float32, rejecting empty
// shapes and non-finite values so a corrupt vector is never persisted.
func validateVector(values []float64) ([]float32, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty vector", errs.ErrInvalidEmbedding)
	}
	out := make([]float32, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", errs.ErrInvalidEmbedding, i)
		}
		out[i] = float32(v)
	}
	return out, nil
}
