package catalog

import (
	"math/rand/v2"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// Shuffle returns a Fisher–Yates shuffled copy of products. A nil rng uses the
// global source.
func Shuffle(products []models.Product, rng *rand.Rand) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
