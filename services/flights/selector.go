package flights

import (
	"math"
	"sort"

	"github.com/git-Adi/agenticAI-Travel/models"
)

// MaxSelectedFlights is the number of offers kept by CheapestFlights.
const MaxSelectedFlights = 3

// CheapestFlights returns up to three best flights ordered by ascending price.
// Offers without a price sort after every priced offer; ties keep their
// original relative order. The result never aliases the input slice.
func CheapestFlights(result *SearchResult) []models.FlightOffer {
	if result == nil || len(result.BestFlights) == 0 {
		return []models.FlightOffer{}
	}

	sorted := make([]models.FlightOffer, len(result.BestFlights))
	copy(sorted, result.BestFlights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priceKey(sorted[i]) < priceKey(sorted[j])
	})

	if len(sorted) > MaxSelectedFlights {
		sorted = sorted[:MaxSelectedFlights]
	}
	return sorted
}

func priceKey(o models.FlightOffer) float64 {
	if o.Price == nil || math.IsNaN(*o.Price) {
		return math.Inf(1)
	}
	return *o.Price
}
