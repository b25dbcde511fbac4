package handlers

import (
	"fmt"

	"github.com/git-Adi/agenticAI-Travel/models"

	"go.uber.org/zap"
)

// newFlightCard is replaceable in tests.
var newFlightCard = models.NewFlightCard

type cardView struct {
	Card   models.FlightCard `json:"card"`
	Failed bool              `json:"failed,omitempty"`
}

// buildCards renders every offer independently; one failing card does not
// prevent the others from being shown.
func buildCards(offers []models.FlightOffer, logger *zap.Logger) []cardView {
	views := make([]cardView, 0, len(offers))
	for i, o := range offers {
		views = append(views, buildCard(i, o, logger))
	}
	return views
}

func buildCard(idx int, o models.FlightOffer, logger *zap.Logger) (view cardView) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Error displaying flight information", zap.Int("index", idx), zap.String("error", fmt.Sprint(r)))
			view = cardView{Failed: true}
		}
	}()
	return cardView{Card: newFlightCard(o)}
}

func cardsOnly(views []cardView) []models.FlightCard {
	cards := make([]models.FlightCard, 0, len(views))
	for _, v := range views {
		if !v.Failed {
			cards = append(cards, v.Card)
		}
	}
	return cards
}
