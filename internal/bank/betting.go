package bank

import (
	"fmt"
	"math"
)

// Outcome weights for the draw: 45% home, 35% away, 20% tie.
const (
	homeWinThreshold = 0.45
	awayWinThreshold = 0.80
)

// Events returns the fixture list.
func (s *Store) Events() []SportsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SportsEvent, len(s.events))
	copy(out, s.events)
	return out
}

// PlaceBet stakes amountCentavos on pick for the given event and
// settles immediately against a weighted random draw. A win pays the
// stake times the pick's odds; a loss forfeits the stake.
func (s *Store) PlaceBet(username string, eventID int64, pick Outcome, amountCentavos int64) (BetResult, error) {
	if amountCentavos <= 0 {
		return BetResult{}, ErrInvalidAmount
	}
	if pick != OutcomeLocal && pick != OutcomeVisitante && pick != OutcomeEmpate {
		return BetResult{}, fmt.Errorf("%w: %s", ErrInvalidOutcome, pick)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return BetResult{}, ErrAccountNotFound
	}
	var event *SportsEvent
	for i := range s.events {
		if s.events[i].ID == eventID {
			event = &s.events[i]
			break
		}
	}
	if event == nil {
		return BetResult{}, ErrEventNotFound
	}
	if acc.BalanceCentavos < amountCentavos {
		return BetResult{}, ErrInsufficientFunds
	}

	var odds float64
	switch pick {
	case OutcomeLocal:
		odds = event.HomeOdds
	case OutcomeVisitante:
		odds = event.AwayOdds
	case OutcomeEmpate:
		odds = event.DrawOdds
	}

	drawn := OutcomeEmpate
	switch r := s.rand.Float64(); {
	case r < homeWinThreshold:
		drawn = OutcomeLocal
	case r < awayWinThreshold:
		drawn = OutcomeVisitante
	}

	res := BetResult{EventID: eventID, Pick: pick, Drawn: drawn, Odds: odds}
	if pick == drawn {
		payoff := int64(math.Round(float64(amountCentavos) * odds))
		acc.BalanceCentavos += payoff
		res.Won = true
		res.PayoffCentavos = payoff
		s.appendEntry(&LedgerEntry{
			Owner:          username,
			Type:           EntryApuestaDeportiva,
			AmountCentavos: payoff,
			Description:    fmt.Sprintf("Apuesta ganada: %s (%s)", event.Name, pick),
			Status:         StatusGanada,
		})
	} else {
		acc.BalanceCentavos -= amountCentavos
		s.appendEntry(&LedgerEntry{
			Owner:          username,
			Type:           EntryApuestaDeportiva,
			AmountCentavos: -amountCentavos,
			Description:    fmt.Sprintf("Apuesta perdida: %s (%s)", event.Name, pick),
			Status:         StatusPerdida,
		})
	}
	res.BalanceCentavos = acc.BalanceCentavos

	s.log.Info("bet settled",
		"usuario", username, "evento", eventID, "eleccion", pick, "resultado", drawn, "ganada", res.Won)
	return res, nil
}
