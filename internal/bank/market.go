package bank

import "math"

// MaybeTick advances the market with probability MarketTickProbability.
// Each instrument takes an independent gaussian step scaled by its
// volatility, floored at MinPriceCentavos.
func (s *Store) MaybeTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rand.Float64() >= MarketTickProbability {
		return
	}
	for _, sym := range s.symbols {
		inst := s.instruments[sym]
		change := s.rand.NormFloat64() * inst.Volatility
		next := int64(math.Round(float64(inst.PriceCentavos) * (1 + change)))
		if next < MinPriceCentavos {
			next = MinPriceCentavos
		}
		inst.PriceCentavos = next
	}
	s.log.Debug("market tick applied")
}

// Quotes returns the instruments in symbol order.
func (s *Store) Quotes() []InstrumentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]InstrumentView, 0, len(s.symbols))
	for _, sym := range s.symbols {
		inst := s.instruments[sym]
		out = append(out, InstrumentView{
			Symbol:        inst.Symbol,
			PriceCentavos: inst.PriceCentavos,
			Volatility:    inst.Volatility,
			DividendYield: inst.DividendYield,
		})
	}
	return out
}
