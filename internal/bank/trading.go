package bank

import "fmt"

// BuyShares purchases qty shares of symbol at the current price, adding
// a one percent broker commission on top of the cost.
func (s *Store) BuyShares(username, symbol string, qty int64) (TradeResult, error) {
	if qty <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return TradeResult{}, ErrAccountNotFound
	}
	inst, ok := s.instruments[symbol]
	if !ok {
		return TradeResult{}, fmt.Errorf("%w: %s", ErrInstrumentNotFound, symbol)
	}

	cost, ok := mulCentavos(inst.PriceCentavos, qty)
	if !ok {
		return TradeResult{}, fmt.Errorf("%w: %d", ErrInvalidAmount, qty)
	}
	commission := tradeCommission(cost)
	total := cost + commission
	if total < cost {
		return TradeResult{}, fmt.Errorf("%w: %d", ErrInvalidAmount, qty)
	}
	if acc.BalanceCentavos < total {
		return TradeResult{}, ErrInsufficientFunds
	}

	acc.BalanceCentavos -= total
	acc.Holdings[symbol] += qty
	s.appendEntry(&LedgerEntry{
		Owner:          username,
		Type:           EntryCompraAcciones,
		AmountCentavos: total,
		Description:    fmt.Sprintf("Compra de %d acciones %s", qty, symbol),
		Status:         StatusCompletado,
	})

	s.log.Info("shares bought",
		"usuario", username, "simbolo", symbol, "cantidad", qty, "total_centavos", total)
	return TradeResult{
		Symbol:             symbol,
		Quantity:           qty,
		PriceCentavos:      inst.PriceCentavos,
		CostCentavos:       cost,
		CommissionCentavos: commission,
		TotalCentavos:      total,
		BalanceCentavos:    acc.BalanceCentavos,
		Held:               acc.Holdings[symbol],
	}, nil
}
