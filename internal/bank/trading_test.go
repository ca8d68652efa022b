package bank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyShares(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")
	before := s.Overview()

	// 2 x TECH at 150.00 = 300.00, plus 1% commission = 303.00 total,
	// leaving 697.00 of the 1000.00 opening balance.
	res, err := s.BuyShares("maria", "TECH", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(300)*CentavosPerChiq, res.CostCentavos)
	assert.Equal(t, int64(3)*CentavosPerChiq, res.CommissionCentavos)
	assert.Equal(t, int64(303)*CentavosPerChiq, res.TotalCentavos)
	assert.Equal(t, int64(697)*CentavosPerChiq, res.BalanceCentavos)
	assert.Equal(t, int64(2), res.Held)

	// Trades settle against the account only, never the bank's capital.
	after := s.Overview()
	assert.Equal(t, before.BankCapitalCentavos, after.BankCapitalCentavos)

	txs, err := s.Transactions("maria")
	require.NoError(t, err)
	assert.Equal(t, EntryCompraAcciones, txs[0].Type)
	assert.Equal(t, StatusCompletado, txs[0].Status)
}

func TestBuySharesAccumulatesHoldings(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	_, err := s.BuyShares("maria", "ENERGY", 3)
	require.NoError(t, err)
	res, err := s.BuyShares("maria", "ENERGY", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Held)
}

func TestBuySharesErrors(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	_, err := s.BuyShares("maria", "TECH", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.BuyShares("maria", "GOLD", 1)
	assert.ErrorIs(t, err, ErrInstrumentNotFound)

	// 7 x TECH = 1050.00 + commission, more than the opening balance.
	_, err = s.BuyShares("maria", "TECH", 7)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = s.BuyShares("nadie", "TECH", 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestBuySharesHugeQuantity(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	// A quantity whose cost wraps int64 must be rejected, not credited.
	_, err := s.BuyShares("maria", "TECH", math.MaxInt64/100)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos, sum.BalanceCentavos)

	dash, err := s.Dashboard("maria")
	require.NoError(t, err)
	assert.Zero(t, dash.PortfolioCentavos)
	assert.Empty(t, dash.Holdings)
}
