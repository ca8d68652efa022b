package bank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	s := newTestStore(t)

	events := s.Events()
	require.Len(t, events, 3)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Greater(t, events[0].HomeOdds, 1.0)
}

func TestPlaceBetSettlesImmediately(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")
	stake := int64(100) * CentavosPerChiq

	res, err := s.PlaceBet("maria", 1, OutcomeLocal, stake)
	require.NoError(t, err)
	assert.Contains(t, []Outcome{OutcomeLocal, OutcomeVisitante, OutcomeEmpate}, res.Drawn)
	assert.Equal(t, 1.8, res.Odds)

	sum, err := s.Balance("maria")
	require.NoError(t, err)
	if res.Won {
		want := int64(math.Round(float64(stake) * res.Odds))
		assert.Equal(t, want, res.PayoffCentavos)
		assert.Equal(t, OpeningBalanceCentavos+want, sum.BalanceCentavos)
	} else {
		assert.Zero(t, res.PayoffCentavos)
		assert.Equal(t, OpeningBalanceCentavos-stake, sum.BalanceCentavos)
	}

	txs, err := s.Transactions("maria")
	require.NoError(t, err)
	assert.Equal(t, EntryApuestaDeportiva, txs[0].Type)
	if res.Won {
		assert.Equal(t, StatusGanada, txs[0].Status)
		assert.Equal(t, res.PayoffCentavos, txs[0].AmountCentavos)
	} else {
		assert.Equal(t, StatusPerdida, txs[0].Status)
		assert.Equal(t, -stake, txs[0].AmountCentavos)
	}
}

func TestPlaceBetLeavesBankCapital(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")
	before := s.Overview()
	stake := int64(50) * CentavosPerChiq

	_, err := s.PlaceBet("maria", 2, OutcomeEmpate, stake)
	require.NoError(t, err)

	after := s.Overview()
	assert.Equal(t, before.BankCapitalCentavos, after.BankCapitalCentavos)
}

func TestPlaceBetErrors(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	_, err := s.PlaceBet("maria", 1, OutcomeLocal, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.PlaceBet("maria", 1, Outcome("doble"), 100)
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	_, err = s.PlaceBet("maria", 99, OutcomeLocal, 100)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = s.PlaceBet("maria", 1, OutcomeLocal, OpeningBalanceCentavos+1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}
