package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueRequest(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	req, err := s.EnqueueRequest("maria", EntryDeposito, 500*CentavosPerChiq, "Sueldo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, StatusSolicitudPendiente, req.Status)

	// The ledger shows it as pending, linked to the request.
	txs, err := s.Transactions("maria")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, StatusPendienteAprobacion, txs[0].Status)

	// The balance is untouched until an admin resolves it.
	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos, sum.BalanceCentavos)
}

func TestRequestIDsAreMonotonic(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	first, err := s.EnqueueRequest("maria", EntryDeposito, 100, "a")
	require.NoError(t, err)
	_, err = s.ResolvePending("admin", first.ID, false)
	require.NoError(t, err)

	second, err := s.EnqueueRequest("maria", EntryDeposito, 100, "b")
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestEnqueueRequestRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	_, err := s.EnqueueRequest("maria", EntryCompraAcciones, 100, "")
	assert.ErrorIs(t, err, ErrInvalidRequestType)

	_, err = s.EnqueueRequest("maria", EntryDeposito, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.EnqueueRequest("maria", EntryRetiro, OpeningBalanceCentavos+1, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestApproveDepositWithholdsTax(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")
	before := s.Overview()

	req, err := s.EnqueueRequest("maria", EntryDeposito, 1_000*CentavosPerChiq, "Sueldo")
	require.NoError(t, err)
	res, err := s.ResolvePending("admin", req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusAprobado, res.Status)

	// 2% tax: 1000.00 deposited, 980.00 credited to both the account
	// and the bank's capital.
	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos+980*CentavosPerChiq, sum.BalanceCentavos)

	after := s.Overview()
	assert.Equal(t, before.BankCapitalCentavos+980*CentavosPerChiq, after.BankCapitalCentavos)
	assert.Zero(t, after.PendingRequests)

	txs, err := s.Transactions("maria")
	require.NoError(t, err)
	assert.Equal(t, StatusAprobado, txs[0].Status)
	assert.Equal(t, "admin", txs[0].ResolvedBy)
	require.NotNil(t, txs[0].ResolvedAt)
}

func TestApproveWithdrawal(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	before := s.Overview()
	req, err := s.EnqueueRequest("maria", EntryRetiro, 400*CentavosPerChiq, "Alquiler")
	require.NoError(t, err)
	res, err := s.ResolvePending("admin", req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusAprobado, res.Status)

	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos-400*CentavosPerChiq, sum.BalanceCentavos)

	after := s.Overview()
	assert.Equal(t, before.BankCapitalCentavos-400*CentavosPerChiq, after.BankCapitalCentavos)
}

func TestApproveWithdrawalRechecksFunds(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	// Passes the pre-check, then the balance drops below the amount
	// before the admin gets to it.
	req, err := s.EnqueueRequest("maria", EntryRetiro, 900*CentavosPerChiq, "Alquiler")
	require.NoError(t, err)
	_, err = s.BuyShares("maria", "TECH", 2)
	require.NoError(t, err)

	res, err := s.ResolvePending("admin", req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusRechazadoFondos, res.Status)

	// Balance only reflects the trade.
	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos-303*CentavosPerChiq, sum.BalanceCentavos)
}

func TestRejectRequest(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")

	req, err := s.EnqueueRequest("maria", EntryDeposito, 100*CentavosPerChiq, "")
	require.NoError(t, err)
	res, err := s.ResolvePending("admin", req.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRechazado, res.Status)

	sum, err := s.Balance("maria")
	require.NoError(t, err)
	assert.Equal(t, OpeningBalanceCentavos, sum.BalanceCentavos)

	_, err = s.ResolvePending("admin", req.ID, false)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestPendingRequestsListing(t *testing.T) {
	s := newTestStore(t)
	registerUser(t, s, "maria")
	registerUser(t, s, "pedro")

	_, err := s.EnqueueRequest("maria", EntryDeposito, 100, "a")
	require.NoError(t, err)
	_, err = s.EnqueueRequest("pedro", EntryRetiro, 200, "b")
	require.NoError(t, err)

	reqs := s.PendingRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "maria", reqs[0].Owner)
	assert.Equal(t, "pedro", reqs[1].Owner)
}
