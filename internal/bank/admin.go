package bank

// Overview aggregates the figures shown on the admin panel. The admin
// account itself is left out of the user count and the totals.
func (s *Store) Overview() AdminOverview {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users int
	var deposits, loans int64
	for _, acc := range s.accounts {
		if acc.Role == RoleAdmin {
			continue
		}
		users++
		deposits += acc.BalanceCentavos
		for _, loan := range acc.Loans {
			loans += loan.RemainingCentavos
		}
	}
	return AdminOverview{
		TotalUsers:           users,
		PendingRequests:      len(s.pending),
		BankCapitalCentavos:  s.bankCapitalCentavos,
		TotalDepositCentavos: deposits,
		TotalLoanCentavos:    loans,
	}
}
