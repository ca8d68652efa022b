package bank

import (
	"fmt"
	"time"
)

// ApplyLoan grants a loan when the monthly installment fits inside the
// assumed payment capacity. The principal is credited right away and the
// bank's capital shrinks by the same amount; the debt carried is the
// principal plus a flat 12% of interest.
func (s *Store) ApplyLoan(username string, principalCentavos int64, termMonths int) (LoanResult, error) {
	if principalCentavos <= 0 || termMonths <= 0 {
		return LoanResult{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return LoanResult{}, ErrAccountNotFound
	}

	installment := monthlyInstallment(principalCentavos, termMonths)
	if installment > PaymentCapacityCentavos {
		return LoanResult{}, ErrInsufficientCapacity
	}

	loan := &Loan{
		ID:                  len(acc.Loans) + 1,
		PrincipalCentavos:   principalCentavos,
		RemainingCentavos:   loanRemaining(principalCentavos),
		InterestRate:        LendingRate,
		TermMonths:          termMonths,
		InstallmentCentavos: installment,
		GrantedAt:           time.Now().UTC(),
		Status:              StatusPrestamoActivo,
	}
	acc.Loans = append(acc.Loans, loan)
	acc.BalanceCentavos += principalCentavos
	s.bankCapitalCentavos -= principalCentavos
	s.appendEntry(&LedgerEntry{
		Owner:          username,
		Type:           EntryPrestamoOtorgado,
		AmountCentavos: principalCentavos,
		Description:    fmt.Sprintf("Prestamo a %d meses", termMonths),
		Status:         StatusCompletado,
	})

	s.log.Info("loan granted",
		"usuario", username, "principal_centavos", principalCentavos, "plazo_meses", termMonths)
	return LoanResult{Loan: viewLoan(loan), BalanceCentavos: acc.BalanceCentavos}, nil
}

func (s *Store) Loans(username string) ([]LoanView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := make([]LoanView, 0, len(acc.Loans))
	for _, loan := range acc.Loans {
		out = append(out, viewLoan(loan))
	}
	return out, nil
}

func viewLoan(loan *Loan) LoanView {
	return LoanView{
		ID:                  loan.ID,
		PrincipalCentavos:   loan.PrincipalCentavos,
		RemainingCentavos:   loan.RemainingCentavos,
		InterestRate:        loan.InterestRate,
		TermMonths:          loan.TermMonths,
		InstallmentCentavos: loan.InstallmentCentavos,
		GrantedAt:           loan.GrantedAt,
		Status:              loan.Status,
	}
}
