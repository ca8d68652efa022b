package bank

import (
	"fmt"
	"time"
)

// EnqueueRequest files a deposit or withdrawal for admin approval. A
// withdrawal is rejected up front when the balance already cannot cover
// it; the balance is checked again at resolution time because it may
// have moved in between.
func (s *Store) EnqueueRequest(username string, kind EntryType, amountCentavos int64, description string) (PendingRequestView, error) {
	if kind != EntryDeposito && kind != EntryRetiro {
		return PendingRequestView{}, fmt.Errorf("%w: %s", ErrInvalidRequestType, kind)
	}
	if amountCentavos <= 0 {
		return PendingRequestView{}, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return PendingRequestView{}, ErrAccountNotFound
	}
	if kind == EntryRetiro && acc.BalanceCentavos < amountCentavos {
		return PendingRequestView{}, ErrInsufficientFunds
	}

	s.nextRequestID++
	req := &PendingRequest{
		ID:             s.nextRequestID,
		Owner:          username,
		Type:           kind,
		AmountCentavos: amountCentavos,
		Description:    description,
		Status:         StatusSolicitudPendiente,
		CreatedAt:      time.Now().UTC(),
	}
	s.pending = append(s.pending, req)
	s.appendEntry(&LedgerEntry{
		Owner:          username,
		Type:           kind,
		AmountCentavos: amountCentavos,
		Description:    description,
		Status:         StatusPendienteAprobacion,
		RequestID:      req.ID,
	})

	s.log.Info("request enqueued", "usuario", username, "tipo", kind, "solicitud", req.ID)
	return viewRequest(req), nil
}

// ResolvePending settles a pending request. Approval of a deposit
// credits the amount net of tax to both the account and the bank's
// capital; approval of a withdrawal re-checks funds and either debits
// both or downgrades the decision to rechazado_fondos. The linked
// ledger entry takes the final status either way.
func (s *Store) ResolvePending(adminUser string, requestID int64, approve bool) (ResolutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, req := range s.pending {
		if req.ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ResolutionResult{}, ErrRequestNotFound
	}
	req := s.pending[idx]

	acc, ok := s.accounts[req.Owner]
	if !ok {
		return ResolutionResult{}, ErrAccountNotFound
	}

	status := StatusRechazado
	message := "Solicitud rechazada"
	if approve {
		switch req.Type {
		case EntryDeposito:
			tax := depositTax(req.AmountCentavos)
			net := req.AmountCentavos - tax
			acc.BalanceCentavos += net
			s.bankCapitalCentavos += net
			status = StatusAprobado
			message = fmt.Sprintf("Deposito aprobado, impuesto retenido de %d centavos", tax)
		case EntryRetiro:
			if acc.BalanceCentavos < req.AmountCentavos {
				status = StatusRechazadoFondos
				message = "Retiro rechazado por fondos insuficientes"
			} else {
				acc.BalanceCentavos -= req.AmountCentavos
				s.bankCapitalCentavos -= req.AmountCentavos
				status = StatusAprobado
				message = "Retiro aprobado"
			}
		}
	}

	now := time.Now().UTC()
	for _, e := range s.ledger {
		if e.RequestID == req.ID {
			e.Status = status
			e.ResolvedBy = adminUser
			e.ResolvedAt = now
			break
		}
	}
	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)

	s.log.Info("request resolved",
		"solicitud", req.ID, "usuario", req.Owner, "estado", status, "admin", adminUser)
	return ResolutionResult{RequestID: req.ID, Status: status, Message: message}, nil
}

// Transactions lists the caller's ledger entries, newest first.
func (s *Store) Transactions(username string) ([]LedgerEntryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; !ok {
		return nil, ErrAccountNotFound
	}
	var out []LedgerEntryView
	for i := len(s.ledger) - 1; i >= 0; i-- {
		e := s.ledger[i]
		if e.Owner != username {
			continue
		}
		out = append(out, viewEntry(e))
	}
	return out, nil
}

// PendingRequests lists every unresolved request, oldest first.
func (s *Store) PendingRequests() []PendingRequestView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingRequestView, 0, len(s.pending))
	for _, req := range s.pending {
		out = append(out, viewRequest(req))
	}
	return out
}

func viewRequest(req *PendingRequest) PendingRequestView {
	return PendingRequestView{
		ID:             req.ID,
		Owner:          req.Owner,
		Type:           req.Type,
		AmountCentavos: req.AmountCentavos,
		Description:    req.Description,
		Status:         req.Status,
		CreatedAt:      req.CreatedAt,
	}
}

func viewEntry(e *LedgerEntry) LedgerEntryView {
	v := LedgerEntryView{
		ID:             e.ID,
		Type:           e.Type,
		AmountCentavos: e.AmountCentavos,
		Description:    e.Description,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		ResolvedBy:     e.ResolvedBy,
	}
	if !e.ResolvedAt.IsZero() {
		t := e.ResolvedAt
		v.ResolvedAt = &t
	}
	return v
}
