package bank

import (
	"fmt"
	"log/slog"
	"math"
	mathrand "math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the whole bank in memory. All exported methods take the
// store lock, so every operation is atomic with respect to the others.
type Store struct {
	mu   sync.Mutex
	log  *slog.Logger
	rand *mathrand.Rand

	accounts    map[string]*Account
	ledger      []*LedgerEntry
	pending     []*PendingRequest
	instruments map[string]*Instrument
	symbols     []string
	events      []SportsEvent

	bankCapitalCentavos int64
	nextRequestID       int64
}

func NewStore(log *slog.Logger, rng *mathrand.Rand) *Store {
	if rng == nil {
		rng = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	s := &Store{
		log:                 log,
		rand:                rng,
		accounts:            make(map[string]*Account),
		instruments:         make(map[string]*Instrument),
		bankCapitalCentavos: BankCapitalCentavos,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.accounts["admin"] = &Account{
		Username:      "admin",
		PasswordHash:  HashPassword("admin123"),
		Role:          RoleAdmin,
		Name:          "Administrador",
		Email:         "admin@chiquibank.com",
		AccountNumber: s.newAccountNumber(),
		CreatedAt:     time.Now().UTC(),
		Holdings:      make(map[string]int64),
	}

	for _, inst := range []*Instrument{
		{Symbol: "TECH", PriceCentavos: 150 * CentavosPerChiq, Volatility: 0.15, DividendYield: 0.04},
		{Symbol: "ENERGY", PriceCentavos: 80 * CentavosPerChiq, Volatility: 0.08, DividendYield: 0.06},
		{Symbol: "BANK", PriceCentavos: 120 * CentavosPerChiq, Volatility: 0.12, DividendYield: 0.05},
		{Symbol: "REALESTATE", PriceCentavos: 95 * CentavosPerChiq, Volatility: 0.10, DividendYield: 0.03},
	} {
		s.instruments[inst.Symbol] = inst
		s.symbols = append(s.symbols, inst.Symbol)
	}
	sort.Strings(s.symbols)

	s.events = []SportsEvent{
		{ID: 1, Name: "Chiquilandia FC vs Deportivo Plata", HomeOdds: 1.8, AwayOdds: 2.5, DrawOdds: 3.0},
		{ID: 2, Name: "Real Centavos vs Atletico Chiq", HomeOdds: 2.1, AwayOdds: 1.9, DrawOdds: 3.2},
		{ID: 3, Name: "Union Bancaria vs Sporting Monedas", HomeOdds: 1.6, AwayOdds: 3.1, DrawOdds: 2.8},
	}
}

// newAccountNumber draws CHQ plus seven digits, retrying on the rare
// collision. Caller must hold the lock (or be seeding before first use).
func (s *Store) newAccountNumber() string {
	for {
		num := fmt.Sprintf("CHQ%07d", s.rand.Intn(10_000_000))
		taken := false
		for _, acc := range s.accounts {
			if acc.AccountNumber == num {
				taken = true
				break
			}
		}
		if !taken {
			return num
		}
	}
}

func (s *Store) CreateAccount(in RegisterInput) (AccountSummary, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	if err := ValidateUsername(username); err != nil {
		return AccountSummary{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return AccountSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return AccountSummary{}, ErrAlreadyExists
	}

	acc := &Account{
		Username:        username,
		PasswordHash:    HashPassword(in.Password),
		Role:            RoleUser,
		Name:            strings.TrimSpace(in.Name),
		Email:           strings.TrimSpace(in.Email),
		AccountNumber:   s.newAccountNumber(),
		BalanceCentavos: OpeningBalanceCentavos,
		CreatedAt:       time.Now().UTC(),
		Holdings:        make(map[string]int64),
	}
	s.accounts[username] = acc
	s.appendEntry(&LedgerEntry{
		Owner:          username,
		Type:           EntryAperturaCuenta,
		AmountCentavos: OpeningBalanceCentavos,
		Description:    "Bono de bienvenida",
		Status:         StatusCompletado,
	})

	s.log.Info("account created", "usuario", username, "cuenta", acc.AccountNumber)
	return summarize(acc), nil
}

// Authenticate checks credentials and returns the account summary on
// success. Unknown user and bad password collapse into one error.
func (s *Store) Authenticate(username, password string) (AccountSummary, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok || acc.PasswordHash != HashPassword(password) {
		return AccountSummary{}, ErrInvalidCredentials
	}
	return summarize(acc), nil
}

func (s *Store) Balance(username string) (AccountSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return AccountSummary{}, ErrAccountNotFound
	}
	return summarize(acc), nil
}

// Dashboard computes net worth: balance plus portfolio at current
// prices minus outstanding loan debt.
func (s *Store) Dashboard(username string) (DashboardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return DashboardView{}, ErrAccountNotFound
	}

	var holdings []HoldingView
	var portfolio int64
	for _, sym := range s.symbols {
		qty := acc.Holdings[sym]
		if qty == 0 {
			continue
		}
		value, ok := mulCentavos(s.instruments[sym].PriceCentavos, qty)
		if !ok {
			value = math.MaxInt64
		}
		portfolio += value
		holdings = append(holdings, HoldingView{Symbol: sym, Quantity: qty, ValueCentavos: value})
	}

	var debt int64
	for _, loan := range acc.Loans {
		debt += loan.RemainingCentavos
	}

	return DashboardView{
		Username:          acc.Username,
		BalanceCentavos:   acc.BalanceCentavos,
		PortfolioCentavos: portfolio,
		DebtCentavos:      debt,
		NetWorthCentavos:  acc.BalanceCentavos + portfolio - debt,
		Holdings:          holdings,
	}, nil
}

// appendEntry stamps the entry and adds it to the ledger. Caller must
// hold the lock.
func (s *Store) appendEntry(e *LedgerEntry) *LedgerEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.ledger = append(s.ledger, e)
	return e
}

func summarize(acc *Account) AccountSummary {
	return AccountSummary{
		Username:        acc.Username,
		Role:            acc.Role,
		Name:            acc.Name,
		AccountNumber:   acc.AccountNumber,
		BalanceCentavos: acc.BalanceCentavos,
		CreatedAt:       acc.CreatedAt,
	}
}
