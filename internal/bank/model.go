package bank

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
)

const (
	CentavosPerChiq = int64(100)

	OpeningBalanceCentavos = int64(1_000) * CentavosPerChiq
	BankCapitalCentavos    = int64(50_000_000) * CentavosPerChiq

	// Minimum instrument price: 10 ChiqDollars.
	MinPriceCentavos = int64(10) * CentavosPerChiq

	LendingRate     = 0.12 // annual, applied once at origination
	SavingsRate     = 0.03 // modeled, no accrual flow consumes it yet
	TransactionTax  = 0.02
	TradeCommission = 0.01

	// Debt-service ceiling: 30% of the simulated average salary.
	AssumedSalaryCentavos   = int64(2_000) * CentavosPerChiq
	PaymentCapacityCentavos = int64(float64(AssumedSalaryCentavos) * 0.3)

	// Probability that a single incoming request moves the market.
	MarketTickProbability = 0.3

	MinUsernameLen = 4
	MinPasswordLen = 6
)

var (
	ErrAlreadyExists        = errors.New("username already exists")
	ErrUsernameTooShort     = errors.New("username too short (minimum 4 characters)")
	ErrPasswordTooShort     = errors.New("password too short (minimum 6 characters)")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInstrumentNotFound   = errors.New("instrument not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRequestNotFound      = errors.New("pending request not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientCapacity = errors.New("loan rejected: insufficient payment capacity")
	ErrInvalidRequestType   = errors.New("invalid request type")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidOutcome       = errors.New("invalid outcome pick")
)

func ChiqToCentavos(v float64) int64 {
	return int64(math.Round(v * float64(CentavosPerChiq)))
}

func CentavosToChiq(v int64) float64 {
	return float64(v) / float64(CentavosPerChiq)
}

func ValidateUsername(username string) error {
	if len(username) < MinUsernameLen {
		return ErrUsernameTooShort
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// HashPassword is a deterministic unsalted digest: authenticate compares
// stored and computed hashes for equality.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// monthlyInstallment spreads principal plus the full lending-rate markup
// evenly across the term.
func monthlyInstallment(principalCentavos int64, termMonths int) int64 {
	owed := float64(principalCentavos) * (1 + LendingRate)
	return int64(math.Round(owed / float64(termMonths)))
}

func loanRemaining(principalCentavos int64) int64 {
	return int64(math.Round(float64(principalCentavos) * (1 + LendingRate)))
}

func depositTax(amountCentavos int64) int64 {
	return int64(math.Round(float64(amountCentavos) * TransactionTax))
}

func tradeCommission(costCentavos int64) int64 {
	return int64(math.Round(float64(costCentavos) * TradeCommission))
}

// mulCentavos multiplies a per-unit price by a quantity, reporting
// whether the product fits in an int64.
func mulCentavos(priceCentavos, qty int64) (int64, bool) {
	if priceCentavos > 0 && qty > math.MaxInt64/priceCentavos {
		return 0, false
	}
	return priceCentavos * qty, true
}
