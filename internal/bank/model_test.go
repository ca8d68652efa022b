package bank

import (
	"errors"
	"testing"
)

func TestChiqCentavosRoundTrip(t *testing.T) {
	if got := ChiqToCentavos(10.5); got != 1050 {
		t.Fatalf("ChiqToCentavos(10.5) = %d, want 1050", got)
	}
	if got := CentavosToChiq(1050); got != 10.5 {
		t.Fatalf("CentavosToChiq(1050) = %f, want 10.5", got)
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("abc"); !errors.Is(err, ErrUsernameTooShort) {
		t.Fatalf("expected ErrUsernameTooShort, got %v", err)
	}
	if err := ValidateUsername("maria"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHashPasswordIsStable(t *testing.T) {
	a := HashPassword("secreto1")
	b := HashPassword("secreto1")
	if a != b {
		t.Fatalf("hash not deterministic: %s vs %s", a, b)
	}
	if a == HashPassword("secreto2") {
		t.Fatal("different passwords produced the same hash")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestMonthlyInstallment(t *testing.T) {
	// 10,000.00 over 12 months at 12% flat: 11,200.00 / 12.
	principal := int64(10_000) * CentavosPerChiq
	got := monthlyInstallment(principal, 12)
	if want := int64(93_333); got != want {
		t.Fatalf("monthlyInstallment = %d, want %d", got, want)
	}
	if got := loanRemaining(principal); got != int64(11_200)*CentavosPerChiq {
		t.Fatalf("loanRemaining = %d, want %d", got, int64(11_200)*CentavosPerChiq)
	}
}

func TestDepositTax(t *testing.T) {
	if got := depositTax(10_000); got != 200 {
		t.Fatalf("depositTax(10000) = %d, want 200", got)
	}
}

func TestTradeCommission(t *testing.T) {
	if got := tradeCommission(30_000); got != 300 {
		t.Fatalf("tradeCommission(30000) = %d, want 300", got)
	}
}
