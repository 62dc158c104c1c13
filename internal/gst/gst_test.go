package gst

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeSplitMode(t *testing.T) {
	b, err := Compute(dec("10"), dec("250"), dec("18"), false)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if !b.TaxableValue.Equal(dec("2500")) {
		t.Fatalf("expected taxable 2500, got %s", b.TaxableValue)
	}
	if !b.TotalTax.Equal(dec("450")) {
		t.Fatalf("expected tax 450, got %s", b.TotalTax)
	}
	if !b.CGST.Equal(dec("225")) || !b.SGST.Equal(dec("225")) {
		t.Fatalf("expected cgst=sgst=225, got %s/%s", b.CGST, b.SGST)
	}
	if !b.IGST.IsZero() {
		t.Fatalf("expected zero igst in split mode, got %s", b.IGST)
	}
	if !b.InvoiceValue.Equal(dec("2950")) {
		t.Fatalf("expected invoice 2950, got %s", b.InvoiceValue)
	}
}

func TestComputeCombinedMode(t *testing.T) {
	b, err := Compute(dec("4"), dec("1200"), dec("18"), true)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if !b.IGST.Equal(b.TotalTax) {
		t.Fatalf("expected igst to carry the full tax, got %s vs %s", b.IGST, b.TotalTax)
	}
	if !b.CGST.Equal(b.IGST.Div(decimal.NewFromInt(2))) {
		t.Fatalf("expected cgst = igst/2, got %s", b.CGST)
	}
	if !b.CGST.Equal(b.SGST) {
		t.Fatalf("expected cgst == sgst, got %s/%s", b.CGST, b.SGST)
	}
	if !b.InvoiceValue.Equal(b.TaxableValue.Add(b.TotalTax)) {
		t.Fatalf("expected invoice = taxable + tax")
	}
}

func TestComputeInvoiceEqualsTaxablePlusTax(t *testing.T) {
	cases := []struct {
		qty, cost, pct string
		combined       bool
	}{
		{"1", "99.99", "5", false},
		{"3", "433.33", "12", true},
		{"250", "1.25", "18", false},
		{"7", "860", "28", true},
	}

	for _, tc := range cases {
		b, err := Compute(dec(tc.qty), dec(tc.cost), dec(tc.pct), tc.combined)
		if err != nil {
			t.Fatalf("compute(%s,%s,%s) failed: %v", tc.qty, tc.cost, tc.pct, err)
		}
		if !b.TaxableValue.Equal(dec(tc.qty).Mul(dec(tc.cost))) {
			t.Fatalf("taxable mismatch for qty=%s cost=%s", tc.qty, tc.cost)
		}
		if !b.InvoiceValue.Equal(b.TaxableValue.Add(b.TotalTax)) {
			t.Fatalf("invoice != taxable + tax for qty=%s cost=%s pct=%s", tc.qty, tc.cost, tc.pct)
		}
		if !b.CGST.Equal(b.SGST) {
			t.Fatalf("cgst/sgst split unequal for pct=%s", tc.pct)
		}
	}
}

func TestComputeRejectsNonPositiveQuantity(t *testing.T) {
	if _, err := Compute(decimal.Zero, dec("100"), dec("18"), false); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for qty=0, got %v", err)
	}
	if _, err := Compute(dec("-2"), dec("100"), dec("18"), true); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for qty<0, got %v", err)
	}
}

func TestPerUnitGuardsDivisionByZero(t *testing.T) {
	if _, err := PerUnit(dec("500"), decimal.Zero); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	cost, err := PerUnit(dec("500"), dec("4"))
	if err != nil {
		t.Fatalf("per-unit failed: %v", err)
	}
	if !cost.Equal(dec("125")) {
		t.Fatalf("expected 125, got %s", cost)
	}
}

func TestNormalizePercent(t *testing.T) {
	if got := NormalizePercent(dec("0.18")); !got.Equal(dec("18")) {
		t.Fatalf("expected 0.18 -> 18, got %s", got)
	}
	if got := NormalizePercent(dec("18")); !got.Equal(dec("18")) {
		t.Fatalf("expected 18 to pass through, got %s", got)
	}
	if got := NormalizePercent(dec("1")); !got.Equal(dec("1")) {
		t.Fatalf("expected 1 to pass through, got %s", got)
	}
	if got := NormalizePercent(decimal.Zero); !got.IsZero() {
		t.Fatalf("expected 0 to pass through, got %s", got)
	}
}

func TestRatePercent(t *testing.T) {
	if got := RatePercent(dec("450"), dec("2500")); !got.Equal(dec("18")) {
		t.Fatalf("expected 18, got %s", got)
	}
	if got := RatePercent(dec("450"), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero rate for zero taxable value, got %s", got)
	}
}
