// Package gst computes GST tax breakups for stock transactions. It is pure:
// no I/O, no state, deterministic for a given input.
//
// The GST percentage is a whole number everywhere in this system (18 means
// 18%). Callers receiving fractional rates from external systems must convert
// at the boundary with NormalizePercent before calling Compute.
package gst

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
	one     = decimal.NewFromInt(1)
)

// Breakup is the derived tax view of one transaction line.
//
// In split mode (manual/CSV imports, intra-state supply) the tax is carried as
// equal CGST and SGST halves and IGST is zero. In combined mode (POS sync) the
// full tax is carried as IGST and the CGST/SGST columns record the equal
// halves of it. In both modes InvoiceValue = TaxableValue + TotalTax and
// CGST == SGST.
type Breakup struct {
	TaxableValue decimal.Decimal
	IGST         decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	TotalTax     decimal.Decimal
	InvoiceValue decimal.Decimal
}

// Compute derives the tax breakup for qty units at unitCostExGST with the
// given whole-number GST percentage. qty <= 0 is a defined error, never a
// NaN/Inf result.
func Compute(qty, unitCostExGST, pct decimal.Decimal, combined bool) (Breakup, error) {
	if qty.Sign() <= 0 {
		return Breakup{}, ErrInvalidQuantity
	}

	taxable := qty.Mul(unitCostExGST)
	tax := taxable.Mul(pct).Div(hundred)
	half := tax.Div(two)

	b := Breakup{
		TaxableValue: taxable,
		CGST:         half,
		SGST:         half,
		TotalTax:     tax,
		InvoiceValue: taxable.Add(tax),
	}
	if combined {
		b.IGST = tax
	}
	return b, nil
}

// PerUnit returns total/qty, guarding the division by zero the per-unit cost
// derivations are prone to.
func PerUnit(total, qty decimal.Decimal) (decimal.Decimal, error) {
	if qty.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidQuantity
	}
	return total.Div(qty), nil
}

// NormalizePercent converts a fractional GST rate (0.18) to the whole-number
// convention (18). Values of 1 or more are assumed to already be whole-number
// percentages and pass through unchanged, as do zero and negatives.
func NormalizePercent(pct decimal.Decimal) decimal.Decimal {
	if pct.Sign() > 0 && pct.LessThan(one) {
		return pct.Mul(hundred)
	}
	return pct
}

// RatePercent derives the whole-number GST percentage implied by a recorded
// tax amount over its taxable value. Returns zero when taxableValue is zero.
func RatePercent(totalTax, taxableValue decimal.Decimal) decimal.Decimal {
	if taxableValue.Sign() == 0 {
		return decimal.Decimal{}
	}
	return totalTax.Mul(hundred).Div(taxableValue)
}
