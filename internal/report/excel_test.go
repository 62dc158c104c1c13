package report

import (
	"math"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"

	"salonbooks/backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testData() Data {
	product := domain.Product{ID: "prod_1", Name: "Argan Oil Shampoo 250ml", HSNCode: "3305", Unit: "pcs"}
	return Data{
		Products: []domain.Product{product},
		Purchases: []domain.Purchase{
			{
				ID: "pur_1", ProductID: "prod_1", Date: "2026-01-05", InvoiceNo: "INV-101",
				Qty: dec("10"), InclGST: dec("118"), ExGST: dec("100"),
				TaxableValue: dec("1000"), CGST: dec("90"), SGST: dec("90"),
				InvoiceValue: dec("1180"), Supplier: "Beauty Supplies Co",
			},
		},
		Sales: []domain.Sale{
			{
				ID: "sale_1", ProductID: "prod_1", Date: "2026-01-10", InvoiceNo: "S-001",
				Qty: dec("3"), ExGST: dec("150"), TaxableValue: dec("450"),
				CGST: dec("40.5"), SGST: dec("40.5"), InvoiceValue: dec("531"),
				PurchaseCostPerUnitExGST: dec("100"), TotalPurchaseCost: dec("354"),
				Customer: "walk-in", PaymentMethod: "cash",
			},
		},
		Consumption: []domain.Consumption{
			{
				ID: "con_1", ProductID: "prod_1", Date: "2026-01-12", Qty: dec("2"),
				Purpose: "in-salon use", PurchaseCostPerUnitExGST: dec("100"),
				TaxableValue: dec("200"), CGST: dec("18"), SGST: dec("18"),
				TotalPurchaseCost: dec("236"),
			},
		},
		Balances: []domain.BalanceStock{
			{
				ID: "bal_1", ProductID: "prod_1", Qty: dec("5"),
				TaxableValue: dec("500"), CGST: dec("31.5"), SGST: dec("31.5"),
				InvoiceValue: dec("590"),
			},
		},
	}
}

func TestBuildStockWorkbookRoundTrip(t *testing.T) {
	f, err := BuildStockWorkbook(testData())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("expected single sheet %q, got %v", SheetName, sheets)
	}

	title, err := f.GetCellValue(SheetName, "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if title != "SALON STOCK DETAILS" {
		t.Fatalf("unexpected title %q", title)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}

	sections := map[string]bool{}
	var purchaseQty string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		switch row[0] {
		case "PRODUCTS", "PURCHASES", "SALES", "CONSUMPTION", "BALANCE STOCK":
			sections[row[0]] = true
		case "2026-01-05":
			if len(row) > 4 {
				purchaseQty = row[4]
			}
		}
	}

	for _, want := range []string{"PRODUCTS", "PURCHASES", "SALES", "CONSUMPTION", "BALANCE STOCK"} {
		if !sections[want] {
			t.Fatalf("missing section header %q", want)
		}
	}

	qty, err := strconv.ParseFloat(purchaseQty, 64)
	if err != nil {
		t.Fatalf("purchase qty cell unreadable (%q): %v", purchaseQty, err)
	}
	if math.Abs(qty-10) > 1e-2 {
		t.Fatalf("expected purchase qty 10, got %v", qty)
	}
}

func TestBuildStockWorkbookEmptyLedger(t *testing.T) {
	f, err := BuildStockWorkbook(Data{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if title != "SALON STOCK DETAILS" {
		t.Fatalf("unexpected title %q", title)
	}
}
