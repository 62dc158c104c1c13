// Package report renders the stock ledger into the STOCK_DETAILS workbook
// used for GST filing. One sheet, five sections separated by blank rows, each
// section with a bold header row.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"salonbooks/backend/internal/domain"
)

const SheetName = "STOCK_DETAILS"

// Data is the full ledger snapshot the workbook is built from. Products keys
// transaction rows back to their catalog names.
type Data struct {
	Products    []domain.Product
	Purchases   []domain.Purchase
	Sales       []domain.Sale
	Consumption []domain.Consumption
	Balances    []domain.BalanceStock
}

func BuildStockWorkbook(data Data) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{file: f, headerStyle: headerStyle, row: 1}

	productByID := make(map[string]domain.Product, len(data.Products))
	for _, p := range data.Products {
		productByID[p.ID] = p
	}

	if err := w.writeHeader([]string{"SALON STOCK DETAILS"}); err != nil {
		return nil, err
	}
	w.blankRow()

	if err := w.writeHeader([]string{"PRODUCTS"}); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{"Name", "HSN Code", "Unit"}); err != nil {
		return nil, err
	}
	for _, p := range data.Products {
		if err := w.writeRow([]interface{}{p.Name, p.HSNCode, p.Unit}); err != nil {
			return nil, err
		}
	}
	w.blankRow()

	if err := w.writeHeader([]string{"PURCHASES"}); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{
		"Date", "Invoice No", "Product", "HSN Code", "Qty",
		"Rate Incl GST", "Rate Ex GST", "Taxable Value",
		"IGST", "CGST", "SGST", "Invoice Value", "Supplier",
	}); err != nil {
		return nil, err
	}
	for _, p := range data.Purchases {
		product := productByID[p.ProductID]
		if err := w.writeRow([]interface{}{
			p.Date, p.InvoiceNo, product.Name, product.HSNCode, p.Qty.InexactFloat64(),
			p.InclGST.InexactFloat64(), p.ExGST.InexactFloat64(), p.TaxableValue.InexactFloat64(),
			p.IGST.InexactFloat64(), p.CGST.InexactFloat64(), p.SGST.InexactFloat64(),
			p.InvoiceValue.InexactFloat64(), p.Supplier,
		}); err != nil {
			return nil, err
		}
	}
	w.blankRow()

	if err := w.writeHeader([]string{"SALES"}); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{
		"Date", "Invoice No", "Product", "HSN Code", "Qty",
		"Rate Ex GST", "Taxable Value", "IGST", "CGST", "SGST", "Invoice Value",
		"Purchase Cost/Unit", "Total Purchase Cost", "Customer", "Payment Method",
	}); err != nil {
		return nil, err
	}
	for _, sale := range data.Sales {
		product := productByID[sale.ProductID]
		if err := w.writeRow([]interface{}{
			sale.Date, sale.InvoiceNo, product.Name, product.HSNCode, sale.Qty.InexactFloat64(),
			sale.ExGST.InexactFloat64(), sale.TaxableValue.InexactFloat64(),
			sale.IGST.InexactFloat64(), sale.CGST.InexactFloat64(), sale.SGST.InexactFloat64(),
			sale.InvoiceValue.InexactFloat64(),
			sale.PurchaseCostPerUnitExGST.InexactFloat64(), sale.TotalPurchaseCost.InexactFloat64(),
			sale.Customer, sale.PaymentMethod,
		}); err != nil {
			return nil, err
		}
	}
	w.blankRow()

	if err := w.writeHeader([]string{"CONSUMPTION"}); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{
		"Date", "Product", "HSN Code", "Qty", "Purpose",
		"Cost/Unit Ex GST", "Taxable Value", "IGST", "CGST", "SGST", "Total Cost",
	}); err != nil {
		return nil, err
	}
	for _, c := range data.Consumption {
		product := productByID[c.ProductID]
		if err := w.writeRow([]interface{}{
			c.Date, product.Name, product.HSNCode, c.Qty.InexactFloat64(), c.Purpose,
			c.PurchaseCostPerUnitExGST.InexactFloat64(), c.TaxableValue.InexactFloat64(),
			c.IGST.InexactFloat64(), c.CGST.InexactFloat64(), c.SGST.InexactFloat64(),
			c.TotalPurchaseCost.InexactFloat64(),
		}); err != nil {
			return nil, err
		}
	}
	w.blankRow()

	if err := w.writeHeader([]string{"BALANCE STOCK"}); err != nil {
		return nil, err
	}
	if err := w.writeHeader([]string{
		"Product", "HSN Code", "Qty", "Taxable Value", "IGST", "CGST", "SGST", "Invoice Value",
	}); err != nil {
		return nil, err
	}
	for _, b := range data.Balances {
		product := productByID[b.ProductID]
		if err := w.writeRow([]interface{}{
			product.Name, product.HSNCode, b.Qty.InexactFloat64(), b.TaxableValue.InexactFloat64(),
			b.IGST.InexactFloat64(), b.CGST.InexactFloat64(), b.SGST.InexactFloat64(),
			b.InvoiceValue.InexactFloat64(),
		}); err != nil {
			return nil, err
		}
	}

	return f, nil
}

type sheetWriter struct {
	file        *excelize.File
	headerStyle int
	row         int
}

func (w *sheetWriter) writeRow(values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(SheetName, cell, v); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) writeHeader(titles []string) error {
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(maxInt(len(titles), 1), w.row)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := w.writeRow(values); err != nil {
		return err
	}
	return w.file.SetCellStyle(SheetName, start, end, w.headerStyle)
}

func (w *sheetWriter) blankRow() {
	w.row++
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SectionRowCount is exported for sizing checks in callers that stream the
// workbook and want to log what was written.
func SectionRowCount(data Data) string {
	return fmt.Sprintf("products=%d purchases=%d sales=%d consumption=%d balances=%d",
		len(data.Products), len(data.Purchases), len(data.Sales), len(data.Consumption), len(data.Balances))
}
