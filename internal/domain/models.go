package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog identity for everything tracked in the stock ledger.
// The business key is (name, hsn_code); the id is generated on first import.
type Product struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	HSNCode string `json:"hsn_code"`
	Unit    string `json:"unit"`
}

// Purchase is an inbound stock transaction. Rows are immutable once written.
// incl_gst and ex_gst are per-unit rates; taxable_value and the tax splits are
// derived from qty and ex_gst at the chosen GST percentage.
type Purchase struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Date         string          `json:"date"`
	InvoiceNo    string          `json:"invoice_no"`
	Qty          decimal.Decimal `json:"qty"`
	InclGST      decimal.Decimal `json:"incl_gst"`
	ExGST        decimal.Decimal `json:"ex_gst"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
	Supplier     string          `json:"supplier"`
}

// Sale is an outbound revenue transaction. Besides the sale-price fields it
// carries a shadow copy of the purchase-side cost basis captured at the time of
// sale (valued at the latest known purchase cost for the product); the balance
// reconciler subtracts the cost-basis fields, never the sale price.
type Sale struct {
	ID                       string          `json:"id"`
	ProductID                string          `json:"product_id"`
	Date                     string          `json:"date"`
	InvoiceNo                string          `json:"invoice_no"`
	Qty                      decimal.Decimal `json:"qty"`
	InclGST                  decimal.Decimal `json:"incl_gst"`
	ExGST                    decimal.Decimal `json:"ex_gst"`
	TaxableValue             decimal.Decimal `json:"taxable_value"`
	IGST                     decimal.Decimal `json:"igst"`
	CGST                     decimal.Decimal `json:"cgst"`
	SGST                     decimal.Decimal `json:"sgst"`
	InvoiceValue             decimal.Decimal `json:"invoice_value"`
	Customer                 string          `json:"customer"`
	PaymentMethod            string          `json:"payment_method"`
	PurchaseCostPerUnitExGST decimal.Decimal `json:"purchase_cost_per_unit_ex_gst"`
	PurchaseGSTPercentage    decimal.Decimal `json:"purchase_gst_percentage"`
	PurchaseTaxableValue     decimal.Decimal `json:"purchase_taxable_value"`
	PurchaseIGST             decimal.Decimal `json:"purchase_igst"`
	PurchaseCGST             decimal.Decimal `json:"purchase_cgst"`
	PurchaseSGST             decimal.Decimal `json:"purchase_sgst"`
	TotalPurchaseCost        decimal.Decimal `json:"total_purchase_cost"`
	DiscountPercentage       decimal.Decimal `json:"discount_percentage"`
	DiscountedSalesRateExGST decimal.Decimal `json:"discounted_sales_rate_ex_gst"`
	SalesGSTPercentage       decimal.Decimal `json:"sales_gst_percentage"`
	POSOrderID               string          `json:"pos_order_id,omitempty"`
	POSServiceID             string          `json:"pos_service_id,omitempty"`
}

// Consumption is internal, non-revenue stock depletion (product used during a
// service rather than sold). Valued at purchase cost.
type Consumption struct {
	ID                       string          `json:"id"`
	ProductID                string          `json:"product_id"`
	Date                     string          `json:"date"`
	Qty                      decimal.Decimal `json:"qty"`
	Purpose                  string          `json:"purpose"`
	PurchaseCostPerUnitExGST decimal.Decimal `json:"purchase_cost_per_unit_ex_gst"`
	PurchaseGSTPercentage    decimal.Decimal `json:"purchase_gst_percentage"`
	TaxableValue             decimal.Decimal `json:"taxable_value"`
	IGST                     decimal.Decimal `json:"igst"`
	CGST                     decimal.Decimal `json:"cgst"`
	SGST                     decimal.Decimal `json:"sgst"`
	TotalPurchaseCost        decimal.Decimal `json:"total_purchase_cost"`
}

// BalanceStock is the single mutable aggregate: one row per product holding the
// current on-hand quantity and its valuation at purchase cost.
type BalanceStock struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Qty          decimal.Decimal `json:"qty"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
}

// BalanceDelta is the net depletion an incremental adjustment subtracts from
// a product's balance row. Positive fields remove stock, negative fields add
// it (a purchase carries a negative delta).
type BalanceDelta struct {
	Qty          decimal.Decimal
	TaxableValue decimal.Decimal
	IGST         decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	InvoiceValue decimal.Decimal
}

// Import payload: transaction rows reference products by (product_name,
// hsn_code), never by id; ids are resolved against the products section.

type ImportProduct struct {
	Name    string `json:"name"`
	HSNCode string `json:"hsn_code"`
	Unit    string `json:"unit"`
}

type ImportPurchase struct {
	ProductName  string          `json:"product_name"`
	HSNCode      string          `json:"hsn_code"`
	Date         string          `json:"date"`
	InvoiceNo    string          `json:"invoice_no"`
	Qty          decimal.Decimal `json:"qty"`
	InclGST      decimal.Decimal `json:"incl_gst"`
	ExGST        decimal.Decimal `json:"ex_gst"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
	Supplier     string          `json:"supplier"`
}

type ImportSale struct {
	ProductName              string          `json:"product_name"`
	HSNCode                  string          `json:"hsn_code"`
	Date                     string          `json:"date"`
	InvoiceNo                string          `json:"invoice_no"`
	Qty                      decimal.Decimal `json:"qty"`
	InclGST                  decimal.Decimal `json:"incl_gst"`
	ExGST                    decimal.Decimal `json:"ex_gst"`
	TaxableValue             decimal.Decimal `json:"taxable_value"`
	IGST                     decimal.Decimal `json:"igst"`
	CGST                     decimal.Decimal `json:"cgst"`
	SGST                     decimal.Decimal `json:"sgst"`
	InvoiceValue             decimal.Decimal `json:"invoice_value"`
	Customer                 string          `json:"customer"`
	PaymentMethod            string          `json:"payment_method"`
	PurchaseCostPerUnitExGST decimal.Decimal `json:"purchase_cost_per_unit_ex_gst"`
	PurchaseGSTPercentage    decimal.Decimal `json:"purchase_gst_percentage"`
	PurchaseTaxableValue     decimal.Decimal `json:"purchase_taxable_value"`
	PurchaseIGST             decimal.Decimal `json:"purchase_igst"`
	PurchaseCGST             decimal.Decimal `json:"purchase_cgst"`
	PurchaseSGST             decimal.Decimal `json:"purchase_sgst"`
	TotalPurchaseCost        decimal.Decimal `json:"total_purchase_cost"`
	DiscountPercentage       decimal.Decimal `json:"discount_percentage"`
	DiscountedSalesRateExGST decimal.Decimal `json:"discounted_sales_rate_ex_gst"`
	SalesGSTPercentage       decimal.Decimal `json:"sales_gst_percentage"`
}

type ImportConsumption struct {
	ProductName              string          `json:"product_name"`
	HSNCode                  string          `json:"hsn_code"`
	Date                     string          `json:"date"`
	Qty                      decimal.Decimal `json:"qty"`
	Purpose                  string          `json:"purpose"`
	PurchaseCostPerUnitExGST decimal.Decimal `json:"purchase_cost_per_unit_ex_gst"`
	PurchaseGSTPercentage    decimal.Decimal `json:"purchase_gst_percentage"`
	TaxableValue             decimal.Decimal `json:"taxable_value"`
	IGST                     decimal.Decimal `json:"igst"`
	CGST                     decimal.Decimal `json:"cgst"`
	SGST                     decimal.Decimal `json:"sgst"`
	TotalPurchaseCost        decimal.Decimal `json:"total_purchase_cost"`
}

type ImportBalance struct {
	ProductName  string          `json:"product_name"`
	HSNCode      string          `json:"hsn_code"`
	Qty          decimal.Decimal `json:"qty"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
}

type ImportRequest struct {
	Products    []ImportProduct     `json:"products"`
	Purchases   []ImportPurchase    `json:"purchases"`
	Sales       []ImportSale        `json:"sales"`
	Consumption []ImportConsumption `json:"consumption"`
	Balance     []ImportBalance     `json:"balance"`
}

type CategoryResult struct {
	Success int `json:"success"`
	Error   int `json:"error"`
}

type ImportResult struct {
	Products    CategoryResult `json:"products"`
	Purchases   CategoryResult `json:"purchases"`
	Sales       CategoryResult `json:"sales"`
	Consumption CategoryResult `json:"consumption"`
	Balance     CategoryResult `json:"balance"`
}

// POS payloads use the point-of-sale system's camelCase field names; the sync
// adapter translates them into sale rows.

type POSService struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ProductID     string          `json:"productId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	GSTPercentage decimal.Decimal `json:"gstPercentage,omitempty"`
}

type POSOrder struct {
	ID            string       `json:"id"`
	Services      []POSService `json:"services"`
	CreatedAt     string       `json:"createdAt"`
	CustomerName  string       `json:"customerName,omitempty"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
}

type POSSyncRequest struct {
	POSOrders []POSOrder `json:"posOrders"`
}

type POSSyncResult struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// StockSummary is the dashboard aggregate over all balance rows.
type StockSummary struct {
	Products          int             `json:"products"`
	TotalQty          decimal.Decimal `json:"total_qty"`
	TotalTaxableValue decimal.Decimal `json:"total_taxable_value"`
	TotalInvoiceValue decimal.Decimal `json:"total_invoice_value"`
	GeneratedAt       string          `json:"generated_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}
