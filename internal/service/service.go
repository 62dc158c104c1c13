package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salonbooks/backend/internal/cache"
	"salonbooks/backend/internal/domain"
	"salonbooks/backend/internal/gst"
	"salonbooks/backend/internal/store"
	"salonbooks/backend/internal/xid"
)

const summaryCacheKey = "stock:summary"

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo          store.Repository
	summaryCache  cache.SummaryCache
	summaryTTL    time.Duration
	defaultUnit   string
	defaultGSTPct decimal.Decimal
}

func New(repo store.Repository, summaryCache cache.SummaryCache, summaryTTL time.Duration, defaultUnit string) *Service {
	if summaryCache == nil {
		summaryCache = cache.NoopSummaryCache{}
	}
	if summaryTTL <= 0 {
		summaryTTL = time.Minute
	}
	if defaultUnit == "" {
		defaultUnit = "pcs"
	}

	return &Service{
		repo:          repo,
		summaryCache:  summaryCache,
		summaryTTL:    summaryTTL,
		defaultUnit:   defaultUnit,
		defaultGSTPct: decimal.NewFromInt(18),
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ListBalances(ctx context.Context) ([]domain.BalanceStock, error) {
	return s.repo.ListBalances(ctx)
}

// ImportInventory ingests one combined payload of products, purchases, sales,
// consumption and explicit balance rows. Each row succeeds or fails on its
// own: a bad row is counted and skipped, the rest of the payload still lands.
// Transaction rows reference products by (product_name, hsn_code); unknown
// references are row errors, never implicit product creation.
//
// After the rows are written the balance of every product touched by a
// purchase, sale or consumption row is updated: a product without a balance
// row gets one built from its full ledger, a product that already has one is
// adjusted by just the imported rows so an opening balance from an earlier
// batch is never wiped. Explicit balance rows are applied last and win.
func (s *Service) ImportInventory(ctx context.Context, req domain.ImportRequest) (domain.ImportResult, error) {
	var result domain.ImportResult

	// Product ids by "name|hsn", pre-seeded by the products section and
	// extended lazily as transaction rows resolve against the catalog.
	productMap := make(map[string]string, len(req.Products))
	deltas := make(map[string]domain.BalanceDelta)

	for _, row := range req.Products {
		product, err := s.resolveOrCreateProduct(ctx, row)
		if err != nil {
			log.Printf("[service] WARN: product import failed name=%q hsn=%q: %v", row.Name, row.HSNCode, err)
			result.Products.Error++
			continue
		}
		productMap[productKey(product.Name, product.HSNCode)] = product.ID
		result.Products.Success++
	}

	for _, row := range req.Purchases {
		productID, err := s.resolveProductID(ctx, productMap, row.ProductName, row.HSNCode)
		if err != nil {
			log.Printf("[service] WARN: purchase import failed product=%q hsn=%q: %v", row.ProductName, row.HSNCode, err)
			result.Purchases.Error++
			continue
		}
		delta, err := s.importPurchase(ctx, productID, row)
		if err != nil {
			log.Printf("[service] WARN: purchase import failed product=%q invoice=%q: %v", row.ProductName, row.InvoiceNo, err)
			result.Purchases.Error++
			continue
		}
		deltas[productID] = addDelta(deltas[productID], delta)
		result.Purchases.Success++
	}

	for _, row := range req.Sales {
		productID, err := s.resolveProductID(ctx, productMap, row.ProductName, row.HSNCode)
		if err != nil {
			log.Printf("[service] WARN: sale import failed product=%q hsn=%q: %v", row.ProductName, row.HSNCode, err)
			result.Sales.Error++
			continue
		}
		delta, err := s.importSale(ctx, productID, row)
		if err != nil {
			log.Printf("[service] WARN: sale import failed product=%q invoice=%q: %v", row.ProductName, row.InvoiceNo, err)
			result.Sales.Error++
			continue
		}
		deltas[productID] = addDelta(deltas[productID], delta)
		result.Sales.Success++
	}

	for _, row := range req.Consumption {
		productID, err := s.resolveProductID(ctx, productMap, row.ProductName, row.HSNCode)
		if err != nil {
			log.Printf("[service] WARN: consumption import failed product=%q hsn=%q: %v", row.ProductName, row.HSNCode, err)
			result.Consumption.Error++
			continue
		}
		delta, err := s.importConsumption(ctx, productID, row)
		if err != nil {
			log.Printf("[service] WARN: consumption import failed product=%q: %v", row.ProductName, err)
			result.Consumption.Error++
			continue
		}
		deltas[productID] = addDelta(deltas[productID], delta)
		result.Consumption.Success++
	}

	for productID, delta := range deltas {
		if err := s.applyLedgerDelta(ctx, productID, delta); err != nil {
			log.Printf("[service] WARN: balance update failed product=%s: %v", productID, err)
		}
	}

	// Explicit balance rows override the recomputed figures.
	for _, row := range req.Balance {
		productID, err := s.resolveProductID(ctx, productMap, row.ProductName, row.HSNCode)
		if err != nil {
			log.Printf("[service] WARN: balance import failed product=%q hsn=%q: %v", row.ProductName, row.HSNCode, err)
			result.Balance.Error++
			continue
		}
		err = s.repo.UpsertBalance(ctx, domain.BalanceStock{
			ProductID:    productID,
			Qty:          row.Qty,
			TaxableValue: row.TaxableValue,
			IGST:         row.IGST,
			CGST:         row.CGST,
			SGST:         row.SGST,
			InvoiceValue: row.InvoiceValue,
		})
		if err != nil {
			log.Printf("[service] WARN: balance upsert failed product=%q: %v", row.ProductName, err)
			result.Balance.Error++
			continue
		}
		result.Balance.Success++
	}

	s.invalidateSummary(ctx)

	return result, nil
}

func (s *Service) resolveOrCreateProduct(ctx context.Context, row domain.ImportProduct) (*domain.Product, error) {
	name := strings.TrimSpace(row.Name)
	hsn := strings.TrimSpace(row.HSNCode)
	if name == "" {
		return nil, store.ErrInvalidRecord
	}

	existing, err := s.repo.FindProductByNameHSN(ctx, name, hsn)
	if err == nil {
		if unit := strings.TrimSpace(row.Unit); unit != "" && unit != existing.Unit {
			if err := s.repo.UpdateProductUnit(ctx, existing.ID, unit); err != nil {
				return nil, err
			}
			existing.Unit = unit
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	unit := strings.TrimSpace(row.Unit)
	if unit == "" {
		unit = s.defaultUnit
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		ID:      xid.New("prod"),
		Name:    name,
		HSNCode: hsn,
		Unit:    unit,
	})
	if errors.Is(err, store.ErrDuplicateProduct) {
		// Lost the insert race to a concurrent import; the winner's row works.
		return s.repo.FindProductByNameHSN(ctx, name, hsn)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) resolveProductID(ctx context.Context, productMap map[string]string, name string, hsn string) (string, error) {
	name = strings.TrimSpace(name)
	hsn = strings.TrimSpace(hsn)
	if name == "" {
		return "", store.ErrInvalidRecord
	}

	key := productKey(name, hsn)
	if id, ok := productMap[key]; ok {
		return id, nil
	}

	product, err := s.repo.FindProductByNameHSN(ctx, name, hsn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("unknown product %q (hsn %q)", name, hsn)
		}
		return "", err
	}

	productMap[key] = product.ID
	return product.ID, nil
}

// importPurchase writes the purchase row and returns its balance
// contribution as a depletion delta (negative, since purchases add stock).
func (s *Service) importPurchase(ctx context.Context, productID string, row domain.ImportPurchase) (domain.BalanceDelta, error) {
	purchase := domain.Purchase{
		ID:           xid.New("pur"),
		ProductID:    productID,
		Date:         strings.TrimSpace(row.Date),
		InvoiceNo:    strings.TrimSpace(row.InvoiceNo),
		Qty:          row.Qty,
		InclGST:      row.InclGST,
		ExGST:        row.ExGST,
		TaxableValue: row.TaxableValue,
		IGST:         row.IGST,
		CGST:         row.CGST,
		SGST:         row.SGST,
		InvoiceValue: row.InvoiceValue,
		Supplier:     strings.TrimSpace(row.Supplier),
	}

	// Sparse rows carry only qty and per-unit rates; derive the breakup.
	if purchase.TaxableValue.IsZero() && !purchase.ExGST.IsZero() {
		pct := gst.NormalizePercent(gst.RatePercent(purchase.InclGST.Sub(purchase.ExGST), purchase.ExGST))
		if pct.IsZero() {
			pct = s.defaultGSTPct
		}
		b, err := gst.Compute(purchase.Qty, purchase.ExGST, pct, false)
		if err != nil {
			return domain.BalanceDelta{}, err
		}
		purchase.TaxableValue = b.TaxableValue
		purchase.IGST = b.IGST
		purchase.CGST = b.CGST
		purchase.SGST = b.SGST
		purchase.InvoiceValue = b.InvoiceValue
	}

	if purchase.Qty.Sign() <= 0 {
		return domain.BalanceDelta{}, gst.ErrInvalidQuantity
	}

	if err := s.repo.InsertPurchase(ctx, purchase); err != nil {
		return domain.BalanceDelta{}, err
	}
	return domain.BalanceDelta{
		Qty:          purchase.Qty.Neg(),
		TaxableValue: purchase.TaxableValue.Neg(),
		IGST:         purchase.IGST.Neg(),
		CGST:         purchase.CGST.Neg(),
		SGST:         purchase.SGST.Neg(),
		InvoiceValue: purchase.InvoiceValue.Neg(),
	}, nil
}

func (s *Service) importSale(ctx context.Context, productID string, row domain.ImportSale) (domain.BalanceDelta, error) {
	if row.Qty.Sign() <= 0 {
		return domain.BalanceDelta{}, gst.ErrInvalidQuantity
	}

	sale := domain.Sale{
		ID:                       xid.New("sale"),
		ProductID:                productID,
		Date:                     strings.TrimSpace(row.Date),
		InvoiceNo:                strings.TrimSpace(row.InvoiceNo),
		Qty:                      row.Qty,
		InclGST:                  row.InclGST,
		ExGST:                    row.ExGST,
		TaxableValue:             row.TaxableValue,
		IGST:                     row.IGST,
		CGST:                     row.CGST,
		SGST:                     row.SGST,
		InvoiceValue:             row.InvoiceValue,
		Customer:                 strings.TrimSpace(row.Customer),
		PaymentMethod:            strings.TrimSpace(row.PaymentMethod),
		PurchaseCostPerUnitExGST: row.PurchaseCostPerUnitExGST,
		PurchaseGSTPercentage:    row.PurchaseGSTPercentage,
		PurchaseTaxableValue:     row.PurchaseTaxableValue,
		PurchaseIGST:             row.PurchaseIGST,
		PurchaseCGST:             row.PurchaseCGST,
		PurchaseSGST:             row.PurchaseSGST,
		TotalPurchaseCost:        row.TotalPurchaseCost,
		DiscountPercentage:       row.DiscountPercentage,
		DiscountedSalesRateExGST: row.DiscountedSalesRateExGST,
		SalesGSTPercentage:       row.SalesGSTPercentage,
	}

	if sale.TaxableValue.IsZero() && !sale.DiscountedSalesRateExGST.IsZero() {
		pct := gst.NormalizePercent(sale.SalesGSTPercentage)
		if pct.IsZero() {
			pct = s.defaultGSTPct
		}
		b, err := gst.Compute(sale.Qty, sale.DiscountedSalesRateExGST, pct, false)
		if err != nil {
			return domain.BalanceDelta{}, err
		}
		sale.TaxableValue = b.TaxableValue
		sale.IGST = b.IGST
		sale.CGST = b.CGST
		sale.SGST = b.SGST
		sale.InvoiceValue = b.InvoiceValue
		sale.SalesGSTPercentage = pct
	}

	if sale.PurchaseTaxableValue.IsZero() {
		basis, err := s.costBasis(ctx, productID, sale.Qty, false)
		if err != nil {
			return domain.BalanceDelta{}, err
		}
		applyCostBasisToSale(&sale, basis)
	}

	if err := s.repo.InsertSale(ctx, sale); err != nil {
		return domain.BalanceDelta{}, err
	}
	return domain.BalanceDelta{
		Qty:          sale.Qty,
		TaxableValue: sale.PurchaseTaxableValue,
		IGST:         sale.PurchaseIGST,
		CGST:         sale.PurchaseCGST,
		SGST:         sale.PurchaseSGST,
		InvoiceValue: sale.TotalPurchaseCost,
	}, nil
}

func (s *Service) importConsumption(ctx context.Context, productID string, row domain.ImportConsumption) (domain.BalanceDelta, error) {
	if row.Qty.Sign() <= 0 {
		return domain.BalanceDelta{}, gst.ErrInvalidQuantity
	}

	entry := domain.Consumption{
		ID:                       xid.New("con"),
		ProductID:                productID,
		Date:                     strings.TrimSpace(row.Date),
		Qty:                      row.Qty,
		Purpose:                  strings.TrimSpace(row.Purpose),
		PurchaseCostPerUnitExGST: row.PurchaseCostPerUnitExGST,
		PurchaseGSTPercentage:    row.PurchaseGSTPercentage,
		TaxableValue:             row.TaxableValue,
		IGST:                     row.IGST,
		CGST:                     row.CGST,
		SGST:                     row.SGST,
		TotalPurchaseCost:        row.TotalPurchaseCost,
	}

	if entry.TaxableValue.IsZero() {
		basis, err := s.costBasis(ctx, productID, entry.Qty, false)
		if err != nil {
			return domain.BalanceDelta{}, err
		}
		entry.PurchaseCostPerUnitExGST = basis.costPerUnit
		entry.PurchaseGSTPercentage = basis.pct
		entry.TaxableValue = basis.breakup.TaxableValue
		entry.IGST = basis.breakup.IGST
		entry.CGST = basis.breakup.CGST
		entry.SGST = basis.breakup.SGST
		entry.TotalPurchaseCost = basis.breakup.InvoiceValue
	}

	if err := s.repo.InsertConsumption(ctx, entry); err != nil {
		return domain.BalanceDelta{}, err
	}
	return domain.BalanceDelta{
		Qty:          entry.Qty,
		TaxableValue: entry.TaxableValue,
		IGST:         entry.IGST,
		CGST:         entry.CGST,
		SGST:         entry.SGST,
		InvoiceValue: entry.TotalPurchaseCost,
	}, nil
}

// applyLedgerDelta folds freshly imported rows into a product's balance.
// A product that already has a balance row is adjusted by just the new rows,
// so an opening balance imported in an earlier batch survives; a product
// without one gets its row built from the full ledger.
func (s *Service) applyLedgerDelta(ctx context.Context, productID string, delta domain.BalanceDelta) error {
	_, err := s.repo.GetBalance(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return s.RecomputeBalance(ctx, productID)
	}
	if err != nil {
		return err
	}
	return s.repo.AdjustBalance(ctx, productID, delta)
}

func addDelta(a domain.BalanceDelta, b domain.BalanceDelta) domain.BalanceDelta {
	return domain.BalanceDelta{
		Qty:          a.Qty.Add(b.Qty),
		TaxableValue: a.TaxableValue.Add(b.TaxableValue),
		IGST:         a.IGST.Add(b.IGST),
		CGST:         a.CGST.Add(b.CGST),
		SGST:         a.SGST.Add(b.SGST),
		InvoiceValue: a.InvoiceValue.Add(b.InvoiceValue),
	}
}

// costBasis values qty units of a product at its latest known purchase cost.
// A product with no purchase history is valued at zero rather than failing
// the row.
type costBasisResult struct {
	costPerUnit decimal.Decimal
	pct         decimal.Decimal
	breakup     gst.Breakup
}

func (s *Service) costBasis(ctx context.Context, productID string, qty decimal.Decimal, combined bool) (costBasisResult, error) {
	latest, err := s.repo.LatestPurchase(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return costBasisResult{}, nil
	}
	if err != nil {
		return costBasisResult{}, err
	}

	costPerUnit := latest.ExGST
	if costPerUnit.IsZero() && latest.Qty.Sign() > 0 {
		perUnit, err := gst.PerUnit(latest.TaxableValue, latest.Qty)
		if err != nil {
			return costBasisResult{}, err
		}
		costPerUnit = perUnit
	}

	pct := gst.NormalizePercent(gst.RatePercent(latest.CGST.Add(latest.SGST), latest.TaxableValue))
	if pct.IsZero() {
		pct = gst.NormalizePercent(gst.RatePercent(latest.IGST, latest.TaxableValue))
	}

	breakup, err := gst.Compute(qty, costPerUnit, pct, combined)
	if err != nil {
		return costBasisResult{}, err
	}

	return costBasisResult{costPerUnit: costPerUnit, pct: pct, breakup: breakup}, nil
}

func applyCostBasisToSale(sale *domain.Sale, basis costBasisResult) {
	sale.PurchaseCostPerUnitExGST = basis.costPerUnit
	sale.PurchaseGSTPercentage = basis.pct
	sale.PurchaseTaxableValue = basis.breakup.TaxableValue
	sale.PurchaseIGST = basis.breakup.IGST
	sale.PurchaseCGST = basis.breakup.CGST
	sale.PurchaseSGST = basis.breakup.SGST
	sale.TotalPurchaseCost = basis.breakup.InvoiceValue
}

// RecomputeBalance rebuilds one product's balance row from the full ledger:
// the sum of its purchases minus sales and consumption, both outflows valued
// at their recorded purchase cost basis, never at sale price.
func (s *Service) RecomputeBalance(ctx context.Context, productID string) error {
	purchases, err := s.repo.ListPurchasesByProduct(ctx, productID)
	if err != nil {
		return err
	}
	sales, err := s.repo.ListSalesByProduct(ctx, productID)
	if err != nil {
		return err
	}
	consumption, err := s.repo.ListConsumptionByProduct(ctx, productID)
	if err != nil {
		return err
	}

	// A product with no transactions keeps whatever balance it has (a
	// recompute must not wipe an explicitly imported opening balance).
	if len(purchases) == 0 && len(sales) == 0 && len(consumption) == 0 {
		return nil
	}

	balance := domain.BalanceStock{ProductID: productID}
	for _, p := range purchases {
		balance.Qty = balance.Qty.Add(p.Qty)
		balance.TaxableValue = balance.TaxableValue.Add(p.TaxableValue)
		balance.IGST = balance.IGST.Add(p.IGST)
		balance.CGST = balance.CGST.Add(p.CGST)
		balance.SGST = balance.SGST.Add(p.SGST)
		balance.InvoiceValue = balance.InvoiceValue.Add(p.InvoiceValue)
	}
	for _, sale := range sales {
		balance.Qty = balance.Qty.Sub(sale.Qty)
		balance.TaxableValue = balance.TaxableValue.Sub(sale.PurchaseTaxableValue)
		balance.IGST = balance.IGST.Sub(sale.PurchaseIGST)
		balance.CGST = balance.CGST.Sub(sale.PurchaseCGST)
		balance.SGST = balance.SGST.Sub(sale.PurchaseSGST)
		balance.InvoiceValue = balance.InvoiceValue.Sub(sale.TotalPurchaseCost)
	}
	for _, c := range consumption {
		balance.Qty = balance.Qty.Sub(c.Qty)
		balance.TaxableValue = balance.TaxableValue.Sub(c.TaxableValue)
		balance.IGST = balance.IGST.Sub(c.IGST)
		balance.CGST = balance.CGST.Sub(c.CGST)
		balance.SGST = balance.SGST.Sub(c.SGST)
		balance.InvoiceValue = balance.InvoiceValue.Sub(c.TotalPurchaseCost)
	}

	return s.repo.UpsertBalance(ctx, balance)
}

// RecomputeAllBalances runs the full reconciliation over every product.
func (s *Service) RecomputeAllBalances(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := s.RecomputeBalance(ctx, p.ID); err != nil {
			return fmt.Errorf("recompute %s: %w", p.ID, err)
		}
	}
	s.invalidateSummary(ctx)
	return nil
}

// SyncPOSOrders converts point-of-sale orders into sale rows and decrements
// balances incrementally. Sync is idempotent per order: an order whose id
// already has a sale row is skipped whole, so replays never double-book.
// A failing order is reported in Errors and does not block the rest of the
// batch.
func (s *Service) SyncPOSOrders(ctx context.Context, req domain.POSSyncRequest) (domain.POSSyncResult, error) {
	result := domain.POSSyncResult{Errors: []string{}}

	for _, order := range req.POSOrders {
		orderID := strings.TrimSpace(order.ID)
		if orderID == "" {
			result.Errors = append(result.Errors, "order with empty id rejected")
			continue
		}

		exists, err := s.repo.SaleExistsForOrder(ctx, orderID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", orderID, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if err := s.syncOrder(ctx, order); err != nil {
			log.Printf("[service] WARN: pos order sync failed order=%s: %v", orderID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", orderID, err))
			continue
		}
		result.Processed++
	}

	s.invalidateSummary(ctx)

	return result, nil
}

func (s *Service) syncOrder(ctx context.Context, order domain.POSOrder) error {
	date := dateFromTimestamp(order.CreatedAt)

	for _, svc := range order.Services {
		// Lines without a product link are pure service revenue and do
		// not move stock.
		if strings.TrimSpace(svc.ProductID) == "" {
			continue
		}

		product, err := s.repo.GetProduct(ctx, strings.TrimSpace(svc.ProductID))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("service %s references unknown product %s", svc.ID, svc.ProductID)
			}
			return err
		}

		qty := svc.Quantity
		if qty.Sign() <= 0 {
			qty = decimal.NewFromInt(1)
		}

		pct := gst.NormalizePercent(svc.GSTPercentage)
		if pct.IsZero() {
			pct = s.defaultGSTPct
		}

		saleBreakup, err := gst.Compute(qty, svc.Price, pct, true)
		if err != nil {
			return err
		}

		basis, err := s.costBasis(ctx, product.ID, qty, true)
		if err != nil {
			return err
		}

		sale := domain.Sale{
			ID:                       xid.New("sale"),
			ProductID:                product.ID,
			Date:                     date,
			InvoiceNo:                "POS-" + strings.TrimSpace(order.ID),
			Qty:                      qty,
			ExGST:                    svc.Price,
			InclGST:                  saleBreakup.InvoiceValue.Div(qty),
			TaxableValue:             saleBreakup.TaxableValue,
			IGST:                     saleBreakup.IGST,
			CGST:                     saleBreakup.CGST,
			SGST:                     saleBreakup.SGST,
			InvoiceValue:             saleBreakup.InvoiceValue,
			Customer:                 strings.TrimSpace(order.CustomerName),
			PaymentMethod:            strings.TrimSpace(order.PaymentMethod),
			DiscountedSalesRateExGST: svc.Price,
			SalesGSTPercentage:       pct,
			POSOrderID:               strings.TrimSpace(order.ID),
			POSServiceID:             strings.TrimSpace(svc.ID),
		}
		applyCostBasisToSale(&sale, basis)

		if err := s.repo.InsertSale(ctx, sale); err != nil {
			return err
		}

		err = s.repo.AdjustBalance(ctx, product.ID, domain.BalanceDelta{
			Qty:          qty,
			TaxableValue: basis.breakup.TaxableValue,
			IGST:         basis.breakup.IGST,
			CGST:         basis.breakup.CGST,
			SGST:         basis.breakup.SGST,
			InvoiceValue: basis.breakup.InvoiceValue,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// StockSummary aggregates all balance rows into the dashboard view. Served
// from cache when fresh; writers invalidate on every import and sync.
func (s *Service) StockSummary(ctx context.Context) (domain.StockSummary, error) {
	if cached, ok, err := s.summaryCache.Get(ctx, summaryCacheKey); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: summary cache read failed: %v", err)
	}

	balances, err := s.repo.ListBalances(ctx)
	if err != nil {
		return domain.StockSummary{}, err
	}

	summary := domain.StockSummary{
		Products:    len(balances),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, b := range balances {
		summary.TotalQty = summary.TotalQty.Add(b.Qty)
		summary.TotalTaxableValue = summary.TotalTaxableValue.Add(b.TaxableValue)
		summary.TotalInvoiceValue = summary.TotalInvoiceValue.Add(b.InvoiceValue)
	}

	if err := s.summaryCache.Set(ctx, summaryCacheKey, &summary, s.summaryTTL); err != nil {
		log.Printf("[service] WARN: summary cache write failed: %v", err)
	}

	return summary, nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if err := s.summaryCache.Invalidate(ctx, summaryCacheKey); err != nil {
		log.Printf("[service] WARN: summary cache invalidation failed: %v", err)
	}
}

func productKey(name string, hsn string) string {
	return name + "|" + hsn
}

// dateFromTimestamp reduces a POS order timestamp to its calendar date.
// Orders without a parseable timestamp are booked on today's date.
func dateFromTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if len(ts) >= 10 {
		if _, err := time.Parse("2006-01-02", ts[:10]); err == nil {
			return ts[:10]
		}
	}
	return time.Now().UTC().Format("2006-01-02")
}
