package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"salonbooks/backend/internal/domain"
	"salonbooks/backend/internal/store"
	"salonbooks/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hsn_code, unit
		FROM products
		ORDER BY name, hsn_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.HSNCode, &p.Unit); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, hsn_code, unit
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.HSNCode, &p.Unit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindProductByNameHSN(ctx context.Context, name string, hsnCode string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, hsn_code, unit
		FROM products
		WHERE name = $1 AND hsn_code = $2
	`, name, hsnCode).Scan(&p.ID, &p.Name, &p.HSNCode, &p.Unit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateProduct relies on the unique index over (name, hsn_code): a concurrent
// duplicate insert surfaces as ErrDuplicateProduct so the caller can retry the
// lookup instead of failing the row.
func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" || product.ID == "" {
		return nil, store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, hsn_code, unit, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
	`, product.ID, product.Name, product.HSNCode, product.Unit)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateProduct
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProductUnit(ctx context.Context, id string, unit string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET unit = $2, updated_at = now()
		WHERE id = $1
	`, id, unit)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) InsertPurchase(ctx context.Context, p domain.Purchase) error {
	if p.ID == "" || p.ProductID == "" {
		return store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO purchases
			(id, product_id, date, invoice_no, qty, incl_gst, ex_gst,
			 taxable_value, igst, cgst, sgst, invoice_value, supplier, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
	`, p.ID, p.ProductID, p.Date, p.InvoiceNo, p.Qty, p.InclGST, p.ExGST,
		p.TaxableValue, p.IGST, p.CGST, p.SGST, p.InvoiceValue, p.Supplier)
	return err
}

func (s *Store) InsertSale(ctx context.Context, sale domain.Sale) error {
	if sale.ID == "" || sale.ProductID == "" {
		return store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales
			(id, product_id, date, invoice_no, qty, incl_gst, ex_gst,
			 taxable_value, igst, cgst, sgst, invoice_value, customer, payment_method,
			 purchase_cost_per_unit_ex_gst, purchase_gst_percentage, purchase_taxable_value,
			 purchase_igst, purchase_cgst, purchase_sgst, total_purchase_cost,
			 discount_percentage, discounted_sales_rate_ex_gst, sales_gst_percentage,
			 pos_order_id, pos_service_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,
			NULLIF($25,''), NULLIF($26,''), now())
	`, sale.ID, sale.ProductID, sale.Date, sale.InvoiceNo, sale.Qty, sale.InclGST, sale.ExGST,
		sale.TaxableValue, sale.IGST, sale.CGST, sale.SGST, sale.InvoiceValue, sale.Customer, sale.PaymentMethod,
		sale.PurchaseCostPerUnitExGST, sale.PurchaseGSTPercentage, sale.PurchaseTaxableValue,
		sale.PurchaseIGST, sale.PurchaseCGST, sale.PurchaseSGST, sale.TotalPurchaseCost,
		sale.DiscountPercentage, sale.DiscountedSalesRateExGST, sale.SalesGSTPercentage,
		sale.POSOrderID, sale.POSServiceID)
	return err
}

func (s *Store) InsertConsumption(ctx context.Context, c domain.Consumption) error {
	if c.ID == "" || c.ProductID == "" {
		return store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consumption
			(id, product_id, date, qty, purpose,
			 purchase_cost_per_unit_ex_gst, purchase_gst_percentage,
			 taxable_value, igst, cgst, sgst, total_purchase_cost, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
	`, c.ID, c.ProductID, c.Date, c.Qty, c.Purpose,
		c.PurchaseCostPerUnitExGST, c.PurchaseGSTPercentage,
		c.TaxableValue, c.IGST, c.CGST, c.SGST, c.TotalPurchaseCost)
	return err
}

const purchaseColumns = `
	id, product_id, date::text, invoice_no, qty, incl_gst, ex_gst,
	taxable_value, igst, cgst, sgst, invoice_value, supplier`

func (s *Store) scanPurchases(rows *sql.Rows) ([]domain.Purchase, error) {
	defer rows.Close()

	purchases := make([]domain.Purchase, 0, 64)
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Date, &p.InvoiceNo, &p.Qty, &p.InclGST, &p.ExGST,
			&p.TaxableValue, &p.IGST, &p.CGST, &p.SGST, &p.InvoiceValue, &p.Supplier); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *Store) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		ORDER BY date, id
	`)
	if err != nil {
		return nil, err
	}
	return s.scanPurchases(rows)
}

func (s *Store) ListPurchasesByProduct(ctx context.Context, productID string) ([]domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE product_id = $1
		ORDER BY date, id
	`, productID)
	if err != nil {
		return nil, err
	}
	return s.scanPurchases(rows)
}

func (s *Store) LatestPurchase(ctx context.Context, productID string) (*domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE product_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT 1
	`, productID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.scanPurchases(rows)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, store.ErrNotFound
	}
	return &purchases[0], nil
}

const saleColumns = `
	id, product_id, date::text, invoice_no, qty, incl_gst, ex_gst,
	taxable_value, igst, cgst, sgst, invoice_value, customer, payment_method,
	purchase_cost_per_unit_ex_gst, purchase_gst_percentage, purchase_taxable_value,
	purchase_igst, purchase_cgst, purchase_sgst, total_purchase_cost,
	discount_percentage, discounted_sales_rate_ex_gst, sales_gst_percentage,
	COALESCE(pos_order_id, ''), COALESCE(pos_service_id, '')`

func (s *Store) scanSales(rows *sql.Rows) ([]domain.Sale, error) {
	defer rows.Close()

	sales := make([]domain.Sale, 0, 64)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.Date, &sale.InvoiceNo, &sale.Qty, &sale.InclGST, &sale.ExGST,
			&sale.TaxableValue, &sale.IGST, &sale.CGST, &sale.SGST, &sale.InvoiceValue, &sale.Customer, &sale.PaymentMethod,
			&sale.PurchaseCostPerUnitExGST, &sale.PurchaseGSTPercentage, &sale.PurchaseTaxableValue,
			&sale.PurchaseIGST, &sale.PurchaseCGST, &sale.PurchaseSGST, &sale.TotalPurchaseCost,
			&sale.DiscountPercentage, &sale.DiscountedSalesRateExGST, &sale.SalesGSTPercentage,
			&sale.POSOrderID, &sale.POSServiceID); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		ORDER BY date, id
	`)
	if err != nil {
		return nil, err
	}
	return s.scanSales(rows)
}

func (s *Store) ListSalesByProduct(ctx context.Context, productID string) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE product_id = $1
		ORDER BY date, id
	`, productID)
	if err != nil {
		return nil, err
	}
	return s.scanSales(rows)
}

const consumptionColumns = `
	id, product_id, date::text, qty, purpose,
	purchase_cost_per_unit_ex_gst, purchase_gst_percentage,
	taxable_value, igst, cgst, sgst, total_purchase_cost`

func (s *Store) scanConsumption(rows *sql.Rows) ([]domain.Consumption, error) {
	defer rows.Close()

	entries := make([]domain.Consumption, 0, 32)
	for rows.Next() {
		var c domain.Consumption
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Date, &c.Qty, &c.Purpose,
			&c.PurchaseCostPerUnitExGST, &c.PurchaseGSTPercentage,
			&c.TaxableValue, &c.IGST, &c.CGST, &c.SGST, &c.TotalPurchaseCost); err != nil {
			return nil, err
		}
		entries = append(entries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ListConsumption(ctx context.Context) ([]domain.Consumption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+consumptionColumns+`
		FROM consumption
		ORDER BY date, id
	`)
	if err != nil {
		return nil, err
	}
	return s.scanConsumption(rows)
}

func (s *Store) ListConsumptionByProduct(ctx context.Context, productID string) ([]domain.Consumption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+consumptionColumns+`
		FROM consumption
		WHERE product_id = $1
		ORDER BY date, id
	`, productID)
	if err != nil {
		return nil, err
	}
	return s.scanConsumption(rows)
}

func (s *Store) SaleExistsForOrder(ctx context.Context, posOrderID string) (bool, error) {
	if posOrderID == "" {
		return false, nil
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM sales WHERE pos_order_id = $1)
	`, posOrderID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) GetBalance(ctx context.Context, productID string) (*domain.BalanceStock, error) {
	var b domain.BalanceStock
	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, qty, taxable_value, igst, cgst, sgst, invoice_value
		FROM balance_stock
		WHERE product_id = $1
	`, productID).Scan(&b.ID, &b.ProductID, &b.Qty, &b.TaxableValue, &b.IGST, &b.CGST, &b.SGST, &b.InvoiceValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBalances(ctx context.Context) ([]domain.BalanceStock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, qty, taxable_value, igst, cgst, sgst, invoice_value
		FROM balance_stock
		ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]domain.BalanceStock, 0, 64)
	for rows.Next() {
		var b domain.BalanceStock
		if err := rows.Scan(&b.ID, &b.ProductID, &b.Qty, &b.TaxableValue, &b.IGST, &b.CGST, &b.SGST, &b.InvoiceValue); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *Store) UpsertBalance(ctx context.Context, balance domain.BalanceStock) error {
	if balance.ProductID == "" {
		return store.ErrInvalidRecord
	}
	if balance.ID == "" {
		balance.ID = xid.New("bal")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_stock (id, product_id, qty, taxable_value, igst, cgst, sgst, invoice_value, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
		ON CONFLICT (product_id)
		DO UPDATE SET qty = EXCLUDED.qty, taxable_value = EXCLUDED.taxable_value,
			igst = EXCLUDED.igst, cgst = EXCLUDED.cgst, sgst = EXCLUDED.sgst,
			invoice_value = EXCLUDED.invoice_value, updated_at = now()
	`, balance.ID, balance.ProductID, balance.Qty, balance.TaxableValue, balance.IGST, balance.CGST, balance.SGST, balance.InvoiceValue)
	return err
}

// AdjustBalance applies the decrement in one statement so concurrent
// adjustments against the same row serialize inside Postgres instead of racing
// through a read-modify-write. A missing row starts from zero, leaving the
// negated delta as a stock deficit.
func (s *Store) AdjustBalance(ctx context.Context, productID string, delta domain.BalanceDelta) error {
	if productID == "" {
		return store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_stock (id, product_id, qty, taxable_value, igst, cgst, sgst, invoice_value, updated_at)
		VALUES ($1,$2, -$3, -$4, -$5, -$6, -$7, -$8, now())
		ON CONFLICT (product_id)
		DO UPDATE SET qty = balance_stock.qty + EXCLUDED.qty,
			taxable_value = balance_stock.taxable_value + EXCLUDED.taxable_value,
			igst = balance_stock.igst + EXCLUDED.igst,
			cgst = balance_stock.cgst + EXCLUDED.cgst,
			sgst = balance_stock.sgst + EXCLUDED.sgst,
			invoice_value = balance_stock.invoice_value + EXCLUDED.invoice_value,
			updated_at = now()
	`, xid.New("bal"), productID, delta.Qty, delta.TaxableValue, delta.IGST, delta.CGST, delta.SGST, delta.InvoiceValue)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidRecord
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return store.ErrInvalidRecord
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
