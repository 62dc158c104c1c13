package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"salonbooks/backend/internal/domain"
	"salonbooks/backend/internal/store"
	"salonbooks/backend/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	productsByID    map[string]domain.Product
	productIDByKey  map[string]string
	purchases       []domain.Purchase
	sales           []domain.Sale
	consumption     []domain.Consumption
	balancesByProd  map[string]domain.BalanceStock
	usersByUsername map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		productsByID:    make(map[string]domain.Product),
		productIDByKey:  make(map[string]string),
		purchases:       make([]domain.Purchase, 0, 128),
		sales:           make([]domain.Sale, 0, 128),
		consumption:     make([]domain.Consumption, 0, 64),
		balancesByProd:  make(map[string]domain.BalanceStock),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

// NewSeeded builds a store pre-loaded with a small salon retail catalog and
// dev user accounts, for demo mode when no DATABASE_URL is configured.
func NewSeeded() *Store {
	s := New()

	seed := []domain.Product{
		{ID: "prod-seed-01", Name: "Argan Oil Shampoo 250ml", HSNCode: "3305", Unit: "pcs"},
		{ID: "prod-seed-02", Name: "Keratin Conditioner 200ml", HSNCode: "3305", Unit: "pcs"},
		{ID: "prod-seed-03", Name: "Hair Color Tube Ash Brown", HSNCode: "3305", Unit: "pcs"},
		{ID: "prod-seed-04", Name: "Facial Kit Gold", HSNCode: "3304", Unit: "kit"},
		{ID: "prod-seed-05", Name: "Hydrating Face Serum 30ml", HSNCode: "3304", Unit: "pcs"},
		{ID: "prod-seed-06", Name: "Nail Polish Ruby Red", HSNCode: "3304", Unit: "pcs"},
		{ID: "prod-seed-07", Name: "Massage Oil Lavender 500ml", HSNCode: "3301", Unit: "pcs"},
		{ID: "prod-seed-08", Name: "Disposable Towels Pack", HSNCode: "6307", Unit: "pack"},
	}
	for _, p := range seed {
		s.productsByID[p.ID] = p
		s.productIDByKey[productKey(p.Name, p.HSNCode)] = p.ID
	}

	s.usersByUsername = seedUsers()
	return s
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// productKey mirrors the import map key: exact name and HSN code, pipe-joined.
func productKey(name, hsnCode string) string {
	return name + "|" + hsnCode
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.productsByID))
	for _, p := range s.productsByID {
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Name == b.Name {
			return cmpString(a.HSNCode, b.HSNCode)
		}
		return cmpString(a.Name, b.Name)
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.productsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) FindProductByNameHSN(_ context.Context, name string, hsnCode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.productIDByKey[productKey(name, hsnCode)]
	if !exists {
		return nil, store.ErrNotFound
	}
	product := s.productsByID[id]
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" || product.ID == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := productKey(product.Name, product.HSNCode)
	if _, exists := s.productIDByKey[key]; exists {
		return nil, store.ErrDuplicateProduct
	}

	s.productsByID[product.ID] = product
	s.productIDByKey[key] = product.ID
	created := product
	return &created, nil
}

func (s *Store) UpdateProductUnit(_ context.Context, id string, unit string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.productsByID[id]
	if !exists {
		return store.ErrNotFound
	}
	product.Unit = unit
	s.productsByID[id] = product
	return nil
}

func (s *Store) InsertPurchase(_ context.Context, purchase domain.Purchase) error {
	if purchase.ID == "" || purchase.ProductID == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[purchase.ProductID]; !exists {
		return store.ErrNotFound
	}
	s.purchases = append(s.purchases, purchase)
	return nil
}

func (s *Store) InsertSale(_ context.Context, sale domain.Sale) error {
	if sale.ID == "" || sale.ProductID == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[sale.ProductID]; !exists {
		return store.ErrNotFound
	}
	s.sales = append(s.sales, sale)
	return nil
}

func (s *Store) InsertConsumption(_ context.Context, consumption domain.Consumption) error {
	if consumption.ID == "" || consumption.ProductID == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[consumption.ProductID]; !exists {
		return store.ErrNotFound
	}
	s.consumption = append(s.consumption, consumption)
	return nil
}

func (s *Store) ListPurchases(_ context.Context) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Purchase, len(s.purchases))
	copy(result, s.purchases)
	return result, nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, len(s.sales))
	copy(result, s.sales)
	return result, nil
}

func (s *Store) ListConsumption(_ context.Context) ([]domain.Consumption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Consumption, len(s.consumption))
	copy(result, s.consumption)
	return result, nil
}

func (s *Store) ListPurchasesByProduct(_ context.Context, productID string) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Purchase, 0, 8)
	for _, p := range s.purchases {
		if p.ProductID == productID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Store) ListSalesByProduct(_ context.Context, productID string) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, 0, 8)
	for _, sale := range s.sales {
		if sale.ProductID == productID {
			result = append(result, sale)
		}
	}
	return result, nil
}

func (s *Store) ListConsumptionByProduct(_ context.Context, productID string) ([]domain.Consumption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Consumption, 0, 8)
	for _, c := range s.consumption {
		if c.ProductID == productID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *Store) LatestPurchase(_ context.Context, productID string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Purchase
	for i := range s.purchases {
		p := s.purchases[i]
		if p.ProductID != productID {
			continue
		}
		// ISO dates compare lexically; later insertion wins ties.
		if latest == nil || p.Date >= latest.Date {
			latest = &p
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	found := *latest
	return &found, nil
}

func (s *Store) SaleExistsForOrder(_ context.Context, posOrderID string) (bool, error) {
	if posOrderID == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sale := range s.sales {
		if sale.POSOrderID == posOrderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetBalance(_ context.Context, productID string) (*domain.BalanceStock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, exists := s.balancesByProd[productID]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyBalance := balance
	return &copyBalance, nil
}

func (s *Store) ListBalances(_ context.Context) ([]domain.BalanceStock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BalanceStock, 0, len(s.balancesByProd))
	for _, b := range s.balancesByProd {
		result = append(result, b)
	}
	slices.SortFunc(result, func(a, b domain.BalanceStock) int {
		return cmpString(a.ProductID, b.ProductID)
	})
	return result, nil
}

func (s *Store) UpsertBalance(_ context.Context, balance domain.BalanceStock) error {
	if balance.ProductID == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.balancesByProd[balance.ProductID]; exists {
		balance.ID = existing.ID
	} else if balance.ID == "" {
		balance.ID = xid.New("bal")
	}
	s.balancesByProd[balance.ProductID] = balance
	return nil
}

// AdjustBalance subtracts delta from the product's balance row under the store
// lock, so concurrent adjustments never lose updates. A missing row is created
// holding the negated delta (a stock deficit).
func (s *Store) AdjustBalance(_ context.Context, productID string, delta domain.BalanceDelta) error {
	if productID == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, exists := s.balancesByProd[productID]
	if !exists {
		balance = domain.BalanceStock{
			ID:        xid.New("bal"),
			ProductID: productID,
		}
	}
	balance.Qty = balance.Qty.Sub(delta.Qty)
	balance.TaxableValue = balance.TaxableValue.Sub(delta.TaxableValue)
	balance.IGST = balance.IGST.Sub(delta.IGST)
	balance.CGST = balance.CGST.Sub(delta.CGST)
	balance.SGST = balance.SGST.Sub(delta.SGST)
	balance.InvoiceValue = balance.InvoiceValue.Sub(delta.InvoiceValue)
	s.balancesByProd[productID] = balance
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidRecord
	}
	user.Username = username
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		users = append(users, u)
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
