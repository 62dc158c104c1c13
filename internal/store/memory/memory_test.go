package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"salonbooks/backend/internal/domain"
	"salonbooks/backend/internal/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateProductRejectsDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()

	product := domain.Product{ID: "prod_1", Name: "Keratin Mask 200g", HSNCode: "3305", Unit: "pcs"}
	if _, err := s.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := product
	dup.ID = "prod_2"
	if _, err := s.CreateProduct(ctx, dup); !errors.Is(err, store.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}

	// Same name under a different HSN code is a distinct product.
	other := domain.Product{ID: "prod_3", Name: "Keratin Mask 200g", HSNCode: "3307", Unit: "pcs"}
	if _, err := s.CreateProduct(ctx, other); err != nil {
		t.Fatalf("distinct hsn rejected: %v", err)
	}
}

func TestLatestPurchasePicksNewestDate(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{ID: "prod_1", Name: "Serum", HSNCode: "3304", Unit: "pcs"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, p := range []domain.Purchase{
		{ID: "pur_1", ProductID: "prod_1", Date: "2026-01-10", Qty: dec("5"), ExGST: dec("90")},
		{ID: "pur_2", ProductID: "prod_1", Date: "2026-03-01", Qty: dec("5"), ExGST: dec("110")},
		{ID: "pur_3", ProductID: "prod_1", Date: "2026-02-15", Qty: dec("5"), ExGST: dec("100")},
	} {
		if err := s.InsertPurchase(ctx, p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}

	latest, err := s.LatestPurchase(ctx, "prod_1")
	if err != nil {
		t.Fatalf("latest purchase: %v", err)
	}
	if latest.ID != "pur_2" {
		t.Fatalf("expected pur_2 (2026-03-01), got %s (%s)", latest.ID, latest.Date)
	}
}

func TestAdjustBalanceIsAtomic(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{ID: "prod_1", Name: "Hair Oil", HSNCode: "3305", Unit: "pcs"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.UpsertBalance(ctx, domain.BalanceStock{ProductID: "prod_1", Qty: dec("10")}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AdjustBalance(ctx, "prod_1", domain.BalanceDelta{Qty: dec("1")})
		}()
	}
	wg.Wait()

	balance, err := s.GetBalance(ctx, "prod_1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Qty.Equal(dec("8")) {
		t.Fatalf("concurrent adjustments lost an update: got %s, want 8", balance.Qty)
	}
}

func TestAdjustBalanceCreatesDeficitRow(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{ID: "prod_1", Name: "Conditioner", HSNCode: "3305", Unit: "pcs"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.AdjustBalance(ctx, "prod_1", domain.BalanceDelta{Qty: dec("3")}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	balance, err := s.GetBalance(ctx, "prod_1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Qty.Equal(dec("-3")) {
		t.Fatalf("expected deficit -3, got %s", balance.Qty)
	}
}

func TestSaleExistsForOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{ID: "prod_1", Name: "Wax", HSNCode: "3307", Unit: "pcs"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.InsertSale(ctx, domain.Sale{ID: "sale_1", ProductID: "prod_1", Date: "2026-02-01", Qty: dec("1"), POSOrderID: "ord-9"}); err != nil {
		t.Fatalf("insert sale: %v", err)
	}

	exists, err := s.SaleExistsForOrder(ctx, "ord-9")
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if !exists {
		t.Fatalf("expected order ord-9 to be recorded")
	}

	exists, err = s.SaleExistsForOrder(ctx, "ord-10")
	if err != nil {
		t.Fatalf("exists check: %v", err)
	}
	if exists {
		t.Fatalf("unexpected hit for unknown order")
	}
}

func TestSeededStoreHasUsersAndCatalog(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected seeded catalog")
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	roles := map[string]bool{}
	for _, u := range users {
		roles[u.Role] = true
	}
	if !roles["admin"] || !roles["staff"] {
		t.Fatalf("expected admin and staff seed users, got %v", roles)
	}
}
