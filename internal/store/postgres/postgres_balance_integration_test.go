package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salonbooks/backend/internal/domain"
	"salonbooks/backend/internal/store"
)

func TestAdjustBalanceConcurrent(t *testing.T) {
	databaseURL := os.Getenv("SALONBOOKS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set SALONBOOKS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prod-it-%d", stamp)
	name := fmt.Sprintf("Integration Shampoo %d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM balance_stock WHERE product_id = $1`, productID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.CreateProduct(ctx, domain.Product{ID: productID, Name: name, HSNCode: "3305", Unit: "pcs"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = s.UpsertBalance(ctx, domain.BalanceStock{
		ProductID:    productID,
		Qty:          decimal.NewFromInt(10),
		TaxableValue: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AdjustBalance(ctx, productID, domain.BalanceDelta{
				Qty:          decimal.NewFromInt(1),
				TaxableValue: decimal.NewFromInt(100),
			})
		}()
	}
	wg.Wait()

	balance, err := s.GetBalance(ctx, productID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Qty.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("lost updates under concurrency: qty = %s, want 2", balance.Qty)
	}
	if !balance.TaxableValue.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("taxable value drifted: %s, want 200", balance.TaxableValue)
	}
}

func TestCreateProductDuplicateViolation(t *testing.T) {
	databaseURL := os.Getenv("SALONBOOKS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set SALONBOOKS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	name := fmt.Sprintf("Duplicate Conditioner %d", stamp)
	firstID := fmt.Sprintf("prod-dup-a-%d", stamp)
	secondID := fmt.Sprintf("prod-dup-b-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id IN ($1, $2)`, firstID, secondID)
	})

	if _, err := s.CreateProduct(ctx, domain.Product{ID: firstID, Name: name, HSNCode: "3305", Unit: "pcs"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = s.CreateProduct(ctx, domain.Product{ID: secondID, Name: name, HSNCode: "3305", Unit: "pcs"})
	if !errors.Is(err, store.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}
}
