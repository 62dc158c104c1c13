package store

import (
	"context"
	"errors"

	"salonbooks/backend/internal/domain"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateProduct = errors.New("product already exists")
	ErrInvalidRecord    = errors.New("invalid record")
)

// Repository is the storage port for the stock ledger. Two implementations
// exist: an in-memory store for dev/tests and a Postgres store for production,
// selected by configuration at startup.
//
// AdjustBalance must be atomic per product: concurrent adjustments against the
// same balance row may not lose updates.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	FindProductByNameHSN(ctx context.Context, name string, hsnCode string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProductUnit(ctx context.Context, id string, unit string) error

	InsertPurchase(ctx context.Context, purchase domain.Purchase) error
	InsertSale(ctx context.Context, sale domain.Sale) error
	InsertConsumption(ctx context.Context, consumption domain.Consumption) error

	ListPurchases(ctx context.Context) ([]domain.Purchase, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	ListConsumption(ctx context.Context) ([]domain.Consumption, error)

	ListPurchasesByProduct(ctx context.Context, productID string) ([]domain.Purchase, error)
	ListSalesByProduct(ctx context.Context, productID string) ([]domain.Sale, error)
	ListConsumptionByProduct(ctx context.Context, productID string) ([]domain.Consumption, error)
	LatestPurchase(ctx context.Context, productID string) (*domain.Purchase, error)

	SaleExistsForOrder(ctx context.Context, posOrderID string) (bool, error)

	GetBalance(ctx context.Context, productID string) (*domain.BalanceStock, error)
	ListBalances(ctx context.Context) ([]domain.BalanceStock, error)
	UpsertBalance(ctx context.Context, balance domain.BalanceStock) error
	AdjustBalance(ctx context.Context, productID string, delta domain.BalanceDelta) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
