package service

import (
	"context"

	"salonbooks/backend/internal/report"
)

// ExportData snapshots the full ledger for the workbook export.
func (s *Service) ExportData(ctx context.Context) (report.Data, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return report.Data{}, err
	}
	purchases, err := s.repo.ListPurchases(ctx)
	if err != nil {
		return report.Data{}, err
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return report.Data{}, err
	}
	consumption, err := s.repo.ListConsumption(ctx)
	if err != nil {
		return report.Data{}, err
	}
	balances, err := s.repo.ListBalances(ctx)
	if err != nil {
		return report.Data{}, err
	}

	return report.Data{
		Products:    products,
		Purchases:   purchases,
		Sales:       sales,
		Consumption: consumption,
		Balances:    balances,
	}, nil
}
