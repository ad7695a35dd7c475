package usecase

import (
	"context"

	"rebate-engine/internal/domain"
)

// ImportRepository supplies parsed transactions and reference tables.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type ImportRepository interface {
	GetTransactions(ctx context.Context, path string) ([]domain.TransactionRecord, error)
	GetCardNetworkRates(ctx context.Context, path string) ([]domain.CardNetworkRate, error)
	GetPartnerPaymentRates(ctx context.Context, path string) ([]domain.PartnerPaymentRate, error)
	GetSpecialCases(ctx context.Context, path string) ([]domain.SpecialCaseRow, error)
}

// RebateRepository stores the result of a run, replacing whatever was stored before.
type RebateRepository interface {
	ReplaceRebates(ctx context.Context, run domain.CalculationRun, result *domain.CalculationResult) error
}

// RebateExporter writes calculated rebates for presentation.
type RebateExporter interface {
	ExportRebates(ctx context.Context, path string, rebates []domain.CalculatedRebate) error
}
