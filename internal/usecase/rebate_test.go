package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate-engine/internal/domain"
	"rebate-engine/internal/engine"
	"rebate-engine/internal/refdata"
	"rebate-engine/internal/usecase"
	mock_usecase "rebate-engine/internal/usecase/mocks"
)

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRebateUseCase_ImportReferenceData(t *testing.T) {
	ctx := context.Background()
	cards := []domain.CardNetworkRate{{ProviderCode: "P1", ProductName: "Gold", Rates: domain.TierRates{pct("2.5")}}}
	partners := []domain.PartnerPaymentRate{{ProviderCode: "P1", ProductName: "Gold", Airline: "AirX", Rates: domain.TierRates{pct("1")}}}
	specials := []domain.SpecialCaseRow{{ProviderCode: "P2", RuleType: domain.RuleProvider, Percentage: decimal.RequireFromString("0.5")}}

	tests := []struct {
		name       string
		files      usecase.ReferenceFiles
		setupMock  func(m *mock_usecase.MockImportRepository)
		wantErr    string
		wantTables []domain.TableID
	}{
		{
			name: "imports every table into the period slots",
			files: usecase.ReferenceFiles{
				Period:         domain.PeriodYearly,
				CardNetwork:    "cards.csv",
				PartnerPayment: "partners.csv",
				SpecialCases:   "special.csv",
			},
			setupMock: func(m *mock_usecase.MockImportRepository) {
				m.EXPECT().GetCardNetworkRates(gomock.Any(), "cards.csv").Return(cards, nil)
				m.EXPECT().GetPartnerPaymentRates(gomock.Any(), "partners.csv").Return(partners, nil)
				m.EXPECT().GetSpecialCases(gomock.Any(), "special.csv").Return(specials, nil)
			},
			wantTables: []domain.TableID{domain.TableCardNetworkYearly, domain.TablePartnerPaymentYearly, domain.TableSpecialCases},
		},
		{
			name:  "empty paths are skipped",
			files: usecase.ReferenceFiles{Period: domain.PeriodMonthly, CardNetwork: "cards.csv"},
			setupMock: func(m *mock_usecase.MockImportRepository) {
				m.EXPECT().GetCardNetworkRates(gomock.Any(), "cards.csv").Return(cards, nil)
			},
			wantTables: []domain.TableID{domain.TableCardNetworkMonthly},
		},
		{
			name:  "read error",
			files: usecase.ReferenceFiles{Period: domain.PeriodMonthly, PartnerPayment: "partners.csv"},
			setupMock: func(m *mock_usecase.MockImportRepository) {
				m.EXPECT().GetPartnerPaymentRates(gomock.Any(), "partners.csv").Return(nil, errors.New("file not found"))
			},
			wantErr: "could not get partner-payment rates",
		},
		{
			name:  "invalid rows leave the table untouched",
			files: usecase.ReferenceFiles{Period: domain.PeriodMonthly, CardNetwork: "cards.csv"},
			setupMock: func(m *mock_usecase.MockImportRepository) {
				m.EXPECT().GetCardNetworkRates(gomock.Any(), "cards.csv").Return([]domain.CardNetworkRate{{ProviderCode: "P1"}}, nil)
			},
			wantErr: "could not replace card-network rates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			importer := mock_usecase.NewMockImportRepository(ctrl)
			tt.setupMock(importer)
			store := refdata.NewStore()

			uc := usecase.NewRebateUseCase(importer, store, nil, nil, engine.Options{})
			err := uc.ImportReferenceData(ctx, tt.files)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.False(t, store.Snapshot().Imported(domain.TableCardNetworkMonthly))
				return
			}
			require.NoError(t, err)
			for _, id := range tt.wantTables {
				assert.True(t, store.Snapshot().Imported(id), "table %s", id)
			}
		})
	}
}

func TestRebateUseCase_Calculate(t *testing.T) {
	ctx := context.Background()
	transactions := []domain.TransactionRecord{
		{TransactionID: "T1", ProviderCode: "P1", ProductName: "Gold", Amount: decimal.RequireFromString("1000"), Currency: "EUR"},
		{TransactionID: "T2", ProviderCode: "P9", ProductName: "Gold", Amount: decimal.RequireFromString("10"), Currency: "EUR"},
	}

	newStore := func(t *testing.T) *refdata.Store {
		store := refdata.NewStore()
		require.NoError(t, store.ReplaceCardNetworkRates(domain.PeriodMonthly, []domain.CardNetworkRate{
			{ProviderCode: "P1", ProductName: "Gold", Rates: domain.TierRates{pct("2.5")}},
		}))
		require.NoError(t, store.ReplacePartnerPaymentRates(domain.PeriodMonthly, nil))
		return store
	}

	cmd := usecase.CalculateCommand{
		TransactionsPath: "transactions.csv",
		Period:           domain.PeriodMonthly,
		ReportingYear:    2025,
		ReportingMonth:   9,
		ExportPath:       "out.csv",
	}

	t.Run("stores and exports the result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		rebates := mock_usecase.NewMockRebateRepository(ctrl)
		exporter := mock_usecase.NewMockRebateExporter(ctrl)

		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(transactions, nil)
		rebates.EXPECT().ReplaceRebates(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, run domain.CalculationRun, result *domain.CalculationResult) error {
				assert.NotEmpty(t, run.ID)
				assert.Equal(t, 2025, run.ReportingYear)
				assert.Equal(t, 9, run.ReportingMonth)
				assert.Equal(t, domain.PeriodMonthly, run.RatePeriod)
				assert.Len(t, result.CalculatedRebates, 1)
				return nil
			})
		exporter.EXPECT().ExportRebates(gomock.Any(), "out.csv", gomock.Any()).Return(nil)

		uc := usecase.NewRebateUseCase(importer, newStore(t), rebates, exporter, engine.Options{})
		report, err := uc.Calculate(ctx, cmd)
		require.NoError(t, err)

		assert.False(t, report.Run.CalculatedAt.IsZero())
		require.Len(t, report.Result.CalculatedRebates, 1)
		assert.True(t, decimal.RequireFromString("25").Equal(report.Result.CalculatedRebates[0].RebateAmount))
		assert.Equal(t, []string{"T2"}, report.Result.Unmatched)
	})

	t.Run("runs without persistence or export", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(transactions, nil)

		uc := usecase.NewRebateUseCase(importer, newStore(t), nil, nil, engine.Options{})
		report, err := uc.Calculate(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Result.Summary.TotalTransactions)
	})

	t.Run("transaction read error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(nil, errors.New("permission denied"))

		uc := usecase.NewRebateUseCase(importer, newStore(t), nil, nil, engine.Options{})
		report, err := uc.Calculate(ctx, cmd)
		assert.ErrorContains(t, err, "could not get transactions")
		assert.Nil(t, report)
	})

	t.Run("store error aborts before export", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		rebates := mock_usecase.NewMockRebateRepository(ctrl)
		exporter := mock_usecase.NewMockRebateExporter(ctrl)

		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(transactions, nil)
		rebates.EXPECT().ReplaceRebates(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		uc := usecase.NewRebateUseCase(importer, newStore(t), rebates, exporter, engine.Options{})
		_, err := uc.Calculate(ctx, cmd)
		assert.ErrorContains(t, err, "could not store rebates")
	})

	t.Run("export error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		exporter := mock_usecase.NewMockRebateExporter(ctrl)

		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(transactions, nil)
		exporter.EXPECT().ExportRebates(gomock.Any(), "out.csv", gomock.Any()).Return(errors.New("read-only file system"))

		uc := usecase.NewRebateUseCase(importer, newStore(t), nil, exporter, engine.Options{})
		_, err := uc.Calculate(ctx, cmd)
		assert.ErrorContains(t, err, "could not export rebates")
	})

	t.Run("nil transactions from the importer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		importer := mock_usecase.NewMockImportRepository(ctrl)
		importer.EXPECT().GetTransactions(gomock.Any(), "transactions.csv").Return(nil, nil)

		uc := usecase.NewRebateUseCase(importer, refdata.NewStore(), nil, nil, engine.Options{})
		report, err := uc.Calculate(ctx, cmd)
		require.NoError(t, err)
		assert.Empty(t, report.Result.CalculatedRebates)
		assert.Empty(t, report.Result.Errors)
	})
}
