package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate-engine/internal/domain"
)

func sampleRebates() []domain.CalculatedRebate {
	return []domain.CalculatedRebate{
		{
			TransactionID:    "T1",
			ProviderCode:     "P1",
			ProductName:      "Gold",
			RebateLevel:      1,
			RebatePercentage: decimal.RequireFromString("2.5"),
			RebateAmount:     decimal.RequireFromString("25"),
			RebateAmountEUR:  decimal.RequireFromString("25"),
			Currency:         "EUR",
			CalculationType:  domain.CalcCardNetwork,
			RatePeriod:       domain.PeriodMonthly,
		},
		{
			TransactionID:    "T2",
			ProviderCode:     "P1",
			ProductName:      "Gold",
			RebateLevel:      3,
			RebatePercentage: decimal.RequireFromString("0.12345"),
			RebateAmount:     decimal.RequireFromString("1.5"),
			RebateAmountEUR:  decimal.Zero,
			Currency:         "USD",
			CalculationType:  domain.CalcPartnerPayment,
			RatePeriod:       domain.PeriodMonthly,
		},
	}
}

func TestWriteRebates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRebates(&buf, sampleRebates()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"T1", "P1", "Gold", "card-network", "monthly", "1", "2.500", "EUR", "25.00", "25.00"}, records[1])
	assert.Equal(t, []string{"T2", "P1", "Gold", "partner-payment", "monthly", "3", "0.12345", "USD", "1.50", "0.00"}, records[2])
}

func TestCSVWriter_ExportRebates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rebates.csv")

	require.NoError(t, NewCSVWriter().ExportRebates(context.Background(), path, sampleRebates()))
	require.NoError(t, NewCSVWriter().ExportRebates(context.Background(), path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "a second export replaces the file")

	err = NewCSVWriter().ExportRebates(context.Background(), filepath.Join(t.TempDir(), "missing", "rebates.csv"), nil)
	assert.Error(t, err)
}
