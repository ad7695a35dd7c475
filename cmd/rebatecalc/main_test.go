package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebate-engine/internal/config"
	"rebate-engine/internal/gateway"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(dbPath string) *config.Config {
	return &config.Config{
		Reporting:   config.ReportingConfig{Period: "monthly", Year: 2025, Month: 9},
		Calculation: config.CalculationConfig{DefaultLevel: 1, Workers: 1},
		Database:    config.DatabaseConfig{Path: dbPath},
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rebates.db")
	files := inputFiles{
		Transactions:   writeFile(t, dir, "transactions.csv", "transaction_id,provider_customer_code,product_name,amount,currency\nT1,P1,Gold,1000,EUR\n"),
		CardNetwork:    writeFile(t, dir, "cards.csv", "provider_customer_code,product_name,level_1\nP1,Gold,2.5\n"),
		PartnerPayment: writeFile(t, dir, "partners.csv", "provider_customer_code,product_name,airline,bin,level_1\n"),
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), testConfig(dbPath), files, &out))
	assert.Contains(t, out.String(), `"total_transactions": 1`)

	store, err := gateway.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	stored, found, err := store.LatestRun(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2025, stored.ReportingYear)
}

func TestRun_ReturnsErrorsInsteadOfExiting(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rebates.db")

	tests := []struct {
		name    string
		files   inputFiles
		wantErr string
	}{
		{
			name:    "broken reference table",
			files:   inputFiles{CardNetwork: writeFile(t, dir, "cards.csv", "provider_customer_code\nP1\n")},
			wantErr: "reference data import failed",
		},
		{
			name:    "missing transactions",
			files:   inputFiles{Transactions: filepath.Join(dir, "missing.csv")},
			wantErr: "calculation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), testConfig(dbPath), tt.files, &out)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, out.String())

			// the database file is left usable after a failed run
			store, err := gateway.NewSQLiteStore(dbPath)
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}

	err := run(context.Background(), testConfig(filepath.Join(dir, "missing", "rebates.db")), inputFiles{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to open database")
}
