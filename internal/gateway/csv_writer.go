package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"rebate-engine/internal/domain"
)

var exportHeader = []string{
	"transaction_id",
	"provider_customer_code",
	"product_name",
	"calculation_type",
	"rate_period",
	"rebate_level",
	"rebate_percentage",
	"currency",
	"rebate_amount",
	"rebate_amount_eur",
}

// CSVWriter exports calculated rebates for spreadsheet use.
type CSVWriter struct{}

// NewCSVWriter creates a new writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// ExportRebates writes the rebates to a CSV file at path, replacing any existing file.
func (w *CSVWriter) ExportRebates(ctx context.Context, path string, rebates []domain.CalculatedRebate) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	if err := WriteRebates(file, rebates); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return file.Close()
}

// WriteRebates writes a header and one line per rebate. Amounts carry two decimals,
// percentages at least three.
func WriteRebates(out io.Writer, rebates []domain.CalculatedRebate) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rebates {
		pctPlaces := r.RebatePercentage.Exponent() * -1
		if pctPlaces < 3 {
			pctPlaces = 3
		}
		record := []string{
			r.TransactionID,
			r.ProviderCode,
			r.ProductName,
			string(r.CalculationType),
			string(r.RatePeriod),
			strconv.Itoa(r.RebateLevel),
			r.RebatePercentage.StringFixed(pctPlaces),
			r.Currency,
			r.RebateAmount.StringFixed(2),
			r.RebateAmountEUR.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
