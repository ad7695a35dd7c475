package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rebate-engine/internal/domain"
)

// Column names understood by the importer. Headers are matched case-insensitively
// and spaces are treated as underscores.
const (
	colTransactionID     = "transaction_id"
	colProviderCode      = "provider_customer_code"
	colProductName       = "product_name"
	colCardType          = "card_type"
	colTransactionDate   = "transaction_date"
	colAmount            = "amount"
	colCurrency          = "currency"
	colAmountEUR         = "amount_eur"
	colFXRate            = "fx_rate"
	colInterchangeAmount = "interchange_amount"
	colInterchangePct    = "interchange_pct"
	colMerchantName      = "merchant_name"
	colMerchantCountry   = "merchant_country"
	colMCC               = "mcc"
	colBIN               = "bin"
	colRegion            = "region"
	colRegionMarketCode  = "region_market_code"
	colAirline           = "airline"
	colRebateLevel       = "rebate_level"
	colRuleType          = "rule_type"
	colConditions        = "conditions"
	colRebatePercentage  = "rebate_percentage"
)

var dateLayouts = []string{time.DateOnly, time.RFC3339, "02.01.2006", "02/01/2006"}

// CSVReader implements the import repositories for CSV files.
type CSVReader struct{}

// NewCSVReader creates a new reader instance.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// GetTransactions reads and parses a transaction CSV file.
// Rows with missing join keys are returned as-is; the calculation run reports them.
func (r *CSVReader) GetTransactions(ctx context.Context, path string) ([]domain.TransactionRecord, error) {
	var transactions []domain.TransactionRecord
	err := readCSV(path, []string{colTransactionID, colProviderCode, colProductName, colAmount}, func(row csvRow) error {
		var (
			tx  domain.TransactionRecord
			err error
		)
		tx.TransactionID = row.get(colTransactionID)
		tx.ProviderCode = row.get(colProviderCode)
		tx.ProductName = row.get(colProductName)
		tx.CardType = row.get(colCardType)
		tx.Currency = strings.ToUpper(row.get(colCurrency))
		tx.MerchantName = row.get(colMerchantName)
		tx.MerchantCountry = row.get(colMerchantCountry)
		tx.Region = row.get(colRegion)
		tx.RegionMarketCode = row.get(colRegionMarketCode)
		tx.Airline = row.get(colAirline)

		if tx.TransactionDate, err = row.date(colTransactionDate); err != nil {
			return err
		}
		if tx.Amount, err = row.dec(colAmount); err != nil {
			return err
		}
		if tx.AmountEUR, err = row.dec(colAmountEUR); err != nil {
			return err
		}
		if tx.FXRate, err = row.dec(colFXRate); err != nil {
			return err
		}
		if tx.InterchangeAmount, err = row.dec(colInterchangeAmount); err != nil {
			return err
		}
		if tx.InterchangePct, err = row.dec(colInterchangePct); err != nil {
			return err
		}
		if tx.MCC, err = row.integer(colMCC); err != nil {
			return err
		}
		if tx.BIN, err = row.integer(colBIN); err != nil {
			return err
		}
		if tx.RebateLevel, err = row.integer(colRebateLevel); err != nil {
			return err
		}

		transactions = append(transactions, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetCardNetworkRates reads a card-network rate table (provider, product, level_1..level_8).
func (r *CSVReader) GetCardNetworkRates(ctx context.Context, path string) ([]domain.CardNetworkRate, error) {
	var rates []domain.CardNetworkRate
	err := readCSV(path, []string{colProviderCode, colProductName}, func(row csvRow) error {
		tiers, err := row.tiers()
		if err != nil {
			return err
		}
		rates = append(rates, domain.CardNetworkRate{
			ProviderCode: row.get(colProviderCode),
			ProductName:  row.get(colProductName),
			Rates:        tiers,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// GetPartnerPaymentRates reads a partner-payment rate table (provider, product, airline, bin, level_1..level_8).
func (r *CSVReader) GetPartnerPaymentRates(ctx context.Context, path string) ([]domain.PartnerPaymentRate, error) {
	var rates []domain.PartnerPaymentRate
	err := readCSV(path, []string{colProviderCode, colProductName, colAirline, colBIN}, func(row csvRow) error {
		tiers, err := row.tiers()
		if err != nil {
			return err
		}
		bin, err := domain.NormalizeBIN(row.get(colBIN))
		if err != nil {
			return row.errorf("could not parse %s: %v", colBIN, err)
		}
		rates = append(rates, domain.PartnerPaymentRate{
			ProviderCode: row.get(colProviderCode),
			ProductName:  row.get(colProductName),
			Airline:      row.get(colAirline),
			BIN:          bin,
			Rates:        tiers,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// GetSpecialCases reads special-case rules. Conditions are written as "field=value;field=value".
func (r *CSVReader) GetSpecialCases(ctx context.Context, path string) ([]domain.SpecialCaseRow, error) {
	var rules []domain.SpecialCaseRow
	err := readCSV(path, []string{colProviderCode, colRuleType, colRebatePercentage}, func(row csvRow) error {
		pct, err := row.dec(colRebatePercentage)
		if err != nil {
			return err
		}
		conds, err := parseConditions(row.get(colConditions))
		if err != nil {
			return row.errorf("%v", err)
		}
		rules = append(rules, domain.SpecialCaseRow{
			ProviderCode: row.get(colProviderCode),
			RuleType:     domain.SpecialCaseRuleType(strings.ToLower(row.get(colRuleType))),
			Conditions:   conds,
			Percentage:   pct,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// readCSV opens path, resolves the header and calls fn for every data row.
func readCSV(path string, required []string, fn func(csvRow) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return fmt.Errorf("missing column %q in %s", col, path)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("error reading record from %s: %w", path, err)
		}
		if isBlank(record) {
			continue
		}
		if err := fn(csvRow{path: path, line: line, columns: columns, record: record}); err != nil {
			return err
		}
	}
	return nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

type csvRow struct {
	path    string
	line    int
	columns map[string]int
	record  []string
}

func (r csvRow) get(col string) string {
	idx, ok := r.columns[col]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r csvRow) errorf(format string, args ...any) error {
	return fmt.Errorf("%s line %d: %s", r.path, r.line, fmt.Sprintf(format, args...))
}

// decimal parses an optional decimal column. Empty means zero; a decimal comma is accepted.
func (r csvRow) dec(col string) (decimal.Decimal, error) {
	raw := r.get(col)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(normalizeNumber(raw))
	if err != nil {
		return decimal.Zero, r.errorf("could not parse %s '%s': %v", col, raw, err)
	}
	return d, nil
}

func (r csvRow) integer(col string) (int, error) {
	raw := r.get(col)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, r.errorf("could not parse %s '%s': %v", col, raw, err)
	}
	return n, nil
}

func (r csvRow) date(col string) (time.Time, error) {
	raw := r.get(col)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, r.errorf("could not parse %s '%s'", col, raw)
}

// tiers reads level_1..level_8. Empty cells stay nil.
func (r csvRow) tiers() (domain.TierRates, error) {
	var tiers domain.TierRates
	for lvl := 1; lvl <= domain.MaxRebateLevel; lvl++ {
		col := "level_" + strconv.Itoa(lvl)
		raw := strings.TrimSuffix(r.get(col), "%")
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(normalizeNumber(raw))
		if err != nil {
			return tiers, r.errorf("could not parse %s '%s': %v", col, raw, err)
		}
		tiers[lvl-1] = &d
	}
	return tiers, nil
}

// normalizeNumber accepts "1.234,56", "1,234.56", "1234,56" and "1234.56".
// The right-most separator is the decimal point.
func normalizeNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	comma, dot := strings.LastIndex(raw, ","), strings.LastIndex(raw, ".")
	switch {
	case comma < 0:
		return raw
	case dot > comma:
		return strings.ReplaceAll(raw, ",", "")
	default:
		raw = strings.ReplaceAll(raw, ".", "")
		return strings.Replace(raw, ",", ".", 1)
	}
}

func parseConditions(raw string) (map[string]string, error) {
	conds := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return conds, nil
	}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("condition %q is not field=value", part)
		}
		conds[normalizeHeader(key)] = strings.TrimSpace(value)
	}
	return conds, nil
}
