// Package francesinhaparser reads Sicoob "Francesinha" collection reports
// and turns them into normalized collection records. The reports arrive as
// Excel workbooks, legacy .xls or modern .xlsx, with a fixed column layout
// buried under several banner and header rows. Rows that are not actual
// collection lines are filtered out by shape, not by position.
package francesinhaparser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"vcollos/concilia-csv/internal/config"
	"vcollos/concilia-csv/internal/currencyutils"
	"vcollos/concilia-csv/internal/dateutils"
	"vcollos/concilia-csv/internal/models"
	"vcollos/concilia-csv/internal/parsererror"
)

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Fixed column positions of the Sicoob report layout.
const (
	colPayer              = 1
	colOurNumber          = 5
	colYourNumber         = 11
	colExpectedCreditDate = 13
	colDueDate            = 18
	colPaymentDeadline    = 21
	colGrossAmount        = 25
	colLateFee            = 28
	colDiscount           = 29
	colOtherAdditions     = 31
	colSettlementDate     = 34
	colChargedAmount      = 35
)

// documentRefPattern matches internal document references like "123-A"
// that the report prints where a payer name would be.
var documentRefPattern = regexp.MustCompile(`^\d+-[A-Z]`)

// headerWords mark banner and summary rows interleaved with the data.
var headerWords = []string{
	"ORDENADO",
	"TIPO CONSULTA",
	"CONTA CORRENTE",
	"CEDENTE",
	"RELATÓRIO",
	"TOTAL",
	"DATA INICIAL",
}

// ValidateFormat checks whether the file has a workbook extension this
// parser can open.
func ValidateFormat(filePath string) (bool, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xls", ".xlsx":
		return true, nil
	}
	return false, nil
}

// ParseFile extracts the collection records of a Francesinha workbook.
// Rows that look like data but fail to parse are skipped and counted.
func ParseFile(filePath string) ([]models.CollectionRecord, int, error) {
	log.WithField("file", filePath).Info("Parsing Francesinha file")

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xls":
		rows, err = readXLS(filePath)
	case ".xlsx":
		rows, err = readXLSX(filePath)
	default:
		return nil, 0, &parsererror.ValidationError{
			FilePath: filePath,
			Reason:   "unsupported extension, expected .xls or .xlsx",
		}
	}
	if err != nil {
		return nil, 0, err
	}

	sourceFile := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	records := make([]models.CollectionRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if !isCollectionRow(row) {
			continue
		}
		record, err := recordFromRow(row, sourceFile)
		if err != nil {
			skipped++
			log.WithError(err).WithField("file", filePath).Warn("Skipping malformed Francesinha row")
			continue
		}
		if record.ExpectedCreditDate.IsZero() {
			skipped++
			continue
		}
		records = append(records, record)
	}

	log.WithFields(logrus.Fields{
		"file":    filePath,
		"count":   len(records),
		"skipped": skipped,
	}).Info("Parsed Francesinha file")

	return records, skipped, nil
}

func readXLS(filePath string) ([][]string, error) {
	workbook, err := xls.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening XLS file: %w", err)
	}

	var rows [][]string
	for sheetIndex := 0; sheetIndex < workbook.GetNumberSheets(); sheetIndex++ {
		sheet, err := workbook.GetSheet(sheetIndex)
		if err != nil || sheet == nil {
			continue
		}
		for i := 0; i <= int(sheet.GetNumberRows()); i++ {
			row, err := sheet.GetRow(i)
			if err != nil || row == nil {
				continue
			}
			var cells []string
			for _, col := range row.GetCols() {
				if col != nil {
					cells = append(cells, col.GetString())
				} else {
					cells = append(cells, "")
				}
			}
			rows = append(rows, cells)
		}
	}
	return rows, nil
}

func readXLSX(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening XLSX file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet %s: %w", name, err)
		}
		rows = append(rows, sheetRows...)
	}
	return rows, nil
}

// isCollectionRow decides whether a raw row is an actual collection line.
// The report mixes banners, column headers and subtotals into the same
// sheet, so the shape of the payer and our-number cells is the filter.
func isCollectionRow(row []string) bool {
	payer := strings.TrimSpace(cell(row, colPayer))
	if len(payer) <= 3 || strings.HasPrefix(payer, "Sacado") {
		return false
	}
	if documentRefPattern.MatchString(payer) {
		return false
	}
	upper := strings.ToUpper(payer)
	for _, word := range headerWords {
		if strings.Contains(upper, word) {
			return false
		}
	}
	return strings.TrimSpace(cell(row, colOurNumber)) != ""
}

func recordFromRow(row []string, sourceFile string) (models.CollectionRecord, error) {
	expectedCredit, err := parseDateCell(row, colExpectedCreditDate)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	dueDate, err := parseDateCell(row, colDueDate)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	paymentDeadline, err := parseDateCell(row, colPaymentDeadline)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	settlementDate, err := parseDateCell(row, colSettlementDate)
	if err != nil {
		return models.CollectionRecord{}, err
	}

	grossAmount, err := parseAmountCell(row, colGrossAmount)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	lateFee, err := parseAmountCell(row, colLateFee)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	discount, err := parseAmountCell(row, colDiscount)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	otherAdditions, err := parseAmountCell(row, colOtherAdditions)
	if err != nil {
		return models.CollectionRecord{}, err
	}
	chargedAmount, err := parseAmountCell(row, colChargedAmount)
	if err != nil {
		return models.CollectionRecord{}, err
	}

	return models.CollectionRecord{
		Payer:              strings.TrimSpace(cell(row, colPayer)),
		OurNumber:          strings.TrimSpace(cell(row, colOurNumber)),
		YourNumber:         strings.TrimSpace(cell(row, colYourNumber)),
		ExpectedCreditDate: expectedCredit,
		DueDate:            dueDate,
		PaymentDeadline:    paymentDeadline,
		GrossAmount:        grossAmount,
		LateFee:            lateFee,
		Discount:           discount,
		OtherAdditions:     otherAdditions,
		SettlementDate:     settlementDate,
		ChargedAmount:      chargedAmount,
		SourceFile:         sourceFile,
	}, nil
}

func cell(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func parseDateCell(row []string, index int) (time.Time, error) {
	value := strings.TrimSpace(cell(row, index))
	if value == "" {
		return time.Time{}, nil
	}
	date, err := dateutils.ParseBR(value)
	if err != nil {
		return time.Time{}, &parsererror.ParseError{
			Parser: "francesinha", Field: fmt.Sprintf("col%d", index), Value: value, Err: err,
		}
	}
	return date, nil
}

func parseAmountCell(row []string, index int) (decimal.Decimal, error) {
	value := strings.TrimSpace(cell(row, index))
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := currencyutils.ParseAmount(value)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: "francesinha", Field: fmt.Sprintf("col%d", index), Value: value, Err: err,
		}
	}
	return amount, nil
}
