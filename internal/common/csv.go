// Package common provides the shared CSV plumbing used by the commands:
// generic gocsv readers for the normalized row formats and the ledger
// export writer.
package common

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"vcollos/concilia-csv/internal/config"
)

var log = config.Logger

// Delimiter is the CSV delimiter used on both read and write. The
// accounting software exchanges semicolon-separated files.
var Delimiter rune = ';'

// utf8BOM is written at the start of exports so spreadsheet software opens
// them with the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// SetDelimiter sets the delimiter for CSV input and output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TRow any](filePath string) ([]TRow, error) {
	log.WithField("file", filePath).Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(skipBOM(file))
	reader.Comma = Delimiter
	reader.LazyQuotes = true

	var rows []TRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.WithField("count", len(rows)).Info("Successfully read CSV data")
	return rows, nil
}

// WriteCSVFile writes a slice of row structs to a semicolon-separated,
// BOM-prefixed CSV file, creating the directory if needed.
func WriteCSVFile[TRow any](rows []TRow, csvFile string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(rows),
	}).Info("Writing CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if _, err := file.Write(utf8BOM); err != nil {
		return fmt.Errorf("error writing BOM: %w", err)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": len(rows),
	}).Info("Successfully wrote CSV file")

	return nil
}

// skipBOM strips a leading UTF-8 BOM before the CSV reader sees it. Files
// this tool wrote earlier, or exports from spreadsheet software, carry one.
func skipBOM(file *os.File) *bufio.Reader {
	reader := bufio.NewReader(file)
	if peek, err := reader.Peek(len(utf8BOM)); err == nil &&
		len(peek) == len(utf8BOM) &&
		peek[0] == utf8BOM[0] && peek[1] == utf8BOM[1] && peek[2] == utf8BOM[2] {
		_, _ = reader.Discard(len(utf8BOM))
	}
	return reader
}
