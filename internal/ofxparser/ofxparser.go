// Package ofxparser converts OFX bank statements into normalized
// transactions. Both flavors in the wild are handled: OFX 2.x files are
// XML and go through XPath extraction; OFX 1.x files are SGML with
// unclosed tags and are scanned line-wise. Either way every statement line
// becomes one models.Transaction, typed from its amount sign.
package ofxparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

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

// ValidateFormat checks whether the file looks like an OFX statement.
func ValidateFormat(filePath string) (bool, error) {
	content, err := readDecoded(filePath)
	if err != nil {
		return false, err
	}

	head := content
	if len(head) > 1024 {
		head = head[:1024]
	}
	upper := strings.ToUpper(head)
	return strings.Contains(upper, "OFXHEADER") || strings.Contains(upper, "<OFX>"), nil
}

// ParseFile extracts every statement line from an OFX file. Malformed
// lines are skipped and counted, never fatal to the file.
func ParseFile(filePath string) ([]models.Transaction, int, error) {
	log.WithField("file", filePath).Info("Parsing OFX file")

	content, err := readDecoded(filePath)
	if err != nil {
		return nil, 0, err
	}

	if ok, _ := containsOFX(content); !ok {
		return nil, 0, &parsererror.ValidationError{
			FilePath: filePath,
			Reason:   "file does not contain an OFX document",
		}
	}

	sourceFile := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	var blocks []map[string]string
	if isXML(content) {
		blocks, err = extractBlocksXML(content)
		if err != nil {
			return nil, 0, fmt.Errorf("error parsing OFX XML: %w", err)
		}
	} else {
		blocks = extractBlocksSGML(content)
	}

	transactions := make([]models.Transaction, 0, len(blocks))
	skipped := 0
	for _, block := range blocks {
		t, err := transactionFromBlock(block, sourceFile)
		if err != nil {
			skipped++
			log.WithError(err).WithField("file", filePath).Warn("Skipping malformed OFX transaction")
			continue
		}
		transactions = append(transactions, t)
	}

	log.WithFields(logrus.Fields{
		"file":    filePath,
		"count":   len(transactions),
		"skipped": skipped,
	}).Info("Parsed OFX file")

	return transactions, skipped, nil
}

func containsOFX(content string) (bool, error) {
	return strings.Contains(strings.ToUpper(content), "<OFX>"), nil
}

func isXML(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "<?xml")
}

// transactionFromBlock builds one transaction from the tag values of a
// STMTTRN block. The TRNTYPE field is ignored for typing: the amount sign
// is the single type-derivation convention (negative means debit).
func transactionFromBlock(block map[string]string, sourceFile string) (models.Transaction, error) {
	date, err := dateutils.ParseOFXDate(block["DTPOSTED"])
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: "ofx", Field: "DTPOSTED", Value: block["DTPOSTED"], Err: err,
		}
	}

	amount, err := currencyutils.ParseAmount(block["TRNAMT"])
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: "ofx", Field: "TRNAMT", Value: block["TRNAMT"], Err: err,
		}
	}

	payee := block["NAME"]
	if payee == "" {
		payee = block["PAYEE"]
	}

	return models.Transaction{
		Date:       date,
		Amount:     amount,
		Type:       models.TypeFromAmount(amount),
		ID:         block["FITID"],
		Memo:       strings.TrimSpace(block["MEMO"]),
		Payee:      strings.TrimSpace(payee),
		SourceFile: sourceFile,
	}, nil
}

// readDecoded reads the file and fixes the encoding. Brazilian banks ship
// OFX as Windows-1252 more often than not; anything that is not valid
// UTF-8 goes through that decoder.
func readDecoded(filePath string) (string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("error reading OFX file: %w", err)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("error decoding OFX file: %w", err)
	}
	return string(decoded), nil
}
