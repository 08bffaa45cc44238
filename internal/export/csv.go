// Package export renders transaction slices for sharing: flat CSV rows and
// a color-coded plain-text statement. Callers pass either the current page
// or the full filtered set; this package does not filter.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/jask/pocketledger/internal/model"
)

// Row is one CSV line in the export layout.
type Row struct {
	SNo      int    `csv:"S.No"`
	Date     string `csv:"Date"`
	Title    string `csv:"Title"`
	Type     string `csv:"Type"`
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
}

// WriteCSV writes txs in export order with 1-based serial numbers.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	rows := make([]Row, 0, len(txs))
	for i, t := range txs {
		rows = append(rows, Row{
			SNo:      i + 1,
			Date:     t.Date.Format("2006-01-02"),
			Title:    t.Title,
			Type:     string(t.Type),
			Category: t.Category,
			Amount:   t.Amount.Round(2).StringFixed(2),
		})
	}
	return gocsv.Marshal(&rows, w)
}

// WriteCSVFile writes the export to path, creating or truncating it.
func WriteCSVFile(path string, txs []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, txs); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return f.Sync()
}
