// Package appendix loads locally maintained appendix workbooks into
// Table records. Some appendices are published only as spreadsheet
// attachments, so the live API never returns their body text.
package appendix

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

type Loader struct {
	dir    string
	logger *slog.Logger
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

func (l *Loader) Name() string {
	return "appendix-dir"
}

// Fetch reads every workbook in the directory; one sheet becomes one
// Table record. A broken workbook is skipped, an empty directory
// contributes zero records.
func (l *Loader) Fetch(_ context.Context) ([]domain.DocumentRecord, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read appendix dir: %w", err)
	}

	var records []domain.DocumentRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		fileRecords, err := loadWorkbook(path)
		if err != nil {
			l.logger.Warn("appendix_workbook_skipped", "file", entry.Name(), "error", err)
			continue
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

// loadWorkbook turns each sheet into one record. The workbook filename
// is the source name; the sheet name carries the appendix locator, e.g.
// "별표 21 작업환경측정 대상 유해인자".
func loadWorkbook(path string) ([]domain.DocumentRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sourceName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var records []domain.DocumentRecord
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		text := rowsToText(rows)
		if text == "" {
			continue
		}

		number, title := splitSheetName(sheet)
		records = append(records, domain.DocumentRecord{
			Kind:       domain.KindTable,
			SourceName: sourceName,
			Number:     number,
			Title:      title,
			FullText:   text,
		})
	}
	return records, nil
}

func rowsToText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// splitSheetName separates the "별표 N" locator from the title when the
// sheet follows that convention.
func splitSheetName(sheet string) (number, title string) {
	fields := strings.Fields(sheet)
	if len(fields) >= 3 && fields[0] == "별표" {
		return fields[0] + " " + fields[1], strings.Join(fields[2:], " ")
	}
	return sheet, sheet
}
