package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/maltedev/place-archiver/internal/models"
)

const (
	ColumnRegion       = "지역"
	ColumnRegionDetail = "지역상세"
	ColumnStoreName    = "매장명"
	ColumnMapURL       = "네이버지도링크"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrLegacyWorkbook is returned for binary .xls files, which excelize cannot read.
	ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")
)

// Load reads store rows from the first sheet of a workbook or from a CSV file.
// Columns are matched by header name; missing columns yield empty values.
func Load(path string) ([]models.Store, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	case ".xls":
		return nil, fmt.Errorf("%s: %w", path, ErrLegacyWorkbook)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(rows), nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func parseRows(rows [][]string) []models.Store {
	if len(rows) == 0 {
		return nil
	}

	index := headerIndex(rows[0])
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var stores []models.Store
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		stores = append(stores, models.Store{
			Row:          i + 2,
			Region:       cell(row, ColumnRegion),
			RegionDetail: cell(row, ColumnRegionDetail),
			Name:         cell(row, ColumnStoreName),
			MapURL:       cell(row, ColumnMapURL),
		})
	}
	return stores
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
