package db

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"student-marks-go/models"
)

// readExcelRecords reads a roster spreadsheet. The first sheet is used, the
// first row is a header, column A holds the name and column B the marks.
func readExcelRecords(path string) ([]models.StudentRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file %s: %v", path, err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file %s does not contain any sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	records := make([]models.StudentRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlankRow(row) {
			continue
		}

		record, err := parseExcelRow(row)
		if err != nil {
			return nil, fmt.Errorf("invalid row %d in sheet %s of %s: %w", i+1, sheetName, path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseExcelRow(row []string) (models.StudentRecord, error) {
	var name, marks string
	if len(row) > 0 {
		name = row[0]
	}
	if len(row) > 1 {
		marks = strings.TrimSpace(row[1])
	}

	if name == "" {
		return models.StudentRecord{}, errors.New("missing name")
	}
	n, err := strconv.Atoi(marks)
	if err != nil {
		return models.StudentRecord{}, fmt.Errorf("marks for %q is not an integer: %w", name, err)
	}
	return models.StudentRecord{Name: name, Marks: n}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
