// Package export формирует и читает таблицы XLSX
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const hoursSheet = "Hours"

// Row - строка отчета по часам
type Row struct {
	Name  string
	Email string
	Phone string
	Hours float64
}

// HoursWorkbook сериализует отчет по часам в XLSX.
// Последняя строка rows считается итоговой и выделяется жирным.
func HoursWorkbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", hoursSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Name", "Email", "Phone", "Hours"}
	if err := f.SetSheetRow(hoursSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.Name, row.Email, row.Phone, row.Hours}
		if err := f.SetSheetRow(hoursSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(hoursSheet, "A1", "D1", bold); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("A%d", len(rows)+1)
		lastEnd := fmt.Sprintf("D%d", len(rows)+1)
		if err := f.SetCellStyle(hoursSheet, last, lastEnd, bold); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(hoursSheet, "A", "C", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// EmployeeRow - строка импорта сотрудников
type EmployeeRow struct {
	Name   string
	Email  string
	Phone  string
	Role   string
	Gender string
}

// ReadEmployees читает сотрудников с первого листа книги.
// Первая строка - заголовки: name, email, phone, role, gender (регистр не важен).
func ReadEmployees(data []byte) ([]EmployeeRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		index[normalizeHeader(header)] = i
	}
	if _, ok := index["email"]; !ok {
		return nil, fmt.Errorf("email column is missing")
	}

	column := func(row []string, name string) string {
		idx, ok := index[name]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}

	result := make([]EmployeeRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		result = append(result, EmployeeRow{
			Name:   column(row, "name"),
			Email:  column(row, "email"),
			Phone:  column(row, "phone"),
			Role:   column(row, "role"),
			Gender: column(row, "gender"),
		})
	}
	return result, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
