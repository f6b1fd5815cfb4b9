package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheetStore Google Sheets 存储，生产部署使用
// 通过 service account 凭据访问指定表格
type GoogleSheetStore struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewGoogleSheetStore 创建 Google Sheets 存储
func NewGoogleSheetStore(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleSheetStore, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// ReadAllRows 读取整表
// 注意远端会裁掉尾部的全空行，行数以返回值为准
func (s *GoogleSheetStore) ReadAllRows(sheet string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// AppendRow 在表尾追加一行
func (s *GoogleSheetStore) AppendRow(sheet string, row []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(row)}}

	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, sheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", sheet, err)
	}
	return nil
}

// UpdateCells 覆盖指定行从 startCol 起的单元格
func (s *GoogleSheetStore) UpdateCells(sheet string, rowIndex, startCol int, values []string) error {
	rng := fmt.Sprintf("%s!%s%d:%s%d",
		sheet,
		columnName(startCol), rowIndex,
		columnName(startCol+len(values)-1), rowIndex,
	)
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(values)}}

	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rng, err)
	}
	return nil
}

// EnsureHeader 建表并写入表头；表头不一致时修复
func (s *GoogleSheetStore) EnsureHeader(sheet string, header []string) error {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, sheet+"!1:1").Do()
	if err != nil {
		// 工作表不存在时先建表
		if err := s.addSheet(sheet); err != nil {
			return err
		}
		resp = &sheets.ValueRange{}
	}

	if len(resp.Values) > 0 {
		current := make([]string, len(resp.Values[0]))
		for i, cell := range resp.Values[0] {
			current[i] = fmt.Sprint(cell)
		}
		if equalRow(current, header) {
			return nil
		}
	}

	return s.UpdateCells(sheet, 1, 1, header)
}

// addSheet 新建工作表
func (s *GoogleSheetStore) addSheet(sheet string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}

	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Do(); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// columnName 列号转 A1 列名(1-based)
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
