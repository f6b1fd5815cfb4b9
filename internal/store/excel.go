package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore 本地 xlsx 工作簿存储，用于离线/内网部署
type ExcelStore struct {
	path string
	file *excelize.File
	mu   sync.Mutex
}

// NewExcelStore 打开工作簿，文件不存在时新建
func NewExcelStore(path string) (*ExcelStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		return &ExcelStore{path: path, file: f}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &ExcelStore{path: path, file: f}, nil
}

// ReadAllRows 读取整表
func (s *ExcelStore) ReadAllRows(sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, err := s.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// AppendRow 在表尾追加一行并保存
func (s *ExcelStore) AppendRow(sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, err := s.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return s.file.Save()
}

// UpdateCells 覆盖指定行从 startCol 起的单元格并保存
func (s *ExcelStore) UpdateCells(sheet string, rowIndex, startCol int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, err := s.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	cell, err := excelize.CoordinatesToCellName(startCol, rowIndex)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to update cells: %w", err)
	}
	return s.file.Save()
}

// EnsureHeader 建表并写入表头；表头不一致时修复
func (s *ExcelStore) EnsureHeader(sheet string, header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, err := s.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		if _, err := s.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	if len(rows) > 0 && equalRow(rows[0], header) {
		return nil
	}
	if err := s.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return s.file.Save()
}

// Close 保存并关闭工作簿
func (s *ExcelStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Save(); err != nil {
		return err
	}
	return s.file.Close()
}
