package store

import (
	"fmt"
	"sync"
)

// MemoryStore 内存表格存储，供测试与 dry-run 模式使用
type MemoryStore struct {
	sheets map[string][][]string
	mu     sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string][][]string),
	}
}

// ReadAllRows 读取整表快照
func (s *MemoryStore) ReadAllRows(sheet string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	// 返回副本，调用方持有的快照不受后续写入影响
	result := make([][]string, len(rows))
	for i, row := range rows {
		result[i] = append([]string(nil), row...)
	}
	return result, nil
}

// AppendRow 追加一行
func (s *MemoryStore) AppendRow(sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	s.sheets[sheet] = append(rows, append([]string(nil), row...))
	return nil
}

// UpdateCells 覆盖指定行从 startCol 起的单元格
func (s *MemoryStore) UpdateCells(sheet string, rowIndex, startCol int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if rowIndex < 1 || rowIndex > len(rows) {
		return fmt.Errorf("row index %d out of range for sheet %s", rowIndex, sheet)
	}

	row := rows[rowIndex-1]
	// 目标行不够宽时补空单元格
	need := startCol - 1 + len(values)
	for len(row) < need {
		row = append(row, "")
	}
	copy(row[startCol-1:], values)
	rows[rowIndex-1] = row
	return nil
}

// EnsureHeader 建表并写入表头；已有表头不一致时修复
func (s *MemoryStore) EnsureHeader(sheet string, header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok || len(rows) == 0 {
		s.sheets[sheet] = [][]string{append([]string(nil), header...)}
		return nil
	}
	if !equalRow(rows[0], header) {
		rows[0] = append([]string(nil), header...)
	}
	return nil
}

// RowCount 获取含表头的总行数
func (s *MemoryStore) RowCount(sheet string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sheets[sheet])
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
