package store

import "errors"

// ErrSheetNotFound 工作表不存在
var ErrSheetNotFound = errors.New("sheet not found")

// SheetStore 表格存储边界
// 行号从 1 开始，第 1 行固定为表头；每个写阶段至多一次全量读取
type SheetStore interface {
	// ReadAllRows 读取整表，rows[0] 为表头
	ReadAllRows(sheet string) ([][]string, error)
	// AppendRow 在表尾追加一行
	AppendRow(sheet string, row []string) error
	// UpdateCells 覆盖第 rowIndex 行从 startCol 起的连续单元格(均为 1-based)
	UpdateCells(sheet string, rowIndex, startCol int, values []string) error
	// EnsureHeader 建表/修复表头，属启动期职责，不在提交处理路径上
	EnsureHeader(sheet string, header []string) error
}
