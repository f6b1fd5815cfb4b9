package ledger

import (
	"fmt"

	"github.com/MaulidiahYasmin/yovitwo/internal/record"
)

// QueryByDate 按日期查询账本并按复合键去重
// 重复键以后出现的行为准(last-seen-wins)，顺序保持首次出现的顺序
func (e *Engine) QueryByDate(sc *record.Schema, tanggal string) ([][]string, error) {
	rows, err := e.store.ReadAllRows(sc.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", sc.Sheet, err)
	}

	dateCol := sc.ColumnIndex("Tanggal")

	seen := make(map[string]int)
	var result [][]string

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if dateCol >= len(row) || row[dateCol] != tanggal {
			continue
		}

		key, ok := sc.RowKey(row)
		if !ok {
			continue
		}

		if pos, dup := seen[key]; dup {
			result[pos] = row
			continue
		}
		seen[key] = len(result)
		result = append(result, row)
	}

	return result, nil
}
