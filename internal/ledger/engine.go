package ledger

import (
	"fmt"
	"strconv"

	"github.com/MaulidiahYasmin/yovitwo/internal/model"
	"github.com/MaulidiahYasmin/yovitwo/internal/record"
	"github.com/MaulidiahYasmin/yovitwo/internal/store"
)

// Engine 账本写入引擎
// 每个写阶段只做一次全量读取，编号与键匹配都基于该快照
type Engine struct {
	store store.SheetStore
}

// NewEngine 创建引擎
func NewEngine(st store.SheetStore) *Engine {
	return &Engine{store: st}
}

// WriteAll 按模式策略写入一批有效记录
// 返回的结果与 recs 顺序一致，Index 字段由调用方回填
func (e *Engine) WriteAll(sc *record.Schema, meta record.RowMeta, sub model.Submitter, recs []*model.ValidRecord) ([]model.RecordOutcome, error) {
	rows, err := e.store.ReadAllRows(sc.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ledger %s: %w", sc.Sheet, err)
	}

	// 编号 = 快照总行数(含表头) + 本次提交已追加的条数
	total := len(rows)

	// upsert 策略：快照期一次性建好 复合键 -> 行号 索引，重复键后者胜出
	var index map[string]int
	if sc.Strategy == record.Upsert {
		index = make(map[string]int)
		for i := 1; i < len(rows); i++ {
			if key, ok := sc.RowKey(rows[i]); ok {
				index[key] = i + 1
			}
		}
	}

	outcomes := make([]model.RecordOutcome, 0, len(recs))
	appends := 0

	for _, rec := range recs {
		if sc.Strategy == record.Upsert {
			probe := sc.BuildRow("", meta, sub, rec)
			key, _ := sc.RowKey(probe)

			if rowIndex, ok := index[key]; ok {
				// 命中：只覆盖可变尾列，键列与日期保持原样
				values := probe[sc.MutableFrom:]
				if err := e.store.UpdateCells(sc.Sheet, rowIndex, sc.MutableFrom+1, values); err != nil {
					return outcomes, fmt.Errorf("failed to update row %d: %w", rowIndex, err)
				}
				outcomes = append(outcomes, model.RecordOutcome{Status: model.StatusUpdated, RowNo: rowIndex - 1})
				continue
			}

			no := total + appends
			row := sc.BuildRow(strconv.Itoa(no), meta, sub, rec)
			if err := e.store.AppendRow(sc.Sheet, row); err != nil {
				return outcomes, fmt.Errorf("failed to append row: %w", err)
			}
			// 同一提交内重复键应更新刚追加的行而不是再追加
			index[key] = no + 1
			appends++
			outcomes = append(outcomes, model.RecordOutcome{Status: model.StatusAppended, RowNo: no})
			continue
		}

		no := total + appends
		row := sc.BuildRow(strconv.Itoa(no), meta, sub, rec)
		if err := e.store.AppendRow(sc.Sheet, row); err != nil {
			return outcomes, fmt.Errorf("failed to append row: %w", err)
		}
		appends++
		outcomes = append(outcomes, model.RecordOutcome{Status: model.StatusAppended, RowNo: no})
	}

	return outcomes, nil
}
