package ledger

import (
	"testing"

	"github.com/MaulidiahYasmin/yovitwo/internal/record"
)

// TestQueryByDateFilters 测试按日期过滤
func TestQueryByDateFilters(t *testing.T) {
	sc := record.RecapSchema()
	st := newLedger(t, sc)
	st.AppendRow(sc.Sheet, []string{"1", "Friday", "29/08/2026", "Visit", "PT A", "Demo", "", "Yovita", "123", "-"})
	st.AppendRow(sc.Sheet, []string{"2", "Tuesday", "01/09/2026", "Visit", "PT B", "Survey", "", "Yovita", "123", "-"})

	engine := NewEngine(st)
	rows, err := engine.QueryByDate(sc, "01/09/2026")
	if err != nil {
		t.Fatalf("QueryByDate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0][4] != "PT B" {
		t.Errorf("pelanggan = %q, want PT B", rows[0][4])
	}
}

// TestQueryByDateDedup 测试同键重复行去重，后出现者胜出
func TestQueryByDateDedup(t *testing.T) {
	sc := record.RecapSchema()
	st := newLedger(t, sc)
	// 两行同键（竞态下可能重复追加），hasil 不同
	st.AppendRow(sc.Sheet, []string{"1", "Tuesday", "01/09/2026", "Visit", "PT A", "Demo", "", "Yovita", "123", "-"})
	st.AppendRow(sc.Sheet, []string{"2", "Tuesday", "01/09/2026", "Visit", "PT B", "Survey", "", "Yovita", "123", "-"})
	st.AppendRow(sc.Sheet, []string{"3", "Tuesday", "01/09/2026", "Visit", "PT A", "Demo", "deal", "Yovita", "123", "done"})

	engine := NewEngine(st)
	rows, err := engine.QueryByDate(sc, "01/09/2026")
	if err != nil {
		t.Fatalf("QueryByDate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 after dedup", len(rows))
	}

	// 顺序保持首次出现；内容取后出现的行
	if rows[0][4] != "PT A" || rows[0][6] != "deal" {
		t.Errorf("rows[0] = %v, want PT A row with hasil deal", rows[0])
	}
	if rows[1][4] != "PT B" {
		t.Errorf("rows[1] = %v, want PT B row", rows[1])
	}
}

// TestQueryByDateEmpty 测试无数据日期返回空集
func TestQueryByDateEmpty(t *testing.T) {
	sc := record.RecapSchema()
	st := newLedger(t, sc)

	engine := NewEngine(st)
	rows, err := engine.QueryByDate(sc, "02/09/2026")
	if err != nil {
		t.Fatalf("QueryByDate failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
