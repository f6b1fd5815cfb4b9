package store

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

// TestMemoryStoreSheetNotFound 测试未知表返回错误
func TestMemoryStoreSheetNotFound(t *testing.T) {
	st := NewMemoryStore()

	if _, err := st.ReadAllRows("nope"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadAllRows error = %v, want ErrSheetNotFound", err)
	}
	if err := st.AppendRow("nope", []string{"x"}); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("AppendRow error = %v, want ErrSheetNotFound", err)
	}
}

// TestMemoryStoreAppendAndRead 测试追加与读取
func TestMemoryStoreAppendAndRead(t *testing.T) {
	st := NewMemoryStore()
	header := []string{"No", "Customer"}

	if err := st.EnsureHeader("visitplan", header); err != nil {
		t.Fatalf("EnsureHeader failed: %v", err)
	}
	if err := st.AppendRow("visitplan", []string{"1", "PT ABC"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}

	rows, err := st.ReadAllRows("visitplan")
	if err != nil {
		t.Fatalf("ReadAllRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], header) {
		t.Errorf("header = %v, want %v", rows[0], header)
	}
}

// TestMemoryStoreSnapshotIsolation 测试读取快照不受后续写入影响
func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"A"})
	st.AppendRow("s", []string{"v1"})

	snapshot, _ := st.ReadAllRows("s")
	st.UpdateCells("s", 2, 1, []string{"v2"})

	if snapshot[1][0] != "v1" {
		t.Errorf("snapshot mutated: %q, want v1", snapshot[1][0])
	}
}

// TestMemoryStoreUpdateCells 测试覆盖指定单元格
func TestMemoryStoreUpdateCells(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"A", "B", "C"})
	st.AppendRow("s", []string{"1", "x", "y"})

	if err := st.UpdateCells("s", 2, 2, []string{"x2", "y2"}); err != nil {
		t.Fatalf("UpdateCells failed: %v", err)
	}

	rows, _ := st.ReadAllRows("s")
	want := []string{"1", "x2", "y2"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
}

// TestMemoryStoreUpdateCellsExtends 测试目标行过窄时补空单元格
func TestMemoryStoreUpdateCellsExtends(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"A", "B", "C", "D"})
	st.AppendRow("s", []string{"1"})

	if err := st.UpdateCells("s", 2, 3, []string{"c", "d"}); err != nil {
		t.Fatalf("UpdateCells failed: %v", err)
	}

	rows, _ := st.ReadAllRows("s")
	want := []string{"1", "", "c", "d"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
}

// TestMemoryStoreUpdateCellsOutOfRange 测试行号越界报错
func TestMemoryStoreUpdateCellsOutOfRange(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"A"})

	if err := st.UpdateCells("s", 5, 1, []string{"x"}); err == nil {
		t.Error("UpdateCells should fail for out-of-range row")
	}
}

// TestMemoryStoreEnsureHeaderRepair 测试表头不一致时修复
func TestMemoryStoreEnsureHeaderRepair(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"Old"})
	st.AppendRow("s", []string{"data"})

	want := []string{"No", "Customer"}
	if err := st.EnsureHeader("s", want); err != nil {
		t.Fatalf("EnsureHeader failed: %v", err)
	}

	rows, _ := st.ReadAllRows("s")
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("header = %v, want %v", rows[0], want)
	}
	// 数据行不受表头修复影响
	if rows[1][0] != "data" {
		t.Errorf("data row = %v", rows[1])
	}
}

// TestMemoryStoreConcurrentAccess 测试并发访问安全性
func TestMemoryStoreConcurrentAccess(t *testing.T) {
	st := NewMemoryStore()
	st.EnsureHeader("s", []string{"No", "V"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			st.AppendRow("s", []string{fmt.Sprint(n), "v"})
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.ReadAllRows("s")
		}()
	}
	wg.Wait()

	if got := st.RowCount("s"); got != 51 {
		t.Errorf("after concurrent appends, row count = %d, want 51", got)
	}
}
