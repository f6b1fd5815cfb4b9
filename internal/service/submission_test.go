package service

import (
	"errors"
	"testing"
	"time"

	"github.com/MaulidiahYasmin/yovitwo/internal/identity"
	"github.com/MaulidiahYasmin/yovitwo/internal/model"
	"github.com/MaulidiahYasmin/yovitwo/internal/store"
)

var testAt = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T, policy identity.Policy) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	if err := SetupSheets(st); err != nil {
		t.Fatalf("SetupSheets failed: %v", err)
	}
	if err := st.AppendRow(IdentitySheet, []string{"12345", "Yovita", "123"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}
	return New(st, policy, nil, time.UTC), st
}

func submission(text string) Submission {
	return Submission{
		Text:       text,
		ExternalID: "12345",
		ChatID:     777,
		At:         testAt,
	}
}

// TestSubmitPlanAppends 测试计划提交逐条追加
func TestSubmitPlanAppends(t *testing.T) {
	svc, st := newService(t, identity.PolicyStrict)

	result, err := svc.SubmitPlan(submission(
		"Customer: PT ABC\nAgenda: Demo Produk\nHasil: -\n\nCustomer: PT XYZ\nAgenda: Follow up"))
	if err != nil {
		t.Fatalf("SubmitPlan failed: %v", err)
	}

	if result.Inserted != 2 || result.Skipped != 0 {
		t.Errorf("inserted/skipped = %d/%d, want 2/0", result.Inserted, result.Skipped)
	}

	rows, _ := st.ReadAllRows("visitplan")
	if len(rows) != 3 {
		t.Fatalf("visitplan rows = %d, want 3", len(rows))
	}

	row := rows[1]
	if row[1] != "Tuesday" || row[2] != "01/09/2026" {
		t.Errorf("derived meta = %q %q, want Tuesday 01/09/2026", row[1], row[2])
	}
	if row[5] != "" {
		t.Errorf("hasil = %q, want empty (dash normalized)", row[5])
	}
	if row[6] != "Yovita" || row[7] != "123" {
		t.Errorf("submitter columns = %q/%q, want Yovita/123", row[6], row[7])
	}
}

// TestSubmitEmptyBodyUsage 测试空正文返回用法错误
func TestSubmitEmptyBodyUsage(t *testing.T) {
	svc, _ := newService(t, identity.PolicyStrict)

	for _, text := range []string{"", "   ", "\n \n"} {
		if _, err := svc.SubmitPlan(submission(text)); !errors.Is(err, ErrUsage) {
			t.Errorf("SubmitPlan(%q) error = %v, want ErrUsage", text, err)
		}
	}
}

// TestSubmitInvalidBlockSkipped 测试无效区块跳过、同提交其余照写
func TestSubmitInvalidBlockSkipped(t *testing.T) {
	svc, st := newService(t, identity.PolicyStrict)

	result, err := svc.SubmitPlan(submission(
		"Customer: PT ABC\nAgenda: Demo\n\nHasil: belum\n\nCustomer: PT DEF\nAgenda: Training"))
	if err != nil {
		t.Fatalf("SubmitPlan failed: %v", err)
	}

	if result.Inserted != 2 || result.Skipped != 1 {
		t.Fatalf("inserted/skipped = %d/%d, want 2/1", result.Inserted, result.Skipped)
	}

	skipped := result.Outcomes[1]
	if skipped.Status != model.StatusSkipped || skipped.Index != 1 {
		t.Errorf("outcome[1] = %+v, want skipped at index 1", skipped)
	}
	if len(skipped.Missing) != 2 {
		t.Errorf("missing = %v, want customer and agenda", skipped.Missing)
	}

	rows, _ := st.ReadAllRows("visitplan")
	if len(rows) != 3 {
		t.Errorf("visitplan rows = %d, want 3", len(rows))
	}
}

// TestSubmitStrictUnregisteredAborts 测试严格策略未注册时整体中止
func TestSubmitStrictUnregisteredAborts(t *testing.T) {
	svc, st := newService(t, identity.PolicyStrict)

	sub := submission("Customer: PT ABC\nAgenda: Demo")
	sub.ExternalID = "99999"

	_, err := svc.SubmitPlan(sub)
	if !errors.Is(err, identity.ErrUnregistered) {
		t.Fatalf("error = %v, want ErrUnregistered", err)
	}

	// 未注册时不产生任何写入
	rows, _ := st.ReadAllRows("visitplan")
	if len(rows) != 1 {
		t.Errorf("visitplan rows = %d, want 1 (header only)", len(rows))
	}
}

// TestSubmitAutoRegisters 测试自动登记策略
func TestSubmitAutoRegisters(t *testing.T) {
	svc, st := newService(t, identity.PolicyAuto)

	sub := submission("Customer: PT ABC\nAgenda: Demo")
	sub.ExternalID = "99999"

	result, err := svc.SubmitPlan(sub)
	if err != nil {
		t.Fatalf("SubmitPlan failed: %v", err)
	}
	if result.Submitter.Name != "Guest" || result.Submitter.Code != "000" {
		t.Errorf("submitter = %q/%q, want Guest/000", result.Submitter.Name, result.Submitter.Code)
	}

	ids, _ := st.ReadAllRows(IdentitySheet)
	if len(ids) != 3 {
		t.Errorf("identity rows = %d, want 3", len(ids))
	}
}

// TestSubmitRecapUpsert 测试总结提交的跟进更新
func TestSubmitRecapUpsert(t *testing.T) {
	svc, st := newService(t, identity.PolicyStrict)

	if _, err := svc.SubmitRecap(submission(
		"Kegiatan: Visit\nPelanggan: PT ABC\nAgenda: Product Demo\nHasil: -")); err != nil {
		t.Fatalf("first SubmitRecap failed: %v", err)
	}

	result, err := svc.SubmitRecap(submission(
		"Kegiatan: Visit\nPelanggan: PT ABC\nAgenda: Product Demo\nHasil: sudah deal\nStatus: done"))
	if err != nil {
		t.Fatalf("second SubmitRecap failed: %v", err)
	}

	if result.Inserted != 0 || result.Updated != 1 {
		t.Errorf("inserted/updated = %d/%d, want 0/1", result.Inserted, result.Updated)
	}

	rows, _ := st.ReadAllRows("recapvisit")
	if len(rows) != 2 {
		t.Fatalf("recapvisit rows = %d, want 2 (no duplicate)", len(rows))
	}
	if rows[1][6] != "sudah deal" || rows[1][9] != "done" {
		t.Errorf("mutable columns = %q/%q, want sudah deal/done", rows[1][6], rows[1][9])
	}
}

// TestSubmitRecapPipeForm 测试竖线格式提交
func TestSubmitRecapPipeForm(t *testing.T) {
	svc, st := newService(t, identity.PolicyStrict)

	result, err := svc.SubmitRecap(submission("1. Visit|PT ABC|Product Demo\n2. Maintenance|PT XYZ|Perbaikan"))
	if err != nil {
		t.Fatalf("SubmitRecap failed: %v", err)
	}
	if result.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", result.Inserted)
	}

	rows, _ := st.ReadAllRows("recapvisit")
	if rows[1][3] != "Visit" || rows[1][4] != "PT ABC" || rows[1][5] != "Product Demo" {
		t.Errorf("row = %v", rows[1])
	}
}

// TestDailyReport 测试日报查询映射
func TestDailyReport(t *testing.T) {
	svc, _ := newService(t, identity.PolicyStrict)

	if _, err := svc.SubmitRecap(submission(
		"Kegiatan: Visit\nPelanggan: PT ABC\nAgenda: Demo\nHasil: deal")); err != nil {
		t.Fatalf("SubmitRecap failed: %v", err)
	}

	entries, err := svc.DailyReport("01/09/2026")
	if err != nil {
		t.Fatalf("DailyReport failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Pelanggan != "PT ABC" || e.Hasil != "deal" || e.SA != "Yovita" {
		t.Errorf("entry = %+v", e)
	}
	if e.Status != "-" {
		t.Errorf("status = %q, want -", e.Status)
	}
}
