package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MaulidiahYasmin/yovitwo/internal/audit"
	"github.com/MaulidiahYasmin/yovitwo/internal/identity"
	"github.com/MaulidiahYasmin/yovitwo/internal/ledger"
	"github.com/MaulidiahYasmin/yovitwo/internal/model"
	"github.com/MaulidiahYasmin/yovitwo/internal/parser"
	"github.com/MaulidiahYasmin/yovitwo/internal/record"
	"github.com/MaulidiahYasmin/yovitwo/internal/store"
)

// ErrUsage 提交没有可解析的正文
var ErrUsage = errors.New("submission has no parseable body")

// IdentitySheet 身份表名
const IdentitySheet = "id_telegram"

// Submission 一次提交的传输层输入
type Submission struct {
	Text       string
	ExternalID string
	ChatID     int64
	At         time.Time
}

// Service 提交处理流水线：解析 → 校验 → 身份解析 → 写账本
// 单线程协作式：一次提交处理完毕才接受下一次
type Service struct {
	engine   *ledger.Engine
	resolver *identity.Resolver
	auditLog *audit.Log
	loc      *time.Location
	plan     *record.Schema
	recap    *record.Schema
}

// New 创建提交处理服务，auditLog 可为 nil
func New(st store.SheetStore, policy identity.Policy, auditLog *audit.Log, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		engine:   ledger.NewEngine(st),
		resolver: identity.NewResolver(st, IdentitySheet, policy),
		auditLog: auditLog,
		loc:      loc,
		plan:     record.PlanSchema(),
		recap:    record.RecapSchema(),
	}
}

// SetupSheets 建表并写入表头，启动期调用一次
func SetupSheets(st store.SheetStore) error {
	for _, sc := range []*record.Schema{record.PlanSchema(), record.RecapSchema()} {
		if err := st.EnsureHeader(sc.Sheet, sc.Columns); err != nil {
			return fmt.Errorf("failed to ensure header of %s: %w", sc.Sheet, err)
		}
	}
	if err := st.EnsureHeader(IdentitySheet, identity.Header); err != nil {
		return fmt.Errorf("failed to ensure header of %s: %w", IdentitySheet, err)
	}
	return nil
}

// SubmitPlan 处理拜访计划提交（仅追加）
func (s *Service) SubmitPlan(sub Submission) (*model.SubmissionResult, error) {
	return s.process(s.plan, sub)
}

// SubmitRecap 处理拜访总结提交（复合键 upsert）
func (s *Service) SubmitRecap(sub Submission) (*model.SubmissionResult, error) {
	return s.process(s.recap, sub)
}

// process 提交处理主流程
// 校验失败的记录跳过并记录缺失字段，同提交中其余有效记录照常写入；
// 严格策略下身份未注册则整个提交中止，不产生任何写入
func (s *Service) process(sc *record.Schema, sub Submission) (*model.SubmissionResult, error) {
	body := strings.TrimSpace(sub.Text)
	if body == "" {
		return nil, ErrUsage
	}

	drafts := parser.ParseBlocks(body)
	if len(drafts) == 0 {
		return nil, ErrUsage
	}

	// 身份解析每次提交只做一次
	submitter, err := s.resolver.Resolve(sub.ExternalID)
	if err != nil {
		return nil, err
	}

	var valid []*model.ValidRecord
	skipped := make(map[int][]string)

	for i, draft := range drafts {
		rec, missing := sc.Validate(draft)
		if rec == nil {
			skipped[i] = missing
			continue
		}
		valid = append(valid, rec)
	}

	now := sub.At.In(s.loc)
	meta := record.RowMeta{
		Hari:    now.Format("Monday"),
		Tanggal: now.Format("02/01/2006"),
	}

	written, err := s.engine.WriteAll(sc, meta, submitter, valid)
	if err != nil {
		return nil, err
	}

	result := &model.SubmissionResult{
		ID:        uuid.New().String(),
		Submitter: submitter,
	}

	// 按草稿原始顺序合并写入结果与校验跳过
	next := 0
	for i := range drafts {
		if missing, ok := skipped[i]; ok {
			result.Outcomes = append(result.Outcomes, model.RecordOutcome{
				Index:   i,
				Status:  model.StatusSkipped,
				Missing: missing,
			})
			result.Skipped++
			continue
		}
		outcome := written[next]
		next++
		outcome.Index = i
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Status {
		case model.StatusAppended:
			result.Inserted++
		case model.StatusUpdated:
			result.Updated++
		}
	}

	s.recordAudit(sc.Kind, sub, result)
	return result, nil
}

// recordAudit 写审计日志，失败只记录不影响提交结果
func (s *Service) recordAudit(command string, sub Submission, result *model.SubmissionResult) {
	if s.auditLog == nil {
		return
	}
	err := s.auditLog.Record(audit.Entry{
		ID:          result.ID,
		ChatID:      sub.ChatID,
		Command:     command,
		SubmitterID: sub.ExternalID,
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		Skipped:     result.Skipped,
	})
	if err != nil {
		log.Printf("audit record failed: %v", err)
	}
}

// DailyReport 按日期查询拜访总结，复合键去重后返回
func (s *Service) DailyReport(tanggal string) ([]model.ReportEntry, error) {
	rows, err := s.engine.QueryByDate(s.recap, tanggal)
	if err != nil {
		return nil, err
	}

	sc := s.recap
	entries := make([]model.ReportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.ReportEntry{
			Tanggal:   cell(row, sc.ColumnIndex("Tanggal")),
			Kegiatan:  cell(row, sc.ColumnIndex("Kegiatan")),
			Pelanggan: cell(row, sc.ColumnIndex("Pelanggan")),
			Agenda:    cell(row, sc.ColumnIndex("Agenda")),
			Hasil:     cell(row, sc.ColumnIndex("Hasil")),
			Status:    cell(row, sc.ColumnIndex("Status")),
			SA:        cell(row, sc.ColumnIndex("SA")),
		})
	}
	return entries, nil
}

// FormatDate 以账本日期格式输出指定时刻
func (s *Service) FormatDate(t time.Time) string {
	return t.In(s.loc).Format("02/01/2006")
}

// Now 当前时间（配置时区）
func (s *Service) Now() time.Time {
	return time.Now().In(s.loc)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
