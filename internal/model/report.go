package model

// RawDraft 从提交正文的一个区块解析出的原始键值草稿
// Keys 保留字段在区块中出现的顺序
type RawDraft struct {
	Fields map[string]string
	Keys   []string
}

// NewRawDraft 创建空草稿
func NewRawDraft() *RawDraft {
	return &RawDraft{
		Fields: make(map[string]string),
	}
}

// Set 写入字段，重复键覆盖旧值但保留首次出现的顺序
func (d *RawDraft) Set(key, value string) {
	if _, ok := d.Fields[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Fields[key] = value
}

// Get 读取字段
func (d *RawDraft) Get(key string) string {
	return d.Fields[key]
}

// Empty 草稿是否没有任何字段
func (d *RawDraft) Empty() bool {
	return len(d.Fields) == 0
}

// ValidRecord 通过字段模式校验后的记录
// Fields 只包含模式内的规范字段名，缺省值已补齐
type ValidRecord struct {
	Kind   string
	Fields map[string]string
}

// Submitter 提交人身份
type Submitter struct {
	ExternalID string
	Name       string
	Code       string
}

// WriteStatus 单条记录的写入结果状态
type WriteStatus string

const (
	// StatusAppended 新增了一行
	StatusAppended WriteStatus = "appended"
	// StatusUpdated 覆盖了已有行的可变尾列
	StatusUpdated WriteStatus = "updated"
	// StatusSkipped 校验不通过，未写入
	StatusSkipped WriteStatus = "skipped"
)

// RecordOutcome 单条记录的处理结果
// Index 为记录在提交中的序号(0-based)，RowNo 为新增行的账本编号
type RecordOutcome struct {
	Index   int         `json:"index"`
	Status  WriteStatus `json:"status"`
	RowNo   int         `json:"rowNo,omitempty"`
	Missing []string    `json:"missing,omitempty"`
}

// SubmissionResult 一次提交的汇总结果
type SubmissionResult struct {
	ID        string          `json:"id"`
	Usage     bool            `json:"usage"`
	Submitter Submitter       `json:"-"`
	Outcomes  []RecordOutcome `json:"outcomes"`
	Inserted  int             `json:"inserted"`
	Updated   int             `json:"updated"`
	Skipped   int             `json:"skipped"`
}

// ReportEntry 日报查询去重后的单条结果
type ReportEntry struct {
	Tanggal   string `json:"tanggal"`
	Kegiatan  string `json:"kegiatan"`
	Pelanggan string `json:"pelanggan"`
	Agenda    string `json:"agenda"`
	Hasil     string `json:"hasil"`
	Status    string `json:"status"`
	SA        string `json:"sa"`
}
