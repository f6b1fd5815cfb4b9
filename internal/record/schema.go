package record

import "github.com/MaulidiahYasmin/yovitwo/internal/model"

// WriteStrategy 账本写入策略
type WriteStrategy int

const (
	// AppendOnly 每条记录都追加新行，不查重
	AppendOnly WriteStrategy = iota
	// Upsert 复合键命中时覆盖可变尾列，否则追加
	Upsert
)

// FieldSpec 字段定义
// Aliases 为声明式别名，不做模糊匹配
type FieldSpec struct {
	Name     string
	Aliases  []string
	Required bool
	Default  string
}

// RowMeta 提交时刻派生的行元数据
type RowMeta struct {
	Hari    string
	Tanggal string
}

// 派生列取值来源标记
const (
	srcNo      = "#no"
	srcHari    = "#hari"
	srcTanggal = "#tanggal"
	srcName    = "#sa"
	srcCode    = "#idsa"
)

// Schema 记录种类的字段模式与账本列布局
type Schema struct {
	Kind    string
	Sheet   string
	Fields  []FieldSpec
	Columns []string
	// Sources 每列的取值来源：# 开头为派生列，其余为记录字段名
	Sources []string
	// ResultField "-" 归一化为空串的结果字段
	ResultField string
	Strategy    WriteStrategy
	// KeyCols 复合键列索引(0-based)，仅 Upsert 策略使用
	KeyCols []int
	// MutableFrom 可变尾列起始索引(0-based)，仅 Upsert 策略使用
	MutableFrom int
}

// PlanSchema 拜访计划：仅追加
func PlanSchema() *Schema {
	return &Schema{
		Kind:  "plan",
		Sheet: "visitplan",
		Fields: []FieldSpec{
			{Name: "customer", Required: true},
			{Name: "agenda", Required: true},
			{Name: "hasil", Default: ""},
		},
		Columns:     []string{"No", "Hari", "Tanggal", "Customer", "Agenda", "Hasil", "SA", "ID SA"},
		Sources:     []string{srcNo, srcHari, srcTanggal, "customer", "agenda", "hasil", srcName, srcCode},
		ResultField: "hasil",
		Strategy:    AppendOnly,
	}
}

// RecapSchema 拜访总结：按复合键 upsert
func RecapSchema() *Schema {
	return &Schema{
		Kind:  "recap",
		Sheet: "recapvisit",
		Fields: []FieldSpec{
			{Name: "kegiatan", Required: true},
			{Name: "pelanggan", Aliases: []string{"customer"}, Required: true},
			{Name: "agenda", Required: true},
			{Name: "hasil", Default: ""},
			{Name: "status", Default: "-"},
		},
		Columns:     []string{"No", "Hari", "Tanggal", "Kegiatan", "Pelanggan", "Agenda", "Hasil", "SA", "ID SA", "Status"},
		Sources:     []string{srcNo, srcHari, srcTanggal, "kegiatan", "pelanggan", "agenda", "hasil", srcName, srcCode, "status"},
		ResultField: "hasil",
		Strategy:    Upsert,
		// 复合键：日期 + 客户 + 活动类型 + 活动内容
		KeyCols:     []int{2, 4, 3, 5},
		MutableFrom: 6,
	}
}

// ColumnIndex 按列名查找索引，未找到返回 -1
func (s *Schema) ColumnIndex(name string) int {
	for i, col := range s.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// BuildRow 组装账本行，列顺序与 Columns 一致
func (s *Schema) BuildRow(no string, meta RowMeta, sub model.Submitter, rec *model.ValidRecord) []string {
	row := make([]string, len(s.Sources))
	for i, src := range s.Sources {
		switch src {
		case srcNo:
			row[i] = no
		case srcHari:
			row[i] = meta.Hari
		case srcTanggal:
			row[i] = meta.Tanggal
		case srcName:
			row[i] = sub.Name
		case srcCode:
			row[i] = sub.Code
		default:
			row[i] = rec.Fields[src]
		}
	}
	return row
}

// RowKey 从账本行提取复合键，列不全时返回 false
func (s *Schema) RowKey(row []string) (string, bool) {
	parts := make([]string, 0, len(s.KeyCols))
	for _, idx := range s.KeyCols {
		if idx >= len(row) {
			return "", false
		}
		parts = append(parts, row[idx])
	}
	return joinKey(parts), true
}

// joinKey 键各部分以 \x1f 连接，避免与单元格内容冲突
func joinKey(parts []string) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += "\x1f"
		}
		key += p
	}
	return key
}
