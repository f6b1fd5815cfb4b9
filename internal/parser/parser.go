package parser

import (
	"regexp"
	"strings"

	"github.com/MaulidiahYasmin/yovitwo/internal/model"
)

// 行首的枚举标号，如 "1." "2)"，仅为排版，无语义
var enumMarkerRe = regexp.MustCompile(`^\d+[.)]\s*`)

// 竖线单行格式的位置字段顺序
var pipeFields = []string{"kegiatan", "pelanggan", "agenda"}

// ParseBlocks 将提交正文解析为草稿序列
// 空行分隔区块，区块内按首个冒号拆分键值；不含冒号的行跳过
// 含竖线且不含冒号的行视为单行位置格式，独立成一条草稿
func ParseBlocks(body string) []*model.RawDraft {
	var drafts []*model.RawDraft
	current := model.NewRawDraft()

	flush := func() {
		if !current.Empty() {
			drafts = append(drafts, current)
			current = model.NewRawDraft()
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		line = StripEnumMarker(line)

		if !strings.Contains(line, ":") && strings.Contains(line, "|") {
			flush()
			drafts = append(drafts, parsePipeLine(line))
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			// 区块内无冒号的行不是错误，直接跳过
			continue
		}

		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			continue
		}
		current.Set(key, value)
	}

	flush()
	return drafts
}

// parsePipeLine 解析竖线位置格式，字段按位置对应 kegiatan/pelanggan/agenda
func parsePipeLine(line string) *model.RawDraft {
	draft := model.NewRawDraft()
	parts := strings.Split(line, "|")

	for i, name := range pipeFields {
		value := ""
		if i < len(parts) {
			value = strings.TrimSpace(parts[i])
		}
		draft.Set(name, value)
	}
	return draft
}

// StripEnumMarker 去除行首的枚举标号
func StripEnumMarker(line string) string {
	return enumMarkerRe.ReplaceAllString(line, "")
}
