package record

import "github.com/MaulidiahYasmin/yovitwo/internal/model"

// Validate 校验草稿并归一化
// 返回有效记录，或全部缺失的必填字段名（不止第一个）
// 模式之外的字段保留在草稿上，但不进入记录
func (s *Schema) Validate(draft *model.RawDraft) (*model.ValidRecord, []string) {
	fields := make(map[string]string, len(s.Fields))
	var missing []string

	for _, spec := range s.Fields {
		value, ok := lookup(draft, spec)

		if spec.Required && (!ok || value == "") {
			missing = append(missing, spec.Name)
			continue
		}
		if !ok {
			value = spec.Default
		}

		// "-" 表示暂无结果，归一化为空串
		if spec.Name == s.ResultField && value == "-" {
			value = ""
		}
		fields[spec.Name] = value
	}

	if len(missing) > 0 {
		return nil, missing
	}

	return &model.ValidRecord{
		Kind:   s.Kind,
		Fields: fields,
	}, nil
}

// lookup 按规范名与声明别名查找草稿字段
func lookup(draft *model.RawDraft, spec FieldSpec) (string, bool) {
	if v, ok := draft.Fields[spec.Name]; ok {
		return v, true
	}
	for _, alias := range spec.Aliases {
		if v, ok := draft.Fields[alias]; ok {
			return v, true
		}
	}
	return "", false
}
