package identity

import (
	"errors"
	"fmt"

	"github.com/MaulidiahYasmin/yovitwo/internal/model"
	"github.com/MaulidiahYasmin/yovitwo/internal/store"
)

// ErrUnregistered 严格策略下提交人未注册
var ErrUnregistered = errors.New("submitter not registered")

// Policy 未注册提交人的处理策略
type Policy string

const (
	// PolicyStrict 未注册即报错，整个提交不写入
	PolicyStrict Policy = "strict"
	// PolicyAuto 未注册时用占位名自动登记后继续
	PolicyAuto Policy = "auto"
)

// 自动登记的占位身份
const (
	placeholderName = "Guest"
	placeholderCode = "000"
)

// Header 身份表表头
var Header = []string{"telegram_id", "nama_sa", "id_sa"}

// Resolver 提交人身份解析器
// 每次提交至多一次全表扫描、至多一次登记写入
type Resolver struct {
	store  store.SheetStore
	sheet  string
	policy Policy
}

// NewResolver 创建解析器
func NewResolver(st store.SheetStore, sheet string, policy Policy) *Resolver {
	return &Resolver{
		store:  st,
		sheet:  sheet,
		policy: policy,
	}
}

// Resolve 将外部标识解析为展示名与编号
// 未命中时按策略报错或自动登记
func (r *Resolver) Resolve(externalID string) (model.Submitter, error) {
	sub, found, err := r.Lookup(externalID)
	if err != nil {
		return model.Submitter{}, err
	}
	if found {
		return sub, nil
	}

	if r.policy == PolicyStrict {
		return model.Submitter{}, fmt.Errorf("%w: %s", ErrUnregistered, externalID)
	}
	return r.Register(externalID)
}

// Lookup 扫描身份表做一次精确匹配，只读不写
func (r *Resolver) Lookup(externalID string) (model.Submitter, bool, error) {
	rows, err := r.store.ReadAllRows(r.sheet)
	if err != nil {
		return model.Submitter{}, false, fmt.Errorf("failed to read identity sheet: %w", err)
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) >= 3 && row[0] == externalID {
			return model.Submitter{
				ExternalID: externalID,
				Name:       row[1],
				Code:       row[2],
			}, true, nil
		}
	}
	return model.Submitter{}, false, nil
}

// Register 以占位名登记新身份，登记后不再由本引擎修正
func (r *Resolver) Register(externalID string) (model.Submitter, error) {
	sub := model.Submitter{
		ExternalID: externalID,
		Name:       placeholderName,
		Code:       placeholderCode,
	}
	if err := r.store.AppendRow(r.sheet, []string{sub.ExternalID, sub.Name, sub.Code}); err != nil {
		return model.Submitter{}, fmt.Errorf("failed to register submitter: %w", err)
	}
	return sub, nil
}
