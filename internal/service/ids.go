package service

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
)

// canonicalID 将外部传入的 ID 规范为小写连字符形式的 UUID，与数据库返回的形式一致
// 无法解析的 ID 不可能对应任何记录，直接返回 notFound，不发往数据库
func canonicalID(id string, notFound error) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", notFound
	}
	return u.String(), nil
}

// canonicalIDs 规范化并去重 ID 列表，保持首次出现的顺序
// valid 为可查询的规范 ID；invalid 为无法解析的原始值，调用方按不存在处理
func canonicalIDs(ids []string) (valid, invalid []string, err error) {
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil, pkgerrors.Validation("ID 列表中不能包含空值")
		}
		u, perr := uuid.Parse(raw)
		key := raw
		if perr == nil {
			key = u.String()
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if perr != nil {
			invalid = append(invalid, raw)
			continue
		}
		valid = append(valid, key)
	}
	return valid, invalid, nil
}
