package recall

import (
	"context"
	"encoding/json"

	"github.com/rukunhub/recokit/core"
)

// StoreAdapter 是基于 core.Store 的交互 feed 适配器，
// 实现 core.InteractionSource 接口：从 Redis/内存等存储读取
// 由离线任务写入的 (user, item, rating) 交互记录，供引擎 Fit 使用。
//
// key 布局：
//
//	{KeyPrefix}:interactions → JSON 数组 []core.Interaction
type StoreAdapter struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，默认 "reco"
	KeyPrefix string
}

// NewStoreAdapter 创建一个基于 core.Store 的交互 feed 适配器。
func NewStoreAdapter(s core.Store, keyPrefix string) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "reco"
	}
	return &StoreAdapter{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (a *StoreAdapter) key() string {
	return a.KeyPrefix + ":interactions"
}

// Interactions 实现 core.InteractionSource 接口。
// key 不存在时返回空 feed（引擎 Fit 空输入合法），不视为错误。
func (a *StoreAdapter) Interactions(ctx context.Context) ([]core.Interaction, error) {
	data, err := a.store.Get(ctx, a.key())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.Interaction{}, nil
		}
		return nil, err
	}

	var out []core.Interaction
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveInteractions 将交互 feed 写入 Store（离线任务/测试用）。
func (a *StoreAdapter) SaveInteractions(ctx context.Context, interactions []core.Interaction) error {
	data, err := json.Marshal(interactions)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.key(), data)
}

var _ core.InteractionSource = (*StoreAdapter)(nil)
