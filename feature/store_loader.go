package feature

import (
	"context"
	"encoding/json"

	"github.com/rukunhub/recokit/core"
)

// StoreLoader 从 core.Store 读取 JSON 序列化的物品特征表。
// key 为 {KeyPrefix}:item_features，value 为 map[item_id]map[特征名]数值。
// 实现 core.ItemCatalog 接口。
type StoreLoader struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，默认 "reco"
	KeyPrefix string
}

// NewStoreLoader 创建一个基于 core.Store 的特征表加载器。
func NewStoreLoader(s core.Store, keyPrefix string) *StoreLoader {
	if keyPrefix == "" {
		keyPrefix = "reco"
	}
	return &StoreLoader{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (l *StoreLoader) key() string {
	return l.KeyPrefix + ":item_features"
}

// ItemFeatures 实现 core.ItemCatalog 接口。
// key 不存在时返回空表，不视为错误（内容信号缺失走降级路径）。
func (l *StoreLoader) ItemFeatures(ctx context.Context) (map[string]map[string]float64, error) {
	data, err := l.store.Get(ctx, l.key())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]map[string]float64{}, nil
		}
		return nil, err
	}

	var table map[string]map[string]float64
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Load 以 Table 形式返回特征表。
func (l *StoreLoader) Load(ctx context.Context) (Table, error) {
	m, err := l.ItemFeatures(ctx)
	if err != nil {
		return nil, err
	}
	return Table(m), nil
}

// Save 将特征表写入 Store（离线任务/测试用）。
func (l *StoreLoader) Save(ctx context.Context, table Table) error {
	data, err := json.Marshal(map[string]map[string]float64(table))
	if err != nil {
		return err
	}
	return l.store.Set(ctx, l.key(), data)
}

var _ core.ItemCatalog = (*StoreLoader)(nil)
