package store

import (
	"context"

	"github.com/rukunhub/recokit/core"
)

// HotList 是热门榜单的领域封装：有序集合里的 member 是物品 ID，
// score 是热度分数，离线任务定期 Refresh，召回侧 Top 读取。
// recall.Hot 读取的 key 与这里写入的 key 约定一致。
type HotList struct {
	kv  core.KeyValueStore
	key string
}

// NewHotList 绑定一个存储后端与榜单 key，例如 "hot:kegiatan"。
func NewHotList(kv core.KeyValueStore, key string) *HotList {
	return &HotList{kv: kv, key: key}
}

func (h *HotList) Key() string { return h.key }

// batchZAdder 是后端可选实现的批量写入口（Redis 侧走 pipeline）。
type batchZAdder interface {
	ZAddBatch(ctx context.Context, key string, scores map[string]float64) error
}

// Refresh 全量写入榜单分数。后端支持批量时一次往返完成。
func (h *HotList) Refresh(ctx context.Context, scores map[string]float64) error {
	if b, ok := h.kv.(batchZAdder); ok {
		return b.ZAddBatch(ctx, h.key, scores)
	}
	for member, score := range scores {
		if err := h.kv.ZAdd(ctx, h.key, score, member); err != nil {
			return err
		}
	}
	return nil
}

// Add 写入或更新单个物品的热度分数。
func (h *HotList) Add(ctx context.Context, itemID string, score float64) error {
	return h.kv.ZAdd(ctx, h.key, score, itemID)
}

// Top 按热度降序返回前 n 个物品 ID；n <= 0 返回全部。
func (h *HotList) Top(ctx context.Context, n int) ([]string, error) {
	stop := int64(n) - 1
	if n <= 0 {
		stop = -1
	}
	return h.kv.ZRange(ctx, h.key, 0, stop)
}

// Score 返回物品的热度分数；不在榜单上时返回 ErrStoreNotFound。
func (h *HotList) Score(ctx context.Context, itemID string) (float64, error) {
	return h.kv.ZScore(ctx, h.key, itemID)
}
