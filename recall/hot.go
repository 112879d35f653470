package recall

import (
	"context"
	"encoding/json"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/engine"
	"github.com/rukunhub/recokit/pipeline"
	"github.com/rukunhub/recokit/pkg/utils"
)

// Hot 是热门召回源，支持从 Store 读取热门物品列表。
// - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按分数排序）
// - 否则从普通 key 读取 JSON 数组
// - Store 未命中时退回引擎的全局热度榜单
// - 最后的 fallback 是内存中的 IDs
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Store core.Store
	Key   string // 存储 key，例如 "hot:kegiatan"

	// Engine 可选：Store 未命中时用引擎的热度榜单兜底
	Engine *engine.Engine

	// TopK 返回数量，<= 0 时默认 100
	TopK int

	// IDs fallback 内存列表
	IDs []string
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 100
	}

	var ids []string

	// 优先从 Store 读取（支持 ZRange 或普通 Get）
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(topK)-1)
			if err == nil && len(members) > 0 {
				ids = members
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []string
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	if len(ids) > 0 {
		if len(ids) > topK {
			ids = ids[:topK]
		}
		out := make([]*core.Item, 0, len(ids))
		for _, id := range ids {
			it := core.NewItem(id)
			it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
			out = append(out, it)
		}
		return out, nil
	}

	// 引擎热度榜单兜底
	if r.Engine != nil {
		recs := r.Engine.PopularItems(topK)
		out := make([]*core.Item, 0, len(recs))
		for _, rec := range recs {
			it := core.NewItem(rec.ItemID)
			it.Score = rec.Score
			it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
			it.PutLabel("reason", utils.Label{Value: rec.Reason, Source: "recall"})
			out = append(out, it)
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	// Fallback：内存 IDs
	out := make([]*core.Item, 0, len(r.IDs))
	for i, id := range r.IDs {
		if i >= topK {
			break
		}
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
