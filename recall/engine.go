package recall

import (
	"context"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/engine"
	"github.com/rukunhub/recokit/pipeline"
	"github.com/rukunhub/recokit/pkg/utils"
)

// Engine 是引擎召回源：由相似度引擎为用户产出个性化候选。
// 未知用户由引擎内部降级为热门兜底；引擎未 Fit 时错误上抛
// （NotTrained 必须显式暴露给调用方，不允许默默吞掉）。
//
// Engine 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Engine struct {
	Engine *engine.Engine

	// TopK 返回的候选数量，<= 0 时返回全部
	TopK int

	// KeepInteracted 为 true 时保留用户已交互（评分 > 0）的物品，
	// 交给后置的 filter.Interacted 统一处理；默认在引擎侧剔除
	KeepInteracted bool
}

func (r *Engine) Name() string        { return "recall.engine" }
func (r *Engine) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Engine) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Engine) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	recs, err := r.Engine.Recommend(rctx.UserID, r.TopK, !r.KeepInteracted)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(recs))
	for _, rec := range recs {
		it := core.NewItem(rec.ItemID)
		it.Score = rec.Score
		for k, v := range rec.Details {
			it.Features[k] = v
		}
		it.PutLabel("recall_source", utils.Label{Value: "engine", Source: "recall"})
		it.PutLabel("method", utils.Label{Value: string(r.Engine.Method()), Source: "recall"})
		it.PutLabel("confidence", utils.Label{Value: rec.Confidence, Source: "recall"})
		if rec.Reason != "" {
			it.PutLabel("reason", utils.Label{Value: rec.Reason, Source: "recall"})
		}
		out = append(out, it)
	}
	return out, nil
}
