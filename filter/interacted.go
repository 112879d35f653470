package filter

import (
	"context"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/engine"
)

// Interacted 过滤用户已交互（评分 > 0）的物品，
// 避免把用户参加过的活动再推荐一遍。
// 与引擎内部的 excludeInteracted 语义一致，
// 供召回侧保留全量候选、在 Pipeline 中统一剔除的场景使用。
type Interacted struct {
	Engine *engine.Engine
}

func (f *Interacted) Name() string {
	return "filter.interacted"
}

func (f *Interacted) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Engine == nil || item == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	rating, _ := f.Engine.Rating(rctx.UserID, item.ID)
	return rating > 0, nil
}
