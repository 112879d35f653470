package filter

import (
	"context"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/pkg/dsl"
)

// Rule 是规则过滤器：用 CEL 表达式描述“应被剔除”的物品。
// 表达式为 true 时物品被过滤。
//
// 示例：
//   - `item.score < 0.1`
//   - `label.confidence == "low" && label.recall_source.contains("engine")`
type Rule struct {
	// Expr 是 CEL 表达式，空表达式不过滤任何物品
	Expr string
}

func (f *Rule) Name() string {
	return "filter.rule"
}

func (f *Rule) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
