// Package engine 实现社区平台的相似度推荐引擎：
// 由交互记录构建用户-物品评分矩阵，派生用户/物品相似度，
// 按协同 / 内容 / 混合策略打分，未知用户走热门兜底。
//
// 引擎是进程内的库级组件：确定性、无 I/O，
// 深度模型与 HTTP 层等均在引擎之外。
package engine

import (
	"context"
	"sync"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/feature"
)

// Engine 是推荐引擎。状态机：Untrained →（Fit）→ Fitted。
// Fit 是唯一的写操作，持有写锁原子替换全部派生结构；
// Fit 之后状态只读，任意数量的查询可并发执行。
type Engine struct {
	mu       sync.RWMutex
	method   Method
	strategy strategy
	state    *state
}

// New 创建一个引擎。method 为空或未知时归一为协同过滤，
// 保证 Fit 的矩阵构建与打分策略看到同一个取值。
func New(method Method) *Engine {
	switch method {
	case MethodCollaborative, MethodContentBased, MethodHybrid:
	default:
		method = MethodCollaborative
	}
	return &Engine{
		method:   method,
		strategy: strategyFor(method),
	}
}

// Method 返回构建时选定的打分方法。
func (e *Engine) Method() Method { return e.method }

// Trained 报告引擎是否已成功 Fit。
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state != nil
}

// Fit 全量训练：构建评分矩阵与相似度矩阵，并原子替换旧状态。
//
// 纯协同方法跳过物品相似度；内容/混合方法在提供特征表时构建。
// 空交互输入合法（产出空矩阵，后续查询降级为空结果）。
//
// 相似度计算是 O(U²·I) / O(I²) 的批处理，可能耗时较长；
// ctx 取消时返回错误并保留上一次 Fit 的状态，半成品不可见。
// 低尾延迟的调用方应在请求路径之外预先 Fit。
func (e *Engine) Fit(ctx context.Context, interactions []core.Interaction, itemFeatures feature.Table) (*TrainedSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := newState(interactions)

	if e.method == MethodCollaborative || e.method == MethodHybrid {
		sim, err := userSimilarity(ctx, s.ratings)
		if err != nil {
			return nil, err
		}
		s.userSim = sim
	}

	if (e.method == MethodContentBased || e.method == MethodHybrid) && len(itemFeatures) > 0 {
		s.features = itemFeatures
		ids, vecs := itemFeatures.Vectors()
		sim, err := itemSimilarity(ctx, feature.Standardize(vecs))
		if err != nil {
			return nil, err
		}
		if sim != nil {
			s.featIDs = ids
			s.featIndex = make(map[string]int, len(ids))
			for i, id := range ids {
				s.featIndex[id] = i
			}
			s.itemSim = sim
		}
	}

	e.state = s
	return &TrainedSummary{NumUsers: len(s.users), NumItems: len(s.items)}, nil
}

// FitFrom 从领域接口加载两路 feed 后训练。catalog 可为 nil。
func (e *Engine) FitFrom(ctx context.Context, src core.InteractionSource, catalog core.ItemCatalog) (*TrainedSummary, error) {
	interactions, err := src.Interactions(ctx)
	if err != nil {
		return nil, err
	}
	var table feature.Table
	if catalog != nil {
		feats, err := catalog.ItemFeatures(ctx)
		if err != nil {
			return nil, err
		}
		table = feature.Table(feats)
	}
	return e.Fit(ctx, interactions, table)
}

// Recommend 为用户产出有序推荐列表。
//
//  1. 未 Fit：返回 core.ErrNotTrained（显式失败，不兜底）。
//  2. 未知用户：冷启动，直接返回热门兜底结果。
//  3. 已知用户：按构建时选定的策略打分；
//     excludeInteracted 为 true 时剔除评分 > 0 的已交互物品；
//     取前 n 个（n <= 0 表示全部），附置信度分层与物品元信息。
func (e *Engine) Recommend(userID string, n int, excludeInteracted bool) ([]Recommendation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return nil, core.ErrNotTrained
	}
	s := e.state

	user, ok := s.userIndex[userID]
	if !ok {
		return s.popular(n), nil
	}

	scores := e.strategy.score(s, user)

	if excludeInteracted {
		for i, rating := range s.ratings[user] {
			if rating > 0 {
				delete(scores, s.items[i])
			}
		}
	}

	return s.topN(scores, n), nil
}

// PopularItems 返回全局热门榜单（冷启动兜底同款），未 Fit 时为空。
func (e *Engine) PopularItems(n int) []Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return []Recommendation{}
	}
	return e.state.popular(n)
}

// SimilarItems 返回与指定物品特征最相似的前 n 个物品（排除自身）。
// 物品相似度未构建、或物品不在特征表中时返回空列表。
func (e *Engine) SimilarItems(itemID string, n int) []SimilarItem {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.state
	if s == nil || len(s.itemSim) == 0 {
		return []SimilarItem{}
	}
	idx, ok := s.featIndex[itemID]
	if !ok {
		return []SimilarItem{}
	}

	out := make([]SimilarItem, 0, len(s.featIDs)-1)
	for i, id := range s.featIDs {
		if i == idx {
			continue
		}
		out = append(out, SimilarItem{ItemID: id, Similarity: s.itemSim[idx][i]})
	}

	// 并列时保持特征表次序
	sortSimilarDesc(out)

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Rating 返回用户对物品的评分以及该 (user, item) 对是否真实出现在 feed 中。
// 矩阵本身以 0 填充缺失对，此方法是少数需要区分两者的调用方的出口。
func (e *Engine) Rating(userID, itemID string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.state
	if s == nil {
		return 0, false
	}
	u, ok := s.userIndex[userID]
	if !ok {
		return 0, false
	}
	i, ok := s.itemIndex[itemID]
	if !ok {
		return 0, false
	}
	_, seen := s.observed[u][i]
	return s.ratings[u][i], seen
}
