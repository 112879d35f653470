package engine

// Method 表示打分方法，在构建引擎时选定。
type Method string

const (
	MethodCollaborative Method = "collaborative"
	MethodContentBased  Method = "content_based"
	MethodHybrid        Method = "hybrid"
)

// 混合打分的固定线性权重。不是学习得到的，
// 行为对齐要求精确使用 0.6 / 0.4。
const (
	hybridCollabWeight  = 0.6
	hybridContentWeight = 0.4
)

// strategy 对指定用户计算候选物品的原始得分（item_id → score）。
// 已交互物品的剔除由上层统一处理，策略之间保持可组合。
type strategy interface {
	name() string
	score(s *state, user int) map[string]float64
}

// strategyFor 按 Method 选择策略。New 已把 method 归一到三个常量之一，
// 这里的 default 分支与归一的默认值保持一致。
func strategyFor(method Method) strategy {
	switch method {
	case MethodContentBased:
		return contentBased{}
	case MethodHybrid:
		return hybrid{}
	default:
		return collaborative{}
	}
}

// collaborative 是基于用户的协同过滤（User-CF）：
// “兴趣相似的用户，喜欢相似的物品”。
//
// 对目标用户 u，遍历所有相似度 > 0 的其他用户 v
// （相似度 ≤ 0 的邻居不贡献信号，直接跳过——这是噪声过滤，不是错误），
// 对 v 评分 > 0 的每个物品 i 累加 sim(u,v)·rating(v,i) 与 sim(u,v)，
// 最终得分 = 加权和 / 权重和。权重和为 0 的物品省略，不存在除零。
// 所有正相似邻居都参与，没有固定的 K。
type collaborative struct{}

func (collaborative) name() string { return "collaborative" }

func (collaborative) score(s *state, user int) map[string]float64 {
	weighted := make(map[string]float64)
	simSum := make(map[string]float64)

	for v := range s.users {
		if v == user {
			continue // 排除自相似
		}
		sim := s.userSim[user][v]
		if sim <= 0 {
			continue
		}
		for i, rating := range s.ratings[v] {
			if rating > 0 {
				id := s.items[i]
				weighted[id] += sim * rating
				simSum[id] += sim
			}
		}
	}

	scores := make(map[string]float64, len(weighted))
	for id, w := range weighted {
		if simSum[id] > 0 {
			scores[id] = w / simSum[id]
		}
	}
	return scores
}

// contentBased 是基于内容的打分：
// 候选物品的得分 = 它与用户喜欢过（评分 > 0）的物品的平均特征相似度。
//
// 用户没有喜欢过的物品、或物品相似度未构建时返回空结果
// （冷内容画像，由上层降级处理）。
type contentBased struct{}

func (contentBased) name() string { return "content_based" }

func (contentBased) score(s *state, user int) map[string]float64 {
	if len(s.itemSim) == 0 {
		return nil
	}

	liked := make(map[string]struct{})
	likedFeat := make([]int, 0)
	for i, rating := range s.ratings[user] {
		if rating > 0 {
			id := s.items[i]
			liked[id] = struct{}{}
			if fi, ok := s.featIndex[id]; ok {
				likedFeat = append(likedFeat, fi)
			}
		}
	}
	if len(likedFeat) == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for ci, id := range s.featIDs {
		if _, ok := liked[id]; ok {
			continue
		}
		var sum float64
		for _, li := range likedFeat {
			sum += s.itemSim[li][ci]
		}
		scores[id] = sum / float64(len(likedFeat))
	}
	return scores
}

// hybrid 是固定权重的线性混合：0.6·协同 + 0.4·内容。
// 任一侧缺失的项按 0 计，内容信号缺失时自然退化为纯协同。
type hybrid struct{}

func (hybrid) name() string { return "hybrid" }

func (hybrid) score(s *state, user int) map[string]float64 {
	collab := collaborative{}.score(s, user)
	content := contentBased{}.score(s, user)

	scores := make(map[string]float64, len(collab)+len(content))
	for id, v := range collab {
		scores[id] = hybridCollabWeight * v
	}
	for id, v := range content {
		scores[id] += hybridContentWeight * v
	}
	return scores
}
