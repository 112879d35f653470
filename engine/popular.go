package engine

import "sort"

// popular 是冷启动兜底：按全体用户评分总和给物品排名。
// 得分归一化为 总和/最大总和 ∈ [0,1]，置信度固定为 low，
// 原因标记为 popular。只依赖物品的全局热度，与任何用户的历史无关。
//
// 矩阵为空、或所有评分总和为 0 时没有热度信号，返回空列表（不报错）。
func (s *state) popular(n int) []Recommendation {
	if len(s.items) == 0 {
		return []Recommendation{}
	}

	sums := make([]float64, len(s.items))
	var maxSum float64
	for _, row := range s.ratings {
		for i, rating := range row {
			sums[i] += rating
		}
	}
	for _, sum := range sums {
		if sum > maxSum {
			maxSum = sum
		}
	}
	if maxSum <= 0 {
		return []Recommendation{}
	}

	order := make([]int, len(s.items))
	for i := range order {
		order[i] = i
	}
	// 并列时保持 fit 下标次序
	sort.SliceStable(order, func(a, b int) bool {
		return sums[order[a]] > sums[order[b]]
	})

	if n > 0 && len(order) > n {
		order = order[:n]
	}

	recs := make([]Recommendation, 0, len(order))
	for _, i := range order {
		recs = append(recs, Recommendation{
			ItemID:     s.items[i],
			Score:      sums[i] / maxSum,
			Confidence: ConfidenceLow,
			Reason:     ReasonPopular,
		})
	}
	return recs
}
