package engine

import "sort"

// 置信度分层的固定阈值。
const (
	ConfidenceHigh   = "high"   // score > 0.7
	ConfidenceMedium = "medium" // score > 0.4
	ConfidenceLow    = "low"
)

// ReasonPopular 标记冷启动兜底产出的热门推荐。
const ReasonPopular = "popular"

// Recommendation 是推荐输出的最小单元。
type Recommendation struct {
	ItemID     string
	Score      float64
	Confidence string
	Reason     string
	// Details 是物品的特征元信息（特征表中存在时附带）。
	Details map[string]float64
}

// SimilarItem 是“相似物品”查询的输出单元。
type SimilarItem struct {
	ItemID     string
	Similarity float64
}

// TrainedSummary 是一次成功 Fit 的摘要。
type TrainedSummary struct {
	NumUsers int
	NumItems int
}

// confidenceFor 按固定阈值将数值得分折算为置信度分层。
func confidenceFor(score float64) string {
	switch {
	case score > 0.7:
		return ConfidenceHigh
	case score > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// topN 从得分表中选出前 n 个（n <= 0 表示全部），按得分降序。
// 并列时按候选的确定性次序（fit 下标 / 特征表序）定先后，
// 同样的输入总是得到同样的输出。
func (s *state) topN(scores map[string]float64, n int) []Recommendation {
	ranked := make([]Recommendation, 0, len(scores))
	for _, id := range s.candidateOrder() {
		score, ok := scores[id]
		if !ok {
			continue
		}
		ranked = append(ranked, Recommendation{
			ItemID:     id,
			Score:      score,
			Confidence: confidenceFor(score),
			Details:    s.detailsFor(id),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// sortSimilarDesc 按相似度降序稳定排序（并列保持原次序）。
func sortSimilarDesc(items []SimilarItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Similarity > items[j].Similarity
	})
}

// detailsFor 返回物品的特征行副本；不在特征表中时返回 nil。
func (s *state) detailsFor(itemID string) map[string]float64 {
	feats, ok := s.features[itemID]
	if !ok {
		return nil
	}
	details := make(map[string]float64, len(feats))
	for k, v := range feats {
		details[k] = v
	}
	return details
}
