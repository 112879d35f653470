package engine

import "github.com/rukunhub/recokit/core"

// state 是一次 Fit 产出的全部只读结构：
// 用户-物品评分矩阵与两张相似度矩阵，整体原子替换。
//
// 矩阵按 fit 时分配的整数下标寻址（而非每次按 ID 查表），
// 打分阶段的访问摊销 O(1)。
type state struct {
	users []string
	items []string

	userIndex map[string]int
	itemIndex map[string]int

	// ratings 是稠密的 U×I 评分矩阵，未观测到的 (user, item) 填 0。
	// 与来源数据保持同一约定："从未交互"与"评分为 0"不作区分。
	ratings [][]float64

	// observed 记录 feed 中真实出现过的 (user, item) 下标对，
	// 供需要区分"填充 0"与"真实 0 分"的调用方查询；打分路径不依赖它。
	observed map[int]map[int]struct{}

	// userSim 是 U×U 的用户余弦相似度矩阵（含对角线，邻居聚合时排除自身）。
	userSim [][]float64

	// 物品相似度：只覆盖特征表中的物品。
	featIDs   []string
	featIndex map[string]int
	itemSim   [][]float64

	// features 是原始物品特征表，用于结果元信息回填。
	features map[string]map[string]float64
}

// newState 由交互记录构建评分矩阵。
// 用户/物品下标按首次出现顺序分配；重复的 (user, item) 以最后一条为准。
// 空输入合法：得到零行零列的矩阵，后续查询全部走冷启动降级。
func newState(interactions []core.Interaction) *state {
	s := &state{
		userIndex: make(map[string]int),
		itemIndex: make(map[string]int),
		observed:  make(map[int]map[int]struct{}),
	}

	for _, in := range interactions {
		if _, ok := s.userIndex[in.UserID]; !ok {
			s.userIndex[in.UserID] = len(s.users)
			s.users = append(s.users, in.UserID)
		}
		if _, ok := s.itemIndex[in.ItemID]; !ok {
			s.itemIndex[in.ItemID] = len(s.items)
			s.items = append(s.items, in.ItemID)
		}
	}

	s.ratings = make([][]float64, len(s.users))
	for u := range s.ratings {
		s.ratings[u] = make([]float64, len(s.items))
	}

	for _, in := range interactions {
		u := s.userIndex[in.UserID]
		i := s.itemIndex[in.ItemID]
		s.ratings[u][i] = in.Rating
		if s.observed[u] == nil {
			s.observed[u] = make(map[int]struct{})
		}
		s.observed[u][i] = struct{}{}
	}

	return s
}

// itemSimAt 返回两个物品的特征相似度；任一物品不在特征表中时返回 false。
func (s *state) itemSimAt(a, b string) (float64, bool) {
	if len(s.itemSim) == 0 {
		return 0, false
	}
	ia, ok := s.featIndex[a]
	if !ok {
		return 0, false
	}
	ib, ok := s.featIndex[b]
	if !ok {
		return 0, false
	}
	return s.itemSim[ia][ib], true
}

// candidateOrder 返回打分候选的确定性次序：
// 先按矩阵物品的 fit 下标，再补上只出现在特征表中的物品（已排序）。
// 分数并列时以此次序定先后。
func (s *state) candidateOrder() []string {
	order := make([]string, 0, len(s.items)+len(s.featIDs))
	order = append(order, s.items...)
	for _, id := range s.featIDs {
		if _, ok := s.itemIndex[id]; !ok {
			order = append(order, id)
		}
	}
	return order
}
