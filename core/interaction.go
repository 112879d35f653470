package core

import "context"

// Interaction 是一条用户-物品交互记录。
// Rating 是非负实数，语义由调用方定义：
// 显式评分、签到次数、参与时长等均可。
// 同一 (UserID, ItemID) 出现多次时，以最后一条为准。
type Interaction struct {
	UserID string  `json:"user_id"`
	ItemID string  `json:"item_id"`
	Rating float64 `json:"rating"`
}

// InteractionSource 提供交互数据 feed，由宿主平台的适配层实现。
// 例如：从参与/签到历史转换（签到 → 0-5 评分由调用方负责）。
type InteractionSource interface {
	// Interactions 返回全量交互记录（用于引擎 Fit）
	Interactions(ctx context.Context) ([]Interaction, error)
}

// ItemCatalog 提供物品特征表 feed（可选，用于内容推荐）。
// 返回 item_id → 特征名 → 数值；只有出现在表中的物品参与内容打分。
type ItemCatalog interface {
	// ItemFeatures 返回物品数值特征表
	ItemFeatures(ctx context.Context) (map[string]map[string]float64, error)
}
