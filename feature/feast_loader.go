package feature

import (
	"context"
	"strings"

	"github.com/rukunhub/recokit/feast"
	"github.com/rukunhub/recokit/pkg/conv"
)

// FeastLoader 从 Feast 在线特征库拉取物品特征表。
// 特征名取 "feature_view:feature_name" 中冒号后的短名作为列名；
// 非数值特征被跳过（内容相似度只用数值列）。
type FeastLoader struct {
	Client feast.Client

	// Features 要拉取的特征名列表，例如 ["kegiatan_stats:durasi_menit"]
	Features []string

	// EntityKey 实体 key，例如 "kegiatan_id"
	EntityKey string

	// Project 项目名称（可选）
	Project string
}

// Load 为给定物品拉取特征并装配为 Table。
// 某个物品整行缺失时从表中省略（不参与内容打分）。
func (l *FeastLoader) Load(ctx context.Context, itemIDs []string) (Table, error) {
	if l.Client == nil || len(l.Features) == 0 || len(itemIDs) == 0 {
		return Table{}, nil
	}

	entityRows := make([]map[string]interface{}, len(itemIDs))
	for i, id := range itemIDs {
		entityRows[i] = map[string]interface{}{l.EntityKey: id}
	}

	resp, err := l.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   l.Features,
		EntityRows: entityRows,
		Project:    l.Project,
	})
	if err != nil {
		return nil, err
	}

	table := make(Table, len(itemIDs))
	for i, fv := range resp.FeatureVectors {
		row := make(map[string]float64, len(fv.Values))
		for name, raw := range fv.Values {
			if v, ok := conv.ToFloat64(raw); ok {
				row[shortName(name)] = v
			}
		}
		if len(row) > 0 {
			table[itemIDs[i]] = row
		}
	}
	return table, nil
}

// shortName 返回 "view:name" 中的 name 部分。
func shortName(feature string) string {
	if i := strings.LastIndex(feature, ":"); i >= 0 {
		return feature[i+1:]
	}
	return feature
}
