// Package feast 封装 Feast Feature Store 的在线特征读取，
// 为内容推荐提供物品（活动/服务）特征来源。
package feast

import "context"

// Client 是 Feast Feature Store 的客户端接口（领域层定义，基础设施层实现）。
//
// Feast 是一个开源的 Feature Store，这里只依赖在线特征读取：
// 离线训练、特征物化等由平台侧的数据管道负责。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时装配物品特征表）
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["kegiatan_stats:durasi_menit"]
	//   - EntityRows: 实体行，例如 [{"kegiatan_id": "keg_001"}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，形如 "feature_view:feature_name"
	Features []string

	// EntityRows 实体行，例如 [{"kegiatan_id": "keg_001"}, {"kegiatan_id": "keg_002"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，为空时用客户端默认值）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}
