package config

import (
	"fmt"
	"time"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/engine"
	"github.com/rukunhub/recokit/filter"
	"github.com/rukunhub/recokit/pipeline"
	"github.com/rukunhub/recokit/pkg/conv"
	"github.com/rukunhub/recokit/recall"
	"github.com/rukunhub/recokit/rerank"
)

// Deps 是工厂构建 Node 时注入的运行时依赖。
// Engine 供 recall.engine / recall.hot / filter(type=interacted) 使用，
// Store 供 recall.hot / filter(type=blacklist) 使用。
type Deps struct {
	Engine *engine.Engine
	Store  core.Store
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Recall Nodes
	factory.Register("recall.engine", buildEngineNode(deps))
	factory.Register("recall.hot", buildHotNode(deps))
	factory.Register("recall.fanout", buildFanoutNode(deps))

	// 注册 Filter Nodes
	factory.Register("filter", buildFilterNode(deps))

	// 注册 ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	return factory
}

func buildEngineNode(deps Deps) pipeline.NodeBuilder {
	return func(config map[string]interface{}) (pipeline.Node, error) {
		if deps.Engine == nil {
			return nil, fmt.Errorf("recall.engine requires an engine")
		}
		return &recall.Engine{
			Engine:         deps.Engine,
			TopK:           int(conv.ConfigGetInt64(config, "top_k", 0)),
			KeepInteracted: conv.ConfigGet[bool](config, "keep_interacted", false),
		}, nil
	}
}

func buildHotNode(deps Deps) pipeline.NodeBuilder {
	return func(config map[string]interface{}) (pipeline.Node, error) {
		ids := conv.SliceAnyToString(config["ids"])
		if ids == nil {
			ids = []string{}
		}
		return &recall.Hot{
			Store:  deps.Store,
			Key:    conv.ConfigGet[string](config, "key", ""),
			Engine: deps.Engine,
			TopK:   int(conv.ConfigGetInt64(config, "top_k", 0)),
			IDs:    ids,
		}, nil
	}
}

func buildFanoutNode(deps Deps) pipeline.NodeBuilder {
	return func(config map[string]interface{}) (pipeline.Node, error) {
		sourcesConfig, ok := config["sources"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("sources not found or invalid")
		}

		sources := make([]recall.Source, 0, len(sourcesConfig))
		for _, sc := range sourcesConfig {
			sourceMap, ok := sc.(map[string]interface{})
			if !ok {
				continue
			}
			sourceType := conv.ConfigGet[string](sourceMap, "type", "")
			switch sourceType {
			case "engine":
				if deps.Engine == nil {
					return nil, fmt.Errorf("source type engine requires an engine")
				}
				sources = append(sources, &recall.Engine{
					Engine:         deps.Engine,
					TopK:           int(conv.ConfigGetInt64(sourceMap, "top_k", 0)),
					KeepInteracted: conv.ConfigGet[bool](sourceMap, "keep_interacted", false),
				})
			case "hot":
				ids := conv.SliceAnyToString(sourceMap["ids"])
				if ids == nil {
					ids = []string{}
				}
				sources = append(sources, &recall.Hot{
					Store:  deps.Store,
					Key:    conv.ConfigGet[string](sourceMap, "key", ""),
					Engine: deps.Engine,
					TopK:   int(conv.ConfigGetInt64(sourceMap, "top_k", 0)),
					IDs:    ids,
				})
			default:
				return nil, fmt.Errorf("unknown source type: %s", sourceType)
			}
		}

		fanout := &recall.Fanout{
			Sources:       sources,
			Dedup:         conv.ConfigGet[bool](config, "dedup", true),
			MergeStrategy: conv.ConfigGet[string](config, "merge_strategy", ""),
		}
		if sec := conv.ConfigGetInt64(config, "timeout", 0); sec > 0 {
			fanout.Timeout = time.Duration(sec) * time.Second
		}
		if n := conv.ConfigGetInt64(config, "max_concurrent", 0); n > 0 {
			fanout.MaxConcurrent = int(n)
		}
		return fanout, nil
	}
}

func buildFilterNode(deps Deps) pipeline.NodeBuilder {
	return func(config map[string]interface{}) (pipeline.Node, error) {
		filtersConfig, ok := config["filters"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}

		filters := make([]filter.Filter, 0, len(filtersConfig))
		for _, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]interface{})
			if !ok {
				continue
			}
			filterType := conv.ConfigGet[string](filterMap, "type", "")
			switch filterType {
			case "interacted":
				if deps.Engine == nil {
					return nil, fmt.Errorf("filter type interacted requires an engine")
				}
				filters = append(filters, &filter.Interacted{Engine: deps.Engine})

			case "blacklist":
				ids := conv.SliceAnyToString(filterMap["item_ids"])
				if ids == nil {
					ids = []string{}
				}
				filters = append(filters, &filter.Blacklist{
					ItemIDs: ids,
					Store:   deps.Store,
					Key:     conv.ConfigGet[string](filterMap, "key", ""),
				})

			case "rule":
				filters = append(filters, &filter.Rule{
					Expr: conv.ConfigGet[string](filterMap, "expr", ""),
				})

			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}

		return &filter.Node{Filters: filters}, nil
	}
}

func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(config, "n", 0)),
	}, nil
}

func buildDiversityNode(config map[string]interface{}) (pipeline.Node, error) {
	labelKey := conv.ConfigGet[string](config, "label_key", "category")
	if labelKey == "" {
		labelKey = "category"
	}
	return &rerank.Diversity{LabelKey: labelKey}, nil
}
