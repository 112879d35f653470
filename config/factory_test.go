package config

import (
	"context"
	"testing"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/engine"
	"github.com/rukunhub/recokit/pipeline"
	"github.com/rukunhub/recokit/store"
)

const testYAML = `
pipeline:
  name: beranda
  nodes:
    - type: recall.fanout
      config:
        dedup: true
        merge_strategy: priority
        sources:
          - type: engine
            top_k: 10
          - type: hot
            key: "hot:test"
    - type: filter
      config:
        filters:
          - type: interacted
          - type: blacklist
            item_ids: ["banned"]
          - type: rule
            expr: 'item.score < 0.0'
    - type: rerank.diversity
      config:
        label_key: recall_source
    - type: rerank.topn
      config:
        n: 3
`

func TestDefaultFactory_BuildsConfiguredPipeline(t *testing.T) {
	ctx := context.Background()

	memStore := store.NewMemoryStore()
	defer memStore.Close()
	if err := memStore.ZAdd(ctx, "hot:test", 100, "i1"); err != nil {
		t.Fatalf("ZAdd: %v", err)
	}

	eng := engine.New(engine.MethodCollaborative)
	if _, err := eng.Fit(ctx, []core.Interaction{
		{UserID: "u1", ItemID: "i1", Rating: 5},
		{UserID: "u2", ItemID: "i1", Rating: 4},
		{UserID: "u2", ItemID: "i2", Rating: 5},
	}, nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	cfg, err := pipeline.ParseYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	factory := DefaultFactory(Deps{Engine: eng, Store: memStore})
	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(p.Nodes))
	}

	rctx := &core.RecommendContext{UserID: "u1", Scene: "beranda"}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// u1 已交互 i1 被过滤，引擎召回的 i2 保留
	for _, it := range items {
		if it.ID == "i1" {
			t.Fatalf("interacted item i1 must be filtered: %+v", items)
		}
	}
	found := false
	for _, it := range items {
		if it.ID == "i2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected i2 in output, got %+v", items)
	}
}

func TestDefaultFactory_MissingEngine(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: recall.engine
      config:
        top_k: 5
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if _, err := cfg.BuildPipeline(DefaultFactory(Deps{})); err == nil {
		t.Fatal("recall.engine without engine must fail to build")
	}
}

func TestDefaultFactory_UnknownFilterType(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: filter
      config:
        filters:
          - type: nonsense
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if _, err := cfg.BuildPipeline(DefaultFactory(Deps{})); err == nil {
		t.Fatal("unknown filter type must fail to build")
	}
}
