package dsl

import (
	"testing"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem("keg_001")
	it.Score = 0.85
	it.Meta["category"] = "olahraga"
	it.PutLabel("recall_source", utils.Label{Value: "engine|hot", Source: "recall"})
	it.PutLabel("confidence", utils.Label{Value: "high", Source: "recall"})
	return it
}

func TestEval_Evaluate(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "warga:1", Scene: "beranda"}

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{"empty expr is true", "", true, false},
		{"score compare", "item.score > 0.7", true, false},
		{"score compare false", "item.score < 0.5", false, false},
		{"item id", `item.id == "keg_001"`, true, false},
		{"label equality", `label.confidence == "high"`, true, false},
		{"label contains", `label.recall_source.contains("hot")`, true, false},
		{"meta access", `item.meta.category == "olahraga"`, true, false},
		{"rctx access", `rctx.scene == "beranda"`, true, false},
		{"logical and", `label.confidence == "high" && item.score > 0.8`, true, false},
		{"compile error", "item.score >", false, true},
		{"non-boolean result", "item.score", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEval(testItem(), rctx).Evaluate(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEval_NilContext(t *testing.T) {
	got, err := NewEval(testItem(), nil).Evaluate("item.score > 0.5")
	if err != nil {
		t.Fatalf("Evaluate with nil rctx: %v", err)
	}
	if !got {
		t.Fatal("got false, want true")
	}
}
