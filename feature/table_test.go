package feature

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rukunhub/recokit/store"
)

func TestTable_Keys(t *testing.T) {
	table := Table{
		"i2": {"b": 1, "a": 2},
		"i1": {"c": 3},
	}
	want := []string{"a", "b", "c"}
	if got := table.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestTable_Vectors(t *testing.T) {
	table := Table{
		"i2": {"a": 1, "b": 2},
		"i1": {"b": 3}, // 缺失的 a 取 0
	}

	items, vecs := table.Vectors()
	if want := []string{"i1", "i2"}; !reflect.DeepEqual(items, want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	wantVecs := [][]float64{
		{0, 3},
		{1, 2},
	}
	if !reflect.DeepEqual(vecs, wantVecs) {
		t.Fatalf("vecs = %v, want %v", vecs, wantVecs)
	}

	// 同一张表多次展开结果一致
	items2, vecs2 := table.Vectors()
	if !reflect.DeepEqual(items, items2) || !reflect.DeepEqual(vecs, vecs2) {
		t.Fatal("Vectors() is not deterministic")
	}
}

func TestStandardize(t *testing.T) {
	vecs := [][]float64{
		{1, 7, 5},
		{3, 7, 5},
		{5, 7, 5},
	}
	got := Standardize(vecs)

	// 每列均值为 0
	for j := 0; j < 3; j++ {
		var sum float64
		for i := range got {
			sum += got[i][j]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", j, sum/3)
		}
	}

	// 零方差列整列置 0
	for i := range got {
		if got[i][1] != 0 || got[i][2] != 0 {
			t.Errorf("row %d = %v, constant columns must be 0", i, got[i])
		}
	}

	// 第一列：μ=3、σ=√(8/3)
	sigma := math.Sqrt(8.0 / 3.0)
	wantCol := []float64{-2 / sigma, 0, 2 / sigma}
	for i, want := range wantCol {
		if math.Abs(got[i][0]-want) > 1e-9 {
			t.Errorf("got[%d][0] = %v, want %v", i, got[i][0], want)
		}
	}

	// 输入不被修改
	if vecs[0][0] != 1 {
		t.Fatal("Standardize must not mutate its input")
	}
}

func TestStandardize_Empty(t *testing.T) {
	if got := Standardize(nil); got != nil {
		t.Fatalf("Standardize(nil) = %v, want nil", got)
	}
}

func TestStoreLoader_RoundTrip(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	defer memStore.Close()

	loader := NewStoreLoader(memStore, "test")

	// key 不存在时返回空表，不报错
	table, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("Load on empty store = %v, want empty", table)
	}

	want := Table{
		"i1": {"a": 1.5, "b": 2},
		"i2": {"a": 0.5},
	}
	if err := loader.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %v, want %v", got, want)
	}
}
