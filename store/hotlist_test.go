package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rukunhub/recokit/core"
)

func TestHotList(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	hot := NewHotList(ms, "hot:kegiatan")
	if hot.Key() != "hot:kegiatan" {
		t.Fatalf("Key() = %q", hot.Key())
	}

	// Refresh 走 MemoryStore 的批量路径
	if err := hot.Refresh(ctx, map[string]float64{
		"kerja_bakti": 100,
		"ronda":       90,
		"posyandu":    80,
	}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	top, err := hot.Top(ctx, 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if want := []string{"kerja_bakti", "ronda"}; !reflect.DeepEqual(top, want) {
		t.Fatalf("Top(2) = %v, want %v", top, want)
	}

	// n <= 0 返回全部
	all, err := hot.Top(ctx, 0)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Top(0) = %v, want 3 members", all)
	}

	// Add 更新单个分数，排名随之变化
	if err := hot.Add(ctx, "posyandu", 200); err != nil {
		t.Fatalf("Add: %v", err)
	}
	top, err = hot.Top(ctx, 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0] != "posyandu" {
		t.Fatalf("Top(1) after Add = %v, want [posyandu]", top)
	}

	score, err := hot.Score(ctx, "ronda")
	if err != nil || score != 90 {
		t.Fatalf("Score = (%v, %v), want (90, nil)", score, err)
	}
	if _, err := hot.Score(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Score(missing): got %v, want store not found", err)
	}
}

// 不实现批量写入的后端走逐条 ZAdd 的兜底路径。
func TestHotList_RefreshFallback(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	hot := NewHotList(plainKV{ms}, "hot:test")
	if err := hot.Refresh(ctx, map[string]float64{"a": 1, "b": 2}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	top, err := hot.Top(ctx, 0)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(top, want) {
		t.Fatalf("Top = %v, want %v", top, want)
	}
}

// plainKV 隐藏 ZAddBatch，暴露其余 KeyValueStore 方法。
type plainKV struct {
	kv core.KeyValueStore
}

func (p plainKV) Name() string { return p.kv.Name() }

func (p plainKV) Get(ctx context.Context, key string) ([]byte, error) { return p.kv.Get(ctx, key) }

func (p plainKV) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return p.kv.Set(ctx, key, value, ttl...)
}

func (p plainKV) Delete(ctx context.Context, key string) error { return p.kv.Delete(ctx, key) }

func (p plainKV) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	return p.kv.BatchGet(ctx, keys)
}

func (p plainKV) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	return p.kv.BatchSet(ctx, kvs, ttl...)
}

func (p plainKV) Close() error { return p.kv.Close() }

func (p plainKV) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return p.kv.ZAdd(ctx, key, score, member)
}

func (p plainKV) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return p.kv.ZRange(ctx, key, start, stop)
}

func (p plainKV) ZScore(ctx context.Context, key string, member string) (float64, error) {
	return p.kv.ZScore(ctx, key, member)
}

func (p plainKV) HGet(ctx context.Context, key, field string) ([]byte, error) {
	return p.kv.HGet(ctx, key, field)
}

func (p plainKV) HSet(ctx context.Context, key, field string, value []byte) error {
	return p.kv.HSet(ctx, key, field, value)
}

func (p plainKV) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	return p.kv.HGetAll(ctx, key)
}
