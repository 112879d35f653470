package engine

import (
	"context"
	"math"
	"testing"

	"github.com/rukunhub/recokit/core"
	"github.com/rukunhub/recokit/feature"
)

const eps = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// 两维特征经标准化后，i1 与 i2 完全同向（相似度 1），
// i3 与两者完全反向（相似度 -1），便于手工验证内容打分。
func testFeatures() feature.Table {
	return feature.Table{
		"i1": {"a": 1, "b": 0},
		"i2": {"a": 1, "b": 0},
		"i3": {"a": 0, "b": 1},
	}
}

func testInteractions() []core.Interaction {
	return []core.Interaction{
		{UserID: "u1", ItemID: "i1", Rating: 5},
		{UserID: "u1", ItemID: "i2", Rating: 0},
		{UserID: "u2", ItemID: "i1", Rating: 4},
		{UserID: "u2", ItemID: "i2", Rating: 5},
		{UserID: "u2", ItemID: "i3", Rating: 3},
	}
}

func TestEngine_NotTrained(t *testing.T) {
	eng := New(MethodCollaborative)

	if eng.Trained() {
		t.Fatal("Trained() = true before Fit")
	}
	if _, err := eng.Recommend("u1", 5, true); !core.IsNotTrained(err) {
		t.Fatalf("Recommend before Fit: got err %v, want NotTrained", err)
	}
	if got := eng.PopularItems(5); len(got) != 0 {
		t.Fatalf("PopularItems before Fit: got %v, want empty", got)
	}
	if got := eng.SimilarItems("i1", 5); len(got) != 0 {
		t.Fatalf("SimilarItems before Fit: got %v, want empty", got)
	}
}

func TestEngine_MethodNormalized(t *testing.T) {
	tests := []struct {
		method Method
		want   Method
	}{
		{"", MethodCollaborative},
		{Method("weird"), MethodCollaborative},
		{MethodCollaborative, MethodCollaborative},
		{MethodContentBased, MethodContentBased},
		{MethodHybrid, MethodHybrid},
	}
	for _, tt := range tests {
		if got := New(tt.method).Method(); got != tt.want {
			t.Errorf("New(%q).Method() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestEngine_UnknownMethodRecommends(t *testing.T) {
	eng := New(Method("weird"))
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// 归一后的未知 method 与默认引擎行为完全一致
	recs, err := eng.Recommend("u1", 1, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	base := New(MethodCollaborative)
	if _, err := base.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	want, err := base.Recommend("u1", 1, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(recs) != len(want) {
		t.Fatalf("got %d recommendations, want %d", len(recs), len(want))
	}
	for i := range want {
		if recs[i].ItemID != want[i].ItemID || !approxEqual(recs[i].Score, want[i].Score) {
			t.Errorf("rank %d: %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestEngine_FitEmptyCorpus(t *testing.T) {
	eng := New(MethodCollaborative)
	summary, err := eng.Fit(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Fit(empty): %v", err)
	}
	if summary.NumUsers != 0 || summary.NumItems != 0 {
		t.Fatalf("summary = %+v, want zero users and items", summary)
	}
	if !eng.Trained() {
		t.Fatal("Trained() = false after successful Fit")
	}

	recs, err := eng.Recommend("anyone", 5, true)
	if err != nil {
		t.Fatalf("Recommend after empty Fit: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("Recommend after empty Fit: got %v, want empty", recs)
	}
}

func TestEngine_CollaborativeRecommend(t *testing.T) {
	eng := New(MethodCollaborative)
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// u2 是 u1 唯一的正相似邻居，u1 的候选得分即 u2 的评分：
	// i1=4（被排除，u1 已评 5 分）、i2=5、i3=3。
	recs, err := eng.Recommend("u1", 0, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(recs), recs)
	}
	for _, rec := range recs {
		if rec.ItemID == "i1" {
			t.Fatal("i1 rated by u1 must be excluded")
		}
	}
	if recs[0].ItemID != "i2" || !approxEqual(recs[0].Score, 5) {
		t.Fatalf("top = %+v, want i2 score 5", recs[0])
	}
	if recs[1].ItemID != "i3" || !approxEqual(recs[1].Score, 3) {
		t.Fatalf("second = %+v, want i3 score 3", recs[1])
	}
	if recs[0].Confidence != ConfidenceHigh {
		t.Fatalf("confidence for score 5 = %q, want %q", recs[0].Confidence, ConfidenceHigh)
	}

	// n=1 截断
	top, err := eng.Recommend("u1", 1, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(top) != 1 || top[0].ItemID != "i2" {
		t.Fatalf("Recommend(u1, 1) = %+v, want [i2]", top)
	}
}

func TestEngine_KeepInteracted(t *testing.T) {
	eng := New(MethodCollaborative)
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	recs, err := eng.Recommend("u1", 0, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	found := false
	for _, rec := range recs {
		if rec.ItemID == "i1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("excludeInteracted=false must keep i1: %+v", recs)
	}
}

func TestEngine_ColdStartFallback(t *testing.T) {
	// 评分总和：i1=10、i2=5、i3=15
	interactions := []core.Interaction{
		{UserID: "u1", ItemID: "i1", Rating: 5},
		{UserID: "u2", ItemID: "i1", Rating: 5},
		{UserID: "u1", ItemID: "i2", Rating: 5},
		{UserID: "u1", ItemID: "i3", Rating: 5},
		{UserID: "u2", ItemID: "i3", Rating: 5},
		{UserID: "u3", ItemID: "i3", Rating: 5},
	}
	eng := New(MethodCollaborative)
	if _, err := eng.Fit(context.Background(), interactions, nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	recs, err := eng.Recommend("unknown_user", 3, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	wantOrder := []string{"i3", "i1", "i2"}
	wantScores := []float64{1.0, 10.0 / 15.0, 5.0 / 15.0}
	if len(recs) != len(wantOrder) {
		t.Fatalf("got %d recommendations, want %d", len(recs), len(wantOrder))
	}
	for i, rec := range recs {
		if rec.ItemID != wantOrder[i] {
			t.Errorf("rank %d = %s, want %s", i, rec.ItemID, wantOrder[i])
		}
		if !approxEqual(rec.Score, wantScores[i]) {
			t.Errorf("score[%d] = %v, want %v", i, rec.Score, wantScores[i])
		}
		if rec.Confidence != ConfidenceLow {
			t.Errorf("confidence[%d] = %q, want %q", i, rec.Confidence, ConfidenceLow)
		}
		if rec.Reason != ReasonPopular {
			t.Errorf("reason[%d] = %q, want %q", i, rec.Reason, ReasonPopular)
		}
	}

	// 未知用户与全局热门榜单完全一致
	popular := eng.PopularItems(3)
	if len(popular) != len(recs) {
		t.Fatalf("PopularItems = %d entries, recommend = %d", len(popular), len(recs))
	}
	for i := range popular {
		if popular[i].ItemID != recs[i].ItemID || !approxEqual(popular[i].Score, recs[i].Score) {
			t.Errorf("PopularItems[%d] = %+v, recommend[%d] = %+v", i, popular[i], i, recs[i])
		}
	}
}

func TestEngine_ContentBasedRecommend(t *testing.T) {
	eng := New(MethodContentBased)
	interactions := []core.Interaction{
		{UserID: "u1", ItemID: "i1", Rating: 5},
	}
	if _, err := eng.Fit(context.Background(), interactions, testFeatures()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// u1 喜欢 i1；候选得分 = 与 i1 的特征相似度：i2=1、i3=-1
	recs, err := eng.Recommend("u1", 0, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(recs), recs)
	}
	if recs[0].ItemID != "i2" || !approxEqual(recs[0].Score, 1) {
		t.Fatalf("top = %+v, want i2 score 1", recs[0])
	}
	if recs[1].ItemID != "i3" || !approxEqual(recs[1].Score, -1) {
		t.Fatalf("second = %+v, want i3 score -1", recs[1])
	}
	if recs[0].Details == nil {
		t.Fatal("featured items must carry Details")
	}
}

func TestEngine_ContentBasedNoSignal(t *testing.T) {
	// 没有特征表时内容打分为空，已知用户得到空列表而不是错误
	eng := New(MethodContentBased)
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	recs, err := eng.Recommend("u1", 5, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %+v, want empty without item features", recs)
	}
}

func TestEngine_HybridScoreEquality(t *testing.T) {
	ctx := context.Background()
	interactions := testInteractions()
	features := testFeatures()

	collab := New(MethodCollaborative)
	content := New(MethodContentBased)
	hybrid := New(MethodHybrid)
	for _, eng := range []*Engine{collab, content, hybrid} {
		if _, err := eng.Fit(ctx, interactions, features); err != nil {
			t.Fatalf("Fit: %v", err)
		}
	}

	collabScores := scoresByItem(t, collab, "u1")
	contentScores := scoresByItem(t, content, "u1")
	hybridScores := scoresByItem(t, hybrid, "u1")

	for id, got := range hybridScores {
		want := 0.6*collabScores[id] + 0.4*contentScores[id]
		if !approxEqual(got, want) {
			t.Errorf("hybrid[%s] = %v, want 0.6*%v + 0.4*%v = %v",
				id, got, collabScores[id], contentScores[id], want)
		}
	}

	// 手工验证：u1 的协同得分 i2=5、i3=3，内容得分 i2=1、i3=-1
	if !approxEqual(hybridScores["i2"], 3.4) {
		t.Errorf("hybrid[i2] = %v, want 3.4", hybridScores["i2"])
	}
	if !approxEqual(hybridScores["i3"], 1.4) {
		t.Errorf("hybrid[i3] = %v, want 1.4", hybridScores["i3"])
	}
}

func scoresByItem(t *testing.T, eng *Engine, userID string) map[string]float64 {
	t.Helper()
	recs, err := eng.Recommend(userID, 0, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	out := make(map[string]float64, len(recs))
	for _, rec := range recs {
		out[rec.ItemID] = rec.Score
	}
	return out
}

func TestEngine_FitIdempotent(t *testing.T) {
	ctx := context.Background()
	a := New(MethodHybrid)
	b := New(MethodHybrid)
	if _, err := a.Fit(ctx, testInteractions(), testFeatures()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := b.Fit(ctx, testInteractions(), testFeatures()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// 重复 Fit 同一引擎
	if _, err := b.Fit(ctx, testInteractions(), testFeatures()); err != nil {
		t.Fatalf("re-Fit: %v", err)
	}

	for _, user := range []string{"u1", "u2", "unknown"} {
		ra, err := a.Recommend(user, 0, true)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		rb, err := b.Recommend(user, 0, true)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(ra) != len(rb) {
			t.Fatalf("user %s: %d vs %d recommendations", user, len(ra), len(rb))
		}
		for i := range ra {
			if ra[i].ItemID != rb[i].ItemID || !approxEqual(ra[i].Score, rb[i].Score) {
				t.Errorf("user %s rank %d: %+v vs %+v", user, i, ra[i], rb[i])
			}
		}
	}
}

func TestEngine_FitCancelled(t *testing.T) {
	eng := New(MethodCollaborative)
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Fit(ctx, nil, nil); err == nil {
		t.Fatal("Fit with cancelled ctx must fail")
	}

	// 取消的 Fit 不得破坏上一次的状态
	recs, err := eng.Recommend("u1", 1, true)
	if err != nil {
		t.Fatalf("Recommend after cancelled Fit: %v", err)
	}
	if len(recs) != 1 || recs[0].ItemID != "i2" {
		t.Fatalf("previous state lost: %+v", recs)
	}
}

func TestEngine_SimilarItems(t *testing.T) {
	eng := New(MethodContentBased)
	if _, err := eng.Fit(context.Background(), []core.Interaction{
		{UserID: "u1", ItemID: "i1", Rating: 5},
	}, testFeatures()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	sims := eng.SimilarItems("i1", 2)
	if len(sims) != 2 {
		t.Fatalf("got %d similar items, want 2: %+v", len(sims), sims)
	}
	if sims[0].ItemID != "i2" || !approxEqual(sims[0].Similarity, 1) {
		t.Fatalf("top similar = %+v, want i2 sim 1", sims[0])
	}
	if sims[1].ItemID != "i3" || !approxEqual(sims[1].Similarity, -1) {
		t.Fatalf("second similar = %+v, want i3 sim -1", sims[1])
	}
	for _, sim := range sims {
		if sim.ItemID == "i1" {
			t.Fatal("SimilarItems must exclude the query item itself")
		}
	}

	if got := eng.SimilarItems("missing", 2); len(got) != 0 {
		t.Fatalf("SimilarItems(missing) = %+v, want empty", got)
	}
}

func TestEngine_Rating(t *testing.T) {
	eng := New(MethodCollaborative)
	if _, err := eng.Fit(context.Background(), testInteractions(), nil); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	tests := []struct {
		user, item string
		wantRating float64
		wantSeen   bool
	}{
		{"u1", "i1", 5, true},
		{"u1", "i2", 0, true},  // feed 中真实的 0 分
		{"u1", "i3", 0, false}, // 矩阵填充的 0，feed 中不存在
		{"u2", "i3", 3, true},
		{"nobody", "i1", 0, false},
		{"u1", "missing", 0, false},
	}
	for _, tt := range tests {
		rating, seen := eng.Rating(tt.user, tt.item)
		if !approxEqual(rating, tt.wantRating) || seen != tt.wantSeen {
			t.Errorf("Rating(%s, %s) = (%v, %v), want (%v, %v)",
				tt.user, tt.item, rating, seen, tt.wantRating, tt.wantSeen)
		}
	}
}

func TestEngine_FitFrom(t *testing.T) {
	eng := New(MethodCollaborative)
	src := staticSource{interactions: testInteractions()}
	summary, err := eng.FitFrom(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("FitFrom: %v", err)
	}
	if summary.NumUsers != 2 || summary.NumItems != 3 {
		t.Fatalf("summary = %+v, want 2 users, 3 items", summary)
	}
}

type staticSource struct {
	interactions []core.Interaction
}

func (s staticSource) Interactions(context.Context) ([]core.Interaction, error) {
	return s.interactions, nil
}

func TestInteractionsFromAttendance(t *testing.T) {
	records := []AttendanceRecord{
		{WargaID: "w1", KegiatanID: "k1", Attended: true},
		{WargaID: "w1", KegiatanID: "k2", Attended: false},
	}
	got := InteractionsFromAttendance(records)
	want := []core.Interaction{
		{UserID: "w1", ItemID: "k1", Rating: 5},
		{UserID: "w1", ItemID: "k2", Rating: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d interactions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interaction[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
