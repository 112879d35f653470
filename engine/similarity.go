package engine

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// cosine 计算两个等长向量的余弦相似度，零向量返回 0。
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pairwiseCosine 计算全量两两余弦相似度，产出含对角线的对称矩阵。
// O(n²·dim)，按行并发；ctx 取消时尽快返回，调用方丢弃半成品。
func pairwiseCosine(ctx context.Context, vecs [][]float64) ([][]float64, error) {
	n := len(vecs)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		row := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sim[row][row] = 1
			for j := row + 1; j < n; j++ {
				v := cosine(vecs[row], vecs[j])
				sim[row][j] = v
				sim[j][row] = v
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sim, nil
}

// userSimilarity 以用户的评分行向量为点，计算 U×U 用户相似度。
func userSimilarity(ctx context.Context, ratings [][]float64) ([][]float64, error) {
	return pairwiseCosine(ctx, ratings)
}

// itemSimilarity 在标准化后的特征向量上计算物品相似度。
// 少于 2 个物品时没有可比较的配对，返回空矩阵。
func itemSimilarity(ctx context.Context, vecs [][]float64) ([][]float64, error) {
	if len(vecs) < 2 {
		return nil, nil
	}
	return pairwiseCosine(ctx, vecs)
}
