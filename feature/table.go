// Package feature 提供物品特征表的装配与预处理：
// 从 Store / Feast 等来源加载 item_id → 数值特征，
// 并按列做 z-score 标准化，供内容相似度计算使用。
package feature

import (
	"math"
	"sort"
)

// Table 是物品特征表：item_id → 特征名 → 数值。
// 只有出现在表中的物品参与内容推荐。
type Table map[string]map[string]float64

// Keys 返回去重排序后的特征名全集，决定向量的维度次序。
func (t Table) Keys() []string {
	set := make(map[string]struct{})
	for _, feats := range t {
		for k := range feats {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Vectors 将每个物品按 Keys 次序展开为定长向量，缺失特征取 0。
// items 按 ID 排序返回，保证同一张表多次展开结果一致。
func (t Table) Vectors() (items []string, vecs [][]float64) {
	items = make([]string, 0, len(t))
	for id := range t {
		items = append(items, id)
	}
	sort.Strings(items)

	keys := t.Keys()
	vecs = make([][]float64, len(items))
	for i, id := range items {
		vec := make([]float64, len(keys))
		for j, k := range keys {
			vec[j] = t[id][k]
		}
		vecs[i] = vec
	}
	return items, vecs
}

// Standardize 对列做 z-score 标准化：z = (x - μ) / σ。
// 零方差列整列置 0（只做去均值）。输入不被修改。
func Standardize(vecs [][]float64) [][]float64 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	n := float64(len(vecs))

	mean := make([]float64, dim)
	for _, vec := range vecs {
		for j, v := range vec {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, dim)
	for _, vec := range vecs {
		for j, v := range vec {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
	}

	out := make([][]float64, len(vecs))
	for i, vec := range vecs {
		scaled := make([]float64, dim)
		for j, v := range vec {
			if std[j] > 0 {
				scaled[j] = (v - mean[j]) / std[j]
			} else {
				scaled[j] = 0
			}
		}
		out[i] = scaled
	}
	return out
}
