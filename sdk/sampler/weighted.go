// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sampler 提供加權抽樣。
//
// 本檔案 (weighted.go) 實作累積權重掃描：
//   - 每次抽樣只取一個 [0,total) 的均勻亂數 r。
//   - 依序掃描：r < w[i] 則回傳第 i 項，否則 r -= w[i]。
//
// 特性：
//   - 建表時間 O(n)，抽樣 O(n)，n 為符號種類數（通常 < 16）。
//   - 權重可為任意非負實數，與 LUT 不同不需要整數權重。
//   - 相同亂數序列必得相同結果，方便回放與測試。

package sampler

import (
	"math"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/core"
)

// Weight 設定檔中圖標權重可用的數值型別，建表時一律轉成 float64
type Weight interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Weighted 加權抽樣器，建好後不可變更。
type Weighted[T any] struct {
	items   []T
	weights []float64
	total   float64
	last    int // 最後一個權重 > 0 的索引，浮點捨入時的回退值
	core    *core.Core
}

// NewWeighted 建立加權抽樣器。
//
// 以下情況回傳 InvalidConfig：
//   - items 與 weights 長度不一致或為空
//   - 任一權重為負、NaN 或 Inf
//   - 權重總和 <= 0
func NewWeighted[T any, W Weight](items []T, weights []W, c *core.Core) (*Weighted[T], error) {
	if len(items) != len(weights) {
		return nil, errs.InvalidConfigf("sampler: %d items but %d weights", len(items), len(weights))
	}
	if len(items) == 0 {
		return nil, errs.InvalidConfigf("sampler: empty alphabet")
	}
	if c == nil {
		return nil, errs.InvalidConfigf("sampler: nil random source")
	}
	ws := make([]float64, len(weights))
	total := 0.0
	last := -1
	for i, w := range weights {
		f := float64(w)
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errs.InvalidConfigf("sampler: weight[%d]=%v is invalid", i, f)
		}
		ws[i] = f
		total += f
		if f > 0 {
			last = i
		}
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, errs.InvalidConfigf("sampler: total weight %v must be positive", total)
	}
	return &Weighted[T]{
		items:   append([]T(nil), items...),
		weights: ws,
		total:   total,
		last:    last,
		core:    c,
	}, nil
}

// PickIndex 抽出一個索引
func (w *Weighted[T]) PickIndex() int {
	r := w.core.Draw(w.total)
	for i, wt := range w.weights {
		if r < wt {
			return i
		}
		r -= wt
	}
	return w.last
}

// Pick 抽出一個元素
func (w *Weighted[T]) Pick() T {
	return w.items[w.PickIndex()]
}

// Fill 依序抽樣填滿 dst
func (w *Weighted[T]) Fill(dst []T) {
	for i := range dst {
		dst[i] = w.Pick()
	}
}

func (w *Weighted[T]) Len() int { return len(w.items) }

func (w *Weighted[T]) Total() float64 { return w.total }

// Prob 回傳第 i 項的理論機率
func (w *Weighted[T]) Prob(i int) float64 {
	if i < 0 || i >= len(w.weights) {
		return 0
	}
	return w.weights[i] / w.total
}

// Item 回傳第 i 項
func (w *Weighted[T]) Item(i int) T { return w.items[i] }
