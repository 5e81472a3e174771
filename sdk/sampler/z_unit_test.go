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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/core"
)

// -----------------------------------------------------------------------------
// Helper Functions
// -----------------------------------------------------------------------------

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution[W Weight](t *testing.T, name string, weights []W, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0.0
	for _, w := range weights {
		totalW += float64(w)
	}
	if totalW == 0 {
		return
	}

	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}

	totalSamples := len(samples)
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expectedProb := float64(w) / totalW
		actualProb := float64(counts[i]) / float64(totalSamples)
		diff := math.Abs(expectedProb - actualProb)

		if diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expectedProb, actualProb, diff, tolerance)
		}
	}
}

func draw[T any](w *Weighted[T], n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = w.PickIndex()
	}
	return out
}

// -----------------------------------------------------------------------------
// Tests for Weighted
// -----------------------------------------------------------------------------

func TestWeightedInvalidConfig(t *testing.T) {
	c := core.New(core.Default().New(1))
	cases := []struct {
		name    string
		items   []string
		weights []float64
	}{
		{"length mismatch", []string{"a", "b"}, []float64{1}},
		{"empty", nil, nil},
		{"all zero", []string{"a", "b"}, []float64{0, 0}},
		{"negative", []string{"a", "b"}, []float64{2, -1}},
		{"nan", []string{"a"}, []float64{math.NaN()}},
		{"inf", []string{"a"}, []float64{math.Inf(1)}},
	}
	for _, tc := range cases {
		_, err := NewWeighted(tc.items, tc.weights, c)
		if err == nil {
			t.Errorf("[%s] expected error", tc.name)
			continue
		}
		if !errors.Is(err, errs.ErrInvalidConfig) {
			t.Errorf("[%s] expected InvalidConfig, got %v", tc.name, err)
		}
	}
	if _, err := NewWeighted([]int{1}, []int{1}, nil); err == nil {
		t.Errorf("expected error for nil core")
	}
}

// 累積掃描：r 依序扣除權重，第一個 r < w[i] 的項目勝出
func TestWeightedScanOrder(t *testing.T) {
	c := core.New(core.NewSequence(0.1, 0.3, 0.8, 0.2499))
	w, err := NewWeighted([]string{"a", "b", "c"}, []int{1, 2, 1}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c", "a"}
	for i, exp := range want {
		if got := w.Pick(); got != exp {
			t.Fatalf("pick %d: expected %s, got %s", i, exp, got)
		}
	}
}

func TestWeightedZeroWeightNeverPicked(t *testing.T) {
	c := core.New(core.Default().New(3))
	w, err := NewWeighted([]string{"first", "second"}, []float64{1, 0}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10000; i++ {
		if got := w.Pick(); got != "first" {
			t.Fatalf("expected first, got %s", got)
		}
	}

	// 亂數貼近上界時也只能落在正權重項目
	edge := core.New(core.NewSequence(math.Nextafter(1, 0)))
	w2, _ := NewWeighted([]int{7, 8, 9}, []float64{0, 5, 0}, edge)
	if got := w2.Pick(); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}

func TestWeightedConvergence(t *testing.T) {
	c := core.New(core.Default().New(42))
	w, err := NewWeighted([]int{0, 1}, []int{3, 1}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	samples := draw(w, 200000)
	checkDistribution(t, "3:1", []int{3, 1}, samples, 0.01)

	classic := []float64{25, 25, 20, 15, 8, 5, 2}
	w2, _ := NewWeighted([]int{0, 1, 2, 3, 4, 5, 6}, classic, c)
	checkDistribution(t, "classic", classic, draw(w2, 200000), 0.01)
	if p := w2.Prob(6); math.Abs(p-0.02) > 1e-12 {
		t.Fatalf("expected prob 0.02, got %v", p)
	}
	if w2.Total() != 100 || w2.Len() != 7 {
		t.Fatalf("unexpected total/len %v/%d", w2.Total(), w2.Len())
	}
}

func TestWeightedDeterministic(t *testing.T) {
	mk := func() []int {
		c := core.New(core.Default().New(99))
		w, _ := NewWeighted([]int{0, 1, 2}, []int{5, 3, 2}, c)
		return draw(w, 64)
	}
	a, b := mk(), mk()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d", i)
		}
	}

	c := core.New(core.Default().New(5))
	w, _ := NewWeighted([]string{"x", "y"}, []int{1, 1}, c)
	buf := make([]string, 8)
	w.Fill(buf)
	for _, s := range buf {
		if s != "x" && s != "y" {
			t.Fatalf("unexpected item %q", s)
		}
	}
}
