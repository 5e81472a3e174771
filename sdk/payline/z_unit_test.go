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

package payline

import (
	"errors"
	"slices"
	"testing"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/spec"
	"pgregory.net/rapid"
)

func newGen(t testing.TB, reels, rows int, seed int64) *Generator {
	g, err := NewGenerator(reels, rows, core.New(core.Default().New(seed)))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

// 5x4 的固定家族去重後共 43 條，順序固定
var want5x4 = [][]int{
	{0, 0, 0, 0, 0}, {1, 1, 1, 1, 1}, {2, 2, 2, 2, 2}, {3, 3, 3, 3, 3},
	{0, 0, 1, 2, 3}, {3, 3, 2, 1, 0},
	{0, 1, 2, 1, 0}, {1, 2, 2, 2, 1}, {0, 0, 1, 0, 0}, {1, 1, 2, 1, 1}, {0, 1, 1, 1, 0},
	{2, 1, 0, 1, 2}, {1, 0, 0, 0, 1}, {2, 2, 1, 2, 2}, {1, 1, 0, 1, 1}, {2, 1, 1, 1, 2},
	{0, 0, 2, 0, 0}, {2, 2, 0, 2, 2}, {0, 1, 2, 2, 0}, {2, 1, 0, 0, 2}, {1, 0, 1, 0, 1},
	{1, 2, 3, 2, 1}, {2, 3, 0, 3, 2}, {3, 0, 1, 0, 3}, {1, 3, 1, 0, 1}, {2, 0, 2, 1, 2},
	{3, 1, 3, 2, 3}, {0, 2, 0, 3, 0}, {1, 2, 0, 2, 1}, {2, 3, 1, 3, 2}, {3, 0, 2, 0, 3},
	{0, 1, 3, 1, 0},
	{0, 1, 0, 1, 0}, {0, 1, 2, 3, 2}, {1, 2, 3, 2, 3}, {2, 1, 0, 1, 0}, {2, 3, 2, 3, 2},
	{3, 2, 1, 0, 1}, {3, 2, 3, 2, 3}, {0, 1, 2, 3, 0}, {1, 2, 3, 0, 1}, {2, 3, 0, 1, 2},
	{3, 0, 1, 2, 3},
}

func TestDeterministicCatalog5x4(t *testing.T) {
	cat := newGen(t, 5, 4, 1).Generate(0)
	if cat.Len() != len(want5x4) {
		t.Fatalf("expected %d lines, got %d", len(want5x4), cat.Len())
	}
	for i, w := range want5x4 {
		if got := cat.Line(i); !slices.Equal([]int(got), w) {
			t.Fatalf("line %d: expected %v, got %v", i, w, got)
		}
	}
	fam := cat.Families()
	if fam[Horizontal] != 4 || fam[Diagonal] != 2 || fam[VShape] != 15 || fam[Random] != 0 {
		t.Fatalf("unexpected family counts %v", fam)
	}
	if fam[Wave]+fam[Step] != 22 {
		t.Fatalf("unexpected wave+step contribution %v", fam)
	}
}

func TestFamilySizes(t *testing.T) {
	g := newGen(t, 5, 4, 1)
	if n := len(g.Waves()); n != 16 {
		t.Fatalf("expected 16 waves, got %d", n)
	}
	if n := len(g.Steps()); n != 12 {
		t.Fatalf("expected 12 steps, got %d", n)
	}
	if n := newGen(t, 5, 3, 1).Generate(0).Len(); n != 34 {
		t.Fatalf("expected 34 deterministic lines on 5x3, got %d", n)
	}
	// 非五軸盤面 V 形全部略過
	if n := len(newGen(t, 3, 3, 1).VShapes()); n != 0 {
		t.Fatalf("expected no v shapes on 3 reels, got %d", n)
	}
	// 兩列時只有 0/1 組成的 V 形合法
	if n := len(newGen(t, 5, 2, 1).VShapes()); n != 5 {
		t.Fatalf("expected 5 v shapes on 2 rows, got %d", n)
	}
}

func TestSingleReelAndSingleRow(t *testing.T) {
	cat := newGen(t, 1, 3, 1).Generate(10)
	for _, p := range cat.All() {
		if !p.Valid(1, 3) {
			t.Fatalf("invalid line %v", p)
		}
	}
	if cat.Len() != 3 {
		t.Fatalf("1 reel x 3 rows has exactly 3 lines, got %d", cat.Len())
	}
	one := newGen(t, 4, 1, 1).Generate(10)
	if one.Len() != 1 || !slices.Equal([]int(one.Line(0)), []int{0, 0, 0, 0}) {
		t.Fatalf("single row must collapse to one line, got %v", one.All())
	}
}

func TestCatalogProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reels := rapid.IntRange(1, 7).Draw(t, "reels")
		rows := rapid.IntRange(1, 6).Draw(t, "rows")
		count := rapid.IntRange(0, 60).Draw(t, "count")
		seed := rapid.Int64Range(1, 1<<40).Draw(t, "seed")

		g, err := NewGenerator(reels, rows, core.New(core.Default().New(seed)))
		if err != nil {
			t.Fatalf("new generator: %v", err)
		}
		cat := g.Generate(count)
		seen := map[string]bool{}
		for i, p := range cat.All() {
			if !p.Valid(reels, rows) {
				t.Fatalf("line %d invalid: %v", i, p)
			}
			if seen[p.Key()] {
				t.Fatalf("line %d duplicated: %v", i, p)
			}
			seen[p.Key()] = true
		}
		if cat.Families()[Random] > count {
			t.Fatalf("random family exceeds request")
		}
		// 固定家族不受亂數影響
		det := g.Generate(0)
		for i := 0; i < det.Len(); i++ {
			if !slices.Equal(det.Line(i), cat.Line(i)) {
				t.Fatalf("deterministic prefix changed at %d", i)
			}
		}
		// 檔位是前綴
		small := rapid.IntRange(1, cat.Len()).Draw(t, "small")
		large := rapid.IntRange(small, cat.Len()).Draw(t, "large")
		a, _ := cat.Tier(small)
		b, _ := cat.Tier(large)
		for i := range a {
			if !slices.Equal(a[i], b[i]) {
				t.Fatalf("tier %d is not a prefix of tier %d", small, large)
			}
		}
	})
}

func TestRandomsBudgetAndWalk(t *testing.T) {
	g := newGen(t, 5, 4, 7)
	seen := NewLineSet(g.Horizontal()...)
	rnd := g.Randoms(30, seen)
	if len(rnd) != 30 {
		t.Fatalf("expected 30 random lines, got %d", len(rnd))
	}
	for _, p := range rnd {
		for i := 1; i < len(p); i++ {
			if d := p[i] - p[i-1]; d < -1 || d > 1 {
				t.Fatalf("walk jumps more than one row: %v", p)
			}
		}
		if !seen.has(p) {
			t.Fatalf("new line should be recorded")
		}
	}
	if seen.Len() != 34 {
		t.Fatalf("expected 34 seen lines, got %d", seen.Len())
	}

	// 2x1 只有一條線：預算用完就停，不報錯
	tiny := newGen(t, 2, 1, 7)
	if got := tiny.Randoms(5, NewLineSet(spec.Payline{0, 0})); len(got) != 0 {
		t.Fatalf("expected no new lines, got %v", got)
	}
}

func TestGenerateDeterministicBySeed(t *testing.T) {
	a := newGen(t, 5, 4, 99).Generate(40)
	b := newGen(t, 5, 4, 99).Generate(40)
	if a.Len() != b.Len() {
		t.Fatalf("length differs")
	}
	for i := 0; i < a.Len(); i++ {
		if !slices.Equal(a.Line(i), b.Line(i)) {
			t.Fatalf("line %d differs", i)
		}
	}
}

func TestTierErrors(t *testing.T) {
	cat := newGen(t, 5, 4, 1).Generate(40)
	for _, n := range []int{0, -1, cat.Len() + 1} {
		_, err := cat.Tier(n)
		if !errors.Is(err, errs.ErrInvalidTierSize) {
			t.Fatalf("tier %d: expected InvalidTierSize, got %v", n, err)
		}
	}
	lines, err := cat.Tier(20)
	if err != nil || len(lines) != 20 {
		t.Fatalf("tier 20: %v", err)
	}
	lines[0][0] = 3
	if cat.Line(0)[0] != 0 {
		t.Fatalf("catalog must not be mutated through tier copies")
	}
	if _, err := NewGenerator(0, 4, core.New(core.Default().New(1))); err == nil {
		t.Fatalf("expected invalid grid error")
	}
}

func TestBuildFillsLargestTier(t *testing.T) {
	gs := &spec.GameSetting{
		GameName:      "t",
		ScreenSetting: spec.ScreenSetting{Reels: 5, Rows: 4},
		SymbolSetting: spec.SymbolSetting{Symbols: []string{"a"}, Weights: []float64{1}},
		LineSetting:   spec.LineSetting{Tiers: []int{20, 40, 100}, RandomCount: 40},
	}
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for seed := int64(1); seed <= 20; seed++ {
		cat, err := Build(gs, core.New(core.Default().New(seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if cat.Len() < 100 {
			t.Fatalf("seed %d: only %d lines", seed, cat.Len())
		}
	}

	gs.LineSetting = spec.LineSetting{Tiers: []int{20, 500}}
	if err := gs.LineSetting.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	_, err := Build(gs, core.New(core.Default().New(1)))
	if !errors.Is(err, errs.ErrInvalidTierSize) {
		t.Fatalf("expected InvalidTierSize for 500 lines on 5x4, got %v", err)
	}
	if Color(0) != 0xff00ff || Color(10) != Color(0) {
		t.Fatalf("colors should cycle")
	}
}
