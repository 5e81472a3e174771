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

// Package payline 產生並管理線表。
//
// 線表由六個家族依固定順序串接，再做一次全域去重（保留第一次出現的順序）：
//
//	水平 -> 對角 -> V/鋸齒 -> 波浪 -> 階梯 -> 隨機漫步
//
// 檔位（20/40/100 線）一律是同一份線表的前綴。
package payline

import (
	"math"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/spec"
)

// Family 線型家族
type Family uint8

const (
	Horizontal Family = iota
	Diagonal
	VShape
	Wave
	Step
	Random
	familyCount
)

var familyNames = [familyCount]string{"horizontal", "diagonal", "v_shape", "wave", "step", "random"}

func (f Family) String() string {
	if f < familyCount {
		return familyNames[f]
	}
	return "unknown"
}

const (
	maxWaveLines  = 20
	maxStepLines  = 20
	maxWaveFreq   = 4
	cycleLines    = 5
	attemptFactor = 10
)

// vShapes 固定的五軸 V 形與鋸齒線，只收錄長度與列數都合法的。
var vShapes = [...][5]int{
	{0, 1, 2, 1, 0}, {1, 2, 2, 2, 1}, {0, 0, 1, 0, 0},
	{1, 1, 2, 1, 1}, {0, 1, 1, 1, 0}, {2, 1, 0, 1, 2},
	{1, 0, 0, 0, 1}, {2, 2, 1, 2, 2}, {1, 1, 0, 1, 1},
	{2, 1, 1, 1, 2}, {0, 0, 2, 0, 0}, {2, 2, 0, 2, 2},
	{0, 1, 2, 2, 0}, {2, 1, 0, 0, 2}, {1, 0, 1, 0, 1},
}

// Generator 依盤面尺寸產生各家族線型。
type Generator struct {
	reels int
	rows  int
	core  *core.Core
}

func NewGenerator(reels, rows int, c *core.Core) (*Generator, error) {
	if reels < 1 || rows < 1 {
		return nil, errs.InvalidConfigf("payline: invalid grid %dx%d", reels, rows)
	}
	if c == nil {
		return nil, errs.InvalidConfigf("payline: nil random source")
	}
	return &Generator{reels: reels, rows: rows, core: c}, nil
}

// ratio 第 i 軸在 [0,1] 上的位置，單軸時為 0
func (g *Generator) ratio(i int) float64 {
	if g.reels == 1 {
		return 0
	}
	return float64(i) / float64(g.reels-1)
}

// Horizontal 每一列一條水平線
func (g *Generator) Horizontal() []spec.Payline {
	out := make([]spec.Payline, 0, g.rows)
	for r := 0; r < g.rows; r++ {
		p := make(spec.Payline, g.reels)
		for i := range p {
			p[i] = r
		}
		out = append(out, p)
	}
	return out
}

// Diagonal 下降與上升對角線各一條
func (g *Generator) Diagonal() []spec.Payline {
	desc := make(spec.Payline, g.reels)
	asc := make(spec.Payline, g.reels)
	for i := 0; i < g.reels; i++ {
		step := int(math.Floor(g.ratio(i) * float64(g.rows-1)))
		desc[i] = min(step, g.rows-1)
		asc[i] = max(g.rows-1-step, 0)
	}
	return []spec.Payline{desc, asc}
}

// VShapes 固定 V 形庫中合法的線
func (g *Generator) VShapes() []spec.Payline {
	out := make([]spec.Payline, 0, len(vShapes))
	for _, v := range vShapes {
		p := spec.Payline(v[:]).Clone()
		if p.Valid(g.reels, g.rows) {
			out = append(out, p)
		}
	}
	return out
}

// Waves 以正弦波取樣：頻率 1..4、列位移 0..rows-1，家族內去重後取前 20 條
func (g *Generator) Waves() []spec.Payline {
	set := newLineSet()
	out := make([]spec.Payline, 0, maxWaveLines)
	for f := 1; f <= maxWaveFreq; f++ {
		for o := 0; o < g.rows; o++ {
			p := make(spec.Payline, g.reels)
			for i := range p {
				angle := 0.0
				if g.reels > 1 {
					angle = float64(i*f) * math.Pi / float64(g.reels-1)
				}
				row := int(math.Floor((math.Sin(angle) + 1) / 2 * float64(g.rows-1)))
				p[i] = (row + o) % g.rows
			}
			if set.add(p) {
				out = append(out, p)
			}
		}
	}
	if len(out) > maxWaveLines {
		out = out[:maxWaveLines]
	}
	return out
}

// reflect 出界反彈：低於 0 彈回 1，超過上界彈回 rows-2，單列盤面夾回 0
func (g *Generator) reflect(r int) int {
	if r < 0 {
		r = 1
	}
	if r >= g.rows {
		r = g.rows - 2
	}
	return min(max(r, 0), g.rows-1)
}

// Steps 每個起始列往上/往下逐軸走一步，出界反彈；再補 5 條循環線，家族內去重後取前 20 條
func (g *Generator) Steps() []spec.Payline {
	set := newLineSet()
	out := make([]spec.Payline, 0, maxStepLines)
	for start := 0; start < g.rows; start++ {
		for _, step := range [2]int{-1, 1} {
			p := make(spec.Payline, g.reels)
			cur := start
			for i := range p {
				p[i] = cur
				cur = g.reflect(cur + step)
			}
			if set.add(p) {
				out = append(out, p)
			}
		}
	}
	for k := 0; k < cycleLines; k++ {
		p := make(spec.Payline, g.reels)
		for j := range p {
			p[j] = (j + k) % g.rows
		}
		if set.add(p) {
			out = append(out, p)
		}
	}
	if len(out) > maxStepLines {
		out = out[:maxStepLines]
	}
	return out
}

// walk 產生一條隨機漫步線：首軸均勻取列，之後每軸 -1/0/+1 並夾在範圍內
func (g *Generator) walk() spec.Payline {
	p := make(spec.Payline, g.reels)
	p[0] = g.core.IntN(g.rows)
	for i := 1; i < g.reels; i++ {
		p[i] = min(max(p[i-1]+g.core.Step(), 0), g.rows-1)
	}
	return p
}

// Randoms 產生最多 count 條不在 seen 中的隨機漫步線，嘗試上限為 10*count。
// 新線會同時加入 seen。數量不足不是錯誤。
func (g *Generator) Randoms(count int, seen *LineSet) []spec.Payline {
	if seen == nil {
		seen = newLineSet()
	}
	out := make([]spec.Payline, 0, max(count, 0))
	for attempts := 0; len(out) < count && attempts < count*attemptFactor; attempts++ {
		p := g.walk()
		if seen.add(p) {
			out = append(out, p)
		}
	}
	return out
}

// deterministic 依序串接前五個家族
func (g *Generator) deterministic() [][]spec.Payline {
	return [][]spec.Payline{
		Horizontal: g.Horizontal(),
		Diagonal:   g.Diagonal(),
		VShape:     g.VShapes(),
		Wave:       g.Waves(),
		Step:       g.Steps(),
	}
}

// Generate 產生完整線表，隨機家族取 randomCount 條
func (g *Generator) Generate(randomCount int) *Catalog {
	return g.generate(func(int) int { return randomCount })
}

// generate 先全域去重前五個家族，再依 need(已有線數) 決定隨機線數量
func (g *Generator) generate(need func(int) int) *Catalog {
	seen := newLineSet()
	c := &Catalog{reels: g.reels, rows: g.rows}
	for fam, lines := range g.deterministic() {
		for _, p := range lines {
			if seen.add(p) {
				c.lines = append(c.lines, p)
				c.families[fam]++
			}
		}
	}
	rnd := g.Randoms(need(len(c.lines)), seen)
	c.lines = append(c.lines, rnd...)
	c.families[Random] = len(rnd)
	return c
}

// LineSet 以正規化鍵判斷線是否出現過
type LineSet struct {
	m map[string]struct{}
}

func newLineSet() *LineSet {
	return &LineSet{m: make(map[string]struct{}, 128)}
}

// NewLineSet 以既有線建立集合
func NewLineSet(lines ...spec.Payline) *LineSet {
	s := newLineSet()
	for _, p := range lines {
		s.add(p)
	}
	return s
}

// add 回傳是否為新線
func (s *LineSet) add(p spec.Payline) bool {
	k := p.Key()
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = struct{}{}
	return true
}

func (s *LineSet) has(p spec.Payline) bool {
	_, ok := s.m[p.Key()]
	return ok
}

func (s *LineSet) Len() int { return len(s.m) }
