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
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/spec"
)

// Catalog 去重後的有序線表，建立後不可變更；對外只回傳複本。
type Catalog struct {
	reels    int
	rows     int
	lines    []spec.Payline
	families [familyCount]int
}

// Build 依遊戲設定產生線表。
//
// 隨機家族數量取 max(random_count, 最大檔位 - 固定家族線數)，讓每個設定檔位都有機會填滿；
// 若漫步嘗試上限內仍湊不齊，回傳 InvalidTierSize。
func Build(gs *spec.GameSetting, c *core.Core) (*Catalog, error) {
	ss := gs.ScreenSetting
	g, err := NewGenerator(ss.Reels, ss.Rows, c)
	if err != nil {
		return nil, err
	}
	ls := gs.LineSetting
	cat := g.generate(func(have int) int {
		return max(ls.RandomCount, ls.MaxTier()-have)
	})
	for _, t := range ls.Tiers {
		if t > cat.Len() {
			return nil, errs.InvalidTierf("payline: tier %d exceeds %d distinct lines on %dx%d", t, cat.Len(), ss.Reels, ss.Rows)
		}
	}
	return cat, nil
}

func (c *Catalog) Len() int { return len(c.lines) }

func (c *Catalog) Reels() int { return c.reels }

func (c *Catalog) Rows() int { return c.rows }

// Line 回傳第 i 條線的複本
func (c *Catalog) Line(i int) spec.Payline {
	return c.lines[i].Clone()
}

// Tier 回傳前 n 條線的複本。n 不在 [1, Len()] 時回傳 InvalidTierSize。
func (c *Catalog) Tier(n int) ([]spec.Payline, error) {
	if n < 1 || n > len(c.lines) {
		return nil, errs.InvalidTierf("payline: tier %d out of [1,%d]", n, len(c.lines))
	}
	out := make([]spec.Payline, n)
	for i := range out {
		out[i] = c.lines[i].Clone()
	}
	return out, nil
}

// All 整份線表
func (c *Catalog) All() []spec.Payline {
	out, _ := c.Tier(len(c.lines))
	return out
}

// Families 各家族在去重後貢獻的線數
func (c *Catalog) Families() map[Family]int {
	out := make(map[Family]int, familyCount)
	for f := Family(0); f < familyCount; f++ {
		out[f] = c.families[f]
	}
	return out
}

// lineColors 線的顯示顏色，依線索引循環
var lineColors = [...]uint32{
	0xff00ff, 0xff1493, 0x00ffff, 0xffff00, 0x00ff00,
	0xff6600, 0xff0000, 0x0000ff, 0xff00aa, 0x00aaff,
}

// Color 第 i 條線的 RGB 顯示顏色
func Color(i int) uint32 {
	if i < 0 {
		i = -i
	}
	return lineColors[i%len(lineColors)]
}
