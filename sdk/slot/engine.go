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

package slot

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/calc"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/sdk/payline"
	"github.com/zintix-labs/reelkit/sdk/sampler"
	"github.com/zintix-labs/reelkit/spec"
)

// Engine 不含動畫的數學核心：抽盤面、查線表、算贏分。
// Session 與模擬器共用同一份實作，兩者的盤面分布因此一致。
//
// 非並發安全；多 worker 時每個 worker 各自建立一個 Engine。
type Engine struct {
	gs      *spec.GameSetting
	core    *core.Core
	symbols *sampler.Weighted[spec.Symbol]
	catalog *payline.Catalog
	evals   map[int]*calc.LineEvaluator // 每個設定檔位一個評估器
}

// NewEngine 初始化設定並建立線表與各檔位評估器。線表的隨機家族會消耗 c 的亂數。
func NewEngine(gs *spec.GameSetting, c *core.Core) (*Engine, error) {
	if gs == nil || c == nil {
		return nil, errs.InvalidConfigf("slot: nil game setting or core")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	ss := &gs.SymbolSetting
	symbols, err := sampler.NewWeighted(ss.Alphabet(), ss.Weights, c)
	if err != nil {
		return nil, err
	}
	cat, err := payline.Build(gs, c)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		gs:      gs,
		core:    c,
		symbols: symbols,
		catalog: cat,
		evals:   make(map[int]*calc.LineEvaluator, len(gs.LineSetting.Tiers)),
	}
	for _, t := range gs.LineSetting.Tiers {
		lines, err := cat.Tier(t)
		if err != nil {
			return nil, err
		}
		le, err := calc.NewLineEvaluator(gs.ScreenSetting.Reels, gs.ScreenSetting.Rows, lines, ss.PayTable)
		if err != nil {
			return nil, err
		}
		e.evals[t] = le
	}
	return e, nil
}

// Sample 抽一個新盤面。Cells 以軸為主序，所以依序填滿就是逐軸、軸內逐列。
func (e *Engine) Sample() *spec.Grid {
	g := spec.NewGrid(e.gs.ScreenSetting.Reels, e.gs.ScreenSetting.Rows)
	e.symbols.Fill(g.Cells)
	return g
}

// SampleInto 重用 g 抽盤面，尺寸需與設定一致
func (e *Engine) SampleInto(g *spec.Grid) {
	e.symbols.Fill(g.Cells)
}

// Evaluate 以 lines 檔位評估盤面；lines 不是設定檔位時回傳 InvalidTierSize。
func (e *Engine) Evaluate(g *spec.Grid, lines int, betPerLine decimal.Decimal) (*calc.Result, error) {
	le, ok := e.evals[lines]
	if !ok {
		return nil, errs.InvalidTierf("slot: %d lines is not a configured tier %v", lines, e.gs.LineSetting.Tiers)
	}
	return le.Evaluate(g, betPerLine), nil
}

func (e *Engine) GameSetting() *spec.GameSetting { return e.gs }

func (e *Engine) Core() *core.Core { return e.core }

func (e *Engine) Symbols() *sampler.Weighted[spec.Symbol] { return e.symbols }

func (e *Engine) Catalog() *payline.Catalog { return e.catalog }
