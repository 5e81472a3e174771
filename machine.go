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

package reelkit

import (
	"errors"
	"io"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/corefmt"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/calc"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/sdk/slot"
	"github.com/zintix-labs/reelkit/spec"
)

// SpinRecord 單局結果，附帶開局前與結算後的核心快照（base64url）
type SpinRecord struct {
	GameName   string          `json:"game_name"`
	Lines      int             `json:"lines"`
	BetPerLine decimal.Decimal `json:"bet_per_line"`
	TotalBet   decimal.Decimal `json:"total_bet"`
	Screen     [][]string      `json:"screen"` // [row][reel]
	Result     *calc.Result    `json:"result"`
	StartSnap  string          `json:"start_snap"`
	AfterSnap  string          `json:"after_snap"`

	grid *spec.Grid
}

// Grid 本局盤面
func (r *SpinRecord) Grid() *spec.Grid { return r.grid }

// Machine 沒有轉輪動畫的單局入口。
//
// 並發語意：Spin/Replay/快照操作都在同一把鎖內，可被多個 goroutine 呼叫；
// 大量模擬請用 Simulator，每個 worker 各自持有 Engine。
type Machine struct {
	mu       sync.Mutex
	engine   *slot.Engine
	gs       *spec.GameSetting
	grid     *spec.Grid
	initseed int64 // 出生 seed，完整重現以快照為準
}

func newMachine(gs *spec.GameSetting, c *core.Core, seed int64) (*Machine, error) {
	e, err := slot.NewEngine(gs, c)
	if err != nil {
		return nil, err
	}
	return &Machine{
		engine:   e,
		gs:       gs,
		grid:     spec.NewGrid(gs.ScreenSetting.Reels, gs.ScreenSetting.Rows),
		initseed: seed,
	}, nil
}

func (m *Machine) GameName() string { return m.gs.GameName }

func (m *Machine) InitSeed() int64 { return m.initseed }

// Spin 驗證押注後抽盤面並結算
func (m *Machine) Spin(lines int, betPerLine decimal.Decimal) (*SpinRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.valid(lines, betPerLine); err != nil {
		return nil, err
	}
	return m.spin(lines, betPerLine)
}

// Replay 從指定快照重跑一局，不影響機台目前的核心狀態
func (m *Machine) Replay(snap string, lines int, betPerLine decimal.Decimal) (*SpinRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.valid(lines, betPerLine); err != nil {
		return nil, err
	}
	start, err := corefmt.DecodeSnap(snap)
	if err != nil {
		return nil, err
	}
	rem, err := m.engine.Core().Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "snapshot before replay")
	}
	if err := m.engine.Core().Restore(start); err != nil {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "restore replay snapshot")
	}
	rec, spinErr := m.spin(lines, betPerLine)
	if err := m.engine.Core().Restore(rem); err != nil {
		return nil, errs.Wrap(err, "restore core back")
	}
	return rec, spinErr
}

func (m *Machine) spin(lines int, bet decimal.Decimal) (*SpinRecord, error) {
	c := m.engine.Core()
	before, err := c.Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "before snapshot")
	}
	m.engine.SampleInto(m.grid)
	res, err := m.engine.Evaluate(m.grid, lines, bet)
	if err != nil {
		return nil, err
	}
	after, err := c.Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "after snapshot")
	}
	g := m.grid.Clone()
	return &SpinRecord{
		GameName:   m.gs.GameName,
		Lines:      lines,
		BetPerLine: bet,
		TotalBet:   bet.Mul(decimal.NewFromInt(int64(lines))).Round(2),
		Screen:     screen(g, m.gs.SymbolSetting.Symbols),
		Result:     res,
		StartSnap:  corefmt.EncodeSnap(before),
		AfterSnap:  corefmt.EncodeSnap(after),
		grid:       g,
	}, nil
}

func (m *Machine) valid(lines int, bet decimal.Decimal) error {
	if m.gs.LineSetting.TierIndex(lines) < 0 {
		return errs.InvalidTierf("%d lines is not one of %v", lines, m.gs.LineSetting.Tiers)
	}
	bs := &m.gs.BetSetting
	if !bet.Round(2).Equal(bet) || bet.LessThan(bs.MinBet) || bet.GreaterThan(bs.MaxBet) {
		return errs.Warnf("bet per line %s out of [%s,%s]", bet, bs.MinBet, bs.MaxBet)
	}
	return nil
}

func (m *Machine) SnapshotCore() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Core().Snapshot()
}

func (m *Machine) RestoreCore(src []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Core().Restore(src)
}

// Checkpoint 把目前的核心狀態寫成一個 frame
func (m *Machine) Checkpoint(w io.Writer) error {
	snap, err := m.SnapshotCore()
	if err != nil {
		return err
	}
	return corefmt.WriteFrame(w, snap)
}

// Resume 讀出 r 中最後一個 frame 並還原
func (m *Machine) Resume(r io.Reader) error {
	fr := corefmt.NewFrameReader(r)
	var last []byte
	for {
		b, err := fr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		last = b
	}
	if last == nil {
		return errs.NewWarn("resume: no checkpoint found")
	}
	return m.RestoreCore(last)
}

func screen(g *spec.Grid, names []string) [][]string {
	out := make([][]string, g.Rows)
	for row := range out {
		out[row] = make([]string, g.Reels)
		for reel := range out[row] {
			out[row][reel] = names[g.At(reel, row)]
		}
	}
	return out
}
