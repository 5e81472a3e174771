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

// Package reel 實作單一轉輪的時序狀態機：Idle -> Spinning -> Slowing -> Stopped。
//
// 轉輪是一條 rows+buffer 格的循環帶，格子往 +offset 方向移動，超過帶長就繞回頂端。
// 可見視窗為 [0, rows*pitch)。目標圖標在減速前就預載進帶子，
// 仍在視窗內的格子延後到離開視窗時才改寫，所以停輪時畫面不會跳字。
//
// 時間只來自 Advance 傳入的 dt 累加，不讀牆鐘。
package reel

import (
	"math"
	"time"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/spec"
)

// Phase 轉輪狀態
type Phase uint8

const (
	Idle Phase = iota
	Spinning
	Slowing
	Stopped
)

var phaseNames = [...]string{"idle", "spinning", "slowing", "stopped"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Source 轉動中填入帶子的隨機圖標來源
type Source interface {
	Pick() spec.Symbol
}

// Slot 帶子上的一格
type Slot struct {
	Offset float64     `json:"offset"`
	Value  spec.Symbol `json:"value"`
	Locked bool        `json:"locked"` // 已寫入目標序列，停輪前不再改變
}

// Thresholds 依軸索引推導出的時序常數
type Thresholds struct {
	Speed         float64       `json:"speed"`
	LoadAt        time.Duration `json:"load_at"`
	SlowdownStart time.Duration `json:"slowdown_start"`
}

// Reel 單一轉輪
type Reel struct {
	index int
	rows  int

	pitch       float64
	totalHeight float64
	window      float64
	stopSpeed   float64
	slowDur     time.Duration
	th          Thresholds

	phase       Phase
	speed       float64
	elapsed     time.Duration
	slowElapsed time.Duration
	loaded      bool
	target      []spec.Symbol
	slots       []Slot
	pending     []bool

	src    Source
	bounce Bounce
}

// New 建立第 index 軸，帶子以 src 隨機填滿，初始為 Idle。
func New(index, rows int, rs *spec.ReelSetting, src Source) (*Reel, error) {
	if rs == nil || src == nil {
		return nil, errs.InvalidConfigf("reel %d: nil setting or source", index)
	}
	if index < 0 || rows < 1 {
		return nil, errs.InvalidConfigf("reel %d: invalid rows %d", index, rows)
	}
	if err := rs.Init(index + 1); err != nil {
		return nil, err
	}
	if rs.LoadAt(index) <= 0 {
		return nil, errs.InvalidConfigf("reel %d: load threshold is not positive", index)
	}
	n := rows + rs.StripBuffer
	r := &Reel{
		index:       index,
		rows:        rows,
		pitch:       rs.CellPitch,
		totalHeight: float64(n) * rs.CellPitch,
		window:      float64(rows) * rs.CellPitch,
		stopSpeed:   rs.StopSpeed,
		slowDur:     rs.SlowdownDuration,
		th: Thresholds{
			Speed:         rs.Speed(index),
			LoadAt:        rs.LoadAt(index),
			SlowdownStart: rs.SlowdownStart(index),
		},
		slots:   make([]Slot, n),
		pending: make([]bool, n),
		src:     src,
		bounce:  NewBounce(rs.BounceAmplitude, rs.BounceSpeed, rs.BounceDamping, rs.BounceCount),
	}
	for i := range r.slots {
		r.slots[i] = Slot{Offset: float64(i) * r.pitch, Value: src.Pick()}
	}
	return r, nil
}

// StartSpin 開始轉動並記下這一局的目標列。轉動中呼叫會被忽略。
func (r *Reel) StartSpin(target []spec.Symbol) error {
	if len(target) != r.rows {
		return errs.InvalidConfigf("reel %d: target has %d symbols, want %d", r.index, len(target), r.rows)
	}
	if r.Busy() {
		return nil
	}
	r.target = append(r.target[:0], target...)
	r.loaded = false
	r.elapsed = 0
	r.slowElapsed = 0
	r.speed = r.th.Speed
	for i := range r.slots {
		r.slots[i].Locked = false
		r.pending[i] = false
	}
	r.bounce.Reset()
	r.phase = Spinning
	return nil
}

// RequestStop 立即進入減速；只在 Spinning 時有效。
func (r *Reel) RequestStop() {
	if r.phase != Spinning {
		return
	}
	r.enterSlowing()
}

func (r *Reel) enterSlowing() {
	if !r.loaded {
		r.preload()
	}
	r.phase = Slowing
	r.slowElapsed = 0
}

// Advance 推進一個 tick。
func (r *Reel) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	switch r.phase {
	case Idle:
		return
	case Stopped:
		r.bounce.Advance(dt)
		return
	}

	r.elapsed += dt
	if r.phase == Slowing {
		r.slowElapsed += dt
	}

	// 位移與繞回
	d := r.speed * dt.Seconds()
	for i := range r.slots {
		s := &r.slots[i]
		s.Offset += d
		for s.Offset >= r.totalHeight {
			s.Offset -= r.totalHeight
			r.onWrap(i)
		}
	}
	r.resolvePending()

	if !r.loaded && r.elapsed >= r.th.LoadAt {
		r.preload()
	}
	if r.phase == Spinning && r.elapsed > r.th.SlowdownStart {
		r.enterSlowing()
	}
	if r.phase == Slowing {
		t := min(float64(r.slowElapsed)/float64(r.slowDur), 1)
		r.speed = r.th.Speed * (1 - easeOutQuart(t))
		if r.speed < r.stopSpeed {
			r.Finalize()
		}
	}
}

// onWrap 格子從底部繞回頂端，正要捲入視窗
func (r *Reel) onWrap(i int) {
	switch {
	case r.pending[i]:
		r.write(i)
	case !r.loaded && r.elapsed < r.th.LoadAt:
		r.slots[i].Value = r.src.Pick()
	}
}

// preload 把目標序列寫進帶子：格 i 寫 target[i mod rows]。
// 視窗內且顯示值不同的格子延後到離開視窗再寫。
func (r *Reel) preload() {
	r.loaded = true
	for i := range r.slots {
		s := &r.slots[i]
		want := r.target[i%r.rows]
		if r.visible(s.Offset) && s.Value != want {
			r.pending[i] = true
			continue
		}
		r.write(i)
	}
}

func (r *Reel) resolvePending() {
	for i, p := range r.pending {
		if p && !r.visible(r.slots[i].Offset) {
			r.write(i)
		}
	}
}

func (r *Reel) write(i int) {
	r.slots[i].Value = r.target[i%r.rows]
	r.slots[i].Locked = true
	r.pending[i] = false
}

func (r *Reel) visible(offset float64) bool {
	return offset >= 0 && offset < r.window
}

// Finalize 定格：每格對齊到 i*pitch，可見列寫入目標值，速度歸零並開始回彈。可重複呼叫。
func (r *Reel) Finalize() {
	if r.phase == Stopped || r.target == nil {
		return
	}
	r.loaded = true
	for i := range r.slots {
		r.slots[i].Offset = float64(i) * r.pitch
		if i < r.rows || r.pending[i] {
			r.write(i)
		}
	}
	r.speed = 0
	r.phase = Stopped
	r.bounce.Start()
}

func easeOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

func (r *Reel) Index() int { return r.index }

func (r *Reel) Phase() Phase { return r.phase }

// Busy 轉動或減速中
func (r *Reel) Busy() bool { return r.phase == Spinning || r.phase == Slowing }

func (r *Reel) Speed() float64 { return r.speed }

func (r *Reel) Elapsed() time.Duration { return r.elapsed }

func (r *Reel) Loaded() bool { return r.loaded }

func (r *Reel) Thresholds() Thresholds { return r.th }

func (r *Reel) BounceOffset() float64 { return r.bounce.Offset() }

// Bouncing 停輪後回彈中
func (r *Reel) Bouncing() bool { return r.bounce.Active() }

// Slots 帶子複本
func (r *Reel) Slots() []Slot {
	return append([]Slot(nil), r.slots...)
}

// Visible 目前在視窗內的圖標，依 offset 由上到下
func (r *Reel) Visible() []spec.Symbol {
	type cell struct {
		off float64
		v   spec.Symbol
	}
	cells := make([]cell, 0, r.rows+1)
	for _, s := range r.slots {
		if r.visible(s.Offset) {
			cells = append(cells, cell{s.Offset, s.Value})
		}
	}
	// 最多 rows+1 格，插入排序即可
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j].off < cells[j-1].off; j-- {
			cells[j], cells[j-1] = cells[j-1], cells[j]
		}
	}
	out := make([]spec.Symbol, len(cells))
	for i, c := range cells {
		out[i] = c.v
	}
	return out
}

// Result 停輪後的可見列；未停輪回傳 nil
func (r *Reel) Result() []spec.Symbol {
	if r.phase != Stopped {
		return nil
	}
	out := make([]spec.Symbol, r.rows)
	for i := range out {
		out[i] = r.slots[i].Value
	}
	return out
}

// State 一個 tick 的唯讀快照
type State struct {
	Index        int     `json:"index"`
	Phase        Phase   `json:"phase"`
	Speed        float64 `json:"speed"`
	Loaded       bool    `json:"loaded"`
	BounceOffset float64 `json:"bounce_offset"`
	Slots        []Slot  `json:"slots"`
}

func (r *Reel) Snapshot() State {
	return State{
		Index:        r.index,
		Phase:        r.phase,
		Speed:        r.speed,
		Loaded:       r.loaded,
		BounceOffset: r.bounce.Offset(),
		Slots:        r.Slots(),
	}
}
