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

// Package slot 串起一台拉霸機的整個回合：扣注、抽盤面、驅動轉輪、全部停輪後結算。
//
// Session 是單執行緒、tick 驅動的：呼叫端（畫面迴圈或模擬器）以固定或變動的 dt 呼叫 Advance，
// 時間只來自 dt 的累加。
package slot

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/logger"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/sdk/reel"
	"github.com/zintix-labs/reelkit/sdk/sampler"
	"github.com/zintix-labs/reelkit/spec"
)

// Option 設定 Session
type Option func(*Session)

// WithLogger 注入 logger，nil 時忽略
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPresenter 注入畫面接收端，nil 時忽略
func WithPresenter(p Presenter) Option {
	return func(s *Session) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithStripCore 指定轉動中填帶子用的亂數核心。
// 預設由主核心派生一個獨立核心，填帶子不影響盤面序列。
func WithStripCore(c *core.Core) Option {
	return func(s *Session) {
		if c != nil {
			s.stripCore = c
		}
	}
}

// Session 單一玩家的拉霸機
type Session struct {
	engine    *Engine
	gs        *spec.GameSetting
	reels     []*reel.Reel
	log       *slog.Logger
	presenter Presenter
	stripCore *core.Core

	lines   int
	bet     decimal.Decimal
	balance decimal.Decimal
	lastWin decimal.Decimal

	round    *Round
	grid     *spec.Grid // 最近一次定格的盤面
	spinning bool
}

// NewSession 以設定與亂數核心建立 Session。線表在此產生，之後不再變動。
func NewSession(gs *spec.GameSetting, c *core.Core, opts ...Option) (*Session, error) {
	e, err := NewEngine(gs, c)
	if err != nil {
		return nil, err
	}
	s := &Session{
		engine:    e,
		gs:        gs,
		log:       logger.Discard(),
		presenter: NopPresenter{},
		lines:     gs.LineSetting.DefaultLines,
		bet:       gs.BetSetting.BetPerLine,
		balance:   gs.BetSetting.StartingBalance,
		lastWin:   decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stripCore == nil {
		s.stripCore = core.New(core.Default().New(int64(c.Uint64() >> 1)))
	}
	ss := &gs.SymbolSetting
	filler, err := sampler.NewWeighted(ss.Alphabet(), ss.Weights, s.stripCore)
	if err != nil {
		return nil, err
	}
	s.reels = make([]*reel.Reel, gs.ScreenSetting.Reels)
	for i := range s.reels {
		r, err := reel.New(i, gs.ScreenSetting.Rows, &gs.ReelSetting, filler)
		if err != nil {
			return nil, err
		}
		s.reels[i] = r
	}
	return s, nil
}

// ============================================================
// ** 回合 **
// ============================================================

// StartSpin 扣除總押注、抽出本局盤面並讓每一軸開始轉動。
// 轉動中回傳 SpinInProgress，餘額不足回傳 InsufficientBalance，兩者皆不改變狀態。
func (s *Session) StartSpin() (*Round, error) {
	if s.spinning {
		return nil, errs.Codef(errs.Warn, errs.CodeSpinInProgress, "slot: spin in progress")
	}
	total := s.TotalBet()
	if s.balance.LessThan(total) {
		return nil, errs.Codef(errs.Warn, errs.CodeInsufficientBalance, "slot: balance %s < total bet %s", s.balance, total)
	}

	target := s.engine.Sample()
	for i, r := range s.reels {
		if err := r.StartSpin(target.Column(i)); err != nil {
			return nil, err
		}
	}
	rd := &Round{
		ID:            uuid.New(),
		Target:        target,
		Lines:         s.lines,
		BetPerLine:    s.bet,
		TotalBet:      total,
		BalanceBefore: s.balance,
	}
	s.balance = s.balance.Sub(total)
	s.lastWin = decimal.Zero
	s.round = rd
	s.spinning = true

	s.log.Debug("spin start",
		slog.String("round", rd.ID.String()),
		slog.Int("lines", rd.Lines),
		slog.String("bet", rd.BetPerLine.String()),
		slog.String("total_bet", total.String()),
	)
	return rd, nil
}

// RequestStop 要求所有轉輪進入減速；已在減速或停止的軸不受影響。
func (s *Session) RequestStop() {
	for _, r := range s.reels {
		r.RequestStop()
	}
}

// Toggle 單一開始/停止按鈕：閒置時開局，轉動中要求停輪（此時回傳 nil, nil）。
func (s *Session) Toggle() (*Round, error) {
	if s.spinning {
		s.RequestStop()
		return nil, nil
	}
	return s.StartSpin()
}

// Advance 依軸序推進一個 tick 並送出畫面。全部停輪的那個 tick 結算並回傳 Outcome，其餘回傳 nil。
func (s *Session) Advance(dt time.Duration) *Outcome {
	bouncing := false
	for _, r := range s.reels {
		r.Advance(dt)
		if r.Bouncing() {
			bouncing = true
		}
	}
	if s.spinning || bouncing {
		s.emitFrame()
	}
	if !s.spinning {
		return nil
	}
	for _, r := range s.reels {
		if r.Phase() != reel.Stopped {
			return nil
		}
	}
	return s.settle()
}

// Skip 立即定格所有轉輪並結算（快速停止）
func (s *Session) Skip() *Outcome {
	if !s.spinning {
		return nil
	}
	for _, r := range s.reels {
		r.Finalize()
	}
	s.emitFrame()
	return s.settle()
}

func (s *Session) emitFrame() {
	if _, nop := s.presenter.(NopPresenter); nop {
		return
	}
	f := Frame{Reels: make([]reel.State, len(s.reels))}
	if s.round != nil {
		f.Round = s.round.ID
	}
	for i, r := range s.reels {
		f.Reels[i] = r.Snapshot()
	}
	s.presenter.OnFrame(f)
}

// settle 所有軸停止後：以可見盤面評估、入帳、通知
func (s *Session) settle() *Outcome {
	rd := s.round
	g := spec.NewGrid(s.gs.ScreenSetting.Reels, s.gs.ScreenSetting.Rows)
	for i, r := range s.reels {
		copy(g.Column(i), r.Result())
	}
	res, err := s.engine.Evaluate(g, rd.Lines, rd.BetPerLine)
	if err != nil {
		// 開局前已檢查過檔位，走到這裡代表設定在轉動中被改動
		s.log.Error("settle failed", slog.String("round", rd.ID.String()), slog.Any("err", err))
		return nil
	}
	if !g.Equal(rd.Target) {
		s.log.Warn("visible grid differs from target", slog.String("round", rd.ID.String()))
	}

	s.balance = s.balance.Add(res.TotalWin)
	s.lastWin = res.TotalWin
	s.grid = g
	s.spinning = false

	out := &Outcome{
		RoundID:    rd.ID,
		Grid:       g.Clone(),
		Lines:      rd.Lines,
		BetPerLine: rd.BetPerLine,
		TotalBet:   rd.TotalBet,
		Result:     res,
		Balance:    s.balance,
		Cells:      res.Cells(),
	}
	s.presenter.OnOutcome(out)
	s.log.Info("spin finished",
		slog.String("round", rd.ID.String()),
		slog.Int("lines", rd.Lines),
		slog.String("total_bet", rd.TotalBet.String()),
		slog.String("win", res.TotalWin.String()),
		slog.Int("win_lines", len(res.WinLines)),
		slog.String("balance", s.balance.String()),
	)
	return out
}

// ============================================================
// ** 線數與押注 **
// ============================================================

func (s *Session) Lines() int { return s.lines }

// SetLines 切換到指定檔位
func (s *Session) SetLines(n int) error {
	if s.spinning {
		return errs.Codef(errs.Warn, errs.CodeSpinInProgress, "slot: cannot change lines while spinning")
	}
	if s.gs.LineSetting.TierIndex(n) < 0 || n > s.engine.catalog.Len() {
		return errs.InvalidTierf("slot: %d lines is not one of %v", n, s.gs.LineSetting.Tiers)
	}
	s.lines = n
	return nil
}

// ChangeLines 依 dir 正負循環切換檔位（頭尾相接）；轉動中或 dir 為 0 時忽略。
func (s *Session) ChangeLines(dir int) {
	if s.spinning || dir == 0 {
		return
	}
	tiers := s.gs.LineSetting.Tiers
	i := s.gs.LineSetting.TierIndex(s.lines)
	if dir > 0 {
		i = (i + 1) % len(tiers)
	} else {
		i = (i - 1 + len(tiers)) % len(tiers)
	}
	s.lines = tiers[i]
}

func (s *Session) BetPerLine() decimal.Decimal { return s.bet }

// ChangeBetPerLine 調整每線押注，結果取到分；超出 [min,max] 或轉動中則不變並回傳 false。
func (s *Session) ChangeBetPerLine(delta decimal.Decimal) bool {
	if s.spinning {
		return false
	}
	bs := &s.gs.BetSetting
	nb := s.bet.Add(delta).Round(2)
	if nb.LessThan(bs.MinBet) || nb.GreaterThan(bs.MaxBet) {
		return false
	}
	s.bet = nb
	return true
}

// StepBet 以設定的 bet_step 調整押注，dir 取正負號
func (s *Session) StepBet(dir int) bool {
	switch {
	case dir > 0:
		return s.ChangeBetPerLine(s.gs.BetSetting.BetStep)
	case dir < 0:
		return s.ChangeBetPerLine(s.gs.BetSetting.BetStep.Neg())
	}
	return false
}

// TotalBet 線數 x 每線押注，取到分
func (s *Session) TotalBet() decimal.Decimal {
	return s.bet.Mul(decimal.NewFromInt(int64(s.lines))).Round(2)
}

// Deposit 儲值，金額需為正且取到分
func (s *Session) Deposit(amount decimal.Decimal) error {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return errs.Warnf("deposit must be positive, got %s", amount)
	}
	s.balance = s.balance.Add(amount)
	return nil
}

// ============================================================
// ** 唯讀狀態 **
// ============================================================

func (s *Session) Balance() decimal.Decimal { return s.balance }

func (s *Session) LastWin() decimal.Decimal { return s.lastWin }

func (s *Session) Spinning() bool { return s.spinning }

// Round 目前或最近一局，尚未開局時為 nil
func (s *Session) Round() *Round { return s.round }

// Grid 最近一次定格的盤面複本，尚未完成任何一局時為 nil
func (s *Session) Grid() *spec.Grid {
	if s.grid == nil {
		return nil
	}
	return s.grid.Clone()
}

// Paylines 目前檔位的線（畫線用）
func (s *Session) Paylines() []spec.Payline {
	lines, _ := s.engine.catalog.Tier(s.lines)
	return lines
}

// Reels 轉輪快照
func (s *Session) Reels() []reel.State {
	out := make([]reel.State, len(s.reels))
	for i, r := range s.reels {
		out[i] = r.Snapshot()
	}
	return out
}

func (s *Session) Engine() *Engine { return s.engine }
