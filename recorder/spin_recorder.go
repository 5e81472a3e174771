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

package recorder

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/calc"
	"github.com/zintix-labs/reelkit/spec"
	"github.com/zintix-labs/reelkit/stats"
)

// SpinRecorder 遊戲紀錄員：逐局累計，Done 時輸出統計報表。
//
// 熱路徑只記整數：贏分以「每線押注」為單位（評估結果的總倍數），
// 每局押注固定為 Lines 個單位；換算成金額留到 Done。
type SpinRecorder struct {
	GameName   string
	Symbols    []string
	Reels      int
	Lines      int
	BetPerLine decimal.Decimal
	InitBets   int // 玩家初始帶入的局數（0 表示不追蹤玩家）
	Basic      *BasicRecord
	Dist       *DistRecord
	Symbol     *SymbolRecord
	Player     *PlayerRecord
}

// BasicRecord 基本紀錄（單位：線押注）
type BasicRecord struct {
	TotalBet      int64
	TotalWin      int64
	TotalWinSqSum float64 // 平方和
	MaxWin        int64
	WinLines      int
	FullLines     int
	Rounds        int
}

// DistRecord 贏倍分桶落點
type DistRecord struct {
	Bucket          *stats.WinBucket
	TotalWinCollect []int
}

// SymbolRecord Hits[sym][count-1] 中獎線次數，Win[sym] 該圖標贏分
type SymbolRecord struct {
	Hits [][]int
	Win  []int64
}

// PlayerRecord 玩家餘額歷程（單位：線押注）
type PlayerRecord struct {
	leaveLine   int64
	InitBalance int64
	Balance     int64
	MaxBalance  int64
	MinBalance  int64
	Bust        bool
	Cashout     bool
}

// NewSpinRecorder 以遊戲設定與押注建立紀錄員；initBets 為玩家帶入幾局的總押注。
func NewSpinRecorder(gs *spec.GameSetting, lines int, betPerLine decimal.Decimal, initBets int) (*SpinRecorder, error) {
	if gs == nil {
		return nil, errs.NewFatal("recorder: nil game setting")
	}
	if gs.LineSetting.TierIndex(lines) < 0 {
		return nil, errs.InvalidTierf("recorder: %d lines is not one of %v", lines, gs.LineSetting.Tiers)
	}
	if !betPerLine.IsPositive() {
		return nil, errs.Warnf("recorder: bet per line must be positive, got %s", betPerLine)
	}
	if initBets < 0 {
		return nil, errs.Warnf("recorder: init bets must be >= 0, got %d", initBets)
	}
	s := &SpinRecorder{
		GameName:   gs.GameName,
		Symbols:    gs.SymbolSetting.Symbols,
		Reels:      gs.ScreenSetting.Reels,
		Lines:      lines,
		BetPerLine: betPerLine,
		InitBets:   initBets,
		Basic:      new(BasicRecord),
		Dist: &DistRecord{
			Bucket:          stats.Buckets.For(lines),
			TotalWinCollect: make([]int, stats.Buckets.Len()),
		},
		Symbol: newSymbolRecord(len(gs.SymbolSetting.Symbols), gs.ScreenSetting.Reels),
	}
	s.Player = newPlayerRecord(int64(lines), initBets)
	return s, nil
}

// MergeSpinRecorder 合併同一設定下的多份紀錄（玩家歷程不合併）
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty input")
	}
	r0 := r[0]
	s := &SpinRecorder{
		GameName:   r0.GameName,
		Symbols:    r0.Symbols,
		Reels:      r0.Reels,
		Lines:      r0.Lines,
		BetPerLine: r0.BetPerLine,
		Basic:      new(BasicRecord),
		Dist: &DistRecord{
			Bucket:          r0.Dist.Bucket,
			TotalWinCollect: make([]int, len(r0.Dist.TotalWinCollect)),
		},
		Symbol: newSymbolRecord(len(r0.Symbols), r0.Reels),
		Player: newPlayerRecord(int64(r0.Lines), 0),
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return nil, errs.NewFatal("merge spin record err : different game name")
		}
		if v.Lines != r0.Lines || !v.BetPerLine.Equal(r0.BetPerLine) {
			return nil, errs.NewFatal("merge spin record err : different bet")
		}
		s.Basic.TotalBet += v.Basic.TotalBet
		s.Basic.TotalWin += v.Basic.TotalWin
		s.Basic.TotalWinSqSum += v.Basic.TotalWinSqSum
		s.Basic.MaxWin = max(s.Basic.MaxWin, v.Basic.MaxWin)
		s.Basic.WinLines += v.Basic.WinLines
		s.Basic.FullLines += v.Basic.FullLines
		s.Basic.Rounds += v.Basic.Rounds
		for i, c := range v.Dist.TotalWinCollect {
			s.Dist.TotalWinCollect[i] += c
		}
		for sym := range v.Symbol.Hits {
			for k, c := range v.Symbol.Hits[sym] {
				s.Symbol.Hits[sym][k] += c
			}
			s.Symbol.Win[sym] += v.Symbol.Win[sym]
		}
	}
	return s, nil
}

// Record 以單局評估結果更新統計（不含玩家）
func (s *SpinRecorder) Record(res *calc.Result) {
	s.recordBasic(res)
	s.recordDist(res)
	s.recordSymbol(res)
}

// RecordWithPlayer 同 Record 並更新玩家餘額，回傳玩家是否離場。
// 餘額已不足一局時不記錄並直接回傳 true。
func (s *SpinRecorder) RecordWithPlayer(res *calc.Result) bool {
	if s.Player.Balance < int64(s.Lines) {
		s.Player.Bust = true
		return true
	}
	s.Record(res)
	return s.recordPlayer(res)
}

// Done 輸出報表（已呼叫 StatReport.Done）
func (s *SpinRecorder) Done() *stats.StatReport {
	b := s.Basic
	lines := float64(s.Lines)
	unit := s.BetPerLine
	money := func(units int64) string {
		return unit.Mul(decimal.NewFromInt(units)).StringFixed(2)
	}

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			Lines:       s.Lines,
			BetPerLine:  unit.StringFixed(2),
			SpinBet:     money(int64(s.Lines)),
			TotalBet:    money(b.TotalBet),
			TotalWin:    money(b.TotalWin),
			NoWinRounds: s.Dist.TotalWinCollect[0],
			WinLines:    b.WinLines,
			FullLines:   b.FullLines,
			Rounds:      b.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(b.TotalWin) / lines,
			TotalWinMultSqSum: b.TotalWinSqSum / (lines * lines),
			MaxWinMult:        float64(b.MaxWin) / lines,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.Labels(),
			TotalWinCollect: append([]int(nil), s.Dist.TotalWinCollect...),
			TotalWinDist:    make([]float64, len(s.Dist.TotalWinCollect)),
		},
	}
	if b.Rounds > 0 {
		for i, c := range s.Dist.TotalWinCollect {
			report.Dist.TotalWinDist[i] = float64(c) / float64(b.Rounds)
		}
	}
	for sym, name := range s.Symbols {
		sr := stats.SymbolReport{Symbol: name, Hits: append([]int(nil), s.Symbol.Hits[sym]...)}
		if b.TotalBet > 0 {
			sr.RtpShare = float64(s.Symbol.Win[sym]) / float64(b.TotalBet)
		}
		report.Symbols = append(report.Symbols, sr)
	}
	if s.InitBets > 0 {
		p := s.Player
		report.Player = &stats.PlayerReport{
			InitBalance: money(p.InitBalance),
			Balance:     money(p.Balance),
			MaxBalance:  money(p.MaxBalance),
			MinBalance:  money(p.MinBalance),
			Bust:        p.Bust,
			Cashout:     p.Cashout,
		}
	}
	report.Done()
	return report
}

// Rtp 目前累計的 RTP
func (s *SpinRecorder) Rtp() float64 {
	if s.Basic.TotalBet == 0 {
		return 0
	}
	return float64(s.Basic.TotalWin) / float64(s.Basic.TotalBet)
}

func (s *SpinRecorder) recordBasic(res *calc.Result) {
	w := int64(res.TotalMultiplier)
	b := s.Basic
	b.TotalBet += int64(s.Lines)
	b.TotalWin += w
	b.TotalWinSqSum += float64(w) * float64(w)
	b.MaxWin = max(b.MaxWin, w)
	b.WinLines += len(res.WinLines)
	for _, wl := range res.WinLines {
		if wl.Count == s.Reels {
			b.FullLines++
		}
	}
	b.Rounds++
}

func (s *SpinRecorder) recordDist(res *calc.Result) {
	s.Dist.TotalWinCollect[s.Dist.Bucket.Index(res.TotalMultiplier)]++
}

func (s *SpinRecorder) recordSymbol(res *calc.Result) {
	for _, wl := range res.WinLines {
		s.Symbol.Hits[wl.Symbol][wl.Count-1]++
		s.Symbol.Win[wl.Symbol] += int64(wl.Multiplier)
	}
}

func (s *SpinRecorder) recordPlayer(res *calc.Result) bool {
	p := s.Player
	p.Balance += int64(res.TotalMultiplier) - int64(s.Lines)
	p.MaxBalance = max(p.MaxBalance, p.Balance)
	p.MinBalance = min(p.MinBalance, p.Balance)

	leave := false
	if p.Balance < int64(s.Lines) {
		p.Bust = true
		leave = true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newSymbolRecord(symbols, reels int) *SymbolRecord {
	r := &SymbolRecord{Hits: make([][]int, symbols), Win: make([]int64, symbols)}
	for i := range r.Hits {
		r.Hits[i] = make([]int, reels)
	}
	return r
}

// 贏到本金 3 倍離場
func newPlayerRecord(spinBet int64, initBets int) *PlayerRecord {
	b := spinBet * int64(initBets)
	return &PlayerRecord{
		InitBalance: b,
		Balance:     b,
		MaxBalance:  b,
		MinBalance:  b,
		leaveLine:   3 * b,
	}
}
