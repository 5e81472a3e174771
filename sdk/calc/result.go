package calc

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/spec"
)

// WinLine 單條中獎線
type WinLine struct {
	Index      int             `json:"index"`  // 在檔位中的位置（0 起算）
	Line       spec.Payline    `json:"line"`
	Symbol     spec.Symbol     `json:"symbol"`
	Count      int             `json:"count"`
	Multiplier int             `json:"multiplier"`
	Amount     decimal.Decimal `json:"amount"`
}

// Cells 中獎的格子（前 Count 軸）
func (w WinLine) Cells() []spec.Cell {
	out := make([]spec.Cell, w.Count)
	for reel := 0; reel < w.Count; reel++ {
		out[reel] = spec.Cell{Reel: reel, Row: w.Line[reel]}
	}
	return out
}

// Result 一次評估的結果，WinLines 依線表順序排列
type Result struct {
	TotalWin        decimal.Decimal `json:"total_win"`
	TotalMultiplier int             `json:"total_multiplier"`
	WinLines        []WinLine       `json:"win_lines"`
}

func (r *Result) add(idx int, line spec.Payline, sym spec.Symbol, count, mult int, bet decimal.Decimal) {
	amount := bet.Mul(decimal.NewFromInt(int64(mult)))
	r.WinLines = append(r.WinLines, WinLine{
		Index:      idx,
		Line:       line.Clone(),
		Symbol:     sym,
		Count:      count,
		Multiplier: mult,
		Amount:     amount,
	})
	r.TotalWin = r.TotalWin.Add(amount)
	r.TotalMultiplier += mult
}

func (r *Result) Hit() bool { return len(r.WinLines) > 0 }

// Cells 所有中獎格子，去重後依首次出現排序，供高亮使用
func (r *Result) Cells() []spec.Cell {
	seen := make(map[spec.Cell]struct{})
	var out []spec.Cell
	for _, w := range r.WinLines {
		for _, c := range w.Cells() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
