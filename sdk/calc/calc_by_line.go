package calc

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/spec"
)

// LineEvaluator 預先把線表攤平成盤面索引（reel*rows+row），熱路徑只做查表。
type LineEvaluator struct {
	reels     int
	rows      int
	lines     []spec.Payline
	lineFlat  []int
	lineCount int
	pt        *spec.PayTable
}

// NewLineEvaluator 檢查線表與賠付表後建立評估器
func NewLineEvaluator(reels, rows int, lines []spec.Payline, pt *spec.PayTable) (*LineEvaluator, error) {
	if pt == nil || pt.Reels != reels {
		return nil, errs.InvalidConfigf("calc: pay table does not match %d reels", reels)
	}
	flat := make([]int, 0, len(lines)*reels)
	for i, p := range lines {
		if !p.Valid(reels, rows) {
			return nil, errs.InvalidConfigf("calc: line %d %v invalid on %dx%d", i, p, reels, rows)
		}
		for reel, row := range p {
			flat = append(flat, reel*rows+row)
		}
	}
	cp := make([]spec.Payline, len(lines))
	for i, p := range lines {
		cp[i] = p.Clone()
	}
	return &LineEvaluator{
		reels:     reels,
		rows:      rows,
		lines:     cp,
		lineFlat:  flat,
		lineCount: len(lines),
		pt:        pt,
	}, nil
}

func (le *LineEvaluator) Lines() int { return le.lineCount }

// Evaluate 以 betPerLine 計算盤面贏分，盤面尺寸需與建立時一致。
func (le *LineEvaluator) Evaluate(g *spec.Grid, betPerLine decimal.Decimal) *Result {
	res := &Result{TotalWin: decimal.Zero}
	cols := le.reels
	cells := g.Cells
	for lineIdx := 0; lineIdx < le.lineCount; lineIdx++ {
		start := lineIdx * cols
		line := le.lineFlat[start : start+cols]

		first := cells[line[0]]
		run := 1
		for pos := 1; pos < cols; pos++ {
			if cells[line[pos]] != first {
				break
			}
			run++
		}

		// CSR：base + (count-1)
		mult := le.pt.Pay(first, run)
		if mult > 0 {
			res.add(lineIdx, le.lines[lineIdx], first, run, mult, betPerLine)
		}
	}
	return res
}

// CalcByLine 純函式版本：每條線從第 0 軸起取最長同圖標前綴，查表乘上 betPerLine。
// 線需合法（長度等於軸數、列在範圍內）；不回傳錯誤。
func CalcByLine(g *spec.Grid, lines []spec.Payline, pt *spec.PayTable, betPerLine decimal.Decimal) *Result {
	res := &Result{TotalWin: decimal.Zero}
	for lineIdx, p := range lines {
		first := g.At(0, p[0])
		run := 1
		for reel := 1; reel < len(p); reel++ {
			if g.At(reel, p[reel]) != first {
				break
			}
			run++
		}
		if mult := pt.Pay(first, run); mult > 0 {
			res.add(lineIdx, p, first, run, mult, betPerLine)
		}
	}
	return res
}
