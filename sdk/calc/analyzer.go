package calc

import "github.com/zintix-labs/reelkit/spec"

// SymbolCounts 統計盤面上各圖標出現次數，索引即圖標，alphabet 為圖標種類數
func SymbolCounts(g *spec.Grid, alphabet int) []int {
	counts := make([]int, alphabet)
	for _, s := range g.Cells {
		if int(s) >= 0 && int(s) < alphabet {
			counts[s]++
		}
	}
	return counts
}

// MostCommon 出現最多的圖標；同數時取索引小者
func MostCommon(counts []int) (spec.Symbol, int) {
	best, n := spec.Symbol(0), -1
	for i, c := range counts {
		if c > n {
			best, n = spec.Symbol(i), c
		}
	}
	return best, max(n, 0)
}
