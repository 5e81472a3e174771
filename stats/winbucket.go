package stats

import "sync"

// 查表只建到 2000 倍，更高的贏倍走邊界判斷
const (
	maxLutMult int = 2000
	maxMult    int = 10000
)

// WinBuckets 贏倍分桶，以「總押注的倍數」切區間：
//
//	[0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000,+inf)
//
// 贏分以「每線押注」為單位的整數記錄（即評估結果的總倍數），
// 同一個線數檔位共用一張 LUT，O(1) 定位。
type WinBuckets struct {
	bounds []int
	labels []string

	mu     sync.Mutex
	byLine map[int]*WinBucket
}

// WinBucket 某個線數檔位的分桶
type WinBucket struct {
	lines   int
	lutMax  int   // LUT 長度（單位：線押注）
	capWin  int   // >= capWin 落在最後一桶
	lut     []int // lut[win] = 桶索引
	overIdx int
	lastIdx int
}

// Buckets 預設分桶，請勿修改
var Buckets = &WinBuckets{
	bounds: []int{0, 1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	labels: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
	byLine: make(map[int]*WinBucket),
}

// Labels 各桶標籤，長度 = 桶數
func (b *WinBuckets) Labels() []string {
	return append([]string(nil), b.labels...)
}

func (b *WinBuckets) Len() int { return len(b.labels) }

// For 取得 lines 檔位的分桶（併發安全，首次呼叫時建表）
func (b *WinBuckets) For(lines int) *WinBucket {
	b.mu.Lock()
	defer b.mu.Unlock()
	if wb, ok := b.byLine[lines]; ok {
		return wb
	}
	wb := b.build(lines)
	b.byLine[lines] = wb
	return wb
}

func (b *WinBuckets) build(lines int) *WinBucket {
	// 倍數邊界 -> 線押注單位的邊界
	edges := make([]int, len(b.bounds))
	for i, v := range b.bounds {
		edges[i] = lines * v
	}
	lutMax := lines * maxLutMult
	lut := make([]int, lutMax)
	idx := 1
	last := len(edges) - 1
	for w := 1; w < lutMax; w++ {
		for idx < last && w >= edges[idx] {
			idx++
		}
		lut[w] = idx
	}
	return &WinBucket{
		lines:   lines,
		lutMax:  lutMax,
		capWin:  lines * maxMult,
		lut:     lut,
		overIdx: last,
		lastIdx: len(edges),
	}
}

// Index win 為線押注單位的贏分
func (wb *WinBucket) Index(win int) int {
	if win <= 0 {
		return 0
	}
	if win >= wb.lutMax {
		if win >= wb.capWin {
			return wb.lastIdx
		}
		return wb.overIdx
	}
	return wb.lut[win]
}

func (wb *WinBucket) Lines() int { return wb.lines }
