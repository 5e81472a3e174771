package spec

import (
	"math"
	"sort"
	"strings"

	"github.com/zintix-labs/reelkit/errs"
)

// SymbolSetting 圖標字母表、抽樣權重與賠付表。
//
// pay_table 以圖標名稱為鍵，內層為 連線數 -> 倍數：
//
//	pay_table:
//	  cherry: {3: 5, 4: 15, 5: 50}
type SymbolSetting struct {
	Symbols     []string               `yaml:"symbols"    json:"symbols"`
	Weights     []float64              `yaml:"weights"    json:"weights"`
	PayTableRaw map[string]map[int]int `yaml:"pay_table"  json:"pay_table"`
	SymbolCount int                    `yaml:"-"          json:"-"`
	PayTable    *PayTable              `yaml:"-"          json:"-"`
	byName      map[string]Symbol
	initFlag    bool
}

// Init 檢查設定並建立攤平的賠付表，reels 為盤面軸數
func (ss *SymbolSetting) Init(reels int) error {
	// 檢查初始化旗標
	if ss.initFlag {
		return nil
	}
	if len(ss.Symbols) == 0 {
		return errs.InvalidConfigf("symbols is empty")
	}
	if len(ss.Symbols) > math.MaxInt16 {
		return errs.InvalidConfigf("too many symbols: %d", len(ss.Symbols))
	}
	if len(ss.Symbols) != len(ss.Weights) {
		return errs.InvalidConfigf("len(symbols)=%d != len(weights)=%d", len(ss.Symbols), len(ss.Weights))
	}
	ss.byName = make(map[string]Symbol, len(ss.Symbols))
	for i, name := range ss.Symbols {
		name = strings.TrimSpace(name)
		if name == "" {
			return errs.InvalidConfigf("symbol[%d] has empty name", i)
		}
		if _, dup := ss.byName[name]; dup {
			return errs.InvalidConfigf("duplicate symbol %q", name)
		}
		ss.Symbols[i] = name
		ss.byName[name] = Symbol(i)
	}
	total := 0.0
	for i, w := range ss.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return errs.InvalidConfigf("weight[%d]=%v is invalid", i, w)
		}
		total += w
	}
	if !(total > 0) {
		return errs.InvalidConfigf("total weight must be positive")
	}

	// 賠付表：依名稱排序處理，讓錯誤訊息穩定
	ss.PayTable = NewPayTable(len(ss.Symbols), reels)
	names := make([]string, 0, len(ss.PayTableRaw))
	for name := range ss.PayTableRaw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sym, ok := ss.byName[strings.TrimSpace(name)]
		if !ok {
			return errs.InvalidConfigf("pay_table has unknown symbol %q", name)
		}
		for count, mult := range ss.PayTableRaw[name] {
			if count < 1 || count > reels {
				return errs.InvalidConfigf("pay_table %s: count %d out of [1,%d]", name, count, reels)
			}
			if mult < 0 {
				return errs.InvalidConfigf("pay_table %s: negative multiplier %d", name, mult)
			}
			ss.PayTable.set(sym, count, mult)
		}
	}
	ss.SymbolCount = len(ss.Symbols)
	// set 初始化旗標
	ss.initFlag = true
	return nil
}

// Alphabet 回傳所有圖標
func (ss *SymbolSetting) Alphabet() []Symbol {
	out := make([]Symbol, len(ss.Symbols))
	for i := range out {
		out[i] = Symbol(i)
	}
	return out
}

// Lookup 以名稱找圖標
func (ss *SymbolSetting) Lookup(name string) (Symbol, bool) {
	s, ok := ss.byName[strings.TrimSpace(name)]
	return s, ok
}

// Name 回傳圖標名稱
func (ss *SymbolSetting) Name(s Symbol) string {
	if int(s) < 0 || int(s) >= len(ss.Symbols) {
		return "?"
	}
	return ss.Symbols[s]
}
