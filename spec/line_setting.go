package spec

import (
	"slices"

	"github.com/zintix-labs/reelkit/errs"
)

// LineSetting 線數檔位設定。
//
// Fields:
//   - Tiers: 可選線數（遞增），每個檔位都是線表的前綴
//   - DefaultLines: 開局線數，必須在 Tiers 內
//   - RandomCount: 隨機漫步線的最少數量
type LineSetting struct {
	Tiers        []int `yaml:"tiers"          json:"tiers"`
	DefaultLines int   `yaml:"default_lines"  json:"default_lines"`
	RandomCount  int   `yaml:"random_count"   json:"random_count"`
	initFlag     bool
}

func (ls *LineSetting) Init() error {
	if ls.initFlag {
		return nil
	}
	if len(ls.Tiers) == 0 {
		return errs.InvalidConfigf("line tiers is empty")
	}
	for i, t := range ls.Tiers {
		if t < 1 {
			return errs.InvalidConfigf("line tier %d must be positive", t)
		}
		if i > 0 && t <= ls.Tiers[i-1] {
			return errs.InvalidConfigf("line tiers must be strictly increasing: %v", ls.Tiers)
		}
	}
	if ls.DefaultLines == 0 {
		ls.DefaultLines = ls.Tiers[0]
	}
	if !slices.Contains(ls.Tiers, ls.DefaultLines) {
		return errs.InvalidConfigf("default_lines %d not in tiers %v", ls.DefaultLines, ls.Tiers)
	}
	if ls.RandomCount < 0 {
		return errs.InvalidConfigf("random_count must be >= 0")
	}
	ls.initFlag = true
	return nil
}

// MaxTier 最大檔位
func (ls *LineSetting) MaxTier() int {
	return ls.Tiers[len(ls.Tiers)-1]
}

// TierIndex 回傳 n 在 Tiers 中的位置，不存在回傳 -1
func (ls *LineSetting) TierIndex(n int) int {
	return slices.Index(ls.Tiers, n)
}
