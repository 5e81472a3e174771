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

package spec

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
)

// BetSetting 錢包與押注設定。金額在設定檔中以字串表示，避免浮點誤差。
type BetSetting struct {
	StartingBalanceStr string          `yaml:"starting_balance"  json:"starting_balance"`
	BetPerLineStr      string          `yaml:"bet_per_line"      json:"bet_per_line"`
	MinBetStr          string          `yaml:"min_bet_per_line"  json:"min_bet_per_line"`
	MaxBetStr          string          `yaml:"max_bet_per_line"  json:"max_bet_per_line"`
	BetStepStr         string          `yaml:"bet_step"          json:"bet_step"`
	StartingBalance    decimal.Decimal `yaml:"-"                 json:"-"`
	BetPerLine         decimal.Decimal `yaml:"-"                 json:"-"`
	MinBet             decimal.Decimal `yaml:"-"                 json:"-"`
	MaxBet             decimal.Decimal `yaml:"-"                 json:"-"`
	BetStep            decimal.Decimal `yaml:"-"                 json:"-"`
	initFlag           bool
}

// 未填時的預設值
const (
	defaultStartingBalance = "1000"
	defaultBetPerLine      = "1"
	defaultMinBet          = "0.10"
	defaultMaxBet          = "10"
	defaultBetStep         = "0.10"
)

func parseMoney(field, raw, def string) (decimal.Decimal, error) {
	if raw == "" {
		raw = def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.InvalidConfigf("bet_setting.%s=%q is not a number: %v", field, raw, err)
	}
	return d, nil
}

func (bs *BetSetting) Init() error {
	if bs.initFlag {
		return nil
	}
	var err error
	if bs.StartingBalance, err = parseMoney("starting_balance", bs.StartingBalanceStr, defaultStartingBalance); err != nil {
		return err
	}
	if bs.BetPerLine, err = parseMoney("bet_per_line", bs.BetPerLineStr, defaultBetPerLine); err != nil {
		return err
	}
	if bs.MinBet, err = parseMoney("min_bet_per_line", bs.MinBetStr, defaultMinBet); err != nil {
		return err
	}
	if bs.MaxBet, err = parseMoney("max_bet_per_line", bs.MaxBetStr, defaultMaxBet); err != nil {
		return err
	}
	if bs.BetStep, err = parseMoney("bet_step", bs.BetStepStr, defaultBetStep); err != nil {
		return err
	}
	if bs.StartingBalance.IsNegative() {
		return errs.InvalidConfigf("starting_balance must be >= 0")
	}
	if !bs.MinBet.IsPositive() || bs.MaxBet.LessThan(bs.MinBet) {
		return errs.InvalidConfigf("bet range [%s,%s] is invalid", bs.MinBet, bs.MaxBet)
	}
	if bs.BetPerLine.LessThan(bs.MinBet) || bs.BetPerLine.GreaterThan(bs.MaxBet) {
		return errs.InvalidConfigf("bet_per_line %s out of [%s,%s]", bs.BetPerLine, bs.MinBet, bs.MaxBet)
	}
	if !bs.BetStep.IsPositive() {
		return errs.InvalidConfigf("bet_step must be positive")
	}
	bs.initFlag = true
	return nil
}
