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
	"strings"

	"github.com/zintix-labs/reelkit/errs"
)

// GameSetting 一款遊戲的完整設定。
type GameSetting struct {
	GameName      string        `yaml:"game_name"       json:"game_name"`
	ScreenSetting ScreenSetting `yaml:"screen_setting"  json:"screen_setting"`
	SymbolSetting SymbolSetting `yaml:"symbol_setting"  json:"symbol_setting"`
	LineSetting   LineSetting   `yaml:"line_setting"    json:"line_setting"`
	BetSetting    BetSetting    `yaml:"bet_setting"     json:"bet_setting"`
	ReelSetting   ReelSetting   `yaml:"reel_setting"    json:"reel_setting"`
}

// Init 依序初始化各子設定，可重複呼叫。
func (gs *GameSetting) Init() error {
	gs.GameName = strings.ToLower(strings.TrimSpace(gs.GameName))
	if gs.GameName == "" {
		return errs.InvalidConfigf("game_name required")
	}
	if err := gs.ScreenSetting.Init(); err != nil {
		return errs.WrapWithExtra(err, "screen_setting", gs.GameName)
	}
	reels := gs.ScreenSetting.Reels
	if err := gs.SymbolSetting.Init(reels); err != nil {
		return errs.WrapWithExtra(err, "symbol_setting", gs.GameName)
	}
	if err := gs.LineSetting.Init(); err != nil {
		return errs.WrapWithExtra(err, "line_setting", gs.GameName)
	}
	if err := gs.BetSetting.Init(); err != nil {
		return errs.WrapWithExtra(err, "bet_setting", gs.GameName)
	}
	if err := gs.ReelSetting.Init(reels); err != nil {
		return errs.WrapWithExtra(err, "reel_setting", gs.GameName)
	}
	return nil
}
