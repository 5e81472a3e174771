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

import "github.com/zintix-labs/reelkit/errs"

// ScreenSetting 描述盤面尺寸。
//
// Fields:
//   - Reels: 軸數（欄）
//   - Rows: 每軸可見列數
type ScreenSetting struct {
	Reels      int `yaml:"reels"  json:"reels"`
	Rows       int `yaml:"rows"   json:"rows"`
	ScreenSize int `yaml:"-"      json:"-"`
	initFlag   bool
}

// Init 檢查不合法的設定
func (ss *ScreenSetting) Init() error {
	// 檢查初始化旗標
	if ss.initFlag {
		return nil
	}
	if ss.Reels < 1 || ss.Rows < 1 {
		return errs.InvalidConfigf("invalid screen dimensions: reels=%d rows=%d", ss.Reels, ss.Rows)
	}
	if ss.Rows > 1<<15-1 {
		return errs.InvalidConfigf("too many rows: %d", ss.Rows)
	}
	ss.ScreenSize = ss.Reels * ss.Rows
	ss.initFlag = true
	return nil
}
