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
	"time"

	"github.com/zintix-labs/reelkit/errs"
)

// ReelSetting 轉輪動畫時序參數。距離單位與像素對應，速度為 單位/秒。
//
// 時間欄位在設定檔中寫成 time.ParseDuration 可解析的字串，例如 "1250ms"。
type ReelSetting struct {
	StripBuffer         int     `yaml:"strip_buffer"        json:"strip_buffer"`
	CellPitch           float64 `yaml:"cell_pitch"          json:"cell_pitch"`
	BaseSpeed           float64 `yaml:"base_speed"          json:"base_speed"`
	SpeedStep           float64 `yaml:"speed_step"          json:"speed_step"`
	SpinDurationStr     string  `yaml:"spin_duration"       json:"spin_duration"`
	SlowdownStaggerStr  string  `yaml:"slowdown_stagger"    json:"slowdown_stagger"`
	LoadFraction        float64 `yaml:"load_fraction"       json:"load_fraction"`
	LoadFractionStep    float64 `yaml:"load_fraction_step"  json:"load_fraction_step"`
	SlowdownDurationStr string  `yaml:"slowdown_duration"   json:"slowdown_duration"`
	StopSpeed           float64 `yaml:"stop_speed"          json:"stop_speed"`
	BounceAmplitude     float64 `yaml:"bounce_amplitude"    json:"bounce_amplitude"`
	BounceSpeed         float64 `yaml:"bounce_speed"        json:"bounce_speed"`
	BounceDamping       float64 `yaml:"bounce_damping"      json:"bounce_damping"`
	BounceCount         int     `yaml:"bounce_count"        json:"bounce_count"`

	SpinDuration     time.Duration `yaml:"-" json:"-"`
	SlowdownStagger  time.Duration `yaml:"-" json:"-"`
	SlowdownDuration time.Duration `yaml:"-" json:"-"`
	initFlag         bool
}

// DefaultReelSetting 經典五軸的時序：第 i 軸速度 1500+360i 單位/秒，
// 1250ms + 200ms*i 開始減速，減速 1 秒。
func DefaultReelSetting() ReelSetting {
	return ReelSetting{
		StripBuffer:         8,
		CellPitch:           164,
		BaseSpeed:           1500,
		SpeedStep:           360,
		SpinDurationStr:     "1250ms",
		SlowdownStaggerStr:  "200ms",
		LoadFraction:        0.4,
		LoadFractionStep:    0.02,
		SlowdownDurationStr: "1s",
		StopSpeed:           18,
		BounceAmplitude:     15,
		BounceSpeed:         180,
		BounceDamping:       0.65,
		BounceCount:         3,
	}
}

// Init 補上未填欄位並檢查，reels 為軸數（用於檢查最後一軸的載入比例）。
func (rs *ReelSetting) Init(reels int) error {
	if rs.initFlag {
		return nil
	}
	def := DefaultReelSetting()
	if rs.StripBuffer == 0 {
		rs.StripBuffer = def.StripBuffer
	}
	if rs.CellPitch == 0 {
		rs.CellPitch = def.CellPitch
	}
	if rs.BaseSpeed == 0 {
		rs.BaseSpeed = def.BaseSpeed
	}
	if rs.SpeedStep == 0 {
		rs.SpeedStep = def.SpeedStep
	}
	if rs.SpinDurationStr == "" {
		rs.SpinDurationStr = def.SpinDurationStr
	}
	if rs.SlowdownStaggerStr == "" {
		rs.SlowdownStaggerStr = def.SlowdownStaggerStr
	}
	if rs.LoadFraction == 0 {
		rs.LoadFraction = def.LoadFraction
	}
	if rs.LoadFractionStep == 0 {
		rs.LoadFractionStep = def.LoadFractionStep
	}
	if rs.SlowdownDurationStr == "" {
		rs.SlowdownDurationStr = def.SlowdownDurationStr
	}
	if rs.StopSpeed == 0 {
		rs.StopSpeed = def.StopSpeed
	}
	if rs.BounceSpeed == 0 {
		rs.BounceSpeed = def.BounceSpeed
	}
	if rs.BounceDamping == 0 {
		rs.BounceDamping = def.BounceDamping
	}
	// 振幅與次數皆未填才補預設，只填其一視為刻意設定
	if rs.BounceAmplitude == 0 && rs.BounceCount == 0 {
		rs.BounceAmplitude = def.BounceAmplitude
		rs.BounceCount = def.BounceCount
	}

	var err error
	if rs.SpinDuration, err = time.ParseDuration(rs.SpinDurationStr); err != nil {
		return errs.InvalidConfigf("spin_duration=%q: %v", rs.SpinDurationStr, err)
	}
	if rs.SlowdownStagger, err = time.ParseDuration(rs.SlowdownStaggerStr); err != nil {
		return errs.InvalidConfigf("slowdown_stagger=%q: %v", rs.SlowdownStaggerStr, err)
	}
	if rs.SlowdownDuration, err = time.ParseDuration(rs.SlowdownDurationStr); err != nil {
		return errs.InvalidConfigf("slowdown_duration=%q: %v", rs.SlowdownDurationStr, err)
	}

	switch {
	case rs.StripBuffer < 1:
		return errs.InvalidConfigf("strip_buffer must be >= 1")
	case rs.CellPitch <= 0:
		return errs.InvalidConfigf("cell_pitch must be positive")
	case rs.BaseSpeed <= 0 || rs.SpeedStep < 0:
		return errs.InvalidConfigf("reel speed must be positive")
	case rs.SpinDuration <= 0 || rs.SlowdownStagger < 0 || rs.SlowdownDuration <= 0:
		return errs.InvalidConfigf("reel durations must be positive")
	case rs.StopSpeed <= 0 || rs.StopSpeed >= rs.BaseSpeed:
		return errs.InvalidConfigf("stop_speed must be in (0, base_speed)")
	case rs.LoadFraction >= 1 || rs.LoadFractionStep < 0:
		return errs.InvalidConfigf("load_fraction must be < 1 and step >= 0")
	case rs.LoadFraction-float64(reels-1)*rs.LoadFractionStep <= 0:
		return errs.InvalidConfigf("load fraction of reel %d is not positive", reels-1)
	case rs.BounceAmplitude < 0 || rs.BounceCount < 0 || rs.BounceDamping <= 0 || rs.BounceDamping > 1:
		return errs.InvalidConfigf("invalid bounce parameters")
	}
	rs.initFlag = true
	return nil
}

// Speed 第 i 軸的名目速度
func (rs *ReelSetting) Speed(i int) float64 {
	return rs.BaseSpeed + float64(i)*rs.SpeedStep
}

// SlowdownStart 第 i 軸自動開始減速的時間點
func (rs *ReelSetting) SlowdownStart(i int) time.Duration {
	return rs.SpinDuration + time.Duration(i)*rs.SlowdownStagger
}

// LoadAt 第 i 軸預載目標圖標的時間點，必定早於 SlowdownStart(i)
func (rs *ReelSetting) LoadAt(i int) time.Duration {
	frac := rs.LoadFraction - float64(i)*rs.LoadFractionStep
	return time.Duration(float64(rs.SlowdownStart(i)) * frac)
}
