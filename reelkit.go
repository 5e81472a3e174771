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

// Package reelkit 是整套拉霸引擎的組裝入口。
//
// Lab 持有兩個地基：
//  1. Catalog：遊戲目錄，遊戲名稱對應到 fs.FS 內的設定檔。
//  2. PRNGFactory：亂數來源工廠，同一個 seed 必須得到同一條序列。
//
// 由 Lab 建出三種執行單位：
//   - Session：有畫面節奏的單一玩家（tick 驅動轉輪）。
//   - Machine：沒有轉輪動畫的單局入口，保留每局前後的核心快照供回放。
//   - Simulator：大量抽盤面 + 結算，產出 RTP 報表。
//
// 設定檔來源一律以 fs.FS 注入，Lab 不處理檔案路徑。
package reelkit

import (
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/reelkit/catalog"
	"github.com/zintix-labs/reelkit/configs"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/logger"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/sdk/slot"
	"github.com/zintix-labs/reelkit/spec"
)

// Configs 把一或多個設定檔來源打包成 New 需要的參數
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Option 設定 Lab
type Option func(*Lab)

// WithPRNG 替換預設的 PCG64
func WithPRNG(pf core.PRNGFactory) Option {
	return func(l *Lab) {
		if pf != nil {
			l.pf = pf
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Lab) {
		if log != nil {
			l.log = log
		}
	}
}

// Lab 組裝器
//
//	lab, _ := reelkit.NewAuto(reelkit.Configs(configs.FS))
//	s, _ := lab.NewSession("classic", 42)
//	s.StartSpin()
//	for out := s.Advance(dt); out == nil; out = s.Advance(dt) {}
type Lab struct {
	cat *catalog.Catalog
	pf  core.PRNGFactory
	log *slog.Logger
	sum []catalog.Summary
}

// New 建立 Lab，尚未登記任何遊戲。cfgs 為空時使用內建設定。
func New(cfgs []fs.FS, opts ...Option) (*Lab, error) {
	if len(cfgs) == 0 {
		cfgs = Configs(configs.FS)
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	l := &Lab{
		cat: cat,
		pf:  core.Default(),
		log: logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// NewAuto 登記所有設定檔並凍結目錄，直接進入執行階段
func NewAuto(cfgs []fs.FS, opts ...Option) (*Lab, error) {
	l, err := New(cfgs, opts...)
	if err != nil {
		return nil, err
	}
	if err := l.RegisterAll(); err != nil {
		return nil, err
	}
	l.Freeze()
	return l, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll 解析每個設定檔並以檔內 game_name 登記，任何一個失敗就整批不登記
func (l *Lab) RegisterAll() error {
	if err := l.cat.RegisterAll(); err != nil {
		return err
	}
	if len(l.cat.Names()) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return nil
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
	l.log.Debug("catalog frozen", slog.Any("games", l.cat.Names()))
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

// Summary 凍結後才可呼叫，結果會快取
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	sum, err := l.cat.Summaries()
	if err != nil {
		return nil, err
	}
	l.sum = sum
	return l.sum, nil
}

// GameSetting 取得一份獨立的設定，可自由修改
func (l *Lab) GameSetting(name string) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.GameSettingByName(name)
}

// NewCore 以 seed 建立亂數核心；seed 為 0 時改用 core.RandomSeed
func (l *Lab) NewCore(seed int64) (*core.Core, int64, error) {
	if seed == 0 {
		seed = core.RandomSeed()
	}
	return core.New(l.pf.New(seed)), seed, nil
}

// NewSession 依遊戲名稱建立 Session
func (l *Lab) NewSession(name string, seed int64, opts ...slot.Option) (*slot.Session, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return l.newSession(gs, seed, opts...)
}

// NewSessionByYAML 以外部設定建立 Session，遊戲名稱需已在目錄內
func (l *Lab) NewSessionByYAML(raw []byte, seed int64, opts ...slot.Option) (*slot.Session, error) {
	gs, err := spec.GetGameSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(gs); err != nil {
		return nil, err
	}
	return l.newSession(gs, seed, opts...)
}

func (l *Lab) NewSessionByJSON(raw []byte, seed int64, opts ...slot.Option) (*slot.Session, error) {
	gs, err := spec.GetGameSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := l.validCfg(gs); err != nil {
		return nil, err
	}
	return l.newSession(gs, seed, opts...)
}

func (l *Lab) newSession(gs *spec.GameSetting, seed int64, opts ...slot.Option) (*slot.Session, error) {
	c, seed, err := l.NewCore(seed)
	if err != nil {
		return nil, err
	}
	opts = append([]slot.Option{slot.WithLogger(l.log)}, opts...)
	s, err := slot.NewSession(gs, c, opts...)
	if err != nil {
		return nil, err
	}
	l.log.Debug("session created", slog.String("game", gs.GameName), slog.Int64("seed", seed))
	return s, nil
}

// NewMachine 依遊戲名稱建立 Machine
func (l *Lab) NewMachine(name string, seed int64) (*Machine, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	c, seed, err := l.NewCore(seed)
	if err != nil {
		return nil, err
	}
	return newMachine(gs, c, seed)
}

// NewSimulator 依遊戲名稱建立 Simulator
func (l *Lab) NewSimulator(name string, seed int64) (*Simulator, error) {
	gs, err := l.GameSetting(name)
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorBySetting(gs, seed)
}

// NewSimulatorBySetting 以已解析的設定建立 Simulator（CLI 直接讀檔時使用）
func (l *Lab) NewSimulatorBySetting(gs *spec.GameSetting, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.InvalidConfigf("nil game setting")
	}
	if seed == 0 {
		seed = core.RandomSeed()
	}
	return newSimulator(gs, l.pf, seed, l.log)
}

func (l *Lab) validCfg(gs *spec.GameSetting) error {
	if !l.cat.IsFrozen() {
		return errs.NewFatal("catalog is not frozen yet")
	}
	if _, ok := l.cat.GetByName(gs.GameName); !ok {
		return errs.Warnf("game %q is not registered", gs.GameName)
	}
	return nil
}
