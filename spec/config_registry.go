package spec

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/zintix-labs/reelkit/errs"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetGameSettingByYAML 解析 YAML 設定並初始化。未知欄位視為錯誤（拼錯欄位直接報錯）。
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(errs.InvalidConfigf("failed to unmarshal yaml: %v", err), "spec.config_registry")
	}

	// 設定檔初始化
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByJSON 解析 JSON 設定並初始化。
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(errs.InvalidConfigf("can not unmarshal json: %v", err), "spec.config_registry")
	}

	// 設定檔初始化
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}
