// Package configs 內建的遊戲設定檔（扁平目錄，YAML / JSON）。
package configs

import (
	"embed"
)

// FS provides embedded default game configs for external usage.
//
//go:embed *.yaml *.json
var FS embed.FS
