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

package errs

// Code 錯誤碼：讓呼叫端不用比對字串就能分辨可處理的錯誤類別。
type Code uint8

const (
	CodeNone Code = iota
	// CodeInvalidConfig 設定不合法（權重、盤面尺寸、賠付表、轉輪參數...）
	CodeInvalidConfig
	// CodeInvalidTierSize 要求的線數超出線表長度或不在設定的檔位內
	CodeInvalidTierSize
	// CodeInsufficientBalance 餘額不足以支付總押注
	CodeInsufficientBalance
	// CodeSpinInProgress 轉動中不接受的指令
	CodeSpinInProgress
)

var codeMap = map[Code]string{
	CodeNone:                "",
	CodeInvalidConfig:       "invalid_config",
	CodeInvalidTierSize:     "invalid_tier_size",
	CodeInsufficientBalance: "insufficient_balance",
	CodeSpinInProgress:      "spin_in_progress",
}

func (c Code) String() string {
	if s, ok := codeMap[c]; ok {
		return s
	}
	return "unknown"
}

// 哨兵值：搭配 errors.Is 使用，只比對 Code。
var (
	ErrInvalidConfig       = &E{Code: CodeInvalidConfig, ErrLv: Fatal}
	ErrInvalidTierSize     = &E{Code: CodeInvalidTierSize, ErrLv: Warn}
	ErrInsufficientBalance = &E{Code: CodeInsufficientBalance, ErrLv: Warn}
	ErrSpinInProgress      = &E{Code: CodeSpinInProgress, ErrLv: Warn}
)

// InvalidConfigf 建立 Fatal 等級的設定錯誤。
func InvalidConfigf(format string, a ...any) *E {
	return Codef(Fatal, CodeInvalidConfig, format, a...)
}

// InvalidTierf 建立 Warn 等級的線數錯誤。
func InvalidTierf(format string, a ...any) *E {
	return Codef(Warn, CodeInvalidTierSize, format, a...)
}
