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

package core

import "math"

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 為什麼要求同時提供 4 個方法（Uint64 / Float64 / UintN / IntN），而不是只要求 Uint64？
//
// 1) 允許實作針對 32-bit / 64-bit 平台做最佳化
//   - 有些 PRNG 的「原生輸出寬度」是 32-bit（例如以 uint32 為核心），在 32-bit 平台或某些 CPU 上
//     直接產生 uint32/uint 可能更快、更少指令。
//   - 反之也有 64-bit PRNG（例如輸出 uint64），在 64-bit 平台上直接提供 Uint64/UintN 會更自然。
//   - 若合約只要求 Uint64，所有實作都被迫走「先產生 uint64 再轉換/裁切」的路徑，
//     會把 32-bit 友善的 PRNG 退化成比較慢的寫法。
//   - 不同 PRNG 對 bounded 生成可能有更快/更正確的實作（例如使用 32-bit 或 64-bit 的 fast path）。
//     把 IntN/UintN 交由 PRNG 自己實作，能讓每個 PRNG 用最合適的 bounded 策略。
//
// 2) Float64 的精度與生成方式應由 PRNG 決定
//   - Float64 通常希望使用 53-bit mantissa 來生成 [0,1)；但有些實作只提供 32-bit 精度或有更快的路徑。
//   - 讓 PRNG 自己提供 Float64，可以明確表達「精度（32-bit vs 53-bit）」與「效能」取捨。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是「決定性」的，
	// 也就是相同的 seed 必須產生相同的初始內部狀態與輸出序列。
	//
	// seed 由 Lab 統一管理：每個 Session / 模擬 worker 皆由 baseSeed 派生子 seed，
	// 同一局可以完整回放。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Draw 回傳 [0,total) 的均勻亂數，total <= 0 時回傳 0。
// 加權抽樣每次只呼叫一次。
func (c *Core) Draw(total float64) float64 {
	if total <= 0 {
		return 0
	}
	r := c.Float64() * total
	if r >= total {
		// Float64 < 1 但相乘仍可能因捨入碰到上界
		r = math.Nextafter(total, 0)
	}
	return r
}

// Step 回傳 {-1, 0, +1} 之一，機率均等。
func (c *Core) Step() int {
	return c.IntN(3) - 1
}
