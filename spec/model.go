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
	"strconv"
	"strings"
)

// Symbol 圖標，為設定中 symbols 列表的索引，只做相等比較。
type Symbol int16

// Grid 盤面：reels x rows，以軸為主序儲存 Cells[reel*rows+row]。
// 每局建立一次，定格後不再修改。
type Grid struct {
	Reels int
	Rows  int
	Cells []Symbol
}

func NewGrid(reels, rows int) *Grid {
	return &Grid{Reels: reels, Rows: rows, Cells: make([]Symbol, reels*rows)}
}

// At 取得第 reel 軸第 row 列
func (g *Grid) At(reel, row int) Symbol {
	return g.Cells[reel*g.Rows+row]
}

func (g *Grid) Set(reel, row int, s Symbol) {
	g.Cells[reel*g.Rows+row] = s
}

// Column 回傳第 reel 軸的切片視圖（不複製）
func (g *Grid) Column(reel int) []Symbol {
	return g.Cells[reel*g.Rows : (reel+1)*g.Rows]
}

func (g *Grid) Clone() *Grid {
	return &Grid{Reels: g.Reels, Rows: g.Rows, Cells: append([]Symbol(nil), g.Cells...)}
}

func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Reels != o.Reels || g.Rows != o.Rows || len(g.Cells) != len(o.Cells) {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// Format 以列為主輸出盤面，names 為空時輸出索引。
func (g *Grid) Format(names []string) string {
	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		for reel := 0; reel < g.Reels; reel++ {
			if reel > 0 {
				sb.WriteByte(' ')
			}
			s := g.At(reel, row)
			if int(s) < len(names) {
				sb.WriteString(names[s])
			} else {
				sb.WriteString(strconv.Itoa(int(s)))
			}
		}
		if row < g.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Payline 每軸取一列，長度等於軸數。
type Payline []int

// Valid 檢查長度與列值範圍
func (p Payline) Valid(reels, rows int) bool {
	if len(p) != reels {
		return false
	}
	for _, r := range p {
		if r < 0 || r >= rows {
			return false
		}
	}
	return true
}

// Key 回傳可作為 map key 的正規化字串
func (p Payline) Key() string {
	b := make([]byte, 0, len(p)*2)
	for _, r := range p {
		b = append(b, byte(r>>8), byte(r))
	}
	return string(b)
}

func (p Payline) Clone() Payline {
	return append(Payline(nil), p...)
}

// Cell 盤面座標
type Cell struct {
	Reel int `json:"reel" yaml:"reel"`
	Row  int `json:"row"  yaml:"row"`
}

// PayTable 賠付表，攤平成一維：Flat[Index[sym] + count - 1] 即為倍數。
type PayTable struct {
	Reels int
	Flat  []int
	Index []int
}

func NewPayTable(symbols, reels int) *PayTable {
	pt := &PayTable{
		Reels: reels,
		Flat:  make([]int, symbols*reels),
		Index: make([]int, symbols),
	}
	for i := range pt.Index {
		pt.Index[i] = i * reels
	}
	return pt
}

// Pay 回傳 sym 連線 count 個的倍數，不存在則為 0
func (pt *PayTable) Pay(sym Symbol, count int) int {
	if int(sym) < 0 || int(sym) >= len(pt.Index) || count < 1 || count > pt.Reels {
		return 0
	}
	return pt.Flat[pt.Index[sym]+count-1]
}

func (pt *PayTable) set(sym Symbol, count, mult int) {
	pt.Flat[pt.Index[sym]+count-1] = mult
}

// MinCount 回傳任何圖標最少需要的連線數，沒有賠付時回傳 0
func (pt *PayTable) MinCount() int {
	best := 0
	for _, base := range pt.Index {
		for c := 1; c <= pt.Reels; c++ {
			if pt.Flat[base+c-1] > 0 {
				if best == 0 || c < best {
					best = c
				}
				break
			}
		}
	}
	return best
}
