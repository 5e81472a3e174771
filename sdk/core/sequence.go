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

import (
	"encoding/binary"
	"errors"
	"math"
)

// Sequence 是錄製好的亂數來源：依序重播 [0,1) 的值，用完後從頭循環。
// 用於回放與測試，讓每一次抽樣結果都可以事先寫定。
type Sequence struct {
	vals []float64
	pos  int
}

// NewSequence 建立重播來源。超出 [0,1) 的值會被夾到範圍內，空序列視為 {0}。
func NewSequence(vals ...float64) *Sequence {
	if len(vals) == 0 {
		vals = []float64{0}
	}
	cp := make([]float64, len(vals))
	for i, v := range vals {
		switch {
		case math.IsNaN(v) || v < 0:
			v = 0
		case v >= 1:
			v = math.Nextafter(1, 0)
		}
		cp[i] = v
	}
	return &Sequence{vals: cp}
}

func (s *Sequence) next() float64 {
	v := s.vals[s.pos]
	s.pos = (s.pos + 1) % len(s.vals)
	return v
}

// Float64 回傳下一個錄製值
func (s *Sequence) Float64() float64 { return s.next() }

// Uint64 將下一個錄製值映射到 uint64 全域
func (s *Sequence) Uint64() uint64 {
	return uint64(s.next() * (1 << 63) * 2)
}

// UintN 回傳 floor(v*max)，max == 0 回傳 0
func (s *Sequence) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return min(uint(s.next()*float64(max)), max-1)
}

// IntN 回傳 floor(v*max)，max <= 0 回傳 -1
func (s *Sequence) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return min(int(s.next()*float64(max)), max-1)
}

// Snapshot 只保存播放位置
func (s *Sequence) Snapshot() ([]byte, error) {
	return binary.AppendUvarint(nil, uint64(s.pos)), nil
}

// Restore 還原播放位置
func (s *Sequence) Restore(data []byte) error {
	pos, n := binary.Uvarint(data)
	if n <= 0 || pos >= uint64(len(s.vals)) {
		return errors.New("sequence: bad snapshot")
	}
	s.pos = int(pos)
	return nil
}
