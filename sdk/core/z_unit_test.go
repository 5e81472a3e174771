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
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.UintN(10) != c2.UintN(10) {
		t.Fatalf("UintN mismatch")
	}
	if c1.Draw(3.5) != c2.Draw(3.5) {
		t.Fatalf("Draw mismatch")
	}
}

func TestDrawAndStepRange(t *testing.T) {
	c := New(Default().New(13))
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		r := c.Draw(4)
		if r < 0 || r >= 4 {
			t.Fatalf("draw out of range: %v", r)
		}
		s := c.Step()
		if s < -1 || s > 1 {
			t.Fatalf("step out of range: %d", s)
		}
		seen[s] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all three steps, got %v", seen)
	}
	if c.Draw(0) != 0 {
		t.Fatalf("draw with zero total should be 0")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := New(Default().New(21))
	c.Uint64()
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := []uint64{c.Uint64(), c.Uint64(), c.Uint64()}
	if err := c.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for i, w := range want {
		if got := c.Uint64(); got != w {
			t.Fatalf("replay mismatch at %d: %d != %d", i, got, w)
		}
	}
}

func TestSequenceReplay(t *testing.T) {
	s := NewSequence(0.1, 0.5, 0.99, 2, -1)
	c := New(s)
	if got := c.Float64(); got != 0.1 {
		t.Fatalf("expected 0.1, got %v", got)
	}
	if got := c.IntN(4); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := c.IntN(4); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := c.Float64(); got >= 1 {
		t.Fatalf("clamped value must be < 1, got %v", got)
	}
	if got := c.Float64(); got != 0 {
		t.Fatalf("negative value clamps to 0, got %v", got)
	}
	// 循環
	if got := c.Float64(); got != 0.1 {
		t.Fatalf("expected wrap to 0.1, got %v", got)
	}

	snap, _ := s.Snapshot()
	a := s.Float64()
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if b := s.Float64(); a != b {
		t.Fatalf("restore mismatch %v != %v", a, b)
	}
	if err := s.Restore([]byte{0x7f}); err == nil {
		t.Fatalf("expected bad snapshot error")
	}
	if RandomSeed() < 1 {
		t.Fatalf("random seed must be positive")
	}
}
