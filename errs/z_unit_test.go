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

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	e := NewWithExtra(Warn, "bad bet", "bet=0")
	got := e.Error()
	if got != "errlv=warn bad bet | extra: bet=0" {
		t.Fatalf("unexpected format: %q", got)
	}

	c := InvalidConfigf("weights sum %d", 0)
	if !strings.Contains(c.Error(), "code=invalid_config") {
		t.Fatalf("expected code in message: %q", c.Error())
	}
}

func TestWrapKeepsLevelAndCode(t *testing.T) {
	base := InvalidTierf("tier %d too large", 500)
	w := Wrap(base, "set lines")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level, got %s", ErrLv(w.ErrLv))
	}
	if w.Code != CodeInvalidTierSize {
		t.Fatalf("expected code kept, got %s", w.Code)
	}
	if !errors.Is(w, ErrInvalidTierSize) {
		t.Fatalf("errors.Is should match by code")
	}
	if errors.Is(w, ErrInvalidConfig) {
		t.Fatalf("errors.Is should not match other codes")
	}

	std := Wrap(fmt.Errorf("io"), "read config")
	if std.ErrLv != Fatal || std.Code != CodeNone {
		t.Fatalf("foreign cause should be fatal without code: %+v", std)
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(NewCode(Warn, CodeInsufficientBalance, "need 20"), "spin"))
	if got := CodeOf(err); got != CodeInsufficientBalance {
		t.Fatalf("expected insufficient_balance, got %s", got)
	}
	if CodeOf(nil) != CodeNone {
		t.Fatalf("nil error has no code")
	}
	if _, ok := AsErr(err); !ok {
		t.Fatalf("AsErr should find *E")
	}
}
