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

package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/reelkit/configs"
)

func TestRegisterAllEmbedded(t *testing.T) {
	c, err := New(configs.FS)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if err := c.RegisterAll(); err != nil {
		t.Fatalf("register all: %v", err)
	}
	names := c.Names()
	if len(names) != 2 || names[0] != "classic" || names[1] != "compact" {
		t.Fatalf("unexpected names: %v", names)
	}
	gs, err := c.GameSettingByName(" Classic ")
	if err != nil {
		t.Fatalf("classic: %v", err)
	}
	if gs.ScreenSetting.Reels != 5 || gs.ScreenSetting.Rows != 4 {
		t.Fatalf("unexpected shape %dx%d", gs.ScreenSetting.Reels, gs.ScreenSetting.Rows)
	}
	sums, err := c.Summaries()
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if sums[1].Rows != 3 || sums[1].Config != "compact.json" {
		t.Fatalf("unexpected summary: %+v", sums[1])
	}
	if _, err := c.GameSettingByName("missing"); err == nil {
		t.Fatalf("expected error for missing game")
	}
}

func TestCatalogRejects(t *testing.T) {
	raw, _ := configs.FS.ReadFile("classic.yaml")
	mfs := fstest.MapFS{
		"a.yaml":     {Data: raw},
		"readme.txt": {Data: []byte("ignored")},
	}
	c, err := New(mfs)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "../a.yaml"}); err == nil {
		t.Fatalf("expected path rejection")
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "b.yaml"}); err == nil {
		t.Fatalf("expected missing file rejection")
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "a.yaml"}, Entry{Name: "X", ConfigName: "a.yaml"}); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if err := c.Register(Entry{Name: "x", ConfigName: "a.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	c.Freeze()
	if err := c.Register(Entry{Name: "y", ConfigName: "a.yaml"}); err == nil {
		t.Fatalf("expected frozen rejection")
	}

	if _, err := New(fstest.MapFS{"sub/a.yaml": {Data: raw}}); err == nil {
		t.Fatalf("expected flat FS rejection")
	}
	if _, err := New(mfs, fstest.MapFS{"a.yaml": {Data: raw}}); err == nil {
		t.Fatalf("expected duplicate across fs")
	}

	bad, _ := New(fstest.MapFS{"bad.yaml": {Data: []byte("game_name: bad\nunknown_field: 1\n")}})
	if err := bad.RegisterAll(); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}
