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

package reelkit

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/reelkit/configs"
	"github.com/zintix-labs/reelkit/errs"
)

var one = decimal.NewFromInt(1)

func newLab(t *testing.T) *Lab {
	lab, err := NewAuto(Configs(configs.FS))
	require.NoError(t, err)
	return lab
}

func TestNewAutoRegistersEmbeddedGames(t *testing.T) {
	lab := newLab(t)
	require.Equal(t, []string{"classic", "compact"}, lab.Names())

	sum, err := lab.Summary()
	require.NoError(t, err)
	require.Len(t, sum, 2)
	require.Equal(t, "classic", sum[0].Name)
	require.Equal(t, []int{20, 40, 100}, sum[0].Tiers)
	again, _ := lab.Summary()
	require.Same(t, &sum[0], &again[0])

	_, err = lab.GameSetting("missing")
	require.Error(t, err)
}

func TestLabRequiresFrozenCatalog(t *testing.T) {
	lab, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, lab.RegisterAll())
	_, err = lab.NewSession("classic", 1)
	require.Error(t, err)
	_, err = lab.Summary()
	require.Error(t, err)

	lab.Freeze()
	s, err := lab.NewSession("classic", 1)
	require.NoError(t, err)
	require.Equal(t, 20, s.Lines())
}

func TestNewSessionByYAMLChecksCatalog(t *testing.T) {
	lab := newLab(t)
	raw, err := configs.FS.ReadFile("classic.yaml")
	require.NoError(t, err)
	_, err = lab.NewSessionByYAML(raw, 7)
	require.NoError(t, err)

	renamed := bytes.Replace(raw, []byte("game_name: classic"), []byte("game_name: unknown"), 1)
	_, err = lab.NewSessionByYAML(renamed, 7)
	require.Error(t, err)

	js, err := configs.FS.ReadFile("compact.json")
	require.NoError(t, err)
	_, err = lab.NewSessionByJSON(js, 7)
	require.NoError(t, err)
}

func TestMachineReplayReproducesSpin(t *testing.T) {
	lab := newLab(t)
	m, err := lab.NewMachine("classic", 99)
	require.NoError(t, err)
	require.Equal(t, int64(99), m.InitSeed())

	first, err := m.Spin(20, one)
	require.NoError(t, err)
	second, err := m.Spin(20, one)
	require.NoError(t, err)
	require.Equal(t, first.AfterSnap, second.StartSnap)
	require.Len(t, first.Screen, 4)
	require.Len(t, first.Screen[0], 5)

	live, err := m.SnapshotCore()
	require.NoError(t, err)

	re, err := m.Replay(first.StartSnap, 20, one)
	require.NoError(t, err)
	require.True(t, re.Grid().Equal(first.Grid()))
	require.True(t, re.Result.TotalWin.Equal(first.Result.TotalWin))
	require.Equal(t, first.AfterSnap, re.AfterSnap)

	after, err := m.SnapshotCore()
	require.NoError(t, err)
	require.Equal(t, live, after)
}

func TestMachineCheckpointResume(t *testing.T) {
	lab := newLab(t)
	m, err := lab.NewMachine("compact", 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.Spin(10, one)
	require.NoError(t, err)
	require.NoError(t, m.Checkpoint(&buf))
	want, err := m.Spin(10, one)
	require.NoError(t, err)
	_, err = m.Spin(10, one)
	require.NoError(t, err)

	require.NoError(t, m.Resume(bytes.NewReader(buf.Bytes())))
	got, err := m.Spin(10, one)
	require.NoError(t, err)
	require.True(t, got.Grid().Equal(want.Grid()))

	require.Error(t, m.Resume(bytes.NewReader(nil)))
}

func TestMachineRejectsBadBet(t *testing.T) {
	lab := newLab(t)
	m, err := lab.NewMachine("classic", 1)
	require.NoError(t, err)

	_, err = m.Spin(25, one)
	require.True(t, errors.Is(err, errs.ErrInvalidTierSize))
	_, err = m.Spin(20, decimal.RequireFromString("0.001"))
	require.Error(t, err)
	_, err = m.Spin(20, decimal.NewFromInt(1000))
	require.Error(t, err)
	_, err = m.Replay("!!", 20, one)
	require.Error(t, err)
}

func TestSimDeterministicBySeed(t *testing.T) {
	lab := newLab(t)
	a, err := lab.NewSimulator("classic", 2025)
	require.NoError(t, err)
	b, err := lab.NewSimulator("classic", 2025)
	require.NoError(t, err)

	ra, _, err := a.Sim(20, one, 2000, false)
	require.NoError(t, err)
	rb, _, err := b.Sim(20, one, 2000, false)
	require.NoError(t, err)
	require.Equal(t, ra.Summary, rb.Summary)
	require.Equal(t, 2000, ra.Summary.Rounds)
	require.Equal(t, "40000.00", ra.Summary.TotalBet)

	_, _, err = a.Sim(25, one, 10, false)
	require.Error(t, err)
	_, _, err = a.Sim(20, one, 0, false)
	require.Error(t, err)
}

func TestSimMPMergesWorkers(t *testing.T) {
	lab := newLab(t)
	a, err := lab.NewSimulator("classic", 11)
	require.NoError(t, err)
	b, err := lab.NewSimulator("classic", 11)
	require.NoError(t, err)

	ra, _, err := a.SimMP(40, one, 500, 4, false)
	require.NoError(t, err)
	require.Equal(t, 2000, ra.Summary.Rounds)
	rb, _, err := b.SimMP(40, one, 500, 4, false)
	require.NoError(t, err)
	require.Equal(t, ra.Summary.TotalWin, rb.Summary.TotalWin)

	_, _, err = a.SimMP(40, one, 10, 0, false)
	require.Error(t, err)
}

func TestSimPlayers(t *testing.T) {
	lab := newLab(t)
	s, err := lab.NewSimulator("compact", 3)
	require.NoError(t, err)

	st, est, _, err := s.SimPlayers(3, 30, 50, 10, one, 200, false)
	require.NoError(t, err)
	require.Equal(t, 30, est.Players)
	require.Positive(t, st.Summary.Rounds)
	require.LessOrEqual(t, st.Summary.Rounds, 30*200)
	total := est.SessionStat.Bust.Hat + est.SessionStat.Cashout.Hat + est.SessionStat.Alive.Hat
	require.InDelta(t, 1.0, total, 1e-9)

	_, _, _, err = s.SimPlayers(1, 0, 50, 10, one, 200, false)
	require.Error(t, err)
}

func TestSimReelsSettlesOnTarget(t *testing.T) {
	lab := newLab(t)
	s, err := lab.NewSimulator("classic", 8)
	require.NoError(t, err)

	st, _, err := s.SimReels(20, one, 30, time.Second/60, false)
	require.NoError(t, err)
	require.Equal(t, 30, st.Summary.Rounds)

	_, _, err = s.SimReels(20, one, 1, 0, false)
	require.Error(t, err)
	_, _, err = s.SimReels(20, decimal.NewFromInt(1000), 1, time.Second/60, false)
	require.Error(t, err)
}

func TestSeedMakerDerivesDistinctSeeds(t *testing.T) {
	a, b := newSeedMaker(42), newSeedMaker(42)
	seen := map[int64]bool{}
	for range 1000 {
		x := a.next()
		require.Equal(t, x, b.next())
		require.GreaterOrEqual(t, x, int64(0))
		require.False(t, seen[x])
		seen[x] = true
	}
}
