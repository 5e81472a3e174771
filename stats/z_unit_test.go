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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/reelkit/stats"
)

// buildStatReport 以每局贏分（單位：線押注）組出報表，lines 為每局押注單位
func buildStatReport(lines int, wins []int) *stats.StatReport {
	bucket := stats.Buckets.For(lines)
	twc := make([]int, stats.Buckets.Len())
	var totalWin, sq float64
	maxWin := 0
	for _, w := range wins {
		twc[bucket.Index(w)]++
		totalWin += float64(w)
		sq += float64(w) * float64(w)
		maxWin = max(maxWin, w)
	}
	l := float64(lines)
	rep := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    "TestGame",
			Lines:       lines,
			NoWinRounds: twc[0],
			Rounds:      len(wins),
		},
		Mult: &stats.MultReport{
			TotalWinMult:      totalWin / l,
			TotalWinMultSqSum: sq / (l * l),
			MaxWinMult:        float64(maxWin) / l,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.Labels(),
			TotalWinCollect: twc,
			TotalWinDist:    make([]float64, len(twc)),
		},
		Player: &stats.PlayerReport{},
	}
	rep.Done()
	return rep
}

func TestStatReportCoreMetrics(t *testing.T) {
	lines := 40
	rep := buildStatReport(lines, []int{lines, 2 * lines})

	wantRTP := 1.5
	assert.InDelta(t, wantRTP, rep.Rtp(), 1e-12)

	// 贏倍 1 與 2
	variance := ((1.0 + 4.0) - 9.0/2) / 1
	wantStd := math.Sqrt(variance)
	assert.InDelta(t, wantStd, rep.Std(), 1e-12)
	assert.InDelta(t, wantStd/wantRTP, rep.Cv(), 1e-12)

	se := wantStd / math.Sqrt(2)
	assert.InDelta(t, wantRTP-1.959963984540054*se, rep.Summary.RtpCI.Lo, 1e-9)
	assert.InDelta(t, wantRTP+1.959963984540054*se, rep.Summary.RtpCI.Hi, 1e-9)

	require.Equal(t, len(rep.Dist.WinBucket), len(rep.Dist.TotalWinCollect))
	total := 0
	for _, c := range rep.Dist.TotalWinCollect {
		total += c
	}
	require.Equal(t, rep.Summary.Rounds, total)

	rep.Done()
	assert.Equal(t, wantRTP, rep.Rtp())
}

func TestHitRateClopperPearson(t *testing.T) {
	rep := buildStatReport(20, []int{0, 0, 10, 30})
	assert.InDelta(t, 0.5, rep.Summary.HitRate, 1e-12)
	assert.Less(t, rep.Summary.HitRateCI.Lo, 0.5)
	assert.Greater(t, rep.Summary.HitRateCI.Hi, 0.5)
	// 2/4 的 CP 區間約為 [0.0676, 0.9324]
	assert.InDelta(t, 0.0676, rep.Summary.HitRateCI.Lo, 1e-3)
	assert.InDelta(t, 0.9324, rep.Summary.HitRateCI.Hi, 1e-3)

	none := buildStatReport(20, []int{0, 0, 0})
	assert.Equal(t, 0.0, none.Summary.HitRate)
	assert.Equal(t, 0.0, none.Summary.HitRateCI.Lo)
}

func TestWinBucketIndex(t *testing.T) {
	b := stats.Buckets.For(20)
	labels := stats.Buckets.Labels()
	cases := map[int]string{
		0:        "[0,0]",
		1:        "(0,1)",
		19:       "(0,1)",
		20:       "[1,2)",
		39:       "[1,2)",
		40:       "[2,5)",
		199:      "[5,10)",
		39999:    "[1000,2000)",
		40000:    "[2000,10000)",
		199999:   "[2000,10000)",
		200000:   "[10000,+inf)",
		10000000: "[10000,+inf)",
	}
	for win, want := range cases {
		assert.Equal(t, want, labels[b.Index(win)], "win=%d", win)
	}
	assert.Same(t, b, stats.Buckets.For(20))
	assert.Equal(t, 20, b.Lines())
}

func TestRenderers(t *testing.T) {
	rep := buildStatReport(20, []int{0, 20, 100, 0})

	var jb bytes.Buffer
	require.NoError(t, rep.WriteWith(&jb, &stats.JsonStatReportRender{}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jb.Bytes(), &decoded))
	require.Contains(t, decoded, "Summary")

	var yb bytes.Buffer
	require.NoError(t, rep.WriteWith(&yb, &stats.YAMLStatReportRender{}))
	assert.Contains(t, yb.String(), "total_win_collect: [")
	assert.Contains(t, yb.String(), "game_name: TestGame")

	var zb bytes.Buffer
	require.NoError(t, rep.WriteWith(&zb, &stats.ZstdStatReportRender{Inner: &stats.YAMLStatReportRender{}}))
	raw, err := stats.DecodeZstd(&zb)
	require.NoError(t, err)
	assert.Equal(t, yb.String(), string(raw))
}

func TestRenderFor(t *testing.T) {
	cases := map[string]any{
		"out.json":     &stats.JsonStatReportRender{},
		"out.YAML":     &stats.YAMLStatReportRender{},
		"out.yml":      &stats.YAMLStatReportRender{},
		"out.zst":      &stats.ZstdStatReportRender{},
		"out.yaml.zst": &stats.ZstdStatReportRender{},
	}
	for path, want := range cases {
		r, err := stats.RenderFor(path)
		require.NoError(t, err, path)
		assert.IsType(t, want, r, path)
	}
	r, _ := stats.RenderFor("out.yaml.zst")
	assert.IsType(t, &stats.YAMLStatReportRender{}, r.(*stats.ZstdStatReportRender).Inner)

	_, err := stats.RenderFor("out.csv")
	require.Error(t, err)
}

func TestStdOutTable(t *testing.T) {
	rep := buildStatReport(20, []int{0, 20})
	rep.Symbols = []stats.SymbolReport{{Symbol: "seven", Hits: []int{0, 0, 1, 0, 0}, RtpShare: 0.5}}
	var buf bytes.Buffer
	rep.StdOut(&buf, 2*time.Second)
	out := buf.String()
	assert.Contains(t, out, "sps : 1 spins/sec")
	assert.Contains(t, out, "TestGame")
	assert.Contains(t, out, "Total RTP")
	assert.Contains(t, out, "3x:1")

	// 每一列等寬
	var width int
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "|") && !strings.HasPrefix(line, "+") {
			continue
		}
		if width == 0 {
			width = len(line)
		}
		if strings.Contains(line, "TestGame") || strings.Contains(line, "Total RTP") {
			assert.Equal(t, width, len(line), line)
		}
	}
}

func TestEstimatorRtpAndSession(t *testing.T) {
	lines := 100
	reports := make([]*stats.StatReport, 0, 100)
	for i := 0; i < 100; i++ {
		reports = append(reports, buildStatReport(lines, []int{i})) // RTP = i/100
	}
	est := stats.EstimatorPlayerExp(reports)
	assert.Equal(t, 100, est.Players)
	assert.InDelta(t, 0.5, est.RtpStat.ExpMedian.Hat, 0.05)
	assert.InDelta(t, 0.9, est.RtpStat.ExpPerc.ExpP90.Hat, 0.05)
	assert.InDelta(t, 0.495, est.RtpStat.Mean, 1e-9)
	assert.InDelta(t, 0.31, est.RtpStat.RtpPerc.Rtp30.Hat, 1e-9)
	assert.LessOrEqual(t, est.RtpStat.ExpMedian.CI.Lo, est.RtpStat.ExpMedian.Hat)
	assert.GreaterOrEqual(t, est.RtpStat.ExpMedian.CI.Hi, est.RtpStat.ExpMedian.Hat)

	samples := make([]*stats.StatReport, 10)
	for i := range samples {
		r := buildStatReport(lines, []int{0})
		switch {
		case i < 3:
			r.Player.Bust, r.Player.Alive = true, false
		case i < 5:
			r.Player.Cashout, r.Player.Alive = true, false
		default:
			r.Player.Alive = true
		}
		samples[i] = r
	}
	est2 := stats.EstimatorPlayerExp(samples)
	assert.Equal(t, 0.3, est2.SessionStat.Bust.Hat)
	assert.Equal(t, 0.2, est2.SessionStat.Cashout.Hat)
	assert.Equal(t, 0.5, est2.SessionStat.Alive.Hat)
	assert.Equal(t, 1.0, est2.EventStat.Bucket.BucketCount[0].One.Hat)

	var buf bytes.Buffer
	est2.Out(&buf)
	assert.Contains(t, buf.String(), "Session Outcome")

	var yb bytes.Buffer
	require.NoError(t, (&stats.YAMLEstimatorRender{}).Write(&yb, est2))
	assert.Contains(t, yb.String(), "bust:")
}
