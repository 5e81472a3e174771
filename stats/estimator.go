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

package stats

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// EstimatorPlayers 玩家體驗評估：每位玩家一份 StatReport
type EstimatorPlayers struct {
	Players     int         `json:"Players"     yaml:"players"`
	RtpStat     RtpStat     `json:"RtpStat"     yaml:"rtp_stat"`
	EventStat   EventStat   `json:"EventStat"   yaml:"event_stat"`
	SessionStat SessionStat `json:"SessionStat" yaml:"session_stat"`
}

// RtpStat 玩家 RTP 的分布
type RtpStat struct {
	Mean      float64   `json:"Mean"      yaml:"mean"`
	Std       float64   `json:"Std"       yaml:"std"`
	ExpMedian PointStat `json:"ExpMedian" yaml:"exp_median"`
	ExpPerc   ExpPerc   `json:"ExpPerc"   yaml:"exp_perc"` // 最差 10% / 33% ... 玩家的 RTP
	RtpPerc   RtpPerc   `json:"RtpPerc"   yaml:"rtp_perc"` // RTP 不超過 30% / 50% ... 的玩家比例
}

type ExpPerc struct {
	ExpP10 PointStat `json:"ExpP10" yaml:"p10"`
	ExpP33 PointStat `json:"ExpP33" yaml:"p33"`
	ExpP67 PointStat `json:"ExpP67" yaml:"p67"`
	ExpP90 PointStat `json:"ExpP90" yaml:"p90"`
}

type RtpPerc struct {
	Rtp30  PointStat `json:"Rtp30"  yaml:"rtp30"`
	Rtp50  PointStat `json:"Rtp50"  yaml:"rtp50"`
	Rtp70  PointStat `json:"Rtp70"  yaml:"rtp70"`
	Rtp100 PointStat `json:"Rtp100" yaml:"rtp100"`
}

// PointStat 點估計與信賴區間
type PointStat struct {
	Hat float64 `json:"Hat" yaml:"hat"`
	CI  CI      `json:"CI"  yaml:"ci"`
}

// EventStat 事件敘事：整線全中次數、各贏倍桶的命中次數
type EventStat struct {
	FullLine EventCount  `json:"FullLine" yaml:"full_line"`
	Bucket   BucketEvent `json:"Bucket"   yaml:"bucket"`
}

// EventCount 每位玩家遇到 0 / 1 / 2 / 3+ 次的比例
type EventCount struct {
	Zero PointStat `json:"Zero" yaml:"zero"`
	One  PointStat `json:"One"  yaml:"one"`
	Two  PointStat `json:"Two"  yaml:"two"`
	More PointStat `json:"More" yaml:"more"`
}

type BucketEvent struct {
	BucketLabel []string     `json:"BucketLabel" yaml:"bucket_label"`
	BucketCount []EventCount `json:"BucketCount" yaml:"bucket_count"`
}

// SessionStat 玩家結局
type SessionStat struct {
	Bust    PointStat `json:"Bust"    yaml:"bust"`    // 破產
	Cashout PointStat `json:"Cashout" yaml:"cashout"` // 贏滿離場
	Alive   PointStat `json:"Alive"   yaml:"alive"`   // 打完指定局數
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 由每位玩家的報表彙整體驗分布。報表需帶 Player 區塊。
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{Players: n}
	if n == 0 {
		return out
	}

	// 1) RTP 敘事
	rtp := make([]float64, n)
	for i, s := range sts {
		s.Done()
		rtp[i] = s.Rtp()
	}
	sorted := append([]float64(nil), rtp...)
	sort.Float64s(sorted)

	out.RtpStat.Mean, out.RtpStat.Std = stat.MeanStdDev(rtp, nil)
	out.RtpStat.ExpMedian = quantileStat(sorted, 0.5)
	out.RtpStat.ExpPerc = ExpPerc{
		ExpP10: quantileStat(sorted, 0.10),
		ExpP33: quantileStat(sorted, 1.0/3.0),
		ExpP67: quantileStat(sorted, 2.0/3.0),
		ExpP90: quantileStat(sorted, 0.90),
	}
	out.RtpStat.RtpPerc = RtpPerc{
		Rtp30:  percentileStat(sorted, 0.30),
		Rtp50:  percentileStat(sorted, 0.50),
		Rtp70:  percentileStat(sorted, 0.70),
		Rtp100: percentileStat(sorted, 1.00),
	}

	// 2) 事件敘事
	full := make([]int, n)
	for i, s := range sts {
		full[i] = s.Summary.FullLines
	}
	out.EventStat.FullLine = eventCount(full)

	labels := Buckets.Labels()
	out.EventStat.Bucket = BucketEvent{BucketLabel: labels, BucketCount: make([]EventCount, len(labels))}
	cnt := make([]int, n)
	for bi := range labels {
		for i, s := range sts {
			cnt[i] = 0
			if bi < len(s.Dist.TotalWinCollect) {
				cnt[i] = s.Dist.TotalWinCollect[bi]
			}
		}
		out.EventStat.Bucket.BucketCount[bi] = eventCount(cnt)
	}

	// 3) 結局
	var bustK, cashK, aliveK int
	for _, s := range sts {
		if s.Player == nil {
			continue
		}
		if s.Player.Bust {
			bustK++
		}
		if s.Player.Cashout {
			cashK++
		}
		if s.Player.Alive {
			aliveK++
		}
	}
	out.SessionStat = SessionStat{
		Bust:    proportionStat(bustK, n),
		Cashout: proportionStat(cashK, n),
		Alive:   proportionStat(aliveK, n),
	}
	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

func eventCount(counts []int) EventCount {
	var c0, c1, c2, c3p int
	for _, c := range counts {
		switch {
		case c == 0:
			c0++
		case c == 1:
			c1++
		case c == 2:
			c2++
		default:
			c3p++
		}
	}
	n := len(counts)
	return EventCount{
		Zero: proportionStat(c0, n),
		One:  proportionStat(c1, n),
		Two:  proportionStat(c2, n),
		More: proportionStat(c3p, n),
	}
}

func proportionStat(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, 0.95)
	return PointStat{Hat: hat, CI: ci}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// percentileStat 估計 P(X <= x0)，sorted 需已排序
func percentileStat(sorted []float64, x0 float64) PointStat {
	k := sort.Search(len(sorted), func(i int) bool { return sorted[i] > x0 })
	return proportionStat(k, len(sorted))
}

// quantileStat 第 q 分位的點估計與 95% CI。
// CI 以 order statistic 的秩視為二項，經 Beta 反推 p 範圍再映射回樣本。
func quantileStat(sorted []float64, q float64) PointStat {
	n := len(sorted)
	if n == 0 {
		return PointStat{}
	}
	hat := stat.Quantile(q, stat.Empirical, sorted, nil)

	alpha := 0.05
	k := min(max(int(q*float64(n)), 1), n-1)
	if n == 1 {
		return PointStat{Hat: hat, CI: CI{Lo: hat, Hi: hat}}
	}
	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui--
	}
	ui = min(max(ui, 0), n-1)
	return PointStat{Hat: hat, CI: CI{Lo: sorted[li], Hi: sorted[ui]}}
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorPlayers) Out(w io.Writer) {
	rs := est.RtpStat
	keys := []string{"Players", "Mean RTP", "Std RTP", "Median RTP", "P10 RTP", "P33 RTP", "P67 RTP", "P90 RTP",
		"≤30% RTP (players)", "≤50% RTP (players)", "≤70% RTP (players)", "≤100% RTP (players)"}
	msg := map[string]string{
		"Players":             fmt.Sprintf("%d", est.Players),
		"Mean RTP":            fmtPct01(rs.Mean),
		"Std RTP":             fmtPct01(rs.Std),
		"Median RTP":          fmtHatCIpct01(rs.ExpMedian),
		"P10 RTP":             fmtHatCIpct01(rs.ExpPerc.ExpP10),
		"P33 RTP":             fmtHatCIpct01(rs.ExpPerc.ExpP33),
		"P67 RTP":             fmtHatCIpct01(rs.ExpPerc.ExpP67),
		"P90 RTP":             fmtHatCIpct01(rs.ExpPerc.ExpP90),
		"≤30% RTP (players)":  fmtHatCIpct01(rs.RtpPerc.Rtp30),
		"≤50% RTP (players)":  fmtHatCIpct01(rs.RtpPerc.Rtp50),
		"≤70% RTP (players)":  fmtHatCIpct01(rs.RtpPerc.Rtp70),
		"≤100% RTP (players)": fmtHatCIpct01(rs.RtpPerc.Rtp100),
	}
	fmt.Fprintln(w, fmtTable("RTP (Player Experience)", keys, msg))

	fl := est.EventStat.FullLine
	keys = []string{"0 times", "1 time", "2 times", "3+ times"}
	msg = map[string]string{
		"0 times":  fmtHatCIpct01(fl.Zero),
		"1 time":   fmtHatCIpct01(fl.One),
		"2 times":  fmtHatCIpct01(fl.Two),
		"3+ times": fmtHatCIpct01(fl.More),
	}
	fmt.Fprintln(w, fmtTable("Full line wins per player", keys, msg))

	fmt.Fprintln(w, "Buckets (per player hits in bucket)")
	for i, label := range est.EventStat.Bucket.BucketLabel {
		fmt.Fprintf(w, "  %-14s : %s\n", label, fmtEventCount(est.EventStat.Bucket.BucketCount[i]))
	}

	ss := est.SessionStat
	keys = []string{"Bust", "Cashout", "Alive"}
	msg = map[string]string{
		"Bust":    fmtHatCIpct01(ss.Bust),
		"Cashout": fmtHatCIpct01(ss.Cashout),
		"Alive":   fmtHatCIpct01(ss.Alive),
	}
	fmt.Fprintln(w, fmtTable("Session Outcome", keys, msg))
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(ps PointStat) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(ps.Hat), fmtPct01(ps.CI.Lo), fmtPct01(ps.CI.Hi))
}

func fmtEventCount(ec EventCount) string {
	return fmt.Sprintf("0x: %s | 1x: %s | 2x: %s | 3+x: %s",
		fmtPct01(ec.Zero.Hat), fmtPct01(ec.One.Hat), fmtPct01(ec.Two.Hat), fmtPct01(ec.More.Hat))
}
