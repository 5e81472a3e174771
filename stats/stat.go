package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// z975 雙尾 95% 的常態分位數
var z975 = distuv.UnitNormal.Quantile(0.975)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"lo"`
	Hi float64 `json:"Hi" yaml:"hi"`
}

// StatReport 模擬統計報告。金額欄位以字串輸出，避免浮點誤差。
type StatReport struct {
	Summary *SummaryReport `json:"Summary" yaml:"summary"`
	Mult    *MultReport    `json:"Mult"    yaml:"mult"`
	Dist    *DistReport    `json:"Dist"    yaml:"dist"`
	Symbols []SymbolReport `json:"Symbols,omitempty" yaml:"symbols,omitempty"`
	Player  *PlayerReport  `json:"Player,omitempty"  yaml:"player,omitempty"`
	isDone  bool
}

type SummaryReport struct {
	GameName     string  `json:"GameName"     yaml:"game_name"`
	Lines        int     `json:"Lines"        yaml:"lines"`
	BetPerLine   string  `json:"BetPerLine"   yaml:"bet_per_line"`
	SpinBet      string  `json:"SpinBet"      yaml:"spin_bet"` // 每局總押注
	TotalBet     string  `json:"TotalBet"     yaml:"total_bet"`
	TotalWin     string  `json:"TotalWin"     yaml:"total_win"`
	RTP          float64 `json:"RTP"          yaml:"rtp"`
	RtpCI        CI      `json:"RtpCI"        yaml:"rtp_ci"`
	Std          float64 `json:"Std"          yaml:"std"`
	Cv           float64 `json:"Cv"           yaml:"cv"`
	HitRate      float64 `json:"HitRate"      yaml:"hit_rate"`
	HitRateCI    CI      `json:"HitRateCI"    yaml:"hit_rate_ci"`
	NoWinRounds  int     `json:"NoWinRounds"  yaml:"no_win_rounds"`
	WinLines     int     `json:"WinLines"     yaml:"win_lines"`
	FullLines    int     `json:"FullLines"    yaml:"full_lines"` // 整條線全中
	FullLineRate float64 `json:"FullLineRate" yaml:"full_line_rate"`
	Rounds       int     `json:"Rounds"       yaml:"rounds"`
}

// MultReport 以「每局總押注」為單位的贏倍，Std 由平方和推得
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"      yaml:"total_win_mult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum" yaml:"total_win_mult_sq_sum"`
	MaxWinMult        float64 `json:"MaxWinMult"        yaml:"max_win_mult"`
}

// DistReport 贏倍分桶落點
type DistReport struct {
	WinBucket       []string  `json:"WinBucket"       yaml:"win_bucket"`
	TotalWinCollect []int     `json:"TotalWinCollect" yaml:"total_win_collect"`
	TotalWinDist    []float64 `json:"TotalWinDist"    yaml:"total_win_dist"`
}

// SymbolReport 單一圖標的中獎線統計，Hits[k] 為連 k+1 個的次數
type SymbolReport struct {
	Symbol   string  `json:"Symbol"   yaml:"symbol"`
	Hits     []int   `json:"Hits"     yaml:"hits"`
	RtpShare float64 `json:"RtpShare" yaml:"rtp_share"` // 對整體 RTP 的貢獻
}

// PlayerReport 玩家歷程，需使用 RecordWithPlayer 才會統計
type PlayerReport struct {
	InitBalance string `json:"InitBalance" yaml:"init_balance"`
	Balance     string `json:"Balance"     yaml:"balance"`
	MaxBalance  string `json:"MaxBalance"  yaml:"max_balance"`
	MinBalance  string `json:"MinBalance"  yaml:"min_balance"`
	Bust        bool   `json:"Bust"        yaml:"bust"`
	Cashout     bool   `json:"Cashout"     yaml:"cashout"`
	Alive       bool   `json:"Alive"       yaml:"alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累計值算出衍生統計，只會執行一次
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	if n := s.Summary.Rounds; n > 0 {
		hits := n - s.Summary.NoWinRounds
		s.Summary.HitRate, s.Summary.HitRateCI = proportionCICP(hits, n, 0.95)
		s.Summary.FullLineRate = float64(s.Summary.FullLines) / float64(n)
	}
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}
	s.isDone = true
}

// Rtp 總贏分 / 總押注
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 {
		return 0
	}
	return s.Mult.TotalWinMult / float64(s.Summary.Rounds)
}

// Std 單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	n := float64(s.Summary.Rounds)
	sum := s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - sum*sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci RTP 的 95% 常態近似信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{Lo: max(rtp-z975*se, 0), Hi: rtp + z975*se}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 印出用時與摘要表
func (s *StatReport) StdOut(w io.Writer, used time.Duration) {
	s.Done()
	fmt.Fprint(w, formatDuration(used, s.Summary.Rounds))
	keys, msg := s.fmtBasic()
	fmt.Fprintln(w, fmtTable(s.Summary.GameName, keys, msg))
	if len(s.Symbols) > 0 {
		keys, msg = s.fmtSymbols()
		fmt.Fprintln(w, fmtTable("symbols", keys, msg))
	}
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":    sm.GameName,
		"Lines":        p.Sprintf("%d", sm.Lines),
		"Bet / Line":   sm.BetPerLine,
		"Spin Bet":     sm.SpinBet,
		"Total Rounds": p.Sprintf("%d", sm.Rounds),
		"Total RTP":    p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Hit Rate":     p.Sprintf("%.2f %% [%.2f%%,%.2f%%]", 100.0*sm.HitRate, 100.0*sm.HitRateCI.Lo, 100.0*sm.HitRateCI.Hi),
		"Total Bet":    sm.TotalBet,
		"Total Win":    sm.TotalWin,
		"Max Win":      p.Sprintf("%.2fx", s.Mult.MaxWinMult),
		"Win Lines":    p.Sprintf("%d", sm.WinLines),
		"Full Lines":   p.Sprintf("%d", sm.FullLines),
		"STD":          p.Sprintf("%.3f", sm.Std),
		"CV":           p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Lines", "Bet / Line", "Spin Bet", "Total Rounds", "Total RTP", "RTP 95% CI", "Hit Rate", "Total Bet", "Total Win", "Max Win", "Win Lines", "Full Lines", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtSymbols() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Symbols))
	msg := make(map[string]string, len(s.Symbols))
	for _, sr := range s.Symbols {
		parts := make([]string, 0, len(sr.Hits))
		for k, n := range sr.Hits {
			if n > 0 {
				parts = append(parts, p.Sprintf("%dx:%d", k+1, n))
			}
		}
		keys = append(keys, sr.Symbol)
		msg[sr.Symbol] = p.Sprintf("%6.2f%%  %s", 100*sr.RtpShare, strings.Join(parts, " "))
	}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) + " | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
