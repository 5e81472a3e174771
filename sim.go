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
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/recorder"
	"github.com/zintix-labs/reelkit/sdk/core"
	"github.com/zintix-labs/reelkit/sdk/slot"
	"github.com/zintix-labs/reelkit/spec"
	"github.com/zintix-labs/reelkit/stats"
)

const capPrepare int = 100

// maxTicks 單局 tick 上限，超過視為轉輪卡住
const maxTicks = 1 << 20

// Simulator 以多個 Engine 平行抽盤面與結算並紀錄統計
type Simulator struct {
	GameName  string
	initBets  int // 玩家帶入幾局的總押注
	gs        *spec.GameSetting
	pf        core.PRNGFactory
	log       *slog.Logger
	initSeed  int64
	seedmaker *seedMaker
	eBuf      []*slot.Engine           // 併發 worker 的引擎
	rBuf      []*recorder.SpinRecorder // 併發紀錄員
	sBuf      []*stats.StatReport      // 玩家報表（僅 SimPlayers）
}

func newSimulator(gs *spec.GameSetting, pf core.PRNGFactory, seed int64, log *slog.Logger) (*Simulator, error) {
	s := &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		pf:        pf,
		log:       log,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		eBuf:      make([]*slot.Engine, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	e, err := slot.NewEngine(gs, core.New(pf.New(seed)))
	if err != nil {
		return nil, err
	}
	s.eBuf[0] = e
	return s, nil
}

func (s *Simulator) InitSeed() int64 { return s.initSeed }

// Sim 單線模擬：一個引擎連續跑 rounds 局
func (s *Simulator) Sim(lines int, bet decimal.Decimal, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	r, err := recorder.NewSpinRecorder(s.gs, lines, bet, 0)
	if err != nil {
		return nil, 0, err
	}
	e := s.eBuf[0]
	g := newGrid(s.gs)

	bar := newBar(rounds, showpb)
	for i := 0; i < rounds; i++ {
		e.SampleInto(g)
		res, err := e.Evaluate(g, lines, bet)
		if err != nil {
			return nil, 0, err
		}
		r.Record(res)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	st := r.Done()
	s.logDone("sim", st, used)
	return st, used, nil
}

// SimMP 平行執行 mp 個引擎，總計 rounds*mp 局，合併後回傳
func (s *Simulator) SimMP(lines int, bet decimal.Decimal, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepareEngines(mp); err != nil {
		return nil, 0, err
	}
	for len(s.rBuf) < mp {
		r, err := recorder.NewSpinRecorder(s.gs, lines, bet, 0)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			e := s.eBuf[i]
			st := s.rBuf[i]
			g := newGrid(s.gs)
			for range rounds {
				e.SampleInto(g)
				// 線數已由 recorder 驗證過
				res, _ := e.Evaluate(g, lines, bet)
				st.Record(res)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	st := merged.Done()
	s.logDone("sim_mp", st, used)
	return st, used, nil
}

// SimPlayers 模擬多個玩家各自帶入 initBets 局的押注，最多玩 rounds 局，
// 產出機台報表與玩家分布。
func (s *Simulator) SimPlayers(mp int, players int, initBets int, lines int, bet decimal.Decimal, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || initBets < 1 || rounds < 1 || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	s.initBets = initBets

	if err := s.prepareEngines(mp); err != nil {
		return nil, nil, 0, err
	}
	s.sBuf = make([]*stats.StatReport, players)
	for len(s.rBuf) < players {
		r, err := recorder.NewSpinRecorder(s.gs, lines, bet, s.initBets)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	jobs := make(chan *recorder.SpinRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(players, showpb)
	for w := 0; w < mp; w++ {
		go simPlayer(wg, s.eBuf[w], newGrid(s.gs), jobs, lines, bet, rounds, bar)
	}
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	merged, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := merged.Done()
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	s.logDone("sim_players", st, used)
	return st, est, used, nil
}

func simPlayer(wg *sync.WaitGroup, e *slot.Engine, g *spec.Grid, jobs <-chan *recorder.SpinRecorder, lines int, bet decimal.Decimal, rounds int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs {
		for range rounds {
			e.SampleInto(g)
			res, _ := e.Evaluate(g, lines, bet)
			if j.RecordWithPlayer(res) {
				break
			}
		}
		bar.Increment()
	}
}

// SimReels 以完整的 tick 驅動 Session 跑 rounds 局。
// 每局定格後的盤面必須等於開局抽出的目標盤面，否則回傳錯誤。
// 錢包不足時自動補回起始餘額。
func (s *Simulator) SimReels(lines int, bet decimal.Decimal, rounds int, dt time.Duration, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if dt <= 0 {
		return nil, 0, errs.Warnf("tick must be positive, got %s", dt)
	}
	r, err := recorder.NewSpinRecorder(s.gs, lines, bet, 0)
	if err != nil {
		return nil, 0, err
	}
	ss, err := slot.NewSession(s.gs, core.New(s.pf.New(s.seedmaker.next())), slot.WithLogger(s.log))
	if err != nil {
		return nil, 0, err
	}
	if err := ss.SetLines(lines); err != nil {
		return nil, 0, err
	}
	if !ss.ChangeBetPerLine(bet.Sub(ss.BetPerLine())) || !ss.BetPerLine().Equal(bet) {
		return nil, 0, errs.Warnf("bet per line %s out of range", bet)
	}
	topUp := s.gs.BetSetting.StartingBalance
	if topUp.LessThan(ss.TotalBet()) {
		topUp = ss.TotalBet()
	}

	bar := newBar(rounds, showpb)
	for i := 0; i < rounds; i++ {
		if ss.Balance().LessThan(ss.TotalBet()) {
			if err := ss.Deposit(topUp); err != nil {
				return nil, 0, err
			}
		}
		rd, err := ss.StartSpin()
		if err != nil {
			return nil, 0, err
		}
		var out *slot.Outcome
		for t := 0; t < maxTicks && out == nil; t++ {
			out = ss.Advance(dt)
		}
		if out == nil {
			return nil, 0, errs.NewFatal("reels never stopped")
		}
		if !out.Grid.Equal(rd.Target) {
			return nil, 0, errs.NewFatal("settled grid differs from round target: " + rd.ID.String())
		}
		r.Record(out.Result)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	st := r.Done()
	s.logDone("sim_reels", st, used)
	return st, used, nil
}

func (s *Simulator) prepareEngines(n int) error {
	for len(s.eBuf) < n {
		e, err := slot.NewEngine(s.gs, core.New(s.pf.New(s.seedmaker.next())))
		if err != nil {
			return err
		}
		s.eBuf = append(s.eBuf, e)
	}
	return nil
}

func (s *Simulator) logDone(kind string, st *stats.StatReport, used time.Duration) {
	s.log.Info("simulation done",
		slog.String("kind", kind),
		slog.String("game", s.GameName),
		slog.Int("rounds", st.Summary.Rounds),
		slog.Float64("rtp", st.Summary.RTP),
		slog.Duration("used", used),
	)
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.initBets = 0
}

func newGrid(gs *spec.GameSetting) *spec.Grid {
	return spec.NewGrid(gs.ScreenSetting.Reels, gs.ScreenSetting.Rows)
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.StartNew(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar
}

const mask63 = uint64(1<<63) - 1

// seedMaker 由 initSeed 派生每個 worker 的子 seed
type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 走全週期 LCG 後以可逆 mix63 打散。可被多個 goroutine 同時呼叫，state 以 CAS 推進。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 xor-shift 與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
