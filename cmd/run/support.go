package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit"
	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/logger"
	"github.com/zintix-labs/reelkit/sdk/perf"
	"github.com/zintix-labs/reelkit/spec"
	"github.com/zintix-labs/reelkit/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg = new(config)

type config struct {
	config  string
	game    string
	list    bool
	spins   int
	lines   int
	bet     string
	seed    int64
	worker  int
	players int
	init    int
	reels   bool
	fps     int
	out     string
	log     string
	showpb  bool
	pprof   perf.Mode
}

type pprofFlag struct{ p *perf.Mode }

func (f pprofFlag) String() string {
	if f.p == nil {
		return ""
	}
	return string(*f.p)
}

func (f pprofFlag) Set(s string) error {
	m, err := perf.ParseMode(s)
	if err != nil {
		return err
	}
	*f.p = m
	return nil
}

func bindVar() {
	flag.StringVar(&cfg.config, "config", "", "game config file (.yaml/.yml/.json); empty uses the embedded game")
	flag.StringVar(&cfg.game, "game", "classic", "embedded game name")
	flag.BoolVar(&cfg.list, "list", false, "list embedded games and exit")
	flag.IntVar(&cfg.spins, "spins", 1000000, "spins per worker (per player with -players)")
	flag.IntVar(&cfg.lines, "lines", 0, "line tier; 0 uses default_lines")
	flag.StringVar(&cfg.bet, "bet", "", "bet per line; empty uses bet_per_line")
	flag.Int64Var(&cfg.seed, "seed", 0, "int64 seed; 0 draws a random seed")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.players, "players", 1, "number of players (>1 runs the player estimator)")
	flag.IntVar(&cfg.init, "init", 200, "player starting balance in total bets")
	flag.BoolVar(&cfg.reels, "reels", false, "drive full reel animations tick by tick")
	flag.IntVar(&cfg.fps, "fps", 60, "ticks per second for -reels")
	flag.StringVar(&cfg.out, "out", "", "write report to file (.json, .yaml, .zst)")
	flag.StringVar(&cfg.log, "log", "silence", "log mode: dev, prod, silence")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	flag.Var(pprofFlag{&cfg.pprof}, "p", "pprof: '', cpu, heap, allocs")
	flag.Parse()
}

func (c *config) valid() error {
	if c.worker < 1 {
		return errs.NewWarn("workers must > 0")
	}
	if c.players < 1 {
		return errs.NewWarn("players must > 0")
	}
	if c.spins < 1 {
		return errs.NewWarn("spins must > 0")
	}
	if c.players > 1 && c.init < 1 {
		return errs.NewWarn("init must >= 1")
	}
	if c.reels && c.fps < 1 {
		return errs.NewWarn("fps must > 0")
	}
	if c.players > 100000 {
		fmt.Fprintf(os.Stderr, "too many players: %d resized to 100k\n", c.players)
		c.players = 100000
	}
	// 一位玩家玩到 15000 轉已是長期表現，直接模擬機台即可
	if c.players > 1 && c.spins > 15000 {
		fmt.Fprintf(os.Stderr, "too many spins per player: %d resized to 15k\n", c.spins)
		c.spins = 15000
	}
	return nil
}

func execute() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	mode, err := logger.ParseMode(cfg.log)
	if err != nil {
		return err
	}
	log, h := logger.NewAsync(1024, mode)
	defer h.Close()

	lab, err := reelkit.NewAuto(nil, reelkit.WithLogger(log))
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	if cfg.list {
		sum, err := lab.Summary()
		if err != nil {
			return err
		}
		for _, s := range sum {
			p.Printf("%-12s %-16s %dx%d tiers=%v\n", s.Name, s.Config, s.Reels, s.Rows, s.Tiers)
		}
		return nil
	}

	gs, err := loadSetting(lab)
	if err != nil {
		return err
	}
	lines := cfg.lines
	if lines == 0 {
		lines = gs.LineSetting.DefaultLines
	}
	bet := gs.BetSetting.BetPerLine
	if cfg.bet != "" {
		if bet, err = decimal.NewFromString(cfg.bet); err != nil {
			return errs.Warnf("bad -bet %q: %v", cfg.bet, err)
		}
	}
	sim, err := lab.NewSimulatorBySetting(gs, cfg.seed)
	if err != nil {
		return err
	}

	green, reset := "\033[1;32m", "\033[0m"
	var (
		st   *stats.StatReport
		est  *stats.EstimatorPlayers
		used time.Duration
	)
	switch {
	case cfg.reels:
		dt := time.Second / time.Duration(cfg.fps)
		p.Printf("%s[GAME:%s] [REELS fps=%d] [LINES:%d BET:%s] [SPINS:%d] [SEED:%d]%s\n", green, gs.GameName, cfg.fps, lines, bet, cfg.spins, sim.InitSeed(), reset)
		st, used, err = sim.SimReels(lines, bet, cfg.spins, dt, cfg.showpb)
	case cfg.players > 1:
		p.Printf("%s[WORKERS:%d] [GAME:%s] [PLAYERS:%d INIT:%d LINES:%d BET:%s SPINS:%d] [SEED:%d]%s\n", green, cfg.worker, gs.GameName, cfg.players, cfg.init, lines, bet, cfg.spins, sim.InitSeed(), reset)
		st, est, used, err = sim.SimPlayers(cfg.worker, cfg.players, cfg.init, lines, bet, cfg.spins, cfg.showpb)
	case cfg.worker > 1:
		p.Printf("%s[WORKERS:%d] [GAME:%s] [LINES:%d BET:%s] [SPINS:%d] [SEED:%d]%s\n", green, cfg.worker, gs.GameName, lines, bet, cfg.worker*cfg.spins, sim.InitSeed(), reset)
		st, used, err = sim.SimMP(lines, bet, cfg.spins, cfg.worker, cfg.showpb)
	default:
		p.Printf("%s[GAME:%s] [LINES:%d BET:%s] [SPINS:%d] [SEED:%d]%s\n", green, gs.GameName, lines, bet, cfg.spins, sim.InitSeed(), reset)
		st, used, err = sim.Sim(lines, bet, cfg.spins, cfg.showpb)
	}
	if err != nil {
		return err
	}
	st.StdOut(os.Stdout, used)
	if est != nil {
		est.Out(os.Stdout)
	}
	if cfg.out != "" {
		return writeReport(cfg.out, st)
	}
	return nil
}

// loadSetting -config 優先，否則取內建遊戲
func loadSetting(lab *reelkit.Lab) (*spec.GameSetting, error) {
	if cfg.config == "" {
		return lab.GameSetting(cfg.game)
	}
	raw, err := os.ReadFile(cfg.config)
	if err != nil {
		return nil, errs.Wrap(err, "read config")
	}
	switch strings.ToLower(filepath.Ext(cfg.config)) {
	case ".yaml", ".yml":
		return spec.GetGameSettingByYAML(raw)
	case ".json":
		return spec.GetGameSettingByJSON(raw)
	}
	return nil, errs.Warnf("unsupported config format: %q", cfg.config)
}

func writeReport(path string, st *stats.StatReport) error {
	rep, err := stats.RenderFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create report file")
	}
	if err := st.WriteWith(f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, "close report file")
	}
	fmt.Fprintln(os.Stderr, "report written to", path)
	return nil
}
