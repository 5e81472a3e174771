// Command run 對一款遊戲跑 RTP 模擬並輸出報表。
//
//	go run ./cmd/run -game classic -spins 1000000 -worker 8
//	go run ./cmd/run -config ./my.yaml -lines 40 -bet 0.5 -out report.yaml.zst
//	go run ./cmd/run -game compact -reels -fps 60 -spins 2000
package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/reelkit/errs"
	"github.com/zintix-labs/reelkit/sdk/perf"
)

func main() {
	bindVar()
	path, err := perf.Run(execute, cfg.pprof, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(exitCode(err))
	}
	if path != "" {
		fmt.Fprintln(os.Stderr, "profile written to", path)
	}
}

// exitCode 參數或設定錯誤回 2，其餘回 1
func exitCode(err error) int {
	if errs.CodeOf(err) == errs.CodeInvalidConfig {
		return 2
	}
	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return 2
	}
	return 1
}
