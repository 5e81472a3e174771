package slot

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelkit/sdk/calc"
	"github.com/zintix-labs/reelkit/sdk/reel"
	"github.com/zintix-labs/reelkit/spec"
)

// Presenter 接收每個 tick 的畫面與每局結果。Session 在 Advance 內同步呼叫，實作不應阻塞。
type Presenter interface {
	OnFrame(Frame)
	OnOutcome(*Outcome)
}

// NopPresenter 什麼都不做（預設值）
type NopPresenter struct{}

func (NopPresenter) OnFrame(Frame)      {}
func (NopPresenter) OnOutcome(*Outcome) {}

// Frame 一個 tick 的畫面：每軸的帶子格子、狀態與回彈位移
type Frame struct {
	Round uuid.UUID    `json:"round"`
	Reels []reel.State `json:"reels"`
}

// Round 一局開始時決定的內容。Target 即停輪後的可見盤面。
type Round struct {
	ID            uuid.UUID       `json:"id"`
	Target        *spec.Grid      `json:"target"`
	Lines         int             `json:"lines"`
	BetPerLine    decimal.Decimal `json:"bet_per_line"`
	TotalBet      decimal.Decimal `json:"total_bet"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
}

// Outcome 一局結算
type Outcome struct {
	RoundID    uuid.UUID       `json:"round_id"`
	Grid       *spec.Grid      `json:"grid"`
	Lines      int             `json:"lines"`
	BetPerLine decimal.Decimal `json:"bet_per_line"`
	TotalBet   decimal.Decimal `json:"total_bet"`
	Result     *calc.Result    `json:"result"`
	Balance    decimal.Decimal `json:"balance"` // 結算後餘額
	Cells      []spec.Cell     `json:"cells"`   // 需高亮的中獎格
}

// Win 本局贏分
func (o *Outcome) Win() decimal.Decimal { return o.Result.TotalWin }

// PresenterFunc 把兩個函式組成 Presenter，任一可為 nil
type PresenterFunc struct {
	Frame   func(Frame)
	Outcome func(*Outcome)
}

func (p PresenterFunc) OnFrame(f Frame) {
	if p.Frame != nil {
		p.Frame(f)
	}
}

func (p PresenterFunc) OnOutcome(o *Outcome) {
	if p.Outcome != nil {
		p.Outcome(o)
	}
}
