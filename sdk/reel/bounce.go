package reel

import "time"

// Bounce 停輪後的回彈補間，與轉輪共用同一個 tick。
// 位移超過振幅就反向並乘上衰減，達到次數後歸零。
type Bounce struct {
	amp      float64
	speed0   float64
	damping  float64
	maxCount int

	offset float64
	speed  float64
	dir    float64
	count  int
	active bool
}

func NewBounce(amp, speed, damping float64, count int) Bounce {
	return Bounce{amp: amp, speed0: speed, damping: damping, maxCount: count}
}

func (b *Bounce) Start() {
	b.offset = 0
	b.speed = b.speed0
	b.dir = 1
	b.count = 0
	b.active = b.maxCount > 0 && b.amp > 0 && b.speed0 > 0
}

func (b *Bounce) Reset() {
	b.offset = 0
	b.active = false
}

func (b *Bounce) Advance(dt time.Duration) {
	if !b.active {
		return
	}
	b.offset += b.speed * b.dir * dt.Seconds()
	if b.offset > b.amp || b.offset < -b.amp {
		b.offset = max(min(b.offset, b.amp), -b.amp)
		b.dir = -b.dir
		b.speed *= b.damping
		b.count++
		if b.count >= b.maxCount {
			b.Reset()
		}
	}
}

func (b *Bounce) Offset() float64 { return b.offset }

func (b *Bounce) Active() bool { return b.active }

// Count 已完成的回彈次數
func (b *Bounce) Count() int { return b.count }
