// Package pit keeps track of the ticks generated by the interval timer.
package pit

import "github.com/leolorenzoluis/goose/kernel/irq"

// Ticker counts timer interrupts. It is the receiving end of IRQ 0 and runs
// with interrupts disabled, so it only bumps a counter; anything that wants
// to act on the passage of time polls Ticks from the mainline.
type Ticker struct {
	ticks uint64
}

// SystemTicker is the ticker instance fed by the timer interrupt.
var SystemTicker Ticker

// OnTick records one timer interrupt.
func (t *Ticker) OnTick(_ *irq.Frame) {
	t.ticks++
}

// Ticks returns the number of timer interrupts seen since boot.
func (t *Ticker) Ticks() uint64 {
	return t.ticks
}
