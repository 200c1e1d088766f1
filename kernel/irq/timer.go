package irq

const (
	// pitBaseHz is the fixed input clock of the interval timer.
	pitBaseHz = 1193180

	pitDataPort    = uint16(0x40)
	pitCommandPort = uint16(0x43)

	// pitChannel0SquareWave selects channel 0, lobyte/hibyte access,
	// square wave mode.
	pitChannel0SquareWave = uint8(0x36)
)

// setTimerFrequency programs channel 0 of the interval timer to raise IRQ 0
// hz times per second.
func setTimerFrequency(hz uint32) {
	divisor := uint32(pitBaseHz) / hz

	portWriteByteFn(pitCommandPort, pitChannel0SquareWave)
	portWriteByteFn(pitDataPort, uint8(divisor&0xFF))
	portWriteByteFn(pitDataPort, uint8(divisor>>8))
}
