package irq

const (
	picMasterCmd  = uint16(0x20)
	picMasterData = uint16(0x21)
	picSlaveCmd   = uint16(0xA0)
	picSlaveData  = uint16(0xA1)

	// picEOI acknowledges a delivered IRQ when written to a controller's
	// command port.
	picEOI = uint8(0x20)

	// irqBaseVector is the IDT vector device IRQ 0 is remapped to.
	irqBaseVector = 32
)

// remapPIC reprograms the two legacy interrupt controllers so that device
// IRQs 0-15 arrive on vectors 32-47. Their power-on mapping overlaps the
// vectors that protected mode reserves for CPU exceptions.
func remapPIC() {
	// ICW1: begin initialization, ICW4 follows.
	portWriteByteFn(picMasterCmd, 0x11)
	portWriteByteFn(picSlaveCmd, 0x11)

	// ICW2: vector bases for each controller.
	portWriteByteFn(picMasterData, irqBaseVector)
	portWriteByteFn(picSlaveData, irqBaseVector+8)

	// ICW3: the slave cascades into master line 2.
	portWriteByteFn(picMasterData, 0x04)
	portWriteByteFn(picSlaveData, 0x02)

	// ICW4: 8086 mode.
	portWriteByteFn(picMasterData, 0x01)
	portWriteByteFn(picSlaveData, 0x01)

	// Unmask every line; the dispatcher discards IRQs nobody claims.
	portWriteByteFn(picMasterData, 0x00)
	portWriteByteFn(picSlaveData, 0x00)
}
