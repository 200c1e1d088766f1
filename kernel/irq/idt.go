package irq

import (
	"unsafe"

	"github.com/leolorenzoluis/goose/kernel/cpu"
)

const (
	// idtEntries is the number of gates in the descriptor table. Only the
	// first trapVectorCount gates are ever populated; delivering on any
	// other vector finds a non-present gate and escalates to a double
	// fault instead of jumping through garbage.
	idtEntries = 256

	// trapVectorCount covers the 32 CPU exceptions plus the 16 remapped
	// device IRQs.
	trapVectorCount = 48

	// kernelCodeSelector is the GDT selector for the kernel code segment.
	kernelCodeSelector = 0x08

	// interruptGateAttrs marks a gate as present, ring-0 and a 32-bit
	// interrupt gate.
	interruptGateAttrs = 0x8E
)

// gateDesc is an IDT gate. The layout is dictated by the CPU: handler offset
// low half, code segment selector, a reserved zero byte, the type/attribute
// byte and the offset high half.
type gateDesc struct {
	offsetLow  uint16
	selector   uint16
	zero       uint8
	typeAttr   uint8
	offsetHigh uint16
}

var (
	idt [idtEntries]gateDesc

	// loadIDTFn is mocked by tests and is automatically inlined by the compiler.
	loadIDTFn = cpu.LoadIDT

	// trampolineEntryFn is mocked by tests and is automatically inlined by
	// the compiler.
	trampolineEntryFn = trampolineEntry
)

// setGate fills the gate for the supplied vector.
func setGate(vector uint8, entryAddr uint32, selector uint16, typeAttr uint8) {
	gate := &idt[vector]
	gate.offsetLow = uint16(entryAddr & 0xFFFF)
	gate.selector = selector
	gate.zero = 0
	gate.typeAttr = typeAttr
	gate.offsetHigh = uint16(entryAddr >> 16)
}

// installIDT registers a gate for every known trap vector and points the
// CPU's IDT register at the table.
func installIDT() {
	for vector := uint8(0); vector < trapVectorCount; vector++ {
		setGate(vector, trampolineEntryFn(vector), kernelCodeSelector, interruptGateAttrs)
	}

	loadIDTFn(uintptr(unsafe.Pointer(&idt[0])), uint16(idtEntries*8-1))
}
