// Package irq installs the interrupt descriptor table, remaps the legacy
// interrupt controllers and dispatches every trap the CPU delivers to the
// kernel.
package irq

import "github.com/leolorenzoluis/goose/kernel/kfmt"

// Frame is the register snapshot the interrupt trampolines push before
// calling into Go. Its layout must match the trampoline push sequence
// bit-exactly: the segment registers first, then the general registers (in
// pusha order), the vector number and error code pushed by the per-vector
// stub, and finally the frame the processor pushed on entry.
//
// A Frame only exists on the interrupt stack for the duration of the
// handler call; it must never be retained.
type Frame struct {
	GS uint32
	FS uint32
	ES uint32
	DS uint32

	EDI uint32
	ESI uint32
	EBP uint32
	ESP uint32
	EBX uint32
	EDX uint32
	ECX uint32
	EAX uint32

	// IntNo is the vector number the trampoline was installed on.
	IntNo uint32

	// ErrCode is the error code pushed by the processor, or zero for
	// vectors that do not carry one.
	ErrCode uint32

	EIP     uint32
	CS      uint32
	EFlags  uint32
	UserESP uint32
	SS      uint32
}

// Print outputs a dump of the register snapshot to the active console.
func (f *Frame) Print() {
	kfmt.Printf("EAX = %8x EBX = %8x ECX = %8x EDX = %8x\n", f.EAX, f.EBX, f.ECX, f.EDX)
	kfmt.Printf("ESI = %8x EDI = %8x EBP = %8x ESP = %8x\n", f.ESI, f.EDI, f.EBP, f.ESP)
	kfmt.Printf("EIP = %8x CS  = %8x EFL = %8x\n", f.EIP, f.CS, f.EFlags)
	kfmt.Printf("DS  = %8x ES  = %8x FS  = %8x GS  = %8x\n", f.DS, f.ES, f.FS, f.GS)
}
