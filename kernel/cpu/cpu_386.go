// Package cpu exports the processor primitives that cannot be expressed in
// Go. The function bodies live in the rt0 assembly that is linked together
// with the kernel image.
package cpu

// EnableInterrupts sets the interrupt flag so the CPU can service maskable
// interrupts (STI).
func EnableInterrupts()

// DisableInterrupts clears the interrupt flag, masking all maskable
// interrupts (CLI).
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives. With
// interrupts disabled, Halt stops the CPU for good.
func Halt()

// SwitchPageDirectory loads CR3 with the physical address of a page
// directory. The MMU immediately starts translating through the new
// directory; the TLB is flushed as a side-effect.
func SwitchPageDirectory(pageDirPhysAddr uint32)

// ReadCR2 returns the linear address that triggered the last page fault.
func ReadCR2() uint32

// LoadIDT points the CPU's IDT register at the descriptor table with the
// supplied base address and limit (LIDT).
func LoadIDT(baseAddr uintptr, limit uint16)

// PortReadByte reads one byte from the supplied I/O port.
func PortReadByte(port uint16) uint8

// PortWriteByte writes val to the supplied I/O port.
func PortWriteByte(port uint16, val uint8)
