package irq

// trampolineEntry returns the entry point address of the interrupt
// trampoline generated for the supplied vector. The trampolines live in the
// rt0 assembly: each one pushes the vector number (and a zero error code for
// the vectors where the CPU does not supply one), saves the segment and
// general registers to form a Frame, and calls DispatchException or
// DispatchIRQ with a pointer to it. Interrupts stay disabled from the
// trampoline's entry until its final iret.
func trampolineEntry(vector uint8) uint32
