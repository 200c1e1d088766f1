package irq

import (
	"github.com/leolorenzoluis/goose/kernel"
	"github.com/leolorenzoluis/goose/kernel/cpu"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
)

const (
	// pageFaultVector is the exception vector whose faulting address is
	// recorded in CR2.
	pageFaultVector = 14

	// kbdDataPort is the keyboard controller's data port.
	kbdDataPort = uint16(0x60)
)

// exceptionDescriptions maps the CPU-defined exception vectors to
// human-readable descriptions taken from the Intel SDM.
var exceptionDescriptions = [32]string{
	"Division By Zero",
	"Debug",
	"Non-maskable Interrupt",
	"Breakpoint",
	"Overflow",
	"Out of Bounds",
	"Invalid Opcode",
	"No Coprocessor",
	"Double Fault",
	"Coprocessor Segment Overrun",
	"Invalid TSS",
	"Segment Not Present",
	"Stack-Segment Fault",
	"General Protection Fault",
	"Page Fault",
	"Reserved (15)",
	"x87 FPU Floating-Point Error",
	"Alignment Check Exception",
	"Machine Check Exception",
	"SIMD Floating-Point Exception",
	"Reserved (20)",
	"Reserved (21)",
	"Reserved (22)",
	"Reserved (23)",
	"Reserved (24)",
	"Reserved (25)",
	"Reserved (26)",
	"Reserved (27)",
	"Reserved (28)",
	"Reserved (29)",
	"Reserved (30)",
	"Reserved (31)",
}

// KeyboardSink receives the scancode of every keyboard IRQ. Implementations
// run with interrupts disabled and must not block.
type KeyboardSink interface {
	SendScancode(code uint8)
}

// TimerSink receives every timer IRQ. Implementations run with interrupts
// disabled and must not block.
type TimerSink interface {
	OnTick(frame *Frame)
}

var (
	keyboardSink KeyboardSink
	timerSink    TimerSink

	// The cpu and kfmt hooks below are mocked by tests and are
	// automatically inlined by the compiler.
	portReadByteFn     = cpu.PortReadByte
	portWriteByteFn    = cpu.PortWriteByte
	readCR2Fn          = cpu.ReadCR2
	enableInterruptsFn = cpu.EnableInterrupts
	panicFn            = kfmt.Panic

	errUnhandledException = &kernel.Error{Module: "irq", Message: "unhandled processor exception"}
)

// SetKeyboardSink registers the receiver for keyboard scancodes. Passing nil
// drops keyboard input on the floor.
func SetKeyboardSink(sink KeyboardSink) {
	keyboardSink = sink
}

// SetTimerSink registers the receiver for timer ticks. Passing nil drops the
// ticks.
func SetTimerSink(sink TimerSink) {
	timerSink = sink
}

// Init prepares trap delivery: the interrupt controllers are remapped onto
// vectors 32-47, every known vector gets a gate, the interval timer starts
// ticking at hz and interrupts are enabled.
func Init(hz uint32) {
	remapPIC()
	installIDT()
	setTimerFrequency(hz)
	enableInterruptsFn()
}

// DispatchException is invoked by the trampolines for vectors 0-31. No
// exception is recoverable at this stage of bring-up: the handler logs the
// exception details and panics.
func DispatchException(frame *Frame) {
	description := "Unknown Interrupt"
	if frame.IntNo < uint32(len(exceptionDescriptions)) {
		description = exceptionDescriptions[frame.IntNo]
	}

	kfmt.Printf("\nexception %d: %s (error code %d)\n", frame.IntNo, description, frame.ErrCode)
	if frame.IntNo == pageFaultVector {
		kfmt.Printf("faulting address: 0x%8x\n", readCR2Fn())
	}
	frame.Print()

	panicFn(errUnhandledException)
}

// DispatchIRQ is invoked by the trampolines for vectors 32-47. It routes the
// event to the registered sink and acknowledges the controllers. The master
// acknowledgement is the very last action before returning so that the
// trampoline's iret completes before the controller can deliver the next
// edge of the same line.
func DispatchIRQ(frame *Frame) {
	irqNo := frame.IntNo - irqBaseVector

	// IRQs raised by the slave controller must be acknowledged on both
	// controllers.
	if irqNo >= 8 {
		portWriteByteFn(picSlaveCmd, picEOI)
	}

	switch irqNo {
	case 0:
		if timerSink != nil {
			timerSink.OnTick(frame)
		}
	case 1:
		scancode := portReadByteFn(kbdDataPort)
		if keyboardSink != nil {
			keyboardSink.SendScancode(scancode)
		}
	default:
		kfmt.Printf("ignoring unknown IRQ %d\n", irqNo)
	}

	portWriteByteFn(picMasterCmd, picEOI)
}
