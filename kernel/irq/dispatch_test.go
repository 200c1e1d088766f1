package irq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leolorenzoluis/goose/kernel/cpu"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
)

// portWrite records a single write to an I/O port.
type portWrite struct {
	port uint16
	val  uint8
}

// mockPorts redirects the dispatcher's port hooks to an in-memory recorder
// and returns it together with a restore function.
func mockPorts(readVal uint8) (*portRecorder, func()) {
	rec := &portRecorder{readVal: readVal}
	portWriteByteFn = rec.write
	portReadByteFn = rec.read

	return rec, func() {
		portWriteByteFn = cpu.PortWriteByte
		portReadByteFn = cpu.PortReadByte
	}
}

type portRecorder struct {
	writes  []portWrite
	reads   []uint16
	readVal uint8
}

func (r *portRecorder) write(port uint16, val uint8) { r.writes = append(r.writes, portWrite{port, val}) }
func (r *portRecorder) read(port uint16) uint8 {
	r.reads = append(r.reads, port)
	return r.readVal
}

type recordingKeyboardSink struct {
	scancodes []uint8
}

func (s *recordingKeyboardSink) SendScancode(code uint8) { s.scancodes = append(s.scancodes, code) }

type recordingTimerSink struct {
	ticks int
}

func (s *recordingTimerSink) OnTick(*Frame) { s.ticks++ }

func TestDispatchIRQKeyboard(t *testing.T) {
	rec, restore := mockPorts(0x1e)
	defer restore()

	sink := &recordingKeyboardSink{}
	SetKeyboardSink(sink)
	defer SetKeyboardSink(nil)

	DispatchIRQ(&Frame{IntNo: 33})

	if len(sink.scancodes) != 1 || sink.scancodes[0] != 0x1e {
		t.Fatalf("expected the keyboard sink to receive scancode 0x1e; got %v", sink.scancodes)
	}

	if len(rec.reads) != 1 || rec.reads[0] != kbdDataPort {
		t.Fatalf("expected a single read of the keyboard data port; got %v", rec.reads)
	}

	// A master-side IRQ gets exactly one EOI, sent to the master.
	exp := []portWrite{{picMasterCmd, picEOI}}
	if len(rec.writes) != len(exp) || rec.writes[0] != exp[0] {
		t.Fatalf("expected a single EOI to the master controller; got %v", rec.writes)
	}
}

func TestDispatchIRQSlaveEOIOrdering(t *testing.T) {
	rec, restore := mockPorts(0)
	defer restore()

	DispatchIRQ(&Frame{IntNo: 40})

	// IRQ 8 lives on the slave: the slave is acknowledged first, the
	// master last.
	exp := []portWrite{{picSlaveCmd, picEOI}, {picMasterCmd, picEOI}}
	if len(rec.writes) != len(exp) || rec.writes[0] != exp[0] || rec.writes[1] != exp[1] {
		t.Fatalf("expected slave EOI followed by master EOI; got %v", rec.writes)
	}
}

func TestDispatchIRQTimer(t *testing.T) {
	rec, restore := mockPorts(0)
	defer restore()

	sink := &recordingTimerSink{}
	SetTimerSink(sink)
	defer SetTimerSink(nil)

	DispatchIRQ(&Frame{IntNo: 32})
	DispatchIRQ(&Frame{IntNo: 32})

	if sink.ticks != 2 {
		t.Fatalf("expected the timer sink to receive 2 ticks; got %d", sink.ticks)
	}

	if len(rec.writes) != 2 {
		t.Fatalf("expected one master EOI per tick; got %v", rec.writes)
	}
}

func TestDispatchIRQUnknownIsLoggedAndAcknowledged(t *testing.T) {
	rec, restore := mockPorts(0)
	defer restore()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	DispatchIRQ(&Frame{IntNo: 37})

	if !strings.Contains(buf.String(), "unknown IRQ 5") {
		t.Fatalf("expected the unknown IRQ to be logged; got %q", buf.String())
	}

	exp := []portWrite{{picMasterCmd, picEOI}}
	if len(rec.writes) != len(exp) || rec.writes[0] != exp[0] {
		t.Fatalf("expected the master EOI to still be sent; got %v", rec.writes)
	}
}

func TestDispatchIRQWithoutSinksDropsEvents(t *testing.T) {
	rec, restore := mockPorts(0x2a)
	defer restore()

	SetKeyboardSink(nil)
	SetTimerSink(nil)

	DispatchIRQ(&Frame{IntNo: 32})
	DispatchIRQ(&Frame{IntNo: 33})

	if len(rec.writes) != 2 {
		t.Fatalf("expected both IRQs to be acknowledged; got %v", rec.writes)
	}
}

func TestDispatchExceptionPanics(t *testing.T) {
	defer func() {
		panicFn = kfmt.Panic
		readCR2Fn = cpu.ReadCR2
	}()

	var panicked interface{}
	panicFn = func(e interface{}) { panicked = e }
	readCR2Fn = func() uint32 {
		t.Fatal("expected CR2 not to be read for a non page-fault exception")
		return 0
	}

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	DispatchException(&Frame{IntNo: 13, ErrCode: 0x10, EIP: 0xc0100000})

	if panicked != errUnhandledException {
		t.Fatalf("expected DispatchException to panic with errUnhandledException; got %v", panicked)
	}

	if got := buf.String(); !strings.Contains(got, "General Protection Fault") || !strings.Contains(got, "error code 16") {
		t.Fatalf("expected the exception description and error code to be logged; got %q", got)
	}
}

func TestDispatchExceptionPageFaultLogsFaultingAddress(t *testing.T) {
	defer func() {
		panicFn = kfmt.Panic
		readCR2Fn = cpu.ReadCR2
	}()

	panicFn = func(interface{}) {}
	readCR2Fn = func() uint32 { return 0xdeadbeef }

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	DispatchException(&Frame{IntNo: 14, ErrCode: 2})

	got := buf.String()
	if !strings.Contains(got, "Page Fault") {
		t.Fatalf("expected the page fault description; got %q", got)
	}
	if !strings.Contains(got, "faulting address: 0xdeadbeef") {
		t.Fatalf("expected the CR2 value to be logged; got %q", got)
	}
}

func TestDispatchExceptionReservedVectors(t *testing.T) {
	defer func() { panicFn = kfmt.Panic }()
	panicFn = func(interface{}) {}

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	DispatchException(&Frame{IntNo: 21})

	if !strings.Contains(buf.String(), "Reserved (21)") {
		t.Fatalf("expected the reserved vector description; got %q", buf.String())
	}
}

func TestInitSequencing(t *testing.T) {
	rec, restore := mockPorts(0)
	defer func() {
		restore()
		loadIDTFn = cpu.LoadIDT
		trampolineEntryFn = trampolineEntry
		enableInterruptsFn = cpu.EnableInterrupts
		idt = [idtEntries]gateDesc{}
	}()

	trampolineEntryFn = func(vector uint8) uint32 { return uint32(vector) }
	loadIDTFn = func(uintptr, uint16) {}

	var interruptsEnabled bool
	enableInterruptsFn = func() { interruptsEnabled = true }

	Init(100)

	if !interruptsEnabled {
		t.Fatal("expected Init to enable interrupts")
	}

	// The PIC remap is 10 writes, the timer programming 3; the timer
	// divisor for 100 Hz is 11931 (0x2e9b).
	if len(rec.writes) != 13 {
		t.Fatalf("expected 13 port writes; got %d", len(rec.writes))
	}

	expTail := []portWrite{{pitCommandPort, 0x36}, {pitDataPort, 0x9b}, {pitDataPort, 0x2e}}
	for i, exp := range expTail {
		if got := rec.writes[10+i]; got != exp {
			t.Fatalf("[write %d] expected %v; got %v", 10+i, exp, got)
		}
	}
}
