package irq

import (
	"bytes"
	"testing"

	"github.com/leolorenzoluis/goose/kernel/kfmt"
)

func TestFramePrint(t *testing.T) {
	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	frame := Frame{
		GS: 1, FS: 2, ES: 3, DS: 4,
		EDI: 5, ESI: 6, EBP: 7, ESP: 8,
		EBX: 9, EDX: 10, ECX: 11, EAX: 12,
		EIP: 13, CS: 14, EFlags: 15,
	}
	frame.Print()

	exp := "EAX = 0000000c EBX = 00000009 ECX = 0000000b EDX = 0000000a\n" +
		"ESI = 00000006 EDI = 00000005 EBP = 00000007 ESP = 00000008\n" +
		"EIP = 0000000d CS  = 0000000e EFL = 0000000f\n" +
		"DS  = 00000004 ES  = 00000003 FS  = 00000002 GS  = 00000001\n"

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}
