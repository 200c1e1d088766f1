package kfmt

import (
	"io"
	"testing"
)

func TestRingBufferReadWrite(t *testing.T) {
	var rb ringBuffer

	if _, err := rb.Read(make([]byte, 1)); err != io.EOF {
		t.Fatal("expected reading an empty buffer to return io.EOF")
	}

	rb.Write([]byte("the quick brown fox"))

	got := make([]byte, 64)
	n, err := rb.Read(got)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}

	if exp := "the quick brown fox"; string(got[:n]) != exp {
		t.Fatalf("expected to read %q; got %q", exp, string(got[:n]))
	}

	if _, err = rb.Read(got); err != io.EOF {
		t.Fatal("expected a drained buffer to return io.EOF")
	}
}

func TestRingBufferOverwritesOldestData(t *testing.T) {
	var rb ringBuffer

	data := make([]byte, ringBufferSize+16)
	for i := range data {
		data[i] = byte('a' + (i % 26))
	}
	rb.Write(data)

	drained := make([]byte, 2*ringBufferSize)
	var total int
	for {
		n, err := rb.Read(drained[total:])
		total += n
		if err == io.EOF {
			break
		}
	}

	// The oldest 17 bytes were overwritten (one slot is sacrificed to
	// distinguish a full buffer from an empty one).
	if exp := ringBufferSize - 1; total != exp {
		t.Fatalf("expected to drain %d bytes; got %d", exp, total)
	}

	if exp, got := string(data[len(data)-total:]), string(drained[:total]); exp != got {
		t.Fatal("expected the drained data to be the newest written bytes")
	}
}
