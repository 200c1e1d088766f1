// Package pmm tracks the ownership of every 4 KiB physical page frame that
// the bootloader reported as usable RAM.
package pmm

import "github.com/leolorenzoluis/goose/kernel/mem"

// frameInUseBit flags a frame that has been handed out or reserved.
const frameInUseBit = 0

// FrameTableEntry records the state of a single physical page frame: the
// frame's base address in the entry's address field and its allocation state
// in the InUse flag.
type FrameTableEntry struct {
	mem.TableEntry
}

// InUse returns true if the frame has been handed out or reserved.
func (e FrameTableEntry) InUse() bool {
	return e.Flag(frameInUseBit)
}

// SetInUse updates the frame's allocation state.
func (e *FrameTableEntry) SetInUse(val bool) {
	e.SetFlag(frameInUseBit, val)
}

// MemoryRegion describes a contiguous range of usable RAM reported by the
// bootloader.
type MemoryRegion struct {
	// Address is the physical address where the region starts. It is not
	// necessarily page-aligned.
	Address uint32

	// Size is the region length in bytes.
	Size uint32
}
