package pmm

import (
	"github.com/leolorenzoluis/goose/kernel"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
	"github.com/leolorenzoluis/goose/kernel/mem"
)

// maxPageFrames bounds the frame table at one entry per 4 KiB page of the
// full 32-bit physical address space (4 GiB).
const maxPageFrames = 1 << 20

var (
	// Manager is the frame manager instance that owns physical memory for
	// the lifetime of the kernel.
	Manager FrameManager

	// ErrNoPageFramesAvailable is returned by RequestFrame when every
	// tracked frame is in use.
	ErrNoPageFramesAvailable = &kernel.Error{Module: "pmm", Message: "no page frames available"}

	// ErrInvalidPageFrameAddress is returned when an address does not match
	// any tracked frame.
	ErrInvalidPageFrameAddress = &kernel.Error{Module: "pmm", Message: "invalid page frame address"}

	// ErrUnalignedAddress is returned when an address is not aligned on a
	// page boundary.
	ErrUnalignedAddress = &kernel.Error{Module: "pmm", Message: "address is not page-aligned"}

	// ErrPageFrameAlreadyInUse is returned by ReserveFrame when the frame
	// has already been handed out or reserved.
	ErrPageFrameAlreadyInUse = &kernel.Error{Module: "pmm", Message: "page frame already in use"}

	// ErrPageFrameAlreadyFree is returned by FreeFrame when the frame is
	// not currently in use.
	ErrPageFrameAlreadyFree = &kernel.Error{Module: "pmm", Message: "page frame already free"}

	errRegionsNotOrdered = &kernel.Error{Module: "pmm", Message: "memory regions must be non-overlapping and ordered by address"}
)

// FrameManager hands out and reclaims physical page frames. The frame table
// is populated once from the bootloader's memory map; afterwards entries only
// ever change allocation state, never identity.
//
// Frames are handed out round-robin rather than first-fit so that a freed
// frame is not immediately recycled by the next request; stale pointers into
// a freed frame then keep faulting long enough to be noticed.
type FrameManager struct {
	pageFrames [maxPageFrames]FrameTableEntry

	// numFrames is the number of live entries in pageFrames.
	numFrames uint32

	// nextFrame is the round-robin scan cursor. It is always in
	// [0, numFrames] and rewinds to 0 when it reaches the end.
	nextFrame uint32
}

// Initialize populates the frame table from the supplied memory regions. The
// regions must be non-overlapping and strictly increasing in end address.
// Region bases are rounded up to the next page boundary and the lost bytes
// are subtracted from the region length. Every tracked frame starts out free.
func (m *FrameManager) Initialize(regions []MemoryRegion) {
	m.numFrames = 0
	m.nextFrame = 0

	var lastRegionEnd uint32
	for i := range regions {
		region := &regions[i]

		regionEnd := region.Address + region.Size
		if regionEnd <= lastRegionEnd {
			kfmt.Panic(errRegionsNotOrdered)
		}
		lastRegionEnd = regionEnd

		alignedAddress := region.Address
		regionSize := region.Size
		if !mem.IsPageAligned(alignedAddress) {
			slack := mem.PageSize - alignedAddress%mem.PageSize
			alignedAddress += slack
			regionSize -= slack
		}

		for frame := uint32(0); frame < regionSize/mem.PageSize; frame++ {
			m.pageFrames[m.numFrames].SetAddress(alignedAddress + frame*mem.PageSize)
			m.pageFrames[m.numFrames].SetInUse(false)
			m.numFrames++
		}
	}
}

// RequestFrame hands out the next free frame, scanning from the round-robin
// cursor and wrapping once. It returns the frame's physical base address or
// ErrNoPageFramesAvailable when a full sweep finds no free frame.
func (m *FrameManager) RequestFrame() (uint32, *kernel.Error) {
	if m.numFrames == 0 {
		return 0, ErrNoPageFramesAvailable
	}

	for checked := uint32(0); checked < m.numFrames; checked++ {
		if m.nextFrame >= m.numFrames {
			m.nextFrame = 0
		}

		if !m.pageFrames[m.nextFrame].InUse() {
			address := m.pageFrames[m.nextFrame].Address()
			m.pageFrames[m.nextFrame].SetInUse(true)
			m.nextFrame++
			return address, nil
		}

		m.nextFrame++
	}

	return 0, ErrNoPageFramesAvailable
}

// ReserveFrame marks the frame at the supplied physical address as in use so
// that RequestFrame can never hand it out.
func (m *FrameManager) ReserveFrame(frameAddress uint32) *kernel.Error {
	if !mem.IsPageAligned(frameAddress) {
		return ErrUnalignedAddress
	}

	// TODO(leo): binary search; the table is sorted by address.
	for i := uint32(0); i < m.numFrames; i++ {
		if m.pageFrames[i].Address() == frameAddress {
			if m.pageFrames[i].InUse() {
				return ErrPageFrameAlreadyInUse
			}
			m.pageFrames[i].SetInUse(true)
			return nil
		}
	}

	return ErrInvalidPageFrameAddress
}

// FreeFrame returns the frame at the supplied physical address to the free
// pool.
func (m *FrameManager) FreeFrame(frameAddress uint32) *kernel.Error {
	if !mem.IsPageAligned(frameAddress) {
		return ErrUnalignedAddress
	}

	// TODO(leo): binary search; the table is sorted by address.
	for i := uint32(0); i < m.numFrames; i++ {
		if m.pageFrames[i].Address() == frameAddress {
			if !m.pageFrames[i].InUse() {
				return ErrPageFrameAlreadyFree
			}
			m.pageFrames[i].SetInUse(false)
			return nil
		}
	}

	return ErrInvalidPageFrameAddress
}

// NumFrames returns the number of tracked page frames.
func (m *FrameManager) NumFrames() uint32 {
	return m.numFrames
}

// NextFrame returns the round-robin scan cursor.
func (m *FrameManager) NextFrame() uint32 {
	return m.nextFrame
}

// ReservedFrames returns the number of frames currently in use.
func (m *FrameManager) ReservedFrames() uint32 {
	var reserved uint32
	for i := uint32(0); i < m.numFrames; i++ {
		if m.pageFrames[i].InUse() {
			reserved++
		}
	}
	return reserved
}

// FrameAt returns a copy of the frame table entry at the supplied index.
func (m *FrameManager) FrameAt(index uint32) FrameTableEntry {
	return m.pageFrames[index]
}
