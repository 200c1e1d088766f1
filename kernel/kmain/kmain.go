// Package kmain hosts the kernel entry point.
package kmain

import (
	"github.com/leolorenzoluis/goose/kernel/cpu"
	"github.com/leolorenzoluis/goose/kernel/driver/kbd"
	"github.com/leolorenzoluis/goose/kernel/driver/pit"
	"github.com/leolorenzoluis/goose/kernel/hal"
	"github.com/leolorenzoluis/goose/kernel/hal/multiboot"
	"github.com/leolorenzoluis/goose/kernel/irq"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
	"github.com/leolorenzoluis/goose/kernel/mem"
	"github.com/leolorenzoluis/goose/kernel/mem/pmm"
	"github.com/leolorenzoluis/goose/kernel/mem/vmm"
)

const (
	// timerHz is the tick rate the interval timer is programmed to.
	timerHz = 100

	// maxMemoryRegions bounds the number of usable RAM regions collected
	// from the bootloader's memory map.
	maxMemoryRegions = 32

	// lowMemoryEnd is the top of the legacy device region reserved at boot.
	lowMemoryEnd = uint32(0x100000)
)

// Kmain is the only Go symbol visible to the rt0 initialization code, which
// invokes it after setting up the GDT and a minimal g0 struct with the boot
// stack. The argument is the physical address of the boot information record
// left behind by the bootloader.
//
// Kmain is not expected to return. If it does, the rt0 code halts the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr + uintptr(mem.KernelPageOffset))

	vmm.Init()

	hal.InitTerminal()
	kfmt.Printf("goose: starting up\n")

	initFrameManager()

	irq.SetTimerSink(&pit.SystemTicker)
	irq.SetKeyboardSink(&kbd.Scancodes)
	irq.Init(timerHz)
	kfmt.Printf("goose: trap delivery enabled, timer at %dHz\n", uint32(timerHz))

	for {
		cpu.Halt()
	}
}

// initFrameManager hands every usable RAM region reported by the bootloader
// to the frame manager and then reserves the frames that are already spoken
// for: the legacy device area in the first MiB and the pages backing the
// loaded kernel image.
func initFrameManager() {
	var (
		regions     [maxMemoryRegions]pmm.MemoryRegion
		regionCount int
	)

	multiboot.VisitMemRegions(func(entry *multiboot.MemoryMapEntry) bool {
		// Regions above the 32-bit horizon are unreachable without PAE.
		if entry.EntryType != multiboot.MemAvailable || entry.BaseAddrHigh != 0 {
			return true
		}
		if regionCount == maxMemoryRegions {
			return false
		}

		length := entry.LengthLow
		if entry.LengthHigh != 0 {
			length = 0xFFFFFFFF - entry.BaseAddrLow
		}

		regions[regionCount] = pmm.MemoryRegion{Address: entry.BaseAddrLow, Size: length}
		regionCount++
		return true
	})

	pmm.Manager.Initialize(regions[:regionCount])

	// Not every reserved address is tracked by the manager (the region list
	// only covers usable RAM), so lookup failures are expected and ignored.
	for addr := uint32(0); addr < lowMemoryEnd; addr += mem.PageSize {
		_ = pmm.Manager.ReserveFrame(addr)
	}

	multiboot.VisitElfSections(func(sec *multiboot.ElfSectionHeader) {
		addr := sec.Addr
		if addr >= mem.KernelPageOffset {
			addr -= mem.KernelPageOffset
		}

		for page := uint32(0); page < sec.Size/mem.PageSize+1; page++ {
			_ = pmm.Manager.ReserveFrame(addr + page*mem.PageSize)
		}
	})

	kfmt.Printf("pmm: tracking %d page frames (%d reserved)\n",
		pmm.Manager.NumFrames(), pmm.Manager.ReservedFrames())
}
