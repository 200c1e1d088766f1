// Package multiboot gives the kernel access to the boot information record
// that the bootloader leaves in memory before jumping to the kernel entry
// point. The record and every structure it points to live at physical
// addresses; pointers are translated through the kernel's identity-map
// window before being dereferenced.
package multiboot

import (
	"unsafe"

	"github.com/leolorenzoluis/goose/kernel"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
	"github.com/leolorenzoluis/goose/kernel/mem"
)

const (
	// flagMemoryMap is set when the record contains a memory map.
	flagMemoryMap = uint32(1 << 6)

	// flagElfSymbols is set when the record describes the ELF section
	// header table of the loaded kernel image.
	flagElfSymbols = uint32(1 << 5)
)

// MemAvailable marks a memory map entry as usable RAM. All other entry type
// values describe memory the kernel must not touch.
const MemAvailable = uint32(1)

// Info mirrors the layout of the boot information record up to the fields
// this kernel consumes.
type Info struct {
	Flags      uint32
	MemLower   uint32
	MemUpper   uint32
	BootDevice uint32
	CmdLine    uint32
	ModsCount  uint32
	ModsAddr   uint32
	ElfSec     ElfSectionTable
	MmapLength uint32
	MmapAddr   uint32
}

// ElfSectionTable describes where the bootloader placed the section header
// table of the loaded kernel image.
type ElfSectionTable struct {
	// Num is the number of section headers.
	Num uint32

	// Size is the size of each section header in bytes.
	Size uint32

	// Addr is the physical address of the first section header.
	Addr uint32

	// Shndx is the section name string table index.
	Shndx uint32
}

// ElfSectionHeader mirrors the 40-byte ELF32 section header.
type ElfSectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntSize   uint32
}

// MemoryMapEntry mirrors a single record of the bootloader's memory map. The
// 64-bit base and length values are split into 32-bit halves to keep the
// overlay layout byte-exact.
type MemoryMapEntry struct {
	// entrySize is the record size excluding this field; it is the stride
	// used when walking the map.
	entrySize uint32

	BaseAddrLow  uint32
	BaseAddrHigh uint32
	LengthLow    uint32
	LengthHigh   uint32

	// EntryType is MemAvailable for usable RAM.
	EntryType uint32
}

var (
	infoData uintptr

	// translateFn converts a physical pointer found inside the boot record
	// into a dereferenceable kernel-space address. Tests override it to
	// relocate fixture data.
	translateFn = func(physAddr uint32) uintptr {
		return uintptr(physAddr) + uintptr(mem.KernelPageOffset)
	}

	errElfSectionsMissing = &kernel.Error{Module: "multiboot", Message: "boot record carries no ELF section header table"}
	errElfHeaderSize      = &kernel.Error{Module: "multiboot", Message: "ELF section header size mismatch"}
	errElfHeadersLow      = &kernel.Error{Module: "multiboot", Message: "ELF section header table not inside kernel space"}
)

// MemRegionVisitor is invoked by VisitMemRegions for each memory map entry.
// Returning false aborts the scan.
type MemRegionVisitor func(entry *MemoryMapEntry) bool

// ElfSectionVisitor is invoked by VisitElfSections for each section header
// of the loaded kernel image.
type ElfSectionVisitor func(sec *ElfSectionHeader)

// SetInfoPtr records the location of the boot information record. The
// supplied pointer must already be dereferenceable (i.e. translated into
// kernel space by the caller). It must be invoked before any other function
// in this package.
func SetInfoPtr(ptr uintptr) {
	infoData = ptr
}

func infoPtr() *Info {
	return (*Info)(unsafe.Pointer(infoData))
}

// ElfSectionsPresent returns true if the bootloader provided the ELF section
// header table of the kernel image.
func ElfSectionsPresent() bool {
	return infoPtr().Flags&flagElfSymbols != 0
}

// VisitElfSections invokes visitor for each section header of the loaded
// kernel image. The boot record must carry a section header table whose
// per-header size matches the ELF32 layout and whose address translates into
// kernel space; these are contract violations the kernel cannot survive, so
// they panic.
func VisitElfSections(visitor ElfSectionVisitor) {
	inf := infoPtr()

	if inf.Flags&flagElfSymbols == 0 {
		kfmt.Panic(errElfSectionsMissing)
	}

	if inf.ElfSec.Size != uint32(unsafe.Sizeof(ElfSectionHeader{})) {
		kfmt.Panic(errElfHeaderSize)
	}

	if !mem.InKernelSpace(inf.ElfSec.Addr + mem.KernelPageOffset) {
		kfmt.Panic(errElfHeadersLow)
	}

	curPtr := translateFn(inf.ElfSec.Addr)
	for i := uint32(0); i < inf.ElfSec.Num; i++ {
		visitor((*ElfSectionHeader)(unsafe.Pointer(curPtr)))
		curPtr += uintptr(inf.ElfSec.Size)
	}
}

// VisitMemRegions invokes visitor for each entry of the bootloader's memory
// map. If the boot record carries no memory map, the visitor is never
// invoked.
func VisitMemRegions(visitor MemRegionVisitor) {
	inf := infoPtr()
	if inf.Flags&flagMemoryMap == 0 {
		return
	}

	curPtr := translateFn(inf.MmapAddr)
	endPtr := curPtr + uintptr(inf.MmapLength)
	for curPtr < endPtr {
		entry := (*MemoryMapEntry)(unsafe.Pointer(curPtr))
		if !visitor(entry) {
			return
		}

		// Each record is preceded by its own stride.
		curPtr += uintptr(entry.entrySize) + 4
	}
}
