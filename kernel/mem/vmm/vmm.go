package vmm

import (
	"unsafe"

	"github.com/leolorenzoluis/goose/kernel"
	"github.com/leolorenzoluis/goose/kernel/cpu"
	"github.com/leolorenzoluis/goose/kernel/hal/multiboot"
	"github.com/leolorenzoluis/goose/kernel/kfmt"
	"github.com/leolorenzoluis/goose/kernel/mem"
)

const (
	// pageDirectoryEntries is the number of entries in a page directory;
	// each one covers 4 MiB of virtual address space.
	pageDirectoryEntries = 1024

	// entriesPerTable is the number of entries in a page table.
	entriesPerTable = 1024

	// kernelTableCount is the number of page tables backing the kernel's
	// 1 GiB window.
	kernelTableCount = 256

	// firstKernelDirIndex is the page directory index covering the first
	// 4 MiB of the kernel window (KernelPageOffset >> 22).
	firstKernelDirIndex = 768

	// identityMapPages is the number of pages (the first physical MiB)
	// aliased into the bottom of the kernel window so legacy hardware such
	// as the text framebuffer stays reachable after paging is enabled.
	identityMapPages = 256
)

var (
	// kernelPageDirectory is the page directory the kernel runs on. It
	// lives in the image's bss, which the linker script aligns on a page
	// boundary.
	kernelPageDirectory [pageDirectoryEntries]PageDirectoryEntry

	// kernelPageTables are the page tables backing the kernel's 1 GiB
	// window. Entry k maps the virtual address KernelPageOffset + k*4096.
	kernelPageTables [kernelTableCount * entriesPerTable]PageTableEntry

	// switchPageDirectoryFn is mocked by tests and is automatically
	// inlined by the compiler.
	switchPageDirectoryFn = cpu.SwitchPageDirectory

	// visitElfSectionsFn is mocked by tests and is automatically inlined
	// by the compiler.
	visitElfSectionsFn = multiboot.VisitElfSections

	errElfSectionsMissing  = &kernel.Error{Module: "vmm", Message: "bootloader did not provide the kernel ELF section table"}
	errElfSectionUnaligned = &kernel.Error{Module: "vmm", Message: "kernel ELF section is not page-aligned"}
)

// virtToPhys converts an address inside the kernel's virtual window into the
// physical address it is loaded at.
func virtToPhys(virtAddr uintptr) uint32 {
	return uint32(virtAddr) - mem.KernelPageOffset
}

// Init builds the kernel address space and switches the CPU onto it.
//
// The resulting address space maps the first physical MiB and every page of
// the loaded kernel image into the kernel window; any access outside those
// ranges raises a page fault. Mappings are written before the single page
// directory switch at the end, so no TLB maintenance is required.
func Init() {
	for i := range kernelPageDirectory {
		dirEntry := &kernelPageDirectory[i]
		dirEntry.TableEntry = 0

		if i >= firstKernelDirIndex {
			table := &kernelPageTables[(i-firstKernelDirIndex)*entriesPerTable]
			dirEntry.SetPresent(true)
			dirEntry.SetReadWrite(true)
			dirEntry.SetAddress(virtToPhys(uintptr(unsafe.Pointer(table))))
		}
	}

	for i := range kernelPageTables {
		kernelPageTables[i].TableEntry = 0
	}

	for page := uint32(0); page < identityMapPages; page++ {
		mapKernelPage(page, page*mem.PageSize)
	}

	mapKernelImage()

	switchPageDirectoryFn(virtToPhys(uintptr(unsafe.Pointer(&kernelPageDirectory[0]))))
}

// mapKernelPage maps the virtual page KernelPageOffset + page*4096 to the
// supplied physical frame as kernel-only, writable memory.
func mapKernelPage(page uint32, frameAddr uint32) {
	pte := &kernelPageTables[page]
	pte.SetPresent(true)
	pte.SetUser(false)
	pte.SetReadWrite(true)
	pte.SetAddress(frameAddr)
}

// mapKernelImage walks the ELF section headers of the loaded kernel image
// and maps every page each section occupies. Sections the bootloader left at
// their load (physical) address below the kernel window are reached through
// the identity offset.
func mapKernelImage() {
	if !multiboot.ElfSectionsPresent() {
		kfmt.Panic(errElfSectionsMissing)
	}

	visitElfSectionsFn(func(sec *multiboot.ElfSectionHeader) {
		addr := sec.Addr
		if !mem.IsPageAligned(addr) {
			kfmt.Panic(errElfSectionUnaligned)
		}

		if addr < mem.KernelPageOffset {
			addr += mem.KernelPageOffset
		}

		// size/4096 + 1 pages are mapped: the extra page holds a partial
		// tail, or lies past the section when size is a page multiple.
		pages := sec.Size/mem.PageSize + 1
		for page := uint32(0); page < pages; page++ {
			physAddr := addr - mem.KernelPageOffset + page*mem.PageSize
			mapKernelPage(physAddr/mem.PageSize, physAddr)
		}
	})
}
