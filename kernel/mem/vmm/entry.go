// Package vmm builds the kernel's higher-half address space and switches the
// CPU onto it.
package vmm

import "github.com/leolorenzoluis/goose/kernel/mem"

// Page-directory entry flag bit positions.
const (
	pdePresentBit      = 0
	pdeReadWriteBit    = 1
	pdeUserBit         = 2
	pdeWriteThroughBit = 3
	pdeDisableCacheBit = 4
	pdeAccessedBit     = 5
	pdeSizeBit         = 7
)

// Page-table entry flag bit positions.
const (
	ptePresentBit      = 0
	pteReadWriteBit    = 1
	pteUserBit         = 2
	pteWriteThroughBit = 3
	pteDisableCacheBit = 4
	pteAccessedBit     = 5
	pteDirtyBit        = 6
	pteGlobalBit       = 8
)

// PageDirectoryEntry is one of the 1024 entries of a page directory. Its
// address field points to a page table.
type PageDirectoryEntry struct {
	mem.TableEntry
}

// Present returns true if the entry points to a loaded page table.
func (e PageDirectoryEntry) Present() bool { return e.Flag(pdePresentBit) }

// SetPresent updates the entry's present flag.
func (e *PageDirectoryEntry) SetPresent(val bool) { e.SetFlag(pdePresentBit, val) }

// ReadWrite returns true if the pages under this entry are writable.
func (e PageDirectoryEntry) ReadWrite() bool { return e.Flag(pdeReadWriteBit) }

// SetReadWrite updates the entry's read/write flag.
func (e *PageDirectoryEntry) SetReadWrite(val bool) { e.SetFlag(pdeReadWriteBit, val) }

// User returns true if ring-3 code may access the pages under this entry.
func (e PageDirectoryEntry) User() bool { return e.Flag(pdeUserBit) }

// SetUser updates the entry's user flag.
func (e *PageDirectoryEntry) SetUser(val bool) { e.SetFlag(pdeUserBit, val) }

// WriteThrough returns true if write-through caching is enabled.
func (e PageDirectoryEntry) WriteThrough() bool { return e.Flag(pdeWriteThroughBit) }

// SetWriteThrough updates the entry's write-through flag.
func (e *PageDirectoryEntry) SetWriteThrough(val bool) { e.SetFlag(pdeWriteThroughBit, val) }

// DisableCache returns true if the pages under this entry bypass the cache.
func (e PageDirectoryEntry) DisableCache() bool { return e.Flag(pdeDisableCacheBit) }

// SetDisableCache updates the entry's cache-disable flag.
func (e *PageDirectoryEntry) SetDisableCache(val bool) { e.SetFlag(pdeDisableCacheBit, val) }

// Accessed returns true if the MMU has touched this entry.
func (e PageDirectoryEntry) Accessed() bool { return e.Flag(pdeAccessedBit) }

// SetAccessed updates the entry's accessed flag.
func (e *PageDirectoryEntry) SetAccessed(val bool) { e.SetFlag(pdeAccessedBit, val) }

// Size returns true if the entry maps a single large page instead of a page
// table.
func (e PageDirectoryEntry) Size() bool { return e.Flag(pdeSizeBit) }

// SetSize updates the entry's page-size flag.
func (e *PageDirectoryEntry) SetSize(val bool) { e.SetFlag(pdeSizeBit, val) }

// PageTableEntry is one of the 1024 entries of a page table. Its address
// field is the physical frame backing one 4 KiB virtual page.
type PageTableEntry struct {
	mem.TableEntry
}

// Present returns true if the page is mapped.
func (e PageTableEntry) Present() bool { return e.Flag(ptePresentBit) }

// SetPresent updates the entry's present flag.
func (e *PageTableEntry) SetPresent(val bool) { e.SetFlag(ptePresentBit, val) }

// ReadWrite returns true if the page is writable.
func (e PageTableEntry) ReadWrite() bool { return e.Flag(pteReadWriteBit) }

// SetReadWrite updates the entry's read/write flag.
func (e *PageTableEntry) SetReadWrite(val bool) { e.SetFlag(pteReadWriteBit, val) }

// User returns true if ring-3 code may access the page.
func (e PageTableEntry) User() bool { return e.Flag(pteUserBit) }

// SetUser updates the entry's user flag.
func (e *PageTableEntry) SetUser(val bool) { e.SetFlag(pteUserBit, val) }

// WriteThrough returns true if write-through caching is enabled.
func (e PageTableEntry) WriteThrough() bool { return e.Flag(pteWriteThroughBit) }

// SetWriteThrough updates the entry's write-through flag.
func (e *PageTableEntry) SetWriteThrough(val bool) { e.SetFlag(pteWriteThroughBit, val) }

// DisableCache returns true if accesses to the page bypass the cache.
func (e PageTableEntry) DisableCache() bool { return e.Flag(pteDisableCacheBit) }

// SetDisableCache updates the entry's cache-disable flag.
func (e *PageTableEntry) SetDisableCache(val bool) { e.SetFlag(pteDisableCacheBit, val) }

// Accessed returns true if the MMU has touched the page.
func (e PageTableEntry) Accessed() bool { return e.Flag(pteAccessedBit) }

// SetAccessed updates the entry's accessed flag.
func (e *PageTableEntry) SetAccessed(val bool) { e.SetFlag(pteAccessedBit, val) }

// Dirty returns true if the page has been written to.
func (e PageTableEntry) Dirty() bool { return e.Flag(pteDirtyBit) }

// SetDirty updates the entry's dirty flag.
func (e *PageTableEntry) SetDirty(val bool) { e.SetFlag(pteDirtyBit, val) }

// Global returns true if the mapping survives address-space switches.
func (e PageTableEntry) Global() bool { return e.Flag(pteGlobalBit) }

// SetGlobal updates the entry's global flag.
func (e *PageTableEntry) SetGlobal(val bool) { e.SetFlag(pteGlobalBit, val) }
