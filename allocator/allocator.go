// Package allocator implements a fixed-block memory allocator over a
// caller-supplied raw buffer. Allocation state is kept in two bitmaps stored
// at the front of that same buffer, so the allocator needs no heap of its own.
package allocator

import (
	"math/bits"
	"unsafe"
)

// MemoryBlock ...
type MemoryBlock[I IndexWord] struct {
	Head unsafe.Pointer
	Size I
}

// BitMaps holds the used and heads bit arrays. Used[i] is set iff block i
// belongs to a live allocation, Heads[i] is set iff block i starts one.
// Size is the block capacity of the data region, indices at or above it are
// never addressed.
type BitMaps[M MapWord, I IndexWord] struct {
	Used  []M
	Heads []M
	Size  I
}

// Allocator ...
//
// Exported fields are read-only for callers, they alias the managed buffer
// and are mutated by Allocate and Deallocate only. Not safe for concurrent
// use, the caller serializes access per instance.
type Allocator[M MapWord, I IndexWord] struct {
	Bitmaps   BitMaps[M, I]
	Memory    MemoryBlock[I]
	BlockSize I
}

// Init initializes a in place over the given memory region. The region is
// carved into the used bitmap, the heads bitmap and the data region, in that
// order. The data region head ends up at a byte offset that is a multiple of
// twice the map word size.
//
// memory MUST point to size bytes of free, zero-initialized storage, and
// blockSize must be > 0 with size >= blockSize. These are caller contracts,
// not runtime checks.
func Init[M MapWord, I IndexWord](a *Allocator[M, I], blockSize I, memory unsafe.Pointer, size I) {
	numBlocks := size / blockSize
	wordCount := (numBlocks + I(mapBits[M]()) - 1) / I(mapBits[M]())
	bitmapSize := wordCount * 2 * I(mapBytes[M]())

	a.Bitmaps.Size = (size - bitmapSize) / blockSize
	a.Bitmaps.Used = unsafe.Slice((*M)(memory), wordCount)
	memory = unsafe.Add(memory, uintptr(bitmapSize/2))
	a.Bitmaps.Heads = unsafe.Slice((*M)(memory), wordCount)
	memory = unsafe.Add(memory, uintptr(bitmapSize/2))
	a.Memory.Head = memory
	a.Memory.Size = a.Bitmaps.Size * blockSize
	a.BlockSize = blockSize
}

// Allocate reserves the first contiguous run of blocks large enough for size
// bytes, rounded up to whole blocks, and returns its address. Returns nil
// when no sufficiently long free run exists, in that case no bit is
// modified. A size of zero rounds to zero blocks and always returns nil.
func (a *Allocator[M, I]) Allocate(size I) unsafe.Pointer {
	numBlocks := (size + a.BlockSize - 1) / a.BlockSize
	start := findContiguousFreeBlocks(numBlocks, a.Bitmaps.Used, a.Bitmaps.Size)
	if start == ^I(0) {
		return nil
	}
	for i := I(0); i < numBlocks; i++ {
		setBit(a.Bitmaps.Used, start+i)
	}
	setBit(a.Bitmaps.Heads, start)
	return unsafe.Add(a.Memory.Head, uintptr(start)*uintptr(a.BlockSize))
}

// Deallocate releases the allocation starting at ptr. Returns false, without
// modifying anything, when ptr does not reference a currently live
// allocation head. The run length is recovered by walking the used bitmap
// forward until a clear used bit or the next head bit.
//
// ptr must lie inside the data region on a block boundary. An out-of-range
// pointer makes the index computation undefined, it can panic on the bitmap
// bounds or hit the wrong block. Use DeallocateChecked when the pointer is
// not trusted.
func (a *Allocator[M, I]) Deallocate(ptr unsafe.Pointer) bool {
	index := I((uintptr(ptr) - uintptr(a.Memory.Head)) / uintptr(a.BlockSize))
	if !getBit(a.Bitmaps.Heads, index) {
		return false
	}
	clearBit(a.Bitmaps.Heads, index)
	for getBit(a.Bitmaps.Used, index) && !getBit(a.Bitmaps.Heads, index) {
		clearBit(a.Bitmaps.Used, index)
		index++
		if index >= a.Bitmaps.Size {
			break
		}
	}
	return true
}

// Contains reports whether ptr points into the managed data region.
func (a *Allocator[M, I]) Contains(ptr unsafe.Pointer) bool {
	head := uintptr(a.Memory.Head)
	return uintptr(ptr) >= head && uintptr(ptr) < head+uintptr(a.Memory.Size)
}

// DeallocateChecked is Deallocate with the pointer contract enforced: it
// returns false instead of misbehaving when ptr lies outside the data region
// or is not aligned to a block boundary.
func (a *Allocator[M, I]) DeallocateChecked(ptr unsafe.Pointer) bool {
	if !a.Contains(ptr) {
		return false
	}
	if (uintptr(ptr)-uintptr(a.Memory.Head))%uintptr(a.BlockSize) != 0 {
		return false
	}
	return a.Deallocate(ptr)
}

// BlocksInUse ...
func (a *Allocator[M, I]) BlocksInUse() I {
	count := I(0)
	for _, w := range a.Bitmaps.Used {
		count += I(bits.OnesCount64(uint64(w)))
	}
	return count
}

// GetMemUsage ...
func (a *Allocator[M, I]) GetMemUsage() uint64 {
	return uint64(a.BlocksInUse()) * uint64(a.BlockSize)
}
