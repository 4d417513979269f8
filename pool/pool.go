// Package pool provides a fixed-size object pool carved out of a block
// allocator. Free elements form a singly linked list threaded through the
// managed memory itself, so Get and Put are O(1) once a chunk is resident.
package pool

import (
	"unsafe"

	"github.com/blockpool/blockpool/allocator"
)

type listHead[I allocator.IndexWord] struct {
	next I
}

// Pool ...
//
// Not safe for concurrent use, same contract as the underlying allocator.
type Pool[M allocator.MapWord, I allocator.IndexWord] struct {
	alloc           *allocator.Allocator[M, I]
	elemSize        I
	chunkSize       I
	numElemPerChunk I
	unusedBytes     uint64
	memoryUsage     uint64

	freeList I
}

// New creates a pool taking chunkSize-byte allocations from al and slicing
// them into elemSize pieces. elemSize must be at least the size of I (the
// free-list node lives inside the element) and no larger than chunkSize.
func New[M allocator.MapWord, I allocator.IndexWord](
	al *allocator.Allocator[M, I], elemSize I, chunkSize I,
) *Pool[M, I] {
	numElem := chunkSize / elemSize
	rounded := (chunkSize + al.BlockSize - 1) / al.BlockSize * al.BlockSize
	return &Pool[M, I]{
		alloc:           al,
		elemSize:        elemSize,
		chunkSize:       chunkSize,
		numElemPerChunk: numElem,
		unusedBytes:     uint64(rounded - numElem*elemSize),
		memoryUsage:     0,

		freeList: ^I(0),
	}
}

func (p *Pool[M, I]) nodeAt(offset I) *listHead[I] {
	return (*listHead[I])(unsafe.Add(p.alloc.Memory.Head, uintptr(offset)))
}

func (p *Pool[M, I]) contentOfList() []I {
	var result []I
	n := p.freeList
	for n != ^I(0) {
		result = append(result, n)
		n = p.nodeAt(n).next
	}
	return result
}

func (p *Pool[M, I]) initChunk(chunk unsafe.Pointer) {
	base := I(uintptr(chunk) - uintptr(p.alloc.Memory.Head))
	p.freeList = base
	for i := I(0); i < p.numElemPerChunk; i++ {
		offset := base + i*p.elemSize
		node := p.nodeAt(offset)
		if i == p.numElemPerChunk-1 {
			node.next = ^I(0)
		} else {
			node.next = offset + p.elemSize
		}
	}
	p.memoryUsage += p.unusedBytes
}

// Get returns a pointer to a free element, grabbing a fresh chunk from the
// allocator when the free list is empty. Returns false when the allocator
// has no room for another chunk.
func (p *Pool[M, I]) Get() (unsafe.Pointer, bool) {
	if p.freeList == ^I(0) {
		chunk := p.alloc.Allocate(p.chunkSize)
		if chunk == nil {
			return nil, false
		}
		p.initChunk(chunk)
	}

	offset := p.freeList
	p.freeList = p.nodeAt(offset).next
	p.memoryUsage += uint64(p.elemSize)

	return unsafe.Add(p.alloc.Memory.Head, uintptr(offset)), true
}

// Put returns an element obtained from Get to the pool. Chunks are never
// handed back to the allocator, released elements are reused by later Gets.
func (p *Pool[M, I]) Put(ptr unsafe.Pointer) {
	offset := I(uintptr(ptr) - uintptr(p.alloc.Memory.Head))
	p.nodeAt(offset).next = p.freeList
	p.freeList = offset
	p.memoryUsage -= uint64(p.elemSize)
}

// GetMemUsage ...
func (p *Pool[M, I]) GetMemUsage() uint64 {
	return p.memoryUsage
}
