// Package blockpool wires the fixed-block allocator to Go-provisioned
// backing storage. The zero-dependency core in package allocator works over
// any caller-supplied buffer; this package covers the common case of a
// process-local arena with validated configuration.
package blockpool

import (
	"unsafe"

	"github.com/blockpool/blockpool/allocator"
	"github.com/blockpool/blockpool/pool"
)

// Config ...
type Config struct {
	BlockSize uint32
	MemLimit  int
}

func validateConfig(conf Config) {
	if conf.BlockSize == 0 {
		panic("BlockSize must > 0")
	}
	if conf.MemLimit < int(conf.BlockSize) {
		panic("MemLimit must >= BlockSize")
	}
}

// backing storage as []uint64 guarantees zero fill and word alignment
func allocateData(limit int) []uint64 {
	return make([]uint64, (limit+7)>>3)
}

// Arena owns a zeroed buffer and a block allocator over it, with 64-bit
// bitmap words and 32-bit indices. Not safe for concurrent use.
type Arena struct {
	data  []uint64
	alloc allocator.Allocator[uint64, uint32]
}

// New ...
func New(conf Config) *Arena {
	validateConfig(conf)

	data := allocateData(conf.MemLimit)

	result := &Arena{data: data}
	allocator.Init(&result.alloc, conf.BlockSize, unsafe.Pointer(&data[0]), uint32(conf.MemLimit))
	return result
}

// Allocate returns a pointer to size bytes rounded up to whole blocks, or
// nil when no contiguous free run fits the request.
func (a *Arena) Allocate(size uint32) unsafe.Pointer {
	return a.alloc.Allocate(size)
}

// Deallocate releases an allocation returned by Allocate. Pointers outside
// the arena, mid-block pointers and already freed allocations all report
// false without mutating anything.
func (a *Arena) Deallocate(ptr unsafe.Pointer) bool {
	return a.alloc.DeallocateChecked(ptr)
}

// GetMemUsage ...
func (a *Arena) GetMemUsage() uint64 {
	return a.alloc.GetMemUsage()
}

// Allocator exposes the underlying allocator for direct use.
func (a *Arena) Allocator() *allocator.Allocator[uint64, uint32] {
	return &a.alloc
}

// NewPool ...
func (a *Arena) NewPool(elemSize uint32, chunkSize uint32) *pool.Pool[uint64, uint32] {
	return pool.New(&a.alloc, elemSize, chunkSize)
}
