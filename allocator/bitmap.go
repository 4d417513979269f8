package allocator

import "unsafe"

// MapWord constrains the storage word of the used/heads bitmaps. The word
// width fixes the alignment of the bitmap region, and therefore of the data
// region placed right behind it.
type MapWord interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IndexWord constrains the type used for block counts, byte sizes and byte
// offsets. It bounds the largest region an allocator instance can manage.
type IndexWord interface {
	~uint16 | ~uint32 | ~uint64
}

func mapBytes[M MapWord]() uintptr {
	var w M
	return unsafe.Sizeof(w)
}

func mapBits[M MapWord]() uintptr {
	return mapBytes[M]() * 8
}

// index must be below the bitmap's bit length, callers guarantee it
func setBit[M MapWord, I IndexWord](bitmap []M, index I) {
	width := I(mapBits[M]())
	bitmap[index/width] |= 1 << (index % width)
}

func clearBit[M MapWord, I IndexWord](bitmap []M, index I) {
	width := I(mapBits[M]())
	bitmap[index/width] &^= 1 << (index % width)
}

func getBit[M MapWord, I IndexWord](bitmap []M, index I) bool {
	width := I(mapBits[M]())
	return bitmap[index/width]&(1<<(index%width)) != 0
}
