package allocator

// findContiguousFreeBlocks scans the used bitmap for the first run of
// numBlocks consecutive clear bits, lowest start index first. Returns the
// start index of the run, or the maximum value of I when no such run exists
// within the first size bits.
func findContiguousFreeBlocks[M MapWord, I IndexWord](numBlocks I, used []M, size I) I {
	count := I(0)
	for i := I(0); i < size; i++ {
		if getBit(used, i) {
			count = 0
			continue
		}
		count++
		if count == numBlocks {
			return i + 1 - numBlocks
		}
	}
	return ^I(0)
}
