package scroll

import "sort"

// OffsetIndex maps content rows to items of varying height.
// Offsets holds the top row of every item in ascending order.
type OffsetIndex struct {
	Offsets []int
}

// IndexForOffset returns the item covering row y: the last item whose top
// is at or above y. Rows above the first item map to 0.
func (o OffsetIndex) IndexForOffset(y int) int {
	if len(o.Offsets) == 0 {
		return 0
	}
	i := sort.Search(len(o.Offsets), func(i int) bool { return o.Offsets[i] > y })
	return max(i-1, 0)
}

// OffsetForIndex returns the top row of item index, clamped to the valid range.
func (o OffsetIndex) OffsetForIndex(index int) int {
	if len(o.Offsets) == 0 {
		return 0
	}
	index = min(max(index, 0), len(o.Offsets)-1)
	return o.Offsets[index]
}
