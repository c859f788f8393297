package formationdomain

// InsertionIndex derives the final target index for a drag drop. dropIndex
// is the index of the element the drag was released over, and after says
// which half of that element was targeted. The result is already adjusted
// for the removal of the dragged element: removing it shifts every later
// index down by one, so a raw target past the source comes down by one.
func InsertionIndex(from, dropIndex int, after bool) int {
	to := dropIndex
	if after {
		to++
	}
	if from < to {
		to--
	}
	return to
}

// Move reorders items by extracting the element at from and reinserting it
// at to. Indices address list positions, never element ids, so duplicate
// entries stay unambiguous. Out-of-range indices leave the list untouched.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)

	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved

	return out
}
