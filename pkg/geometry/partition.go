package geometry

// partition rearranges the slice so that every item satisfying the
// predicate comes before every item that does not, returning the index of
// the first item for which the predicate is false.
func partition(slice []componentInfo, predicate func(*componentInfo) bool) int {
	cursor := 0
	for i := range slice {
		if predicate(&slice[i]) {
			slice[i], slice[cursor] = slice[cursor], slice[i]
			cursor++
		}
	}
	return cursor
}

// nthElement rearranges the slice so that the item at position nth is the
// nth smallest, everything before it compares less than it, and everything
// after it does not. This is a quickselect, cheaper than a full sort.
func nthElement(slice []componentInfo, nth int, lessThan func(lhs, rhs *componentInfo) bool) {
	if len(slice) < 2 {
		return
	}

	last := len(slice) - 1
	pivot := len(slice) / 2
	slice[pivot], slice[last] = slice[last], slice[pivot]

	pivotIndex := partition(slice[:last], func(x *componentInfo) bool {
		return lessThan(x, &slice[last])
	})
	slice[last], slice[pivotIndex] = slice[pivotIndex], slice[last]

	if nth < pivotIndex {
		nthElement(slice[:pivotIndex], nth, lessThan)
	} else if nth > pivotIndex {
		nthElement(slice[pivotIndex+1:], nth-pivotIndex-1, lessThan)
	}
}
