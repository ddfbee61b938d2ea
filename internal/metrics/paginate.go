package metrics

// Paginate returns the 1-indexed page of items as a contiguous slice
// of the input's backing array: [(page-1)*pageSize, page*pageSize).
// An out-of-range page or non-positive page size yields an empty
// slice, never an error.
func Paginate[T any](items []T, pageSize, page int) []T {
	if pageSize <= 0 || page <= 0 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is the page count for the given item count and page size;
// 0 when either is non-positive.
func TotalPages(itemCount, pageSize int) int {
	if itemCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (itemCount + pageSize - 1) / pageSize
}
