package util

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 5
	MaxPerPage     = 10
)

// Calculate saturates the offset at math.MaxInt instead of wrapping.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size > 0 && page-1 > math.MaxInt/size {
		return math.MaxInt, size
	}
	offset = (page - 1) * size
	return offset, size
}

func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// OrDefault treats zero like an absent value.
func OrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
