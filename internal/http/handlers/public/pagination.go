package public

import "github.com/bookmart-next/internal/constants"

// normalizePagination 归一化分页参数，默认页大小优先取配置值。
func normalizePagination(page, pageSize, defaultPageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultBookPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultBookPageSize
	}
	if pageSize > constants.MaxBookPageSize {
		pageSize = constants.MaxBookPageSize
	}
	return page, pageSize
}
