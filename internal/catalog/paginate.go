package catalog

import "github.com/rogerio-castellano/frame-storefront/internal/models"

const (
	MobilePageSize     = 8
	DesktopPageSize    = 12
	PageSizeBreakpoint = 640
)

// PageSizeFor picks the infinite-scroll page size for a viewport width. Zero
// or negative widths are treated as desktop.
func PageSizeFor(viewportWidth int) int {
	if viewportWidth > 0 && viewportWidth < PageSizeBreakpoint {
		return MobilePageSize
	}
	return DesktopPageSize
}

// Paginate returns the first pageSize*pageCount items. A pageCount below one is
// treated as one page.
func Paginate(list []models.Product, pageSize, pageCount int) []models.Product {
	if pageSize <= 0 {
		pageSize = DesktopPageSize
	}
	pageCount = clamp(pageCount, 1, TotalPages(len(list), pageSize))
	end := min(pageSize*pageCount, len(list))
	return list[:end:end]
}

// TotalPages is never less than one, even for an empty list.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DesktopPageSize
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return max(1, pages)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Window tracks how many pages of an infinite-scroll listing are visible.
// Any change of filters or chips collapses it back to one page.
type Window struct {
	PageSize  int
	PageCount int
	key       string
}

func NewWindow(pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = DesktopPageSize
	}
	return &Window{PageSize: pageSize, PageCount: 1}
}

// Resume restores a window the client already has open: pageCount pages
// shown for the selection key.
func (w *Window) Resume(key string, pageCount int) {
	w.key = key
	w.PageCount = max(pageCount, 1)
}

// Sync records the current selection key and reports whether the window was
// reset because it changed.
func (w *Window) Sync(key string) bool {
	if key == w.key {
		return false
	}
	w.key = key
	w.PageCount = 1
	return true
}

// Advance shows one more page if the listing has one.
func (w *Window) Advance(total int) bool {
	if w.PageCount+1 > TotalPages(total, w.PageSize) {
		return false
	}
	w.PageCount++
	return true
}

// Visible is the window applied to list.
func (w *Window) Visible(list []models.Product) []models.Product {
	return Paginate(list, w.PageSize, w.PageCount)
}
