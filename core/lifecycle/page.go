package lifecycle

import (
	"slices"

	"github.com/volatiletech/null/v8"
)

// PageMeta is the pagination block as reported by the server; it is never computed from the items.
type PageMeta struct {
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	CurrentPage int `json:"currentPage"`
}

// DefaultPageMeta is what a listing reports when the server sent no usable pagination.
var DefaultPageMeta = PageMeta{TotalPages: 1, TotalCount: 0, CurrentPage: 1}

// NewPageMeta applies the defaults to the optional pagination fields of a payload.
// A zero page count is treated as absent.
func NewPageMeta(totalPages, count, currentPage null.Int) PageMeta {
	meta := DefaultPageMeta
	if totalPages.Valid && totalPages.Int != 0 {
		meta.TotalPages = int(totalPages.Int)
	}
	if count.Valid {
		meta.TotalCount = int(count.Int)
	}
	if currentPage.Valid && currentPage.Int != 0 {
		meta.CurrentPage = int(currentPage.Int)
	}
	return meta
}

// Listing is one page of normalized items.
type Listing[T any] struct {
	Items []T
	Meta  PageMeta
}

// EmptyListing is the listing of a failed, empty or malformed fetch.
func EmptyListing[T any]() Listing[T] {
	return Listing[T]{Items: []T{}, Meta: DefaultPageMeta}
}

// Clone returns a copy of l that shares no items with it.
func (l Listing[T]) Clone() Listing[T] {
	return Listing[T]{Items: slices.Clone(l.Items), Meta: l.Meta}
}

// HasNext reports whether a page follows the current one.
func (l Listing[T]) HasNext(page int) bool {
	return page < l.Meta.TotalPages
}

// HasPrev reports whether a page precedes the current one.
func (l Listing[T]) HasPrev(page int) bool {
	return page > 1
}
