// Package pagination slices ordered result sets into numbered pages.
//
// Page numbers are forgiving: a missing or malformed number selects the
// first page and a number outside 1..NumPages selects the last page.
package pagination

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used by feeds.
const DefaultPerPage = 10

// Paginator computes page boundaries for count items.
type Paginator struct {
	Count   int64
	PerPage int
}

// New returns a Paginator. Non-positive perPage falls back to DefaultPerPage.
func New(count int64, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages is the number of pages; an empty result set still has one page.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Number resolves a raw page parameter to a valid page number.
func (p *Paginator) Number(raw string) int {
	n, ok := parseNumber(raw)
	if !ok {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

// Offset is the index of the first item on page number.
func (p *Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}

func parseNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return math.MaxInt, true
		}
		return 0, false
	}
	return n, true
}

// Page is one page of items.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

// HasOtherPages reports whether the result set spans more than one page.
func (p *Page[T]) HasOtherPages() bool { return p.NumPages > 1 }

// PreviousNumber is the number of the preceding page.
func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }

// NextNumber is the number of the following page.
func (p *Page[T]) NextNumber() int { return p.Number + 1 }

// PageRange lists every page number, starting at 1.
func (p *Page[T]) PageRange() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// StartIndex is the 1-based index of the first item on the page, 0 when empty.
func (p *Page[T]) StartIndex() int64 {
	if p.Count == 0 {
		return 0
	}
	return int64(p.Number-1)*int64(p.PerPage) + 1
}

// Fetch counts the result set, resolves raw to a page number and loads that page.
func Fetch[T any](
	ctx context.Context,
	perPage int,
	raw string,
	count func(ctx context.Context) (int64, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (*Page[T], error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}

	p := New(total, perPage)
	number := p.Number(raw)

	var items []T
	if total > 0 {
		items, err = list(ctx, p.PerPage, p.Offset(number))
		if err != nil {
			return nil, err
		}
	}

	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: p.NumPages(),
		Count:    total,
		PerPage:  p.PerPage,
	}, nil
}
