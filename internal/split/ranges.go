package split

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docufmt/pdftools/internal/pdf/errors"
)

// PageRange is a closed interval of 1-based page numbers.
type PageRange struct {
	Start int
	End   int
}

// Label renders the range the way output files are named: "7" for a
// single page, "2-5" for a span.
func (r PageRange) Label() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Pages expands the range into its page numbers in ascending order.
func (r PageRange) Pages() []int {
	pages := make([]int, 0, r.Count())
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Count returns the number of pages covered by the range.
func (r PageRange) Count() int {
	return r.End - r.Start + 1
}

// ParseRanges converts a comma separated expression like "1-3,5,7-9" into
// page ranges, keeping the given order. Both ends of a range are
// inclusive and 1-based. Only the shape is checked here; bounds against
// the document are checked by ValidateRanges once the page count is known.
func ParseRanges(expr string) ([]PageRange, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.NewInvalidRange(expr, "expression is empty")
	}

	tokens := strings.Split(expr, ",")
	ranges := make([]PageRange, 0, len(tokens))

	for _, token := range tokens {
		r, err := parseToken(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	return ranges, nil
}

// parseToken parses a single "N" or "N-M" token.
func parseToken(token string) (PageRange, error) {
	if token == "" {
		return PageRange{}, errors.NewInvalidRange(token, "empty token")
	}

	if start, end, found := strings.Cut(token, "-"); found {
		startPage, err := parsePageNumber(start)
		if err != nil {
			return PageRange{}, errors.NewInvalidRange(token, err.Error())
		}
		endPage, err := parsePageNumber(end)
		if err != nil {
			return PageRange{}, errors.NewInvalidRange(token, err.Error())
		}
		if startPage > endPage {
			return PageRange{}, errors.NewInvalidRange(token, "start exceeds end")
		}
		return PageRange{Start: startPage, End: endPage}, nil
	}

	page, err := parsePageNumber(token)
	if err != nil {
		return PageRange{}, errors.NewInvalidRange(token, err.Error())
	}
	return PageRange{Start: page, End: page}, nil
}

// parsePageNumber parses one 1-based page number.
func parsePageNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if page < 1 {
		return 0, fmt.Errorf("page numbers are 1-based, got %d", page)
	}
	return page, nil
}

// ValidateRanges checks every range against the document page count.
func ValidateRanges(ranges []PageRange, pageCount int) error {
	for _, r := range ranges {
		if r.End > pageCount {
			return errors.NewInvalidRange(r.Label(),
				fmt.Sprintf("page %d is out of bounds (document has %d pages)", r.End, pageCount))
		}
	}
	return nil
}
