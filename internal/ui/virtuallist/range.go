// Package virtuallist computes and renders the visible window of a long,
// fixed-row-height list so only the rows on screen (plus a small overscan
// margin) are ever materialised.
package virtuallist

import (
	"errors"
	"fmt"
)

// DefaultOverscan is the number of extra items rendered above and below the viewport.
const DefaultOverscan = 3

// ErrInvalidArgument is returned for list geometry that cannot be windowed.
var ErrInvalidArgument = errors.New("invalid argument")

// VisibleRange is the inclusive index window a renderer must draw.
// An empty collection yields StartIndex 0 and EndIndex -1.
type VisibleRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
	// OffsetY is the position of StartIndex from the top of the full content.
	OffsetY int `json:"offsetY"`
}

// Len returns the number of indices covered by the range.
func (r VisibleRange) Len() int {
	if r.EndIndex < r.StartIndex {
		return 0
	}
	return r.EndIndex - r.StartIndex + 1
}

// Empty reports whether nothing should be rendered.
func (r VisibleRange) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether index i falls inside the range.
func (r VisibleRange) Contains(i int) bool {
	return i >= r.StartIndex && i <= r.EndIndex
}

func (r VisibleRange) String() string {
	return fmt.Sprintf("[%d..%d] offset=%d", r.StartIndex, r.EndIndex, r.OffsetY)
}

// ComputeVisibleRange converts a scroll position into the window of items to render.
//
// The window starts overscan items above the first visible item and spans
// ceil(viewportHeight/itemHeight) + 2*overscan items past that start, clipped
// to the collection. A negative scrollOffset is treated as 0.
func ComputeVisibleRange(scrollOffset, viewportHeight, itemHeight, itemCount, overscan int) (VisibleRange, error) {
	if err := validate(viewportHeight, itemHeight, overscan); err != nil {
		return VisibleRange{}, err
	}
	if itemCount < 0 {
		return VisibleRange{}, fmt.Errorf("%w: item count %d is negative", ErrInvalidArgument, itemCount)
	}
	return computeRange(scrollOffset, viewportHeight, itemHeight, itemCount, overscan), nil
}

// computeRange assumes already validated geometry.
func computeRange(scrollOffset, viewportHeight, itemHeight, itemCount, overscan int) VisibleRange {
	if itemCount == 0 {
		return VisibleRange{StartIndex: 0, EndIndex: -1, OffsetY: 0}
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	rawStart := scrollOffset / itemHeight
	start := max(0, rawStart-overscan)
	// Past the end of the content: keep start <= end+1.
	start = min(start, itemCount)

	visibleCount := ceilDiv(viewportHeight, itemHeight) + 2*overscan
	end := min(itemCount-1, start+visibleCount)

	return VisibleRange{
		StartIndex: start,
		EndIndex:   end,
		OffsetY:    start * itemHeight,
	}
}

func validate(viewportHeight, itemHeight, overscan int) error {
	if itemHeight <= 0 {
		return fmt.Errorf("%w: item height must be positive, got %d", ErrInvalidArgument, itemHeight)
	}
	if viewportHeight <= 0 {
		return fmt.Errorf("%w: viewport height must be positive, got %d", ErrInvalidArgument, viewportHeight)
	}
	if overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", ErrInvalidArgument, overscan)
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Slice returns the part of items covered by r. Indices outside items are ignored.
func Slice[T any](items []T, r VisibleRange) []T {
	if r.Empty() || len(items) == 0 {
		return nil
	}
	start := max(0, r.StartIndex)
	end := min(len(items), r.EndIndex+1)
	if start >= end {
		return nil
	}
	return items[start:end]
}
