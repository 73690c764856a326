package virtuallist

import "fmt"

// Config is the static geometry of a virtualised list.
type Config struct {
	ItemHeight     int
	ViewportHeight int
	Overscan       int
}

// DefaultConfig returns a one-row-per-item list with the default overscan.
func DefaultConfig(viewportHeight int) Config {
	return Config{
		ItemHeight:     1,
		ViewportHeight: viewportHeight,
		Overscan:       DefaultOverscan,
	}
}

// Validate reports geometry that would make windowing undefined.
func (c Config) Validate() error {
	return validate(c.ViewportHeight, c.ItemHeight, c.Overscan)
}

// Window holds validated geometry so steady-state scrolling cannot fail.
// It is not safe for concurrent use.
type Window struct {
	cfg Config
}

// NewWindow validates cfg once, at setup time.
func NewWindow(cfg Config) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to configure list window: %w", err)
	}
	return &Window{cfg: cfg}, nil
}

// Config returns the current geometry.
func (w *Window) Config() Config {
	return w.cfg
}

// Range computes the visible range for the given scroll position.
// A negative itemCount is treated as an empty collection.
func (w *Window) Range(scrollOffset, itemCount int) VisibleRange {
	return computeRange(scrollOffset, w.cfg.ViewportHeight, w.cfg.ItemHeight, max(0, itemCount), w.cfg.Overscan)
}

// Resize changes the viewport height, keeping the old value on error.
func (w *Window) Resize(viewportHeight int) error {
	next := w.cfg
	next.ViewportHeight = viewportHeight
	if err := next.Validate(); err != nil {
		return err
	}
	w.cfg = next
	return nil
}

// TotalHeight is the height of the full, unvirtualised content.
func (w *Window) TotalHeight(itemCount int) int {
	return max(0, itemCount) * w.cfg.ItemHeight
}

// MaxScrollOffset is the largest offset that still fills the viewport.
func (w *Window) MaxScrollOffset(itemCount int) int {
	return max(0, w.TotalHeight(itemCount)-w.cfg.ViewportHeight)
}

// ClampScroll bounds offset to [0, MaxScrollOffset].
func (w *Window) ClampScroll(offset, itemCount int) int {
	return min(max(0, offset), w.MaxScrollOffset(itemCount))
}

// ScrollOffsetFor returns the offset closest to current that shows item index
// in full. If the item is already fully visible, current is returned. Items
// taller than the viewport are aligned to their top.
func (w *Window) ScrollOffsetFor(index, current int) int {
	top := index * w.cfg.ItemHeight
	bottom := top + w.cfg.ItemHeight
	switch {
	case top < current, w.cfg.ItemHeight >= w.cfg.ViewportHeight:
		return top
	case bottom > current+w.cfg.ViewportHeight:
		return bottom - w.cfg.ViewportHeight
	default:
		return current
	}
}
