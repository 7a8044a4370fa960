package views

// window tracks the selected row and which rendered lines fit on screen
type window struct {
	height int
	offset int
	cursor int
	total  int
}

func newWindow(height int) *window {
	if height <= 0 {
		height = 20
	}
	return &window{height: height}
}

// setTotal updates the row count, keeping the cursor on a valid row
func (w *window) setTotal(total int) {
	w.total = total
	if w.cursor >= total {
		w.cursor = total - 1
	}
	if w.cursor < 0 {
		w.cursor = 0
	}
}

// setHeight changes how many lines are visible
func (w *window) setHeight(height int) {
	if height > 0 {
		w.height = height
	}
}

func (w *window) up() {
	if w.cursor > 0 {
		w.cursor--
	}
}

func (w *window) down() {
	if w.cursor < w.total-1 {
		w.cursor++
	}
}

// clip returns the lines to draw, scrolling so that focus stays visible
func (w *window) clip(lines []string, focus int) []string {
	if len(lines) <= w.height {
		w.offset = 0
		return lines
	}
	switch {
	case focus < w.offset:
		w.offset = focus
	case focus >= w.offset+w.height:
		w.offset = focus - w.height + 1
	}
	if last := len(lines) - w.height; w.offset > last {
		w.offset = last
	}
	if w.offset < 0 {
		w.offset = 0
	}
	return lines[w.offset : w.offset+w.height]
}
