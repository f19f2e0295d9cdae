package canvas

// History is a bounded undo/redo stack of grid snapshots.
//
// Push records the state before an edit. When the undo side is full the
// oldest snapshot is dropped.
type History struct {
	depth int
	undo  []Snapshot
	redo  []Snapshot
}

// NewHistory returns a history keeping at most depth undo steps.
// depth <= 0 disables recording.
func NewHistory(depth int) *History {
	return &History{depth: depth}
}

func (h *History) Depth() int    { return h.depth }
func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) Len() int      { return len(h.undo) }

// Push records s as an undo point and clears the redo side.
// A snapshot equal to the newest undo point is not recorded twice.
func (h *History) Push(s Snapshot) {
	if h.depth <= 0 {
		return
	}
	h.redo = h.redo[:0]
	if n := len(h.undo); n > 0 && h.undo[n-1].Equal(s) {
		return
	}
	if len(h.undo) == h.depth {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, s)
}

// Undo restores the newest undo point into g, saving the current state for Redo.
func (h *History) Undo(g *Grid) (bool, error) {
	n := len(h.undo)
	if n == 0 {
		return false, nil
	}
	prev := h.undo[n-1]
	cur := g.Snapshot()
	if err := g.Restore(prev); err != nil {
		return false, err
	}
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, cur)
	return true, nil
}

// Redo reapplies the newest undone state.
func (h *History) Redo(g *Grid) (bool, error) {
	n := len(h.redo)
	if n == 0 {
		return false, nil
	}
	next := h.redo[n-1]
	cur := g.Snapshot()
	if err := g.Restore(next); err != nil {
		return false, err
	}
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, cur)
	return true, nil
}
