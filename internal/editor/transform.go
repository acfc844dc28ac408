package editor

import (
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

// Transforming reports whether free transform is on.
func (e *Editor) Transforming() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transforming
}

// ToggleFreeTransform flips free transform.
func (e *Editor) ToggleFreeTransform() error {
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		e.setTransform(!e.transforming)
		e.draw()
		return nil
	})
}

// TurnOnFreeTransform snapshots the current shape as the baseline that
// every later ApplyTransform starts from.
func (e *Editor) TurnOnFreeTransform() error {
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		if e.transforming {
			return nil
		}
		e.setTransform(true)
		e.draw()
		return nil
	})
}

// TurnOffFreeTransform keeps the transformed shape as it is and drops the
// baseline.
func (e *Editor) TurnOffFreeTransform() error {
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		if !e.transforming {
			return nil
		}
		e.setTransform(false)
		e.draw()
		return nil
	})
}

// ApplyTransform sets the shape to the baseline mapped through m, in page
// coordinates. Successive calls replace each other rather than compound.
func (e *Editor) ApplyTransform(m layout.TransformMatrix) error {
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		if !e.transforming {
			return ErrNoTransform
		}
		g := e.baseline.Clone()
		g.Transform(m)
		e.geometry = g
		e.draw()
		return nil
	})
}

func (e *Editor) setTransform(on bool) {
	if on == e.transforming || e.geometry == nil {
		return
	}
	e.transforming = on
	e.active = -1
	if on {
		e.baseline = e.geometry.Clone()
	} else {
		e.baseline = nil
	}
}
