// Package history keeps linear undo/redo stacks of surface snapshots.
package history

import (
	"log"

	"github.com/example/pebbledraw/internal/raster"
)

// DefaultLimit is the undo depth used when none is configured.
const DefaultLimit = 256

// Surface is the snapshot/restore contract the manager needs.
type Surface interface {
	Snapshot() *raster.Snapshot
	Restore(*raster.Snapshot) error
}

// Manager records a snapshot before every mutating action so it can be undone
// as one unit.
type Manager struct {
	surface Surface
	undo    []*raster.Snapshot
	redo    []*raster.Snapshot

	// Limit caps the undo stack. Zero means unbounded.
	Limit int
	// OnRestore runs after undo or redo replaced the surface content.
	OnRestore func()
}

// New creates a manager for surface with both stacks empty.
func New(surface Surface, limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{surface: surface, Limit: limit}
}

// Begin snapshots the surface ahead of a stroke or clear and drops the redo
// branch.
func (m *Manager) Begin() {
	m.undo = append(m.undo, m.surface.Snapshot())
	if m.Limit > 0 && len(m.undo) > m.Limit {
		drop := len(m.undo) - m.Limit
		clear(m.undo[:drop])
		m.undo = m.undo[drop:]
	}
	m.dropRedo()
}

// Undo restores the most recent snapshot. It returns false when there is
// nothing to undo.
func (m *Manager) Undo() bool {
	return m.swap(&m.undo, &m.redo)
}

// Redo re-applies the most recently undone state. It returns false when the
// redo stack is empty.
func (m *Manager) Redo() bool {
	return m.swap(&m.redo, &m.undo)
}

func (m *Manager) swap(from, to *[]*raster.Snapshot) bool {
	if len(*from) == 0 {
		return false
	}
	current := m.surface.Snapshot()
	last := len(*from) - 1
	sn := (*from)[last]
	(*from)[last] = nil
	*from = (*from)[:last]
	if err := m.surface.Restore(sn); err != nil {
		// The surface is untouched; put the entry back so the stacks stay
		// consistent with what is on screen.
		log.Printf("history: %v", err)
		*from = append(*from, sn)
		return false
	}
	*to = append(*to, current)
	if m.OnRestore != nil {
		m.OnRestore()
	}
	return true
}

// CanUndo reports whether Undo would change the surface.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would change the surface.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the depth of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// Reset discards both stacks.
func (m *Manager) Reset() {
	clear(m.undo)
	m.undo = nil
	m.dropRedo()
}

func (m *Manager) dropRedo() {
	clear(m.redo)
	m.redo = m.redo[:0]
}
