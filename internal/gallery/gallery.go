// Package gallery holds the ordered image list backing the product form: a
// single reorderable sequence mixing persisted images and locally staged
// files, with a dense 1-based position index recomputed on every mutation.
package gallery

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var ErrIndexOutOfRange = errors.New("gallery: index out of range")

// Kind tags an entry as a persisted image or a locally staged file.
type Kind int

const (
	KindExisting Kind = iota
	KindStaged
)

// ExistingImage references an image row already persisted for the product.
type ExistingImage struct {
	ID       uuid.UUID
	URL      string
	Position int
}

// StagedFile is a locally selected file that has not been uploaded yet.
// Release, when set, frees the local preview reference; the model guarantees
// it runs at most once per entry.
type StagedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Release     func()
}

type stagedEntry struct {
	TempID   uuid.UUID
	File     StagedFile
	released bool
}

// Entry is one slot in the ordered sequence. Exactly one of Existing or
// Staged is set, matching Kind.
type Entry struct {
	Kind     Kind
	Position int
	Existing *ExistingImage
	Staged   *stagedEntry
}

// ID returns the persisted image id for existing entries and the local
// temporary id for staged ones.
func (e *Entry) ID() uuid.UUID {
	if e.Kind == KindExisting {
		return e.Existing.ID
	}
	return e.Staged.TempID
}

// File returns the staged payload; the zero value for existing entries.
func (e *Entry) File() StagedFile {
	if e.Kind == KindStaged {
		return e.Staged.File
	}
	return StagedFile{}
}

// PositionAssignment is the (persisted id, position) pair the server applies
// verbatim in step 5 of the save procedure.
type PositionAssignment struct {
	ImageID  uuid.UUID
	Position int
}

// StagedAssignment carries one not-yet-uploaded file and its final position.
type StagedAssignment struct {
	TempID   uuid.UUID
	File     StagedFile
	Position int
}

// Submission is the flat ordered payload produced for the server. Positions
// across both slices are dense, 1-based, and reflect final display order.
type Submission struct {
	Positions []PositionAssignment
	Staged    []StagedAssignment
}

// Model is the reorderable image list. It is not safe for concurrent use;
// the form mutates it from a single goroutine.
type Model struct {
	entries []*Entry
}

// New initializes the model from the product's persisted images, sorted by
// position ascending. Images without a position (<= 0) sort after positioned
// ones, keeping their original relative order. Positions are renumbered to
// 1..N immediately so the invariant holds from the start.
func New(existing []ExistingImage) *Model {
	entries := make([]*Entry, 0, len(existing))
	for i := range existing {
		img := existing[i]
		entries = append(entries, &Entry{Kind: KindExisting, Existing: &img, Position: img.Position})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Position, entries[j].Position
		if pi > 0 && pj > 0 {
			return pi < pj
		}
		return pi > 0 && pj <= 0
	})
	m := &Model{entries: entries}
	m.renumber()
	return m
}

// Len returns the current entry count.
func (m *Model) Len() int { return len(m.entries) }

// Entries returns the sequence in display order. The slice is a copy; the
// entries are shared.
func (m *Model) Entries() []*Entry {
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// AddFiles appends one staged entry per file, each with a fresh temporary id,
// and renumbers. No count or size limit applies here; those are enforced at
// submission. Returns the temporary ids in input order.
func (m *Model) AddFiles(files []StagedFile) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(files))
	for _, f := range files {
		id := uuid.New()
		m.entries = append(m.entries, &Entry{
			Kind:   KindStaged,
			Staged: &stagedEntry{TempID: id, File: f},
		})
		ids = append(ids, id)
	}
	m.renumber()
	return ids
}

// Reorder moves the entry at from to index to, modeling one drag gesture.
// An out-of-range from is an error; an out-of-range to is a cancelled drag
// and a no-op.
func (m *Model) Reorder(from, to int) error {
	if from < 0 || from >= len(m.entries) {
		return ErrIndexOutOfRange
	}
	if to < 0 || to >= len(m.entries) {
		return nil
	}
	if from == to {
		return nil
	}
	entry := m.entries[from]
	m.entries = append(m.entries[:from], m.entries[from+1:]...)
	m.entries = append(m.entries, nil)
	copy(m.entries[to+1:], m.entries[to:])
	m.entries[to] = entry
	m.renumber()
	return nil
}

// Remove drops the entry with the given id, releasing its preview if it was
// staged, and renumbers. Returns false when no entry matches.
func (m *Model) Remove(id uuid.UUID) bool {
	for i, e := range m.entries {
		if e.ID() != id {
			continue
		}
		if e.Kind == KindStaged {
			e.Staged.release()
		}
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		m.renumber()
		return true
	}
	return false
}

// Serialize produces the submission payload: position assignments for every
// existing entry and staged payloads with their positions, both in display
// order. The server trusts these indices verbatim.
func (m *Model) Serialize() Submission {
	var sub Submission
	for _, e := range m.entries {
		switch e.Kind {
		case KindExisting:
			sub.Positions = append(sub.Positions, PositionAssignment{
				ImageID:  e.Existing.ID,
				Position: e.Position,
			})
		case KindStaged:
			sub.Staged = append(sub.Staged, StagedAssignment{
				TempID:   e.Staged.TempID,
				File:     e.Staged.File,
				Position: e.Position,
			})
		}
	}
	return sub
}

// Teardown releases every staged preview. Safe to call more than once; each
// preview is released at most once.
func (m *Model) Teardown() {
	for _, e := range m.entries {
		if e.Kind == KindStaged {
			e.Staged.release()
		}
	}
}

func (s *stagedEntry) release() {
	if s.released {
		return
	}
	s.released = true
	if s.File.Release != nil {
		s.File.Release()
	}
}

// Renumbering is always full-sequence: every mutation rewrites all positions
// to 1..N in current order, so gaps and duplicates cannot occur.
func (m *Model) renumber() {
	for i, e := range m.entries {
		e.Position = i + 1
	}
}
