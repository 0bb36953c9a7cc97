package engine

import (
	"errors"
	"time"

	"shift-planner-bot/internal/models"
)

// DefaultUndoLimit - глубина истории отмены по умолчанию
const DefaultUndoLimit = 20

// Apply применяет изменение к снимку и сохраняет его.
// При ошибке сохранения возвращается исходный снимок и PersistenceError.
func Apply(current *Snapshot, mutate func(*Snapshot) (*Mutation, error), persist func(*Mutation) error) (*Snapshot, *Mutation, error) {
	m, err := mutate(current)
	if err != nil {
		return current, nil, err
	}
	if m == nil || m.Empty() {
		return current, m, nil
	}

	if err := persist(m); err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			err = &PersistenceError{Op: "persist", Err: err}
		}
		return current, m, err
	}
	return current.WithShifts(m.After), m, nil
}

// UndoEntry - данные для отмены одного изменения
type UndoEntry struct {
	// Restore - прежние версии измененных и удаленных смен
	Restore []*models.Shift

	// Remove - смены, созданные изменением
	Remove []string
}

// Inverse строит запись отмены для изменения
func Inverse(m *Mutation) UndoEntry {
	before := make(map[string]*models.Shift, len(m.Before))
	for _, sh := range m.Before {
		before[sh.ID] = sh
	}

	var entry UndoEntry
	for _, sh := range m.Created {
		entry.Remove = append(entry.Remove, sh.ID)
	}
	for _, sh := range m.Updated {
		if prev, ok := before[sh.ID]; ok {
			entry.Restore = append(entry.Restore, prev.Clone())
		}
	}
	for _, id := range m.Deleted {
		if prev, ok := before[id]; ok {
			entry.Restore = append(entry.Restore, prev.Clone())
		}
	}
	return entry
}

// Revert строит изменение, возвращающее смены из записи отмены.
// Если затронутая смена уже заблокирована отметкой или временем, отмена отклоняется целиком.
// Возвращаемые смены проходят ту же проверку конфликтов, что и новые.
func Revert(snap *Snapshot, entry UndoEntry, now time.Time) (*Mutation, error) {
	remove := make(map[string]bool, len(entry.Remove))
	for _, id := range entry.Remove {
		remove[id] = true
	}
	restore := make(map[string]*models.Shift, len(entry.Restore))
	for _, sh := range entry.Restore {
		restore[sh.ID] = sh
	}

	m := &Mutation{Before: snap.Shifts}
	after := make([]*models.Shift, 0, len(snap.Shifts)+len(entry.Restore))
	for _, sh := range snap.Shifts {
		if remove[sh.ID] {
			if IsShiftLocked(sh, now) {
				return nil, ErrShiftLocked
			}
			m.Deleted = append(m.Deleted, sh.ID)
			continue
		}
		if prev, ok := restore[sh.ID]; ok {
			if IsShiftLocked(sh, now) {
				return nil, ErrShiftLocked
			}
			restored := prev.Clone()
			after = append(after, restored)
			m.Updated = append(m.Updated, restored)
			delete(restore, sh.ID)
			continue
		}
		after = append(after, sh.Clone())
	}
	for _, sh := range entry.Restore {
		if _, pending := restore[sh.ID]; !pending {
			continue
		}
		restored := sh.Clone()
		after = append(after, restored)
		m.Created = append(m.Created, restored)
	}
	m.After = after

	check := snap.WithShifts(after)
	for _, group := range [][]*models.Shift{m.Updated, m.Created} {
		for _, sh := range group {
			if c := CheckPlacement(sh.Employee(), sh.StartTime, sh.EndTime, check, sh.ID); c != nil {
				return nil, &ConflictError{Conflict: *c}
			}
		}
	}
	return m, nil
}

// UndoBuffer - ограниченный стек записей отмены, принадлежащий вызывающему
type UndoBuffer struct {
	limit   int
	entries []UndoEntry
}

func NewUndoBuffer(limit int) *UndoBuffer {
	if limit < 1 {
		limit = DefaultUndoLimit
	}
	return &UndoBuffer{limit: limit}
}

// Push добавляет запись, вытесняя самую старую при переполнении
func (b *UndoBuffer) Push(entry UndoEntry) {
	b.entries = append(b.entries, entry)
	if len(b.entries) > b.limit {
		b.entries = b.entries[len(b.entries)-b.limit:]
	}
}

// Pop снимает последнюю запись
func (b *UndoBuffer) Pop() (UndoEntry, bool) {
	if len(b.entries) == 0 {
		return UndoEntry{}, false
	}
	last := b.entries[len(b.entries)-1]
	b.entries = b.entries[:len(b.entries)-1]
	return last, true
}

// Len - количество записей
func (b *UndoBuffer) Len() int {
	return len(b.entries)
}

// Clear удаляет всю историю
func (b *UndoBuffer) Clear() {
	b.entries = nil
}
