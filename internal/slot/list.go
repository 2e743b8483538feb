package slot

import "errors"

// List errors.
var (
	ErrOutOfRange = errors.New("slot index out of range")
)

// List is an immutable ordered sequence of records plus the display mode.
// Every mutation returns a new List; records that did not change are shared
// by value so callers can compare snapshots cheaply.
type List struct {
	records []Record
	mode    Mode
}

// NewList creates a list holding copies of records.
func NewList(mode Mode, records ...Record) *List {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &List{records: rs, mode: mode}
}

// Len returns the number of records.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Mode returns the display mode.
func (l *List) Mode() Mode {
	if l == nil {
		return ModeSingle
	}
	return l.mode
}

// At returns the record at index i.
func (l *List) At(i int) (Record, bool) {
	if !l.valid(i) {
		return Record{}, false
	}
	return l.records[i], true
}

// Records returns a copy of all records in display order.
func (l *List) Records() []Record {
	if l == nil {
		return nil
	}
	rs := make([]Record, len(l.records))
	copy(rs, l.records)
	return rs
}

// IndexOf returns the index of the record with the given ID, or -1.
func (l *List) IndexOf(id uint64) int {
	if l == nil {
		return -1
	}
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Labels returns the external labels in display order: slot_1..slot_N.
func (l *List) Labels() []string {
	labels := make([]string, l.Len())
	for i := range labels {
		labels[i] = Label(i)
	}
	return labels
}

// AllOn reports whether the list is non-empty and every record is enabled.
func (l *List) AllOn() bool {
	if l.Len() == 0 {
		return false
	}
	for _, r := range l.records {
		if !r.Enabled {
			return false
		}
	}
	return true
}

// Mixed reports whether some but not all records are enabled.
func (l *List) Mixed() bool {
	if l.AllOn() {
		return false
	}
	for _, r := range l.records {
		if r.Enabled {
			return true
		}
	}
	return false
}

func (l *List) valid(i int) bool {
	return l != nil && i >= 0 && i < len(l.records)
}

// clone creates a shallow copy; Record is a value type so this is a full copy.
func (l *List) clone() *List {
	return NewList(l.Mode(), l.records...)
}

// withRecord returns a new list with the record at i replaced by r.
func (l *List) withRecord(i int, r Record) (*List, error) {
	if !l.valid(i) {
		return nil, ErrOutOfRange
	}
	next := l.clone()
	next.records[i] = r
	return next, nil
}

// withAppended returns a new list with r appended.
func (l *List) withAppended(r Record) *List {
	rs := make([]Record, 0, l.Len()+1)
	if l != nil {
		rs = append(rs, l.records...)
	}
	rs = append(rs, r)
	return &List{records: rs, mode: l.Mode()}
}

// without returns a new list with the record at i removed.
func (l *List) without(i int) (*List, error) {
	if !l.valid(i) {
		return nil, ErrOutOfRange
	}
	rs := make([]Record, 0, len(l.records)-1)
	rs = append(rs, l.records[:i]...)
	rs = append(rs, l.records[i+1:]...)
	return &List{records: rs, mode: l.mode}, nil
}

// swapped returns a new list with records i and j exchanged.
func (l *List) swapped(i, j int) (*List, error) {
	if !l.valid(i) || !l.valid(j) {
		return nil, ErrOutOfRange
	}
	next := l.clone()
	next.records[i], next.records[j] = next.records[j], next.records[i]
	return next, nil
}

// withMode returns a new list in the given mode. Switching to dual seeds every
// record without a secondary strength from its primary strength; switching to
// single keeps stored secondary strengths untouched.
func (l *List) withMode(mode Mode) *List {
	next := l.clone()
	next.mode = mode
	if mode == ModeDual {
		for i, r := range next.records {
			if !r.HasStrengthTwo {
				r.StrengthTwo = r.Strength
				r.HasStrengthTwo = true
				next.records[i] = r
			}
		}
	}
	return next
}
