package slot

import "errors"

// Store errors.
var (
	ErrReentrantMutation = errors.New("store mutated from inside a change notification")
	ErrNothingToUndo     = errors.New("nothing to undo")
)

const defaultMaxHistory = 50

// ChangeKind classifies a change notification.
type ChangeKind int

const (
	ChangeUpdate  ChangeKind = iota // Field change on existing records
	ChangeInsert                    // Record appended
	ChangeRemove                    // Record removed, later labels shifted
	ChangeMove                      // Two adjacent records swapped
	ChangeMode                      // Display mode switched
	ChangeReplace                   // Whole list installed (load or undo)
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeMove:
		return "move"
	case ChangeMode:
		return "mode"
	case ChangeReplace:
		return "replace"
	default:
		return "update"
	}
}

// Change describes one mutation. Indices refer to positions in List; All
// means the whole list must be treated as changed.
type Change struct {
	Kind    ChangeKind
	Indices []int
	All     bool
	// Removed holds the IDs of records that no longer exist after this change.
	Removed []uint64
	List    *List
}

// Listener receives change notifications. It must not mutate the store.
type Listener func(Change)

// Store owns the current List and is the only way to mutate it.
// It is not safe for concurrent use; it expects a single event stream.
type Store struct {
	list       *List
	nextID     uint64
	listeners  map[int]Listener
	listenerID int
	notifying  bool

	history    []*List
	maxHistory int
}

// NewStore creates an empty store in the given mode.
func NewStore(mode Mode) *Store {
	return &Store{
		list:       NewList(mode),
		listeners:  make(map[int]Listener),
		maxHistory: defaultMaxHistory,
	}
}

// NewDefaultStore creates a store holding one disabled "none" record, the
// state a freshly created node starts with.
func NewDefaultStore(mode Mode) *Store {
	s := NewStore(mode)
	r := s.assignID(NewRecord(NoneModel, mode))
	s.list = s.list.withAppended(r)
	return s
}

// List returns the current immutable list. It is safe to keep.
func (s *Store) List() *List {
	return s.list
}

// Snapshot returns a copy of the current records.
func (s *Store) Snapshot() []Record {
	return s.list.Records()
}

// Len returns the number of records.
func (s *Store) Len() int {
	return s.list.Len()
}

// Mode returns the current display mode.
func (s *Store) Mode() Mode {
	return s.list.Mode()
}

// At returns the record at index i.
func (s *Store) At(i int) (Record, bool) {
	return s.list.At(i)
}

// IndexOf returns the current index of the record with the given ID, or -1.
func (s *Store) IndexOf(id uint64) int {
	return s.list.IndexOf(id)
}

// AllOn reports whether the list is non-empty and fully enabled.
func (s *Store) AllOn() bool {
	return s.list.AllOn()
}

// Mixed reports whether some but not all records are enabled.
func (s *Store) Mixed() bool {
	return s.list.Mixed()
}

// Subscribe registers a listener and returns a function removing it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenerID++
	id := s.listenerID
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// CanUndo returns true if there are operations to undo.
func (s *Store) CanUndo() bool {
	return len(s.history) > 0
}

// Insert appends a new record for name and returns its index.
// An empty name becomes the disabled "none" record.
func (s *Store) Insert(name string) (int, error) {
	if s.notifying {
		return -1, ErrReentrantMutation
	}
	r := s.assignID(NewRecord(name, s.Mode()))
	next := s.list.withAppended(r)
	idx := next.Len() - 1
	s.commit(next, Change{Kind: ChangeInsert, Indices: []int{idx}})
	return idx, nil
}

// Remove deletes the record at index i. Labels after i shift down by one.
func (s *Store) Remove(i int) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	r, ok := s.list.At(i)
	if !ok {
		return ErrOutOfRange
	}
	next, err := s.list.without(i)
	if err != nil {
		return err
	}
	s.commit(next, Change{Kind: ChangeRemove, Indices: tail(i, next.Len()), Removed: []uint64{r.ID}})
	return nil
}

// MoveUp swaps record i with its predecessor. It is a no-op for the first record.
func (s *Store) MoveUp(i int) error {
	return s.move(i, i-1)
}

// MoveDown swaps record i with its successor. It is a no-op for the last record.
func (s *Store) MoveDown(i int) error {
	return s.move(i, i+1)
}

func (s *Store) move(i, j int) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	if !s.list.valid(i) {
		return ErrOutOfRange
	}
	if !s.list.valid(j) {
		return nil
	}
	next, err := s.list.swapped(i, j)
	if err != nil {
		return err
	}
	s.commit(next, Change{Kind: ChangeMove, Indices: []int{min(i, j), max(i, j)}})
	return nil
}

// SetEnabled sets the enabled flag of record i.
func (s *Store) SetEnabled(i int, enabled bool) error {
	return s.update(i, func(r *Record) { r.Enabled = enabled })
}

// ToggleEnabled flips the enabled flag of record i.
func (s *Store) ToggleEnabled(i int) error {
	return s.update(i, func(r *Record) { r.Enabled = !r.Enabled })
}

// SetModel sets the model name of record i without touching its enabled flag.
func (s *Store) SetModel(i int, name string) error {
	name = NormalizeName(name)
	return s.update(i, func(r *Record) { r.Model = name })
}

// SelectModel sets the model name of record i and enables it unless the
// selection is the "none" sentinel.
func (s *Store) SelectModel(i int, name string) error {
	name = NormalizeName(name)
	return s.update(i, func(r *Record) {
		r.Model = name
		r.Enabled = !IsNone(name)
	})
}

// SetStrength clamps v and stores it as the given strength of record i,
// returning the stored value. Setting the secondary strength in single mode
// keeps the value for the next switch to dual.
func (s *Store) SetStrength(i int, which Which, v float64) (float64, error) {
	v = ClampStrength(v)
	err := s.update(i, func(r *Record) {
		if which == Secondary {
			r.StrengthTwo = v
			r.HasStrengthTwo = true
			return
		}
		r.Strength = v
	})
	if err != nil {
		return 0, err
	}
	return v, nil
}

// AdjustStrength adds delta to the given strength of record i. An absent
// secondary strength starts from the primary one.
func (s *Store) AdjustStrength(i int, which Which, delta float64) (float64, error) {
	r, ok := s.list.At(i)
	if !ok {
		return 0, ErrOutOfRange
	}
	cur, present := r.StrengthFor(which)
	if !present {
		cur = r.Strength
	}
	return s.SetStrength(i, which, cur+delta)
}

// SetAllEnabled sets every record's enabled flag to enabled.
func (s *Store) SetAllEnabled(enabled bool) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	next := s.list.clone()
	changed := make([]int, 0, next.Len())
	for i, r := range next.records {
		if r.Enabled != enabled {
			r.Enabled = enabled
			next.records[i] = r
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	s.commit(next, Change{Kind: ChangeUpdate, Indices: changed})
	return nil
}

// SetMode switches the display mode for the whole list.
func (s *Store) SetMode(mode Mode) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	if mode == s.Mode() {
		return nil
	}
	s.commit(s.list.withMode(mode), Change{Kind: ChangeMode, All: true})
	return nil
}

// ReplaceAll installs records and mode atomically, assigning fresh IDs and
// clearing undo history.
func (s *Store) ReplaceAll(records []Record, mode Mode) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	rs := make([]Record, len(records))
	for i, r := range records {
		r.Model = NormalizeName(r.Model)
		r.Strength = ClampStrength(r.Strength)
		if r.HasStrengthTwo {
			r.StrengthTwo = ClampStrength(r.StrengthTwo)
		}
		rs[i] = s.assignID(r)
	}
	removed := make([]uint64, 0, s.list.Len())
	for _, r := range s.list.records {
		removed = append(removed, r.ID)
	}
	s.history = nil
	s.publish(&List{records: rs, mode: mode}, Change{Kind: ChangeReplace, All: true, Removed: removed})
	return nil
}

// Undo reverts the last mutation.
func (s *Store) Undo() error {
	if s.notifying {
		return ErrReentrantMutation
	}
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	var removed []uint64
	for _, r := range s.list.records {
		if prev.IndexOf(r.ID) < 0 {
			removed = append(removed, r.ID)
		}
	}
	s.publish(prev, Change{Kind: ChangeReplace, All: true, Removed: removed})
	return nil
}

// update applies fn to a copy of record i and commits it if anything changed.
func (s *Store) update(i int, fn func(*Record)) error {
	if s.notifying {
		return ErrReentrantMutation
	}
	r, ok := s.list.At(i)
	if !ok {
		return ErrOutOfRange
	}
	updated := r
	fn(&updated)
	if updated == r {
		return nil
	}
	next, err := s.list.withRecord(i, updated)
	if err != nil {
		return err
	}
	s.commit(next, Change{Kind: ChangeUpdate, Indices: []int{i}})
	return nil
}

// commit pushes the current list to history and publishes next.
func (s *Store) commit(next *List, change Change) {
	if len(s.history) >= s.maxHistory {
		s.history = s.history[1:]
	}
	s.history = append(s.history, s.list)
	s.publish(next, change)
}

func (s *Store) publish(next *List, change Change) {
	s.list = next
	change.List = next
	s.notifying = true
	defer func() { s.notifying = false }()
	for _, fn := range s.listeners {
		fn(change)
	}
}

func (s *Store) assignID(r Record) Record {
	s.nextID++
	r.ID = s.nextID
	return r
}

// tail returns indices from..n-1, the positions whose labels changed.
func tail(from, n int) []int {
	if from >= n {
		return []int{}
	}
	idx := make([]int, 0, n-from)
	for i := from; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}
