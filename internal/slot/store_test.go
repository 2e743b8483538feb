package slot

import (
	"errors"
	"fmt"
	"testing"
)

// storeWith creates a single-mode store holding one enabled record per name.
func storeWith(t *testing.T, names ...string) *Store {
	t.Helper()
	s := NewStore(ModeSingle)
	for _, n := range names {
		if _, err := s.Insert(n); err != nil {
			t.Fatalf("Insert(%q) failed: %v", n, err)
		}
	}
	return s
}

func models(s *Store) []string {
	var out []string
	for _, r := range s.Snapshot() {
		out = append(out, r.Model)
	}
	return out
}

func assertLabels(t *testing.T, s *Store) {
	t.Helper()
	labels := s.List().Labels()
	if len(labels) != s.Len() {
		t.Fatalf("got %d labels for %d records", len(labels), s.Len())
	}
	seen := make(map[string]bool)
	for i, l := range labels {
		want := fmt.Sprintf("slot_%d", i+1)
		if l != want {
			t.Errorf("label[%d] = %q, want %q", i, l, want)
		}
		if seen[l] {
			t.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
}

func TestStore_NewAndBasics(t *testing.T) {
	s := NewStore(ModeSingle)
	if s.Len() != 0 {
		t.Errorf("new store should be empty, got %d records", s.Len())
	}
	if s.AllOn() || s.Mixed() {
		t.Error("empty store should be neither allOn nor mixed")
	}
	if s.CanUndo() {
		t.Error("new store should have nothing to undo")
	}

	d := NewDefaultStore(ModeDual)
	r, ok := d.At(0)
	if !ok {
		t.Fatal("default store should hold one record")
	}
	if r.Enabled || r.Model != NoneModel {
		t.Errorf("default record = %+v, want disabled none", r)
	}
	if !r.HasStrengthTwo || r.StrengthTwo != DefaultStrength {
		t.Errorf("default dual record should carry a secondary strength, got %+v", r)
	}
}

func TestStore_Insert(t *testing.T) {
	s := NewStore(ModeSingle)

	idx, err := s.Insert("styleA.safetensors")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if idx != 0 {
		t.Errorf("first insert index = %d, want 0", idx)
	}
	r, _ := s.At(0)
	if !r.Enabled || r.Strength != 1.0 || r.HasStrengthTwo {
		t.Errorf("inserted record = %+v, want enabled, strength 1, no secondary", r)
	}

	idx, _ = s.Insert("")
	r, _ = s.At(idx)
	if r.Model != NoneModel || r.Enabled {
		t.Errorf("empty name should insert disabled none, got %+v", r)
	}

	s.SetMode(ModeDual)
	idx, _ = s.Insert("styleB.safetensors")
	r, _ = s.At(idx)
	if !r.HasStrengthTwo || r.StrengthTwo != 1.0 {
		t.Errorf("dual insert should carry secondary 1.0, got %+v", r)
	}
	assertLabels(t, s)
}

func TestStore_IDsAreStable(t *testing.T) {
	s := storeWith(t, "a", "b", "c")
	b, _ := s.At(1)

	if err := s.MoveUp(1); err != nil {
		t.Fatalf("MoveUp failed: %v", err)
	}
	if got := s.IndexOf(b.ID); got != 0 {
		t.Errorf("IndexOf(b) after MoveUp = %d, want 0", got)
	}
	if _, err := s.SetStrength(0, Primary, 3); err != nil {
		t.Fatalf("SetStrength failed: %v", err)
	}
	if got, _ := s.At(0); got.ID != b.ID {
		t.Errorf("SetStrength should keep record ID %d, got %d", b.ID, got.ID)
	}
}

func TestStore_Remove(t *testing.T) {
	s := storeWith(t, "a", "b", "c")

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := models(s); fmt.Sprint(got) != "[a c]" {
		t.Errorf("models after Remove = %v, want [a c]", got)
	}
	assertLabels(t, s)

	if err := s.Remove(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Remove(5) error = %v, want ErrOutOfRange", err)
	}
	if err := s.Remove(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Remove(-1) error = %v, want ErrOutOfRange", err)
	}

	_ = s.Remove(0)
	_ = s.Remove(0)
	if s.Len() != 0 {
		t.Errorf("list should be empty, got %d", s.Len())
	}
	if err := s.Remove(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Remove on empty list error = %v, want ErrOutOfRange", err)
	}
}

func TestStore_MoveBoundaries(t *testing.T) {
	s := storeWith(t, "a", "b", "c")

	var notified int
	s.Subscribe(func(Change) { notified++ })

	if err := s.MoveUp(0); err != nil {
		t.Errorf("MoveUp(0) should be a no-op, got %v", err)
	}
	if err := s.MoveDown(2); err != nil {
		t.Errorf("MoveDown(last) should be a no-op, got %v", err)
	}
	if notified != 0 {
		t.Errorf("boundary moves should not notify, got %d notifications", notified)
	}
	if err := s.MoveDown(9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("MoveDown(9) error = %v, want ErrOutOfRange", err)
	}

	_ = s.MoveDown(0)
	if got := models(s); fmt.Sprint(got) != "[b a c]" {
		t.Errorf("models after MoveDown(0) = %v, want [b a c]", got)
	}
	_ = s.MoveUp(2)
	if got := models(s); fmt.Sprint(got) != "[b c a]" {
		t.Errorf("models after MoveUp(2) = %v, want [b c a]", got)
	}
}

func TestStore_LabelsStayContiguous(t *testing.T) {
	s := NewStore(ModeSingle)
	ops := []func(){
		func() { _, _ = s.Insert("a") },
		func() { _, _ = s.Insert("b") },
		func() { _ = s.MoveUp(1) },
		func() { _, _ = s.Insert("c") },
		func() { _ = s.Remove(0) },
		func() { _ = s.MoveDown(0) },
		func() { _, _ = s.Insert("d") },
		func() { _ = s.Remove(2) },
		func() { _ = s.Remove(0) },
		func() { _ = s.Remove(0) },
		func() { _ = s.MoveUp(0) },
		func() { _, _ = s.Insert("e") },
	}
	for i, op := range ops {
		op()
		t.Run(fmt.Sprintf("step%d", i), func(t *testing.T) {
			assertLabels(t, s)
		})
	}
}

func TestStore_SetStrengthClamps(t *testing.T) {
	s := storeWith(t, "a")

	tests := []struct {
		in   float64
		want float64
	}{
		{999, 20.0},
		{-50, -20.0},
		{0.333, 0.33},
		{20, 20},
		{-20, -20},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			got, err := s.SetStrength(0, Primary, tt.in)
			if err != nil {
				t.Fatalf("SetStrength failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SetStrength(%v) = %v, want %v", tt.in, got, tt.want)
			}
			r, _ := s.At(0)
			if r.Strength != tt.want {
				t.Errorf("stored strength = %v, want %v", r.Strength, tt.want)
			}
		})
	}

	if _, err := s.SetStrength(3, Primary, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetStrength(3) error = %v, want ErrOutOfRange", err)
	}
}

func TestStore_SecondaryInSingleModeIsRetained(t *testing.T) {
	s := storeWith(t, "a")

	if _, err := s.SetStrength(0, Secondary, 0.4); err != nil {
		t.Fatalf("SetStrength(Secondary) failed: %v", err)
	}
	if s.Mode() != ModeSingle {
		t.Fatal("mode should still be single")
	}

	_ = s.SetMode(ModeDual)
	r, _ := s.At(0)
	if r.StrengthTwo != 0.4 {
		t.Errorf("secondary after switching to dual = %v, want retained 0.4", r.StrengthTwo)
	}
}

func TestStore_SetModeRoundTrip(t *testing.T) {
	s := storeWith(t, "a", "b")
	_, _ = s.SetStrength(0, Primary, 2.5)

	_ = s.SetMode(ModeDual)
	r, _ := s.At(0)
	if r.StrengthTwo != 2.5 {
		t.Errorf("secondary seeded from primary = %v, want 2.5", r.StrengthTwo)
	}

	_, _ = s.SetStrength(0, Secondary, 0.7)
	_ = s.SetMode(ModeSingle)
	_, _ = s.SetStrength(0, Primary, 5)
	_ = s.SetMode(ModeDual)

	r, _ = s.At(0)
	if r.StrengthTwo != 0.7 {
		t.Errorf("secondary after dual->single->dual = %v, want last value 0.7", r.StrengthTwo)
	}
}

func TestStore_SetAllEnabled(t *testing.T) {
	s := storeWith(t, "a", "b", "c")
	_ = s.SetEnabled(1, false)

	if s.AllOn() || !s.Mixed() {
		t.Fatalf("mixed list: allOn=%v mixed=%v", s.AllOn(), s.Mixed())
	}

	if err := s.SetAllEnabled(true); err != nil {
		t.Fatalf("SetAllEnabled failed: %v", err)
	}
	if !s.AllOn() || s.Mixed() {
		t.Errorf("after SetAllEnabled(true): allOn=%v mixed=%v, want true false", s.AllOn(), s.Mixed())
	}

	_ = s.ToggleEnabled(2)
	if s.AllOn() || !s.Mixed() {
		t.Errorf("after toggling one off: allOn=%v mixed=%v, want false true", s.AllOn(), s.Mixed())
	}

	_ = s.SetAllEnabled(false)
	if s.AllOn() || s.Mixed() {
		t.Errorf("all disabled: allOn=%v mixed=%v, want false false", s.AllOn(), s.Mixed())
	}
}

func TestStore_SelectModel(t *testing.T) {
	s := storeWith(t, "a")

	_ = s.SelectModel(0, "None")
	r, _ := s.At(0)
	if r.Enabled || r.Model != NoneModel {
		t.Errorf("selecting None = %+v, want disabled none", r)
	}

	_ = s.SelectModel(0, "styles/b.safetensors")
	r, _ = s.At(0)
	if !r.Enabled || r.Model != "styles/b.safetensors" {
		t.Errorf("selecting a model = %+v, want enabled", r)
	}

	_ = s.SetEnabled(0, false)
	_ = s.SetModel(0, "c")
	r, _ = s.At(0)
	if r.Enabled {
		t.Error("SetModel must not change the enabled flag")
	}
}

func TestStore_CopyOnWrite(t *testing.T) {
	s := storeWith(t, "a", "b")
	before := s.List()

	_ = s.SetEnabled(0, false)

	if s.List() == before {
		t.Fatal("mutation should install a new list")
	}
	r, _ := before.At(0)
	if !r.Enabled {
		t.Error("previous list must not be mutated")
	}

	snap := s.Snapshot()
	snap[1].Model = "changed"
	if got, _ := s.At(1); got.Model != "b" {
		t.Error("Snapshot must return a copy")
	}
}

func TestStore_Notifications(t *testing.T) {
	s := storeWith(t, "a", "b", "c")

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	_ = s.SetEnabled(1, false)
	_ = s.Remove(0)
	_ = s.SetMode(ModeDual)

	if len(got) != 3 {
		t.Fatalf("got %d notifications, want 3", len(got))
	}
	if got[0].Kind != ChangeUpdate || fmt.Sprint(got[0].Indices) != "[1]" {
		t.Errorf("first change = %+v, want update [1]", got[0])
	}
	if got[1].Kind != ChangeRemove || fmt.Sprint(got[1].Indices) != "[0 1]" || len(got[1].Removed) != 1 {
		t.Errorf("second change = %+v, want remove [0 1]", got[1])
	}
	if got[2].Kind != ChangeMode || !got[2].All {
		t.Errorf("third change = %+v, want mode/all", got[2])
	}
	if got[2].List != s.List() {
		t.Error("change should carry the new list")
	}

	_ = s.SetEnabled(0, false) // already disabled: no change
	if len(got) != 3 {
		t.Errorf("no-op update should not notify, got %d notifications", len(got))
	}

	unsubscribe()
	_ = s.Remove(0)
	if len(got) != 3 {
		t.Error("unsubscribed listener should not be called")
	}
}

func TestStore_ReentrantMutationRejected(t *testing.T) {
	s := storeWith(t, "a", "b")

	var innerErr error
	s.Subscribe(func(Change) {
		if innerErr == nil {
			innerErr = s.Remove(0)
		}
	})

	_ = s.SetEnabled(1, false)
	if !errors.Is(innerErr, ErrReentrantMutation) {
		t.Errorf("mutation inside listener error = %v, want ErrReentrantMutation", innerErr)
	}
	if s.Len() != 2 {
		t.Errorf("store length = %d, want 2", s.Len())
	}

	// The flag is cleared once publishing returns.
	if err := s.Remove(0); err != nil {
		t.Errorf("Remove after notification failed: %v", err)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := storeWith(t, "a", "b")
	old, _ := s.At(0)

	var change Change
	s.Subscribe(func(c Change) { change = c })

	err := s.ReplaceAll([]Record{
		{Enabled: true, Model: "x", Strength: 99},
		{Model: "NONE", Strength: 0.5},
	}, ModeSingle)
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if change.Kind != ChangeReplace || !change.All || len(change.Removed) != 2 {
		t.Errorf("replace change = %+v", change)
	}
	r0, _ := s.At(0)
	if r0.Strength != 20 {
		t.Errorf("ReplaceAll should clamp strength, got %v", r0.Strength)
	}
	r1, _ := s.At(1)
	if r1.Model != NoneModel {
		t.Errorf("ReplaceAll should normalize the sentinel, got %q", r1.Model)
	}
	if s.IndexOf(old.ID) != -1 {
		t.Error("old IDs should not survive ReplaceAll")
	}
	if s.CanUndo() {
		t.Error("ReplaceAll should clear undo history")
	}
}

func TestStore_Undo(t *testing.T) {
	s := storeWith(t, "a", "b")

	if err := s.Remove(0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := models(s); fmt.Sprint(got) != "[a b]" {
		t.Errorf("models after undo = %v, want [a b]", got)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("second Undo failed: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("third Undo failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("undoing every insert should empty the list, got %d", s.Len())
	}
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo with no history error = %v, want ErrNothingToUndo", err)
	}
}

func TestStore_HistoryIsBounded(t *testing.T) {
	s := storeWith(t, "a")
	for i := 0; i < defaultMaxHistory+10; i++ {
		_, _ = s.SetStrength(0, Primary, float64(i%20))
	}
	if len(s.history) > defaultMaxHistory {
		t.Errorf("history length = %d, want <= %d", len(s.history), defaultMaxHistory)
	}
}

func TestStore_AdjustStrength(t *testing.T) {
	s := storeWith(t, "a")

	got, err := s.AdjustStrength(0, Primary, 0.05)
	if err != nil {
		t.Fatalf("AdjustStrength failed: %v", err)
	}
	if got != 1.05 {
		t.Errorf("AdjustStrength(+0.05) = %v, want 1.05", got)
	}

	got, _ = s.AdjustStrength(0, Secondary, -0.05)
	if got != 1.0 {
		t.Errorf("absent secondary should start from primary: got %v, want 1.0", got)
	}

	_, _ = s.SetStrength(0, Primary, 19.99)
	got, _ = s.AdjustStrength(0, Primary, 0.05)
	if got != 20 {
		t.Errorf("AdjustStrength past the max = %v, want 20", got)
	}
}
