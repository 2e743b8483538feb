package persist

import (
	"errors"
	"strings"
	"testing"

	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/tidwall/gjson"
)

func TestLoad_FlattenedNames(t *testing.T) {
	snap, err := Load([]byte(`["None", "styleA.safetensors"]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Shape != ShapeFlattened {
		t.Errorf("shape = %s, want flattened", snap.Shape)
	}
	if snap.Mode != slot.ModeSingle {
		t.Errorf("mode = %s, want single", snap.Mode)
	}
	want := []slot.Record{
		{Enabled: false, Model: "none", Strength: 1.0},
		{Enabled: true, Model: "styleA.safetensors", Strength: 1.0},
	}
	if len(snap.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(snap.Records), len(want))
	}
	for i, w := range want {
		if snap.Records[i] != w {
			t.Errorf("record %d = %+v, want %+v", i, snap.Records[i], w)
		}
	}
}

func TestLoad_FlattenedMixedElements(t *testing.T) {
	snap, err := Load([]byte(`["a.pt", {"lora": "b.pt", "strength": 0.5, "on": false}]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r := snap.Records[0]; !r.Enabled || r.Model != "a.pt" || r.Strength != 1 {
		t.Errorf("string element = %+v", r)
	}
	if r := snap.Records[1]; r.Enabled || r.Model != "b.pt" || r.Strength != 0.5 {
		t.Errorf("object element = %+v", r)
	}
}

func TestLoad_FlattenedSecondaryImpliesDual(t *testing.T) {
	snap, err := Load([]byte(`[{"lora": "a", "strengthTwo": 0.3}, "b"]`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Mode != slot.ModeDual {
		t.Fatalf("mode = %s, want dual", snap.Mode)
	}
	if got := snap.Records[0].StrengthTwo; got != 0.3 {
		t.Errorf("record 0 strengthTwo = %v, want 0.3", got)
	}
	if r := snap.Records[1]; !r.HasStrengthTwo || r.StrengthTwo != r.Strength {
		t.Errorf("record 1 should seed strengthTwo from strength: %+v", r)
	}
}

func TestLoad_StructuredDefaults(t *testing.T) {
	data := `{"mode": "dual", "slots": [
		{"lora": "a"},
		{"on": false, "lora": "b", "strength": 2, "strengthTwo": 0.5},
		{"strength": "1.5"},
		{"lora": "x", "strength": 999, "strengthTwo": -50}
	]}`
	snap, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Shape != ShapeStructured || snap.Mode != slot.ModeDual {
		t.Errorf("shape/mode = %s/%s", snap.Shape, snap.Mode)
	}

	tests := []struct {
		enabled     bool
		model       string
		strength    float64
		strengthTwo float64
	}{
		{true, "a", 1, 1},
		{false, "b", 2, 0.5},
		{true, "none", 1.5, 1.5},
		{true, "x", 20, -20},
	}
	for i, tt := range tests {
		r := snap.Records[i]
		if r.Enabled != tt.enabled || r.Model != tt.model || r.Strength != tt.strength || r.StrengthTwo != tt.strengthTwo {
			t.Errorf("record %d = %+v, want %+v", i, r, tt)
		}
	}
}

func TestLoad_EmptyYieldsNoneRecord(t *testing.T) {
	for _, data := range []string{`[]`, `{"mode": "single", "slots": []}`, `{"slots": null}`} {
		t.Run(data, func(t *testing.T) {
			snap, err := Load([]byte(data))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(snap.Records) != 1 {
				t.Fatalf("got %d records, want 1", len(snap.Records))
			}
			if r := snap.Records[0]; r.Enabled || r.Model != slot.NoneModel || r.Strength != 1 {
				t.Errorf("default record = %+v", r)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `nope`},
		{"number", `42`},
		{"top-level string", `"a.pt"`},
		{"number element", `[1]`},
		{"bool element", `[true]`},
		{"null element", `[null]`},
		{"nested array", `[[]]`},
		{"slots object", `{"slots": {}}`},
		{"empty object", `{}`},
		{"mode only", `{"mode": "dual"}`},
		{"workflow document", `{"nodes": [{"id": 12, "widgets_values": []}], "links": []}`},
		{"unknown mode", `{"mode": "triple", "slots": []}`},
		{"numeric mode", `{"mode": 1}`},
		{"string on", `[{"on": "yes"}]`},
		{"numeric lora", `[{"lora": 3}]`},
		{"text strength", `[{"strength": "abc"}]`},
		{"bool strength", `[{"strength": true}]`},
		{"array strengthTwo", `{"slots": [{"strengthTwo": [1]}]}`},
		{"infinite strength", `[{"strength": 1e999}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("Load(%s) error = %v, want ErrMalformedSnapshot", tt.data, err)
			}
		})
	}
}

func TestRestore_MalformedLeavesStoreUntouched(t *testing.T) {
	store := slot.NewStore(slot.ModeDual)
	_, _ = store.Insert("a")
	_, _ = store.Insert("b")
	before := store.Snapshot()

	for _, data := range []string{
		`["ok.pt", {"strength": "bad"}]`,
		`{"nodes": [{"id": 12, "type": "LoraStack", "widgets_values": []}], "links": []}`,
	} {
		err := Restore(store, []byte(data))
		if !errors.Is(err, ErrMalformedSnapshot) {
			t.Fatalf("Restore(%s) error = %v, want ErrMalformedSnapshot", data, err)
		}
		after := store.Snapshot()
		if len(after) != len(before) || store.Mode() != slot.ModeDual {
			t.Fatalf("Restore(%s) changed the store: %+v", data, after)
		}
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("record %d changed: %+v -> %+v", i, before[i], after[i])
			}
		}
	}
}

func TestSave_StructuredShape(t *testing.T) {
	store := slot.NewStore(slot.ModeSingle)
	_, _ = store.Insert("a.pt")
	_, _ = store.SetStrength(0, slot.Primary, 0.75)
	_, _ = store.SetStrength(0, slot.Secondary, 0.4)

	data, err := Save(Capture(store))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := gjson.GetBytes(data, "mode").Str; got != "single" {
		t.Errorf("mode = %q, want single", got)
	}
	if got := gjson.GetBytes(data, "slots.0.lora").Str; got != "a.pt" {
		t.Errorf("lora = %q", got)
	}
	if !gjson.GetBytes(data, "slots.0.on").Bool() {
		t.Error("on should be true")
	}
	if got := gjson.GetBytes(data, "slots.0.strength").Float(); got != 0.75 {
		t.Errorf("strength = %v", got)
	}
	if strings.Contains(string(data), "strengthTwo") {
		t.Errorf("single mode must not write strengthTwo: %s", data)
	}

	_ = store.SetMode(slot.ModeDual)
	data, err = Save(Capture(store))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := gjson.GetBytes(data, "slots.0.strengthTwo").Float(); got != 0.4 {
		t.Errorf("dual strengthTwo = %v, want 0.4", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, mode := range []slot.Mode{slot.ModeSingle, slot.ModeDual} {
		t.Run(mode.String(), func(t *testing.T) {
			store := slot.NewStore(mode)
			for _, name := range []string{"a.pt", "", "dir/b.pt", "a.pt"} {
				_, _ = store.Insert(name)
			}
			_ = store.SetEnabled(0, false)
			_, _ = store.SetStrength(2, slot.Primary, -3.25)
			_, _ = store.SetStrength(3, slot.Secondary, 12.5)

			data, err := Save(Capture(store))
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			fresh := slot.NewStore(slot.ModeSingle)
			if err := Restore(fresh, data); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}

			if fresh.Mode() != mode {
				t.Errorf("mode = %s, want %s", fresh.Mode(), mode)
			}
			want, got := store.Snapshot(), fresh.Snapshot()
			if len(got) != len(want) {
				t.Fatalf("got %d records, want %d", len(got), len(want))
			}
			for i := range want {
				w, g := want[i], got[i]
				if g.Enabled != w.Enabled || g.Model != w.Model || g.Strength != w.Strength {
					t.Errorf("record %d = %+v, want %+v", i, g, w)
				}
				if mode == slot.ModeDual && g.StrengthTwo != w.StrengthTwo {
					t.Errorf("record %d strengthTwo = %v, want %v", i, g.StrengthTwo, w.StrengthTwo)
				}
				if mode == slot.ModeSingle && g.HasStrengthTwo {
					t.Errorf("record %d kept a secondary strength across a single-mode save", i)
				}
			}
		})
	}
}

func TestInputs(t *testing.T) {
	snap := Snapshot{Mode: slot.ModeSingle, Records: []slot.Record{
		{Enabled: true, Model: "a.pt", Strength: 0.5, StrengthTwo: 2, HasStrengthTwo: true},
		{Enabled: false, Model: "", Strength: 1},
	}}

	in := Inputs(snap)
	if len(in) != 2 {
		t.Fatalf("got %d inputs, want 2", len(in))
	}
	first, ok := in["slot_1"].(map[string]any)
	if !ok {
		t.Fatalf("slot_1 = %#v", in["slot_1"])
	}
	if first["lora"] != "a.pt" || first["strength"] != 0.5 || first["on"] != true {
		t.Errorf("slot_1 = %#v", first)
	}
	if _, ok := first["strengthTwo"]; ok {
		t.Error("single mode inputs must not carry strengthTwo")
	}
	if second := in["slot_2"].(map[string]any); second["lora"] != "none" {
		t.Errorf("slot_2 lora = %v, want none", second["lora"])
	}

	snap.Mode = slot.ModeDual
	first = Inputs(snap)["slot_1"].(map[string]any)
	if first["strengthTwo"] != 2.0 {
		t.Errorf("dual strengthTwo = %v, want 2", first["strengthTwo"])
	}
}
