// Package persist converts slot lists to and from their serialized forms.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/tidwall/gjson"
)

// ErrMalformedSnapshot is returned when serialized data is neither of the
// recognized shapes or holds a value that cannot be coerced.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Shape identifies the serialized form a snapshot was read from.
type Shape int

const (
	// ShapeStructured is {"mode": ..., "slots": [{on, lora, strength, strengthTwo?}]}.
	ShapeStructured Shape = iota
	// ShapeFlattened is a bare array whose elements are slot objects or model names.
	ShapeFlattened
)

func (s Shape) String() string {
	if s == ShapeFlattened {
		return "flattened"
	}
	return "structured"
}

// Snapshot is a detached copy of a slot list.
type Snapshot struct {
	Mode    slot.Mode
	Records []slot.Record
	Shape   Shape
}

// Capture copies the current state of store.
func Capture(store *slot.Store) Snapshot {
	return Snapshot{Mode: store.Mode(), Records: store.Snapshot()}
}

// Install replaces the contents of store with the snapshot in one operation.
func (s Snapshot) Install(store *slot.Store) error {
	if err := store.ReplaceAll(s.Records, s.Mode); err != nil {
		return fmt.Errorf("install snapshot: %w", err)
	}
	return nil
}

// Restore parses data and installs it into store. On error the store is
// left untouched.
func Restore(store *slot.Store, data []byte) error {
	snap, err := Load(data)
	if err != nil {
		return err
	}
	return snap.Install(store)
}

// wireSlot is one record of the Structured shape.
type wireSlot struct {
	On          bool     `json:"on"`
	Lora        string   `json:"lora"`
	Strength    float64  `json:"strength"`
	StrengthTwo *float64 `json:"strengthTwo,omitempty"`
}

type wireStack struct {
	Mode  string     `json:"mode"`
	Slots []wireSlot `json:"slots"`
}

// Save encodes the snapshot in the Structured shape. Secondary strengths are
// written only in dual mode.
func Save(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(toWire(s))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// SaveIndent is Save with indentation, for files meant to be read by people.
func SaveIndent(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(toWire(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func toWire(s Snapshot) wireStack {
	w := wireStack{Mode: s.Mode.String(), Slots: make([]wireSlot, 0, len(s.Records))}
	for _, r := range s.Records {
		ws := wireSlot{On: r.Enabled, Lora: slot.NormalizeName(r.Model), Strength: r.Strength}
		if s.Mode == slot.ModeDual {
			two := r.ClipStrength()
			ws.StrengthTwo = &two
		}
		w.Slots = append(w.Slots, ws)
	}
	return w
}

// Load parses either serialized shape into a snapshot. An empty list yields
// one disabled "none" record.
func Load(data []byte) (Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return Snapshot{}, fmt.Errorf("%w: invalid JSON", ErrMalformedSnapshot)
	}
	return parse(gjson.ParseBytes(data))
}

func parse(root gjson.Result) (Snapshot, error) {
	var snap Snapshot
	var elems gjson.Result

	switch {
	case root.IsObject():
		// Any other JSON object, such as a whole workflow document, is not a slot list.
		if !root.Get("slots").Exists() {
			return Snapshot{}, fmt.Errorf("%w: object has no slots", ErrMalformedSnapshot)
		}
		snap.Shape = ShapeStructured
		mode, err := parseMode(root.Get("mode"))
		if err != nil {
			return Snapshot{}, err
		}
		snap.Mode = mode
		elems = root.Get("slots")
		if elems.Exists() && elems.Type != gjson.Null && !elems.IsArray() {
			return Snapshot{}, fmt.Errorf("%w: slots is not an array", ErrMalformedSnapshot)
		}
	case root.IsArray():
		snap.Shape = ShapeFlattened
		elems = root
	default:
		return Snapshot{}, fmt.Errorf("%w: expected an object or an array", ErrMalformedSnapshot)
	}

	var err error
	sawSecondary := false
	elems.ForEach(func(key, value gjson.Result) bool {
		var r slot.Record
		r, err = parseElement(value)
		if err != nil {
			err = fmt.Errorf("slot %d: %w", len(snap.Records), err)
			return false
		}
		sawSecondary = sawSecondary || r.HasStrengthTwo
		snap.Records = append(snap.Records, r)
		return true
	})
	if err != nil {
		return Snapshot{}, err
	}

	// The flattened shape has no mode marker; a secondary strength implies dual.
	if snap.Shape == ShapeFlattened && sawSecondary {
		snap.Mode = slot.ModeDual
	}
	if len(snap.Records) == 0 {
		snap.Records = []slot.Record{slot.NewRecord(slot.NoneModel, snap.Mode)}
	}
	if snap.Mode == slot.ModeDual {
		for i, r := range snap.Records {
			if !r.HasStrengthTwo {
				r.StrengthTwo, r.HasStrengthTwo = r.Strength, true
				snap.Records[i] = r
			}
		}
	}
	return snap, nil
}

func parseMode(v gjson.Result) (slot.Mode, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return slot.ModeSingle, nil
	}
	if v.Type != gjson.String {
		return 0, fmt.Errorf("%w: mode must be a string", ErrMalformedSnapshot)
	}
	mode, err := slot.ParseMode(v.Str)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return mode, nil
}

// parseElement normalizes one list element, either a bare model name or a
// slot object, into a record.
func parseElement(v gjson.Result) (slot.Record, error) {
	switch {
	case v.Type == gjson.String:
		name := slot.NormalizeName(v.Str)
		return slot.Record{
			Enabled:  !slot.IsNone(name),
			Model:    name,
			Strength: slot.DefaultStrength,
		}, nil
	case v.IsObject():
		return parseObject(v)
	default:
		return slot.Record{}, fmt.Errorf("%w: unexpected %s element", ErrMalformedSnapshot, typeName(v))
	}
}

func parseObject(v gjson.Result) (slot.Record, error) {
	r := slot.Record{Enabled: true, Model: slot.NoneModel, Strength: slot.DefaultStrength}

	switch on := v.Get("on"); on.Type {
	case gjson.True, gjson.False:
		r.Enabled = on.Bool()
	case gjson.Null:
	default:
		return r, fmt.Errorf("%w: on must be a boolean", ErrMalformedSnapshot)
	}

	switch name := v.Get("lora"); name.Type {
	case gjson.String:
		r.Model = slot.NormalizeName(name.Str)
	case gjson.Null:
	default:
		return r, fmt.Errorf("%w: lora must be a string", ErrMalformedSnapshot)
	}

	s, ok, err := parseStrength(v.Get("strength"))
	if err != nil {
		return r, fmt.Errorf("strength: %w", err)
	}
	if ok {
		r.Strength = s
	}

	s, ok, err = parseStrength(v.Get("strengthTwo"))
	if err != nil {
		return r, fmt.Errorf("strengthTwo: %w", err)
	}
	if ok {
		r.StrengthTwo, r.HasStrengthTwo = s, true
	}
	return r, nil
}

// parseStrength reads a number or numeric string and clamps it to range.
func parseStrength(v gjson.Result) (float64, bool, error) {
	var f float64
	switch v.Type {
	case gjson.Null:
		return 0, false, nil
	case gjson.Number:
		f = v.Num
	case gjson.String:
		var err error
		f, err = strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q is not a number", ErrMalformedSnapshot, v.Str)
		}
	default:
		return 0, false, fmt.Errorf("%w: unexpected %s", ErrMalformedSnapshot, typeName(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: %v is out of range", ErrMalformedSnapshot, f)
	}
	return slot.ClampStrength(f), true, nil
}

func typeName(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	case v.IsBool():
		return "boolean"
	}
	return v.Type.String()
}
