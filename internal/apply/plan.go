// Package apply turns the keyed inputs of a stack node into the ordered list
// of LoRAs to load.
package apply

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/javiermolinar/lorastack/internal/slot"
)

// ErrInvalidInput is returned for an input value that is neither a slot object
// nor a model name.
var ErrInvalidInput = errors.New("invalid slot input")

// keyPrefixes are the accepted input key prefixes, followed by a 1-based index.
var keyPrefixes = []string{slot.LabelPrefix, "lora_"}

// Step is one LoRA to load, in application order.
type Step struct {
	Label         string
	Model         string
	StrengthModel float64
	StrengthClip  float64
}

type keyed struct {
	key   string
	index int
	value any
}

// Resolve orders the slot inputs by their numeric suffix and returns the
// active entries. Keys without a recognized prefix are ignored. Entries that
// are disabled or select no model are skipped.
func Resolve(inputs map[string]any) ([]Step, error) {
	entries := make([]keyed, 0, len(inputs))
	for k, v := range inputs {
		n, ok := slotIndex(k)
		if !ok {
			continue
		}
		entries = append(entries, keyed{key: k, index: n, value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].index != entries[j].index {
			return entries[i].index < entries[j].index
		}
		return entries[i].key < entries[j].key
	})

	steps := make([]Step, 0, len(entries))
	for _, e := range entries {
		r, err := record(e.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.key, err)
		}
		if !r.Active() {
			continue
		}
		steps = append(steps, Step{
			Label:         e.key,
			Model:         r.Model,
			StrengthModel: r.Strength,
			StrengthClip:  r.ClipStrength(),
		})
	}
	return steps, nil
}

func slotIndex(key string) (int, bool) {
	for _, p := range keyPrefixes {
		rest, ok := strings.CutPrefix(key, p)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// record normalizes one input value. Objects read on/lora/strength/strengthTwo
// with defaults; any other scalar is taken as the model name.
func record(v any) (slot.Record, error) {
	r := slot.Record{Enabled: true, Model: slot.NoneModel, Strength: slot.DefaultStrength}
	switch v := v.(type) {
	case string:
		r.Model = slot.NormalizeName(v)
		return r, nil
	case map[string]any:
		if on, ok := v["on"]; ok && on != nil {
			b, ok := on.(bool)
			if !ok {
				return r, fmt.Errorf("%w: on is %T", ErrInvalidInput, on)
			}
			r.Enabled = b
		}
		if name, ok := v["lora"]; ok && name != nil {
			s, ok := name.(string)
			if !ok {
				return r, fmt.Errorf("%w: lora is %T", ErrInvalidInput, name)
			}
			r.Model = slot.NormalizeName(s)
		}
		if s, ok, err := number(v["strength"]); err != nil {
			return r, fmt.Errorf("strength: %w", err)
		} else if ok {
			r.Strength = slot.ClampStrength(s)
		}
		if s, ok, err := number(v["strengthTwo"]); err != nil {
			return r, fmt.Errorf("strengthTwo: %w", err)
		} else if ok {
			r.StrengthTwo, r.HasStrengthTwo = slot.ClampStrength(s), true
		}
		return r, nil
	case nil:
		return r, fmt.Errorf("%w: null", ErrInvalidInput)
	default:
		return r, fmt.Errorf("%w: %T", ErrInvalidInput, v)
	}
}

func number(v any) (float64, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", ErrInvalidInput, n)
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", ErrInvalidInput, n)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("%w: %T", ErrInvalidInput, v)
	}
}

// ResolveJSON decodes a JSON object of keyed inputs and resolves it.
func ResolveJSON(data []byte) ([]Step, error) {
	var inputs map[string]any
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	return Resolve(inputs)
}
