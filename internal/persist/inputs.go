package persist

import "github.com/javiermolinar/lorastack/internal/slot"

// Inputs returns the keyed node inputs for a snapshot: one "slot_N" entry per
// record holding its on/lora/strength fields, in the form apply.Resolve reads.
func Inputs(s Snapshot) map[string]any {
	inputs := make(map[string]any, len(s.Records))
	for i, r := range s.Records {
		v := map[string]any{
			"on":       r.Enabled,
			"lora":     slot.NormalizeName(r.Model),
			"strength": r.Strength,
		}
		if s.Mode == slot.ModeDual {
			v["strengthTwo"] = r.ClipStrength()
		}
		inputs[slot.Label(i)] = v
	}
	return inputs
}
