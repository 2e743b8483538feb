package persist

import (
	"errors"
	"testing"

	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/tidwall/gjson"
)

const testWorkflow = `{
  "last_node_id": 7,
  "nodes": [
    {"id": 3, "type": "CheckpointLoader", "widgets_values": ["base.safetensors"]},
    {"id": 7, "type": "LoraStack", "widgets_values": ["None", "styleA.safetensors"]}
  ],
  "links": [[1, 3, 0, 7, 0, "MODEL"]]
}`

func TestExtract_FlattenedWidgets(t *testing.T) {
	snap, err := Extract([]byte(testWorkflow), 7)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if snap.Shape != ShapeFlattened || len(snap.Records) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Records[0].Enabled || !snap.Records[1].Enabled {
		t.Errorf("records = %+v", snap.Records)
	}
}

func TestEmbed_RoundTrip(t *testing.T) {
	snap := Snapshot{Mode: slot.ModeDual, Records: []slot.Record{
		{Enabled: true, Model: "a.pt", Strength: 0.8, StrengthTwo: 0.6, HasStrengthTwo: true},
	}}

	out, err := Embed([]byte(testWorkflow), 7, snap)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if got := gjson.GetBytes(out, "nodes.0.widgets_values").Raw; got != `["base.safetensors"]` {
		t.Errorf("other node changed: %s", got)
	}
	if got := gjson.GetBytes(out, "links.0.5").Str; got != "MODEL" {
		t.Errorf("links changed: %s", gjson.GetBytes(out, "links").Raw)
	}

	back, err := Extract(out, 7)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if back.Shape != ShapeStructured || back.Mode != slot.ModeDual {
		t.Errorf("shape/mode = %s/%s", back.Shape, back.Mode)
	}
	if r := back.Records[0]; r.Model != "a.pt" || r.Strength != 0.8 || r.StrengthTwo != 0.6 {
		t.Errorf("record = %+v", r)
	}
}

func TestEmbed_MissingNode(t *testing.T) {
	_, err := Embed([]byte(testWorkflow), 99, Snapshot{})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Embed error = %v, want ErrNodeNotFound", err)
	}
	_, err = Extract([]byte(testWorkflow), 99)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Extract error = %v, want ErrNodeNotFound", err)
	}
	_, err = Extract([]byte(`{"nodes": [`), 7)
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Errorf("Extract on invalid JSON error = %v, want ErrMalformedSnapshot", err)
	}
}

func TestNodeIDs(t *testing.T) {
	ids, err := NodeIDs([]byte(testWorkflow), "LoraStack")
	if err != nil {
		t.Fatalf("NodeIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("ids = %v, want [7]", ids)
	}
}
