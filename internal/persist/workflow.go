package persist

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNodeNotFound is returned when a workflow has no node with the requested ID.
var ErrNodeNotFound = errors.New("workflow node not found")

// widgetsKey is where a node keeps its widget state inside a workflow document.
const widgetsKey = "widgets_values"

// Embed writes the snapshot in the Structured shape into the widget values of
// node nodeID of a workflow document and returns the updated document. Other
// content of the document is preserved byte for byte.
func Embed(workflow []byte, nodeID int, s Snapshot) ([]byte, error) {
	idx, err := nodeIndex(workflow, nodeID)
	if err != nil {
		return nil, err
	}
	payload, err := Save(s)
	if err != nil {
		return nil, err
	}
	out, err := sjson.SetRawBytes(workflow, fmt.Sprintf("nodes.%d.%s", idx, widgetsKey), payload)
	if err != nil {
		return nil, fmt.Errorf("embed node %d: %w", nodeID, err)
	}
	return out, nil
}

// Extract reads the slot list stored in node nodeID of a workflow document.
// Both the Structured shape and the flattened widget array are accepted.
func Extract(workflow []byte, nodeID int) (Snapshot, error) {
	idx, err := nodeIndex(workflow, nodeID)
	if err != nil {
		return Snapshot{}, err
	}
	v := gjson.GetBytes(workflow, fmt.Sprintf("nodes.%d.%s", idx, widgetsKey))
	if !v.Exists() {
		return Snapshot{}, fmt.Errorf("node %d: %w: no widget values", nodeID, ErrMalformedSnapshot)
	}
	snap, err := parse(v)
	if err != nil {
		return Snapshot{}, fmt.Errorf("node %d: %w", nodeID, err)
	}
	return snap, nil
}

// NodeIDs lists the IDs of nodes of the given type in a workflow document.
func NodeIDs(workflow []byte, nodeType string) ([]int, error) {
	if !gjson.ValidBytes(workflow) {
		return nil, fmt.Errorf("%w: invalid workflow JSON", ErrMalformedSnapshot)
	}
	var ids []int
	for _, n := range gjson.GetBytes(workflow, "nodes").Array() {
		if n.Get("type").Str == nodeType {
			ids = append(ids, int(n.Get("id").Int()))
		}
	}
	return ids, nil
}

func nodeIndex(workflow []byte, nodeID int) (int, error) {
	if !gjson.ValidBytes(workflow) {
		return 0, fmt.Errorf("%w: invalid workflow JSON", ErrMalformedSnapshot)
	}
	for i, n := range gjson.GetBytes(workflow, "nodes").Array() {
		if id := n.Get("id"); id.Type == gjson.Number && int(id.Int()) == nodeID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("node %d: %w", nodeID, ErrNodeNotFound)
}
