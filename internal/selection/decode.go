package selection

import (
	"encoding/json"
	"fmt"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

const (
	bitRuntime = 1
	bitType    = 2
	bitDynamic = 4
)

// DecodeSelectionEntry parses one raw include/exclude entry accepted
// from CLI flags or the MCP tool schema: a bare nodeId string,
// [nodeId, depth], or [nodeId, depth, edgeKinds] where edgeKinds is
// either an array of edge-kind strings or a numeric bitmask
// (runtime=1, type=2, dynamic=4). A nil EdgeKinds on the returned entry
// means "unspecified" — SummarizeSelection falls back to its
// configured default kinds for that entry.
func DecodeSelectionEntry(raw json.RawMessage) (types.SelectionEntry, error) {
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return types.SelectionEntry{NodeId: types.NodeId(bare)}, nil
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return types.SelectionEntry{}, fmt.Errorf("selection: invalid entry shape: %w", err)
	}
	if len(tuple) == 0 {
		return types.SelectionEntry{}, fmt.Errorf("selection: empty entry tuple")
	}

	var id string
	if err := json.Unmarshal(tuple[0], &id); err != nil {
		return types.SelectionEntry{}, fmt.Errorf("selection: entry nodeId must be a string: %w", err)
	}
	entry := types.SelectionEntry{NodeId: types.NodeId(id)}

	if len(tuple) >= 2 {
		var depth int
		if err := json.Unmarshal(tuple[1], &depth); err != nil {
			return types.SelectionEntry{}, fmt.Errorf("selection: entry depth must be an integer: %w", err)
		}
		entry.Depth = depth
	}

	if len(tuple) >= 3 {
		kinds, err := decodeEdgeKinds(tuple[2])
		if err != nil {
			return types.SelectionEntry{}, err
		}
		entry.EdgeKinds = kinds
	}

	return entry, nil
}

func decodeEdgeKinds(raw json.RawMessage) ([]types.EdgeKind, error) {
	var mask int
	if err := json.Unmarshal(raw, &mask); err == nil {
		kinds := make([]types.EdgeKind, 0, 3)
		if mask&bitRuntime != 0 {
			kinds = append(kinds, types.EdgeKindRuntime)
		}
		if mask&bitType != 0 {
			kinds = append(kinds, types.EdgeKindType)
		}
		if mask&bitDynamic != 0 {
			kinds = append(kinds, types.EdgeKindDynamic)
		}
		return kinds, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("selection: entry edgeKinds must be an array or a numeric bitmask: %w", err)
	}
	kinds := make([]types.EdgeKind, 0, len(names))
	for _, n := range names {
		kinds = append(kinds, types.EdgeKind(n))
	}
	return kinds, nil
}
