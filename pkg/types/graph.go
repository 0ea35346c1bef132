// Package types defines the data model shared across the dependency-graph
// compiler: nodes, edges, the finalized graph, and the options/result
// shapes of the two public operations.
package types

import "sort"

// NodeId is the canonical identifier for a graph node: a repo-relative
// POSIX path, a POSIX-normalized absolute path for outside-root files,
// "node:<name>" for builtins, or a verbatim unresolved specifier for
// missing nodes. The empty string is never a valid node key.
type NodeId string

// NodeKind classifies what a Node represents.
type NodeKind string

const (
	NodeKindSource   NodeKind = "source"
	NodeKindExternal NodeKind = "external"
	NodeKindBuiltin  NodeKind = "builtin"
	NodeKindMissing  NodeKind = "missing"
)

// Language classifies the source language of a file node.
type Language string

const (
	LanguageTS    Language = "ts"
	LanguageJS    Language = "js"
	LanguageJSON  Language = "json"
	LanguageMD    Language = "md"
	LanguageOther Language = "other"
)

// EdgeKind classifies how an edge is used at runtime.
type EdgeKind string

const (
	EdgeKindRuntime EdgeKind = "runtime"
	EdgeKindType    EdgeKind = "type"
	EdgeKindDynamic EdgeKind = "dynamic"
)

// EdgeResolution classifies whether an edge was stated directly in
// source or discovered by following a re-export forwarding chain.
type EdgeResolution string

const (
	EdgeResolutionExplicit EdgeResolution = "explicit"
	EdgeResolutionImplicit EdgeResolution = "implicit"
)

// Metadata is sparse: fields are omitted from JSON when absent, and keys
// are serialized in canonical order (hash, isOutsideRoot, size) because
// encoding/json emits struct fields in declaration order.
type Metadata struct {
	Hash          string `json:"hash,omitempty"`
	IsOutsideRoot bool   `json:"isOutsideRoot,omitempty"`
	Size          *int64 `json:"size,omitempty"`
}

// IsEmpty reports whether every field is at its zero value, meaning the
// metadata object should be omitted entirely from a Node.
func (m *Metadata) IsEmpty() bool {
	return m == nil || (m.Hash == "" && !m.IsOutsideRoot && m.Size == nil)
}

// Node is a single vertex of the dependency graph.
type Node struct {
	Id          NodeId    `json:"id"`
	Kind        NodeKind  `json:"kind"`
	Language    Language  `json:"language"`
	Description string    `json:"description,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Edge is a single directed relationship from a source node to a target.
type Edge struct {
	Target     NodeId         `json:"target"`
	Kind       EdgeKind       `json:"kind"`
	Resolution EdgeResolution `json:"resolution"`
}

// Less implements the finalizer's canonical edge ordering: by target,
// then kind, then resolution, lexicographically.
func (e Edge) Less(other Edge) bool {
	if e.Target != other.Target {
		return e.Target < other.Target
	}
	if e.Kind != other.Kind {
		return e.Kind < other.Kind
	}
	return e.Resolution < other.Resolution
}

// Graph is the complete, finalized dependency graph: every node key in
// Nodes must also appear in Edges (possibly with an empty slice).
type Graph struct {
	Nodes map[NodeId]*Node    `json:"nodes"`
	Edges map[NodeId][]Edge   `json:"edges"`
}

// NewGraph returns an empty, initialized Graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[NodeId]*Node),
		Edges: make(map[NodeId][]Edge),
	}
}

// SortedNodeIds returns the graph's node keys in ascending lexicographic
// order, the order the finalizer guarantees for serialization.
func (g *Graph) SortedNodeIds() []NodeId {
	ids := make([]NodeId, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
