package types

// ExplicitImport is a single statically-discovered import/export/require
// reference found in a source file, before resolution.
type ExplicitImport struct {
	Specifier string
	Kind      EdgeKind
}

// TunnelRequest is an importer binding that should be followed through
// its source module to find the symbol's defining module.
// ExportName is "default" for default-import tunnels.
type TunnelRequest struct {
	Specifier  string
	ExportName string
	Kind       EdgeKind
}

// Extractable is implemented by a ParsedFile that can yield its
// explicit imports and tunnel requests. The default in-repo language
// provider (internal/tsast) implements this directly on the value it
// returns from ParseFile; a host-supplied ParsedFile that does not
// implement it gets no outgoing edges, explicit or tunneled.
type Extractable interface {
	ExplicitImports() []ExplicitImport
	TunnelRequests() []TunnelRequest
}
