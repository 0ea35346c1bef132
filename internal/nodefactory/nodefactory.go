// Package nodefactory assembles Node
// values, including the hashed-file-node shortcut used for every
// universe member. Grounded on the node-assembly shape of teacher's
// processFile in internal/analyzer/graph.go, generalized from the
// teacher's single File/Symbol split to the compiler's flat Node model.
package nodefactory

import (
	"strings"

	"github.com/nuthan-ms/depgraph/internal/hashutil"
	"github.com/nuthan-ms/depgraph/internal/pathutil"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// MakeNodeInput is the argument to MakeNode.
type MakeNodeInput struct {
	Id          types.NodeId
	Kind        types.NodeKind
	Language    types.Language
	Description string
	Metadata    *types.Metadata
}

// MakeNode assembles a Node, omitting an empty description and an
// empty metadata object.
func MakeNode(in MakeNodeInput) *types.Node {
	n := &types.Node{
		Id:       in.Id,
		Kind:     in.Kind,
		Language: in.Language,
	}
	if strings.TrimSpace(in.Description) != "" {
		n.Description = in.Description
	}
	if in.Metadata != nil && !in.Metadata.IsEmpty() {
		n.Metadata = in.Metadata
	}
	return n
}

// LanguageFromExtension derives a Language from a file's lowercase
// extension. ".d.ts" is checked before ".ts" since it is
// a two-part suffix.
func LanguageFromExtension(absPath string) types.Language {
	lower := strings.ToLower(absPath)
	switch {
	case strings.HasSuffix(lower, ".d.ts"), strings.HasSuffix(lower, ".ts"), strings.HasSuffix(lower, ".tsx"):
		return types.LanguageTS
	case strings.HasSuffix(lower, ".js"), strings.HasSuffix(lower, ".jsx"):
		return types.LanguageJS
	case strings.HasSuffix(lower, ".json"):
		return types.LanguageJSON
	case strings.HasSuffix(lower, ".md"):
		return types.LanguageMD
	default:
		return types.LanguageOther
	}
}

// MakeHashedFileNodeInput is the argument to MakeHashedFileNode.
type MakeHashedFileNodeInput struct {
	AbsPath string
	Cwd     string
	Kind    types.NodeKind
}

// MakeHashedFileNode hashes the file at AbsPath and assembles a Node
// with sparse metadata: id/isOutsideRoot from the path
// normalizer, language from extension, hash and size from the hasher.
// Returns ok=false if the file cannot be hashed.
func MakeHashedFileNode(in MakeHashedFileNodeInput) (*types.Node, bool) {
	id, outsideRoot := pathutil.AbsPathToNodeID(in.AbsPath, in.Cwd)
	if id == "" {
		return nil, false
	}

	res, ok := hashutil.TryHashFile(in.AbsPath)
	if !ok {
		return nil, false
	}

	size := res.Size
	md := &types.Metadata{
		Hash:          res.HashHex,
		IsOutsideRoot: outsideRoot,
		Size:          &size,
	}

	node := MakeNode(MakeNodeInput{
		Id:       types.NodeId(id),
		Kind:     in.Kind,
		Language: LanguageFromExtension(in.AbsPath),
		Metadata: md,
	})
	return node, true
}
