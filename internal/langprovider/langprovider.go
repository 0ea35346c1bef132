// Package langprovider composes the bundled TS/JS analyzer with the
// supplemental Go/Python/Java/Rust/C++ extractor into one
// types.LanguageProvider, so a host (the CLI, the MCP server) only has
// to wire a single provider into BuildGraph regardless of which source
// languages a scan actually finds.
package langprovider

import (
	"fmt"

	"github.com/nuthan-ms/depgraph/internal/langx"
	"github.com/nuthan-ms/depgraph/internal/tsast"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Composite dispatches ParseFile/ResolveModule between the two
// providers by file extension.
type Composite struct {
	tsjs *tsast.Provider
	lang *langx.Provider
}

// New constructs the pooled TS/JS and supplemental-language parsers.
func New() (*Composite, error) {
	tsjs, err := tsast.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("langprovider: build ts/js provider: %w", err)
	}
	lang, err := langx.NewProvider()
	if err != nil {
		tsjs.Close()
		return nil, fmt.Errorf("langprovider: build langx provider: %w", err)
	}
	return &Composite{tsjs: tsjs, lang: lang}, nil
}

// Close releases both providers' pooled parsers.
func (c *Composite) Close() {
	c.tsjs.Close()
	c.lang.Close()
}

func (c *Composite) ParseFile(absPath string) (types.ParsedFile, error) {
	if langx.Supports(absPath) {
		return c.lang.ParseFile(absPath)
	}
	return c.tsjs.ParseFile(absPath)
}

func (c *Composite) ResolveModule(fromAbsPath, specifier string) (types.ResolvedModule, error) {
	if langx.Supports(fromAbsPath) {
		return c.lang.ResolveModule(fromAbsPath, specifier)
	}
	return c.tsjs.ResolveModule(fromAbsPath, specifier)
}

// TSJSProvider exposes the underlying TS/JS analyzer so BuildGraph can
// still wire tunnel expansion through it (see analyzer.tsjsUnwrapper).
func (c *Composite) TSJSProvider() *tsast.Provider { return c.tsjs }
