// Package parser extracts top-level import declarations from TypeScript and
// JavaScript sources using tree-sitter. It does not interpret anything else in
// the file.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

// Extensions lists the file extensions the parser understands.
var Extensions = []string{".ts", ".mts", ".cts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// IsSupported reports whether path has a supported extension.
func IsSupported(path string) bool {
	return language(path) != nil
}

// language returns the tree-sitter grammar for the file type
func language(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	}
	return nil
}

// ParseFile reads path and extracts its import declarations. The source is
// returned alongside so callers can rewrite it.
func ParseFile(ctx context.Context, path string) ([]checker.ImportDeclaration, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", errors.ErrMsgFailedToReadFile, err)
	}
	decls, err := Parse(ctx, path, src)
	if err != nil {
		return nil, nil, err
	}
	return decls, src, nil
}

// Parse extracts the import declarations of src, in file order. path selects
// the grammar and is used in error messages. An import statement tree-sitter
// cannot make sense of yields a *errors.ParseError.
func Parse(ctx context.Context, path string, src []byte) ([]checker.ImportDeclaration, error) {
	lang := language(path)
	if lang == nil {
		return nil, fmt.Errorf("%s: %s", errors.ErrMsgUnsupportedFileType, path)
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(lang)

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &errors.ParseError{Path: path, Message: errors.ErrMsgFailedToParseFile, Cause: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.Type() == "ERROR" && isImportError(root, src) {
		return nil, &errors.ParseError{Path: path, Line: line(root), Message: "malformed import statement"}
	}

	var decls []checker.ImportDeclaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "import_statement":
			decl, err := importDeclaration(node, src)
			if err != nil {
				err.Path = path
				return nil, err
			}
			decls = append(decls, decl)
		case "ERROR":
			// Recovery sometimes swallows a broken import into a bare ERROR node.
			if isImportError(node, src) {
				return nil, &errors.ParseError{Path: path, Line: line(node), Message: "malformed import statement"}
			}
		}
	}
	return decls, nil
}

func importDeclaration(node *sitter.Node, src []byte) (checker.ImportDeclaration, *errors.ParseError) {
	decl := checker.ImportDeclaration{
		Line:  line(node),
		Text:  node.Content(src),
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
	}

	if node.HasError() {
		return decl, &errors.ParseError{Line: decl.Line, Message: "malformed import statement"}
	}

	source := node.ChildByFieldName("source")
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type":
			decl.TypeOnly = true
		case "import_clause":
			decl.Names = clauseNames(child, src)
		case "import_require_clause":
			if id := child.NamedChild(0); id != nil && id.Type() == "identifier" {
				decl.Names = []string{id.Content(src)}
			}
			if source == nil {
				source = child.ChildByFieldName("source")
			}
		}
	}

	if source == nil {
		return decl, &errors.ParseError{Line: decl.Line, Message: "import statement has no module specifier"}
	}
	decl.Specifier = strings.Trim(source.Content(src), "'\"")
	return decl, nil
}

// clauseNames lists the local bindings an import clause introduces.
func clauseNames(clause *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(src))
		case "namespace_import":
			if id := child.NamedChild(0); id != nil {
				names = append(names, id.Content(src))
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					names = append(names, alias.Content(src))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, name.Content(src))
				}
			}
		}
	}
	return names
}

func isImportError(node *sitter.Node, src []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(node.Content(src)), "import")
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
