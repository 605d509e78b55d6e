// Package formatter rewrites an import block into the order a checker expects.
package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

// formatter handles the import grouping logic
type formatter struct {
	checker *checker.Checker
}

// New creates a formatter that orders imports the way c checks them.
func New(c *checker.Checker) *formatter {
	return &formatter{checker: c}
}

// statement is an import declaration together with the source it occupies,
// including a comment trailing it on the same line.
type statement struct {
	decl     checker.ImportDeclaration
	category checker.Category
	text     string
	end      int
}

// Format returns src with its import block reordered: categories in checker
// order, unknown specifiers last, stable within a category unless the
// category is alphabetized, one blank line between groups. decls must be the
// declarations parsed from src, in file order.
func (g *formatter) Format(src []byte, decls []checker.ImportDeclaration) ([]byte, error) {
	if len(decls) == 0 {
		return src, nil
	}

	statements, err := g.extractStatements(src, decls)
	if err != nil {
		return nil, err
	}

	grouped := g.groupImports(statements)
	block := g.formatImports(grouped)

	start, end := decls[0].Start, statements[len(statements)-1].end
	var out bytes.Buffer
	out.Grow(len(src))
	out.Write(src[:start])
	out.WriteString(block)
	out.Write(src[end:])
	return out.Bytes(), nil
}

// extractStatements slices each declaration out of src and verifies that
// only whitespace separates them.
func (g *formatter) extractStatements(src []byte, decls []checker.ImportDeclaration) ([]statement, error) {
	statements := make([]statement, 0, len(decls))
	for i, decl := range decls {
		if decl.Start < 0 || decl.End > len(src) || decl.Start > decl.End {
			return nil, &errors.ParseError{Line: decl.Line, Message: "declaration span is outside the source"}
		}
		if i > 0 {
			gap := src[statements[i-1].end:decl.Start]
			if len(bytes.TrimSpace(gap)) > 0 {
				return nil, fmt.Errorf("%w: line %d", errors.ErrNonContiguousImports, decl.Line)
			}
		}
		end := trailingComment(src, decl.End)
		statements = append(statements, statement{
			decl:     decl,
			category: g.checker.Classify(decl.Specifier),
			text:     string(src[decl.Start:end]),
			end:      end,
		})
	}
	return statements, nil
}

// trailingComment extends end over a "//" comment on the same line.
func trailingComment(src []byte, end int) int {
	rest := src[end:]
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	trimmed := bytes.TrimLeft(rest, " \t")
	if !bytes.HasPrefix(trimmed, []byte("//")) {
		return end
	}
	return end + len(bytes.TrimRight(rest, " \t\r"))
}

// groupImports categorizes statements and sorts each group
func (g *formatter) groupImports(statements []statement) map[checker.Category][]statement {
	grouped := make(map[checker.Category][]statement)
	for _, st := range statements {
		grouped[st.category] = append(grouped[st.category], st)
	}

	var compare func(a, b string) int
	for cat, group := range grouped {
		if !g.checker.Alphabetized(cat) {
			continue
		}
		if compare == nil {
			compare = g.checker.Comparer()
		}
		g.sortImportsInGroup(group, compare)
	}
	return grouped
}

// sortImportsInGroup sorts a group by specifier, keeping ties in file order
func (g *formatter) sortImportsInGroup(group []statement, compare func(a, b string) int) {
	sort.SliceStable(group, func(i, j int) bool {
		return compare(group[i].decl.Specifier, group[j].decl.Specifier) < 0
	})
}

// formatImports lays the groups out in category order, unknown last
func (g *formatter) formatImports(grouped map[checker.Category][]statement) string {
	categories := append(g.checker.Order(), checker.Unknown)

	var blocks []string
	for _, cat := range categories {
		group := grouped[cat]
		if len(group) == 0 {
			continue
		}
		lines := make([]string, 0, len(group))
		for _, st := range group {
			lines = append(lines, st.text)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// Diff renders a unified diff between the original and the formatted source.
// It returns an empty string when nothing changed.
func Diff(path string, before, after []byte) (string, error) {
	if bytes.Equal(before, after) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path + " (ordered)",
		Context:  3,
	})
}
