package checker

import "fmt"

// ImportDeclaration represents a single import statement
type ImportDeclaration struct {
	Specifier string   // module specifier, e.g. "@angular/core"
	Names     []string // imported bindings, empty for side-effect imports
	Line      int      // 1-based line of the statement
	TypeOnly  bool     // "import type ..."
	Text      string   // raw statement text
	Start     int      // byte offset of the statement in the source
	End       int      // byte offset just past the statement
}

// Category is a classification bucket for import declarations
type Category string

// Unknown is the trailing bucket for specifiers no rule matches.
const Unknown Category = "unknown"

// CategoryOrder is the required grouping order, first category first.
type CategoryOrder []Category

// Index returns the position of c in the order, or -1.
func (o CategoryOrder) Index(c Category) int {
	for i, cat := range o {
		if cat == c {
			return i
		}
	}
	return -1
}

// ViolationKind distinguishes grouping from intra-category problems
type ViolationKind string

const (
	KindOrder        ViolationKind = "order"
	KindAlphabetical ViolationKind = "alphabetical"
)

// Violation records a declaration placed after something that should follow it
type Violation struct {
	Index       int               `json:"index"`
	Declaration ImportDeclaration `json:"-"`
	Specifier   string            `json:"specifier"`
	Line        int               `json:"line"`
	Category    Category          `json:"category"`
	After       Category          `json:"after"`
	Previous    string            `json:"previous,omitempty"` // specifier it should precede (alphabetical only)
	Kind        ViolationKind     `json:"kind"`
	Message     string            `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("line %d: %s", v.Line, v.Message)
}
