// Package checker classifies import declarations into categories and reports
// declarations that break the configured category order.
//
// A check is a pure function of its input and the Checker configuration: it
// keeps no state between calls and a single Checker may be shared by
// goroutines checking different files.
package checker

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

// Options configures a Checker.
type Options struct {
	Order         CategoryOrder // required grouping order
	Rules         []Rule        // classification rules, first match wins
	Alphabetize   []Category    // categories whose specifiers must be sorted
	CaseSensitive bool          // compare specifiers by code point instead of case-folded collation
}

// Checker checks import declarations against a category order.
type Checker struct {
	order         CategoryOrder
	rank          map[Category]int
	classifier    *Classifier
	alphabetize   map[Category]bool
	caseSensitive bool
}

// New validates opts and creates a Checker. Invalid options yield a *errors.ConfigError.
func New(opts Options) (*Checker, error) {
	if len(opts.Order) == 0 {
		return nil, &errors.ConfigError{Option: "order", Message: errors.ErrMsgEmptyOrder}
	}

	rank := make(map[Category]int, len(opts.Order))
	for i, cat := range opts.Order {
		if cat == Unknown {
			return nil, &errors.ConfigError{Option: "order", Value: string(cat), Message: errors.ErrMsgReservedCategory}
		}
		if _, dup := rank[cat]; dup {
			return nil, &errors.ConfigError{Option: "order", Value: string(cat), Message: errors.ErrMsgDuplicateCategory}
		}
		rank[cat] = i
	}

	for i, rule := range opts.Rules {
		if rule.Matcher == nil {
			return nil, &errors.ConfigError{Option: fmt.Sprintf("rules[%d]", i), Message: errors.ErrMsgMissingMatcher}
		}
		if _, ok := rank[rule.Category]; !ok {
			return nil, &errors.ConfigError{Option: fmt.Sprintf("rules[%d].category", i), Value: string(rule.Category), Message: errors.ErrMsgUndefinedCategory}
		}
	}

	alphabetize := make(map[Category]bool, len(opts.Alphabetize))
	for _, cat := range opts.Alphabetize {
		if _, ok := rank[cat]; !ok {
			return nil, &errors.ConfigError{Option: "alphabetize", Value: string(cat), Message: errors.ErrMsgUndefinedCategory}
		}
		alphabetize[cat] = true
	}

	return &Checker{
		order:         append(CategoryOrder(nil), opts.Order...),
		rank:          rank,
		classifier:    NewClassifier(opts.Rules),
		alphabetize:   alphabetize,
		caseSensitive: opts.CaseSensitive,
	}, nil
}

// Order returns a copy of the configured category order.
func (c *Checker) Order() CategoryOrder {
	return append(CategoryOrder(nil), c.order...)
}

// Classify returns the category of specifier.
func (c *Checker) Classify(specifier string) Category {
	return c.classifier.Classify(specifier)
}

// Rank returns the position of cat in the order. Unknown ranks after every
// configured category.
func (c *Checker) Rank(cat Category) int {
	if r, ok := c.rank[cat]; ok {
		return r
	}
	return len(c.order)
}

// Alphabetized reports whether specifiers in cat must be sorted.
func (c *Checker) Alphabetized(cat Category) bool {
	return c.alphabetize[cat]
}

// Comparer returns a three-way specifier comparison for one invocation.
// The collator behind it is not safe for concurrent use.
func (c *Checker) Comparer() func(a, b string) int {
	if c.caseSensitive {
		return strings.Compare
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	return col.CompareString
}

// Check walks decls in file order and returns the violations found, in file
// order. A declaration without a specifier aborts the check with a *errors.ParseError.
func (c *Checker) Check(decls []ImportDeclaration) ([]Violation, error) {
	var (
		violations []Violation
		compare    func(a, b string) int
		prev       *ImportDeclaration
		prevCat    Category
	)
	highest := -1

	for i := range decls {
		decl := &decls[i]
		if strings.TrimSpace(decl.Specifier) == "" {
			return nil, &errors.ParseError{Line: decl.Line, Message: "import declaration has no module specifier"}
		}

		cat := c.Classify(decl.Specifier)
		if cat == Unknown {
			continue
		}

		r := c.rank[cat]
		if r < highest {
			after := c.order[highest]
			violations = append(violations, Violation{
				Index:       i,
				Declaration: *decl,
				Specifier:   decl.Specifier,
				Line:        decl.Line,
				Category:    cat,
				After:       after,
				Kind:        KindOrder,
				Message:     fmt.Sprintf("%q (%s) should come before %s imports", decl.Specifier, cat, after),
			})
			continue
		}

		if c.alphabetize[cat] && prev != nil && prevCat == cat {
			if compare == nil {
				compare = c.Comparer()
			}
			if compare(decl.Specifier, prev.Specifier) < 0 {
				violations = append(violations, Violation{
					Index:       i,
					Declaration: *decl,
					Specifier:   decl.Specifier,
					Line:        decl.Line,
					Category:    cat,
					After:       cat,
					Previous:    prev.Specifier,
					Kind:        KindAlphabetical,
					Message:     fmt.Sprintf("%q should come before %q in %s imports", decl.Specifier, prev.Specifier, cat),
				})
				continue
			}
		}

		highest = r
		prev, prevCat = decl, cat
	}

	return violations, nil
}
