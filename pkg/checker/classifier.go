package checker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/siyuan-infoblox/imports-order/pkg/builtin"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

// Matcher is the predicate half of a classification rule.
type Matcher interface {
	Match(specifier string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(specifier string) bool

// Match calls f(specifier).
func (f MatcherFunc) Match(specifier string) bool {
	return f(specifier)
}

// Rule pairs a predicate with the category it assigns.
type Rule struct {
	Category Category
	Matcher  Matcher
}

// Classifier assigns categories by testing rules in priority order.
// The first matching rule wins; specifiers nothing matches are Unknown.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier over rules in the given priority order.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify returns the category of specifier.
func (c *Classifier) Classify(specifier string) Category {
	for _, rule := range c.rules {
		if rule.Matcher.Match(specifier) {
			return rule.Category
		}
	}
	return Unknown
}

// GlobMatcher matches specifiers against doublestar patterns such as "@angular/**".
func GlobMatcher(patterns ...string) (Matcher, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &errors.ConfigError{Option: "patterns", Value: pattern, Message: errors.ErrMsgInvalidPattern}
		}
	}
	patterns = append([]string(nil), patterns...)
	return MatcherFunc(func(specifier string) bool {
		for _, pattern := range patterns {
			// Validated above, the error can only be ErrBadPattern.
			if ok, _ := doublestar.Match(pattern, specifier); ok {
				return true
			}
		}
		return false
	}), nil
}

// PrefixMatcher matches specifiers starting with any of prefixes.
func PrefixMatcher(prefixes ...string) Matcher {
	prefixes = append([]string(nil), prefixes...)
	return MatcherFunc(func(specifier string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(specifier, prefix) {
				return true
			}
		}
		return false
	})
}

// ExactMatcher matches specifiers equal to one of names.
func ExactMatcher(names ...string) Matcher {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return MatcherFunc(func(specifier string) bool {
		return set[specifier]
	})
}

// RegexMatcher matches specifiers against regular expressions.
func RegexMatcher(exprs ...string) (Matcher, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &errors.ConfigError{Option: "patterns", Value: expr, Message: errors.ErrMsgInvalidPattern, Cause: err}
		}
		compiled = append(compiled, re)
	}
	return MatcherFunc(func(specifier string) bool {
		for _, re := range compiled {
			if re.MatchString(specifier) {
				return true
			}
		}
		return false
	}), nil
}

// BuiltinMatcher matches Node.js core modules, with or without the node: scheme.
func BuiltinMatcher() Matcher {
	return MatcherFunc(builtin.IsBuiltinModule)
}

// PackageMatcher matches bare package specifiers ("rxjs", "@scope/pkg/sub").
func PackageMatcher() Matcher {
	return MatcherFunc(IsPackageSpecifier)
}

// RelativeMatcher matches "./" and "../" specifiers.
func RelativeMatcher() Matcher {
	return MatcherFunc(IsRelativeSpecifier)
}

// aliasPrefixes mark path aliases resolved by the bundler, not packages.
var aliasPrefixes = []string{"@/", "~/", "#"}

// IsRelativeSpecifier reports whether specifier is a relative path.
func IsRelativeSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// IsPackageSpecifier reports whether specifier resolves through node_modules.
func IsPackageSpecifier(specifier string) bool {
	if specifier == "" || IsRelativeSpecifier(specifier) || strings.HasPrefix(specifier, "/") {
		return false
	}
	for _, prefix := range aliasPrefixes {
		if strings.HasPrefix(specifier, prefix) {
			return false
		}
	}
	// URLs and schemes ("node:fs", "https://...") are not packages.
	return !strings.Contains(specifier, ":")
}

// MatchKind names a predicate kind in configuration.
type MatchKind string

const (
	MatchGlob     MatchKind = "glob"
	MatchPrefix   MatchKind = "prefix"
	MatchExact    MatchKind = "exact"
	MatchRegex    MatchKind = "regex"
	MatchBuiltin  MatchKind = "builtin"
	MatchPackage  MatchKind = "package"
	MatchRelative MatchKind = "relative"
)

// NewMatcher builds the matcher for kind over patterns.
func NewMatcher(kind MatchKind, patterns []string) (Matcher, error) {
	switch kind {
	case MatchGlob, "":
		if len(patterns) == 0 {
			return nil, &errors.ConfigError{Option: "patterns", Message: fmt.Sprintf("%s needs at least one pattern", MatchGlob)}
		}
		return GlobMatcher(patterns...)
	case MatchPrefix:
		return PrefixMatcher(patterns...), nil
	case MatchExact:
		return ExactMatcher(patterns...), nil
	case MatchRegex:
		return RegexMatcher(patterns...)
	case MatchBuiltin:
		return BuiltinMatcher(), nil
	case MatchPackage:
		return PackageMatcher(), nil
	case MatchRelative:
		return RelativeMatcher(), nil
	}
	return nil, &errors.ConfigError{Option: "match", Value: string(kind), Message: errors.ErrMsgUnknownMatchKind}
}
