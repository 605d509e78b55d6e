package checker

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/imports-order/pkg/errors"
)

const (
	framework     Category = "framework"
	thirdParty    Category = "third_party"
	internalAlias Category = "internal_alias"
)

// newAngularChecker mirrors the layout used by the angular fixtures.
func newAngularChecker(t *testing.T, alphabetize ...Category) *Checker {
	t.Helper()
	frameworkGlob, err := GlobMatcher("@angular/**")
	require.NoError(t, err)
	aliasGlob, err := GlobMatcher("@/**")
	require.NoError(t, err)

	c, err := New(Options{
		Order: CategoryOrder{framework, thirdParty, internalAlias},
		Rules: []Rule{
			{Category: framework, Matcher: frameworkGlob},
			{Category: internalAlias, Matcher: aliasGlob},
			{Category: thirdParty, Matcher: PackageMatcher()},
		},
		Alphabetize: alphabetize,
	})
	require.NoError(t, err)
	return c
}

func decls(specifiers ...string) []ImportDeclaration {
	out := make([]ImportDeclaration, 0, len(specifiers))
	for i, s := range specifiers {
		out = append(out, ImportDeclaration{Specifier: s, Line: i + 1})
	}
	return out
}

func TestChecker_New(t *testing.T) {
	glob, err := GlobMatcher("x/**")
	require.NoError(t, err)

	tests := []struct {
		name       string
		opts       Options
		wantOption string
		wantMsg    string
	}{
		{
			name:       "empty order",
			opts:       Options{},
			wantOption: "order",
			wantMsg:    errors.ErrMsgEmptyOrder,
		},
		{
			name:       "duplicate category",
			opts:       Options{Order: CategoryOrder{framework, thirdParty, framework}},
			wantOption: "order",
			wantMsg:    errors.ErrMsgDuplicateCategory,
		},
		{
			name:       "reserved category",
			opts:       Options{Order: CategoryOrder{framework, Unknown}},
			wantOption: "order",
			wantMsg:    errors.ErrMsgReservedCategory,
		},
		{
			name: "rule references undefined category",
			opts: Options{
				Order: CategoryOrder{framework},
				Rules: []Rule{{Category: thirdParty, Matcher: glob}},
			},
			wantOption: "rules[0].category",
			wantMsg:    errors.ErrMsgUndefinedCategory,
		},
		{
			name: "rule without matcher",
			opts: Options{
				Order: CategoryOrder{framework},
				Rules: []Rule{{Category: framework, Matcher: glob}, {Category: framework}},
			},
			wantOption: "rules[1]",
			wantMsg:    errors.ErrMsgMissingMatcher,
		},
		{
			name:       "alphabetize references undefined category",
			opts:       Options{Order: CategoryOrder{framework}, Alphabetize: []Category{thirdParty}},
			wantOption: "alphabetize",
			wantMsg:    errors.ErrMsgUndefinedCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			c, err := New(tt.opts)
			req.Nil(c)
			req.Error(err)
			req.True(goerrors.Is(err, errors.ErrConfig), "expected a configuration error, got %v", err)

			var configErr *errors.ConfigError
			req.True(goerrors.As(err, &configErr))
			req.Equal(tt.wantOption, configErr.Option)
			req.Equal(tt.wantMsg, configErr.Message)
		})
	}
}

func TestChecker_Check_sortedInputIsClean(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	input := decls(
		"@angular/common",
		"@angular/core",
		"rxjs",
		"rxjs/operators",
		"@/components/select-year/select-year.component",
		"@/services/automation/automation-api.service",
	)

	violations, err := c.Check(input)
	req.NoError(err)
	req.Empty(violations)

	again, err := c.Check(input)
	req.NoError(err)
	req.Empty(again, "re-running never finds new violations")
}

func TestChecker_Check_singleOutOfOrderDeclaration(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	// FRAMEWORK, THIRD_PARTY, INTERNAL_ALIAS, FRAMEWORK
	input := decls("@angular/core", "rxjs", "@/services/api", "@angular/forms")

	violations, err := c.Check(input)
	req.NoError(err)
	req.Len(violations, 1)

	v := violations[0]
	req.Equal(3, v.Index)
	req.Equal("@angular/forms", v.Specifier)
	req.Equal(4, v.Line)
	req.Equal(framework, v.Category)
	req.Equal(internalAlias, v.After)
	req.Equal(KindOrder, v.Kind)
	req.Equal(`"@angular/forms" (framework) should come before internal_alias imports`, v.Message)
	req.Equal(`line 4: "@angular/forms" (framework) should come before internal_alias imports`, v.String())
}

func TestChecker_Check_aliasBeforeFramework(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	violations, err := c.Check(decls("@/components/a", "@angular/core"))
	req.NoError(err)
	req.Len(violations, 1)
	req.Equal(1, violations[0].Index)
	req.Equal(internalAlias, violations[0].After)
}

func TestChecker_Check_everyLaterDeclarationIsReported(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	// react is a third-party package here, so every framework import after it is late.
	input := decls("react", "@angular/common", "@angular/core", "rxjs", "@/components/a")

	violations, err := c.Check(input)
	req.NoError(err)
	req.Len(violations, 2)
	req.Equal(1, violations[0].Index)
	req.Equal(2, violations[1].Index)
	for _, v := range violations {
		req.Equal(thirdParty, v.After)
	}
}

func TestChecker_Check_reorderWithinCategoryWithoutAlphabetize(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	violations, err := c.Check(decls("@angular/router", "@angular/core", "rxjs/operators", "rxjs", "@/z", "@/a"))
	req.NoError(err)
	req.Empty(violations)
}

func TestChecker_Check_alphabetize(t *testing.T) {
	c := newAngularChecker(t, thirdParty)

	tests := []struct {
		name        string
		input       []ImportDeclaration
		wantIndexes []int
	}{
		{"sorted", decls("@angular/core", "lodash", "rxjs", "rxjs/operators"), nil},
		{"one pair out of order", decls("rxjs", "lodash"), []int{1}},
		{"compares with last sorted declaration", decls("rxjs", "axios", "zod"), []int{1}},
		{"two declarations before a later one", decls("zod", "axios", "lodash"), []int{1, 2}},
		{"identical specifiers are stable", decls("rxjs", "rxjs"), nil},
		{"case is folded", decls("axios", "Zod"), nil},
		{"other categories are not alphabetized", decls("@angular/router", "@angular/core"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			violations, err := c.Check(tt.input)
			req.NoError(err)

			var indexes []int
			for _, v := range violations {
				req.Equal(KindAlphabetical, v.Kind)
				req.NotEmpty(v.Previous)
				indexes = append(indexes, v.Index)
			}
			req.Equal(tt.wantIndexes, indexes)
		})
	}
}

func TestChecker_Check_alphabetizeCaseSensitive(t *testing.T) {
	req := require.New(t)
	c, err := New(Options{
		Order:         CategoryOrder{thirdParty},
		Rules:         []Rule{{Category: thirdParty, Matcher: PackageMatcher()}},
		Alphabetize:   []Category{thirdParty},
		CaseSensitive: true,
	})
	req.NoError(err)

	violations, err := c.Check(decls("axios", "Zod"))
	req.NoError(err)
	req.Len(violations, 1)
	req.Equal(`"Zod" should come before "axios" in third_party imports`, violations[0].Message)
}

func TestChecker_Check_orderViolationIsNotAlsoAlphabetical(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t, framework, thirdParty)

	violations, err := c.Check(decls("@angular/router", "rxjs", "@angular/core"))
	req.NoError(err)
	req.Len(violations, 1)
	req.Equal(KindOrder, violations[0].Kind)
}

func TestChecker_Check_unknownSpecifiers(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	// Relative and URL specifiers match no rule in this configuration.
	input := decls("@angular/core", "./local", "rxjs", "https://cdn.example.com/x.js", "@/a")
	violations, err := c.Check(input)
	req.NoError(err)
	req.Empty(violations, "unclassified specifiers never trigger violations")

	// An unknown specifier first must not make the classified ones look late.
	violations, err = c.Check(decls("./local", "@angular/core", "rxjs"))
	req.NoError(err)
	req.Empty(violations)
}

func TestChecker_Check_malformedDeclaration(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	input := decls("@angular/core", "  ", "rxjs")
	violations, err := c.Check(input)
	req.Nil(violations)
	req.Error(err)
	req.True(goerrors.Is(err, errors.ErrParse))

	var parseErr *errors.ParseError
	req.True(goerrors.As(err, &parseErr))
	req.Equal(2, parseErr.Line)
}

func TestChecker_Check_deterministic(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t, thirdParty)
	input := decls("@/a", "rxjs", "@angular/core", "lodash", "@angular/forms", "./x")

	first, err := c.Check(input)
	req.NoError(err)
	second, err := c.Check(input)
	req.NoError(err)
	req.Equal(first, second)
	req.NotEmpty(first)
}

func TestChecker_Check_empty(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	violations, err := c.Check(nil)
	req.NoError(err)
	req.Empty(violations)
}

func TestChecker_Rank(t *testing.T) {
	req := require.New(t)
	c := newAngularChecker(t)

	req.Equal(0, c.Rank(framework))
	req.Equal(2, c.Rank(internalAlias))
	req.Equal(3, c.Rank(Unknown))
	req.Equal(CategoryOrder{framework, thirdParty, internalAlias}, c.Order())
	req.Equal(1, c.Order().Index(thirdParty))
	req.Equal(-1, c.Order().Index(Unknown))
}
