package formatter

import (
	"context"
	goerrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/imports-order/pkg/checker"
	"github.com/siyuan-infoblox/imports-order/pkg/config"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/parser"
)

func profileChecker(t *testing.T, name string) *checker.Checker {
	t.Helper()
	set, err := config.Compile(config.Config{})
	require.NoError(t, err)
	p, ok := set.Lookup(name)
	require.True(t, ok)
	return p.Checker
}

func parse(t *testing.T, src string) []checker.ImportDeclaration {
	t.Helper()
	decls, err := parser.Parse(context.Background(), "input.ts", []byte(src))
	require.NoError(t, err)
	return decls
}

func TestFormatter_Format(t *testing.T) {
	angular := profileChecker(t, "angular")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "groups in profile order",
			input: `import { Component } from '@angular/core';
import { map } from 'rxjs/operators';
import { ApiService } from '@/services/api';
import { FormsModule } from '@angular/forms';

export const x = 1;
`,
			want: `import { Component } from '@angular/core';
import { FormsModule } from '@angular/forms';

import { map } from 'rxjs/operators';

import { ApiService } from '@/services/api';

export const x = 1;
`,
		},
		{
			name: "already ordered",
			input: `import { Component } from '@angular/core';

import { map } from 'rxjs/operators';

import { helper } from './helper';
`,
			want: `import { Component } from '@angular/core';

import { map } from 'rxjs/operators';

import { helper } from './helper';
`,
		},
		{
			name: "missing group separators",
			input: `import { Component } from '@angular/core';
import { map } from 'rxjs/operators';
`,
			want: `import { Component } from '@angular/core';

import { map } from 'rxjs/operators';
`,
		},
		{
			name: "header comment and trailing comments stay put",
			input: `// Copyright header
import { helper } from './helper'; // local
import { Component } from '@angular/core';
const a = 1;
`,
			want: `// Copyright header
import { Component } from '@angular/core';

import { helper } from './helper'; // local
const a = 1;
`,
		},
		{
			name:  "no imports",
			input: "export const x = 1;\n",
			want:  "export const x = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			g := New(angular)
			got, err := g.Format([]byte(tt.input), parse(t, tt.input))
			req.NoError(err)
			req.Equal(tt.want, string(got))
		})
	}
}

func TestFormatter_Format_idempotent(t *testing.T) {
	req := require.New(t)
	c := profileChecker(t, "react")
	input := `import './styles.css';
import axios from 'axios';
import { useState } from 'react';
import Button from '@/components/Button';
import { createRoot } from 'react-dom/client';
import fs from 'node:fs';
`
	g := New(c)
	first, err := g.Format([]byte(input), parse(t, input))
	req.NoError(err)

	decls := parse(t, string(first))
	violations, err := c.Check(decls)
	req.NoError(err)
	req.Empty(violations, "formatted output must check clean:\n%s", first)

	second, err := g.Format(first, decls)
	req.NoError(err)
	req.Equal(string(first), string(second))
}

func TestFormatter_Format_alphabetizeAndUnknown(t *testing.T) {
	req := require.New(t)
	c, err := checker.New(checker.Options{
		Order: []checker.Category{"packages", "relative"},
		Rules: []checker.Rule{
			{Category: "relative", Matcher: checker.RelativeMatcher()},
			{Category: "packages", Matcher: checker.PrefixMatcher("@scope/", "b", "a", "C")},
		},
		Alphabetize: []checker.Category{"packages"},
	})
	req.NoError(err)

	input := `import x from './x';
import b from 'b';
import other from '~/other';
import C from 'C';
import a from 'a';
`
	got, err := New(c).Format([]byte(input), parse(t, input))
	req.NoError(err)
	req.Equal(`import a from 'a';
import b from 'b';
import C from 'C';

import x from './x';

import other from '~/other';
`, string(got))
}

func TestFormatter_Format_nonContiguous(t *testing.T) {
	req := require.New(t)
	input := `import { map } from 'rxjs';
const ready = true;
import { Component } from '@angular/core';
`
	_, err := New(profileChecker(t, "angular")).Format([]byte(input), parse(t, input))
	req.Error(err)
	req.True(goerrors.Is(err, errors.ErrNonContiguousImports))
	req.Contains(err.Error(), "line 3")
}

func TestFormatter_Format_badSpan(t *testing.T) {
	req := require.New(t)
	decls := []checker.ImportDeclaration{{Specifier: "a", Line: 1, Start: 0, End: 100}}
	_, err := New(profileChecker(t, "default")).Format([]byte("import a from 'a';"), decls)
	req.Error(err)
	req.True(goerrors.Is(err, errors.ErrParse))
}

func TestDiff(t *testing.T) {
	req := require.New(t)
	before := []byte("import b from 'b';\nimport a from 'a';\n")
	after := []byte("import a from 'a';\nimport b from 'b';\n")

	diff, err := Diff("src/app.ts", before, after)
	req.NoError(err)
	req.True(strings.HasPrefix(diff, "--- src/app.ts\n+++ src/app.ts (ordered)\n"), diff)
	req.Contains(diff, "-import b from 'b';")
	req.Contains(diff, "+import a from 'a';")

	diff, err = Diff("src/app.ts", before, before)
	req.NoError(err)
	req.Empty(diff)
}
