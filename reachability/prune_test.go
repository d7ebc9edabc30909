package reachability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/component-extractor/parser"
	"github.com/hannajonsd/component-extractor/reachability"
)

func prune(t *testing.T, path, src string, used ...string) string {
	t.Helper()

	out, err := reachability.NewPruner().Prune(path, []byte(src), reachability.NewBindingSet(used...))
	require.NoError(t, err)
	return string(out)
}

func TestPruneKeepsTransitiveDependencies(t *testing.T) {
	t.Parallel()

	src := `export function foo() {
  return bar();
}

function unused() {}

function bar() {
  return 1;
}
`
	want := `export function foo() {
  return bar();
}

function bar() {
  return 1;
}
`
	assert.Equal(t, want, prune(t, "src/lib.js", src, "foo"))
}

func TestPruneDropsUnusedExports(t *testing.T) {
	t.Parallel()

	src := `export function foo() { return bar(); }
function bar() { return 1; }
export function baz() { return 2; }
`
	out := prune(t, "src/lib.js", src, "foo")
	assert.Contains(t, out, "function foo()")
	assert.Contains(t, out, "function bar()")
	assert.NotContains(t, out, "baz")
}

func TestPruneExemptions(t *testing.T) {
	t.Parallel()

	src := `export const a = 1;
export const b = 2;
`
	t.Run("namespace", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, src, prune(t, "src/lib.js", src, parser.NamespaceBinding, "a"))
	})

	t.Run("no specific bindings", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, src, prune(t, "src/lib.js", src))
	})

	t.Run("namespace on invalid source", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "export const = ;", prune(t, "src/lib.js", "export const = ;", parser.NamespaceBinding))
	})
}

func TestPruneWithoutExportsKeepsSideEffects(t *testing.T) {
	t.Parallel()

	src := `const registry = [];
function register(name) { registry.push(name); }
function unused() {}
register('main');
`
	want := `const registry = [];
function register(name) { registry.push(name); }
register('main');
`
	assert.Equal(t, want, prune(t, "src/setup.js", src))
}

func TestPruneDefaultExportOnly(t *testing.T) {
	t.Parallel()

	src := `import React from 'react';

function internal() {
  return 'card';
}

export function helper() {
  return 'helper';
}

export default function Card() {
  return <div>{internal()}</div>;
}
`
	want := `import React from 'react';

function internal() {
  return 'card';
}

export default function Card() {
  return <div>{internal()}</div>;
}
`
	assert.Equal(t, want, prune(t, "src/components/Card.jsx", src, parser.DefaultBinding))
}

func TestPruneDefaultIdentifier(t *testing.T) {
	t.Parallel()

	src := `const Card = () => null;
const Other = () => null;
export default Card;
export { Other };
`
	assert.Equal(t, "const Card = () => null;\nexport default Card;\n",
		prune(t, "src/Card.js", src, parser.DefaultBinding))
	assert.Equal(t, "const Other = () => null;\nexport { Other };\n",
		prune(t, "src/Card.js", src, "Other"))
}

func TestPrunePartialDeclarators(t *testing.T) {
	t.Parallel()

	src := "export const a = 1, b = 2, c = a + 1;\n"
	assert.Equal(t, "export const a = 1, c = a + 1;\n", prune(t, "src/consts.js", src, "c"))
}

func TestPruneDestructuredDeclarator(t *testing.T) {
	t.Parallel()

	src := `const { width, height: h } = getSize();
const [first] = list();
export const area = width * 2;
`
	want := `const { width, height: h } = getSize();
export const area = width * 2;
`
	assert.Equal(t, want, prune(t, "src/size.js", src, "area"))
}

func TestPruneExportList(t *testing.T) {
	t.Parallel()

	src := `const one = 1;
const two = 2;
export { one, two as second };
`
	assert.Equal(t, "const two = 2;\nexport { two as second };\n", prune(t, "src/nums.js", src, "second"))
}

func TestPruneRemovesAttachedComments(t *testing.T) {
	t.Parallel()

	src := `/** Not needed. */
export function unused() {}

// Needed.
export function used() {} // trailing

export function alsoUnused() {} // gone too
`
	want := `// Needed.
export function used() {} // trailing
`
	assert.Equal(t, want, prune(t, "src/lib.js", src, "used"))
}

func TestPruneKeepsReExportsAndImports(t *testing.T) {
	t.Parallel()

	src := `import { format } from './format';
export { Button } from './Button';
export * from './helpers';
export const unused = format;
export const used = 1;
`
	want := `import { format } from './format';
export { Button } from './Button';
export * from './helpers';
export const used = 1;
`
	assert.Equal(t, want, prune(t, "src/index.js", src, "used"))
}

func TestPruneTypeScriptDeclarations(t *testing.T) {
	t.Parallel()

	src := `interface Props {
  label: string;
}

type Unused = string;

export enum Size { Small, Large }

export function Badge(props: Props) {
  return <span>{props.label}</span>;
}
`
	want := `interface Props {
  label: string;
}

export function Badge(props: Props) {
  return <span>{props.label}</span>;
}
`
	assert.Equal(t, want, prune(t, "src/Badge.tsx", src, "Badge"))
}

func TestPruneIsIdempotent(t *testing.T) {
	t.Parallel()

	src := `import { x } from './x';

const helper = () => x;

export const a = helper();
export const b = 2;
`
	once := prune(t, "src/lib.js", src, "a")
	twice := prune(t, "src/lib.js", once, "a")
	assert.Equal(t, once, twice)
	assert.NotContains(t, once, "export const b")

	minimal := "export const a = 1;\n"
	assert.Equal(t, minimal, prune(t, "src/min.js", minimal, "a"))
}

func TestPruneParseFailure(t *testing.T) {
	t.Parallel()

	_, err := reachability.NewPruner().Prune("src/bad.js", []byte("export const x = (;"), reachability.NewBindingSet("x"))
	require.ErrorIs(t, err, parser.ErrSyntax)
}

func TestPruneUnsupportedFile(t *testing.T) {
	t.Parallel()

	_, err := reachability.NewPruner().Prune("src/app.css", []byte(".a{}"), reachability.NewBindingSet("x"))
	require.ErrorIs(t, err, parser.ErrUnsupportedLanguage)
}

func TestPruneTrailingDeclarations(t *testing.T) {
	t.Parallel()

	src := "export function a() {}\n\nexport function b() {}\n\nexport function c() {}\n"
	assert.Equal(t, "export function a() {}\n", prune(t, "src/abc.js", src, "a"))

	crlf := "export function a() {}\r\n\r\nexport function b() {}\r\n"
	assert.Equal(t, "export function a() {}\r\n", prune(t, "src/abc.js", crlf, "a"))
}
