package reachability_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/component-extractor/parser"
	"github.com/hannajonsd/component-extractor/reachability"
	"github.com/hannajonsd/component-extractor/resolver"
)

// project writes files (path -> content) under a temporary root and returns
// a builder resolving against it.
func project(t *testing.T, files map[string]string) (string, *reachability.Builder) {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return root, reachability.NewBuilder(resolver.New(root))
}

func TestBuildNoEntries(t *testing.T) {
	t.Parallel()

	_, b := project(t, nil)
	_, err := b.Build(nil)
	require.ErrorIs(t, err, reachability.ErrNoEntries)
}

func TestBuildMissingEntry(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{"src/App.jsx": "export default 1;\n"})
	graph, err := b.Build([]string{"src/Missing.jsx"})
	require.ErrorIs(t, err, reachability.ErrNoReadableEntries)
	assert.Empty(t, graph.Files)
	assert.Contains(t, graph.Skipped, "src/Missing.jsx")
}

func TestBuildCycleTerminates(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/a.js": `import { b } from './b';
export function a() { return b(); }
`,
		"src/b.js": `import { a } from './a';
export function b() { return 1; }
export function useA() { return a(); }
`,
	})

	graph, err := b.Build([]string{"src/a.js"})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.js", "src/b.js"}, graph.Files)
	assert.Equal(t, []string{"a"}, graph.Used("src/a.js").Sorted())
	assert.Equal(t, []string{"b"}, graph.Used("src/b.js").Sorted())
	assert.Len(t, graph.Edges, 2)
}

func TestBuildRecordsReferencedNamesOnly(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.jsx": `import { foo, unusedImport as alias } from './lib';
export default function App() {
  return foo();
}
`,
		"src/lib.js": `export function foo() { return bar(); }
function bar() { return 1; }
export function baz() { return 2; }
export function unusedImport() {}
`,
	})

	graph, err := b.Build([]string{"src/App.jsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"foo"}, graph.Used("src/lib.js").Sorted())
	assert.Equal(t, []string{"default"}, graph.Used("src/App.jsx").Sorted())

	require.Len(t, graph.Edges, 1)
	edge := graph.Edges[0]
	assert.Equal(t, "src/App.jsx", edge.From)
	assert.Equal(t, "src/lib.js", edge.To)
	assert.Equal(t, "./lib", edge.Specifier)
	assert.Equal(t, parser.ImportStatic, edge.Kind)
}

func TestBuildAliasRecordsImportedName(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.js": `import { format as fmt } from './format';
export const label = fmt(1);
`,
		"src/format.js": `export function format(v) { return String(v); }
`,
	})

	graph, err := b.Build([]string{"src/App.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{"format"}, graph.Used("src/format.js").Sorted())
}

func TestBuildNamespaceAndCommonJS(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.js": `import * as api from './api';
const legacy = require('./legacy');
export function run() {
  import('./lazy');
  return api.get() + legacy.value;
}
`,
		"src/api.js":    "export function get() { return 1; }\nexport function post() {}\n",
		"src/legacy.js": "module.exports = { value: 1 };\n",
		"src/lazy.js":   "export default 1;\n",
	})

	graph, err := b.Build([]string{"src/App.js"})
	require.NoError(t, err)

	for _, f := range []string{"src/api.js", "src/legacy.js", "src/lazy.js"} {
		assert.True(t, graph.Used(f).WholeModule(), f)
	}
}

func TestBuildExternalImportsExcluded(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.jsx": `import React from 'react';
import { Button } from '@mui/material';
import missing from './missing';
export default function App() { return React.createElement(Button, { missing }); }
`,
	})

	graph, err := b.Build([]string{"src/App.jsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/App.jsx"}, graph.Files)
	assert.Equal(t, []string{"src/App.jsx"}, graph.External["react"])
	assert.Equal(t, []string{"src/App.jsx"}, graph.External["@mui/material"])
	assert.NotContains(t, graph.External, "./missing")
	assert.Empty(t, graph.Edges)
}

func TestBuildReExports(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.js": `import { Button } from './components';
export const app = Button;
`,
		"src/components/index.js": `export { Button } from './Button';
export { Card as Panel } from './Card';
export * from './helpers';
`,
		"src/components/Button.js":  "export const Button = 1;\nexport const Unused = 2;\n",
		"src/components/Card.js":    "export const Card = 1;\n",
		"src/components/helpers.js": "export const help = 1;\n",
	})

	graph, err := b.Build([]string{"src/App.js"})
	require.NoError(t, err)

	assert.Len(t, graph.Files, 5)
	assert.Equal(t, []string{"Button"}, graph.Used("src/components/index.js").Sorted())
	assert.Equal(t, []string{"Button"}, graph.Used("src/components/Button.js").Sorted())
	assert.Equal(t, []string{"Card"}, graph.Used("src/components/Card.js").Sorted())
	assert.True(t, graph.Used("src/components/helpers.js").WholeModule())

	exports := graph.Exports["src/components/index.js"]
	require.NotNil(t, exports)
	assert.Equal(t, "./Card", exports.ReExported["Panel"])
	assert.Equal(t, []string{"./helpers"}, exports.StarSources)
}

func TestBuildKeepsUnparsableFiles(t *testing.T) {
	t.Parallel()

	_, b := project(t, map[string]string{
		"src/App.js":    "import { x } from './broken';\nexport const y = x;\n",
		"src/broken.js": "export const x = (;\n",
	})

	graph, err := b.Build([]string{"src/App.js"})
	require.NoError(t, err)

	assert.True(t, graph.Contains("src/broken.js"))
	assert.NotContains(t, graph.Exports, "src/broken.js")
	assert.Equal(t, []string{"x"}, graph.Used("src/broken.js").Sorted())
}

func TestBuildLoginPage(t *testing.T) {
	t.Parallel()

	_, b := project(t, loginProject)

	graph, err := b.Build([]string{"src/pages/Login.jsx"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"src/pages/Login.jsx",
		"src/utils/validation.js",
		"src/components/Button.jsx",
		"src/styles/login.css",
	}, graph.Files)
	assert.Equal(t, []string{"validateEmail"}, graph.Used("src/utils/validation.js").Sorted())
	assert.Equal(t, []string{"default"}, graph.Used("src/components/Button.jsx").Sorted())
	assert.Contains(t, graph.External, "react")
	assert.False(t, graph.Contains("src/pages/Dashboard.jsx"))
}

var loginProject = map[string]string{
	"src/pages/Login.jsx": `import React, { useState } from 'react';
import { validateEmail } from '../utils/validation';
import Button from '../components/Button';
import '../styles/login.css';

export default function Login() {
  const [email, setEmail] = useState('');
  return (
    <form onSubmit={() => setEmail('')}>
      <Button disabled={!validateEmail(email)}>Log in</Button>
    </form>
  );
}
`,
	"src/pages/Dashboard.jsx": `import { formatDate } from '../utils/format';

export default function Dashboard() {
  return <div>{formatDate(new Date())}</div>;
}
`,
	"src/utils/validation.js": `export const validateEmail = (email) => EMAIL_RE.test(email);

export const validatePassword = (password) => password.length >= 8;

const EMAIL_RE = /^[^@]+@[^@]+$/;
`,
	"src/utils/format.js": "export const formatDate = (d) => d.toISOString();\n",
	"src/components/Button.jsx": `export default function Button({ children, ...rest }) {
  return <button {...rest}>{children}</button>;
}
`,
	"src/styles/login.css": ".login { color: red; }\n",
}
