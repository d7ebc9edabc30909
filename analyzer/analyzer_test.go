package analyzer_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/component-extractor/analyzer"
)

var reactProject = map[string]string{
	"package.json": `{
  "name": "test-react-app",
  "version": "1.0.0",
  "dependencies": {
    "react": "^18.2.0",
    "react-dom": "^18.2.0",
    "react-router-dom": "^6.0.0",
    "lodash": "4.17.21"
  }
}`,
	".gitignore": "legacy/\n*.log\n",
	"src/components/UserProfile.jsx": `import React, { useState, useEffect } from 'react';
import './UserProfile.css';
import { formatDate } from '../utils/dateUtils';
import { fetchUserData } from '../utils/apiUtils';

export default function UserProfile({ userId }) {
  const [user, setUser] = useState(null);

  useEffect(() => {
    fetchUserData(userId).then(setUser);
  }, [userId]);

  if (!user) return <div>Loading...</div>;

  return (
    <div className="user-profile">
      <h2>{user.name}</h2>
      <p>Joined: {formatDate(user.joinDate)}</p>
    </div>
  );
}
`,
	"src/components/UserProfile.css": ".user-profile { padding: 20px; }\n",
	"src/components/debug.log":       "noise\n",
	"src/components/legacy/OldCard.jsx": `export default function OldCard() {
  return null;
}
`,
	"src/pages/LoginPage.jsx": `import React, { useState } from 'react';
import { useNavigate } from 'react-router-dom';
import '../styles/LoginPage.css';
import { validateEmail } from '../utils/validationUtils';

export default function LoginPage() {
  const [email, setEmail] = useState('');
  const navigate = useNavigate();

  const handleSubmit = (e) => {
    e.preventDefault();
    if (validateEmail(email)) {
      navigate('/dashboard');
    }
  };

  return (
    <form className="login-page" onSubmit={handleSubmit}>
      <input value={email} onChange={(e) => setEmail(e.target.value)} />
      <button type="submit">Login</button>
    </form>
  );
}
`,
	"src/styles/LoginPage.css": ".login-page { display: flex; }\n",
	"src/utils/dateUtils.js": `export function formatDate(date) {
  if (!date) return '';
  return new Date(date).toLocaleDateString();
}

export function getRelativeTime(date) {
  const days = Math.floor((new Date() - new Date(date)) / 86400000);
  return days === 0 ? 'today' : formatDate(date);
}
`,
	"src/utils/apiUtils.js": `export async function fetchUserData(userId) {
  const response = await fetch('/api/users/' + userId);
  return response.json();
}

export async function updateUserData(userId, data) {
  const response = await fetch('/api/users/' + userId, { method: 'PUT', body: JSON.stringify(data) });
  return response.json();
}
`,
	"src/utils/validationUtils.js": `export function validateEmail(email) {
  const emailRegex = /^[^\s@]+@[^\s@]+\.[^\s@]+$/;
  return emailRegex.test(email);
}

export function validatePassword(password) {
  return password.length >= 8;
}

export function validateUsername(username) {
  return username.length >= 3 && username.length <= 20;
}
`,
	"src/assets/logo.svg":           "<svg></svg>\n",
	"node_modules/react/index.js":   "module.exports = {};\n",
	"node_modules/react/Button.jsx": "export default function Button() {}\n",
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func newExtractor(t *testing.T, root string, opts ...analyzer.Option) *analyzer.Extractor {
	t.Helper()

	e, err := analyzer.New(root, opts...)
	require.NoError(t, err)
	return e
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNewRejectsMissingProject(t *testing.T) {
	t.Parallel()

	_, err := analyzer.New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.js")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = analyzer.New(file)
	require.Error(t, err)
}

func TestExtractLoginPage(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := filepath.Join(t.TempDir(), "extracted")

	res, err := newExtractor(t, root).Extract("LoginPage", out)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/pages/LoginPage.jsx"}, res.Entries)

	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		"src/pages/LoginPage.jsx",
		"src/styles/LoginPage.css",
		"src/utils/validationUtils.js",
	}, paths)
	assert.Empty(t, res.Failed)

	validation := readFile(t, filepath.Join(out, "src/utils/validationUtils.js"))
	assert.Contains(t, validation, "export function validateEmail(email)")
	assert.NotContains(t, validation, "validatePassword")
	assert.NotContains(t, validation, "validateUsername")

	assert.Equal(t, reactProject["src/pages/LoginPage.jsx"], readFile(t, filepath.Join(out, "src/pages/LoginPage.jsx")))
	assert.Equal(t, reactProject["src/styles/LoginPage.css"], readFile(t, filepath.Join(out, "src/styles/LoginPage.css")))

	for _, f := range res.Files {
		if f.Path == "src/utils/validationUtils.js" {
			assert.True(t, f.Pruned)
			assert.Equal(t, 8, f.RemovedLines)
			assert.Less(t, f.WrittenBytes, f.OriginalBytes)
		}
		if f.Path == "src/styles/LoginPage.css" {
			assert.True(t, f.Asset)
			assert.False(t, f.Pruned)
		}
	}

	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "package.json"))), &pkg))
	assert.Equal(t, "test-react-app-extracted", pkg["name"])
	assert.Equal(t, map[string]any{
		"react":            "^18.2.0",
		"react-dom":        "^18.2.0",
		"react-router-dom": "^6.0.0",
	}, pkg["dependencies"])

	readme := readFile(t, filepath.Join(out, "README.md"))
	assert.Contains(t, readme, "# LoginPage")
	assert.Contains(t, readme, "- src/utils/validationUtils.js")

	require.Len(t, res.External, 2)
	assert.Equal(t, "react", res.External[0].Name)
	assert.Equal(t, "react-router-dom", res.External[1].Name)
	assert.True(t, res.External[1].InManifest)
	assert.Equal(t, []string{"src/pages/LoginPage.jsx"}, res.External[1].FoundInFiles)
}

func TestExtractComponentWithTransitiveUtils(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := filepath.Join(t.TempDir(), "out")

	res, err := newExtractor(t, root).Extract("UserProfile", out)
	require.NoError(t, err)
	assert.Len(t, res.Files, 4)

	dates := readFile(t, filepath.Join(out, "src/utils/dateUtils.js"))
	assert.Contains(t, dates, "export function formatDate")
	assert.NotContains(t, dates, "getRelativeTime")

	api := readFile(t, filepath.Join(out, "src/utils/apiUtils.js"))
	assert.Contains(t, api, "fetchUserData")
	assert.NotContains(t, api, "updateUserData")

	assert.FileExists(t, filepath.Join(out, "src/components/UserProfile.css"))
	assert.NoFileExists(t, filepath.Join(out, "src/utils/validationUtils.js"))
}

func TestExtractWithoutPruning(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := filepath.Join(t.TempDir(), "out")

	res, err := newExtractor(t, root, analyzer.WithPruning(false)).Extract("LoginPage", out)
	require.NoError(t, err)

	assert.Equal(t, reactProject["src/utils/validationUtils.js"], readFile(t, filepath.Join(out, "src/utils/validationUtils.js")))
	assert.Zero(t, res.TotalRemovedLines())
}

func TestExtractNotFoundKeepsOutput(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := t.TempDir()
	previous := filepath.Join(out, "keep.txt")
	require.NoError(t, os.WriteFile(previous, []byte("previous run"), 0o644))

	_, err := newExtractor(t, root).Extract("Nonexistent", out)
	require.ErrorIs(t, err, analyzer.ErrComponentNotFound)
	assert.FileExists(t, previous)
}

func TestExtractRefusesUnsafeOutput(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)

	_, err := newExtractor(t, root).Extract("LoginPage", root)
	require.ErrorIs(t, err, analyzer.ErrUnsafeOutput)

	_, err = newExtractor(t, root).Extract("LoginPage", filepath.Dir(root))
	require.ErrorIs(t, err, analyzer.ErrUnsafeOutput)

	assert.FileExists(t, filepath.Join(root, "src/pages/LoginPage.jsx"))
}

func TestExtractOutputInsideProject(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := filepath.Join(root, "extracted")
	e := newExtractor(t, root)

	_, err := e.Extract("LoginPage", out)
	require.NoError(t, err)

	// the previous output must not be picked up as a candidate
	res, err := e.Extract("LoginPage", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/pages/LoginPage.jsx"}, res.Entries)
}

func TestExtractDryRun(t *testing.T) {
	t.Parallel()

	root := writeProject(t, reactProject)
	out := filepath.Join(t.TempDir(), "out")

	res, err := newExtractor(t, root, analyzer.WithDryRun(true), analyzer.WithDiffs(true)).Extract("LoginPage", out)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.NoDirExists(t, out)
	assert.Len(t, res.Files, 3)

	for _, f := range res.Files {
		if f.Path == "src/utils/validationUtils.js" {
			assert.Contains(t, f.Diff, "-export function validatePassword(password) {\n")
			assert.NotContains(t, f.Diff, "validateEmail")
		}
	}

	var buf bytes.Buffer
	analyzer.PrintResult(&buf, res, true)
	assert.Contains(t, buf.String(), "Dry run")
	assert.Contains(t, buf.String(), "src/utils/validationUtils.js")
	assert.Contains(t, buf.String(), "react-router-dom")
	assert.Contains(t, buf.String(), "version range")
}

func TestExtractUnparsableDependency(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"src/pages/Home.jsx": `import { broken } from '../utils/broken';
export default function Home() { return broken; }
`,
		"src/utils/broken.js": "export const broken = (;\nexport const other = 1;\n",
	}
	root := writeProject(t, files)
	out := filepath.Join(t.TempDir(), "out")

	res, err := newExtractor(t, root).Extract("Home", out)
	require.NoError(t, err)

	assert.Equal(t, files["src/utils/broken.js"], readFile(t, filepath.Join(out, "src/utils/broken.js")))
	assert.Len(t, res.Files, 2)

	// no package.json in the project: defaults only
	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(out, "package.json"))), &pkg))
	assert.Equal(t, "react-component-extracted", pkg["name"])
}
