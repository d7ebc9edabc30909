package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// ReadmeFileName is the name of the generated documentation file.
const ReadmeFileName = "README.md"

// ReadmeData is rendered into the README of an extracted component.
type ReadmeData struct {
	Component  string
	Files      []string
	Packages   []string
	ProjectDir string
}

var readmeTemplate = template.Must(template.New("readme").Parse(`# {{ .Component }} - extracted React component

This component was extracted from a larger React project together with the
code it depends on. Unused declarations were removed from every copied file.

## Files

` + "```" + `
{{ range .Files }}- {{ . }}
{{ end }}` + "```" + `
{{ if .Packages }}
## External packages

{{ range .Packages }}- {{ . }}
{{ end }}{{ end }}
## Install dependencies

` + "```bash" + `
npm install
` + "```" + `

## Run

` + "```bash" + `
npm start
` + "```" + `

## Build

` + "```bash" + `
npm run build
` + "```" + `

## Notes

- The component may need adjustments to work outside its original project.
- Make sure every dependency is installed.
- Routing or other project specific setup may have to be recreated.

## Original project

{{ .ProjectDir }}
`))

// RenderReadme returns the README text for data.
func RenderReadme(data ReadmeData) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render README: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReadme renders data into dir/README.md.
func WriteReadme(dir string, data ReadmeData) error {
	content, err := RenderReadme(data)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, ReadmeFileName)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
