package analyzer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hannajonsd/component-extractor/manifest"
)

var (
	headerColor  = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	noteColor    = color.New(color.FgCyan)
)

// PrintResult writes a human readable summary of an extraction run. With
// showDiff set, the diff of every pruned file is printed as well.
func PrintResult(w io.Writer, res *Result, showDiff bool) {
	if res.DryRun {
		warnColor.Fprintf(w, "Dry run: nothing was written to %s\n", res.OutputDir)
	}

	headerColor.Fprintf(w, "\nEXTRACTED FILES (%s)\n", res.Component)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, f := range res.Files {
		switch {
		case f.Asset:
			fmt.Fprintf(w, "  %s  %s (asset)\n", f.Path, humanize.Bytes(uint64(f.WrittenBytes)))
		case f.Pruned:
			successColor.Fprintf(w, "  %s  %s -> %s, %d lines removed\n",
				f.Path,
				humanize.Bytes(uint64(f.OriginalBytes)),
				humanize.Bytes(uint64(f.WrittenBytes)),
				f.RemovedLines)
		default:
			fmt.Fprintf(w, "  %s  %s\n", f.Path, humanize.Bytes(uint64(f.WrittenBytes)))
		}

		if showDiff && f.Diff != "" {
			printDiff(w, f.Diff)
		}
	}

	if len(res.Failed) > 0 {
		errorColor.Fprintf(w, "\nFailed to copy %d files:\n", len(res.Failed))
		paths := make([]string, 0, len(res.Failed))
		for p := range res.Failed {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			errorColor.Fprintf(w, "  - %s: %v\n", p, res.Failed[p])
		}
	}

	if len(res.External) > 0 {
		headerColor.Fprintf(w, "\nEXTERNAL PACKAGES (%d)\n", len(res.External))
		printPackages(w, res.External)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	headerColor.Fprintln(w, "SUMMARY")
	fmt.Fprintf(w, "Entry files: %s\n", strings.Join(res.Entries, ", "))
	fmt.Fprintf(w, "Files extracted: %s\n", humanize.Comma(int64(len(res.Files))))
	fmt.Fprintf(w, "Lines removed: %s\n", humanize.Comma(int64(res.TotalRemovedLines())))
	if saved := res.BytesSaved(); saved > 0 {
		fmt.Fprintf(w, "Size reduction: %s\n", humanize.Bytes(uint64(saved)))
	}
	if !res.DryRun {
		successColor.Fprintf(w, "Extraction complete: %s\n", res.OutputDir)
	}
}

func printPackages(w io.Writer, packages []ExternalPackage) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Package", "Version", "Used in", "Note"})

	for _, pkg := range packages {
		version, note := pkg.Version, ""
		switch {
		case !pkg.InManifest:
			version, note = "unknown", "not in package.json"
		case manifest.IsRange(pkg.Version):
			note = "version range"
		}
		files := fmt.Sprintf("%d %s", len(pkg.FoundInFiles), pluralFiles(len(pkg.FoundInFiles)))
		t.AppendRow(table.Row{pkg.Name, version, files, note})
	}

	t.Render()
}

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			errorColor.Fprintf(w, "      %s", line)
		case strings.HasPrefix(line, "+"):
			successColor.Fprintf(w, "      %s", line)
		}
	}
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

// PrintComponents writes the component list produced by ListComponents.
func PrintComponents(w io.Writer, names []string) {
	if len(names) == 0 {
		warnColor.Fprintln(w, "No components found")
		return
	}

	headerColor.Fprintf(w, "Components (%d):\n", len(names))
	for _, name := range names {
		noteColor.Fprintf(w, "  - %s\n", name)
	}
}

// PrintStructure writes the scan classification, one section per role.
func PrintStructure(w io.Writer, s *ProjectStructure) {
	sections := []struct {
		title string
		paths []string
	}{
		{"Components", s.Components},
		{"Pages", s.Pages},
		{"Utils", s.Utils},
		{"Styles", s.Styles},
		{"Assets", s.Assets},
		{"Config", s.Config},
	}

	for _, section := range sections {
		if len(section.paths) == 0 {
			continue
		}
		headerColor.Fprintf(w, "%s (%d)\n", section.title, len(section.paths))
		for _, p := range section.paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}
