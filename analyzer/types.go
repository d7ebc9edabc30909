package analyzer

import "github.com/hannajonsd/component-extractor/reachability"

// ProjectStructure groups project-relative paths by role. Directories are
// listed alongside files, as classification happens on both.
type ProjectStructure struct {
	Components []string
	Pages      []string
	Utils      []string
	Styles     []string
	Assets     []string
	Config     []string
}

// Candidates returns the files component lookup searches, in order.
func (s *ProjectStructure) Candidates() []string {
	var all []string
	all = append(all, s.Components...)
	all = append(all, s.Pages...)
	all = append(all, s.Utils...)
	return all
}

// ExternalPackage is an npm package imported by extracted code
type ExternalPackage struct {
	Name         string
	Version      string
	InManifest   bool
	FoundInFiles []string
}

// ExtractedFile is one entry of the extraction ledger
type ExtractedFile struct {
	Path          string
	Asset         bool
	Pruned        bool
	OriginalBytes int64
	WrittenBytes  int64
	RemovedLines  int
	// Diff holds the line diff between original and pruned text when
	// diffs were requested.
	Diff string
}

// Result summarizes one extraction run
type Result struct {
	Component  string
	ProjectDir string
	OutputDir  string
	DryRun     bool

	Entries  []string
	Files    []ExtractedFile
	External []ExternalPackage
	// Failed lists files that were part of the dependency set but could
	// not be written.
	Failed map[string]error

	Graph *reachability.Graph
}

// TotalRemovedLines sums the lines pruned across all files.
func (r *Result) TotalRemovedLines() int {
	total := 0
	for _, f := range r.Files {
		total += f.RemovedLines
	}
	return total
}

// BytesSaved returns how much smaller the extracted sources are than the
// originals.
func (r *Result) BytesSaved() int64 {
	var saved int64
	for _, f := range r.Files {
		saved += f.OriginalBytes - f.WrittenBytes
	}
	return saved
}
