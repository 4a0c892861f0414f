package localmirror

import (
	"fmt"
	"strings"
)

// RunSummary is what one mirror run adds up to.  Contained failures land in
// Errors; advisory observations land in Warnings; neither ever aborts the
// run.
type RunSummary struct {
	FoldersFound   int
	DocumentsFound int
	Exported       int
	Failed         int
	Skipped        int
	RemovedDirs    int
	Cancelled      bool

	Errors   []string
	Warnings []string
}

// SuccessRate as a percentage of documents found.  An empty tree counts as
// fully successful.
func (s *RunSummary) SuccessRate() float64 {
	if s.DocumentsFound == 0 {
		return 100.0
	}
	return float64(s.Exported) / float64(s.DocumentsFound) * 100.0
}

func (s *RunSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Folders found:   %d\n", s.FoldersFound)
	fmt.Fprintf(&b, "Documents found: %d\n", s.DocumentsFound)
	fmt.Fprintf(&b, "Exported:        %d\n", s.Exported)
	fmt.Fprintf(&b, "Failed:          %d\n", s.Failed)
	fmt.Fprintf(&b, "Skipped:         %d\n", s.Skipped)
	fmt.Fprintf(&b, "Success rate:    %.1f%%", s.SuccessRate())
	if s.RemovedDirs > 0 {
		fmt.Fprintf(&b, "\nEmpty directories cleaned up: %d", s.RemovedDirs)
	}
	if s.Cancelled {
		fmt.Fprintf(&b, "\nOperation was cancelled before completing.")
	}
	return b.String()
}
