package localmirror

import (
	"context"
	"log"
	"time"

	"github.com/toothbrush/quip-mirror/quip"
)

// Client is the slice of the Quip API the mirror operation needs.  *quip.API
// satisfies it; tests substitute a canned one.
type Client interface {
	GetFolderContents(ctx context.Context, folderID string) (*quip.FolderListing, error)
	GetThreads(ctx context.Context, opts quip.ThreadsQuery) (map[string]quip.Thread, error)
	ExportDocumentDOCX(ctx context.Context, threadID string) ([]byte, error)
}

const (
	DefaultMaxDepth = 50
	DefaultPacing   = 100 * time.Millisecond
)

// Mirrorer mirrors one remote folder tree into StorePath, one .docx per
// document.
type Mirrorer struct {
	// Where the local mirror lives.  Must exist before Run.
	StorePath string

	Client Client

	// Traversal gives up entirely past this depth.
	MaxDepth int

	// Overwrite existing files (after a best-effort .backup copy), or skip
	// them.
	Overwrite bool

	// How many documents to export at once.  The remote tree is stale-prone
	// and the API is rate-limited, so 1 is the default and what the pacing
	// delay is tuned for.
	Workers int

	// DryRun skips directory creation and file writes.
	DryRun bool

	// Self-imposed delay between export calls; not a correctness thing.
	Pacing time.Duration

	Logger *log.Logger
}

func (m *Mirrorer) maxDepth() int {
	if m.MaxDepth > 0 {
		return m.MaxDepth
	}
	return DefaultMaxDepth
}

func (m *Mirrorer) workers() int {
	if m.Workers > 0 {
		return m.Workers
	}
	return 1
}

func (m *Mirrorer) logf(format string, a ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, a...)
	}
}
