package localmirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/toothbrush/quip-mirror/quip"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

type exportOutcome int

const (
	exportedOutcome exportOutcome = iota
	skippedOutcome
	failedOutcome
)

// Run performs one full mirror: discover the remote tree, materialize the
// local directory structure, then export every document into place.  The
// returned summary is non-nil whenever discovery succeeded, even if every
// single export failed.  Cancelling ctx stops the run between documents and
// is reported on the summary, not as an error.
func (m *Mirrorer) Run(ctx context.Context, rootFolderID string) (*RunSummary, error) {
	root, warnings, err := m.BuildHierarchy(ctx, rootFolderID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		FoldersFound:   root.TotalFolders(),
		DocumentsFound: root.TotalDocuments(),
		Warnings:       warnings,
	}

	for _, issue := range ValidateHierarchy(root) {
		m.logf("Hierarchy warning: %s", issue)
		summary.Warnings = append(summary.Warnings, issue)
	}

	if summary.DocumentsFound == 0 {
		m.logf("No documents found in folder %s, nothing to export.", rootFolderID)
		return summary, nil
	}

	if err := m.CreateTree(root); err != nil {
		return nil, err
	}

	placements := Flatten(root)
	for i := range placements {
		placements[i].LocalPath = m.ResolvePath(placements[i])
	}

	m.logf("Exporting %d documents...", len(placements))
	m.exportAll(ctx, placements, summary)

	if !m.DryRun && !summary.Cancelled {
		removed, err := m.CleanupEmptyDirs()
		if err != nil {
			m.logf("WARNING: cleanup pass failed: %v", err)
		}
		summary.RemovedDirs = removed
	}

	return summary, nil
}

func (m *Mirrorer) exportAll(ctx context.Context, placements []DocumentPlacement, summary *RunSummary) {
	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(len(placements)),
		mpb.PrependDecorators(
			decor.Name("exporting:",
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(m.workers())

	var summaryMu sync.Mutex

	for _, placement := range placements {
		// the run must be abortable between documents.
		if gctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		placement := placement
		grp.Go(func() error {
			outcome, note := m.exportOne(gctx, placement)

			summaryMu.Lock()
			switch outcome {
			case exportedOutcome:
				summary.Exported++
			case skippedOutcome:
				summary.Skipped++
				m.logf("Skipped '%s': %s", placement.Item.Name, note)
			case failedOutcome:
				summary.Failed++
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", placement.Item.Name, note))
				m.logf("Failed to export '%s': %s", placement.Item.Name, note)
			}
			summaryMu.Unlock()

			bar.Increment()

			// self-imposed pacing so we don't hammer the export endpoint.
			pacing := m.Pacing
			if pacing == 0 {
				pacing = DefaultPacing
			}
			select {
			case <-time.After(pacing):
				return nil
			case <-gctx.Done():
				return context.Cause(gctx)
			}
		})
	}

	if err := grp.Wait(); err != nil {
		summary.Cancelled = true
	}
	if summary.Cancelled {
		bar.Abort(true)
	}
	progress.Wait()
}

func (m *Mirrorer) exportOne(ctx context.Context, placement DocumentPlacement) (exportOutcome, string) {
	decision := m.Reconcile(placement.LocalPath)
	if !decision.Proceed {
		return skippedOutcome, decision.Note
	}

	// fetch the title from the threads endpoint first; purely for nicer
	// messages, so a failure here is only a warning.
	displayName := placement.Item.Name
	if threads, err := m.Client.GetThreads(ctx, quip.ThreadsQuery{IDs: []string{placement.Item.ID}}); err != nil {
		m.logf("WARNING: couldn't fetch metadata for document %s: %v", placement.Item.ID, err)
	} else if thread, ok := threads[placement.Item.ID]; ok && thread.Title != "" {
		displayName = thread.Title
	}

	blob, err := m.Client.ExportDocumentDOCX(ctx, placement.Item.ID)
	if err != nil {
		return failedOutcome, fmt.Sprintf("export failed: %v", err)
	}

	// Quip signals some export failures by returning an empty body with a
	// happy status code.
	if len(blob) == 0 {
		return failedOutcome, "export returned an empty document"
	}

	if m.DryRun {
		m.logf("Would write '%s' (%d bytes) to %s", displayName, len(blob), placement.LocalPath)
		return exportedOutcome, ""
	}

	// per-document MkdirAll keeps parallel workers safe even though
	// CreateTree already ran: it's idempotent, and a sibling worker may
	// share our parent.
	if err := os.MkdirAll(filepath.Dir(placement.LocalPath), 0750); err != nil {
		return failedOutcome, fmt.Sprintf("couldn't create directory: %v", err)
	}

	if err := os.WriteFile(placement.LocalPath, blob, 0640); err != nil {
		return failedOutcome, fmt.Sprintf("couldn't write file: %v", err)
	}

	m.logf("Exported '%s' (%d bytes) to %s", displayName, fileSize(placement.LocalPath), placement.LocalPath)
	return exportedOutcome, ""
}
