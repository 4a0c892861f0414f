package localmirror_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/toothbrush/quip-mirror/localmirror"
	"github.com/toothbrush/quip-mirror/quip"
)

func mirrorTestClient() *fakeClient {
	return &fakeClient{
		listings: map[string]*quip.FolderListing{
			"root": {
				FolderName: "Root",
				Folders:    []quip.Item{subfolder("sub", "Sub")},
				Documents:  []quip.Item{document("db", "Doc B")},
			},
			"sub": {
				FolderName: "Sub",
				Documents:  []quip.Item{document("da", "Doc A")},
			},
		},
		exports: map[string][]byte{
			"da": []byte("contents of doc a"),
			"db": []byte("contents of doc b"),
		},
	}
}

func TestRunExportsWholeTree(t *testing.T) {
	base := t.TempDir()
	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)

	gt.Equal(t, summary.FoldersFound, 2)
	gt.Equal(t, summary.DocumentsFound, 2)
	gt.Equal(t, summary.Exported, 2)
	gt.Equal(t, summary.Failed, 0)
	gt.Equal(t, summary.Skipped, 0)
	gt.True(t, !summary.Cancelled)
	gt.Equal(t, summary.SuccessRate(), 100.0)

	blob, err := os.ReadFile(filepath.Join(base, "Root", "Doc B.docx"))
	gt.NoError(t, err)
	gt.Equal(t, string(blob), "contents of doc b")

	blob, err = os.ReadFile(filepath.Join(base, "Root", "Sub", "Doc A.docx"))
	gt.NoError(t, err)
	gt.Equal(t, string(blob), "contents of doc a")
}

func TestRunEmptyExportIsFailure(t *testing.T) {
	base := t.TempDir()
	client := mirrorTestClient()
	client.exports["da"] = []byte{}

	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    client,
		Overwrite: true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)

	gt.Equal(t, summary.Exported, 1)
	gt.Equal(t, summary.Failed, 1)
	gt.Equal(t, len(summary.Errors), 1)

	// no zero-byte file left behind, and its now-empty parent dir is gone.
	_, err = os.Stat(filepath.Join(base, "Root", "Sub", "Doc A.docx"))
	gt.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "Root", "Sub"))
	gt.True(t, os.IsNotExist(err))
	gt.Equal(t, summary.RemovedDirs, 1)
}

func TestRunSkipsExistingWithoutOverwrite(t *testing.T) {
	base := t.TempDir()
	preexisting := filepath.Join(base, "Root", "Doc B.docx")
	gt.NoError(t, os.MkdirAll(filepath.Dir(preexisting), 0750))
	gt.NoError(t, os.WriteFile(preexisting, []byte("old contents"), 0640))

	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: false,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)

	gt.Equal(t, summary.Exported, 1)
	gt.Equal(t, summary.Skipped, 1)
	gt.Equal(t, summary.Failed, 0)

	blob, err := os.ReadFile(preexisting)
	gt.NoError(t, err)
	gt.Equal(t, string(blob), "old contents")
}

func TestRunOverwriteKeepsBackup(t *testing.T) {
	base := t.TempDir()
	preexisting := filepath.Join(base, "Root", "Doc B.docx")
	gt.NoError(t, os.MkdirAll(filepath.Dir(preexisting), 0750))
	gt.NoError(t, os.WriteFile(preexisting, []byte("old contents"), 0640))

	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)
	gt.Equal(t, summary.Exported, 2)

	blob, err := os.ReadFile(preexisting)
	gt.NoError(t, err)
	gt.Equal(t, string(blob), "contents of doc b")

	backup, err := os.ReadFile(preexisting + ".backup")
	gt.NoError(t, err)
	gt.Equal(t, string(backup), "old contents")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	base := t.TempDir()
	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: true,
		DryRun:    true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)
	gt.Equal(t, summary.Exported, 2)

	entries, err := os.ReadDir(base)
	gt.NoError(t, err)
	gt.Equal(t, len(entries), 0)
}

func TestRunDryRunLeavesExistingStoreUntouched(t *testing.T) {
	base := t.TempDir()
	preexisting := filepath.Join(base, "Root", "Doc B.docx")
	gt.NoError(t, os.MkdirAll(filepath.Dir(preexisting), 0750))
	gt.NoError(t, os.WriteFile(preexisting, []byte("old contents"), 0640))

	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: true,
		DryRun:    true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)
	gt.Equal(t, summary.Exported, 2)

	// the existing file stays as it was, and no backup copy appears.
	blob, err := os.ReadFile(preexisting)
	gt.NoError(t, err)
	gt.Equal(t, string(blob), "old contents")

	_, err = os.Stat(preexisting + ".backup")
	gt.True(t, os.IsNotExist(err))
}

func TestRunExportAPIErrorIsContained(t *testing.T) {
	base := t.TempDir()
	client := mirrorTestClient()
	client.exportErr = map[string]error{
		"da": &quip.APIError{Category: quip.CategoryRateLimited, StatusCode: 429, Message: "rate limited by Quip"},
	}

	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    client,
		Overwrite: true,
		Pacing:    time.Millisecond,
	}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)

	gt.Equal(t, summary.Exported, 1)
	gt.Equal(t, summary.Failed, 1)
	gt.Equal(t, len(summary.Errors), 1)
	gt.String(t, summary.Errors[0]).Contains("rate limited")

	_, err = os.Stat(filepath.Join(base, "Root", "Sub", "Doc A.docx"))
	gt.True(t, os.IsNotExist(err))
}

func TestRunCancelledBeforeExport(t *testing.T) {
	base := t.TempDir()
	m := localmirror.Mirrorer{
		StorePath: base,
		Client:    mirrorTestClient(),
		Overwrite: true,
		Pacing:    time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// cancellation is reported on the summary, not as an error.
	summary, err := m.Run(ctx, "root")
	gt.NoError(t, err)
	gt.True(t, summary.Cancelled)
	gt.Equal(t, summary.Exported, 0)
}

func TestRunEmptyFolderExportsNothing(t *testing.T) {
	base := t.TempDir()
	client := &fakeClient{
		listings: map[string]*quip.FolderListing{
			"root": {FolderName: "Root"},
		},
	}
	m := localmirror.Mirrorer{StorePath: base, Client: client}

	summary, err := m.Run(context.Background(), "root")
	gt.NoError(t, err)

	gt.Equal(t, summary.DocumentsFound, 0)
	gt.Equal(t, summary.SuccessRate(), 100.0)
	gt.Equal(t, client.exportCall, 0)

	// the empty-tree observation lands in the warnings.
	gt.Equal(t, len(summary.Warnings), 1)
}

func TestRunSummaryString(t *testing.T) {
	summary := localmirror.RunSummary{
		FoldersFound:   3,
		DocumentsFound: 4,
		Exported:       3,
		Failed:         1,
	}

	out := summary.String()
	gt.String(t, out).Contains("Documents found: 4")
	gt.String(t, out).Contains("75.0%")
}
