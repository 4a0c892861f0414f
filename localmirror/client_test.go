package localmirror_test

import (
	"context"
	"fmt"

	"github.com/toothbrush/quip-mirror/quip"
)

// fakeClient is a canned Quip API for tests: a map of folder listings, a map
// of export payloads, and optional per-ID errors.
type fakeClient struct {
	listings   map[string]*quip.FolderListing
	listErr    map[string]error
	threads    map[string]quip.Thread
	exports    map[string][]byte
	exportErr  map[string]error
	listCalls  map[string]int
	exportCall int
}

func (f *fakeClient) GetFolderContents(ctx context.Context, folderID string) (*quip.FolderListing, error) {
	if f.listCalls == nil {
		f.listCalls = map[string]int{}
	}
	f.listCalls[folderID]++

	if err, ok := f.listErr[folderID]; ok {
		return nil, err
	}
	listing, ok := f.listings[folderID]
	if !ok {
		return nil, fmt.Errorf("fake: no listing for folder %s", folderID)
	}
	return listing, nil
}

func (f *fakeClient) GetThreads(ctx context.Context, opts quip.ThreadsQuery) (map[string]quip.Thread, error) {
	found := map[string]quip.Thread{}
	for _, id := range opts.IDs {
		if t, ok := f.threads[id]; ok {
			found[id] = t
		}
	}
	return found, nil
}

func (f *fakeClient) ExportDocumentDOCX(ctx context.Context, threadID string) ([]byte, error) {
	f.exportCall++
	if err, ok := f.exportErr[threadID]; ok {
		return nil, err
	}
	blob, ok := f.exports[threadID]
	if !ok {
		return nil, fmt.Errorf("fake: no export payload for thread %s", threadID)
	}
	return blob, nil
}

func subfolder(id, name string) quip.Item {
	return quip.Item{ID: id, Name: name, Kind: quip.FolderItem, URL: quip.FolderURL(id)}
}

func document(id, name string) quip.Item {
	return quip.Item{ID: id, Name: name, Kind: quip.DocumentItem, URL: quip.DocumentURL(id)}
}
