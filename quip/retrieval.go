package quip

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetFolderContents lists the direct children of one folder, already split
// into subfolders and documents.  A child entry carries either a folder_id
// or a thread_id; that's the only shape inspection in the whole program.
func (api *API) GetFolderContents(ctx context.Context, folderID string) (*FolderListing, error) {
	ep, err := api.getFolderEndpoint(folderID)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get folder endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var folder folderResponse
	if err := json.Unmarshal(body, &folder); err != nil {
		return nil, &APIError{
			Category: CategoryMalformedResponse,
			Message:  fmt.Sprintf("couldn't parse json response for folder %s: %v", folderID, err),
			Err:      err,
		}
	}

	listing := FolderListing{
		FolderName: folder.Folder.Title,
	}
	if listing.FolderName == "" {
		listing.FolderName = "Untitled Folder"
	}

	for _, child := range folder.Children {
		switch {
		case child.FolderID != "":
			name := child.Title
			if name == "" {
				name = "Untitled Folder"
			}
			listing.Folders = append(listing.Folders, Item{
				ID:   child.FolderID,
				Name: name,
				Kind: FolderItem,
				URL:  FolderURL(child.FolderID),
			})

		case child.ThreadID != "":
			name := child.Title
			if name == "" {
				name = "Untitled Document"
			}
			listing.Documents = append(listing.Documents, Item{
				ID:   child.ThreadID,
				Name: name,
				Kind: DocumentItem,
				URL:  DocumentURL(child.ThreadID),
			})
		}
		// anything else is a child type we don't know about; skip it.
	}

	return &listing, nil
}

// GetThreads fetches metadata for up to 100 threads in one round trip.  The
// result is keyed by thread ID.
func (api *API) GetThreads(ctx context.Context, opts ThreadsQuery) (map[string]Thread, error) {
	ep, err := api.getThreadsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get threads endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var wrapped map[string]threadResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, &APIError{
			Category: CategoryMalformedResponse,
			Message:  fmt.Sprintf("couldn't parse json response for threads: %v", err),
			Err:      err,
		}
	}

	threads := make(map[string]Thread, len(wrapped))
	for id, t := range wrapped {
		threads[id] = t.Thread
	}

	return threads, nil
}

// ExportDocumentDOCX renders one thread to a Word document and returns the
// raw bytes.  A successful call can still yield zero bytes; the caller must
// treat that as a failed export.
func (api *API) ExportDocumentDOCX(ctx context.Context, threadID string) ([]byte, error) {
	ep, err := api.getExportDOCXEndpoint(threadID)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get export endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't export thread %s: %w", threadID, err)
	}

	return body, nil
}

// CurrentUser returns the authenticated user.  Used as a connection and
// token sanity check before starting a run.
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get current user endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform http request: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &APIError{
			Category: CategoryMalformedResponse,
			Message:  fmt.Sprintf("couldn't parse json response for current user: %v", err),
			Err:      err,
		}
	}

	return &user, nil
}
