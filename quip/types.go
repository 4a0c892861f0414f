package quip

// ItemKind distinguishes the two kinds of node Quip can hand us.  There are
// genuinely only two: a folder, or a document ("thread" in Quip-speak).
type ItemKind int

const (
	FolderItem ItemKind = iota
	DocumentItem
)

func (k ItemKind) String() string {
	switch k {
	case DocumentItem:
		return "document"
	default:
		return "folder"
	}
}

// Item is one remote node as reported by a folder listing.  The ID is opaque
// but unique on the Quip side; the name is whatever the author typed, so it
// is neither unique nor filesystem-safe.
type Item struct {
	ID   string
	Name string
	Kind ItemKind
	URL  string
}

// FolderListing is the direct contents of one folder.  It's ephemeral: we
// build one per API call and the hierarchy builder consumes it immediately.
//
// FolderName is the folder's own title as reported by its own listing --
// that's the only place Quip reports it, there is no per-folder metadata
// endpoint.
type FolderListing struct {
	Folders    []Item
	Documents  []Item
	FolderName string
}

// Thread is the metadata Quip reports for a single document.
type Thread struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// User is the authenticated user, used only to sanity-check a token.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Wire shapes for the folders endpoint.  A child carries either folder_id or
// thread_id; we disambiguate here at the boundary so nothing downstream ever
// looks at raw payload shape.
type folderResponse struct {
	Folder struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"folder"`
	Children []childEntry `json:"children"`
}

type childEntry struct {
	FolderID string `json:"folder_id"`
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
}

type threadResponse struct {
	Thread Thread `json:"thread"`
}

// FolderURL returns the canonical web address for a folder ID.
func FolderURL(folderID string) string {
	return "https://quip.com/folder/" + folderID
}

// DocumentURL returns the canonical web address for a thread ID.
func DocumentURL(threadID string) string {
	return "https://quip.com/" + threadID
}
