package quip

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var folderIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ExtractFolderID accepts either a bare folder ID or a Quip folder URL and
// returns the ID.  URLs come in a few shapes:
//
//	https://quip.com/folder/ABC123
//	https://quip.com/folder/ABC123/some-folder-name
//	https://quip.com/ABC123
func ExtractFolderID(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("quip: folder URL or ID is required")
	}

	// a bare ID is fine too.
	if !strings.Contains(raw, "/") {
		if !folderIDPattern.MatchString(raw) {
			return "", fmt.Errorf("quip: invalid folder ID format: %s", raw)
		}
		return raw, nil
	}

	if !strings.HasPrefix(raw, "https://") {
		return "", fmt.Errorf("quip: folder URL must start with 'https://': %s", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("quip: couldn't parse folder URL: %w", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	var folderID string
	switch {
	case len(parts) >= 2 && parts[0] == "folder":
		folderID = parts[1]
	case len(parts) >= 1 && parts[0] != "":
		folderID = parts[0]
	default:
		return "", fmt.Errorf("quip: cannot extract folder ID from URL: %s", raw)
	}

	if !folderIDPattern.MatchString(folderID) {
		return "", fmt.Errorf("quip: invalid folder ID format: %s", folderID)
	}

	return folderID, nil
}
