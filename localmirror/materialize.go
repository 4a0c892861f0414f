package localmirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Paths much longer than this upset some filesystems; we warn but don't
// refuse.
const pathLengthWarning = 250

// CreateTree creates one local directory per hierarchy node under
// StorePath, names run through the sanitization policy.  Idempotent: calling
// it over an existing mirror is fine.  Failure here is fatal to the run --
// nothing can be exported without the directory structure.
func (m *Mirrorer) CreateTree(root *HierarchyNode) error {
	if m.DryRun {
		return nil
	}
	return m.createTreeAt(root, m.StorePath)
}

func (m *Mirrorer) createTreeAt(node *HierarchyNode, parentDir string) error {
	dir := filepath.Join(parentDir, SanitizeName(node.Folder.Name))

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("localmirror: couldn't create directory %s: %w", dir, err)
	}

	for _, id := range node.sortedSubfolderIDs() {
		if err := m.createTreeAt(node.Subfolders[id], dir); err != nil {
			return err
		}
	}

	return nil
}

// ResolvePath joins a placement's sanitized folder chain and filename under
// the store path.
func (m *Mirrorer) ResolvePath(placement DocumentPlacement) string {
	parts := make([]string, 0, len(placement.FolderPath)+2)
	parts = append(parts, m.StorePath)
	for _, segment := range placement.FolderPath {
		parts = append(parts, SanitizeName(segment))
	}
	parts = append(parts, DocumentFilename(placement.Item.Name))

	resolved := filepath.Join(parts...)
	if len(resolved) > pathLengthWarning {
		m.logf("WARNING: resolved path is %d characters, some filesystems will balk: %s", len(resolved), resolved)
	}

	return resolved
}

// Decision is the outcome of a conflict check: whether to go ahead with the
// write, and a human-readable note saying why (or why not).
type Decision struct {
	Proceed bool
	Note    string
}

// Reconcile decides what to do about a possibly existing file at path.  With
// overwrite enabled we first try to copy the old file aside; the backup is
// best-effort and never blocks the overwrite.
func (m *Mirrorer) Reconcile(path string) Decision {
	if !fileExists(path) {
		return Decision{Proceed: true, Note: "no conflict"}
	}

	if !m.Overwrite {
		return Decision{
			Proceed: false,
			Note:    fmt.Sprintf("file already exists and overwrite is disabled: %s", path),
		}
	}

	// a dry run reports the would-be overwrite but must not touch the disk,
	// backups included.
	if m.DryRun {
		return Decision{Proceed: true, Note: "file would be overwritten (dry run, no backup taken)"}
	}

	backupPath, err := backupExisting(path)
	if err != nil {
		m.logf("WARNING: failed to back up %s: %v", path, err)
		return Decision{Proceed: true, Note: "file will be overwritten (backup failed)"}
	}

	return Decision{
		Proceed: true,
		Note:    fmt.Sprintf("file will be overwritten (backup created: %s)", backupPath),
	}
}

// backupExisting copies path aside to path.backup, or path.backup.N for the
// first free N if that's taken.
func backupExisting(path string) (string, error) {
	backupPath := path + ".backup"
	for counter := 1; fileExists(backupPath); counter++ {
		backupPath = fmt.Sprintf("%s.backup.%d", path, counter)
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("localmirror: couldn't copy %s aside: %w", path, err)
	}

	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// CleanupEmptyDirs walks the mirror bottom-up and removes directories that
// ended up with nothing in them -- skipped and failed documents can leave a
// whole branch empty.  The store path itself is never removed.  Returns how
// many directories went away.
func (m *Mirrorer) CleanupEmptyDirs() (int, error) {
	dirs := []string{}

	err := filepath.WalkDir(m.StorePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != m.StorePath {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("localmirror: couldn't walk %s for cleanup: %w", m.StorePath, err)
	}

	// deepest first, so removing a leaf can render its parent empty in the
	// same pass.
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			m.logf("WARNING: couldn't read %s during cleanup: %v", dir, err)
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			m.logf("WARNING: couldn't remove empty directory %s: %v", dir, err)
			continue
		}
		m.logf("Removed empty directory: %s", dir)
		removed++
	}

	return removed, nil
}
