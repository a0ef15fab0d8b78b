package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultNamespace is the logical prefix persisted on filepath records. It is
// not a directory under the upload root; Resolve strips it before touching
// the filesystem.
const DefaultNamespace = "SeerAI"

var (
	ErrEscapesRoot = errors.New("path escapes storage root")
	ErrNotExist    = errors.New("stored file does not exist")
)

// SavedFile describes one stored upload. LogicalPath is the value persisted
// on the owning Space; it never contains client-supplied path segments beyond
// the sanitized original filename.
type SavedFile struct {
	OriginalName string
	StoredName   string
	LogicalPath  string
}

// Local stores uploads under a fixed root, one directory per session token.
type Local struct {
	root      string
	namespace string
}

func NewLocal(root, namespace string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root failed: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root failed: %w", err)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Local{root: abs, namespace: namespace}, nil
}

// Save writes the payload to <root>/<token>/<unixnano>-<name>. Directory
// creation tolerates the benign "already exists" race between two first
// uploads from the same token.
func (l *Local) Save(ownerToken, originalName string, r io.Reader) (SavedFile, error) {
	dir := filepath.Join(l.root, ownerToken)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("create token directory failed: %w", err)
	}

	storedName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeName(originalName))
	dst, err := os.Create(filepath.Join(dir, storedName))
	if err != nil {
		return SavedFile{}, fmt.Errorf("create stored file failed: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return SavedFile{}, fmt.Errorf("write stored file failed: %w", err)
	}

	return SavedFile{
		OriginalName: originalName,
		StoredName:   storedName,
		LogicalPath:  path.Join(l.namespace, ownerToken, storedName),
	}, nil
}

// Resolve maps a persisted logical path back to an absolute location under
// the root. The canonical result must stay inside the root; an escape is
// reported as ErrEscapesRoot regardless of whether the target exists, so the
// error does not leak path structure outside the root.
func (l *Local) Resolve(ref string) (string, error) {
	rel := strings.TrimPrefix(ref, l.namespace+"/")
	candidate := filepath.Join(l.root, filepath.FromSlash(rel))
	canonical, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("canonicalize stored path failed: %w", err)
	}
	if canonical != l.root && !strings.HasPrefix(canonical, l.root+string(os.PathSeparator)) {
		return "", ErrEscapesRoot
	}
	if _, err := os.Stat(canonical); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotExist
		}
		return "", fmt.Errorf("stat stored file failed: %w", err)
	}
	return canonical, nil
}

// Root returns the canonical upload root.
func (l *Local) Root() string {
	return l.root
}

// DownloadName strips the timestamp prefix from a stored name, recovering the
// sanitized original filename for use as the suggested download name.
func DownloadName(storedName string) string {
	base := path.Base(storedName)
	if i := strings.IndexByte(base, '-'); i > 0 && isDigits(base[:i]) {
		return base[i+1:]
	}
	return base
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sanitizeName treats the client filename as an opaque name, never a path.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		name = "upload"
	}
	return name
}
