package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

// binaryExtensions lists file extensions served as type 9 (Binary) rather
// than type 0 (TextFile); their content is listed but never read into the
// store as a Document.
var binaryExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"zip": true, "tar": true, "gz": true, "exe": true, "bin": true, "pdf": true,
}

// FS projects a local directory tree into the namespace/selector model.
// Directories become menus, text files become documents, binary files
// are listed but not fetchable as text. A ".gophermap" file in a
// directory overrides that directory's auto-generated menu entirely.
// When Writable is true, Publish and Delete are enabled.
type FS struct {
	namespace  string
	root       string
	extensions map[string]bool // nil means no filter
	writable   bool
}

// NewFS creates a filesystem adapter rooted at root. If writable is true
// and root does not exist, it is created; otherwise a missing or
// non-directory root is an error.
func NewFS(namespace, root string, extensions []string, writable bool) (*FS, error) {
	info, err := os.Stat(root)
	if err != nil {
		if !os.IsNotExist(err) || !writable {
			return nil, fmt.Errorf("%w: root %q: %v", types.ErrIO, root, err)
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating root %q: %v", types.ErrIO, root, err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%w: root %q is not a directory", types.ErrIO, root)
	}

	var extSet map[string]bool
	if len(extensions) > 0 {
		extSet = make(map[string]bool, len(extensions))
		for _, e := range extensions {
			extSet[strings.ToLower(strings.TrimPrefix(e, "."))] = true
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	return &FS{namespace: namespace, root: absRoot, extensions: extSet, writable: writable}, nil
}

func (f *FS) Namespace() string { return f.namespace }

func (f *FS) isBinaryExt(ext string) bool {
	return binaryExtensions[strings.ToLower(ext)]
}

func (f *FS) shouldInclude(name string) bool {
	if f.extensions == nil {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	return f.extensions[strings.ToLower(ext)]
}

// pathToSelector converts an absolute filesystem path under root to a
// selector: the root itself maps to "", subdirectories to "/subdir".
func (f *FS) pathToSelector(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == "." {
		return ""
	}
	return "/" + filepath.ToSlash(rel)
}

// selectorToPath converts a selector back to an absolute filesystem
// path, rejecting ".." segments and any result that escapes root via a
// symlink.
func (f *FS) selectorToPath(selector string) (string, error) {
	for _, seg := range strings.Split(selector, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", types.ErrInvalidPath, selector)
		}
	}

	rel := strings.TrimPrefix(selector, "/")
	candidate := filepath.Join(f.root, rel)

	canonRoot, err := filepath.EvalSymlinks(f.root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	checkAncestor := candidate
	for {
		if _, err := os.Lstat(checkAncestor); err == nil {
			break
		}
		parent := filepath.Dir(checkAncestor)
		if parent == checkAncestor {
			break
		}
		checkAncestor = parent
	}
	canonAncestor, err := filepath.EvalSymlinks(checkAncestor)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	suffix := strings.TrimPrefix(candidate, checkAncestor)
	canonCandidate := filepath.Join(canonAncestor, suffix)

	if canonCandidate != canonRoot && !strings.HasPrefix(canonCandidate, canonRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes root", types.ErrInvalidPath, selector)
	}

	return candidate, nil
}

func (f *FS) Sync(ctx context.Context, s *store.Store) error {
	s.RegisterNamespace(f.namespace, f.writable)

	queue := []string{f.root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		children, err := f.processDirectory(dir, s)
		if err != nil {
			return err
		}
		queue = append(queue, children...)
	}
	return nil
}

// processDirectory builds and stores the menu for dir, stores documents
// for its text-file children, and returns the subdirectories to queue.
func (f *FS) processDirectory(dir string, s *store.Store) ([]string, error) {
	selector := f.pathToSelector(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", types.ErrIO, dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	gophermapPath := filepath.Join(dir, ".gophermap")
	if data, err := os.ReadFile(gophermapPath); err == nil {
		items := parseGophermap(string(data))
		s.PutMenu(f.namespace, selector, items)
	} else {
		s.PutMenu(f.namespace, selector, f.buildMenuItems(dir, entries))
	}

	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if e.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !f.shouldInclude(name) {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		if f.isBinaryExt(ext) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		s.PutDocument(f.namespace, f.pathToSelector(path), string(content), mimeForExt(ext))
	}
	return subdirs, nil
}

// buildMenuItems builds the auto-generated menu for dir from its sorted
// entries, computing each child's selector relative to the namespace
// root rather than to dir.
func (f *FS) buildMenuItems(dir string, entries []os.DirEntry) []types.MenuItem {
	var items []types.MenuItem
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() && !f.shouldInclude(name) {
			continue
		}

		childSelector := f.pathToSelector(filepath.Join(dir, name))

		if e.IsDir() {
			items = append(items, types.MenuItem{Type: types.Menu, Display: name, Selector: childSelector, Host: f.namespace})
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		itype := types.TextFile
		if f.isBinaryExt(ext) {
			itype = types.Binary
		}
		items = append(items, types.MenuItem{Type: itype, Display: name, Selector: childSelector, Host: f.namespace})
	}
	return items
}

func (f *FS) refreshDirectoryMenu(dir string, s *store.Store) error {
	selector := f.pathToSelector(dir)

	if data, err := os.ReadFile(filepath.Join(dir, ".gophermap")); err == nil {
		s.PutMenu(f.namespace, selector, parseGophermap(string(data)))
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %v", types.ErrIO, dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	s.PutMenu(f.namespace, selector, f.buildMenuItems(dir, entries))
	return nil
}

func (f *FS) refreshAncestorMenus(from string, s *store.Store) error {
	canonRoot, err := filepath.EvalSymlinks(f.root)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	dir := from
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := f.refreshDirectoryMenu(dir, s); err != nil {
				return err
			}
		}
		canonDir, err := filepath.EvalSymlinks(dir)
		if err == nil && canonDir == canonRoot {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}

func (f *FS) Publish(ctx context.Context, s *store.Store, selector, content string) (bool, error) {
	if !f.writable {
		return false, fmt.Errorf("%w: %s", types.ErrNotWritable, f.namespace)
	}

	path, err := f.selectorToPath(selector)
	if err != nil {
		return false, err
	}

	_, existed := os.Stat(path)
	created := existed != nil

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("%w: %v", types.ErrIO, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	s.PutDocument(f.namespace, selector, content, mimeForExt(ext))

	if err := f.refreshAncestorMenus(filepath.Dir(path), s); err != nil {
		return false, err
	}
	return created, nil
}

func (f *FS) Delete(ctx context.Context, s *store.Store, selector string) error {
	if !f.writable {
		return fmt.Errorf("%w: %s", types.ErrNotWritable, f.namespace)
	}

	path, err := f.selectorToPath(selector)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrNotFound, selector)
	}

	if info.IsDir() {
		prefix := selector
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		for _, sel := range s.SelectorsWithPrefix(f.namespace, prefix) {
			s.Remove(f.namespace, sel)
		}
		s.Remove(f.namespace, selector)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("%w: %v", types.ErrIO, err)
		}
	} else {
		s.Remove(f.namespace, selector)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("%w: %v", types.ErrIO, err)
		}
	}

	return f.refreshAncestorMenus(filepath.Dir(path), s)
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case "html", "htm":
		return "text/html"
	case "md":
		return "text/markdown"
	case "json":
		return "application/json"
	default:
		return "text/plain"
	}
}

// parseGophermap parses a ".gophermap" override file: lines of the form
// "<type><display>\t<selector>\t<host>\t<port>"; blank lines and lines
// beginning with "#" are skipped; "i" lines may omit trailing fields.
func parseGophermap(content string) []types.MenuItem {
	var items []types.MenuItem
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		itype := types.ItemTypeFromByte(line[0])
		fields := strings.Split(line[1:], "\t")

		if len(fields) >= 3 {
			port := uint16(70)
			if len(fields) >= 4 {
				if p, err := strconv.Atoi(fields[3]); err == nil && p >= 0 && p <= 65535 {
					port = uint16(p)
				}
			}
			items = append(items, types.MenuItem{Type: itype, Display: fields[0], Selector: fields[1], Host: fields[2], Port: port})
		} else if itype == types.Info {
			items = append(items, types.MenuItem{Type: types.Info, Display: fields[0]})
		}
	}
	return items
}

func (f *FS) Search(ctx context.Context, selector, query string) ([]types.MenuItem, bool) {
	return nil, false
}
