// Package static serves front-end files from a directory on disk.
//
// Paths that resolve outside the root are refused with 403; missing files and
// anything that is not a regular file get 404. Errors are plain text.
package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erazemk/precificacao/internal/logger"
)

// IndexFile is served for "/".
const IndexFile = "index.html"

// Server is an http.Handler for files under Root.
type Server struct {
	Root string
}

// New returns a Server for root, which is made absolute.
func New(root string) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Server{Root: abs}, nil
}

// ContentType maps a file extension to the Content-Type header value.
func ContentType(name string) string {
	switch filepath.Ext(name) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Resolve maps a URL path to a file path under the root. ok is false when the
// path escapes the root.
func (s *Server) Resolve(urlPath string) (path string, ok bool) {
	rel := strings.TrimLeft(urlPath, "/")
	if rel == "" {
		rel = IndexFile
	}

	path = filepath.Join(s.Root, filepath.FromSlash(rel))
	if !within(s.Root, path) {
		return "", false
	}

	// Follow symlinks so a link inside the root cannot point outside it.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		root, err := filepath.EvalSymlinks(s.Root)
		if err != nil {
			root = s.Root
		}
		if !within(root, resolved) {
			return "", false
		}
	}
	return path, true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path, ok := s.Resolve(r.URL.Path)
	if !ok {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Get().Errorw("failed to read static file", "path", path, "error", err)
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", ContentType(path))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Get().Warnw("failed to write static file", "path", path, "error", err)
	}
}
