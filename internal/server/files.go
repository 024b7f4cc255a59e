package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileHandler serves dir without caching. Directories without an
// index.html are not listed, the root included.
func FileHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			clean := path.Clean("/" + r.URL.Path)
			_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean), "index.html"))
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	})
}
