// Package statusserver exposes a mounted ZealFS image's live counters
// over HTTP as JSON, for operators who don't want to shell into the
// mount to run `df`.
package statusserver

import (
	"encoding/json"
	"net/http"

	zealfs "github.com/zeal8bit/zealfs-go/internal/fs"
)

// Status is the JSON body served at GET /status.
type Status struct {
	Version   int    `json:"version"`
	PageSize  int    `json:"page_size"`
	MaxPages  uint32 `json:"max_pages"`
	FreePages int    `json:"free_pages"`
}

// Handler returns an http.Handler serving GET /status as JSON
// (SPEC §4.16).
func Handler(fsys *zealfs.FS) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := Status{
			Version:   fsys.Version(),
			PageSize:  fsys.PageSize(),
			MaxPages:  fsys.MaxPages(),
			FreePages: fsys.FreePages(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st)
	})
	return mux
}
