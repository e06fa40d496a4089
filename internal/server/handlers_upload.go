package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// uploadTypes maps the type query parameter onto a subdirectory of the
// uploads dir. Anything else is rejected.
var uploadTypes = map[string]bool{
	"avatar":     true,
	"background": true,
	"favicon":    true,
}

const maxUploadBytes = 10 << 20 // 10 MiB

func (a *API) handleListImages(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if !uploadTypes[kind] {
		fail(w, http.StatusBadRequest, "unknown image type")
		return
	}

	dir := filepath.Join(a.uploadsDir, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		// No uploads yet is an empty list, not an error.
		ok(w, "", []string{})
		return
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.ToSlash(filepath.Join("uploads", kind, e.Name())))
	}
	ok(w, "", paths)
}

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if !uploadTypes[kind] {
		fail(w, http.StatusBadRequest, "unknown image type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "multipart file field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico":
	default:
		fail(w, http.StatusBadRequest, "unsupported file extension")
		return
	}

	dir := filepath.Join(a.uploadsDir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.logger.Error("failed to create uploads directory", "error", err)
		fail(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	name := fmt.Sprintf("%s_%d%s", kind, time.Now().UnixMilli(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		a.logger.Error("failed to create upload file", "error", err)
		fail(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		a.logger.Error("failed to write upload", "error", err)
		fail(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	if kind == "favicon" {
		a.hub.Broadcast(Event{Type: EventFaviconUpdated})
	}
	ok(w, "上传成功", map[string]string{"path": filepath.ToSlash(filepath.Join("uploads", kind, name))})
}
