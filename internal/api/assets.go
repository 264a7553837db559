package api

import (
	"io"
	"net/http"

	"github.com/spookystock/spookystock/internal/assets"
)

// AssetsHandler serves stored photos back to their owner.
type AssetsHandler struct {
	Assets assets.Store
}

// Get handles GET /api/assets/{key}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		jsonError(w, http.StatusBadRequest, "asset key required")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	data, mime, err := h.Assets.Open(r.Context(), claims.OwnerID, key)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// storePhoto reads the uploaded photo from the multipart form, stores it
// through the asset store, and runs attach to record the key on the target
// record. It writes the error response itself on failure.
func storePhoto(w http.ResponseWriter, r *http.Request, st assets.Store, attach func(key string) error) (string, error) {
	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return "", err
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read photo")
		return "", err
	}

	key, err := st.Put(r.Context(), ownerID(r), data, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return "", err
	}

	if err := attach(key); err != nil {
		writeError(w, err)
		return "", err
	}

	return key, nil
}
