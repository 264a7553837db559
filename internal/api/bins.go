package api

import (
	"database/sql"
	"net/http"

	"github.com/spookystock/spookystock/internal/assets"
	"github.com/spookystock/spookystock/internal/model"
	"github.com/spookystock/spookystock/internal/store"
)

// BinsHandler handles bin CRUD and photo endpoints.
type BinsHandler struct {
	DB     *sql.DB
	Assets assets.Store
}

type createBinRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	CategoryID  *int64 `json:"category_id"`
	ParentBinID *int64 `json:"parent_bin_id"`
}

// List handles GET /api/bins.
func (h *BinsHandler) List(w http.ResponseWriter, r *http.Request) {
	bins, err := store.ListBins(r.Context(), h.DB, ownerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if bins == nil {
		bins = []model.Bin{}
	}
	jsonResponse(w, http.StatusOK, bins)
}

// Create handles POST /api/bins.
func (h *BinsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBinRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bin, err := store.CreateBin(r.Context(), h.DB, ownerID(r), model.Bin{
		Name:        req.Name,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ParentBinID: req.ParentBinID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, bin)
}

// Get handles GET /api/bins/{id}.
func (h *BinsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bin id")
		return
	}

	bin, err := store.GetBin(r.Context(), h.DB, ownerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, bin)
}

// Update handles PUT /api/bins/{id}. Reparenting runs the cycle check.
func (h *BinsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bin id")
		return
	}

	var patch model.BinPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bin, err := store.UpdateBin(r.Context(), h.DB, ownerID(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, bin)
}

// Delete handles DELETE /api/bins/{id}. Children are reparented and items
// unfiled in the same transaction.
func (h *BinsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bin id")
		return
	}

	if err := store.DeleteBin(r.Context(), h.DB, ownerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "bin deleted"})
}

// UploadPhoto handles PUT /api/bins/{id}/photo.
func (h *BinsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid bin id")
		return
	}

	key, err := storePhoto(w, r, h.Assets, func(key string) error {
		_, err := store.UpdateBin(r.Context(), h.DB, ownerID(r), id, model.BinPatch{
			PhotoKey: model.String(key),
		})
		return err
	})
	if err != nil {
		return // storePhoto already responded
	}

	jsonResponse(w, http.StatusOK, map[string]string{
		"photo_key": key,
		"location":  h.Assets.Resolve(key),
	})
}
