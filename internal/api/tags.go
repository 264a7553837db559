package api

import (
	"database/sql"
	"net/http"

	"github.com/spookystock/spookystock/internal/model"
	"github.com/spookystock/spookystock/internal/store"
)

// TagsHandler handles tag listing and deletion. Tags are created implicitly
// by tagging items, never directly.
type TagsHandler struct {
	DB *sql.DB
}

// List handles GET /api/tags.
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := store.ListTags(r.Context(), h.DB, ownerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	jsonResponse(w, http.StatusOK, tags)
}

// Get handles GET /api/tags/{id}.
func (h *TagsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	tag, err := store.GetTag(r.Context(), h.DB, ownerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, tag)
}

// Delete handles DELETE /api/tags/{id}. Blocked while the tag is still
// attached to any item.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := store.DeleteTag(r.Context(), h.DB, ownerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}
