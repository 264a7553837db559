package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/spookystock/spookystock/internal/assets"
	"github.com/spookystock/spookystock/internal/model"
	"github.com/spookystock/spookystock/internal/store"
)

// ItemsHandler handles item CRUD, tagging, filtering and photo endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Assets assets.Store
}

type createItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Notes       string   `json:"notes"`
	BinID       *int64   `json:"bin_id"`
	CategoryID  *int64   `json:"category_id"`
	Tags        []string `json:"tags"`
}

type setTagsRequest struct {
	Tags []string `json:"tags"`
}

// List handles GET /api/items. Query parameters compose the facet filter:
// `category` and `bin` narrow by exact reference, `tags` is a comma-separated
// tag id list matched with OR semantics, and `q` is a case-insensitive
// substring over name, description and tag names. No parameters returns the
// owner's full list in creation order.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := store.FilterItems(r.Context(), h.DB, ownerID(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. Tags supplied at creation are applied in a
// follow-up tag-set call after the item exists.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := ownerID(r)
	item, err := store.CreateItem(r.Context(), h.DB, owner, model.Item{
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		Notes:       req.Notes,
		BinID:       req.BinID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if len(req.Tags) > 0 {
		tags, err := store.SetItemTags(r.Context(), h.DB, owner, item.ID, req.Tags)
		if err != nil {
			writeError(w, err)
			return
		}
		item.Tags = tags
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, ownerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, ownerID(r), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, ownerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// SetTags handles PUT /api/items/{id}/tags, replacing the item's tag set.
func (h *ItemsHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tags, err := store.SetItemTags(r.Context(), h.DB, ownerID(r), id, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	jsonResponse(w, http.StatusOK, tags)
}

// UploadPhoto handles PUT /api/items/{id}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	key, err := storePhoto(w, r, h.Assets, func(key string) error {
		_, err := store.UpdateItem(r.Context(), h.DB, ownerID(r), id, model.ItemPatch{
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

// parseFilter builds the facet filter from query parameters.
func parseFilter(r *http.Request) (store.Filter, error) {
	var f store.Filter
	q := r.URL.Query()

	f.Text = q.Get("q")

	if v := q.Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errInvalidParam("category")
		}
		f.CategoryID = id
	}
	if v := q.Get("bin"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errInvalidParam("bin")
		}
		f.BinID = id
	}
	if v := q.Get("tags"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return f, errInvalidParam("tags")
			}
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	return f, nil
}

type paramError string

func errInvalidParam(name string) error { return paramError(name) }

func (p paramError) Error() string { return "invalid " + string(p) + " parameter" }
