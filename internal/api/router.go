package api

import (
	"database/sql"
	"net/http"

	"github.com/spookystock/spookystock/internal/assets"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, secret string) http.Handler {
	mux := http.NewServeMux()

	assetStore := assets.NewDBStore(db)

	authHandler := &AuthHandler{DB: db, Secret: secret}
	categoriesHandler := &CategoriesHandler{DB: db}
	binsHandler := &BinsHandler{DB: db, Assets: assetStore}
	itemsHandler := &ItemsHandler{DB: db, Assets: assetStore}
	tagsHandler := &TagsHandler{DB: db}
	assetsHandler := &AssetsHandler{Assets: assetStore}

	authMW := AuthMiddleware(secret, db)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Categories.
	mux.Handle("GET /api/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/categories", authMW(http.HandlerFunc(categoriesHandler.Create)))
	mux.Handle("GET /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Get)))
	mux.Handle("PUT /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Update)))
	mux.Handle("DELETE /api/categories/{id}", authMW(http.HandlerFunc(categoriesHandler.Delete)))

	// Bins.
	mux.Handle("GET /api/bins", authMW(http.HandlerFunc(binsHandler.List)))
	mux.Handle("POST /api/bins", authMW(http.HandlerFunc(binsHandler.Create)))
	mux.Handle("GET /api/bins/{id}", authMW(http.HandlerFunc(binsHandler.Get)))
	mux.Handle("PUT /api/bins/{id}", authMW(http.HandlerFunc(binsHandler.Update)))
	mux.Handle("DELETE /api/bins/{id}", authMW(http.HandlerFunc(binsHandler.Delete)))
	mux.Handle("PUT /api/bins/{id}/photo", authMW(http.HandlerFunc(binsHandler.UploadPhoto)))

	// Items, including the facet filter on the list endpoint.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/tags", authMW(http.HandlerFunc(itemsHandler.SetTags)))
	mux.Handle("PUT /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))

	// Tags.
	mux.Handle("GET /api/tags", authMW(http.HandlerFunc(tagsHandler.List)))
	mux.Handle("GET /api/tags/{id}", authMW(http.HandlerFunc(tagsHandler.Get)))
	mux.Handle("DELETE /api/tags/{id}", authMW(http.HandlerFunc(tagsHandler.Delete)))

	// Stored photos.
	mux.Handle("GET /api/assets/{key}", authMW(http.HandlerFunc(assetsHandler.Get)))

	return mux
}
