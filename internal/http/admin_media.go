package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/query"
)

const mediaFileField = "file"

func (api *AdminAPI) registerMediaRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "media")
	api.handle(mux, "GET "+root, api.handleMediaList)
	api.handle(mux, "POST "+root, api.handleMediaUpload)
	api.handle(mux, "DELETE "+joinPath(root, "{name}"), api.handleMediaDelete)
}

func (api *AdminAPI) handleMediaList(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		unavailable(w)
		return
	}
	q := r.URL.Query()
	filter := media.Filter{
		Category: media.Category(strings.ToLower(strings.TrimSpace(q.Get("category")))),
		Search:   q.Get("search"),
		Page:     parseIntQuery(q.Get("page"), 1),
		Sort:     query.SortState{Field: media.SortDate, Direction: query.Desc},
	}
	if field := strings.TrimSpace(q.Get("sort")); field != "" {
		filter.Sort = query.SortState{Field: field, Direction: query.ParseDirection(q.Get("dir"))}
	}
	result, err := api.media.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *AdminAPI) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		unavailable(w)
		return
	}
	file, header, err := r.FormFile(mediaFileField)
	if err != nil {
		badRequest(w, "multipart field \""+mediaFileField+"\" is required")
		return
	}
	defer file.Close()

	stored, err := api.media.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (api *AdminAPI) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	if api.media == nil {
		unavailable(w)
		return
	}
	if err := api.media.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
