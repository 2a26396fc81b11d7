package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/sections"
)

type contentCreatePayload struct {
	PageSlug   string         `json:"page_slug"`
	SectionKey string         `json:"section_key"`
	Content    map[string]any `json:"content"`
	SortOrder  int            `json:"sort_order"`
}

type contentUpdatePayload struct {
	Content         map[string]any `json:"content,omitempty"`
	IsActive        *bool          `json:"is_active,omitempty"`
	SortOrder       *int           `json:"sort_order,omitempty"`
	ExpectedVersion *int           `json:"expected_version,omitempty"`
}

type contentResponse struct {
	Record *content.Record `json:"record,omitempty"`
	Notice content.Notice  `json:"notice"`
}

type pageConfigResponse struct {
	Page      sections.PageDefinition      `json:"page"`
	Available []sections.SectionDefinition `json:"available"`
}

func (api *AdminAPI) registerContentRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "content")
	api.handle(mux, "GET "+root, api.handleContentList)
	api.handle(mux, "POST "+root, api.handleContentCreate)
	api.handle(mux, "POST "+joinPath(root, "reload"), api.handleContentReload)
	api.handle(mux, "PUT "+joinPath(root, "{id}"), api.handleContentUpdate)
	api.handle(mux, "DELETE "+joinPath(root, "{id}"), api.handleContentDelete)

	pages := joinPath(base, "pages")
	api.handle(mux, "GET "+pages, api.handlePageConfigList)
	api.handle(mux, "GET "+joinPath(pages, "{slug}"), api.handlePageConfig)
}

// writeContentError renders err together with the notice the editor shows.
func writeContentError(w http.ResponseWriter, action string, err error) {
	status, payload := mapError(err)
	notice := content.NoticeFor(action, err)
	payload.Notice = &notice
	writeJSON(w, status, payload)
}

func (api *AdminAPI) handleContentList(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		unavailable(w)
		return
	}
	q := r.URL.Query()
	if parseBoolQuery(q.Get("refresh"), false) {
		if _, err := api.content.LoadAll(r.Context()); err != nil {
			writeContentError(w, "reload", err)
			return
		}
	}
	page := strings.TrimSpace(q.Get("page"))
	section := strings.TrimSpace(q.Get("section"))
	var records []*content.Record
	switch {
	case page != "" && section != "":
		records = api.content.FilterBySection(page, section)
	case page != "":
		records = api.content.FilterByPage(page)
	default:
		records = api.content.Records()
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *AdminAPI) handleContentCreate(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		unavailable(w)
		return
	}
	var payload contentCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}
	record, err := api.content.Create(r.Context(), content.CreateRequest{
		PageSlug:   payload.PageSlug,
		SectionKey: payload.SectionKey,
		Content:    payload.Content,
		SortOrder:  payload.SortOrder,
	})
	if err != nil {
		writeContentError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, contentResponse{Record: record, Notice: content.NoticeFor("create", nil)})
}

func (api *AdminAPI) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var payload contentUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}
	record, err := api.content.Update(r.Context(), id, content.UpdateRequest{
		Content:         payload.Content,
		IsActive:        payload.IsActive,
		SortOrder:       payload.SortOrder,
		ExpectedVersion: payload.ExpectedVersion,
	})
	if err != nil {
		writeContentError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, contentResponse{Record: record, Notice: content.NoticeFor("update", nil)})
}

func (api *AdminAPI) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := api.content.Delete(r.Context(), id); err != nil {
		writeContentError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, contentResponse{Notice: content.NoticeFor("delete", nil)})
}

func (api *AdminAPI) handleContentReload(w http.ResponseWriter, r *http.Request) {
	if api.content == nil {
		unavailable(w)
		return
	}
	var err error
	if api.commands != nil {
		err = api.commands.ReloadContent.Execute(r.Context(), sitecmd.ReloadContentCommand{})
	} else {
		_, err = api.content.LoadAll(r.Context())
	}
	if err != nil {
		writeContentError(w, "reload", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": len(api.content.Records()),
		"notice":  content.NoticeFor("reload", nil),
	})
}

func (api *AdminAPI) handlePageConfigList(w http.ResponseWriter, _ *http.Request) {
	if api.registry == nil {
		unavailable(w)
		return
	}
	writeJSON(w, http.StatusOK, api.registry.Pages())
}

func (api *AdminAPI) handlePageConfig(w http.ResponseWriter, r *http.Request) {
	if api.registry == nil || api.content == nil {
		unavailable(w)
		return
	}
	slug := r.PathValue("slug")
	page, ok := api.registry.Page(slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "unknown page " + slug})
		return
	}
	existing := make([]string, 0)
	for _, rec := range api.content.FilterByPage(slug) {
		existing = append(existing, rec.SectionKey)
	}
	writeJSON(w, http.StatusOK, pageConfigResponse{
		Page:      page,
		Available: api.registry.AvailableSections(slug, existing),
	})
}
