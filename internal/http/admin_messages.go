package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/contact"
)

type messageReadPayload struct {
	Read *bool `json:"read"`
}

func (api *AdminAPI) registerMessageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "messages")
	api.handle(mux, "GET "+root, api.handleMessageList)
	api.handle(mux, "GET "+joinPath(root, "unread-count"), api.handleMessageUnreadCount)
	api.handle(mux, "PUT "+joinPath(root, "{id}/read"), api.handleMessageRead)
	api.handle(mux, "DELETE "+joinPath(root, "{id}"), api.handleMessageDelete)
}

func (api *AdminAPI) handleMessageList(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		unavailable(w)
		return
	}
	list, err := api.contact.List(r.Context(), contact.ListOptions{
		UnreadOnly: parseBoolQuery(r.URL.Query().Get("unread"), false),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleMessageUnreadCount(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		unavailable(w)
		return
	}
	count, err := api.contact.UnreadCount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (api *AdminAPI) handleMessageRead(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	payload := messageReadPayload{}
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}
	read := true
	if payload.Read != nil {
		read = *payload.Read
	}

	if api.commands != nil {
		err = api.commands.MarkMessageRead.Execute(r.Context(), sitecmd.MarkMessageReadCommand{MessageID: id, Read: read})
	} else {
		_, err = api.contact.MarkRead(r.Context(), id, read)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_read": read})
}

func (api *AdminAPI) handleMessageDelete(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := api.contact.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
