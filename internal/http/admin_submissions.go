package http

import (
	"net/http"
	"time"

	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/submissions"
)

type submissionStatusPayload struct {
	Status string `json:"status,omitempty"`
	Toggle bool   `json:"toggle,omitempty"`
}

func (api *AdminAPI) registerSubmissionRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "submissions")
	api.handle(mux, "GET "+root, api.handleSubmissionList)
	api.handle(mux, "GET "+joinPath(root, "{id}"), api.handleSubmissionGet)
	api.handle(mux, "PUT "+joinPath(root, "{id}/status"), api.handleSubmissionStatus)
	api.handle(mux, "DELETE "+joinPath(root, "{id}"), api.handleSubmissionDelete)
	api.handle(mux, "GET "+joinPath(root, "files/{id}/download"), api.handleSubmissionDownload)
}

func (api *AdminAPI) handleSubmissionList(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		unavailable(w)
		return
	}
	list, err := api.submissions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleSubmissionGet(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	record, err := api.submissions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var payload submissionStatusPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}

	var updated *submissions.Submission
	if api.commands != nil {
		cmd := sitecmd.SetSubmissionStatusCommand{
			SubmissionID: id,
			Status:       submissions.Status(payload.Status),
			Toggle:       payload.Toggle,
		}
		if err := api.commands.SetSubmissionStatus.Execute(r.Context(), cmd); err != nil {
			writeError(w, err)
			return
		}
		updated, err = api.submissions.Get(r.Context(), id)
	} else if payload.Toggle {
		updated, err = api.submissions.ToggleStatus(r.Context(), id)
	} else {
		updated, err = api.submissions.SetStatus(r.Context(), id, submissions.Status(payload.Status))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleSubmissionDelete(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := api.submissions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handleSubmissionDownload(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		unavailable(w)
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var ttl time.Duration
	if seconds := parseIntQuery(r.URL.Query().Get("ttl"), 0); seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}
	url, err := api.submissions.DownloadURL(r.Context(), id, ttl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
