package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/institutions"
	"github.com/goliatone/go-sitecms/internal/query"
	"github.com/goliatone/go-sitecms/internal/submissions"
)

const (
	defaultMaxUploadBytes = 64 << 20
	multipartMemory       = 8 << 20
	uploadFilePrefix      = "file_"
	uploadTypePrefix      = "form_type_"
	uploadDescPrefix      = "description_"
)

// PublicAPI serves the website: page content, the institutions directory
// and the two public forms.
type PublicAPI struct {
	basePath       string
	pages          content.PublicService
	institutions   *institutions.Service
	contact        contact.Service
	submissions    submissions.Service
	maxUploadBytes int64
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

func NewPublicAPI(opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath:       "/api",
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithPublicBasePath overrides the base path (defaults to "/api").
func WithPublicBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPageService(service content.PublicService) PublicOption {
	return func(api *PublicAPI) {
		api.pages = service
	}
}

func WithInstitutionService(service *institutions.Service) PublicOption {
	return func(api *PublicAPI) {
		api.institutions = service
	}
}

func WithContactService(service contact.Service) PublicOption {
	return func(api *PublicAPI) {
		api.contact = service
	}
}

func WithSubmissionService(service submissions.Service) PublicOption {
	return func(api *PublicAPI) {
		api.submissions = service
	}
}

// WithMaxUploadBytes caps the size of a whole multipart submission.
func WithMaxUploadBytes(limit int64) PublicOption {
	return func(api *PublicAPI) {
		if limit > 0 {
			api.maxUploadBytes = limit
		}
	}
}

// Register attaches the public endpoints to mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: public api is nil")
	}
	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET "+joinPath(base, "pages/{slug}"), api.handlePage)
	mux.HandleFunc("GET "+joinPath(base, "pages/{slug}/sections/{key}"), api.handleSection)
	mux.HandleFunc("GET "+joinPath(base, "institutions"), api.handleInstitutions)
	mux.HandleFunc("POST "+joinPath(base, "contact"), api.handleContact)
	mux.HandleFunc("POST "+joinPath(base, "submissions"), api.handleSubmission)
	return nil
}

type pageSectionPayload struct {
	Key       string         `json:"key"`
	SortOrder int            `json:"sort_order"`
	Content   map[string]any `json:"content"`
}

type pagePayload struct {
	Slug     string               `json:"slug"`
	Sections []pageSectionPayload `json:"sections"`
}

func (api *PublicAPI) handlePage(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	page := api.pages.LoadPage(r.Context(), r.PathValue("slug"))
	out := pagePayload{Slug: page.Slug, Sections: make([]pageSectionPayload, 0, len(page.Records))}
	for _, rec := range page.Records {
		out.Sections = append(out.Sections, pageSectionPayload{
			Key:       rec.SectionKey,
			SortOrder: rec.SortOrder,
			Content:   rec.Content,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *PublicAPI) handleSection(w http.ResponseWriter, r *http.Request) {
	if api.pages == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	page := api.pages.LoadPage(r.Context(), r.PathValue("slug"))
	raw, ok := page.Raw(r.PathValue("key"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "section has no content"})
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (api *PublicAPI) handleInstitutions(w http.ResponseWriter, r *http.Request) {
	if api.institutions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	q := r.URL.Query()
	category, err := institutions.ParseCategory(q.Get("category"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	filter := institutions.Filter{
		Category: category,
		Union:    q.Get("union"),
		Search:   q.Get("search"),
		Page:     parseIntQuery(q.Get("page"), 1),
	}
	if field := strings.TrimSpace(q.Get("sort")); field != "" {
		filter.Sort = query.SortState{Field: field, Direction: query.ParseDirection(q.Get("dir"))}
	}
	writeJSON(w, http.StatusOK, api.institutions.List(r.Context(), filter))
}

func (api *PublicAPI) handleContact(w http.ResponseWriter, r *http.Request) {
	if api.contact == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var req contact.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}
	msg, err := api.contact.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": msg.ID, "created_at": msg.CreatedAt})
}

func (api *PublicAPI) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if api.submissions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		badRequest(w, "invalid multipart payload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := r.MultipartForm
	req := submissions.SubmitRequest{
		Applicant: submissions.Applicant{
			LastName:   formValue(form, "last_name"),
			OtherNames: formValue(form, "other_names"),
			Phone:      formValue(form, "phone"),
			Email:      formValue(form, "email"),
		},
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, idx := range uploadIndexes(form) {
		suffix := strconv.Itoa(idx)
		upload := submissions.Upload{
			FormType:    submissions.FormType(formValue(form, uploadTypePrefix+suffix)),
			Description: formValue(form, uploadDescPrefix+suffix),
		}
		if headers := form.File[uploadFilePrefix+suffix]; len(headers) > 0 {
			file, err := headers[0].Open()
			if err != nil {
				badRequest(w, "unreadable upload "+headers[0].Filename)
				return
			}
			opened = append(opened, file)
			upload.FileName = headers[0].Filename
			upload.ContentType = headers[0].Header.Get("Content-Type")
			upload.Body = file
		}
		req.Uploads = append(req.Uploads, upload)
	}

	result, err := api.submissions.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// uploadIndexes returns the upload slots present in the form, in order.
func uploadIndexes(form *multipart.Form) []int {
	seen := map[int]struct{}{}
	collect := func(key, prefix string) {
		if !strings.HasPrefix(key, prefix) {
			return
		}
		if idx, err := strconv.Atoi(strings.TrimPrefix(key, prefix)); err == nil && idx >= 0 {
			seen[idx] = struct{}{}
		}
	}
	for key := range form.File {
		collect(key, uploadFilePrefix)
	}
	for key := range form.Value {
		collect(key, uploadTypePrefix)
	}
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
