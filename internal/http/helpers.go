package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/objectstore"
	"github.com/goliatone/go-sitecms/internal/submissions"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
	Notice  *content.Notice              `json:"notice,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

// writeAuthError adapts writeError to auth.ErrorWriter.
func writeAuthError(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, err)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var (
		contentNotFound     *content.NotFoundError
		contactNotFound     *contact.NotFoundError
		submissionsNotFound *submissions.NotFoundError
		userNotFound        *identity.NotFoundError
	)
	if errors.As(err, &contentNotFound) ||
		errors.As(err, &contactNotFound) ||
		errors.As(err, &submissionsNotFound) ||
		errors.As(err, &userNotFound) ||
		errors.Is(err, content.ErrRecordNotFound) ||
		errors.Is(err, contact.ErrMessageNotFound) ||
		errors.Is(err, submissions.ErrSubmissionNotFound) ||
		errors.Is(err, submissions.ErrFileNotFound) ||
		errors.Is(err, identity.ErrUserNotFound) ||
		errors.Is(err, media.ErrFileNotFound) ||
		errors.Is(err, objectstore.ErrObjectNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	if errors.Is(err, identity.ErrForbidden) ||
		errors.Is(err, auth.ErrForbidden) ||
		goerrors.IsCategory(err, goerrors.CategoryAuthz) {
		return http.StatusForbidden, errorResponse{Error: "forbidden", Message: err.Error()}
	}

	if goerrors.IsCategory(err, goerrors.CategoryAuth) {
		return http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: err.Error()}
	}

	if errors.Is(err, content.ErrVersionConflict) || errors.Is(err, content.ErrSectionExists) {
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	}

	if errors.Is(err, validation.ErrSchemaInvalid) || errors.Is(err, validation.ErrSchemaValidation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, media.ErrFileTooLarge) || errors.Is(err, submissions.ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{Error: "too_large", Message: err.Error()}
	}

	if errors.Is(err, submissions.ErrAllUploadsFailed) {
		return http.StatusBadGateway, errorResponse{Error: "upload_failed", Message: err.Error()}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) ||
		errors.Is(err, content.ErrSectionNotAllowed) ||
		errors.Is(err, content.ErrEmptyUpdate) ||
		errors.Is(err, submissions.ErrNoValidUploads) ||
		errors.Is(err, submissions.ErrInvalidStatus) ||
		errors.Is(err, submissions.ErrInvalidFormType) ||
		errors.Is(err, identity.ErrSelfDeletion) ||
		errors.Is(err, identity.ErrInvalidRole) ||
		errors.Is(err, media.ErrNameRequired) ||
		errors.Is(err, media.ErrEmptyUpload) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
			Issues:  fieldIssues(err),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

// fieldIssues flattens ozzo validation errors into issues keyed by field.
func fieldIssues(err error) []validation.ValidationIssue {
	var fields ozzo.Errors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	issues := make([]validation.ValidationIssue, 0, len(keys))
	for _, key := range keys {
		if fields[key] == nil {
			continue
		}
		issues = append(issues, validation.ValidationIssue{Location: "/" + key, Message: fields[key].Error()})
	}
	return issues
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntQuery(value string, defaultValue int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// callerID returns the authenticated user of r, or uuid.Nil.
func callerID(r *http.Request) uuid.UUID {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return principal.UserID
}
