package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/submissions"
)

// AdminAPI registers the dashboard endpoints. Every route requires a bearer
// token of a user holding the admin role.
type AdminAPI struct {
	basePath    string
	verifier    *auth.Verifier
	content     content.AdminService
	registry    *sections.Registry
	submissions submissions.Service
	contact     contact.Service
	media       media.Library
	users       identity.Service
	commands    *sitecmd.HandlerSet
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithVerifier(verifier *auth.Verifier) AdminOption {
	return func(api *AdminAPI) {
		api.verifier = verifier
	}
}

func WithContentAdmin(service content.AdminService) AdminOption {
	return func(api *AdminAPI) {
		api.content = service
	}
}

func WithSectionRegistry(registry *sections.Registry) AdminOption {
	return func(api *AdminAPI) {
		api.registry = registry
	}
}

func WithSubmissionAdmin(service submissions.Service) AdminOption {
	return func(api *AdminAPI) {
		api.submissions = service
	}
}

func WithContactAdmin(service contact.Service) AdminOption {
	return func(api *AdminAPI) {
		api.contact = service
	}
}

func WithMediaLibrary(library media.Library) AdminOption {
	return func(api *AdminAPI) {
		api.media = library
	}
}

func WithUserService(service identity.Service) AdminOption {
	return func(api *AdminAPI) {
		api.users = service
	}
}

// WithCommands routes status, read flag and reload actions through the
// command handlers.
func WithCommands(set *sitecmd.HandlerSet) AdminOption {
	return func(api *AdminAPI) {
		api.commands = set
	}
}

// Register attaches the admin endpoints to mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}
	if api.verifier == nil || api.users == nil {
		return fmt.Errorf("http: admin api requires a token verifier and the user service")
	}

	base := joinPath(api.basePath, "")
	api.registerContentRoutes(mux, base)
	api.registerSubmissionRoutes(mux, base)
	api.registerMessageRoutes(mux, base)
	api.registerMediaRoutes(mux, base)
	api.registerUserRoutes(mux, base)
	return nil
}

func (api *AdminAPI) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	authn := auth.Middleware(api.verifier, writeAuthError)
	authz := auth.RequireAdmin(api.users, writeAuthError)
	mux.Handle(pattern, authn(authz(handler)))
}

func unavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
}
