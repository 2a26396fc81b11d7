package sitecms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/institutions"
	"github.com/goliatone/go-sitecms/internal/media"
	"github.com/goliatone/go-sitecms/internal/seed"
	"github.com/goliatone/go-sitecms/internal/submissions"
)

// PageContentService exports the public page content contract.
type PageContentService = content.PublicService

// ContentAdminService exports the admin page content contract.
type ContentAdminService = content.AdminService

// InstitutionService exports the institutions directory.
type InstitutionService = *institutions.Service

// SubmissionService exports the application form contract.
type SubmissionService = submissions.Service

// ContactService exports the contact inbox contract.
type ContactService = contact.Service

// MediaLibrary exports the media library contract.
type MediaLibrary = media.Library

// UserService exports the admin user management contract.
type UserService = identity.Service

// Module represents the top level site runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a site module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the public page content service.
func (m *Module) Pages() PageContentService {
	return m.container.PageService()
}

// ContentAdmin returns the admin page content service.
func (m *Module) ContentAdmin() ContentAdminService {
	return m.container.ContentAdmin()
}

// Institutions returns the institutions directory.
func (m *Module) Institutions() InstitutionService {
	return m.container.InstitutionService()
}

// Submissions returns the application form service.
func (m *Module) Submissions() SubmissionService {
	return m.container.SubmissionService()
}

// Contact returns the contact inbox.
func (m *Module) Contact() ContactService {
	return m.container.ContactService()
}

// Media returns the media library.
func (m *Module) Media() MediaLibrary {
	return m.container.MediaLibrary()
}

// Users returns the admin user service.
func (m *Module) Users() UserService {
	return m.container.UserService()
}

// Importer returns the markdown seed importer.
func (m *Module) Importer(opts ...seed.Option) *seed.Importer {
	return m.container.Importer(opts...)
}

// Handler returns the HTTP routes of the site backend.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
