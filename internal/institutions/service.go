package institutions

import (
	"context"

	"github.com/goliatone/go-sitecms/internal/content"
)

// Listing is a directory page plus the facets needed to render filters.
type Listing struct {
	Filter Filter           `json:"-"`
	Result ResultPage       `json:"result"`
	Unions []string         `json:"unions"`
	Counts map[Category]int `json:"counts"`
}

// ResultPage mirrors query.Result for JSON responses.
type ResultPage struct {
	Items      []Institution `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// Service serves the directory from public page content.
type Service struct {
	pages content.PublicService
}

func NewService(pages content.PublicService) *Service {
	return &Service{pages: pages}
}

// Catalog loads the current directory content. Content outages yield an
// empty catalog.
func (s *Service) Catalog(ctx context.Context) Catalog {
	return Assemble(s.pages.LoadPage(ctx, PageSlug))
}

// List runs filter against the current catalog.
func (s *Service) List(ctx context.Context, filter Filter) Listing {
	catalog := s.Catalog(ctx)
	res := catalog.Query(filter)
	return Listing{
		Filter: filter,
		Result: ResultPage{
			Items:      res.Items,
			Total:      res.Total,
			Page:       res.Page,
			PageSize:   res.PageSize,
			TotalPages: res.TotalPages,
		},
		Unions: catalog.Unions(),
		Counts: catalog.Counts(),
	}
}
