// Package projects implements project CRUD for the per-user project sets in
// the shared document.
package projects

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/asmolyar/webpen/internal/common"
	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/models"
)

// Store is the slice of the document store this service needs.
type Store interface {
	Load(ctx context.Context) (models.Document, error)
	Update(ctx context.Context, fn func(doc models.Document) error) error
}

type Service struct {
	store  Store
	logger logging.Logger
}

func NewService(store Store, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("module", "projects"),
	}
}

// Summary is the listing shape: identity and visibility, no bodies.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// UpdateFields is a partial update. A nil field keeps the project's current
// value; only explicitly provided fields are overwritten.
type UpdateFields struct {
	Name   *string
	HTML   *string
	CSS    *string
	JS     *string
	Public *bool
}

// Create stores a new project under owner and returns its freshly allocated
// ID. The ID is a random UUID, so collisions are cryptographically
// negligible and deleted IDs are never reissued.
func (s *Service) Create(ctx context.Context, owner string, project models.Project) (string, error) {

	if strings.TrimSpace(project.Name) == "" {
		return "", fmt.Errorf("%w: project name is required", common.ErrValidation)
	}

	id := uuid.NewString()

	err := s.store.Update(ctx, func(doc models.Document) error {
		rec, ok := doc[owner]
		if !ok {
			return common.ErrNotFound
		}
		if rec.Projects == nil {
			rec.Projects = make(map[string]*models.Project)
		}
		p := project
		rec.Projects[id] = &p
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "project created", "owner", owner, "project_id", id)
	return id, nil
}

// Get returns the project with the given ID owned by owner, or
// common.ErrNotFound. Ownership by anyone else is indistinguishable from
// absence.
func (s *Service) Get(ctx context.Context, owner, id string) (models.Project, error) {

	doc, err := s.store.Load(ctx)
	if err != nil {
		return models.Project{}, err
	}

	rec, ok := doc[owner]
	if !ok {
		return models.Project{}, common.ErrNotFound
	}

	p, ok := rec.Projects[id]
	if !ok {
		return models.Project{}, common.ErrNotFound
	}

	return *p, nil
}

// GetPublicByID scans all users' project sets for the ID, regardless of the
// owner and of the public flag: possession of the ID is the access
// capability for the shareable view link. Anyone holding the ID can read the
// project even while it is unpublished.
func (s *Service) GetPublicByID(ctx context.Context, id string) (models.Project, error) {

	doc, err := s.store.Load(ctx)
	if err != nil {
		return models.Project{}, err
	}

	for _, rec := range doc {
		if p, ok := rec.Projects[id]; ok {
			return *p, nil
		}
	}

	return models.Project{}, common.ErrNotFound
}

// Update applies a partial update to an owned project. Omitted fields keep
// their prior value.
func (s *Service) Update(ctx context.Context, owner, id string, fields UpdateFields) error {

	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return fmt.Errorf("%w: project name cannot be empty", common.ErrValidation)
	}

	return s.store.Update(ctx, func(doc models.Document) error {
		rec, ok := doc[owner]
		if !ok {
			return common.ErrNotFound
		}
		p, ok := rec.Projects[id]
		if !ok {
			return common.ErrNotFound
		}

		if fields.Name != nil {
			p.Name = *fields.Name
		}
		if fields.HTML != nil {
			p.HTML = *fields.HTML
		}
		if fields.CSS != nil {
			p.CSS = *fields.CSS
		}
		if fields.JS != nil {
			p.JS = *fields.JS
		}
		if fields.Public != nil {
			p.Public = *fields.Public
		}
		return nil
	})
}

// Delete removes an owned project. The ID is never reused afterwards.
func (s *Service) Delete(ctx context.Context, owner, id string) error {

	err := s.store.Update(ctx, func(doc models.Document) error {
		rec, ok := doc[owner]
		if !ok {
			return common.ErrNotFound
		}
		if _, ok := rec.Projects[id]; !ok {
			return common.ErrNotFound
		}
		delete(rec.Projects, id)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "project deleted", "owner", owner, "project_id", id)
	return nil
}

// ListFor returns summaries of every project owned by owner, sorted by name
// (case-insensitive) for a stable dashboard order.
func (s *Service) ListFor(ctx context.Context, owner string) ([]Summary, error) {

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := doc[owner]
	if !ok {
		return nil, common.ErrNotFound
	}

	summaries := make([]Summary, 0, len(rec.Projects))
	for id, p := range rec.Projects {
		summaries = append(summaries, Summary{ID: id, Name: p.Name, Public: p.Public})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := strings.ToLower(summaries[i].Name), strings.ToLower(summaries[j].Name)
		if a != b {
			return a < b
		}
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}
