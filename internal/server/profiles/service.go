// Package profiles implements the public profile read and the owner-side
// profile edit.
package profiles

import (
	"context"
	"sort"
	"strings"

	"github.com/asmolyar/webpen/internal/common"
	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/models"
	"github.com/asmolyar/webpen/internal/server/stats"
)

// Store is the slice of the document store this service needs.
type Store interface {
	Load(ctx context.Context) (models.Document, error)
	Update(ctx context.Context, fn func(doc models.Document) error) error
}

type Service struct {
	store   Store
	fetcher stats.Fetcher
	logger  logging.Logger
}

// NewService builds the profile service. fetcher may be nil, in which case
// stats are always reported unavailable.
func NewService(store Store, fetcher stats.Fetcher, logger logging.Logger) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		logger:  logger.With("module", "profiles"),
	}
}

// ProjectListing is one public project on a profile page.
type ProjectListing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublicProfile is everything shown on a user's public page. Unset profile
// fields are substituted with their defaults; only public projects are
// listed.
type PublicProfile struct {
	Username     string           `json:"username"`
	DisplayName  string           `json:"display_name"`
	Bio          string           `json:"bio"`
	AboutMe      string           `json:"about_me"`
	AvatarRef    string           `json:"avatar_ref"`
	GithubHandle string           `json:"github_handle,omitempty"`
	ProjectCount int              `json:"project_count"`
	Projects     []ProjectListing `json:"projects"`
	Stats        stats.Stats      `json:"stats"`
}

// EditFields is a partial profile update; nil fields are left untouched.
type EditFields struct {
	DisplayName  *string
	Bio          *string
	AboutMe      *string
	AvatarRef    *string
	GithubHandle *string
}

// GetPublic assembles the public view of a user's profile: display fields
// with defaults, the name-sorted list of public projects, and, when a GitHub
// handle is linked, best-effort stats. A failed or slow stats lookup marks
// the stats unavailable and never fails the read.
func (s *Service) GetPublic(ctx context.Context, username string) (*PublicProfile, error) {

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := doc[username]
	if !ok {
		return nil, common.ErrNotFound
	}

	p := &PublicProfile{
		Username:     username,
		DisplayName:  rec.Profile.DisplayName,
		Bio:          rec.Profile.Bio,
		AboutMe:      rec.Profile.AboutMe,
		AvatarRef:    rec.Profile.AvatarRef,
		GithubHandle: rec.Profile.GithubHandle,
	}
	if p.DisplayName == "" {
		p.DisplayName = username
	}

	p.Projects = make([]ProjectListing, 0)
	for id, project := range rec.Projects {
		if project.Public {
			p.Projects = append(p.Projects, ProjectListing{ID: id, Name: project.Name})
		}
	}
	sort.Slice(p.Projects, func(i, j int) bool {
		a, b := strings.ToLower(p.Projects[i].Name), strings.ToLower(p.Projects[j].Name)
		if a != b {
			return a < b
		}
		return p.Projects[i].ID < p.Projects[j].ID
	})
	p.ProjectCount = len(p.Projects)

	if rec.Profile.GithubHandle != "" && s.fetcher != nil {
		p.Stats = s.fetcher.Fetch(ctx, rec.Profile.GithubHandle)
	}

	return p, nil
}

// Edit applies a partial update to the user's own profile fields. The API
// layer guarantees the caller is the profile owner.
func (s *Service) Edit(ctx context.Context, username string, fields EditFields) error {

	return s.store.Update(ctx, func(doc models.Document) error {
		rec, ok := doc[username]
		if !ok {
			return common.ErrNotFound
		}

		if fields.DisplayName != nil {
			rec.Profile.DisplayName = *fields.DisplayName
		}
		if fields.Bio != nil {
			rec.Profile.Bio = *fields.Bio
		}
		if fields.AboutMe != nil {
			rec.Profile.AboutMe = *fields.AboutMe
		}
		if fields.AvatarRef != nil {
			rec.Profile.AvatarRef = *fields.AvatarRef
		}
		if fields.GithubHandle != nil {
			rec.Profile.GithubHandle = *fields.GithubHandle
		}
		return nil
	})
}
