package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asmolyar/webpen/internal/server/models"
	"github.com/asmolyar/webpen/internal/server/profiles"
	"github.com/asmolyar/webpen/internal/server/projects"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.users.Register(ctx, req.Username, req.Password); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.writeJSON(ctx, w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := s.projects.ListFor(ctx, caller(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, list)
}

type createProjectRequest struct {
	Name   string `json:"name"`
	HTML   string `json:"html"`
	CSS    string `json:"css"`
	JS     string `json:"js"`
	Public bool   `json:"public"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	id, err := s.projects.Create(ctx, caller(ctx), models.Project{
		Name:   req.Name,
		HTML:   req.HTML,
		CSS:    req.CSS,
		JS:     req.JS,
		Public: req.Public,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.projects.Get(ctx, caller(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, p)
}

type updateProjectRequest struct {
	Name   *string `json:"name"`
	HTML   *string `json:"html"`
	CSS    *string `json:"css"`
	JS     *string `json:"js"`
	Public *bool   `json:"public"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	err := s.projects.Update(ctx, caller(ctx), chi.URLParam(r, "id"), projects.UpdateFields{
		Name:   req.Name,
		HTML:   req.HTML,
		CSS:    req.CSS,
		JS:     req.JS,
		Public: req.Public,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.projects.Delete(ctx, caller(ctx), chi.URLParam(r, "id")); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleViewProject serves the shareable view link. No session and no
// visibility check: knowing the ID grants read access, including to
// unpublished projects.
func (s *Server) handleViewProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.projects.GetPublicByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.profiles.GetPublic(ctx, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, p)
}

type editProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	Bio          *string `json:"bio"`
	AboutMe      *string `json:"about_me"`
	AvatarRef    *string `json:"avatar_ref"`
	GithubHandle *string `json:"github_handle"`
}

func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req editProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	err := s.profiles.Edit(ctx, caller(ctx), profiles.EditFields{
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		AboutMe:      req.AboutMe,
		AvatarRef:    req.AvatarRef,
		GithubHandle: req.GithubHandle,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}
