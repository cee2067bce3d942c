// Package server exposes a read-only HTTP API over a generated dataset,
// for browsing the output without opening the SQLite file by hand.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"orgforge/internal/domain"
	"orgforge/internal/repo"
	"orgforge/internal/validate"
)

// Config for the HTTP API handler.
type Config struct {
	Repo     repo.Repo
	BasePath string
}

type pageInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500"`
	Offset int `query:"offset" default:"0" minimum:"0"`
}

// New returns the inspector API handler.
func New(cfg Config) http.Handler {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("orgforge dataset API", "0.1.0")
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerStats(group, cfg.Repo)
	registerValidation(group, cfg.Repo)
	registerOrganization(group, cfg.Repo)
	registerUsers(group, cfg.Repo)
	registerTeams(group, cfg.Repo)
	registerProjects(group, cfg.Repo)
	registerStories(group, cfg.Repo)

	return router
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerStats(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Dataset statistics",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body repo.Statistics `json:"body"`
	}, error) {
		stats, err := r.Statistics(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("read statistics", err)
		}
		return &struct {
			Body repo.Statistics `json:"body"`
		}{Body: stats}, nil
	})
}

func registerValidation(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "validation",
		Method:      http.MethodGet,
		Path:        "/validation",
		Summary:     "Run the consistency pass",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body validate.Result `json:"body"`
	}, error) {
		res, err := validate.Run(ctx, r)
		if err != nil {
			return nil, huma.Error500InternalServerError("consistency pass", err)
		}
		return &struct {
			Body validate.Result `json:"body"`
		}{Body: res}, nil
	})
}

func registerOrganization(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "get-organization",
		Method:      http.MethodGet,
		Path:        "/organization",
		Summary:     "The generated organization",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.Organization `json:"body"`
	}, error) {
		org, err := r.Organization(ctx)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, huma.Error404NotFound("no dataset generated yet")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("read organization", err)
		}
		return &struct {
			Body domain.Organization `json:"body"`
		}{Body: org}, nil
	})
}

func registerUsers(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
	}, func(ctx context.Context, input *pageInput) (*struct {
		Body []domain.User `json:"body"`
	}, error) {
		users, err := r.ListUsers(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("list users", err)
		}
		return &struct {
			Body []domain.User `json:"body"`
		}{Body: users}, nil
	})
}

func registerTeams(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-teams",
		Method:      http.MethodGet,
		Path:        "/teams",
		Summary:     "List teams",
	}, func(ctx context.Context, input *pageInput) (*struct {
		Body []domain.Team `json:"body"`
	}, error) {
		teams, err := r.ListTeams(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("list teams", err)
		}
		return &struct {
			Body []domain.Team `json:"body"`
		}{Body: teams}, nil
	})
}

func registerProjects(api huma.API, r repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
	}, func(ctx context.Context, input *pageInput) (*struct {
		Body []domain.Project `json:"body"`
	}, error) {
		projects, err := r.ListProjects(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("list projects", err)
		}
		return &struct {
			Body []domain.Project `json:"body"`
		}{Body: projects}, nil
	})
}

func registerStories(api huma.API, r repo.Repo) {
	type taskPath struct {
		TaskID string `path:"task_id"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "list-task-stories",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}/stories",
		Summary:     "A task's activity feed",
	}, func(ctx context.Context, input *taskPath) (*struct {
		Body []domain.Story `json:"body"`
	}, error) {
		if _, err := r.GetTask(ctx, input.TaskID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("read task", err)
		}
		stories, err := r.ListStoriesByTask(ctx, input.TaskID)
		if err != nil {
			return nil, huma.Error500InternalServerError("list stories", err)
		}
		return &struct {
			Body []domain.Story `json:"body"`
		}{Body: stories}, nil
	})
}
