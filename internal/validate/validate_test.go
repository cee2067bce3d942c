package validate

import (
	"context"
	"testing"
	"time"

	"orgforge/internal/db"
	"orgforge/internal/domain"
	"orgforge/internal/migrate"
	"orgforge/internal/repo"
)

func testRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}
}

func seedBase(t *testing.T, r repo.Repo) (domain.Project, domain.User) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	org := domain.Organization{ID: "org-1", Name: "TeamFlow", Domain: "teamflow.app", Industry: "Collaboration", EmployeeCount: 10, CreatedAt: now.AddDate(-2, 0, 0)}
	if err := r.InsertOrganization(ctx, org); err != nil {
		t.Fatalf("insert org: %v", err)
	}
	user := domain.User{ID: "u-1", OrgID: org.ID, Email: "a.b@teamflow.app", Name: "A B", Role: "admin",
		Department: "Engineering", JobTitle: "Engineer", Timezone: "UTC", CreatedAt: org.CreatedAt, IsActive: true}
	if err := r.InsertUsers(ctx, []domain.User{user}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	team := domain.Team{ID: "t-1", OrgID: org.ID, Name: "Platform", Type: "department", OwnerID: user.ID, CreatedAt: org.CreatedAt, MemberCount: 1}
	if err := r.InsertTeams(ctx, []domain.Team{team}); err != nil {
		t.Fatalf("insert team: %v", err)
	}
	project := domain.Project{ID: "p-1", OrgID: org.ID, TeamID: team.ID, Name: "Platform Sprint 1",
		Type: "sprint", Status: "active", Priority: "medium", Progress: 50, OwnerID: user.ID,
		CreatedAt: org.CreatedAt, StartDate: org.CreatedAt, DueDate: org.CreatedAt.AddDate(0, 1, 0)}
	if err := r.InsertProjects(ctx, []domain.Project{project}); err != nil {
		t.Fatalf("insert project: %v", err)
	}
	return project, user
}

func checkByName(t *testing.T, res Result, name string) Check {
	t.Helper()
	for _, c := range res.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s missing from result", name)
	return Check{}
}

func TestRunFlagsTemporalViolation(t *testing.T) {
	r := testRepo(t)
	project, user := seedBase(t, r)

	created := project.CreatedAt.AddDate(0, 0, 10)
	before := created.AddDate(0, 0, -3)
	bad := domain.Task{ID: "task-1", ProjectID: project.ID, CreatorID: user.ID, Name: "Fix login flow",
		Completed: true, CreatedAt: created, CompletedAt: &before}
	if err := r.InsertTasks(context.Background(), []domain.Task{bad}); err != nil {
		t.Fatalf("insert task: %v", err)
	}

	res, err := Run(context.Background(), r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Passed {
		t.Fatal("expected a failed consistency pass")
	}
	c := checkByName(t, res, "task_completion_after_creation")
	if c.Passed {
		t.Fatalf("temporal check passed despite violation: %s", c.Detail)
	}
}

func TestRunFlagsFutureCompletion(t *testing.T) {
	r := testRepo(t)
	project, user := seedBase(t, r)

	created := project.CreatedAt.AddDate(0, 0, 10)
	// After creation, so the plain temporal check cannot catch it.
	future := time.Now().UTC().AddDate(1, 0, 0)
	task := domain.Task{ID: "task-3", ProjectID: project.ID, CreatorID: user.ID, Name: "Audit permissions model",
		Completed: true, CreatedAt: created, CompletedAt: &future}
	if err := r.InsertTasks(context.Background(), []domain.Task{task}); err != nil {
		t.Fatalf("insert task: %v", err)
	}

	res, err := Run(context.Background(), r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c := checkByName(t, res, "task_completion_after_creation"); !c.Passed {
		t.Fatalf("plain temporal check flagged a forward-dated completion: %s", c.Detail)
	}
	c := checkByName(t, res, "task_completion_not_in_future")
	if c.Passed {
		t.Fatalf("future completion not flagged: %s", c.Detail)
	}
	if res.Passed {
		t.Fatal("expected a failed consistency pass")
	}
}

func TestRunFlagsMissingCompletionStory(t *testing.T) {
	r := testRepo(t)
	project, user := seedBase(t, r)
	ctx := context.Background()

	created := project.CreatedAt.AddDate(0, 0, 5)
	done := created.AddDate(0, 0, 2)
	task := domain.Task{ID: "task-2", ProjectID: project.ID, CreatorID: user.ID, Name: "Ship release pipeline",
		Completed: true, CreatedAt: created, CompletedAt: &done}
	if err := r.InsertTasks(ctx, []domain.Task{task}); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	// Feed exists but the last entry is not the completion story.
	stories := []domain.Story{
		{ID: "s-1", TaskID: task.ID, ActorID: user.ID, Type: "created", Text: "created task", CreatedAt: created},
		{ID: "s-2", TaskID: task.ID, ActorID: user.ID, Type: "updated", Text: "updated task", CreatedAt: done},
	}
	if err := r.InsertStories(ctx, stories); err != nil {
		t.Fatalf("insert stories: %v", err)
	}

	res, err := Run(ctx, r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	c := checkByName(t, res, "completed_task_final_story")
	if c.Passed {
		t.Fatalf("story check passed despite missing completion story: %s", c.Detail)
	}
}

func TestRunPassesOnCleanStore(t *testing.T) {
	r := testRepo(t)
	seedBase(t, r)
	res, err := Run(context.Background(), r)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Passed {
		t.Fatalf("clean store failed: %+v", res.Checks)
	}
	if res.FailedCount != 0 {
		t.Fatalf("failed count %d on clean store", res.FailedCount)
	}
}
