package gen

import (
	"testing"
	"time"

	"orgforge/internal/domain"
)

func genTasks(t *testing.T, total int) ([]domain.Task, []domain.Project, []domain.User) {
	t.Helper()
	users := genUsers(t, 6, 800)
	teams, memberships := genTeams(t, users, 40)
	members := map[string][]string{}
	for _, m := range memberships {
		members[m.TeamID] = append(members[m.TeamID], m.UserID)
	}
	projects, _, err := Projects(testRNG(31), ProjectParams{
		Org: testOrg(), Teams: teams, Members: members, PerTeam: 6, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	tasks, _, err := Tasks(testRNG(32), TaskParams{
		Projects: projects, Members: members, Users: users, Total: total, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	return tasks, projects, users
}

func TestTasksTemporalInvariants(t *testing.T) {
	tasks, projects, _ := genTasks(t, 3000)
	projByID := map[string]domain.Project{}
	for _, p := range projects {
		projByID[p.ID] = p
	}
	for _, task := range tasks {
		proj, ok := projByID[task.ProjectID]
		if !ok {
			t.Fatalf("task %s references unknown project %s", task.ID, task.ProjectID)
		}
		if task.CreatedAt.After(testNow) {
			t.Fatalf("task created in the future: %v", task.CreatedAt)
		}
		if task.CreatedAt.Before(proj.CreatedAt) {
			t.Fatalf("task created %v before project %v", task.CreatedAt, proj.CreatedAt)
		}
		if task.Completed {
			if task.CompletedAt == nil {
				t.Fatal("completed task without completion date")
			}
			if !task.CompletedAt.After(task.CreatedAt) {
				t.Fatalf("task completed %v not after created %v", task.CompletedAt, task.CreatedAt)
			}
		} else if task.CompletedAt != nil {
			t.Fatal("open task has completion date")
		}
	}
}

// A project created at (or just before) the run's reference time must
// never yield tasks that complete in the future, even though its whole
// creation window touches now.
func TestTasksNeverCompleteAfterNow(t *testing.T) {
	users := genUsers(t, 8, 100)
	mkProject := func(id string, created time.Time) domain.Project {
		return domain.Project{
			ID: id, OrgID: "org-1", TeamID: "team-1", Name: "Platform Sprint 1",
			Type: "sprint", Status: "completed", Priority: "medium", Progress: 100,
			OwnerID: users[0].ID, CreatedAt: created, StartDate: created,
			DueDate: created.AddDate(0, 0, 30),
		}
	}
	projects := []domain.Project{
		mkProject("p-at-now", testNow),
		mkProject("p-near-now", testNow.Add(-30*time.Minute)),
		mkProject("p-old", testNow.AddDate(0, -6, 0)),
	}
	tasks, stats, err := Tasks(testRNG(33), TaskParams{
		Projects: projects, Members: map[string][]string{}, Users: users, Total: 600, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	for _, task := range tasks {
		if task.CompletedAt == nil {
			continue
		}
		if task.CompletedAt.After(testNow) {
			t.Fatalf("task in project %s completed at %v, after %v", task.ProjectID, task.CompletedAt, testNow)
		}
		if task.CompletedAt.Sub(task.CreatedAt) < time.Hour {
			t.Fatalf("task completed %v within an hour of creation %v", task.CompletedAt, task.CreatedAt)
		}
	}
	if stats.Completed == 0 {
		t.Fatal("no completions at all; the old project should still complete tasks")
	}
}

func TestTasksAssignmentRate(t *testing.T) {
	tasks, _, users := genTasks(t, 5000)
	known := map[string]bool{}
	for _, u := range users {
		known[u.ID] = true
	}
	assigned := 0
	for _, task := range tasks {
		if task.AssigneeID != nil {
			assigned++
			if !known[*task.AssigneeID] {
				t.Fatalf("task assigned to unknown user %s", *task.AssigneeID)
			}
		}
		if !known[task.CreatorID] {
			t.Fatalf("task created by unknown user %s", task.CreatorID)
		}
	}
	rate := float64(assigned) / float64(len(tasks))
	if rate < 0.87 || rate > 0.93 {
		t.Fatalf("assignment rate %.3f, want ~0.90", rate)
	}
}
