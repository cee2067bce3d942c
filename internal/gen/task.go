package gen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"orgforge/internal/curve"
	"orgforge/internal/dist"
	"orgforge/internal/domain"
	"orgforge/internal/namegen"
)

// completionRate is the chance a task in a project of the given status
// is already done.
var completionRate = map[string]float64{
	"planned":   0.05,
	"active":    0.40,
	"on_hold":   0.30,
	"completed": 0.90,
	"archived":  0.85,
}

const assigneeRate = 0.90

type TaskParams struct {
	Projects []domain.Project
	Members  map[string][]string // team id -> member user ids
	Users    []domain.User       // fallback pool for teams without members
	Total    int
	Now      time.Time
}

type TaskStats struct {
	Completed int
	Assigned  int
}

// Tasks spreads the task pool across projects. Each task is created
// inside its project's window (never after now), creator and assignee
// come from the owning team, and completion likelihood tracks the
// project's status.
func Tasks(rng *rand.Rand, p TaskParams) ([]domain.Task, TaskStats, error) {
	var stats TaskStats
	if len(p.Projects) == 0 {
		return nil, stats, fmt.Errorf("task generation needs at least one project")
	}
	if len(p.Users) == 0 {
		return nil, stats, fmt.Errorf("task generation needs a non-empty user pool")
	}
	tasks := make([]domain.Task, 0, p.Total)
	for i := 0; i < p.Total; i++ {
		proj := p.Projects[rng.IntN(len(p.Projects))]
		pool := p.Members[proj.TeamID]
		pick := func() string {
			if len(pool) > 0 {
				return pool[rng.IntN(len(pool))]
			}
			return p.Users[rng.IntN(len(p.Users))].ID
		}

		windowEnd := earlierOf(proj.DueDate, p.Now)
		created := curve.Between(rng, earlierOf(proj.CreatedAt, windowEnd), windowEnd)

		t := domain.Task{
			ID:        newID(),
			ProjectID: proj.ID,
			CreatorID: pick(),
			Name:      namegen.TaskName(rng),
			CreatedAt: created,
		}
		if dist.Bernoulli(rng, assigneeRate) {
			id := pick()
			t.AssigneeID = &id
			stats.Assigned++
		}
		// Tasks created within the last hour stay open: completion
		// draws from [created+1h, now], which keeps the activity feed
		// strictly ordered at second precision and never places a
		// completion after now.
		if dist.Bernoulli(rng, completionRate[proj.Status]) && p.Now.Sub(created) >= time.Hour {
			done := curve.Between(rng, created.Add(time.Hour), p.Now)
			t.Completed = true
			t.CompletedAt = &done
			stats.Completed++
		}
		tasks = append(tasks, t)
	}
	return tasks, stats, nil
}
