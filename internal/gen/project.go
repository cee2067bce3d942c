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

var projectTypeWeights = []dist.Weighted[string]{
	{Value: "sprint", Weight: 0.30},
	{Value: "ongoing", Weight: 0.25},
	{Value: "campaign", Weight: 0.15},
	{Value: "bug_tracking", Weight: 0.15},
	{Value: "roadmap", Weight: 0.15},
}

var projectStatusWeights = []dist.Weighted[string]{
	{Value: "planned", Weight: 0.20},
	{Value: "active", Weight: 0.45},
	{Value: "on_hold", Weight: 0.10},
	{Value: "completed", Weight: 0.20},
	{Value: "archived", Weight: 0.05},
}

var projectPriorityWeights = []dist.Weighted[string]{
	{Value: "low", Weight: 0.20},
	{Value: "medium", Weight: 0.45},
	{Value: "high", Weight: 0.25},
	{Value: "critical", Weight: 0.10},
}

type ProjectParams struct {
	Org     domain.Organization
	Teams   []domain.Team
	Members map[string][]string // team id -> member user ids
	PerTeam int
	Now     time.Time
}

type ProjectStats struct {
	ByStatus map[string]int
	ByType   map[string]int
}

// Projects builds each team's project portfolio. Archived teams get
// none. Dates respect created <= start < due, and a completed or
// archived project carries 100% progress and a completion date inside
// the last 40% of its planned window (clamped to now).
func Projects(rng *rand.Rand, p ProjectParams) ([]domain.Project, ProjectStats, error) {
	stats := ProjectStats{ByStatus: map[string]int{}, ByType: map[string]int{}}
	var projects []domain.Project
	for _, team := range p.Teams {
		if team.IsArchived {
			continue
		}
		lo := p.PerTeam / 2
		if lo < 1 {
			lo = 1
		}
		n := dist.IntBetween(rng, lo, p.PerTeam+p.PerTeam/2)
		for i := 0; i < n; i++ {
			proj, err := project(rng, p, team)
			if err != nil {
				return nil, stats, err
			}
			stats.ByStatus[proj.Status]++
			stats.ByType[proj.Type]++
			projects = append(projects, proj)
		}
	}
	return projects, stats, nil
}

func project(rng *rand.Rand, p ProjectParams, team domain.Team) (domain.Project, error) {
	var proj domain.Project
	projType, err := dist.Choice(rng, projectTypeWeights)
	if err != nil {
		return proj, fmt.Errorf("sample project type: %w", err)
	}
	status, err := dist.Choice(rng, projectStatusWeights)
	if err != nil {
		return proj, fmt.Errorf("sample project status: %w", err)
	}
	priority, err := dist.Choice(rng, projectPriorityWeights)
	if err != nil {
		return proj, fmt.Errorf("sample project priority: %w", err)
	}

	created := curve.Between(rng, team.CreatedAt, p.Now)
	start := created.Add(time.Duration(dist.IntBetween(rng, 0, 14)) * 24 * time.Hour)
	due := start.Add(time.Duration(dist.IntBetween(rng, 14, 180)) * 24 * time.Hour)

	owner := team.OwnerID
	if members := p.Members[team.ID]; len(members) > 0 {
		owner = members[rng.IntN(len(members))]
	}

	proj = domain.Project{
		ID:        newID(),
		OrgID:     p.Org.ID,
		TeamID:    team.ID,
		Name:      namegen.ProjectName(rng, projType, team.Name),
		Type:      projType,
		Status:    status,
		Priority:  priority,
		OwnerID:   owner,
		CreatedAt: created,
		StartDate: start,
		DueDate:   due,
	}
	switch status {
	case "planned":
		proj.Progress = 0
	case "active":
		proj.Progress = dist.IntBetween(rng, 10, 80)
	case "on_hold":
		proj.Progress = dist.IntBetween(rng, 10, 70)
	case "completed", "archived":
		proj.Progress = 100
		// Completion lands in the last 40% of the planned window.
		frac := 0.6 + rng.Float64()*0.4
		done := start.Add(time.Duration(frac * float64(due.Sub(start))))
		if done.After(p.Now) {
			done = curve.Between(rng, earlierOf(start, p.Now), p.Now)
		}
		if done.Before(start) {
			done = start
		}
		proj.CompletedAt = &done
	}
	return proj, nil
}
