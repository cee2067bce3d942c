// Package engine orchestrates a generation run: it derives one random
// sub-stream per stage from the run seed, executes the stages in
// dependency order, persists each stage in a single batched insert, and
// finishes with the consistency pass.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"orgforge/internal/config"
	"orgforge/internal/domain"
	"orgforge/internal/gen"
	"orgforge/internal/namegen"
	"orgforge/internal/repo"
	"orgforge/internal/text"
	"orgforge/internal/validate"
)

// Stage stream offsets. Each stage draws from its own PCG stream so a
// change in one stage's draw count cannot shift any other stage's
// output for the same seed.
const (
	streamOrg = iota + 1
	streamUsers
	streamTeams
	streamProjects
	streamTasks
	streamCustomFields
	streamComments
	streamStories
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Config *config.Config
	Logger zerolog.Logger

	// Now is the run's reference time; defaults to time.Now.
	Now func() time.Time
	// Companies overrides the identity pool (scraper result); the
	// embedded catalog is used when empty.
	Companies []namegen.Company
	// TextSource produces comment bodies; defaults to the local source.
	TextSource text.Source
}

type RunResult struct {
	Counts     map[string]int
	Validation validate.Result
	Elapsed    time.Duration
}

func (e *Engine) stream(offset uint64) *rand.Rand {
	return rand.New(rand.NewPCG(e.Config.Seed, offset))
}

func (e *Engine) Run(ctx context.Context) (RunResult, error) {
	started := time.Now()
	res := RunResult{Counts: map[string]int{}}

	nowFn := e.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC().Truncate(time.Second)

	companies := e.Companies
	if len(companies) == 0 {
		companies = namegen.Companies()
	}
	source := e.TextSource
	if source == nil {
		source = text.Local{}
	}
	cfg := e.Config

	orgRNG := e.stream(streamOrg)
	org := gen.Organization(orgRNG, gen.OrgParams{
		Company:      companies[orgRNG.IntN(len(companies))],
		EmployeesMin: cfg.Dataset.Employees.Min,
		EmployeesMax: cfg.Dataset.Employees.Max,
		AgeMonthsMin: cfg.Dataset.OrgAgeMonths.Min,
		AgeMonthsMax: cfg.Dataset.OrgAgeMonths.Max,
		Now:          now,
	})
	if err := e.Repo.InsertOrganization(ctx, org); err != nil {
		return res, fmt.Errorf("organization stage: %w", err)
	}
	res.Counts["organizations"] = 1
	e.Logger.Info().Str("name", org.Name).Int("employees", org.EmployeeCount).
		Time("founded", org.CreatedAt).Msg("organization generated")

	users, userStats, err := gen.Users(e.stream(streamUsers), gen.UserParams{
		Org: org, Count: org.EmployeeCount, FoundingCohort: cfg.Dataset.FoundingCohort, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("user stage: %w", err)
	}
	if err := e.Repo.InsertUsers(ctx, users); err != nil {
		return res, fmt.Errorf("user stage: %w", err)
	}
	res.Counts["users"] = len(users)
	e.Logger.Info().Int("count", len(users)).Int("active", userStats.Active).
		Interface("by_role", userStats.ByRole).Msg("users generated")

	teamTarget := len(users) / cfg.Ratios.UsersPerTeam
	if teamTarget < 1 {
		teamTarget = 1
	}
	teams, memberships, teamStats, err := gen.Teams(e.stream(streamTeams), gen.TeamParams{
		Org: org, Users: users, Target: teamTarget, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("team stage: %w", err)
	}
	if err := e.Repo.InsertTeams(ctx, teams); err != nil {
		return res, fmt.Errorf("team stage: %w", err)
	}
	if err := e.Repo.InsertTeamMemberships(ctx, memberships); err != nil {
		return res, fmt.Errorf("team stage: %w", err)
	}
	res.Counts["teams"] = len(teams)
	res.Counts["team_members"] = len(memberships)
	e.Logger.Info().Int("count", len(teams)).Int("memberships", len(memberships)).
		Int("department", teamStats.Department).Int("freeform", teamStats.Freeform).Msg("teams generated")

	members := map[string][]string{}
	for _, m := range memberships {
		members[m.TeamID] = append(members[m.TeamID], m.UserID)
	}

	projects, projStats, err := gen.Projects(e.stream(streamProjects), gen.ProjectParams{
		Org: org, Teams: teams, Members: members, PerTeam: cfg.Ratios.ProjectsPerTeam, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("project stage: %w", err)
	}
	if err := e.Repo.InsertProjects(ctx, projects); err != nil {
		return res, fmt.Errorf("project stage: %w", err)
	}
	res.Counts["projects"] = len(projects)
	e.Logger.Info().Int("count", len(projects)).Interface("by_status", projStats.ByStatus).Msg("projects generated")

	taskTotal := len(users) * cfg.Ratios.TasksPerUser
	tasks, taskStats, err := gen.Tasks(e.stream(streamTasks), gen.TaskParams{
		Projects: projects, Members: members, Users: users, Total: taskTotal, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("task stage: %w", err)
	}
	if err := e.Repo.InsertTasks(ctx, tasks); err != nil {
		return res, fmt.Errorf("task stage: %w", err)
	}
	res.Counts["tasks"] = len(tasks)
	e.Logger.Info().Int("count", len(tasks)).Int("completed", taskStats.Completed).
		Int("assigned", taskStats.Assigned).Msg("tasks generated")

	grouped := make(map[string][]domain.Task, len(projects))
	for _, task := range tasks {
		grouped[task.ProjectID] = append(grouped[task.ProjectID], task)
	}
	defs, vals := gen.CustomFields(e.stream(streamCustomFields), gen.CustomFieldParams{
		Projects: projects, TasksByProject: grouped,
	})
	if err := e.Repo.InsertCustomFieldDefs(ctx, defs); err != nil {
		return res, fmt.Errorf("custom field stage: %w", err)
	}
	if err := e.Repo.InsertCustomFieldValues(ctx, vals); err != nil {
		return res, fmt.Errorf("custom field stage: %w", err)
	}
	res.Counts["custom_field_defs"] = len(defs)
	res.Counts["custom_field_values"] = len(vals)
	e.Logger.Info().Int("definitions", len(defs)).Int("values", len(vals)).Msg("custom fields generated")

	userNames := make(map[string]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}
	projNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projNames[p.ID] = p.Name
	}
	comments, commentStats, err := gen.Comments(ctx, e.stream(streamComments), gen.CommentParams{
		Tasks: tasks, Users: users, UserNames: userNames, ProjectNames: projNames,
		Source: source, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("comment stage: %w", err)
	}
	if err := e.Repo.InsertComments(ctx, comments); err != nil {
		return res, fmt.Errorf("comment stage: %w", err)
	}
	res.Counts["comments"] = len(comments)
	if commentStats.SourceFailures > 0 {
		e.Logger.Warn().Int("fallbacks", commentStats.SourceFailures).Msg("remote text source failed for some comments")
	}
	e.Logger.Info().Int("count", len(comments)).Msg("comments generated")

	storyTarget := int(float64(len(tasks)) * cfg.Ratios.StoriesPerTask)
	stories, storyStats, err := gen.Stories(e.stream(streamStories), gen.StoryParams{
		Tasks: tasks, Users: users, Target: storyTarget, Now: now,
	})
	if err != nil {
		return res, fmt.Errorf("story stage: %w", err)
	}
	if err := e.Repo.InsertStories(ctx, stories); err != nil {
		return res, fmt.Errorf("story stage: %w", err)
	}
	res.Counts["stories"] = len(stories)
	e.Logger.Info().Int("count", len(stories)).Int("tasks_covered", storyStats.TasksCovered).
		Interface("by_type", storyStats.ByType).Msg("stories generated")

	validation, err := validate.Run(ctx, e.Repo)
	if err != nil {
		return res, fmt.Errorf("consistency pass: %w", err)
	}
	res.Validation = validation
	for _, c := range validation.Checks {
		ev := e.Logger.Info()
		if !c.Passed {
			ev = e.Logger.Warn()
		}
		ev.Str("check", c.Name).Str("severity", string(c.Severity)).Bool("passed", c.Passed).
			Str("detail", c.Detail).Msg("consistency check")
	}

	res.Elapsed = time.Since(started)
	e.Logger.Info().Dur("elapsed", res.Elapsed).Bool("consistent", validation.Passed).Msg("run complete")
	return res, nil
}
