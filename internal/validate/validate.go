// Package validate runs the read-only consistency pass over a generated
// dataset. It reports, never mutates, and never aborts a run: a failed
// check is a warning for the operator, not an error for the engine.
package validate

import (
	"context"
	"fmt"
	"time"

	"orgforge/internal/repo"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
	SeverityInfo  Severity = "info"
)

// Check is the outcome of one consistency rule.
type Check struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Passed   bool     `json:"passed"`
	Detail   string   `json:"detail"`
}

// Result aggregates all checks for one dataset.
type Result struct {
	Passed      bool    `json:"passed"`
	FailedCount int     `json:"failed_count"`
	Checks      []Check `json:"checks"`
}

// workloadWarnLimit is the open-task count per assignee above which the
// workload spread is flagged.
const workloadWarnLimit = 30

// Run executes every check against the store. The returned error covers
// query failures only; rule violations land in the Result.
func Run(ctx context.Context, r repo.Repo) (Result, error) {
	var res Result

	add := func(c Check) {
		res.Checks = append(res.Checks, c)
		if !c.Passed && c.Severity == SeverityError {
			res.FailedCount++
		}
	}

	orphans, err := r.CountOrphanTasks(ctx)
	if err != nil {
		return res, fmt.Errorf("referential integrity check: %w", err)
	}
	add(Check{
		Name:     "task_project_references",
		Severity: SeverityError,
		Passed:   orphans == 0,
		Detail:   fmt.Sprintf("%d tasks reference a missing project", orphans),
	})

	unknown, err := r.CountUnknownAssignees(ctx)
	if err != nil {
		return res, fmt.Errorf("assignee check: %w", err)
	}
	add(Check{
		Name:     "task_assignee_references",
		Severity: SeverityError,
		Passed:   unknown == 0,
		Detail:   fmt.Sprintf("%d tasks assigned to unknown users", unknown),
	})

	temporal, err := r.CountTaskTemporalViolations(ctx)
	if err != nil {
		return res, fmt.Errorf("temporal check: %w", err)
	}
	add(Check{
		Name:     "task_completion_after_creation",
		Severity: SeverityError,
		Passed:   temporal == 0,
		Detail:   fmt.Sprintf("%d completed tasks finish before they were created", temporal),
	})

	future, err := r.CountFutureCompletions(ctx, time.Now())
	if err != nil {
		return res, fmt.Errorf("future completion check: %w", err)
	}
	add(Check{
		Name:     "task_completion_not_in_future",
		Severity: SeverityError,
		Passed:   future == 0,
		Detail:   fmt.Sprintf("%d completed tasks finish in the future", future),
	})

	early, err := r.CountTasksBeforeProject(ctx)
	if err != nil {
		return res, fmt.Errorf("project window check: %w", err)
	}
	add(Check{
		Name:     "task_within_project_window",
		Severity: SeverityError,
		Passed:   early == 0,
		Detail:   fmt.Sprintf("%d tasks created before their project", early),
	})

	missing, err := r.CompletedTasksMissingStory(ctx)
	if err != nil {
		return res, fmt.Errorf("story check: %w", err)
	}
	add(Check{
		Name:     "completed_task_final_story",
		Severity: SeverityError,
		Passed:   missing == 0,
		Detail:   fmt.Sprintf("%d completed tasks with an activity feed lack a final completion story", missing),
	})

	workload, err := r.Workload(ctx)
	if err != nil {
		return res, fmt.Errorf("workload check: %w", err)
	}
	add(Check{
		Name:     "assignee_workload_spread",
		Severity: SeverityWarn,
		Passed:   workload.Max <= workloadWarnLimit,
		Detail: fmt.Sprintf("%d assignees with open tasks: min %d, mean %.1f, max %d",
			workload.Assignees, workload.Min, workload.Mean, workload.Max),
	})

	rates, err := r.CompletionRates(ctx)
	if err != nil {
		return res, fmt.Errorf("completion rate report: %w", err)
	}
	for _, cr := range rates {
		add(Check{
			Name:     "completion_rate_" + cr.ProjectType,
			Severity: SeverityInfo,
			Passed:   true,
			Detail:   fmt.Sprintf("%d/%d tasks complete (%.0f%%)", cr.Completed, cr.Tasks, cr.Rate*100),
		})
	}

	res.Passed = res.FailedCount == 0
	return res, nil
}
