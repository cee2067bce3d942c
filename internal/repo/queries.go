package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Statistics summarizes a generated dataset: per-table row counts and
// the on-disk size reported by SQLite.
type Statistics struct {
	Counts    map[string]int64 `json:"counts"`
	SizeBytes int64            `json:"size_bytes"`
}

var statTables = []string{
	"organizations", "users", "teams", "team_members", "projects",
	"tasks", "custom_field_defs", "custom_field_values", "comments", "stories",
}

func (r Repo) Statistics(ctx context.Context) (Statistics, error) {
	stats := Statistics{Counts: make(map[string]int64, len(statTables))}
	for _, table := range statTables {
		var n int64
		if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			return stats, fmt.Errorf("count %s: %w", table, err)
		}
		stats.Counts[table] = n
	}
	var pageCount, pageSize int64
	if err := r.DB.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err != nil {
		return stats, err
	}
	if err := r.DB.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err != nil {
		return stats, err
	}
	stats.SizeBytes = pageCount * pageSize
	return stats, nil
}

// CountOrphanTasks returns the number of tasks whose project does not exist.
func (r Repo) CountOrphanTasks(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks t LEFT JOIN projects p ON t.project_id = p.project_id WHERE p.project_id IS NULL`).Scan(&n)
	return n, err
}

// CountTaskTemporalViolations returns completed tasks whose completion
// precedes their creation. RFC3339 text compares in time order.
func (r Repo) CountTaskTemporalViolations(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks WHERE completed = 1 AND (completed_at IS NULL OR completed_at < created_at)`).Scan(&n)
	return n, err
}

// CountFutureCompletions returns completed tasks whose completion lies
// after the given reference time.
func (r Repo) CountFutureCompletions(ctx context.Context, ref time.Time) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks WHERE completed = 1 AND completed_at > ?`,
		ref.UTC().Format(time.RFC3339)).Scan(&n)
	return n, err
}

// CountUnknownAssignees returns assigned tasks whose assignee is not a
// known user.
func (r Repo) CountUnknownAssignees(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks t LEFT JOIN users u ON t.assignee_id = u.user_id
WHERE t.assignee_id IS NOT NULL AND u.user_id IS NULL`).Scan(&n)
	return n, err
}

// CompletionRate is the fraction of completed tasks within one project type.
type CompletionRate struct {
	ProjectType string  `json:"project_type"`
	Tasks       int64   `json:"tasks"`
	Completed   int64   `json:"completed"`
	Rate        float64 `json:"rate"`
}

func (r Repo) CompletionRates(ctx context.Context) ([]CompletionRate, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.project_type, count(*), sum(t.completed)
FROM tasks t JOIN projects p ON t.project_id = p.project_id
GROUP BY p.project_type ORDER BY p.project_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []CompletionRate
	for rows.Next() {
		var cr CompletionRate
		if err := rows.Scan(&cr.ProjectType, &cr.Tasks, &cr.Completed); err != nil {
			return nil, err
		}
		if cr.Tasks > 0 {
			cr.Rate = float64(cr.Completed) / float64(cr.Tasks)
		}
		res = append(res, cr)
	}
	return res, rows.Err()
}

// WorkloadStats describes the spread of open tasks across assignees.
type WorkloadStats struct {
	Assignees int64   `json:"assignees"`
	Min       int64   `json:"min"`
	Max       int64   `json:"max"`
	Mean      float64 `json:"mean"`
}

func (r Repo) Workload(ctx context.Context) (WorkloadStats, error) {
	var ws WorkloadStats
	var min, max sql.NullInt64
	var mean sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*), min(n), max(n), avg(n) FROM (
SELECT count(*) AS n FROM tasks WHERE assignee_id IS NOT NULL AND completed = 0 GROUP BY assignee_id)`).
		Scan(&ws.Assignees, &min, &max, &mean)
	if err != nil {
		return ws, err
	}
	ws.Min, ws.Max, ws.Mean = min.Int64, max.Int64, mean.Float64
	return ws, nil
}

// CountTasksBeforeProject returns tasks created before their project.
func (r Repo) CountTasksBeforeProject(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks t JOIN projects p ON t.project_id = p.project_id
WHERE t.created_at < p.created_at`).Scan(&n)
	return n, err
}

// CompletedTasksMissingStory returns completed tasks whose activity feed
// exists but whose last entry is not the completion story.
func (r Repo) CompletedTasksMissingStory(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks t
WHERE t.completed = 1
  AND EXISTS (SELECT 1 FROM stories s WHERE s.task_id = t.task_id)
  AND (SELECT s.story_type FROM stories s WHERE s.task_id = t.task_id
       ORDER BY s.created_at DESC, s.story_id DESC LIMIT 1) != 'completed'`).Scan(&n)
	return n, err
}
