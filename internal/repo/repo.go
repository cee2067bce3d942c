// Package repo is the persistence layer: one batched insert per entity
// type, plus the aggregate queries the validator and reporting run over
// a generated dataset.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orgforge/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r Repo) InsertOrganization(ctx context.Context, org domain.Organization) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO organizations(org_id,name,domain,industry,employee_count,created_at) VALUES (?,?,?,?,?,?)`,
		org.ID, org.Name, org.Domain, org.Industry, org.EmployeeCount, fmtTime(org.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// batch runs fn against a prepared statement inside one transaction, so
// a stage's records land atomically or not at all.
func (r Repo) batch(ctx context.Context, query string, n int, bind func(i int) []any) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, bind(i)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r Repo) InsertUsers(ctx context.Context, users []domain.User) error {
	err := r.batch(ctx,
		`INSERT INTO users(user_id,org_id,email,name,role,department,job_title,timezone,created_at,last_active_at,is_active)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		len(users), func(i int) []any {
			u := users[i]
			return []any{u.ID, u.OrgID, u.Email, u.Name, u.Role, u.Department, u.JobTitle, u.Timezone,
				fmtTime(u.CreatedAt), fmtTimePtr(u.LastActiveAt), boolInt(u.IsActive)}
		})
	if err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	return nil
}

func (r Repo) InsertTeams(ctx context.Context, teams []domain.Team) error {
	err := r.batch(ctx,
		`INSERT INTO teams(team_id,org_id,name,description,team_type,owner_id,created_at,is_archived,member_count)
VALUES (?,?,?,?,?,?,?,?,?)`,
		len(teams), func(i int) []any {
			t := teams[i]
			return []any{t.ID, t.OrgID, t.Name, nullable(t.Description), t.Type, t.OwnerID,
				fmtTime(t.CreatedAt), boolInt(t.IsArchived), t.MemberCount}
		})
	if err != nil {
		return fmt.Errorf("insert teams: %w", err)
	}
	return nil
}

func (r Repo) InsertTeamMemberships(ctx context.Context, ms []domain.TeamMembership) error {
	err := r.batch(ctx,
		`INSERT INTO team_members(team_id,user_id,joined_at) VALUES (?,?,?)`,
		len(ms), func(i int) []any {
			m := ms[i]
			return []any{m.TeamID, m.UserID, fmtTime(m.JoinedAt)}
		})
	if err != nil {
		return fmt.Errorf("insert team memberships: %w", err)
	}
	return nil
}

func (r Repo) InsertProjects(ctx context.Context, projects []domain.Project) error {
	err := r.batch(ctx,
		`INSERT INTO projects(project_id,org_id,team_id,name,project_type,status,priority,progress,owner_id,created_at,start_date,due_date,completed_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(projects), func(i int) []any {
			p := projects[i]
			return []any{p.ID, p.OrgID, p.TeamID, p.Name, p.Type, p.Status, p.Priority, p.Progress, p.OwnerID,
				fmtTime(p.CreatedAt), fmtTime(p.StartDate), fmtTime(p.DueDate), fmtTimePtr(p.CompletedAt)}
		})
	if err != nil {
		return fmt.Errorf("insert projects: %w", err)
	}
	return nil
}

func (r Repo) InsertTasks(ctx context.Context, tasks []domain.Task) error {
	err := r.batch(ctx,
		`INSERT INTO tasks(task_id,project_id,creator_id,assignee_id,name,completed,created_at,completed_at)
VALUES (?,?,?,?,?,?,?,?)`,
		len(tasks), func(i int) []any {
			t := tasks[i]
			var assignee any
			if t.AssigneeID != nil {
				assignee = *t.AssigneeID
			}
			return []any{t.ID, t.ProjectID, t.CreatorID, assignee, t.Name, boolInt(t.Completed),
				fmtTime(t.CreatedAt), fmtTimePtr(t.CompletedAt)}
		})
	if err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (r Repo) InsertCustomFieldDefs(ctx context.Context, defs []domain.CustomFieldDef) error {
	err := r.batch(ctx,
		`INSERT INTO custom_field_defs(field_id,project_id,name,kind,options_json) VALUES (?,?,?,?,?)`,
		len(defs), func(i int) []any {
			d := defs[i]
			var opts any
			if len(d.Options) > 0 {
				b, _ := json.Marshal(d.Options)
				opts = string(b)
			}
			return []any{d.ID, d.ProjectID, d.Name, d.Kind, opts}
		})
	if err != nil {
		return fmt.Errorf("insert custom field defs: %w", err)
	}
	return nil
}

func (r Repo) InsertCustomFieldValues(ctx context.Context, vals []domain.CustomFieldValue) error {
	err := r.batch(ctx,
		`INSERT INTO custom_field_values(field_id,task_id,value) VALUES (?,?,?)`,
		len(vals), func(i int) []any {
			v := vals[i]
			return []any{v.FieldID, v.TaskID, v.Value}
		})
	if err != nil {
		return fmt.Errorf("insert custom field values: %w", err)
	}
	return nil
}

func (r Repo) InsertComments(ctx context.Context, comments []domain.Comment) error {
	err := r.batch(ctx,
		`INSERT INTO comments(comment_id,task_id,author_id,text,created_at) VALUES (?,?,?,?,?)`,
		len(comments), func(i int) []any {
			c := comments[i]
			return []any{c.ID, c.TaskID, c.AuthorID, c.Text, fmtTime(c.CreatedAt)}
		})
	if err != nil {
		return fmt.Errorf("insert comments: %w", err)
	}
	return nil
}

func (r Repo) InsertStories(ctx context.Context, stories []domain.Story) error {
	err := r.batch(ctx,
		`INSERT INTO stories(story_id,task_id,actor_id,story_type,text,created_at) VALUES (?,?,?,?,?,?)`,
		len(stories), func(i int) []any {
			s := stories[i]
			return []any{s.ID, s.TaskID, s.ActorID, s.Type, s.Text, fmtTime(s.CreatedAt)}
		})
	if err != nil {
		return fmt.Errorf("insert stories: %w", err)
	}
	return nil
}

// Organization returns the single generated organization.
func (r Repo) Organization(ctx context.Context) (domain.Organization, error) {
	var org domain.Organization
	var created string
	err := r.DB.QueryRowContext(ctx,
		`SELECT org_id,name,domain,industry,employee_count,created_at FROM organizations LIMIT 1`).
		Scan(&org.ID, &org.Name, &org.Domain, &org.Industry, &org.EmployeeCount, &created)
	if err == sql.ErrNoRows {
		return org, ErrNotFound
	}
	if err != nil {
		return org, err
	}
	org.CreatedAt, err = parseTime(created)
	return org, err
}

func (r Repo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id,org_id,email,name,role,department,job_title,timezone,created_at,last_active_at,is_active
FROM users ORDER BY created_at, user_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.User
	for rows.Next() {
		var u domain.User
		var created string
		var lastActive sql.NullString
		var active int
		if err := rows.Scan(&u.ID, &u.OrgID, &u.Email, &u.Name, &u.Role, &u.Department, &u.JobTitle,
			&u.Timezone, &created, &lastActive, &active); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if u.LastActiveAt, err = parseTimePtr(lastActive); err != nil {
			return nil, err
		}
		u.IsActive = active != 0
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r Repo) ListTeams(ctx context.Context, limit, offset int) ([]domain.Team, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT team_id,org_id,name,COALESCE(description,''),team_type,owner_id,created_at,is_archived,member_count
FROM teams ORDER BY created_at, team_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Team
	for rows.Next() {
		var t domain.Team
		var created string
		var archived int
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.Description, &t.Type, &t.OwnerID,
			&created, &archived, &t.MemberCount); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		t.IsArchived = archived != 0
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT project_id,org_id,team_id,name,project_type,status,priority,progress,owner_id,created_at,start_date,due_date,completed_at
FROM projects ORDER BY created_at, project_id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Project
	for rows.Next() {
		var p domain.Project
		var created, start, due string
		var completed sql.NullString
		if err := rows.Scan(&p.ID, &p.OrgID, &p.TeamID, &p.Name, &p.Type, &p.Status, &p.Priority,
			&p.Progress, &p.OwnerID, &created, &start, &due, &completed); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if p.StartDate, err = parseTime(start); err != nil {
			return nil, err
		}
		if p.DueDate, err = parseTime(due); err != nil {
			return nil, err
		}
		if p.CompletedAt, err = parseTimePtr(completed); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	var assignee, completedAt sql.NullString
	var created string
	var completed int
	err := r.DB.QueryRowContext(ctx,
		`SELECT task_id,project_id,creator_id,assignee_id,name,completed,created_at,completed_at FROM tasks WHERE task_id=?`, id).
		Scan(&t.ID, &t.ProjectID, &t.CreatorID, &assignee, &t.Name, &completed, &created, &completedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if assignee.Valid {
		t.AssigneeID = &assignee.String
	}
	t.Completed = completed != 0
	if t.CreatedAt, err = parseTime(created); err != nil {
		return t, err
	}
	t.CompletedAt, err = parseTimePtr(completedAt)
	return t, err
}

func (r Repo) ListStoriesByTask(ctx context.Context, taskID string) ([]domain.Story, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT story_id,task_id,actor_id,story_type,text,created_at FROM stories WHERE task_id=? ORDER BY created_at, story_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Story
	for rows.Next() {
		var s domain.Story
		var created string
		if err := rows.Scan(&s.ID, &s.TaskID, &s.ActorID, &s.Type, &s.Text, &created); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
