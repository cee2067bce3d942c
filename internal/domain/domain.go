package domain

import "time"

// Organization is the root entity; exactly one exists per generated dataset.
type Organization struct {
	ID            string    `json:"org_id"`
	Name          string    `json:"name"`
	Domain        string    `json:"domain"`
	Industry      string    `json:"industry"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type User struct {
	ID           string     `json:"user_id"`
	OrgID        string     `json:"org_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role" enum:"member,admin,guest,limited_access"`
	Department   string     `json:"department"`
	JobTitle     string     `json:"job_title"`
	Timezone     string     `json:"timezone"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	IsActive     bool       `json:"is_active"`
}

type Team struct {
	ID          string    `json:"team_id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"team_type" enum:"department,project,cross_functional,working_group"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	IsArchived  bool      `json:"is_archived"`
	MemberCount int       `json:"member_count"`
}

type TeamMembership struct {
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type Project struct {
	ID          string     `json:"project_id"`
	OrgID       string     `json:"org_id"`
	TeamID      string     `json:"team_id"`
	Name        string     `json:"name"`
	Type        string     `json:"project_type" enum:"sprint,campaign,bug_tracking,ongoing,roadmap"`
	Status      string     `json:"status" enum:"planned,active,on_hold,completed,archived"`
	Priority    string     `json:"priority" enum:"low,medium,high,critical"`
	Progress    int        `json:"progress"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	StartDate   time.Time  `json:"start_date"`
	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Task struct {
	ID          string     `json:"task_id"`
	ProjectID   string     `json:"project_id"`
	CreatorID   string     `json:"creator_id"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CustomFieldDef declares a project-scoped field; enum kinds carry their options.
type CustomFieldDef struct {
	ID        string   `json:"field_id"`
	ProjectID string   `json:"project_id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind" enum:"enum,number"`
	Options   []string `json:"options,omitempty"`
}

type CustomFieldValue struct {
	FieldID string `json:"field_id"`
	TaskID  string `json:"task_id"`
	Value   string `json:"value"`
}

type Comment struct {
	ID        string    `json:"comment_id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Story is one activity-feed entry for a task. For a completed task the
// chronologically last story has Type "completed".
type Story struct {
	ID        string    `json:"story_id"`
	TaskID    string    `json:"task_id"`
	ActorID   string    `json:"actor_id"`
	Type      string    `json:"story_type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
