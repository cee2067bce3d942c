package gen

import (
	"context"
	"testing"

	"orgforge/internal/domain"
	"orgforge/internal/text"
)

func TestStoriesFeedShape(t *testing.T) {
	tasks, _, users := genTasks(t, 2000)
	stories, stats, err := Stories(testRNG(41), StoryParams{
		Tasks: tasks, Users: users, Target: 3000, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Stories: %v", err)
	}
	if stats.TasksCovered == 0 {
		t.Fatal("no tasks covered")
	}

	taskByID := map[string]domain.Task{}
	for _, task := range tasks {
		taskByID[task.ID] = task
	}
	feeds := map[string][]domain.Story{}
	for _, s := range stories {
		feeds[s.TaskID] = append(feeds[s.TaskID], s)
	}

	for taskID, feed := range feeds {
		task := taskByID[taskID]
		if feed[0].Type != "created" {
			t.Fatalf("feed for %s opens with %q, want created", task.Name, feed[0].Type)
		}
		if !feed[0].CreatedAt.Equal(task.CreatedAt) {
			t.Fatalf("creation story at %v, task created %v", feed[0].CreatedAt, task.CreatedAt)
		}
		for i := 1; i < len(feed); i++ {
			if feed[i].CreatedAt.Before(feed[i-1].CreatedAt) {
				t.Fatalf("feed for %s out of order at %d", task.Name, i)
			}
		}
		last := feed[len(feed)-1]
		if task.Completed {
			if last.Type != "completed" {
				t.Fatalf("completed task %s feed ends with %q", task.Name, last.Type)
			}
			if !last.CreatedAt.Equal(*task.CompletedAt) {
				t.Fatalf("completion story at %v, task completed %v", last.CreatedAt, task.CompletedAt)
			}
		} else if last.Type == "completed" {
			t.Fatalf("open task %s has completion story", task.Name)
		}
	}
}

func TestStoriesTextNeverCarriesVerb(t *testing.T) {
	tasks, _, users := genTasks(t, 500)
	stories, _, err := Stories(testRNG(42), StoryParams{Tasks: tasks, Users: users, Target: 900, Now: testNow})
	if err != nil {
		t.Fatalf("Stories: %v", err)
	}
	for _, s := range stories {
		if s.Text == "" {
			t.Fatalf("empty story text for type %s", s.Type)
		}
		if containsPercent(s.Text) {
			t.Fatalf("unrendered template in story text: %q", s.Text)
		}
	}
}

func containsPercent(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' && s[i+1] == 's' {
			return true
		}
	}
	return false
}

func TestCommentsAuthorsAndWindow(t *testing.T) {
	tasks, projects, users := genTasks(t, 1000)
	names := map[string]string{}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	projNames := map[string]string{}
	for _, p := range projects {
		projNames[p.ID] = p.Name
	}
	comments, stats, err := Comments(context.Background(), testRNG(43), CommentParams{
		Tasks: tasks, Users: users, UserNames: names, ProjectNames: projNames,
		Source: text.Local{}, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if stats.Comments == 0 {
		t.Fatal("no comments generated")
	}
	taskByID := map[string]domain.Task{}
	for _, task := range tasks {
		taskByID[task.ID] = task
	}
	for _, c := range comments {
		task := taskByID[c.TaskID]
		if c.CreatedAt.Before(task.CreatedAt) {
			t.Fatalf("comment at %v before task created %v", c.CreatedAt, task.CreatedAt)
		}
		if c.Text == "" {
			t.Fatal("empty comment text")
		}
		if names[c.AuthorID] == "" {
			t.Fatalf("comment author %s is not a known user", c.AuthorID)
		}
	}
}

func TestCustomFieldsValuesMatchDefinitions(t *testing.T) {
	tasks, projects, _ := genTasks(t, 1000)
	byProject := map[string][]domain.Task{}
	for _, task := range tasks {
		byProject[task.ProjectID] = append(byProject[task.ProjectID], task)
	}
	defs, vals := CustomFields(testRNG(44), CustomFieldParams{Projects: projects, TasksByProject: byProject})
	if len(defs) == 0 {
		t.Fatal("no field definitions generated")
	}
	defByID := map[string]domain.CustomFieldDef{}
	for _, d := range defs {
		defByID[d.ID] = d
	}
	for _, v := range vals {
		def, ok := defByID[v.FieldID]
		if !ok {
			t.Fatalf("value references unknown field %s", v.FieldID)
		}
		if def.Kind == "enum" {
			found := false
			for _, opt := range def.Options {
				if v.Value == opt {
					found = true
				}
			}
			if !found {
				t.Fatalf("enum value %q not among options %v", v.Value, def.Options)
			}
		}
	}
}
