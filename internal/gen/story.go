package gen

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"orgforge/internal/curve"
	"orgforge/internal/dist"
	"orgforge/internal/domain"
	"orgforge/internal/namegen"
	"orgforge/internal/text"
)

// storyTypeWeights drive the mid-life activity entries. "created" and
// "completed" are placed structurally, not sampled.
var storyTypeWeights = []dist.Weighted[string]{
	{Value: "updated", Weight: 0.30},
	{Value: "assigned", Weight: 0.20},
	{Value: "comment_added", Weight: 0.20},
	{Value: "attachment_added", Weight: 0.10},
	{Value: "moved", Weight: 0.08},
	{Value: "project_updated", Weight: 0.07},
	{Value: "deleted", Weight: 0.05},
}

var priorityFillers = []string{"low", "medium", "high"}

// lifetimeExponent pulls activity toward a task's mid-life instead of
// piling it up just before completion.
const lifetimeExponent = 0.6

type StoryParams struct {
	Tasks  []domain.Task
	Users  []domain.User
	Target int
	Now    time.Time
}

type StoryStats struct {
	ByType       map[string]int
	TasksCovered int
}

// Stories builds activity feeds for a subset of tasks sized around a
// third of the story target. Each covered task opens with its creation
// story at created_at; a completed task always closes with the
// completion story at completed_at.
func Stories(rng *rand.Rand, p StoryParams) ([]domain.Story, StoryStats, error) {
	stats := StoryStats{ByType: map[string]int{}}
	if len(p.Users) == 0 {
		return nil, stats, fmt.Errorf("story generation needs a non-empty user pool")
	}
	taskCount := p.Target / 3
	if taskCount < 1 {
		taskCount = 1
	}
	covered := dist.Sample(rng, p.Tasks, taskCount)
	stats.TasksCovered = len(covered)

	var stories []domain.Story
	for _, task := range covered {
		feed, err := taskFeed(rng, task, p)
		if err != nil {
			return nil, stats, err
		}
		for _, s := range feed {
			stats.ByType[s.Type]++
		}
		stories = append(stories, feed...)
	}
	return stories, stats, nil
}

func taskFeed(rng *rand.Rand, task domain.Task, p StoryParams) ([]domain.Story, error) {
	end := p.Now
	if task.CompletedAt != nil {
		end = *task.CompletedAt
	}
	actor := func() string {
		if task.AssigneeID != nil && dist.Bernoulli(rng, 0.6) {
			return *task.AssigneeID
		}
		return p.Users[rng.IntN(len(p.Users))].ID
	}

	feed := []domain.Story{{
		ID:        newID(),
		TaskID:    task.ID,
		ActorID:   task.CreatorID,
		Type:      "created",
		Text:      renderStory(rng, "created", p),
		CreatedAt: task.CreatedAt,
	}}

	n := dist.IntBetween(rng, 1, 7)
	middle := make([]domain.Story, 0, n)
	for i := 1; i <= n; i++ {
		storyType, err := dist.Choice(rng, storyTypeWeights)
		if err != nil {
			return nil, fmt.Errorf("sample story type: %w", err)
		}
		pos := float64(i) / float64(n+1)
		middle = append(middle, domain.Story{
			ID:        newID(),
			TaskID:    task.ID,
			ActorID:   actor(),
			Type:      storyType,
			Text:      renderStory(rng, storyType, p),
			CreatedAt: curve.Lifetime(task.CreatedAt, end, pos, lifetimeExponent),
		})
	}
	sort.Slice(middle, func(i, j int) bool { return middle[i].CreatedAt.Before(middle[j].CreatedAt) })
	feed = append(feed, middle...)

	if task.Completed && task.CompletedAt != nil {
		who := task.CreatorID
		if task.AssigneeID != nil {
			who = *task.AssigneeID
		}
		feed = append(feed, domain.Story{
			ID:        newID(),
			TaskID:    task.ID,
			ActorID:   who,
			Type:      "completed",
			Text:      text.Render(text.CompletionStory, ""),
			CreatedAt: *task.CompletedAt,
		})
	}
	return feed, nil
}

func renderStory(rng *rand.Rand, storyType string, p StoryParams) string {
	variants := text.StoryTemplates[storyType]
	tmpl := variants[rng.IntN(len(variants))]
	var filler string
	switch tmpl.Filler {
	case text.FillerUser:
		filler = p.Users[rng.IntN(len(p.Users))].Name
	case text.FillerFile:
		filler = namegen.FileName(rng)
	case text.FillerPhrase:
		filler = namegen.Phrase(rng)
	case text.FillerWord:
		filler = namegen.Word(rng)
	case text.FillerPriority:
		filler = priorityFillers[rng.IntN(len(priorityFillers))]
	}
	return text.Render(tmpl, filler)
}
