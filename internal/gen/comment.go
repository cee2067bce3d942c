package gen

import (
	"context"
	"math/rand/v2"
	"time"

	"orgforge/internal/curve"
	"orgforge/internal/dist"
	"orgforge/internal/domain"
	"orgforge/internal/text"
)

const (
	taskHasCommentsRate = 0.30
	maxCommentsPerTask  = 3
)

type CommentParams struct {
	Tasks        []domain.Task
	Users        []domain.User
	UserNames    map[string]string // user id -> display name
	ProjectNames map[string]string // project id -> name
	Source       text.Source
	Now          time.Time
}

type CommentStats struct {
	Comments       int
	SourceFailures int
}

// Comments attaches discussion to roughly 30% of tasks. Authors lean
// toward the assignee, then the creator, then anyone. When the remote
// text source fails for a comment the local fallback fills in, so a run
// always finishes.
func Comments(ctx context.Context, rng *rand.Rand, p CommentParams) ([]domain.Comment, CommentStats, error) {
	var stats CommentStats
	fallback := text.Local{}
	var comments []domain.Comment
	for _, task := range p.Tasks {
		if !dist.Bernoulli(rng, taskHasCommentsRate) {
			continue
		}
		end := p.Now
		if task.CompletedAt != nil {
			end = *task.CompletedAt
		}
		n := dist.IntBetween(rng, 1, maxCommentsPerTask)
		for i := 0; i < n; i++ {
			author := commentAuthor(rng, task, p.Users)
			req := text.CommentRequest{
				TaskName:    task.Name,
				ProjectName: p.ProjectNames[task.ProjectID],
				AuthorName:  p.UserNames[author],
			}
			body, err := p.Source.CommentText(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return nil, stats, ctx.Err()
				}
				stats.SourceFailures++
				body, _ = fallback.CommentText(ctx, req)
			}
			comments = append(comments, domain.Comment{
				ID:        newID(),
				TaskID:    task.ID,
				AuthorID:  author,
				Text:      body,
				CreatedAt: curve.Between(rng, task.CreatedAt, end),
			})
			stats.Comments++
		}
	}
	return comments, stats, nil
}

func commentAuthor(rng *rand.Rand, task domain.Task, users []domain.User) string {
	r := rng.Float64()
	if r < 0.5 && task.AssigneeID != nil {
		return *task.AssigneeID
	}
	if r < 0.8 {
		return task.CreatorID
	}
	return users[rng.IntN(len(users))].ID
}
