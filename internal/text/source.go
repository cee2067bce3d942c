package text

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Source produces comment bodies. The engine wires a Remote source when
// credentials are configured, otherwise the deterministic Local source.
type Source interface {
	CommentText(ctx context.Context, req CommentRequest) (string, error)
}

// CommentRequest carries the context a source may use to phrase a comment.
type CommentRequest struct {
	TaskName    string
	ProjectName string
	AuthorName  string
}

var localComments = []string{
	"Picking this up now, should have an update by end of day.",
	"Blocked on the %s piece, will sync with the team tomorrow.",
	"Pushed a first pass, feedback welcome.",
	"This took longer than expected but it's in review now.",
	"Splitting this into two smaller tasks to keep the scope tight.",
	"Confirmed with the customer, the current behavior is the bug.",
	"Tests are green locally, waiting on CI.",
	"Moving the due date out a week after today's planning call.",
	"Done pending one last review comment.",
	"Flagging that this overlaps with the %s work, we should dedupe.",
}

// Local is the fallback comment source: fully deterministic on the
// request, so a fixed seed run stays byte-identical with or without
// network access.
type Local struct{}

func (Local) CommentText(_ context.Context, req CommentRequest) (string, error) {
	h := fnv.New32a()
	io.WriteString(h, req.TaskName)
	io.WriteString(h, "|")
	io.WriteString(h, req.AuthorName)
	tmpl := localComments[h.Sum32()%uint32(len(localComments))]
	if bytes.Contains([]byte(tmpl), []byte("%s")) {
		return fmt.Sprintf(tmpl, req.ProjectName), nil
	}
	return tmpl, nil
}

// Remote calls an external completion endpoint. Failures are retried
// with exponential backoff; callers treat a final error as a cue to fall
// back to Local for that comment.
type Remote struct {
	Endpoint string
	APIKey   string
	Model    string
	Client   *http.Client
	MaxTries uint
}

type completionRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Prompt    string `json:"prompt"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func (r *Remote) CommentText(ctx context.Context, req CommentRequest) (string, error) {
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	tries := r.MaxTries
	if tries == 0 {
		tries = 3
	}
	prompt := fmt.Sprintf(
		"Write one short workplace comment (max 25 words) that %s might leave on the task %q in project %q.",
		req.AuthorName, req.TaskName, req.ProjectName)

	op := func() (string, error) {
		body, err := json.Marshal(completionRequest{Model: r.Model, MaxTokens: 150, Prompt: prompt})
		if err != nil {
			return "", backoff.Permanent(err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
		if err != nil {
			return "", backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+r.APIKey)
		resp, err := client.Do(httpReq)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return "", backoff.Permanent(fmt.Errorf("completion endpoint returned %d", resp.StatusCode))
		}
		var out completionResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", backoff.Permanent(fmt.Errorf("decode completion response: %w", err))
		}
		if out.Text == "" {
			return "", backoff.Permanent(fmt.Errorf("completion response empty"))
		}
		return out.Text, nil
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(tries))
}
