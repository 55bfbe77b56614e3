// Package googletasks implements task.Repository on one Google Tasks list.
//
// Google Tasks has no creation timestamp, so CreatedAt mirrors the remote
// "updated" field. The remote service assigns identifiers on insert.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/apperr"
	"todo/internal/config"
	"todo/internal/task"
)

const (
	// PageSize is the number of tasks fetched per API page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = tasks.TasksScope

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// ErrAuth indicates the stored token was rejected.
var ErrAuth = fmt.Errorf("token expired or revoked (run: todo login): %w", apperr.ErrUnauthenticated)

// Client implements task.Repository using the Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	logger *slog.Logger
}

// New creates a client from the OAuth files in the config directory.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("oauth_client.json not found in %s: %w", cfg.Dir, apperr.ErrUnauthenticated)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("not logged in (run: todo login): %w", apperr.ErrUnauthenticated)
	}

	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", apperr.ErrUnauthenticated)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: listOrDefault(cfg.ListID), logger: cfg.Logger(os.Stderr)}, nil
}

// LoadOAuthConfig reads the OAuth client credentials file.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// NewWithEndpoint creates a client against a custom endpoint (for testing).
func NewWithEndpoint(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listOrDefault(listID), logger: slog.New(slog.DiscardHandler)}, nil
}

func listOrDefault(id string) string {
	if id == "" {
		return config.DefaultListID
	}
	return id
}

func (c *Client) AddTask(ctx context.Context, t task.Task) (*task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	remote := &tasks.Task{
		Title:  t.Title,
		Notes:  t.DescriptionOr(""),
		Status: toRemoteStatus(t.Status),
	}
	created, err := c.svc.Tasks.Insert(c.listID, remote).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}
	c.logger.Debug("task inserted", slog.String("list", c.listID), slog.String("id", created.Id))
	out := fromRemote(created)
	return &out, nil
}

func (c *Client) GetAllTasks(ctx context.Context) ([]task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []task.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				result = append(result, fromRemote(item))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

func (c *Client) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	remote, err := c.get(ctx, id)
	if err != nil || remote == nil {
		return nil, err
	}
	out := fromRemote(remote)
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id, title string, description *string) (*task.Task, error) {
	patch := &tasks.Task{Title: title}
	if description != nil {
		patch.Notes = *description
		if *description == "" {
			patch.NullFields = []string{"Notes"}
		}
	}
	return c.patch(ctx, id, patch)
}

func (c *Client) ToggleTaskStatus(ctx context.Context, id string) (*task.Task, error) {
	current, err := c.get(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}
	patch := &tasks.Task{Status: statusCompleted}
	if current.Status == statusCompleted {
		patch.Status = statusNeedsAction
		patch.NullFields = []string{"Completed"}
	}
	return c.patch(ctx, id, patch)
}

func (c *Client) DeleteTask(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, id string) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	remote, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return remote, nil
}

func (c *Client) patch(ctx context.Context, id string, patch *tasks.Task) (*task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	updated, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	out := fromRemote(updated)
	return &out, nil
}

func fromRemote(r *tasks.Task) task.Task {
	updated, err := time.Parse(time.RFC3339, r.Updated)
	if err != nil {
		updated = time.Time{}
	}
	t := task.Task{
		ID:        r.Id,
		Title:     r.Title,
		Status:    task.StatusPending,
		CreatedAt: updated.UTC(),
		UpdatedAt: updated.UTC(),
	}
	if r.Notes != "" {
		notes := r.Notes
		t.Description = &notes
	}
	if r.Status == statusCompleted {
		t.Status = task.StatusCompleted
	}
	return t
}

func toRemoteStatus(s task.Status) string {
	if s == task.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return apperr.Persistence("google tasks", errors.New("request timed out"))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return ErrAuth
	}

	return apperr.Persistence("google tasks", err)
}
