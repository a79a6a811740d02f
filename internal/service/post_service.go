package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

// DateKeyLayout is the calendar bucket key.
const DateKeyLayout = "2006-01-02"

// PostService is the schedule store. Lists are fetched fresh on every call and
// mutations are never applied to a previously returned list.
type PostService interface {
	Create(ctx context.Context, cred session.Credential, post *models.ScheduledPost) (*models.ScheduledPost, error)
	List(ctx context.Context, cred session.Credential) ([]*models.ScheduledPost, error)
	UpdateStatus(ctx context.Context, cred session.Credential, id string, status models.PostStatus) error
	RequestDelete(ctx context.Context, cred session.Credential, id string) (*PendingAction, error)
	ConfirmDelete(ctx context.Context, cred session.Credential, token string) error
	CancelDelete(ctx context.Context, cred session.Credential, token string) error
}

type postService struct {
	pr   repository.ScheduledPostRepository
	gate *ConfirmGate
}

func NewPostService(pr repository.ScheduledPostRepository, gate *ConfirmGate) PostService {
	return &postService{
		pr:   pr,
		gate: gate,
	}
}

func (s *postService) Create(ctx context.Context, cred session.Credential, post *models.ScheduledPost) (*models.ScheduledPost, error) {
	if post == nil {
		return nil, models.NewValidationError("post", "post data is missing")
	}
	if strings.TrimSpace(post.Content) == "" {
		return nil, models.NewValidationError("content", "Content cannot be empty")
	}
	if len(post.Targets) == 0 {
		return nil, models.NewValidationError("platforms", "Select at least one account")
	}
	if post.ScheduledTime.IsZero() {
		return nil, models.NewValidationError("scheduled_time", "Schedule time is required")
	}
	if _, err := time.LoadLocation(post.TimeZone); err != nil || post.TimeZone == "" {
		return nil, models.NewValidationError("timezone", "Time zone is not valid")
	}

	created, err := s.pr.Create(ctx, cred, post)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *postService) List(ctx context.Context, cred session.Credential) ([]*models.ScheduledPost, error) {
	posts, err := s.pr.List(ctx, cred)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (s *postService) UpdateStatus(ctx context.Context, cred session.Credential, id string, status models.PostStatus) error {
	if id == "" {
		return models.NewValidationError("id", "PostID is not valid")
	}
	if _, ok := models.ParsePostStatus(string(status)); !ok {
		return models.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	if err := s.pr.UpdatePostStatus(ctx, cred, id, status); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *postService) RequestDelete(ctx context.Context, cred session.Credential, id string) (*PendingAction, error) {
	if !cred.Valid() {
		return nil, models.ErrNoSession
	}
	if id == "" {
		return nil, models.NewValidationError("id", "PostID is not valid")
	}
	return s.gate.Request(cred.UserID, ActionDeletePost, id)
}

func (s *postService) CancelDelete(ctx context.Context, cred session.Credential, token string) error {
	if !cred.Valid() {
		return models.ErrNoSession
	}
	s.gate.Cancel(cred.UserID, token)
	return nil
}

func (s *postService) ConfirmDelete(ctx context.Context, cred session.Credential, token string) error {
	if !cred.Valid() {
		return models.ErrNoSession
	}
	return s.gate.Confirm(cred.UserID, ActionDeletePost, token, func(id string) error {
		if err := s.pr.Remove(ctx, cred, id); err != nil {
			slog.Info(err.Error())
			return err
		}
		return nil
	})
}

// DateKey is the local calendar date of t in loc. Filtering and grouping both
// go through it.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey reads a YYYY-MM-DD calendar date.
func ParseDateKey(s string) (time.Time, error) {
	d, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "Date must be formatted as YYYY-MM-DD")
	}
	return d, nil
}

// FilterByDate keeps the posts whose instant falls on date in loc. date is
// read as a calendar date in its own location.
func FilterByDate(posts []*models.ScheduledPost, date time.Time, loc *time.Location) []*models.ScheduledPost {
	key := date.Format(DateKeyLayout)
	out := make([]*models.ScheduledPost, 0)
	for _, p := range posts {
		if DateKey(p.ScheduledTime, loc) == key {
			out = append(out, p)
		}
	}
	return out
}

func FilterByStatus(posts []*models.ScheduledPost, status models.PostStatus) []*models.ScheduledPost {
	out := make([]*models.ScheduledPost, 0)
	for _, p := range posts {
		if p.AggregateStatus() == status {
			out = append(out, p)
		}
	}
	return out
}

func GroupByDateKey(posts []*models.ScheduledPost, loc *time.Location) map[string]int {
	groups := make(map[string]int)
	for _, p := range posts {
		groups[DateKey(p.ScheduledTime, loc)]++
	}
	return groups
}
