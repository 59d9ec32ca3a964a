// Package persona orchestrates one definition generation: fetch (or read from
// cache), run the character engine, record the run.
package persona

import (
	"context"
	"errors"
	"fmt"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/reddit"
	"github.com/fialovy/redditpersona/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher is the slice of the Reddit client the service needs.
type Fetcher interface {
	UserComments(ctx context.Context, username string, limit int) ([]character.RawItem, error)
	Info(ctx context.Context, fullname string) (*character.RawItem, error)
}

// Service generates character definitions.
type Service struct {
	DB     *store.DB
	Reddit Fetcher
	Opts   character.Options
	Log    *zap.Logger
}

// New creates a Service.
func New(db *store.DB, fetcher Fetcher, opts character.Options, log *zap.Logger) *Service {
	return &Service{DB: db, Reddit: fetcher, Opts: opts, Log: log}
}

// Request selects what to generate. Zero-value Limit and MaxChars fall back
// to the service defaults.
type Request struct {
	Username string
	Limit    int
	MaxChars int
	// Offline generates purely from the local cache.
	Offline bool
}

// Generate runs the pipeline for one user and records the run.
func (s *Service) Generate(ctx context.Context, req Request) (*character.Definition, error) {
	if req.Username == "" {
		return nil, errors.New("username required")
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}

	opts := s.Opts
	if req.MaxChars > 0 {
		opts.MaxChars = req.MaxChars
	}

	var comments []character.RawItem
	var resolver character.ParentResolver
	var err error

	if req.Offline {
		comments, err = s.DB.CommentsByAuthor(req.Username, req.Limit)
		if err != nil {
			return nil, fmt.Errorf("read cached comments: %w", err)
		}
		resolver = cacheResolver{db: s.DB}
		s.Log.Info("generating from cache",
			zap.String("username", req.Username),
			zap.Int("comments", len(comments)))
	} else {
		comments, err = s.Reddit.UserComments(ctx, req.Username, req.Limit)
		if err != nil {
			return nil, err
		}
		if err := s.DB.UpsertItems(comments); err != nil {
			s.Log.Warn("cache comments", zap.Error(err))
		}
		resolver = apiResolver{fetch: s.Reddit, db: s.DB, log: s.Log}
		s.Log.Info("fetched comments",
			zap.String("username", req.Username),
			zap.Int("comments", len(comments)))
	}

	def, err := character.BuildDefinition(ctx, req.Username, comments, resolver, opts)
	if err != nil {
		return nil, err
	}

	run := store.Run{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Length:    len(def.Text),
		Included:  def.Included,
		Truncated: def.Truncated,
	}
	if err := s.DB.RecordRun(run); err != nil {
		s.Log.Warn("record run", zap.Error(err))
	}

	s.Log.Info("definition assembled",
		zap.String("username", req.Username),
		zap.Int("length", len(def.Text)),
		zap.Int("included", def.Included),
		zap.Bool("truncated", def.Truncated))
	return def, nil
}

// apiResolver resolves parents through the cache first, then the API, caching
// what it fetches.
type apiResolver struct {
	fetch Fetcher
	db    *store.DB
	log   *zap.Logger
}

func (r apiResolver) Resolve(ctx context.Context, fullname string) (*character.RawItem, error) {
	if item, err := r.db.GetItem(fullname); err == nil && item != nil {
		return item, nil
	}

	item, err := r.fetch.Info(ctx, fullname)
	if errors.Is(err, reddit.ErrNotFound) {
		return nil, character.ErrParentNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.UpsertItems([]character.RawItem{*item}); err != nil {
		r.log.Warn("cache parent", zap.String("fullname", fullname), zap.Error(err))
	}
	return item, nil
}

// cacheResolver resolves parents from the cache only.
type cacheResolver struct {
	db *store.DB
}

func (r cacheResolver) Resolve(ctx context.Context, fullname string) (*character.RawItem, error) {
	item, err := r.db.GetItem(fullname)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, character.ErrParentNotFound
	}
	return item, nil
}
