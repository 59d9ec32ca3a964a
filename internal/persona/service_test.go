package persona

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/reddit"
	"github.com/fialovy/redditpersona/internal/store"
	"go.uber.org/zap"
)

// fakeFetcher serves canned comments and parents, counting Info calls so
// tests can assert the cache short-circuits the network.
type fakeFetcher struct {
	comments  []character.RawItem
	parents   map[string]character.RawItem
	infoCalls int
}

func (f *fakeFetcher) UserComments(ctx context.Context, username string, limit int) ([]character.RawItem, error) {
	return f.comments, nil
}

func (f *fakeFetcher) Info(ctx context.Context, fullname string) (*character.RawItem, error) {
	f.infoCalls++
	item, ok := f.parents[fullname]
	if !ok {
		return nil, fmt.Errorf("info %s: %w", fullname, reddit.ErrNotFound)
	}
	return &item, nil
}

func testService(t *testing.T, fetcher *fakeFetcher) *Service {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, fetcher, character.DefaultOptions(), zap.NewNop())
}

func TestGenerate(t *testing.T) {
	fetcher := &fakeFetcher{
		comments: []character.RawItem{
			{Fullname: "t1_r1", Kind: character.KindComment, Author: "fialovy",
				Body: "A reply long enough to qualify.", ParentID: "t1_alice", Score: 3},
		},
		parents: map[string]character.RawItem{
			"t1_alice": {Fullname: "t1_alice", Kind: character.KindComment, Author: "alice",
				Body: "A parent comment with enough length.", Score: 1},
		},
	}
	svc := testService(t, fetcher)

	def, err := svc.Generate(context.Background(), Request{Username: "fialovy"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if def.Included != 1 {
		t.Fatalf("Included = %d, want 1: %+v", def.Included, def)
	}
	if !strings.Contains(def.Text, "{{random_user_1}}: A parent comment") {
		t.Errorf("definition missing parent line:\n%s", def.Text)
	}

	// The run was recorded.
	runs, err := svc.DB.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Username != "fialovy" || runs[0].Included != 1 {
		t.Errorf("run not recorded correctly: %+v", runs)
	}
	if runs[0].ID == "" {
		t.Error("run missing id")
	}
}

func TestGenerateCachesParents(t *testing.T) {
	parent := character.RawItem{Fullname: "t1_alice", Kind: character.KindComment,
		Author: "alice", Body: "A parent comment with enough length."}
	fetcher := &fakeFetcher{
		comments: []character.RawItem{
			{Fullname: "t1_r1", Kind: character.KindComment, Author: "fialovy",
				Body: "A reply long enough to qualify.", ParentID: "t1_alice", Score: 3},
		},
		parents: map[string]character.RawItem{"t1_alice": parent},
	}
	svc := testService(t, fetcher)

	if _, err := svc.Generate(context.Background(), Request{Username: "fialovy"}); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if fetcher.infoCalls != 1 {
		t.Fatalf("infoCalls = %d, want 1", fetcher.infoCalls)
	}

	// Second run resolves the parent from the cache.
	if _, err := svc.Generate(context.Background(), Request{Username: "fialovy"}); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if fetcher.infoCalls != 1 {
		t.Errorf("infoCalls = %d after second run, want 1 (cache miss)", fetcher.infoCalls)
	}
}

func TestGenerateOffline(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := testService(t, fetcher)

	seed := []character.RawItem{
		{Fullname: "t1_r1", Kind: character.KindComment, Author: "fialovy",
			Body: "A cached reply long enough to use.", ParentID: "t1_alice", CreatedUTC: 10, Score: 2},
		{Fullname: "t1_alice", Kind: character.KindComment, Author: "alice",
			Body: "A cached parent with enough length.", CreatedUTC: 5, Score: 1},
	}
	if err := svc.DB.UpsertItems(seed); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	def, err := svc.Generate(context.Background(), Request{Username: "fialovy", Offline: true})
	if err != nil {
		t.Fatalf("Generate offline: %v", err)
	}
	if def.Included != 1 {
		t.Fatalf("Included = %d, want 1: %+v", def.Included, def)
	}
	if fetcher.infoCalls != 0 {
		t.Errorf("offline generation hit the network: %d info calls", fetcher.infoCalls)
	}
}

func TestGenerateMissingParentIsSentinel(t *testing.T) {
	fetcher := &fakeFetcher{
		comments: []character.RawItem{
			{Fullname: "t1_r1", Kind: character.KindComment, Author: "fialovy",
				Body: "Replying to something long gone.", ParentID: "t1_gone", Score: 1},
		},
		parents: map[string]character.RawItem{},
	}
	svc := testService(t, fetcher)

	def, err := svc.Generate(context.Background(), Request{Username: "fialovy"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(def.Text, character.ParentUnavailable) {
		t.Errorf("sentinel missing:\n%s", def.Text)
	}
}

func TestGenerateRequiresUsername(t *testing.T) {
	svc := testService(t, &fakeFetcher{})
	if _, err := svc.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty username")
	}
}
