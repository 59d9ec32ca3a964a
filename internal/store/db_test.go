package store

import (
	"testing"

	"github.com/fialovy/redditpersona/internal/character"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	db := testDB(t)

	version, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("schema version = %d, want %d", version, len(migrations))
	}
}

func TestUpsertAndGetItem(t *testing.T) {
	db := testDB(t)

	items := []character.RawItem{
		{Fullname: "t1_abc", Kind: character.KindComment, Author: "alice",
			Body: "a comment body", ParentID: "t3_post", CreatedUTC: 100, Score: 3},
		{Fullname: "t3_post", Kind: character.KindPost, Author: "bob",
			Title: "a post title", Body: "selftext", CreatedUTC: 50, Score: 10},
	}
	if err := db.UpsertItems(items); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	got, err := db.GetItem("t1_abc")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.Body != "a comment body" || got.Kind != character.KindComment {
		t.Errorf("GetItem = %+v", got)
	}

	// Upsert replaces
	items[0].Score = 9
	if err := db.UpsertItems(items[:1]); err != nil {
		t.Fatalf("UpsertItems (update): %v", err)
	}
	got, err = db.GetItem("t1_abc")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Score != 9 {
		t.Errorf("Score after upsert = %d, want 9", got.Score)
	}

	if n, _ := db.CountItems(); n != 2 {
		t.Errorf("CountItems = %d, want 2", n)
	}
}

func TestGetItemMissing(t *testing.T) {
	db := testDB(t)

	got, err := db.GetItem("t1_nothere")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for uncached item, got %+v", got)
	}
}

func TestCommentsByAuthor(t *testing.T) {
	db := testDB(t)

	items := []character.RawItem{
		{Fullname: "t1_old", Kind: character.KindComment, Author: "fialovy", Body: "older", CreatedUTC: 100},
		{Fullname: "t1_new", Kind: character.KindComment, Author: "fialovy", Body: "newer", CreatedUTC: 200},
		{Fullname: "t1_other", Kind: character.KindComment, Author: "alice", Body: "not hers", CreatedUTC: 300},
		{Fullname: "t3_post", Kind: character.KindPost, Author: "fialovy", Title: "not a comment", CreatedUTC: 400},
	}
	if err := db.UpsertItems(items); err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}

	got, err := db.CommentsByAuthor("Fialovy", 10)
	if err != nil {
		t.Fatalf("CommentsByAuthor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(got))
	}
	if got[0].Fullname != "t1_new" {
		t.Errorf("not newest-first: %+v", got)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	db := testDB(t)

	runs := []Run{
		{ID: "run-1", Username: "fialovy", Length: 12000, Included: 40, Truncated: false, CreatedAt: 1000},
		{ID: "run-2", Username: "fialovy", Length: 31990, Included: 88, Truncated: true, CreatedAt: 2000},
	}
	for _, r := range runs {
		if err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].ID != "run-2" || !got[0].Truncated {
		t.Errorf("not newest-first or truncated flag lost: %+v", got[0])
	}
}
