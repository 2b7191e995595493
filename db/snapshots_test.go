package db

import (
	"errors"
	"reflect"
	"testing"

	"readmeai/scanner"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fixtureSnapshot() *scanner.Snapshot {
	return &scanner.Snapshot{
		ID:   "run-1",
		Root: "/src/app",
		Records: []scanner.FileRecord{
			{Name: "main.py", Path: "main.py", Extension: "py", Language: "python", Tokens: 120},
			{Name: "util.py", Path: "pkg/util.py", Extension: "py", Language: "python", Tokens: 30},
			{Name: "main.go", Path: "cmd/main.go", Extension: "go", Language: "go", Tokens: 200},
			{Name: "LICENSE", Path: "LICENSE", Tokens: 10},
			{Name: scanner.WorkflowName, Path: ".github/workflows/ci.yml"},
		},
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openMemory(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var version int
	if err := db.QueryRow("SELECT MAX(version) FROM migrations").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}

func TestSnapshotReport(t *testing.T) {
	db := openMemory(t)
	snap := fixtureSnapshot()

	if err := db.SaveSnapshot(snap, []string{"flask", "go", "py", "python"}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	langs, err := db.LanguageStats(snap.ID)
	if err != nil {
		t.Fatalf("LanguageStats: %v", err)
	}
	wantLangs := []LanguageStat{
		{Language: "go", Files: 1, Tokens: 200},
		{Language: "python", Files: 2, Tokens: 150},
		{Language: OtherLanguage, Files: 2, Tokens: 10},
	}
	if !reflect.DeepEqual(langs, wantLangs) {
		t.Errorf("language stats = %+v, want %+v", langs, wantLangs)
	}

	largest, err := db.LargestFiles(snap.ID, 2)
	if err != nil {
		t.Fatalf("LargestFiles: %v", err)
	}
	wantLargest := []FileStat{
		{Path: "cmd/main.go", Language: "go", Tokens: 200},
		{Path: "main.py", Language: "python", Tokens: 120},
	}
	if !reflect.DeepEqual(largest, wantLargest) {
		t.Errorf("largest = %+v, want %+v", largest, wantLargest)
	}

	rep, err := db.Report(snap.ID, 3)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.Root != "/src/app" || rep.Files != 5 || rep.Tokens != 360 || rep.Dependencies != 4 || len(rep.Largest) != 3 {
		t.Errorf("report = %+v", rep)
	}
}

func TestSaveSnapshotReplacesRun(t *testing.T) {
	db := openMemory(t)
	snap := fixtureSnapshot()

	if err := db.SaveSnapshot(snap, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	snap.Records = snap.Records[:1]
	if err := db.SaveSnapshot(snap, []string{"a"}); err != nil {
		t.Fatal(err)
	}

	rep, err := db.Report(snap.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Files != 1 || rep.Dependencies != 1 {
		t.Errorf("report after replace = %+v", rep)
	}
}

func TestReportUnknownRun(t *testing.T) {
	db := openMemory(t)
	if _, err := db.Report("missing", 5); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("got %v, want ErrRunNotFound", err)
	}
	if err := db.SaveSnapshot(&scanner.Snapshot{}, nil); err == nil {
		t.Error("expected an error for a snapshot without id")
	}
}
