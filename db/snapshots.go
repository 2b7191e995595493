package db

import (
	"database/sql"
	"errors"

	"readmeai/scanner"

	"github.com/rohanthewiz/serr"
)

// LanguageStat aggregates the files of one language in a run
type LanguageStat struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
	Tokens   int    `json:"tokens"`
}

// FileStat is one file of a run ranked by tokens
type FileStat struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Tokens   int    `json:"tokens"`
}

// Report summarizes a stored run
type Report struct {
	RunID        string         `json:"run_id"`
	Root         string         `json:"root"`
	Remote       bool           `json:"remote"`
	Files        int            `json:"files"`
	Tokens       int            `json:"tokens"`
	Dependencies int            `json:"dependencies"`
	Languages    []LanguageStat `json:"languages"`
	Largest      []FileStat     `json:"largest"`
}

// OtherLanguage labels files with no mapped language in aggregates
const OtherLanguage = "other"

// ErrRunNotFound is returned by Report for an unknown run id
var ErrRunNotFound = errors.New("run not found")

// SaveSnapshot stores the records and dependencies of a run. Saving the
// same run twice replaces it.
func (db *DB) SaveSnapshot(snap *scanner.Snapshot, dependencies []string) error {
	if snap == nil || snap.ID == "" {
		return serr.New("snapshot has no run id")
	}

	return db.Transaction(func(tx *sql.Tx) error {
		for _, table := range []string{"files", "dependencies"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_id = ?", snap.ID); err != nil {
				return serr.Wrap(err, "failed to clear previous run", "table", table)
			}
		}
		if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", snap.ID); err != nil {
			return serr.Wrap(err, "failed to clear previous run", "table", "runs")
		}

		if _, err := tx.Exec("INSERT INTO runs (id, root, remote) VALUES (?, ?, ?)", snap.ID, snap.Root, snap.Remote); err != nil {
			return serr.Wrap(err, "failed to insert run")
		}

		fileStmt, err := tx.Prepare(`
			INSERT INTO files (run_id, path, name, extension, language, tokens)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return serr.Wrap(err, "failed to prepare file insert")
		}
		defer fileStmt.Close()

		for _, r := range snap.Records {
			if _, err := fileStmt.Exec(snap.ID, r.Path, r.Name, r.Extension, r.Language, r.Tokens); err != nil {
				return serr.Wrap(err, "failed to insert file", "path", r.Path)
			}
		}

		depStmt, err := tx.Prepare("INSERT INTO dependencies (run_id, name) VALUES (?, ?)")
		if err != nil {
			return serr.Wrap(err, "failed to prepare dependency insert")
		}
		defer depStmt.Close()

		seen := make(map[string]bool, len(dependencies))
		for _, d := range dependencies {
			if seen[d] {
				continue
			}
			seen[d] = true
			if _, err := depStmt.Exec(snap.ID, d); err != nil {
				return serr.Wrap(err, "failed to insert dependency", "name", d)
			}
		}
		return nil
	})
}

// LanguageStats groups the files of a run by language, largest token share
// first. Unmapped files are grouped under OtherLanguage.
func (db *DB) LanguageStats(runID string) ([]LanguageStat, error) {
	rows, err := db.Query(`
		SELECT
			COALESCE(NULLIF(language, ''), '`+OtherLanguage+`') AS lang,
			COUNT(*) AS file_count,
			CAST(COALESCE(SUM(tokens), 0) AS BIGINT) AS token_total
		FROM files
		WHERE run_id = ?
		GROUP BY lang
		ORDER BY token_total DESC, lang
	`, runID)
	if err != nil {
		return nil, serr.Wrap(err, "failed to get language stats")
	}
	defer rows.Close()

	var stats []LanguageStat
	for rows.Next() {
		var s LanguageStat
		if err := rows.Scan(&s.Language, &s.Files, &s.Tokens); err != nil {
			return nil, serr.Wrap(err, "failed to scan language row")
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// LargestFiles returns up to limit files of a run with the most tokens
func (db *DB) LargestFiles(runID string, limit int) ([]FileStat, error) {
	rows, err := db.Query(`
		SELECT path, language, tokens
		FROM files
		WHERE run_id = ?
		ORDER BY tokens DESC, path
		LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, serr.Wrap(err, "failed to get largest files")
	}
	defer rows.Close()

	var files []FileStat
	for rows.Next() {
		var f FileStat
		if err := rows.Scan(&f.Path, &f.Language, &f.Tokens); err != nil {
			return nil, serr.Wrap(err, "failed to scan file row")
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Report aggregates a stored run
func (db *DB) Report(runID string, top int) (*Report, error) {
	rep := &Report{RunID: runID}

	err := db.QueryRow("SELECT root, remote FROM runs WHERE id = ?", runID).Scan(&rep.Root, &rep.Remote)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to load run")
	}

	err = db.QueryRow(`
		SELECT COUNT(*), CAST(COALESCE(SUM(tokens), 0) AS BIGINT) FROM files WHERE run_id = ?
	`, runID).Scan(&rep.Files, &rep.Tokens)
	if err != nil {
		return nil, serr.Wrap(err, "failed to count files")
	}

	err = db.QueryRow("SELECT COUNT(*) FROM dependencies WHERE run_id = ?", runID).Scan(&rep.Dependencies)
	if err != nil {
		return nil, serr.Wrap(err, "failed to count dependencies")
	}

	if rep.Languages, err = db.LanguageStats(runID); err != nil {
		return nil, err
	}
	if rep.Largest, err = db.LargestFiles(runID, top); err != nil {
		return nil, err
	}
	return rep, nil
}
