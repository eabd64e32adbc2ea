package outputbuffer

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Index is a derived SQLite FTS5 substring index over appended scrollback
// lines, grounded on the same trigram-tokenizer shape as
// internal/history.Index (itself grounded on the teacher's
// apps/texelterm/parser/search_index.go): lines are indexed as they are
// appended, and the index is purely derived, so a write failure here never
// fails an Append.
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS lines (
	id INTEGER PRIMARY KEY,
	line_no INTEGER NOT NULL,
	content TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
	content,
	content='lines',
	content_rowid='id',
	tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
	INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;
`

// OpenIndex opens (creating if needed) a SQLite-backed derived index at
// dbPath. dbPath may be ":memory:" for a pane that doesn't need its
// scrollback search to survive a restart.
func OpenIndex(dbPath string) (*Index, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// IndexLine writes one scrollback line's text into the index under its
// logical line number.
func (idx *Index) IndexLine(lineNo int, text string) {
	_, err := idx.db.Exec(
		"INSERT INTO lines (line_no, content) VALUES (?, ?)",
		lineNo, text,
	)
	if err != nil {
		log.Printf("outputbuffer: index write failed: %v", err)
	}
}

// SearchMatch is one matching line from the derived index.
type SearchMatch struct {
	LineNo int
	Text   string
}

// Search runs a substring query over indexed scrollback text, returning
// matches in ascending line order. Queries shorter than 3 characters fall
// back to LIKE, since the trigram tokenizer needs at least 3 characters to
// produce a trigram.
func (idx *Index) Search(query string, limit int) ([]SearchMatch, error) {
	if query == "" {
		return nil, nil
	}

	var rows *sql.Rows
	var err error
	if len(query) < 3 {
		rows, err = idx.db.Query(`
			SELECT line_no, content FROM lines
			WHERE content LIKE ?
			ORDER BY line_no ASC
			LIMIT ?
		`, "%"+query+"%", limit)
	} else {
		quoted := `"` + query + `"`
		rows, err = idx.db.Query(`
			SELECT l.line_no, l.content
			FROM lines_fts
			JOIN lines l ON l.id = lines_fts.rowid
			WHERE lines_fts MATCH ?
			ORDER BY l.line_no ASC
			LIMIT ?
		`, quoted, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	defer rows.Close()

	var out []SearchMatch
	for rows.Next() {
		var m SearchMatch
		if err := rows.Scan(&m.LineNo, &m.Text); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}
