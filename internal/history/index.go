package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Index is a derived SQLite FTS5 full-text index over recorded history
// entries, grounded on the teacher's terminal search index
// (apps/texelterm/parser/search_index.go): same trigram tokenizer, same
// "index commands synchronously, nothing else is batched" shape, because
// a command history has no equivalent of the teacher's bulk terminal
// output to defer. It is purely derived — rebuildable from the JSON log
// at any time — so a failure here never fails a Record.
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS commands (
	id INTEGER PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	cwd TEXT NOT NULL,
	exit_code INTEGER NOT NULL,
	content TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS commands_fts USING fts5(
	content,
	content='commands',
	content_rowid='id',
	tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS commands_ai AFTER INSERT ON commands BEGIN
	INSERT INTO commands_fts(rowid, content) VALUES (new.id, new.content);
END;
`

// OpenIndex opens (creating if needed) a SQLite-backed derived index at
// dbPath.
func OpenIndex(dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
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

// IndexEntry writes one history entry into the index, synchronously:
// commands are few enough per session that there is no batching payoff.
func (idx *Index) IndexEntry(id int64, e Entry) error {
	_, err := idx.db.Exec(
		"INSERT OR REPLACE INTO commands (id, timestamp, cwd, exit_code, content) VALUES (?, ?, ?, ?, ?)",
		id, e.Timestamp.UnixNano(), e.Cwd, e.ExitCode, e.Command,
	)
	if err != nil {
		log.Printf("history: index write failed: %v", err)
	}
	return err
}

// SearchResult is one match from the derived index.
type SearchResult struct {
	ID        int64
	Timestamp time.Time
	Cwd       string
	ExitCode  int
	Command   string
}

// Search runs a substring query over indexed command text, newest first.
// Queries shorter than 3 characters fall back to LIKE, since the trigram
// tokenizer needs at least 3 characters to produce a trigram.
func (idx *Index) Search(query string, limit int) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}

	var rows *sql.Rows
	var err error
	if len(query) < 3 {
		rows, err = idx.db.Query(`
			SELECT id, timestamp, cwd, exit_code, content
			FROM commands
			WHERE content LIKE ?
			ORDER BY timestamp DESC
			LIMIT ?
		`, "%"+query+"%", limit)
	} else {
		quoted := `"` + query + `"`
		rows, err = idx.db.Query(`
			SELECT c.id, c.timestamp, c.cwd, c.exit_code, c.content
			FROM commands_fts
			JOIN commands c ON c.id = commands_fts.rowid
			WHERE commands_fts MATCH ?
			ORDER BY c.timestamp DESC
			LIMIT ?
		`, quoted, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var tsNano int64
		if err := rows.Scan(&r.ID, &tsNano, &r.Cwd, &r.ExitCode, &r.Command); err != nil {
			continue
		}
		r.Timestamp = time.Unix(0, tsNano)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}
