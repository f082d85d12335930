package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gabeoland-surg/video-library-metadata/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "videos.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts a video or refreshes its file metadata when the path is
// already indexed. PHI status and tags survive re-indexing.
func (s *Store) Upsert(ctx context.Context, v Video) (int64, error) {
	if strings.TrimSpace(v.Path) == "" {
		return 0, errors.New("video path is required")
	}
	if v.Filename == "" {
		v.Filename = filepath.Base(v.Path)
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (path, filename, ext, bytes, mtime)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             filename = excluded.filename,
             ext = excluded.ext,
             bytes = excluded.bytes,
             mtime = excluded.mtime`,
		v.Path,
		v.Filename,
		strings.ToLower(v.Ext),
		v.Bytes,
		v.ModTime,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert video: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT video_id FROM videos WHERE path = ?`, v.Path).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve video id: %w", err)
	}
	return id, nil
}

// Get fetches a video by identifier, or nil when absent.
func (s *Store) Get(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE video_id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// List returns videos matching the filter ordered by modification time,
// newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Video, error) {
	query := `SELECT ` + qualifiedVideoColumns + ` FROM videos v`
	var clauses []string
	var args []any

	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query += ` JOIN video_tags vt ON vt.video_id = v.video_id
                   JOIN tags t ON t.tag_id = vt.tag_id`
		clauses = append(clauses, `t.name = ?`)
		args = append(args, tag)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		clauses = append(clauses, `(v.filename LIKE ? OR v.path LIKE ?)`)
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.PHIStatus != "" {
		clauses = append(clauses, `v.phi_status = ?`)
		args = append(args, string(filter.PHIStatus))
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY v.mtime DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *video)
	}
	return videos, rows.Err()
}

// SetPHIStatus updates the review state of a video.
func (s *Store) SetPHIStatus(ctx context.Context, id int64, status PHIStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE videos SET phi_status = ? WHERE video_id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set phi status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video %d not found", id)
	}
	return nil
}

// SetTags replaces a video's tag set, creating missing tags. Blank names
// are dropped and duplicates collapse.
func (s *Store) SetTags(ctx context.Context, id int64, names []string) error {
	unique := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			unique[name] = struct{}{}
		}
	}
	cleaned := make([]string, 0, len(unique))
	for name := range unique {
		cleaned = append(cleaned, name)
	}
	sort.Strings(cleaned)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tags tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM video_tags WHERE video_id = ?`, id); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	for _, name := range cleaned {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO video_tags (video_id, tag_id)
             SELECT ?, tag_id FROM tags WHERE name = ?`,
			id, name,
		); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tags: %w", err)
	}
	return nil
}

// Tags returns a video's tag names sorted alphabetically.
func (s *Store) Tags(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT t.name FROM tags t
         JOIN video_tags vt ON vt.tag_id = t.tag_id
         WHERE vt.video_id = ?
         ORDER BY t.name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("video tags: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// AllTags returns every known tag name sorted alphabetically.
func (s *Store) AllTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("all tags: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// Stats returns a count of videos grouped by PHI status.
func (s *Store) Stats(ctx context.Context) (map[PHIStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT phi_status, COUNT(1) FROM videos GROUP BY phi_status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[PHIStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[PHIStatus(status)] = count
	}
	return stats, rows.Err()
}

const videoColumns = "video_id, path, filename, ext, bytes, mtime, phi_status"

const qualifiedVideoColumns = "v.video_id, v.path, v.filename, v.ext, v.bytes, v.mtime, v.phi_status"

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id      int64
		path    string
		name    string
		ext     sql.NullString
		bytes   sql.NullInt64
		modTime sql.NullFloat64
		status  sql.NullString
	)
	if err := scanner.Scan(&id, &path, &name, &ext, &bytes, &modTime, &status); err != nil {
		return nil, err
	}
	video := &Video{
		ID:        id,
		Path:      path,
		Filename:  name,
		Ext:       ext.String,
		Bytes:     bytes.Int64,
		ModTime:   modTime.Float64,
		PHIStatus: PHIUnknown,
	}
	if status.Valid && status.String != "" {
		video.PHIStatus = PHIStatus(status.String)
	}
	return video, nil
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
