package audit

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Entry 一次提交的审计记录
type Entry struct {
	ID          string
	ChatID      int64
	Command     string
	SubmitterID string
	Inserted    int
	Updated     int
	Skipped     int
	CreatedAt   time.Time
}

// Log 提交审计日志，本地 SQLite 持久化
type Log struct {
	db *sql.DB
}

// Open 打开审计库并初始化表结构
func Open(dbPath string) (*Log, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite 建议单连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	l := &Log{db: db}
	if err := l.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return l, nil
}

// initSchema 初始化表结构
func (l *Log) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := l.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Record 写入一条审计记录
func (l *Log) Record(e Entry) error {
	_, err := l.db.Exec(
		`INSERT INTO submissions (id, chat_id, command, submitter_id, inserted, updated, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ChatID, e.Command, e.SubmitterID, e.Inserted, e.Updated, e.Skipped,
	)
	return err
}

// Recent 按时间倒序读取最近的审计记录
func (l *Log) Recent(limit int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, chat_id, command, submitter_id, inserted, updated, skipped, created_at
		 FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Command, &e.SubmitterID,
			&e.Inserted, &e.Updated, &e.Skipped, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close 关闭审计库
func (l *Log) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
