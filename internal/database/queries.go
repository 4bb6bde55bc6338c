package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/contenttrust/verifier/internal/models"
)

// ErrReportNotFound is returned when no report exists for a session.
var ErrReportNotFound = errors.New("report not found")

// SaveReport stores a batch report, replacing any previous report for
// the same session. Issues are denormalized for querying by type.
func (db *DB) SaveReport(report *models.BatchReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reports WHERE session_id = ?`, report.SessionID); err != nil {
		return fmt.Errorf("failed to replace previous report: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO reports (session_id, report, overall_status, quality_score, partial, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.SessionID, string(reportJSON), report.OverallStatus, report.QualityScore,
		boolToInt(report.Partial), report.VerifiedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for _, issue := range report.TopIssues {
		_, err = tx.Exec(`
			INSERT INTO report_issues (session_id, item_id, issue_type, reason)
			VALUES (?, ?, ?, ?)
		`, report.SessionID, issue.ItemID, issue.Type, issue.Reason)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReport retrieves the full report for a session.
func (db *DB) GetReport(sessionID string) (*models.BatchReport, error) {
	var reportJSON string
	err := db.conn.QueryRow(
		`SELECT report FROM reports WHERE session_id = ?`, sessionID,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report models.BatchReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// GetSummary retrieves the condensed summary for a session.
func (db *DB) GetSummary(sessionID string) (*models.Summary, error) {
	report, err := db.GetReport(sessionID)
	if err != nil {
		return nil, err
	}
	summary := report.Summarize()
	return &summary, nil
}

// SessionInfo is one row of the session listing.
type SessionInfo struct {
	SessionID     string    `json:"session_id"`
	OverallStatus string    `json:"overall_status"`
	QualityScore  float64   `json:"quality_score"`
	Partial       bool      `json:"partial"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListSessions returns recent sessions, newest first.
func (db *DB) ListSessions(limit, offset int) ([]SessionInfo, error) {
	rows, err := db.conn.Query(`
		SELECT session_id, overall_status, quality_score, partial, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var s SessionInfo
		var partial int
		if err := rows.Scan(&s.SessionID, &s.OverallStatus, &s.QualityScore, &partial, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Partial = partial != 0
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// DeleteReport removes a session's report and its issues.
func (db *DB) DeleteReport(sessionID string) error {
	res, err := db.conn.Exec(`DELETE FROM reports WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrReportNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
