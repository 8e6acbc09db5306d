package storage

import (
	"database/sql"

	"invoicematch/internal/domain/ledger"
)

// ListBankConnections returns the owner's bank connections with their
// sync status, oldest first.
func (s *Storage) ListBankConnections(ownerID int64) ([]*ledger.BankConnection, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, institution_id, institution_name, status,
		       sync_status, sync_completed_at, sync_error, created_at
		FROM bank_connections
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var connections []*ledger.BankConnection
	for rows.Next() {
		var (
			conn            ledger.BankConnection
			syncCompletedAt sql.NullString
			createdAt       sql.NullString
		)
		err := rows.Scan(
			&conn.ID, &conn.OwnerID, &conn.InstitutionID, &conn.InstitutionName,
			&conn.Status, &conn.SyncStatus, &syncCompletedAt, &conn.SyncError,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		if conn.SyncCompletedAt, err = parseTimestamp(syncCompletedAt); err != nil {
			return nil, err
		}
		if created, err := parseTimestamp(createdAt); err != nil {
			return nil, err
		} else if created != nil {
			conn.CreatedAt = *created
		}
		connections = append(connections, &conn)
	}
	return connections, rows.Err()
}

// CreateBankConnection inserts a connection and returns its id.
func (s *Storage) CreateBankConnection(conn *ledger.BankConnection) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO bank_connections
		(user_id, institution_id, institution_name, status, sync_status, sync_error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		conn.OwnerID,
		conn.InstitutionID,
		conn.InstitutionName,
		conn.Status,
		conn.SyncStatus,
		conn.SyncError,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
