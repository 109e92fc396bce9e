package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliFrzngn/zcoil/internal/domain"
)

type AuditStore interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	ListByUser(ctx context.Context, userID string, page, size int) ([]*domain.AuditLog, int, error)
	List(ctx context.Context, page, size int) ([]*domain.AuditLog, int, error)
}

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

const auditColumns = `id, user_id, action, resource_type, resource_id, details, metadata, ip_address, user_agent, created_at`

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	var metadata []byte
	if len(entry.Metadata) > 0 {
		metadata, _ = json.Marshal(entry.Metadata)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, nilIfEmpty(entry.UserID), entry.Action, entry.ResourceType,
		nilIfEmpty(entry.ResourceID), nilIfEmpty(entry.Details), metadata,
		nilIfEmpty(entry.IPAddress), nilIfEmpty(entry.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func scanAudit(row pgx.Row) (*domain.AuditLog, error) {
	entry := new(domain.AuditLog)
	var userID, resourceID, details, ipAddress, userAgent *string
	var metadata []byte
	err := row.Scan(&entry.ID, &userID, &entry.Action, &entry.ResourceType, &resourceID,
		&details, &metadata, &ipAddress, &userAgent, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	entry.UserID = deref(userID)
	entry.ResourceID = deref(resourceID)
	entry.Details = deref(details)
	entry.IPAddress = deref(ipAddress)
	entry.UserAgent = deref(userAgent)
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &entry.Metadata)
	}
	return entry, nil
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, page, size int) ([]*domain.AuditLog, int, error) {
	return r.list(ctx, `user_id = $1`, []interface{}{userID}, page, size)
}

func (r *AuditRepository) List(ctx context.Context, page, size int) ([]*domain.AuditLog, int, error) {
	return r.list(ctx, `TRUE`, nil, page, size)
}

func (r *AuditRepository) list(ctx context.Context, cond string, args []interface{}, page, size int) ([]*domain.AuditLog, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	page, size = normalizePage(page, size)
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM audit_logs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		auditColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditLog
	for rows.Next() {
		entry, err := scanAudit(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}
