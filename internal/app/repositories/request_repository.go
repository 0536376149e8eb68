package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var requestColumns = []string{
	"id", "student_id", "type", "status", "request_data", "target_id", "remarks", "feedback",
	"assigned_to", "actioned_by", "actioned_at", "created_at", "updated_at",
}

// RequestRepository handles the request ledger
type RequestRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db DBTX) *RequestRepository {
	return &RequestRepository{db: db, sb: psql}
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(&req.ID, &req.StudentID, &req.Type, &req.Status, &req.RequestData, &req.TargetID,
		&req.Remarks, &req.Feedback, &req.AssignedTo, &req.ActionedBy, &req.ActionedAt,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a PENDING request
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	var data interface{}
	if len(request.RequestData) > 0 {
		data = request.RequestData
	}

	sql, args, err := r.sb.Insert("requests").
		Columns("student_id", "type", "status", "request_data", "target_id", "remarks", "assigned_to").
		Values(request.StudentID, request.Type, request.Status, data, request.TargetID, request.Remarks, request.AssignedTo).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create request SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.PendingDeleteConstraint) {
			return apperrors.NewConflictError("a pending delete request already exists for this record")
		}
		logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Error executing create request query")
		return err
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a request and locks its row
func (r *RequestRepository) GetForUpdate(ctx context.Context, id int64) (*models.Request, error) {
	return r.get(ctx, id, true)
}

func (r *RequestRepository) get(ctx context.Context, id int64, lock bool) (*models.Request, error) {
	builder := r.sb.Select(requestColumns...).From("requests").Where(squirrel.Eq{"id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request")
		return nil, err
	}
	return req, nil
}

// Transition moves a PENDING request to a terminal status
func (r *RequestRepository) Transition(ctx context.Context, id int64, status domain.RequestStatus, feedback *string, actionedBy int64, at time.Time) error {
	sql, args, err := r.sb.Update("requests").
		Set("status", status).
		Set("feedback", feedback).
		Set("actioned_by", actionedBy).
		Set("actioned_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", id).Str("status", string(status)).Msg("Error updating request status")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotPending
	}
	return nil
}

func applyRequestFilter(b squirrel.SelectBuilder, f models.RequestFilter) squirrel.SelectBuilder {
	if f.StudentID != nil {
		b = b.Where(squirrel.Eq{"student_id": *f.StudentID})
	}
	if f.AssignedTo != nil {
		b = b.Where(squirrel.Eq{"assigned_to": *f.AssignedTo})
	}
	if f.Status != nil {
		b = b.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.Type != nil {
		b = b.Where(squirrel.Eq{"type": *f.Type})
	}
	return b
}

// List returns one page of requests, newest first, plus the total count
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.Request, int64, error) {
	countSQL, countArgs, err := applyRequestFilter(r.sb.Select("count(*)").From("requests"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count requests SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count requests query")
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Request{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := applyRequestFilter(r.sb.Select(requestColumns...).From("requests"), filter).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying requests")
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*models.Request, 0, limit)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning request row")
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

// HasPendingForTarget reports whether a pending request of the type already targets the record
func (r *RequestRepository) HasPendingForTarget(ctx context.Context, requestType domain.RequestType, targetID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").From("requests").
		Where(squirrel.Eq{"type": requestType, "target_id": targetID, "status": domain.StatusPending}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountByStatus groups matching requests by status. Paging fields are ignored.
func (r *RequestRepository) CountByStatus(ctx context.Context, filter models.RequestFilter) (map[domain.RequestStatus]int, error) {
	sql, args, err := applyRequestFilter(r.sb.Select("status", "count(*)").From("requests"), filter).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting requests by status")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RequestStatus]int)
	for rows.Next() {
		var status domain.RequestStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
