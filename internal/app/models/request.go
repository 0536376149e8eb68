package models

import (
	"encoding/json"
	"time"

	"github.com/yigit/mentorhub/internal/domain"
)

// Request is one entry of the request ledger
type Request struct {
	ID          int64                `json:"id" db:"id"`
	StudentID   int64                `json:"studentId" db:"student_id"`
	Type        domain.RequestType   `json:"type" db:"type" example:"INTERNSHIP"`
	Status      domain.RequestStatus `json:"status" db:"status" example:"PENDING"`
	RequestData json.RawMessage      `json:"requestData,omitempty" db:"request_data" swaggertype:"object"`
	TargetID    *int64               `json:"targetId,omitempty" db:"target_id"`
	Remarks     *string              `json:"remarks,omitempty" db:"remarks"`
	Feedback    *string              `json:"feedback,omitempty" db:"feedback"`
	AssignedTo  int64                `json:"assignedTo" db:"assigned_to"`
	ActionedBy  *int64               `json:"actionedBy,omitempty" db:"actioned_by"`
	ActionedAt  *time.Time           `json:"actionedAt,omitempty" db:"actioned_at"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" db:"updated_at"`
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	StudentID  *int64
	AssignedTo *int64
	Status     *domain.RequestStatus
	Type       *domain.RequestType
	Page       int
	Size       int
}
