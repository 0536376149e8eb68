package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/validation"
)

// InternshipPayload is the requestData of an INTERNSHIP request.
type InternshipPayload struct {
	Semester     int    `json:"semester" validate:"required,min=1,max=12"`
	Type         string `json:"type" validate:"omitempty,max=50"`
	Organisation string `json:"organisation" validate:"notblank,max=200"`
	Stipend      *int   `json:"stipend" validate:"required,min=0"`
	Duration     string `json:"duration" validate:"notblank,max=50"`
	Location     string `json:"location" validate:"notblank,max=100"`
}

// ProjectPayload is the requestData of a PROJECT request.
type ProjectPayload struct {
	Semester     int      `json:"semester" validate:"required,min=1,max=12"`
	Title        string   `json:"title" validate:"notblank,max=200"`
	Description  string   `json:"description" validate:"notblank"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,notblank"`
	Mentor       string   `json:"mentor" validate:"omitempty,max=100"`
}

// MeetingRequestPayload is the requestData of a MEETING_REQUEST.
type MeetingRequestPayload struct {
	FacultyID   int64  `json:"facultyId" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required,meetingdate"`
	Time        string `json:"time" validate:"required,meetingtime"`
	Description string `json:"description" validate:"max=500"`
	Year        *int   `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
	Semester    *int   `json:"semester,omitempty" validate:"omitempty,min=1,max=2"`
}

// Payload is the decoded, validated body of a request. Exactly one field is
// set for create types; delete types carry only TargetID.
type Payload struct {
	Internship *InternshipPayload
	Project    *ProjectPayload
	Meeting    *MeetingRequestPayload
	TargetID   int64
}

// DecodePayload decodes raw according to t and validates it. Any failure is a
// validation error naming the offending fields.
func DecodePayload(t RequestType, raw json.RawMessage, targetID *int64) (*Payload, error) {
	if !t.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown request type %q", t))
	}

	if t.IsDelete() {
		if targetID == nil || *targetID <= 0 {
			return nil, apperrors.NewValidationError("targetId is required for " + string(t))
		}
		return &Payload{TargetID: *targetID}, nil
	}

	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, apperrors.NewValidationError("requestData is required for " + string(t))
	}

	p := &Payload{}
	var target interface{}
	switch t {
	case RequestInternship:
		p.Internship = &InternshipPayload{}
		target = p.Internship
	case RequestProject:
		p.Project = &ProjectPayload{}
		target = p.Project
	case RequestMeeting:
		p.Meeting = &MeetingRequestPayload{}
		target = p.Meeting
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, apperrors.NewValidationError("malformed requestData: " + err.Error())
	}
	if err := validation.Struct(target); err != nil {
		return nil, apperrors.NewValidationError(validation.Describe(err))
	}

	if p.Meeting != nil {
		p.Meeting.Description = strings.TrimSpace(p.Meeting.Description)
	}
	return p, nil
}
