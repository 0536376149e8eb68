package domain

// RequestType classifies a change proposal submitted by a student.
type RequestType string

const (
	RequestInternship       RequestType = "INTERNSHIP"
	RequestProject          RequestType = "PROJECT"
	RequestDeleteInternship RequestType = "DELETE_INTERNSHIP"
	RequestDeleteProject    RequestType = "DELETE_PROJECT"
	RequestMeeting          RequestType = "MEETING_REQUEST"
)

// Valid reports whether t is a known request type.
func (t RequestType) Valid() bool {
	switch t {
	case RequestInternship, RequestProject, RequestDeleteInternship, RequestDeleteProject, RequestMeeting:
		return true
	}
	return false
}

// IsDelete reports whether t removes an existing entity identified by a target id.
func (t RequestType) IsDelete() bool {
	return t == RequestDeleteInternship || t == RequestDeleteProject
}

// RequestStatus is the ledger state of a request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransition reports whether a request may move from one status to another.
// Only PENDING requests move, and only into a terminal state.
func CanTransition(from, to RequestStatus) bool {
	return from == StatusPending && to.IsTerminal()
}
