package domain

import (
	"sort"
	"time"
)

// GroupKey identifies the logical meeting a per-student row belongs to.
// Organizer identity is not part of the key; callers scope rows by organizer
// before grouping when that matters.
type GroupKey struct {
	Date        string
	Time        string
	Description string
}

// MeetingRow is one stored per-student meeting row joined with the student's
// display fields.
type MeetingRow struct {
	ID          int64
	FacultyID   int64
	HODID       *int64
	StudentID   int64
	StudentName string
	RollNumber  int64
	Date        string
	Time        string
	Description string
	Status      MeetingStatus
	Review      string
	Attended    bool
	CreatedAt   time.Time
}

// Key returns the grouping key of the row.
func (r MeetingRow) Key() GroupKey {
	return GroupKey{Date: r.Date, Time: r.Time, Description: r.Description}
}

// GroupStudent is one participant inside a group meeting.
type GroupStudent struct {
	MeetingID  int64  `json:"meetingId"`
	StudentID  int64  `json:"studentId"`
	Name       string `json:"name"`
	RollNumber int64  `json:"rollNumber"`
	Review     string `json:"review"`
	Attended   bool   `json:"attended"`
}

// GroupMeeting is the aggregated view of rows sharing one GroupKey.
type GroupMeeting struct {
	ID            int64          `json:"id"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Description   string         `json:"description"`
	Status        MeetingStatus  `json:"status"`
	DisplayStatus MeetingStatus  `json:"displayStatus"`
	StudentCount  int            `json:"studentCount"`
	Students      []GroupStudent `json:"students"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Key returns the grouping key of the group.
func (g GroupMeeting) Key() GroupKey {
	return GroupKey{Date: g.Date, Time: g.Time, Description: g.Description}
}

// GroupMeetings buckets rows by GroupKey. The representative id, status and
// createdAt come from the lowest-id row of each bucket. Output is ordered by
// date descending, time descending, then description; students within a group
// by roll number.
func GroupMeetings(rows []MeetingRow) []GroupMeeting {
	buckets := make(map[GroupKey]*GroupMeeting)
	order := make([]GroupKey, 0)

	for _, r := range rows {
		k := r.Key()
		g, ok := buckets[k]
		if !ok {
			g = &GroupMeeting{
				ID:          r.ID,
				Date:        r.Date,
				Time:        r.Time,
				Description: r.Description,
				Status:      r.Status,
				CreatedAt:   r.CreatedAt,
			}
			buckets[k] = g
			order = append(order, k)
		} else if r.ID < g.ID {
			g.ID = r.ID
			g.Status = r.Status
			g.CreatedAt = r.CreatedAt
		}
		g.Students = append(g.Students, GroupStudent{
			MeetingID:  r.ID,
			StudentID:  r.StudentID,
			Name:       r.StudentName,
			RollNumber: r.RollNumber,
			Review:     r.Review,
			Attended:   r.Attended,
		})
	}

	out := make([]GroupMeeting, 0, len(order))
	for _, k := range order {
		g := buckets[k]
		sort.Slice(g.Students, func(i, j int) bool {
			if g.Students[i].RollNumber != g.Students[j].RollNumber {
				return g.Students[i].RollNumber < g.Students[j].RollNumber
			}
			return g.Students[i].MeetingID < g.Students[j].MeetingID
		})
		g.StudentCount = len(g.Students)
		g.DisplayStatus = g.Status
		out = append(out, *g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Time != b.Time {
			return a.Time > b.Time
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.ID < b.ID
	})
	return out
}

// ApplyDisplayStatus fills DisplayStatus on every group for the given instant.
func ApplyDisplayStatus(groups []GroupMeeting, now time.Time, loc *time.Location) {
	for i := range groups {
		groups[i].DisplayStatus = DisplayStatus(groups[i].Status, groups[i].Date, groups[i].Time, now, loc)
	}
}

var displayPriority = map[MeetingStatus]int{
	MeetingYetToDone: 0,
	MeetingCompleted: 1,
	MeetingUpcoming:  2,
	MeetingCancelled: 3,
}

// SortForDisplay orders groups by display status (YET_TO_DONE, COMPLETED,
// UPCOMING, CANCELLED), keeping the date ordering within each status.
func SortForDisplay(groups []GroupMeeting) {
	sort.SliceStable(groups, func(i, j int) bool {
		return displayPriority[groups[i].DisplayStatus] < displayPriority[groups[j].DisplayStatus]
	})
}

// MeetingStats counts groups by display status.
type MeetingStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Upcoming  int `json:"upcoming"`
	YetToDone int `json:"yetToDone"`
	Cancelled int `json:"cancelled"`
}

// Stats summarises groups whose DisplayStatus has been applied.
func Stats(groups []GroupMeeting) MeetingStats {
	s := MeetingStats{Total: len(groups)}
	for _, g := range groups {
		switch g.DisplayStatus {
		case MeetingCompleted:
			s.Completed++
		case MeetingUpcoming:
			s.Upcoming++
		case MeetingYetToDone:
			s.YetToDone++
		case MeetingCancelled:
			s.Cancelled++
		}
	}
	return s
}
