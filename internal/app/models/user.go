package models

import (
	"time"
)

// Role is the principal's role as carried in the access token.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
	RoleHOD     Role = "HOD"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

// User defines the login account based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"mentor@college.edu"`
	Password    string     `json:"-" db:"password"`
	Role        Role       `json:"role" db:"role" example:"FACULTY"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Department is an academic department
type Department struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" example:"Computer Science"`
	Code string `json:"code" db:"code" example:"CSE"`
}

// Student defines the student profile based on the 'students' table
type Student struct {
	ID            int64   `json:"id" db:"id"`
	UserID        int64   `json:"userId" db:"user_id"`
	RollNumber    int64   `json:"rollNumber" db:"roll_number" example:"21001"`
	Name          string  `json:"name" db:"name"`
	DepartmentID  int64   `json:"departmentId" db:"department_id"`
	CollegeEmail  string  `json:"collegeEmail" db:"college_email"`
	PersonalEmail *string `json:"personalEmail,omitempty" db:"personal_email"`
	CurrentYear   int     `json:"currentYear" db:"current_year" example:"2"`
}

// Faculty defines the faculty (mentor) profile based on the 'faculty' table
type Faculty struct {
	ID            int64   `json:"id" db:"id"`
	UserID        int64   `json:"userId" db:"user_id"`
	EmployeeID    string  `json:"employeeId" db:"employee_id" example:"FAC-042"`
	Name          string  `json:"name" db:"name"`
	DepartmentID  int64   `json:"departmentId" db:"department_id"`
	CollegeEmail  string  `json:"collegeEmail" db:"college_email"`
	PersonalEmail *string `json:"personalEmail,omitempty" db:"personal_email"`
}

// HOD is a head-of-department tenure; active while EndDate is nil.
type HOD struct {
	ID           int64      `json:"id" db:"id"`
	FacultyID    int64      `json:"facultyId" db:"faculty_id"`
	DepartmentID int64      `json:"departmentId" db:"department_id"`
	StartDate    time.Time  `json:"startDate" db:"start_date"`
	EndDate      *time.Time `json:"endDate,omitempty" db:"end_date"`
}

// ContactEmail prefers the personal address when one is on file.
func ContactEmail(college string, personal *string) string {
	if personal != nil && *personal != "" {
		return *personal
	}
	return college
}
