// Package seed inserts demo departments, accounts and profiles.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/mentorhub/internal/app/models"
	appRepos "github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/auth"
)

// DefaultPassword is the password of every seeded account unless overridden
const DefaultPassword = "mentorhub123"

type departmentSeed struct {
	code string
	name string
}

type facultySeed struct {
	employeeID string
	name       string
	department string
	hod        bool
}

type studentSeed struct {
	roll       int64
	name       string
	department string
	year       int
}

var (
	departments = []departmentSeed{
		{"CSE", "Computer Science and Engineering"},
		{"ECE", "Electronics and Communication Engineering"},
	}

	faculty = []facultySeed{
		{"FAC-001", "Dr. Meera Iyer", "CSE", true},
		{"FAC-002", "Prof. Arjun Rao", "CSE", false},
		{"FAC-003", "Dr. Kavya Nair", "ECE", true},
		{"FAC-004", "Prof. Rohan Das", "ECE", false},
	}

	students = []studentSeed{
		{21001, "Aditi Sharma", "CSE", 2},
		{21002, "Rahul Verma", "CSE", 2},
		{21003, "Sneha Pillai", "CSE", 2},
		{21004, "Vikram Singh", "CSE", 2},
		{21101, "Neha Gupta", "ECE", 2},
		{21102, "Karan Mehta", "ECE", 2},
	}
)

// Result counts the rows inserted by Run
type Result struct {
	Departments int
	Users       int
	Faculty     int
	HODs        int
	Students    int
}

// Run inserts the demo data in one transaction. Rows that already exist
// (matched by department code, email, employee id or roll number) are left
// untouched, so Run can be repeated.
func Run(ctx context.Context, store appRepos.Store, password string, lgr zerolog.Logger) (*Result, error) {
	if password == "" {
		password = DefaultPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	res := &Result{}
	err = store.WithTx(ctx, func(ctx context.Context, tx appRepos.Store) error {
		s := &seeder{tx: tx, hash: hash, res: res, deptIDs: make(map[string]int64)}
		return s.run(ctx)
	})
	if err != nil {
		return nil, err
	}

	lgr.Info().
		Int("departments", res.Departments).
		Int("users", res.Users).
		Int("faculty", res.Faculty).
		Int("hods", res.HODs).
		Int("students", res.Students).
		Msg("Seed data applied")
	return res, nil
}

type seeder struct {
	tx      appRepos.Store
	hash    string
	res     *Result
	deptIDs map[string]int64
}

func (s *seeder) run(ctx context.Context) error {
	for _, d := range departments {
		if err := s.department(ctx, d); err != nil {
			return err
		}
	}
	if _, err := s.user(ctx, "admin@college.edu", appModels.RoleAdmin); err != nil {
		return err
	}
	for _, f := range faculty {
		if err := s.faculty(ctx, f); err != nil {
			return err
		}
	}
	for _, st := range students {
		if err := s.student(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) department(ctx context.Context, d departmentSeed) error {
	existing, err := s.tx.Departments().GetByCode(ctx, d.code)
	if err == nil {
		s.deptIDs[d.code] = existing.ID
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("error looking up department %s: %w", d.code, err)
	}

	dept := &appModels.Department{Code: d.code, Name: d.name}
	if err := s.tx.Departments().Create(ctx, dept); err != nil {
		return fmt.Errorf("error creating department %s: %w", d.code, err)
	}
	s.deptIDs[d.code] = dept.ID
	s.res.Departments++
	return nil
}

// user returns the id of the account with email, creating it when missing
func (s *seeder) user(ctx context.Context, email string, role appModels.Role) (int64, error) {
	existing, err := s.tx.Users().GetByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return 0, fmt.Errorf("error looking up user %s: %w", email, err)
	}

	u := &appModels.User{Email: email, Password: s.hash, Role: role, IsActive: true}
	if err := s.tx.Users().Create(ctx, u); err != nil {
		return 0, fmt.Errorf("error creating user %s: %w", email, err)
	}
	s.res.Users++
	return u.ID, nil
}

func emailFor(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	var parts []string
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f == "dr" || f == "prof" {
			continue
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, ".") + "@college.edu"
}

func (s *seeder) faculty(ctx context.Context, f facultySeed) error {
	deptID := s.deptIDs[f.department]

	fac, err := s.tx.Faculty().GetByEmployeeID(ctx, f.employeeID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrResourceNotFound):
		role := appModels.RoleFaculty
		if f.hod {
			role = appModels.RoleHOD
		}
		email := emailFor(f.name)
		userID, err := s.user(ctx, email, role)
		if err != nil {
			return err
		}
		fac = &appModels.Faculty{
			UserID:       userID,
			EmployeeID:   f.employeeID,
			Name:         f.name,
			DepartmentID: deptID,
			CollegeEmail: email,
		}
		if err := s.tx.Faculty().Create(ctx, fac); err != nil {
			return fmt.Errorf("error creating faculty %s: %w", f.employeeID, err)
		}
		s.res.Faculty++
	default:
		return fmt.Errorf("error looking up faculty %s: %w", f.employeeID, err)
	}

	if !f.hod {
		return nil
	}
	hod, err := s.tx.HODs().FindActiveByDepartment(ctx, deptID)
	if err != nil {
		return fmt.Errorf("error looking up head of %s: %w", f.department, err)
	}
	if hod != nil {
		return nil
	}
	if err := s.tx.HODs().Create(ctx, &appModels.HOD{FacultyID: fac.ID, DepartmentID: deptID}); err != nil {
		return fmt.Errorf("error creating head of %s: %w", f.department, err)
	}
	s.res.HODs++
	return nil
}

func (s *seeder) student(ctx context.Context, st studentSeed) error {
	found, err := s.tx.Students().GetByRollNumbers(ctx, []int64{st.roll})
	if err != nil {
		return fmt.Errorf("error looking up student %d: %w", st.roll, err)
	}
	if len(found) > 0 {
		return nil
	}

	email := emailFor(st.name)
	userID, err := s.user(ctx, email, appModels.RoleStudent)
	if err != nil {
		return err
	}
	student := &appModels.Student{
		UserID:       userID,
		RollNumber:   st.roll,
		Name:         st.name,
		DepartmentID: s.deptIDs[st.department],
		CollegeEmail: email,
		CurrentYear:  st.year,
	}
	if err := s.tx.Students().Create(ctx, student); err != nil {
		return fmt.Errorf("error creating student %d: %w", st.roll, err)
	}
	s.res.Students++
	return nil
}
