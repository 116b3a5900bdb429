package service

import (
	"fmt"
	"strings"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/util"
	"hexaboard_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DepartmentStore is the persistence surface the directory needs; satisfied
// by repository.DepartmentRepository.
type DepartmentStore interface {
	FindByName(name string) (*model.Department, error)
	FindByID(id string) (*model.Department, error)
	Create(dept *model.Department) error
	List() ([]model.Department, error)
	Delete(id string) error
	IncrementMemberCount(id string, delta int) error
	CommitAutoAssign(assignments map[string][]string) error
}

// UnassignedLister feeds the auto-assignment pass; satisfied by
// repository.UserRepository.
type UnassignedLister interface {
	ListUnassignedFreshers() ([]model.User, error)
	FindByID(id string) (*model.User, error)
	ClearDepartment(userID string) error
}

type DepartmentService struct {
	Depts DepartmentStore
	Users UnassignedLister
}

func NewDepartmentService(depts DepartmentStore, users UnassignedLister) *DepartmentService {
	return &DepartmentService{Depts: depts, Users: users}
}

// Resolve looks a department up by exact name and creates it on miss. The
// unique index on name turns the lookup/create race into a duplicate-key
// error which resolves by re-reading, so two concurrent resolvers converge
// on a single record.
func (s *DepartmentService) Resolve(name string) (*model.Department, error) {
	if name == "" {
		return nil, util.ErrDepartmentRequired
	}

	dept, err := s.Depts.FindByName(name)
	if err == nil {
		return dept, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &model.Department{
		Name:        name,
		Description: fmt.Sprintf("Department for %s", name),
		MemberCount: 0,
	}
	if err := s.Depts.Create(created); err != nil {
		// Lost the create race; the winner's record is authoritative.
		if existing, findErr := s.Depts.FindByName(name); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

// ResolveWithDetails is Resolve for the explicit admin create form: the
// extra fields apply only when the department does not exist yet.
func (s *DepartmentService) ResolveWithDetails(name, description, manager, location string) (*model.Department, error) {
	if name == "" {
		return nil, util.ErrDepartmentRequired
	}

	dept, err := s.Depts.FindByName(name)
	if err == nil {
		return dept, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &model.Department{
		Name:        name,
		Description: description,
		Manager:     manager,
		Location:    location,
		MemberCount: 0,
	}
	if err := s.Depts.Create(created); err != nil {
		if existing, findErr := s.Depts.FindByName(name); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (s *DepartmentService) IncrementMemberCount(id string, delta int) error {
	return s.Depts.IncrementMemberCount(id, delta)
}

func (s *DepartmentService) Get(id string) (*model.Department, error) {
	return s.Depts.FindByID(id)
}

func (s *DepartmentService) List() ([]model.Department, error) {
	return s.Depts.List()
}

func (s *DepartmentService) Delete(id string) error {
	if _, err := s.Depts.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrDepartmentNotFound
		}
		return err
	}
	return s.Depts.Delete(id)
}

// RemoveFresher detaches a fresher from a department and releases the
// cached membership count.
func (s *DepartmentService) RemoveFresher(departmentID, fresherID string) error {
	user, err := s.Users.FindByID(fresherID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.DepartmentID == nil || *user.DepartmentID != departmentID {
		return util.ErrDepartmentNotFound
	}

	if err := s.Users.ClearDepartment(fresherID); err != nil {
		return err
	}
	if err := s.Depts.IncrementMemberCount(departmentID, -1); err != nil {
		// The profile update committed; count drift is accepted and logged
		// rather than rolled back.
		logger.Log.Error("failed to decrement department member count",
			zap.String("departmentId", departmentID),
			zap.String("fresherId", fresherID),
			zap.Error(err))
	}
	return nil
}

// AutoAssign scans freshers that carry a free-text department name but no
// resolved department, resolves each name (creating departments on demand),
// and commits all profile updates plus per-department member count
// increments as one transaction. Profiles already holding a department are
// never touched, so an immediate second pass assigns zero.
func (s *DepartmentService) AutoAssign() (int, error) {
	freshers, err := s.Users.ListUnassignedFreshers()
	if err != nil {
		return 0, err
	}
	if len(freshers) == 0 {
		return 0, nil
	}

	resolved := make(map[string]*model.Department)
	assignments := make(map[string][]string)
	assigned := 0

	for _, fresher := range freshers {
		name := strings.TrimSpace(fresher.DepartmentName)
		if name == "" {
			continue
		}

		dept, ok := resolved[name]
		if !ok {
			dept, err = s.Resolve(name)
			if err != nil {
				return 0, err
			}
			resolved[name] = dept
		}

		assignments[dept.ID] = append(assignments[dept.ID], fresher.ID)
		assigned++
	}

	if assigned == 0 {
		return 0, nil
	}

	if err := s.Depts.CommitAutoAssign(assignments); err != nil {
		return 0, err
	}

	logger.Log.Info("auto-assigned freshers to departments",
		zap.Int("assigned", assigned),
		zap.Int("departments", len(assignments)))
	return assigned, nil
}
