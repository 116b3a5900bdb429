package service

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/repository"
	"hexaboard_backend/internal/util"
	"hexaboard_backend/pkg/logger"
	"hexaboard_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistence surface for fresher profiles; satisfied by
// repository.UserRepository.
type UserStore interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	List(page, pageSize int, filter repository.UserFilter) ([]model.User, int64, error)
	DeleteWithDependents(id string) (*model.User, error)
}

// DepartmentResolver is the slice of the department directory provisioning
// needs; satisfied by DepartmentService.
type DepartmentResolver interface {
	Resolve(name string) (*model.Department, error)
	IncrementMemberCount(id string, delta int) error
}

// WelcomeNotifier hands the welcome mail to the outbox; satisfied by
// NotificationService.
type WelcomeNotifier interface {
	EnqueueWelcomeEmail(to, name, userID, password string) error
}

type FresherService struct {
	Users    UserStore
	Depts    DepartmentResolver
	Notifier WelcomeNotifier
}

func NewFresherService(users UserStore, depts DepartmentResolver, notifier WelcomeNotifier) *FresherService {
	return &FresherService{Users: users, Depts: depts, Notifier: notifier}
}

type ProvisionRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required"`
	DepartmentName string `json:"departmentName" binding:"required"`
	StartDate      string `json:"startDate"`
}

type ProvisionResult struct {
	ID                string `json:"id"`
	TemporaryPassword string `json:"temporaryPassword"`
}

// Provision creates the identity and profile for a new fresher as one
// logical unit. The step order is fixed: resolve department, generate a
// temporary password, create the account (duplicate email aborts here,
// before any dependent write), bump the department's member count, then
// enqueue the welcome mail. The steps after account creation are not
// atomic with it; a failure there is surfaced as a partial failure with
// enough detail to reconcile by hand.
func (s *FresherService) Provision(req ProvisionRequest) (*ProvisionResult, error) {
	return s.provision(req, model.Fresher)
}

func (s *FresherService) provision(req ProvisionRequest, role model.UserRole) (*ProvisionResult, error) {
	if strings.TrimSpace(req.DepartmentName) == "" {
		return nil, util.ErrDepartmentRequired
	}
	if !util.IsValidEmail(req.Email) {
		return nil, util.ErrInvalidEmail
	}

	dept, err := s.Depts.Resolve(req.DepartmentName)
	if err != nil {
		return nil, err
	}

	password := util.GenerateTempPassword(util.TempPasswordLength)

	if _, err := s.Users.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           role,
		DepartmentID:   &dept.ID,
		DepartmentName: req.DepartmentName,
		Status:         model.StatusActive,
	}
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			user.StartDate = &t
		}
	}

	if err := s.Users.Create(user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	if err := s.Depts.IncrementMemberCount(dept.ID, 1); err != nil {
		pf := &util.PartialFailureError{
			Op:      "provision fresher",
			UserID:  user.ID,
			Email:   user.Email,
			Wrapped: err,
		}
		logger.Log.Error("fresher provisioned but member count update failed",
			zap.String("userId", user.ID),
			zap.String("email", user.Email),
			zap.String("departmentId", dept.ID),
			zap.Error(err))
		return nil, pf
	}

	// Delivery is fire-and-forget: an enqueue failure is logged, never
	// allowed to fail the provisioning.
	if err := s.Notifier.EnqueueWelcomeEmail(user.Email, user.Name, user.ID, password); err != nil {
		logger.Log.Error("failed to enqueue welcome email",
			zap.String("userId", user.ID),
			zap.String("email", user.Email),
			zap.Error(err))
	}

	monitoring.FreshersProvisioned.Inc()

	return &ProvisionResult{ID: user.ID, TemporaryPassword: password}, nil
}

type BulkRowResult struct {
	Email string `json:"email"`
	Error string `json:"error,omitempty"`
}

type BulkImportResult struct {
	Success []BulkRowResult `json:"success"`
	Failed  []BulkRowResult `json:"failed"`
}

// BulkImport provisions one fresher per CSV row. Rows are attempted and
// reported independently; the call never fails as a whole. Expected header
// columns: email, name, department, and optionally role.
func (s *FresherService) BulkImport(r io.Reader) (*BulkImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	result := &BulkImportResult{
		Success: []BulkRowResult{},
		Failed:  []BulkRowResult{},
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed = append(result.Failed, BulkRowResult{Error: err.Error()})
			continue
		}

		email := field(row, "email")
		name := field(row, "name")
		department := field(row, "department")

		if email == "" || name == "" || department == "" {
			result.Failed = append(result.Failed, BulkRowResult{
				Email: email,
				Error: "email, name and department are required",
			})
			continue
		}

		role := model.UserRole(field(row, "role"))
		if role == "" {
			role = model.Fresher
		}

		if _, err := s.provision(ProvisionRequest{
			Name:           name,
			Email:          email,
			DepartmentName: department,
		}, role); err != nil {
			result.Failed = append(result.Failed, BulkRowResult{Email: email, Error: err.Error()})
			continue
		}
		result.Success = append(result.Success, BulkRowResult{Email: email})
	}

	return result, nil
}

// Delete removes a fresher's identity, profile and owned records. Deleting
// an already-missing fresher reports success, so retries after a partial
// failure converge instead of erroring.
func (s *FresherService) Delete(fresherID string) error {
	user, err := s.Users.DeleteWithDependents(fresherID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if user.DepartmentID != nil {
		if err := s.Depts.IncrementMemberCount(*user.DepartmentID, -1); err != nil {
			// Count drift is accepted; the deletion itself committed.
			logger.Log.Error("fresher deleted but member count update failed",
				zap.String("userId", user.ID),
				zap.String("email", user.Email),
				zap.String("departmentId", *user.DepartmentID),
				zap.Error(err))
		}
	}

	return nil
}

func (s *FresherService) Get(fresherID string) (*model.User, error) {
	user, err := s.Users.FindByID(fresherID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *FresherService) List(page, pageSize int, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.Users.List(page, pageSize, filter)
}
