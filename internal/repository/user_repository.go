package repository

import (
	"time"

	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UserFilter narrows admin fresher listings.
type UserFilter struct {
	Role         model.UserRole
	DepartmentID string
	Search       string
}

func (r *UserRepository) List(page, pageSize int, filter UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error
	return users, total, err
}

func (r *UserRepository) ListFreshersByDepartment(departmentID string) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ? AND department_id = ?", model.Fresher, departmentID).Find(&users).Error
	return users, err
}

// ListUnassignedFreshers returns freshers that carry a free-text department
// name but have not been resolved into a department yet.
func (r *UserRepository) ListUnassignedFreshers() ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Where("role = ? AND department_name <> '' AND department_id IS NULL", model.Fresher).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ClearDepartment(userID string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("department_id", nil).
		Error
}

// DeleteWithDependents removes the profile and everything owned by it in one
// transaction. Returns the deleted user so callers can release its
// department membership, or gorm.ErrRecordNotFound when the profile was
// already gone.
func (r *UserRepository) DeleteWithDependents(id string) (*model.User, error) {
	var user model.User
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("fresher_id = ?", id).Delete(&model.CourseAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fresher_id = ?", id).Delete(&model.AssignmentTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fresher_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(userID string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).
		Error
}

func (r *UserRepository) UpdateLastSeen(userID string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

func (r *UserRepository) CountByRole(role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountActiveSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("last_seen > ?", since).Count(&count).Error
	return count, err
}
