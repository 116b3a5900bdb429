package repository

import (
	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// CreateIfAbsent inserts the task unless one already exists for the same
// fresher and course. Returns whether a row was created, so finishing a
// course twice unlocks exactly one task.
func (r *AssignmentRepository) CreateIfAbsent(task *model.AssignmentTask) (bool, error) {
	created := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.AssignmentTask
		err := tx.Where("fresher_id = ? AND course_id = ?", task.FresherID, task.CourseID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(task).Error; err != nil {
			// The unique (fresher, course) index closes the remaining race
			// between the read and the insert: a concurrent finish already
			// created the task.
			if err == gorm.ErrDuplicatedKey {
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *AssignmentRepository) ListByFresher(fresherID string) ([]model.AssignmentTask, error) {
	var tasks []model.AssignmentTask
	err := r.DB.Where("fresher_id = ?", fresherID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *AssignmentRepository) CountByStatus(status model.TaskStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssignmentTask{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssignmentTask{}).Count(&count).Error
	return count, err
}
