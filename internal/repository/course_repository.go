package repository

import (
	"time"

	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.CourseAssignment) error {
	return r.DB.Create(course).Error
}

// CreateBatch writes one course assignment per fresher as a single
// all-or-nothing transaction, the closest SQL analogue of a batched
// document write.
func (r *CourseRepository) CreateBatch(courses []*model.CourseAssignment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, course := range courses {
			if err := tx.Create(course).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) FindByFresher(fresherID, courseID string) (*model.CourseAssignment, error) {
	var course model.CourseAssignment
	err := r.DB.Where("id = ? AND fresher_id = ?", courseID, fresherID).First(&course).Error
	return &course, err
}

func (r *CourseRepository) ListByFresher(fresherID string) ([]model.CourseAssignment, error) {
	var courses []model.CourseAssignment
	err := r.DB.Where("fresher_id = ?", fresherID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// UpdateProgress writes the position, derived progress, completion flag and
// status in one per-row update.
func (r *CourseRepository) UpdateProgress(fresherID, courseID string, index, progress int, completed bool) error {
	status := model.CourseActive
	if completed {
		status = model.CourseCompleted
	}
	res := r.DB.Model(&model.CourseAssignment{}).
		Where("id = ? AND fresher_id = ?", courseID, fresherID).
		Updates(map[string]interface{}{
			"current_lecture_index": index,
			"progress":              progress,
			"completed":             completed,
			"status":                status,
			"updated_at":            time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ResetAllForFresher zeroes progress on every course the fresher owns.
func (r *CourseRepository) ResetAllForFresher(fresherID string) error {
	return r.DB.Model(&model.CourseAssignment{}).
		Where("fresher_id = ?", fresherID).
		Updates(map[string]interface{}{
			"current_lecture_index": 0,
			"progress":              0,
			"completed":             false,
			"status":                model.CourseActive,
			"updated_at":            time.Now(),
		}).Error
}

func (r *CourseRepository) Delete(fresherID, courseID string) error {
	res := r.DB.Where("id = ? AND fresher_id = ?", courseID, fresherID).
		Delete(&model.CourseAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseAssignment{}).Count(&count).Error
	return count, err
}
