package repository

import (
	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	DB *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{DB: db}
}

// FindByName matches the name exactly; no normalization, matching the
// directory contract.
func (r *DepartmentRepository) FindByName(name string) (*model.Department, error) {
	var dept model.Department
	err := r.DB.Where("name = ?", name).First(&dept).Error
	return &dept, err
}

func (r *DepartmentRepository) FindByID(id string) (*model.Department, error) {
	var dept model.Department
	err := r.DB.First(&dept, "id = ?", id).Error
	return &dept, err
}

func (r *DepartmentRepository) Create(dept *model.Department) error {
	return r.DB.Create(dept).Error
}

func (r *DepartmentRepository) List() ([]model.Department, error) {
	var depts []model.Department
	err := r.DB.Order("created_at DESC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) Delete(id string) error {
	return r.DB.Delete(&model.Department{}, "id = ?", id).Error
}

// IncrementMemberCount adjusts the cached member count through an atomic
// SQL expression, never read-modify-write.
func (r *DepartmentRepository) IncrementMemberCount(id string, delta int) error {
	return r.DB.Model(&model.Department{}).
		Where("id = ?", id).
		Update("member_count", gorm.Expr("member_count + ?", delta)).
		Error
}

// CommitAutoAssign applies one auto-assignment pass as a single transaction:
// every profile gains its resolved department ID, and every touched
// department's member count is incremented by the number of freshers it
// gained in this pass.
func (r *DepartmentRepository) CommitAutoAssign(assignments map[string][]string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for deptID, fresherIDs := range assignments {
			if len(fresherIDs) == 0 {
				continue
			}
			if err := tx.Model(&model.User{}).
				Where("id IN ?", fresherIDs).
				Update("department_id", deptID).
				Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Department{}).
				Where("id = ?", deptID).
				Update("member_count", gorm.Expr("member_count + ?", len(fresherIDs))).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
}
