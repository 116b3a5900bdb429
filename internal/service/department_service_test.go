package service

import (
	"fmt"
	"testing"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDeptStore struct {
	byName  map[string]*model.Department
	creates int
	nextID  int
}

func newFakeDeptStore() *fakeDeptStore {
	return &fakeDeptStore{byName: make(map[string]*model.Department)}
}

func (f *fakeDeptStore) FindByName(name string) (*model.Department, error) {
	dept, ok := f.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dept, nil
}

func (f *fakeDeptStore) FindByID(id string) (*model.Department, error) {
	for _, dept := range f.byName {
		if dept.ID == id {
			return dept, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeptStore) Create(dept *model.Department) error {
	if _, ok := f.byName[dept.Name]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.creates++
	f.nextID++
	if dept.ID == "" {
		dept.ID = fmt.Sprintf("dept-%d", f.nextID)
	}
	f.byName[dept.Name] = dept
	return nil
}

func (f *fakeDeptStore) List() ([]model.Department, error) {
	var out []model.Department
	for _, dept := range f.byName {
		out = append(out, *dept)
	}
	return out, nil
}

func (f *fakeDeptStore) Delete(id string) error {
	for name, dept := range f.byName {
		if dept.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeDeptStore) IncrementMemberCount(id string, delta int) error {
	dept, err := f.FindByID(id)
	if err != nil {
		return err
	}
	dept.MemberCount += delta
	return nil
}

func (f *fakeDeptStore) CommitAutoAssign(assignments map[string][]string) error {
	for deptID, fresherIDs := range assignments {
		if err := f.IncrementMemberCount(deptID, len(fresherIDs)); err != nil {
			return err
		}
	}
	return nil
}

type fakeUnassignedLister struct {
	users map[string]*model.User
}

func newFakeUnassignedLister() *fakeUnassignedLister {
	return &fakeUnassignedLister{users: make(map[string]*model.User)}
}

func (f *fakeUnassignedLister) ListUnassignedFreshers() ([]model.User, error) {
	var out []model.User
	for _, user := range f.users {
		if user.Role == model.Fresher && user.DepartmentID == nil && user.DepartmentName != "" {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUnassignedLister) FindByID(id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUnassignedLister) ClearDepartment(userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.DepartmentID = nil
	user.DepartmentName = ""
	return nil
}

// markAssigned mirrors what CommitAutoAssign's real transaction does to the
// user rows, so a second auto-assign pass sees them as linked.
func (f *fakeUnassignedLister) markAssigned(store *fakeDeptStore) {
	for _, user := range f.users {
		if user.DepartmentID == nil && user.DepartmentName != "" {
			if dept, ok := store.byName[user.DepartmentName]; ok {
				id := dept.ID
				user.DepartmentID = &id
			}
		}
	}
}

func TestResolveCreatesOnce(t *testing.T) {
	store := newFakeDeptStore()
	svc := NewDepartmentService(store, newFakeUnassignedLister())

	first, err := svc.Resolve("Engineering")
	require.NoError(t, err)
	second, err := svc.Resolve("Engineering")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestResolveEmptyName(t *testing.T) {
	svc := NewDepartmentService(newFakeDeptStore(), newFakeUnassignedLister())
	_, err := svc.Resolve("")
	assert.ErrorIs(t, err, util.ErrDepartmentRequired)
}

func TestResolveSurvivesCreateRace(t *testing.T) {
	store := newFakeDeptStore()
	svc := NewDepartmentService(store, newFakeUnassignedLister())

	// Another writer creates the department between the miss and the create.
	winner := &model.Department{Name: "QA"}
	require.NoError(t, store.Create(winner))

	dept, err := svc.Resolve("QA")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, dept.ID)
	assert.Equal(t, 1, store.creates)
}

func TestRemoveFresher(t *testing.T) {
	store := newFakeDeptStore()
	users := newFakeUnassignedLister()
	svc := NewDepartmentService(store, users)

	dept, err := svc.Resolve("QA")
	require.NoError(t, err)
	require.NoError(t, store.IncrementMemberCount(dept.ID, 1))

	deptID := dept.ID
	users.users["f1"] = &model.User{
		UUIDBase:       model.UUIDBase{ID: "f1"},
		Role:           model.Fresher,
		DepartmentID:   &deptID,
		DepartmentName: "QA",
	}

	require.NoError(t, svc.RemoveFresher(dept.ID, "f1"))
	assert.Nil(t, users.users["f1"].DepartmentID)
	assert.Equal(t, 0, dept.MemberCount)
}

func TestRemoveFresherWrongDepartment(t *testing.T) {
	store := newFakeDeptStore()
	users := newFakeUnassignedLister()
	svc := NewDepartmentService(store, users)

	other := "other-dept"
	users.users["f1"] = &model.User{
		UUIDBase:     model.UUIDBase{ID: "f1"},
		Role:         model.Fresher,
		DepartmentID: &other,
	}

	err := svc.RemoveFresher("dept-1", "f1")
	assert.ErrorIs(t, err, util.ErrDepartmentNotFound)
}

func TestAutoAssign(t *testing.T) {
	store := newFakeDeptStore()
	users := newFakeUnassignedLister()
	svc := NewDepartmentService(store, users)

	users.users["f1"] = &model.User{UUIDBase: model.UUIDBase{ID: "f1"}, Role: model.Fresher, DepartmentName: "Engineering"}
	users.users["f2"] = &model.User{UUIDBase: model.UUIDBase{ID: "f2"}, Role: model.Fresher, DepartmentName: "Engineering"}
	users.users["f3"] = &model.User{UUIDBase: model.UUIDBase{ID: "f3"}, Role: model.Fresher, DepartmentName: "QA"}

	assigned, err := svc.AutoAssign()
	require.NoError(t, err)
	assert.Equal(t, 3, assigned)
	assert.Equal(t, 2, store.creates)
	assert.Equal(t, 2, store.byName["Engineering"].MemberCount)
	assert.Equal(t, 1, store.byName["QA"].MemberCount)

	// A second pass right after sees every fresher already linked.
	users.markAssigned(store)
	assigned, err = svc.AutoAssign()
	require.NoError(t, err)
	assert.Equal(t, 0, assigned)
	assert.Equal(t, 2, store.byName["Engineering"].MemberCount)
}

func TestAutoAssignNothingToDo(t *testing.T) {
	svc := NewDepartmentService(newFakeDeptStore(), newFakeUnassignedLister())
	assigned, err := svc.AutoAssign()
	require.NoError(t, err)
	assert.Equal(t, 0, assigned)
}
