package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/repository"
	"hexaboard_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserStore) Create(user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByID(id string) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) List(page, pageSize int, filter repository.UserFilter) ([]model.User, int64, error) {
	var out []model.User
	for _, user := range f.byID {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) DeleteWithDependents(id string) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, user.Email)
	return user, nil
}

type fakeResolver struct {
	depts      map[string]*model.Department
	counts     map[string]int
	counterErr error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		depts:  make(map[string]*model.Department),
		counts: make(map[string]int),
	}
}

func (f *fakeResolver) Resolve(name string) (*model.Department, error) {
	if name == "" {
		return nil, util.ErrDepartmentRequired
	}
	if dept, ok := f.depts[name]; ok {
		return dept, nil
	}
	dept := &model.Department{UUIDBase: model.UUIDBase{ID: "dept-" + name}, Name: name}
	f.depts[name] = dept
	return dept, nil
}

func (f *fakeResolver) IncrementMemberCount(id string, delta int) error {
	if f.counterErr != nil {
		return f.counterErr
	}
	f.counts[id] += delta
	return nil
}

type fakeNotifier struct {
	enqueued []string
	err      error
}

func (f *fakeNotifier) EnqueueWelcomeEmail(to, name, userID, password string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, to)
	return nil
}

func newFresherFixture() (*FresherService, *fakeUserStore, *fakeResolver, *fakeNotifier) {
	users := newFakeUserStore()
	depts := newFakeResolver()
	notifier := &fakeNotifier{}
	return NewFresherService(users, depts, notifier), users, depts, notifier
}

func TestProvision(t *testing.T) {
	svc, users, depts, notifier := newFresherFixture()

	result, err := svc.Provision(ProvisionRequest{
		Name:           "Ana Rivera",
		Email:          "ana@example.com",
		DepartmentName: "QA",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Len(t, result.TemporaryPassword, util.TempPasswordLength)

	user, err := users.FindByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.Fresher, user.Role)
	assert.Equal(t, "QA", user.DepartmentName)
	require.NotNil(t, user.DepartmentID)
	assert.NotEqual(t, result.TemporaryPassword, user.Password, "password must be stored hashed")

	assert.Equal(t, 1, depts.counts[*user.DepartmentID])
	assert.Equal(t, []string{"ana@example.com"}, notifier.enqueued)
}

func TestProvisionDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newFresherFixture()

	req := ProvisionRequest{Name: "Ana", Email: "ana@example.com", DepartmentName: "QA"}
	_, err := svc.Provision(req)
	require.NoError(t, err)

	_, err = svc.Provision(req)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestProvisionInvalidInput(t *testing.T) {
	svc, _, _, _ := newFresherFixture()

	_, err := svc.Provision(ProvisionRequest{Name: "Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, util.ErrDepartmentRequired)

	_, err = svc.Provision(ProvisionRequest{Name: "Ana", Email: "not-an-email", DepartmentName: "QA"})
	assert.ErrorIs(t, err, util.ErrInvalidEmail)
}

func TestProvisionPartialFailure(t *testing.T) {
	svc, users, depts, _ := newFresherFixture()
	depts.counterErr = errors.New("db down")

	_, err := svc.Provision(ProvisionRequest{Name: "Ana", Email: "ana@example.com", DepartmentName: "QA"})

	var pf *util.PartialFailureError
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "ana@example.com", pf.Email)

	// The account itself committed before the failing step.
	_, findErr := users.FindByEmail("ana@example.com")
	assert.NoError(t, findErr)
}

func TestProvisionSurvivesNotifierFailure(t *testing.T) {
	svc, _, _, notifier := newFresherFixture()
	notifier.err = errors.New("outbox unavailable")

	result, err := svc.Provision(ProvisionRequest{Name: "Ana", Email: "ana@example.com", DepartmentName: "QA"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
}

func TestBulkImport(t *testing.T) {
	svc, users, _, _ := newFresherFixture()

	csvData := strings.Join([]string{
		"email,name,department",
		"a@example.com,Alice,Engineering",
		"a@example.com,Alice Again,Engineering",
		"b@example.com,Bob,QA",
	}, "\n")

	result, err := svc.BulkImport(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Len(t, result.Success, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "a@example.com", result.Failed[0].Email)

	assert.Len(t, users.byID, 2)
}

func TestBulkImportMissingColumns(t *testing.T) {
	svc, _, _, _ := newFresherFixture()

	csvData := "email,name,department\nc@example.com,,QA"
	result, err := svc.BulkImport(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Empty(t, result.Success)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Error, "required")
}

func TestDeleteIdempotent(t *testing.T) {
	svc, _, depts, _ := newFresherFixture()

	result, err := svc.Provision(ProvisionRequest{Name: "Ana", Email: "ana@example.com", DepartmentName: "QA"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(result.ID))
	assert.Equal(t, 0, depts.counts["dept-QA"])

	// Deleting again must also succeed.
	require.NoError(t, svc.Delete(result.ID))
	assert.Equal(t, 0, depts.counts["dept-QA"])
}

func TestGetUnknownFresher(t *testing.T) {
	svc, _, _, _ := newFresherFixture()
	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
