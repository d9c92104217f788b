package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volops/core/errors"
	"volops/core/params"
	"volops/core/utils"
	authdto "volops/modules/auth/dto"
	authentity "volops/modules/auth/entity"
	"volops/modules/event/dto"
	"volops/modules/event/entity"
	"volops/modules/event/repository"
	"volops/modules/notification/worker"
)

type fakeEventRepo struct {
	mu          sync.Mutex
	events      map[uuid.UUID]*entity.Event
	activeCount map[uuid.UUID]int

	// afterGet runs once after the next GetByID, standing in for writes that
	// land between the service's read and its update.
	afterGet func()
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:      make(map[uuid.UUID]*entity.Event),
		activeCount: make(map[uuid.UUID]int),
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *event
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	f.events[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	event, ok := f.events[id]
	var clone entity.Event
	if ok {
		clone = *event
		clone.ParticipantCount = f.activeCount[id]
	}
	hook := f.afterGet
	f.afterGet = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, nil
	}
	return &clone, nil
}

func (f *fakeEventRepo) List(_ context.Context, _ params.QueryParams) ([]entity.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Event
	for _, event := range f.events {
		result = append(result, *event)
	}
	return result, len(result), nil
}

func (f *fakeEventRepo) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Event
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			result = append(result, *event)
		}
	}
	return result, nil
}

// Update applies the same write-time capacity guard as the real repository's
// locked transaction.
func (f *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event.MaxParticipants < f.activeCount[event.ID] {
		return repository.ErrCapacityBelowActive
	}

	clone := *event
	f.events[event.ID] = &clone
	return nil
}

func (f *fakeEventRepo) SetImage(_ context.Context, id uuid.UUID, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if event, ok := f.events[id]; ok {
		event.Image = &imageURL
	}
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ListActiveRegistrantIDs(_ context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uuid.UUID, 0, f.activeCount[eventID])
	for i := 0; i < f.activeCount[eventID]; i++ {
		ids = append(ids, uuid.New())
	}
	return ids, nil
}

func (f *fakeEventRepo) ListUpcomingForUser(context.Context, uuid.UUID) ([]entity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListStartingBetween(context.Context, time.Time, time.Time) ([]entity.Event, error) {
	return nil, nil
}

// fakeAuthService resolves users from a fixed map.
type fakeAuthService struct {
	users map[uuid.UUID]*authentity.User
}

func (f *fakeAuthService) SignUp(context.Context, *authdto.SignUpRequest) (*authdto.TokenResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeAuthService) Login(context.Context, *authdto.LoginRequest) (*authdto.TokenResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeAuthService) Logout(context.Context, string, *utils.TokenClaims) *errors.AppError {
	return nil
}

func (f *fakeAuthService) GetProfile(context.Context, uuid.UUID) (*authdto.ProfileResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeAuthService) UpdateProfile(context.Context, uuid.UUID, *authdto.UpdateProfileRequest) (*authdto.ProfileResponse, *errors.AppError) {
	return nil, nil
}

func (f *fakeAuthService) GetUserByID(_ context.Context, userID uuid.UUID) (*authentity.User, *errors.AppError) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return user, nil
}

// memoryCache is an in-process stand-in for the redis cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) AddToTokenBlacklist(context.Context, string, time.Duration) error { return nil }

func (m *memoryCache) IsTokenBlacklisted(context.Context, string) (bool, error) { return false, nil }

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	m.sets++
	return nil
}

func (m *memoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCache) Client() *redis.Client { return nil }

func (m *memoryCache) Close() error { return nil }

// fakeStorage records uploads and returns predictable URLs.
type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) UploadImage(_ context.Context, key, _ string, _ io.Reader, _ int64) (string, error) {
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

type silentEnqueuer struct{}

func (silentEnqueuer) EnqueueRegistrationConfirmed(context.Context, worker.RegistrationPayload) error {
	return nil
}

func (silentEnqueuer) EnqueueRegistrationCancelled(context.Context, worker.RegistrationPayload) error {
	return nil
}

func (silentEnqueuer) EnqueueEventCancelled(context.Context, uuid.UUID, string, []uuid.UUID) error {
	return nil
}

type eventFixture struct {
	repo        *fakeEventRepo
	auth        *fakeAuthService
	cache       *memoryCache
	storage     *fakeStorage
	svc         EventServiceInterface
	organizerID uuid.UUID
	memberID    uuid.UUID
}

func newEventFixture() *eventFixture {
	organizerID := uuid.New()
	memberID := uuid.New()

	organizer := &authentity.User{Email: "org@example.com", FullName: "Organizer", IsOrganizer: true}
	organizer.ID = organizerID
	member := &authentity.User{Email: "member@example.com", FullName: "Member"}
	member.ID = memberID

	repo := newFakeEventRepo()
	auth := &fakeAuthService{users: map[uuid.UUID]*authentity.User{
		organizerID: organizer,
		memberID:    member,
	}}
	c := newMemoryCache()
	st := &fakeStorage{}

	return &eventFixture{
		repo:        repo,
		auth:        auth,
		cache:       c,
		storage:     st,
		svc:         NewEventService(repo, auth, c, st, silentEnqueuer{}),
		organizerID: organizerID,
		memberID:    memberID,
	}
}

func createReq() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:           "Park Restoration Day",
		Organization:    "Green City",
		Description:     "Bring gloves",
		Category:        "environment",
		Location:        "Riverside Park",
		StartAt:         time.Now().Add(48 * time.Hour),
		MaxParticipants: 20,
	}
}

func TestCreateEventRequiresOrganizer(t *testing.T) {
	fx := newEventFixture()

	_, appErr := fx.svc.Create(context.Background(), fx.memberID, createReq())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)
	assert.Equal(t, fx.organizerID.String(), created.OrganizerID)
	assert.Contains(t, created.Slug, "park-restoration-day-")
	assert.Equal(t, "active", created.Status)
	assert.True(t, created.IsOpen)
}

func TestCancellingEventClosesRegistration(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)

	cancelled := "cancelled"
	updated, appErr := fx.svc.Update(context.Background(), uuid.MustParse(created.ID), fx.organizerID,
		&dto.UpdateEventRequest{Status: &cancelled})
	require.Nil(t, appErr)
	assert.Equal(t, "cancelled", updated.Status)
	assert.False(t, updated.IsOpen)
}

func TestCreateEventValidation(t *testing.T) {
	fx := newEventFixture()

	req := createReq()
	req.StartAt = time.Now().Add(-time.Hour)
	_, appErr := fx.svc.Create(context.Background(), fx.organizerID, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = createReq()
	req.MaxParticipants = 0
	_, appErr = fx.svc.Create(context.Background(), fx.organizerID, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestUpdateEventOwnershipAndCapacityGuard(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)
	eventID := uuid.MustParse(created.ID)
	fx.repo.activeCount[eventID] = 5

	newTitle := "Updated Title"
	_, appErr = fx.svc.Update(context.Background(), eventID, fx.memberID, &dto.UpdateEventRequest{Title: &newTitle})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// Capacity cannot drop below the active registration count.
	tooSmall := 3
	_, appErr = fx.svc.Update(context.Background(), eventID, fx.organizerID, &dto.UpdateEventRequest{MaxParticipants: &tooSmall})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	exact := 5
	updated, appErr := fx.svc.Update(context.Background(), eventID, fx.organizerID, &dto.UpdateEventRequest{
		Title:           &newTitle,
		MaxParticipants: &exact,
	})
	require.Nil(t, appErr)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, 5, updated.MaxParticipants)
	assert.Contains(t, updated.Slug, "updated-title-")
}

func TestUpdateCapacityGuardHoldsAgainstConcurrentRegistrations(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)
	eventID := uuid.MustParse(created.ID)
	fx.repo.activeCount[eventID] = 4

	// Registrations land after the service reads the event but before its
	// write commits. The guard counts at write time, under the same lock the
	// registration writers take, so the lowered capacity must still be
	// rejected.
	fx.repo.afterGet = func() {
		fx.repo.mu.Lock()
		fx.repo.activeCount[eventID] = 7
		fx.repo.mu.Unlock()
	}

	lowered := 5
	_, appErr = fx.svc.Update(context.Background(), eventID, fx.organizerID, &dto.UpdateEventRequest{MaxParticipants: &lowered})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	unchanged, err := fx.repo.GetByID(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 20, unchanged.MaxParticipants)
}

func TestUpdateEventRejectsUnknownStatus(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)
	eventID := uuid.MustParse(created.ID)

	bogus := "archived"
	_, appErr = fx.svc.Update(context.Background(), eventID, fx.organizerID, &dto.UpdateEventRequest{Status: &bogus})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestListServesFromCache(t *testing.T) {
	fx := newEventFixture()

	_, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)

	p := params.QueryParams{PageNumber: 1, PageSize: 10}
	first, appErr := fx.svc.List(context.Background(), p)
	require.Nil(t, appErr)
	assert.Equal(t, 1, first.TotalItems)
	assert.Equal(t, 0, fx.cache.hits)

	second, appErr := fx.svc.List(context.Background(), p)
	require.Nil(t, appErr)
	assert.Equal(t, first.TotalItems, second.TotalItems)
	assert.Equal(t, 1, fx.cache.hits)
}

func TestWritesInvalidateListCache(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)

	p := params.QueryParams{PageNumber: 1, PageSize: 10}
	_, appErr = fx.svc.List(context.Background(), p)
	require.Nil(t, appErr)
	require.Equal(t, 1, fx.cache.sets)

	appErr = fx.svc.Delete(context.Background(), uuid.MustParse(created.ID), fx.organizerID)
	require.Nil(t, appErr)

	// The cached page is gone, so the next list rebuilds it.
	result, appErr := fx.svc.List(context.Background(), p)
	require.Nil(t, appErr)
	assert.Equal(t, 0, result.TotalItems)
	assert.Equal(t, 0, fx.cache.hits)
}

func TestUploadImageStoresAndRecordsURL(t *testing.T) {
	fx := newEventFixture()

	created, appErr := fx.svc.Create(context.Background(), fx.organizerID, createReq())
	require.Nil(t, appErr)
	eventID := uuid.MustParse(created.ID)

	body := strings.NewReader("fake-png-bytes")
	updated, appErr := fx.svc.UploadImage(context.Background(), eventID, fx.organizerID,
		"banner.png", "image/png", body, int64(body.Len()))
	require.Nil(t, appErr)
	assert.Contains(t, updated.Image, "https://cdn.example.com/events/")
	require.Len(t, fx.storage.uploads, 1)

	// Oversized uploads are rejected before touching storage.
	_, appErr = fx.svc.UploadImage(context.Background(), eventID, fx.organizerID,
		"huge.png", "image/png", strings.NewReader(""), 50<<20)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Len(t, fx.storage.uploads, 1)
}

func TestGetByIDNotFound(t *testing.T) {
	fx := newEventFixture()

	_, appErr := fx.svc.GetByID(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrEventNotFound, appErr.Code)
}

