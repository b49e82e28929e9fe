package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

type fakePetRepo struct {
	owned map[int64]int // petID -> userID
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{owned: map[int64]int{}}
}

func (r *fakePetRepo) Create(pet *models.Pet) error { return nil }

func (r *fakePetRepo) ListByUser(userID int) ([]*models.Pet, error) { return nil, nil }

func (r *fakePetRepo) GetByID(petID int64, userID int) (*models.Pet, error) { return nil, nil }

func (r *fakePetRepo) Update(petID int64, userID int, upd repositories.PetUpdate) (bool, error) {
	return false, nil
}

func (r *fakePetRepo) Deactivate(petID int64, userID int) (bool, error) { return false, nil }

func (r *fakePetRepo) OwnedBy(petID int64, userID int) (bool, error) {
	return r.owned[petID] == userID, nil
}

type fakeAnalysisRepo struct {
	nextID int64
	rows   map[string]map[int64]*models.Analysis
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{rows: map[string]map[int64]*models.Analysis{}}
}

func (r *fakeAnalysisRepo) Create(a *models.Analysis) error {
	r.nextID++
	a.AnalysisID = r.nextID
	a.Status = models.AnalysisStatusProcessing
	a.CreatedAt = time.Now()
	if r.rows[a.Kind] == nil {
		r.rows[a.Kind] = map[int64]*models.Analysis{}
	}
	cp := *a
	r.rows[a.Kind][a.AnalysisID] = &cp
	return nil
}

func (r *fakeAnalysisRepo) GetByID(kind string, analysisID int64, userID int) (*models.Analysis, error) {
	a := r.rows[kind][analysisID]
	if a == nil || a.UserID != userID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnalysisRepo) GetAny(kind string, analysisID int64) (*models.Analysis, error) {
	a := r.rows[kind][analysisID]
	if a == nil {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnalysisRepo) ListByPet(kind string, petID int64, userID, limit, offset int) ([]*models.Analysis, error) {
	return nil, nil
}

func (r *fakeAnalysisRepo) CompleteFromWebhook(kind string, analysisID int64, result json.RawMessage, modelVersion string, processingTime *float64) (bool, error) {
	a := r.rows[kind][analysisID]
	if a == nil || a.Status != models.AnalysisStatusProcessing {
		return false, nil
	}
	now := time.Now()
	a.Status = models.AnalysisStatusCompleted
	a.Result = result
	a.ModelVersion = modelVersion
	a.ProcessingTime = processingTime
	a.AnalyzedAt = &now
	return true, nil
}

func (r *fakeAnalysisRepo) MarkFailed(kind string, analysisID int64) (bool, error) {
	a := r.rows[kind][analysisID]
	if a == nil || a.Status != models.AnalysisStatusProcessing {
		return false, nil
	}
	a.Status = models.AnalysisStatusFailed
	return true, nil
}

type analysisFixture struct {
	svc           AnalysisService
	repo          *fakeAnalysisRepo
	pets          *fakePetRepo
	notifications *fakeNotificationService
}

func newAnalysisFixture() *analysisFixture {
	repo := newFakeAnalysisRepo()
	pets := newFakePetRepo()
	notifications := &fakeNotificationService{}
	return &analysisFixture{
		svc:           NewAnalysisService(repo, pets, notifications),
		repo:          repo,
		pets:          pets,
		notifications: notifications,
	}
}

func TestCreateAnalysisValidation(t *testing.T) {
	f := newAnalysisFixture()
	f.pets.owned[1] = 5

	err := f.svc.Create(&models.Analysis{Kind: "palmistry", PetID: 1, UserID: 5})
	assert.ErrorIs(t, err, ErrInvalidAnalysisKind)

	// чужой питомец неотличим от несуществующего
	err = f.svc.Create(&models.Analysis{Kind: "behavior", PetID: 1, UserID: 9})
	assert.ErrorIs(t, err, ErrPetNotFound)

	a := &models.Analysis{Kind: "behavior", PetID: 1, UserID: 5, MediaPath: "analyses/clip.mp4"}
	require.NoError(t, f.svc.Create(a))
	assert.Equal(t, models.AnalysisStatusProcessing, a.Status)
	assert.NotZero(t, a.AnalysisID)
}

func TestIngestResultCompletesAndNotifies(t *testing.T) {
	f := newAnalysisFixture()
	f.pets.owned[1] = 5

	a := &models.Analysis{Kind: "sound", PetID: 1, UserID: 5}
	require.NoError(t, f.svc.Create(a))

	pt := 1.25
	result := json.RawMessage(`{"emotion": "happy"}`)
	require.NoError(t, f.svc.IngestResult("sound", a.AnalysisID, result, "v2.1", &pt, false))

	stored, err := f.svc.Get("sound", a.AnalysisID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, stored.Status)
	assert.Equal(t, "v2.1", stored.ModelVersion)
	assert.JSONEq(t, `{"emotion": "happy"}`, string(stored.Result))

	require.Len(t, f.notifications.calls, 1)
	assert.Equal(t, 5, f.notifications.calls[0].userID)
	assert.Equal(t, "analysis", f.notifications.calls[0].ntype)
}

func TestIngestResultIsIdempotent(t *testing.T) {
	f := newAnalysisFixture()
	f.pets.owned[1] = 5

	a := &models.Analysis{Kind: "behavior", PetID: 1, UserID: 5}
	require.NoError(t, f.svc.Create(a))

	result := json.RawMessage(`{"score": 0.9}`)
	require.NoError(t, f.svc.IngestResult("behavior", a.AnalysisID, result, "v1", nil, false))

	// повторный вебхук по завершённой заявке отклоняется и ничего не меняет
	err := f.svc.IngestResult("behavior", a.AnalysisID, json.RawMessage(`{"score": 0.1}`), "v1", nil, false)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	stored, err := f.svc.Get("behavior", a.AnalysisID, 5)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 0.9}`, string(stored.Result))
	assert.Len(t, f.notifications.calls, 1)
}

func TestIngestResultFailure(t *testing.T) {
	f := newAnalysisFixture()
	f.pets.owned[1] = 5

	a := &models.Analysis{Kind: "food_safety", PetID: 1, UserID: 5}
	require.NoError(t, f.svc.Create(a))

	require.NoError(t, f.svc.IngestResult("food_safety", a.AnalysisID, nil, "", nil, true))

	stored, err := f.svc.Get("food_safety", a.AnalysisID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, stored.Status)
	// об ошибке анализа пуш не шлём
	assert.Empty(t, f.notifications.calls)
}

func TestGetAnalysisScopedToOwner(t *testing.T) {
	f := newAnalysisFixture()
	f.pets.owned[1] = 5

	a := &models.Analysis{Kind: "health_check", PetID: 1, UserID: 5}
	require.NoError(t, f.svc.Create(a))

	_, err := f.svc.Get("health_check", a.AnalysisID, 6)
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}
