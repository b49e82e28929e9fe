package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dong279/mumu-express/internal/models"
)

type fakeHealthReportRepo struct {
	nextID int64
	rows   map[int64]*models.HealthReport
}

func newFakeHealthReportRepo() *fakeHealthReportRepo {
	return &fakeHealthReportRepo{rows: map[int64]*models.HealthReport{}}
}

func (r *fakeHealthReportRepo) Create(hr *models.HealthReport) error {
	r.nextID++
	hr.HealthReportID = r.nextID
	hr.CreatedAt = time.Now()
	cp := *hr
	r.rows[hr.HealthReportID] = &cp
	return nil
}

func (r *fakeHealthReportRepo) GetByID(reportID int64, userID int) (*models.HealthReport, error) {
	hr := r.rows[reportID]
	if hr == nil || hr.UserID != userID {
		return nil, nil
	}
	cp := *hr
	return &cp, nil
}

func (r *fakeHealthReportRepo) ListByPet(petID int64, userID, limit, offset int) ([]*models.HealthReport, error) {
	return nil, nil
}

func (r *fakeHealthReportRepo) CountAnalysesInPeriod(petID int64, from, to time.Time) (map[string]int, error) {
	return map[string]int{"behavior": 2}, nil
}

func newHealthReportFixture() (HealthReportService, *fakePetRepo) {
	pets := newFakePetRepo()
	return NewHealthReportService(newFakeHealthReportRepo(), pets), pets
}

func TestCreateHealthReportDefaultsPeriod(t *testing.T) {
	svc, pets := newHealthReportFixture()
	pets.owned[1] = 5

	weekly := &models.HealthReport{PetID: 1, UserID: 5, ReportType: "weekly"}
	require.NoError(t, svc.Create(weekly))
	assert.WithinDuration(t, time.Now(), weekly.PeriodEnd, time.Minute)
	assert.WithinDuration(t, weekly.PeriodEnd.AddDate(0, 0, -7), weekly.PeriodStart, time.Minute)

	monthly := &models.HealthReport{PetID: 1, UserID: 5, ReportType: "monthly"}
	require.NoError(t, svc.Create(monthly))
	assert.WithinDuration(t, monthly.PeriodEnd.AddDate(0, -1, 0), monthly.PeriodStart, time.Minute)
}

func TestCreateHealthReportKeepsExplicitPeriod(t *testing.T) {
	svc, pets := newHealthReportFixture()
	pets.owned[1] = 5

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	hr := &models.HealthReport{PetID: 1, UserID: 5, ReportType: "weekly", PeriodStart: start, PeriodEnd: end}
	require.NoError(t, svc.Create(hr))
	assert.Equal(t, start, hr.PeriodStart)
	assert.Equal(t, end, hr.PeriodEnd)
}

func TestCreateHealthReportValidation(t *testing.T) {
	svc, pets := newHealthReportFixture()
	pets.owned[1] = 5

	err := svc.Create(&models.HealthReport{PetID: 1, UserID: 5, ReportType: "daily"})
	assert.ErrorIs(t, err, ErrInvalidReportType)

	err = svc.Create(&models.HealthReport{PetID: 1, UserID: 9, ReportType: "weekly"})
	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	svc, pets := newHealthReportFixture()
	pets.owned[1] = 5

	hr := &models.HealthReport{PetID: 1, UserID: 5, ReportType: "weekly", Summary: "all good"}
	require.NoError(t, svc.Create(hr))

	data, err := svc.RenderPDF(hr.HealthReportID, 5)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)

	_, err = svc.RenderPDF(hr.HealthReportID, 6)
	assert.ErrorIs(t, err, ErrHealthReportMissing)
}
