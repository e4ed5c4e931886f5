package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"
	"crm-activity-bot/internal/service"
)

// In-memory repositories for the service tests.

type fakeActivityRepo struct {
	activities map[uint]*models.Activity
	busySums   map[repository.BusyKey]time.Duration
	nextID     uint
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{
		activities: make(map[uint]*models.Activity),
		busySums:   make(map[repository.BusyKey]time.Duration),
		nextID:     1,
	}
}

func (r *fakeActivityRepo) Create(a *models.Activity) error {
	a.ID = r.nextID
	r.nextID++
	stored := *a
	r.activities[a.ID] = &stored
	return nil
}

func (r *fakeActivityRepo) Update(a *models.Activity) error {
	stored := *a
	r.activities[a.ID] = &stored
	return nil
}

func (r *fakeActivityRepo) GetByID(id uint) (*models.Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeActivityRepo) GetByCode(code string) (*models.Activity, error) {
	for _, a := range r.activities {
		if a.Code == code {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeActivityRepo) GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.Activity, error) {
	return nil, nil
}

func (r *fakeActivityRepo) GetByEmployee(employeeID uint, limit int) ([]*models.Activity, error) {
	return nil, nil
}

func (r *fakeActivityRepo) GetChildren(originType string, originID uint) ([]*models.Activity, error) {
	var children []*models.Activity
	for _, a := range r.activities {
		if a.OriginType == originType && a.OriginID == originID {
			children = append(children, a)
		}
	}
	return children, nil
}

func (r *fakeActivityRepo) GetDayBusySums(employeeIDs []uint, minDate, maxDate time.Time) (map[repository.BusyKey]time.Duration, error) {
	return r.busySums, nil
}

func (r *fakeActivityRepo) GetPlannedBetween(from, to time.Time) ([]*models.Activity, error) {
	return nil, nil
}

func (r *fakeActivityRepo) MarkReminderSent(id uint) error { return nil }

func (r *fakeActivityRepo) ReassignParty(fromPartyID, toPartyID uint) (int64, error) {
	var moved int64
	for _, a := range r.activities {
		if a.PartyID != nil && *a.PartyID == fromPartyID {
			to := toPartyID
			a.PartyID = &to
			moved++
		}
	}
	return moved, nil
}

func (r *fakeActivityRepo) DeleteByID(id uint) error {
	delete(r.activities, id)
	return nil
}

type fakeTypeRepo struct {
	types map[uint]*models.ActivityType
}

func (r *fakeTypeRepo) Create(t *models.ActivityType) error { return nil }
func (r *fakeTypeRepo) Update(t *models.ActivityType) error { return nil }
func (r *fakeTypeRepo) GetByID(id uint) (*models.ActivityType, error) {
	return r.types[id], nil
}
func (r *fakeTypeRepo) GetByName(name string) (*models.ActivityType, error) { return nil, nil }
func (r *fakeTypeRepo) GetActive() ([]*models.ActivityType, error)          { return nil, nil }
func (r *fakeTypeRepo) Deactivate(id uint) error                            { return nil }

type fakeEmployeeRepo struct {
	employees map[uint]*models.Employee
}

func (r *fakeEmployeeRepo) Create(e *models.Employee) error { return nil }
func (r *fakeEmployeeRepo) Update(e *models.Employee) error { return nil }
func (r *fakeEmployeeRepo) GetByID(id uint) (*models.Employee, error) {
	return r.employees[id], nil
}
func (r *fakeEmployeeRepo) GetByChatID(chatID int64) (*models.Employee, error) { return nil, nil }
func (r *fakeEmployeeRepo) GetAll() ([]*models.Employee, error)                { return nil, nil }
func (r *fakeEmployeeRepo) DeleteByID(id uint) error                           { return nil }

type fakePartyRepo struct {
	parties map[uint]*models.Party
}

func (r *fakePartyRepo) Create(p *models.Party) error                  { return nil }
func (r *fakePartyRepo) Update(p *models.Party) error                  { return nil }
func (r *fakePartyRepo) GetByID(id uint) (*models.Party, error)        { return r.parties[id], nil }
func (r *fakePartyRepo) GetByCode(code string) (*models.Party, error)  { return nil, nil }
func (r *fakePartyRepo) Search(name string) ([]*models.Party, error)   { return nil, nil }
func (r *fakePartyRepo) DeleteByID(id uint) error                      { return nil }

type fakeConfigRepo struct {
	next        int64
	noSequence  bool
	references  []string
}

func (r *fakeConfigRepo) Get() (*models.ActivityConfiguration, error) { return nil, nil }
func (r *fakeConfigRepo) SetSequence(s *models.Sequence) error        { return nil }
func (r *fakeConfigRepo) NextActivityCode() (string, error) {
	if r.noSequence {
		return "", repository.ErrNoActivitySequence
	}
	r.next++
	seq := models.Sequence{Prefix: "ACT", Padding: 5}
	return seq.Format(r.next), nil
}
func (r *fakeConfigRepo) GetReferences() ([]*models.ActivityReference, error) {
	var refs []*models.ActivityReference
	for _, m := range r.references {
		refs = append(refs, &models.ActivityReference{Model: m})
	}
	return refs, nil
}
func (r *fakeConfigRepo) AddReference(model string) error { return nil }

func meetingType() *models.ActivityType {
	d := time.Hour
	return &models.ActivityType{
		ID:              1,
		Name:            "Meeting",
		Color:           "#336699",
		DefaultDuration: &d,
	}
}

func newTestService(useTypeColor bool) (*service.ActivityService, *fakeActivityRepo, *fakeConfigRepo) {
	activityRepo := newFakeActivityRepo()
	configRepo := &fakeConfigRepo{references: []string{models.ResourceModelParty}}
	svc := service.NewActivityService(
		activityRepo,
		&fakeTypeRepo{types: map[uint]*models.ActivityType{1: meetingType()}},
		&fakeEmployeeRepo{employees: map[uint]*models.Employee{
			1: {ID: 1, Name: "Alice", CompanyID: 1, Company: models.Company{ID: 1, Name: "Acme"}},
		}},
		&fakePartyRepo{parties: map[uint]*models.Party{7: {ID: 7, Code: "PTY7", Name: "Globex"}}},
		configRepo,
		useTypeColor,
	)
	return svc, activityRepo, configRepo
}

func TestCreateAppliesTypeDefaultsAndSequence(t *testing.T) {
	svc, _, _ := newTestService(false)

	clock := time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC)
	activity, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Subject:        "Kickoff",
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Time:           &clock,
	})
	require.NoError(t, err)

	assert.Equal(t, "ACT00001", activity.Code)
	assert.Equal(t, models.StatePlanned, activity.State)
	// Duration falls back to the type default.
	require.NotNil(t, activity.Duration)
	assert.Equal(t, time.Hour, *activity.Duration)
	require.NotNil(t, activity.DtStart)
	require.NotNil(t, activity.DtEnd)
	assert.Equal(t, time.Hour, activity.DtEnd.Sub(*activity.DtStart))
}

func TestCreateResolvesPartyFromResource(t *testing.T) {
	svc, _, _ := newTestService(false)

	activity, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		ResourceType:   models.ResourceModelParty,
		ResourceID:     7,
	})
	require.NoError(t, err)
	require.NotNil(t, activity.PartyID)
	assert.Equal(t, uint(7), *activity.PartyID)
}

func TestCreateRejectsUnknownResourceModel(t *testing.T) {
	svc, _, _ := newTestService(false)

	_, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		ResourceType:   "invoice",
		ResourceID:     3,
	})
	assert.Error(t, err)
}

func TestCreateWithoutSequenceFails(t *testing.T) {
	svc, _, configRepo := newTestService(false)
	configRepo.noSequence = true

	_, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.True(t, errors.Is(err, repository.ErrNoActivitySequence))
}

func TestTransitions(t *testing.T) {
	svc, _, _ := newTestService(false)

	activity, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	done, err := svc.Do(activity.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, done.State)

	// Doing a done activity is a self loop and must fail.
	_, err = svc.Do(activity.Code)
	assert.Error(t, err)

	cancelled, err := svc.Cancel(activity.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StateCancelled, cancelled.State)

	planned, err := svc.Plan(activity.Code)
	require.NoError(t, err)
	assert.Equal(t, models.StatePlanned, planned.State)
}

func TestSplitRequiresConfirmation(t *testing.T) {
	svc, _, _ := newTestService(false)

	activity, err := svc.Create(service.CreateActivityInput{
		ActivityTypeID: 1,
		EmployeeID:     1,
		Date:           time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Description:    "prepare slides\n---\nsend minutes",
	})
	require.NoError(t, err)

	_, err = svc.Split(activity.Code, false)
	var confirm *service.SplitConfirmationError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, 2, confirm.Parts)

	children, err := svc.Split(activity.Code, true)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "prepare slides", children[0].Description)
	assert.Equal(t, activity.ID, children[0].OriginID)
	assert.Equal(t, "activities", children[0].OriginType)
	assert.NotEqual(t, activity.Code, children[0].Code)

	// A second split is rejected once children exist.
	_, err = svc.Split(activity.Code, true)
	assert.Error(t, err)
}

func TestDayBusyHours(t *testing.T) {
	svc, activityRepo, _ := newTestService(false)

	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	activityRepo.busySums[repository.BusyKey{EmployeeID: 1, Date: "2026-04-02"}] = 2 * time.Hour

	withBusy := &models.Activity{ID: 10, EmployeeID: 1, Date: date}
	without := &models.Activity{ID: 11, EmployeeID: 2, Date: date}

	busy, err := svc.DayBusyHours([]*models.Activity{withBusy, without})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, busy[10])
	assert.Equal(t, time.Duration(0), busy[11], "no recorded duration aggregates as zero")
}

func TestSummary(t *testing.T) {
	svc, _, _ := newTestService(false)

	d := 90 * time.Minute
	activity := &models.Activity{
		Code:         "ACT00001",
		Subject:      "Call Bob",
		Duration:     &d,
		ActivityType: models.ActivityType{Name: "Meeting"},
		Employee:     models.Employee{Name: "Alice"},
	}

	got := svc.Summary(activity, 2*time.Hour)
	assert.Equal(t, "Call Bob (Meeting)\n01:30 / 02:00\n@Alice", got)

	// Without a subject the party name leads, without a duration the
	// busy hours get a dash placeholder.
	activity.Subject = ""
	activity.Duration = nil
	activity.Party = &models.Party{Name: "Globex"}
	got = svc.Summary(activity, 2*time.Hour)
	assert.Equal(t, "Globex (Meeting)\n- / 02:00\n@Alice", got)

	// No party either: the code leads; no busy hours: no slash line.
	activity.Party = nil
	got = svc.Summary(activity, 0)
	assert.Equal(t, "ACT00001 (Meeting)\n@Alice", got)
}

func TestCalendarColors(t *testing.T) {
	svc, _, _ := newTestService(false)

	planned := &models.Activity{State: models.StatePlanned}
	assert.Equal(t, "#ABD6E3", svc.CalendarBackgroundColor(planned))
	assert.Equal(t, "black", svc.CalendarColor(planned))

	// Employee color wins when the type color is not selected.
	planned.Employee.Color = "#102030"
	assert.Equal(t, "#102030", svc.CalendarBackgroundColor(planned))
	assert.Equal(t, "white", svc.CalendarColor(planned))

	// Done activities fade towards white: #ABD6E3 has gray 204, the
	// fade adds int(0.8*51) = 40 per channel, clamped at 255.
	done := &models.Activity{State: models.StateDone}
	assert.Equal(t, "#d3feff", svc.CalendarBackgroundColor(done))
	assert.Equal(t, "black", svc.CalendarColor(done))
}

func TestCalendarColorsUseTypeColor(t *testing.T) {
	svc, _, _ := newTestService(true)

	activity := &models.Activity{
		State:        models.StatePlanned,
		ActivityType: models.ActivityType{Color: "#336699"},
		Employee:     models.Employee{Color: "#ffffff"},
	}
	assert.Equal(t, "#336699", svc.CalendarBackgroundColor(activity))

	// The flag selects the type color or the default, never the
	// employee color.
	activity.ActivityType.Color = ""
	assert.Equal(t, "#ABD6E3", svc.CalendarBackgroundColor(activity))
}
