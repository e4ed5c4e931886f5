package service

import (
	"errors"
	"fmt"
	"time"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"
	"crm-activity-bot/internal/schedule"
	"crm-activity-bot/internal/workflow"
	"crm-activity-bot/pkg/colorutil"
	"crm-activity-bot/pkg/richtext"
	"crm-activity-bot/pkg/timeutil"

	"github.com/sirupsen/logrus"
)

// ErrActivityNotFound is returned when a lookup by id or code misses.
var ErrActivityNotFound = errors.New("activity not found")

// SplitConfirmationError asks the caller to confirm a split before any
// child activity is created. Parts carries the number of children the
// split would produce.
type SplitConfirmationError struct {
	Parts int
}

func (e *SplitConfirmationError) Error() string {
	return fmt.Sprintf("splitting will create %d activities, confirmation required", e.Parts)
}

// CreateActivityInput carries the caller-supplied fields for a new
// activity. Nil optional fields fall back to activity type defaults.
type CreateActivityInput struct {
	ActivityTypeID uint
	EmployeeID     uint
	Subject        string
	Description    string
	Location       string

	Date     time.Time
	Time     *time.Time
	Duration *time.Duration
	DtStart  *time.Time
	DtEnd    *time.Time

	PartyID      *uint
	ResourceType string
	ResourceID   uint
	OriginType   string
	OriginID     uint
}

type ActivityService struct {
	activityRepo repository.ActivityRepository
	typeRepo     repository.ActivityTypeRepository
	employeeRepo repository.EmployeeRepository
	partyRepo    repository.PartyRepository
	configRepo   repository.ConfigurationRepository

	// useTypeColor selects the activity type color over the employee
	// color for calendar backgrounds.
	useTypeColor bool

	now    func() time.Time
	logger *logrus.Logger
}

func NewActivityService(
	activityRepo repository.ActivityRepository,
	typeRepo repository.ActivityTypeRepository,
	employeeRepo repository.EmployeeRepository,
	partyRepo repository.PartyRepository,
	configRepo repository.ConfigurationRepository,
	useTypeColor bool,
) *ActivityService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ActivityService{
		activityRepo: activityRepo,
		typeRepo:     typeRepo,
		employeeRepo: employeeRepo,
		partyRepo:    partyRepo,
		configRepo:   configRepo,
		useTypeColor: useTypeColor,
		now:          time.Now,
		logger:       logger,
	}
}

// Create builds a fully derived activity: code from the configured
// sequence, type defaults for duration and description, party resolved
// from the resource reference, temporal fields normalized in the
// employee's company zone.
func (s *ActivityService) Create(input CreateActivityInput) (*models.Activity, error) {
	s.logger.WithFields(logrus.Fields{
		"employee_id": input.EmployeeID,
		"type_id":     input.ActivityTypeID,
		"date":        input.Date.Format("2006-01-02"),
	}).Info("Creating activity")

	employee, err := s.employeeRepo.GetByID(input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.New("employee not found")
	}

	activityType, err := s.typeRepo.GetByID(input.ActivityTypeID)
	if err != nil {
		return nil, err
	}
	if activityType == nil {
		return nil, errors.New("activity type not found")
	}

	if input.ResourceType != "" {
		if err := s.checkResource(input.ResourceType); err != nil {
			return nil, err
		}
	}

	// Activity type defaults, applied only to unset fields.
	if input.Duration == nil && activityType.DefaultDuration != nil {
		d := *activityType.DefaultDuration
		input.Duration = &d
	}
	if input.Description == "" {
		input.Description = activityType.DefaultDescription
	}

	partyID := input.PartyID
	if partyID == nil {
		partyID, err = s.resourceParty(input.ResourceType, input.ResourceID)
		if err != nil {
			return nil, err
		}
	}

	code, err := s.configRepo.NextActivityCode()
	if err != nil {
		if errors.Is(err, repository.ErrNoActivitySequence) {
			s.logger.Warn("Activity creation without configured sequence")
		}
		return nil, err
	}

	upd := schedule.Update{}
	if !input.Date.IsZero() {
		upd.Date = schedule.Of(input.Date)
	}
	if input.Time != nil {
		upd.Time = schedule.Of(*input.Time)
	}
	if input.Duration != nil {
		upd.Duration = schedule.Of(*input.Duration)
	}
	if input.DtStart != nil {
		upd.DtStart = schedule.Of(*input.DtStart)
	}
	if input.DtEnd != nil {
		upd.DtEnd = schedule.Of(*input.DtEnd)
	}
	norm := schedule.Normalize(upd, nil, employee.Company.Location(), s.now())

	activity := &models.Activity{
		Code:           code,
		State:          models.StatePlanned,
		Subject:        input.Subject,
		ActivityTypeID: activityType.ID,
		EmployeeID:     employee.ID,
		PartyID:        partyID,
		ResourceType:   input.ResourceType,
		ResourceID:     input.ResourceID,
		OriginType:     input.OriginType,
		OriginID:       input.OriginID,
		Description:    input.Description,
		Location:       input.Location,
	}
	applySchedule(activity, norm)

	if err := s.activityRepo.Create(activity); err != nil {
		return nil, err
	}

	activity.ActivityType = *activityType
	activity.Employee = *employee

	s.logger.WithFields(logrus.Fields{
		"id":   activity.ID,
		"code": activity.Code,
	}).Info("Activity created successfully")

	return activity, nil
}

// UpdateSchedule re-derives the temporal fields of an existing activity
// from a partial update and persists the result.
func (s *ActivityService) UpdateSchedule(id uint, upd schedule.Update) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	rec := &schedule.Record{
		Date:     activity.Date,
		Time:     activity.Time,
		Duration: activity.Duration,
		DtStart:  activity.DtStart,
	}
	norm := schedule.Normalize(upd, rec, activity.Employee.Company.Location(), s.now())
	applySchedule(activity, norm)

	if err := s.activityRepo.Update(activity); err != nil {
		return nil, err
	}

	return activity, nil
}

// applySchedule copies the fields a normalized update carries onto the
// record, leaving untouched fields alone.
func applySchedule(activity *models.Activity, upd schedule.Update) {
	if upd.Date.Set && upd.Date.Valid {
		activity.Date = timeutil.DateOf(upd.Date.V)
	}
	if upd.Time.Set {
		activity.Time = upd.Time.Ptr()
	}
	if upd.Duration.Set {
		activity.Duration = upd.Duration.Ptr()
	}
	if upd.DtStart.Set {
		activity.DtStart = upd.DtStart.Ptr()
	}
	if upd.DtEnd.Set {
		activity.DtEnd = upd.DtEnd.Ptr()
	}
}

func (s *ActivityService) checkResource(resourceType string) error {
	references, err := s.configRepo.GetReferences()
	if err != nil {
		return err
	}
	for _, ref := range references {
		if ref.Model == resourceType {
			return nil
		}
	}
	return fmt.Errorf("model %q is not an allowed activity resource", resourceType)
}

// resourceParty derives the party from a polymorphic resource: a
// party-typed resource is the party itself, anything else carries none.
func (s *ActivityService) resourceParty(resourceType string, resourceID uint) (*uint, error) {
	if resourceType != models.ResourceModelParty || resourceID == 0 {
		return nil, nil
	}
	party, err := s.partyRepo.GetByID(resourceID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, fmt.Errorf("party %d not found", resourceID)
	}
	id := party.ID
	return &id, nil
}

func (s *ActivityService) GetByCode(code string) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

func (s *ActivityService) GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.Activity, error) {
	return s.activityRepo.GetByEmployeeAndDate(employeeID, date)
}

func (s *ActivityService) GetByEmployee(employeeID uint, limit int) ([]*models.Activity, error) {
	return s.activityRepo.GetByEmployee(employeeID, limit)
}

// Plan, Do and Cancel fire the workflow triggers of the same name.

func (s *ActivityService) Plan(code string) (*models.Activity, error) {
	return s.transition(code, workflow.TriggerPlan)
}

func (s *ActivityService) Do(code string) (*models.Activity, error) {
	return s.transition(code, workflow.TriggerDo)
}

func (s *ActivityService) Cancel(code string) (*models.Activity, error) {
	return s.transition(code, workflow.TriggerCancel)
}

func (s *ActivityService) transition(code string, trigger workflow.Trigger) (*models.Activity, error) {
	activity, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	next, err := workflow.Transition(activity.State, trigger)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"code":    code,
			"state":   activity.State,
			"trigger": trigger,
		}).Warn("Rejected workflow transition")
		return nil, err
	}

	activity.State = next
	if err := s.activityRepo.Update(activity); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"code":  code,
		"state": next,
	}).Info("Activity state changed")

	return activity, nil
}

// Split cuts the description on the section separator and creates one
// child activity per section, with the parent as origin. The first call
// reports the number of children via SplitConfirmationError; the caller
// retries with confirmed=true.
func (s *ActivityService) Split(code string, confirmed bool) ([]*models.Activity, error) {
	activity, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	children, err := s.activityRepo.GetChildren(models.Activity{}.TableName(), activity.ID)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		return nil, fmt.Errorf("activity %s was already split", activity.Code)
	}

	sections := richtext.SplitSections(activity.Description)
	if len(sections) == 0 {
		return nil, errors.New("activity has no description sections to split")
	}
	if !confirmed {
		return nil, &SplitConfirmationError{Parts: len(sections)}
	}

	created := make([]*models.Activity, 0, len(sections))
	for _, section := range sections {
		child, err := s.Create(CreateActivityInput{
			ActivityTypeID: activity.ActivityTypeID,
			EmployeeID:     activity.EmployeeID,
			Subject:        activity.Subject,
			Description:    section,
			Location:       activity.Location,
			Date:           activity.Date,
			Time:           activity.Time,
			Duration:       activity.Duration,
			PartyID:        activity.PartyID,
			ResourceType:   activity.ResourceType,
			ResourceID:     activity.ResourceID,
			OriginType:     models.Activity{}.TableName(),
			OriginID:       activity.ID,
		})
		if err != nil {
			return created, err
		}
		created = append(created, child)
	}

	s.logger.WithFields(logrus.Fields{
		"code":     activity.Code,
		"children": len(created),
	}).Info("Activity split into child activities")

	return created, nil
}

// DayBusyHours reports, for every activity in the batch, the total
// scheduled duration of its employee on its date. One grouped aggregate
// covers the whole batch; concurrent writers may make the figure stale,
// which is acceptable for a summary hint.
func (s *ActivityService) DayBusyHours(activities []*models.Activity) (map[uint]time.Duration, error) {
	if len(activities) == 0 {
		return map[uint]time.Duration{}, nil
	}

	employeeIDs := make([]uint, 0, len(activities))
	minDate, maxDate := activities[0].Date, activities[0].Date
	for _, activity := range activities {
		employeeIDs = append(employeeIDs, activity.EmployeeID)
		if activity.Date.Before(minDate) {
			minDate = activity.Date
		}
		if activity.Date.After(maxDate) {
			maxDate = activity.Date
		}
	}

	sums, err := s.activityRepo.GetDayBusySums(employeeIDs, minDate, maxDate)
	if err != nil {
		return nil, err
	}

	busy := make(map[uint]time.Duration, len(activities))
	for _, activity := range activities {
		key := repository.BusyKey{
			EmployeeID: activity.EmployeeID,
			Date:       activity.Date.Format("2006-01-02"),
		}
		busy[activity.ID] = sums[key]
	}
	return busy, nil
}

// Summary renders the multi-line text shown for an activity: headline,
// type, duration against the day's busy hours, employee.
func (s *ActivityService) Summary(activity *models.Activity, dayBusy time.Duration) string {
	var text string
	switch {
	case activity.Subject != "":
		text = activity.Subject
	case activity.Party != nil:
		text = activity.Party.RecName()
	default:
		text = activity.Code
	}
	text += fmt.Sprintf(" (%s)", activity.ActivityType.Name)
	if activity.Duration != nil {
		text += "\n" + timeutil.DurationString(*activity.Duration)
	}
	if dayBusy != 0 {
		if activity.Duration == nil {
			text += "\n-"
		}
		text += " / " + timeutil.DurationString(dayBusy)
	}
	text += "\n@" + activity.Employee.Name
	return text
}

// HTML renders the description for HTML display with URLs turned into
// anchors.
func (s *ActivityService) HTML(activity *models.Activity) string {
	return richtext.CreateAnchors(activity.Description)
}

// CalendarBackgroundColor picks the event background: the type color or
// the employee color depending on configuration, faded for activities
// that are no longer planned.
func (s *ActivityService) CalendarBackgroundColor(activity *models.Activity) string {
	color := colorutil.DefaultColor
	if s.useTypeColor {
		if activity.ActivityType.Color != "" {
			color = activity.ActivityType.Color
		}
	} else {
		if activity.Employee.Color != "" {
			color = activity.Employee.Color
		}
	}

	if activity.State != models.StatePlanned {
		color = colorutil.Parse(color).IncreaseRatio(0.8).Hex()
	}
	return color
}

// CalendarColor picks the readable text color for the background.
func (s *ActivityService) CalendarColor(activity *models.Activity) string {
	return colorutil.Foreground(s.CalendarBackgroundColor(activity))
}
