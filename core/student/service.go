package student

import (
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/edusight/dropwatch/core"
	"github.com/edusight/dropwatch/core/risk"
)

var ErrEmptyName = errors.New("student name is required")

type (
	// Repository is the durable roster store. Load never fails on malformed
	// cells (they degrade to defaults); filesystem errors propagate.
	Repository interface {
		Load() ([]Student, error)
		Append(Student) error
		// DeleteByName removes ALL records matching name; IDs are not unique
		// so name is the only handle the roster exposes.
		DeleteByName(name string) error
	}

	// RiskPredictor scores one student's attributes.
	RiskPredictor interface {
		Predict(attendance, marks float64, feeStatus, financialDifficulty string) risk.Result
		RiskLabels() []string
	}

	ServiceInterface interface {
		List() ([]Student, error)
		Summary() (Summary, error)
		Add(NewStudent) (Student, error)
		Remove(name string) error
	}

	Service struct {
		repo      Repository
		predictor RiskPredictor
		mailSvc   core.EmailService
		conf      *core.Config
		logger    core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, predictor RiskPredictor, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		predictor: predictor,
		mailSvc:   mailSvc,
		conf:      conf,
		logger:    logger,
	}
}

// List loads the roster and scores every record. Scoring is recomputed on
// every call; the risk column is a view over the five persisted fields.
func (svc *Service) List() ([]Student, error) {
	students, err := svc.repo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading roster")
	}
	for i := range students {
		svc.score(&students[i])
	}
	return students, nil
}

func (svc *Service) Summary() (Summary, error) {
	students, err := svc.List()
	if err != nil {
		return Summary{}, err
	}
	byRisk := make(map[string]int, len(svc.predictor.RiskLabels())+1)
	for _, label := range svc.predictor.RiskLabels() {
		byRisk[label] = 0
	}
	for _, s := range students {
		byRisk[s.RiskLevel]++
	}
	return Summary{Total: len(students), ByRisk: byRisk}, nil
}

// Add predicts the new student's risk, persists the record (without the
// derived risk) and returns the scored record.
func (svc *Service) Add(ns NewStudent) (Student, error) {
	s := ns.student()
	svc.score(&s)

	if err := svc.repo.Append(s); err != nil {
		return Student{}, errors.Wrap(err, "appending student")
	}

	if s.RiskLevel == svc.conf.Alerts.RiskLabel {
		svc.alert(s)
	}
	return s, nil
}

// Remove deletes all roster records matching name.
func (svc *Service) Remove(name string) error {
	name = core.CleanString(name)
	if name == "" {
		return core.NewValidationError(ErrEmptyName, core.FieldError{Field: "name", Error: ErrEmptyName.Error()})
	}
	return errors.Wrap(svc.repo.DeleteByName(name), "deleting student")
}

func (svc *Service) score(s *Student) {
	res := svc.predictor.Predict(s.Attendance, s.Marks, s.FeeStatus, s.FinancialDifficulty)
	s.RiskLevel = res.Label
	s.RiskDegraded = res.Degraded
	if res.Degraded && svc.logger != nil {
		svc.logger.Debug(fmt.Sprintf("risk inference degraded for student %d: %v", s.ID, res.Cause))
	}
}

// alert emails the configured recipient when a newly added student lands on
// the alert label. Fire-and-forget: the add never fails on mail problems.
func (svc *Service) alert(s Student) {
	if !svc.conf.Alerts.Enabled || svc.conf.Alerts.Recipient == "" || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: svc.conf.Alerts.Recipient}},
		Subject: fmt.Sprintf("%s: %s", s.RiskLevel, s.Name),
		BodyStr: fmt.Sprintf(
			"Student %q (ID %d) was added with predicted risk %q.\nAttendance: %.0f%%\nMarks: %.0f%%\nFee status: %s\nFinancial difficulty: %s\n",
			s.Name, s.ID, s.RiskLevel, s.Attendance, s.Marks, s.FeeStatus, s.FinancialDifficulty,
		),
	})
}
