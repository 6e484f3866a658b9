package testutil

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edusight/dropwatch/core"
	"github.com/edusight/dropwatch/core/risk"
	"github.com/edusight/dropwatch/core/student"
)

// Default operator credentials used across tests.
const (
	OperatorUsername = "admin"
	OperatorPassword = "1234"
)

// NewConfig returns a self-contained test configuration: a throwaway roster
// path, the repo's model artifact and known operator credentials.
func NewConfig() *core.Config {
	dir, err := os.MkdirTemp("", "dropwatch-test")
	if err != nil {
		log.Fatalf("testutil.NewConfig(): %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(OperatorPassword), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("testutil.NewConfig(): %v", err)
	}

	conf := &core.Config{
		TestMode:  true,
		Env:       "TEST",
		Build:     "test",
		AppName:   "Dropwatch",
		SecretKey: "test-secret-key",

		RosterPath: filepath.Join(dir, "students.csv"),
		ModelPath:  ModelPath(),
	}
	conf.Operator.Username = OperatorUsername
	conf.Operator.PasswordHash = string(hash)
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = time.Hour
	conf.Alerts.RiskLabel = "High Risk"
	return conf
}

// ModelPath locates the classifier artifact shipped with the repo.
func ModelPath() string {
	return filepath.Join(core.Getwd(), "config", "dropout_model.json")
}

// NewPredictor loads the repo's classifier artifact.
func NewPredictor(t *testing.T) *risk.Predictor {
	t.Helper()
	predictor, err := risk.Load(ModelPath())
	if err != nil {
		t.Fatalf("testutil.NewPredictor(): %v", err)
	}
	return predictor
}

// ResetRoster removes the roster file; the repository bootstraps it again on
// the next operation.
func ResetRoster(t *testing.T, path string) {
	t.Helper()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.Fatalf("testutil.ResetRoster(): %v", err)
	}
}

// CreateStudent appends a record directly to the repository.
func CreateStudent(t *testing.T, repo student.Repository, id int, name string, attendance, marks float64, feeStatus, financialDifficulty string) student.Student {
	t.Helper()
	s := student.Student{
		ID:                  id,
		Name:                name,
		Attendance:          attendance,
		Marks:               marks,
		FeeStatus:           feeStatus,
		FinancialDifficulty: financialDifficulty,
	}
	if err := repo.Append(s); err != nil {
		t.Fatalf("testutil.CreateStudent(): %v", err)
	}
	return s
}

// NopLogger discards everything.
func NopLogger() core.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
