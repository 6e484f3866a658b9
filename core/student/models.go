package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/edusight/dropwatch/core"
)

// Defaults substituted for missing or unparsable categorical cells.
const (
	DefaultFeeStatus           = "Paid"
	DefaultFinancialDifficulty = "None"
)

// Columns is the canonical roster column set, in persisted order.
var Columns = []string{"ID", "Name", "Attendance", "Marks", "FeeStatus", "FinancialDifficulty"}

type (
	// Student is one roster row. RiskLevel and RiskDegraded are derived at
	// view time and never persisted.
	Student struct {
		ID                  int     `json:"id"`
		Name                string  `json:"name"`
		Attendance          float64 `json:"attendance"`
		Marks               float64 `json:"marks"`
		FeeStatus           string  `json:"fee_status"`
		FinancialDifficulty string  `json:"financial_difficulty"`

		RiskLevel    string `json:"risk_level,omitempty"`
		RiskDegraded bool   `json:"risk_degraded,omitempty"`
	}

	NewStudent struct {
		ID                  int     `json:"id" validate:"min=1"`
		Name                string  `json:"name" validate:"required,alphanumspace"`
		Attendance          float64 `json:"attendance" validate:"min=0,max=100"`
		Marks               float64 `json:"marks" validate:"min=0,max=100"`
		FeeStatus           string  `json:"fee_status"`
		FinancialDifficulty string  `json:"financial_difficulty"`
	}

	// Summary mirrors the dashboard metric cards: one count per risk label.
	Summary struct {
		Total  int            `json:"total"`
		ByRisk map[string]int `json:"by_risk"`
	}
)

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.FeeStatus = core.CleanString(ns.FeeStatus)
	ns.FinancialDifficulty = core.CleanString(ns.FinancialDifficulty)
	if ns.FeeStatus == "" {
		ns.FeeStatus = DefaultFeeStatus
	}
	if ns.FinancialDifficulty == "" {
		ns.FinancialDifficulty = DefaultFinancialDifficulty
	}
	return validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	return Student{
		ID:                  ns.ID,
		Name:                ns.Name,
		Attendance:          ns.Attendance,
		Marks:               ns.Marks,
		FeeStatus:           ns.FeeStatus,
		FinancialDifficulty: ns.FinancialDifficulty,
	}
}
