package risk

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	p, err := Load(filepath.Join("testdata", "dropout_model.json"))
	require.NoError(t, err)
	return p
}

func TestLoad(t *testing.T) {
	p := loadTestPredictor(t)
	assert.Equal(t, []string{"High Risk", "Safe", "Warning"}, p.RiskLabels())
	assert.Equal(t, "Paid", p.fee.Default())
	assert.Equal(t, "Moderate", p.fin.Default())
}

func TestLoad_missingArtifact(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)
}

func TestPredictor_Predict(t *testing.T) {
	p := loadTestPredictor(t)

	tests := []struct {
		name       string
		attendance float64
		marks      float64
		fee        string
		financial  string
		want       string
	}{
		{name: "solid student", attendance: 90, marks: 90, fee: "Paid", financial: "None", want: "Safe"},
		{name: "low attendance", attendance: 30, marks: 80, fee: "Paid", financial: "None", want: "High Risk"},
		{name: "low marks", attendance: 80, marks: 20, fee: "Paid", financial: "None", want: "High Risk"},
		{name: "severe financial difficulty", attendance: 90, marks: 90, fee: "Paid", financial: "Severe", want: "High Risk"},
		{name: "middling attendance", attendance: 60, marks: 60, fee: "Paid", financial: "None", want: "Warning"},
		{name: "pending fees", attendance: 90, marks: 90, fee: "Pending", financial: "None", want: "Warning"},
		{name: "moderate financial difficulty", attendance: 90, marks: 90, fee: "Paid", financial: "Moderate", want: "Warning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Predict(tt.attendance, tt.marks, tt.fee, tt.financial)
			assert.False(t, res.Degraded)
			assert.NoError(t, res.Cause)
			assert.Equal(t, tt.want, res.Label)
		})
	}
}

func TestPredictor_idempotentScoring(t *testing.T) {
	p := loadTestPredictor(t)

	first := p.Predict(72, 55, "Pending", "Moderate")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Predict(72, 55, "Pending", "Moderate"))
	}
}

func TestPredictor_vocabularySubstitution(t *testing.T) {
	p := loadTestPredictor(t)

	// out-of-vocabulary categoricals behave exactly like the vocabulary default
	got := p.Predict(60, 60, "InvalidStatus", "None")
	want := p.Predict(60, 60, p.fee.Default(), "None")
	assert.False(t, got.Degraded)
	assert.Equal(t, want, got)

	got = p.Predict(60, 60, "Paid", "???")
	want = p.Predict(60, 60, "Paid", p.fin.Default())
	assert.Equal(t, want, got)
}

func TestPredictor_neverFails(t *testing.T) {
	p := loadTestPredictor(t)
	known := append(p.RiskLabels(), UnknownLabel)

	tests := []struct {
		name       string
		attendance float64
		marks      float64
		fee        string
		financial  string
	}{
		{name: "negative numbers", attendance: -10, marks: -99, fee: "Paid", financial: "None"},
		{name: "beyond domain", attendance: 1e9, marks: 240, fee: "Paid", financial: "None"},
		{name: "NaN attendance", attendance: math.NaN(), marks: 50, fee: "Paid", financial: "None"},
		{name: "NaN everywhere", attendance: math.NaN(), marks: math.NaN(), fee: "nan", financial: "nan"},
		{name: "empty categoricals", attendance: 50, marks: 50, fee: "", financial: ""},
		{name: "garbage categoricals", attendance: 50, marks: 50, fee: "\x00\xff", financial: "🎓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Predict(tt.attendance, tt.marks, tt.fee, tt.financial)
			assert.Contains(t, known, res.Label)
		})
	}
}

func TestPredictor_degradesToUnknown(t *testing.T) {
	p := loadTestPredictor(t)

	// a risk vocabulary narrower than the model's class count forces a
	// decode failure for some leaves
	narrow, err := NewVocabulary([]string{"High Risk"})
	require.NoError(t, err)
	broken := NewPredictor(p.model, p.fee, p.fin, narrow)

	res := broken.Predict(90, 90, "Paid", "None") // model predicts code 1
	assert.True(t, res.Degraded)
	assert.Error(t, res.Cause)
	assert.Equal(t, UnknownLabel, res.Label)
}

func TestModel_Predict_shapeError(t *testing.T) {
	p := loadTestPredictor(t)

	_, err := p.model.Predict([]float64{1, 2})
	assert.Error(t, err)
}

func TestVocabulary(t *testing.T) {
	v, err := NewVocabulary([]string{"Paid", "Pending"})
	require.NoError(t, err)

	assert.True(t, v.Contains("Paid"))
	assert.False(t, v.Contains("paid"))
	assert.Equal(t, "Paid", v.Default())

	code, err := v.Encode("Pending")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	label, err := v.Decode(code)
	require.NoError(t, err)
	assert.Equal(t, "Pending", label)

	_, err = v.Encode("Overdue")
	assert.Error(t, err)
	_, err = v.Decode(2)
	assert.Error(t, err)
	_, err = v.Decode(-1)
	assert.Error(t, err)
}

func TestNewVocabulary_invalid(t *testing.T) {
	_, err := NewVocabulary(nil)
	assert.Error(t, err)
	_, err = NewVocabulary([]string{"Paid", "Paid"})
	assert.Error(t, err)
}
