package risk

import "github.com/pkg/errors"

// UnknownLabel is returned whenever inference degrades; it is never part of
// the trained risk-label vocabulary.
const UnknownLabel = "Unknown"

type (
	// Result is the outcome of one inference. Degraded results carry the
	// UnknownLabel sentinel and the cause; callers render both uniformly
	// but can tell genuine model output from fallback.
	Result struct {
		Label    string
		Degraded bool
		Cause    error
	}

	// Predictor translates raw student attributes into a risk label using a
	// pre-trained Model and the vocabularies it was fitted with.
	Predictor struct {
		model *Model
		fee   *Vocabulary
		fin   *Vocabulary
		risk  *Vocabulary
	}
)

// NewPredictor wires a model with its three vocabularies.
func NewPredictor(model *Model, fee, fin, riskVocab *Vocabulary) *Predictor {
	return &Predictor{model: model, fee: fee, fin: fin, risk: riskVocab}
}

// Load reads a model artifact from disk once at startup.
func Load(path string) (*Predictor, error) {
	art, err := loadArtifact(path)
	if err != nil {
		return nil, err
	}
	fee, err := NewVocabulary(art.Classes.FeeStatus)
	if err != nil {
		return nil, errors.Wrap(err, "fee-status vocabulary")
	}
	fin, err := NewVocabulary(art.Classes.FinancialDifficulty)
	if err != nil {
		return nil, errors.Wrap(err, "financial-difficulty vocabulary")
	}
	riskVocab, err := NewVocabulary(art.Classes.RiskLevel)
	if err != nil {
		return nil, errors.Wrap(err, "risk-label vocabulary")
	}
	return NewPredictor(&art.Model, fee, fin, riskVocab), nil
}

// RiskLabels returns the trained label set, in vocabulary order.
func (p *Predictor) RiskLabels() []string {
	return p.risk.Classes()
}

// Predict classifies one student's attributes. Out-of-vocabulary categorical
// values fall back to each vocabulary's default before encoding; any failure
// past that point degrades to UnknownLabel instead of propagating, so a
// single bad row never aborts scoring a whole roster.
func (p *Predictor) Predict(attendance, marks float64, feeStatus, financialDifficulty string) Result {
	if !p.fee.Contains(feeStatus) {
		feeStatus = p.fee.Default()
	}
	if !p.fin.Contains(financialDifficulty) {
		financialDifficulty = p.fin.Default()
	}

	label, err := p.predict(attendance, marks, feeStatus, financialDifficulty)
	if err != nil {
		return Result{Label: UnknownLabel, Degraded: true, Cause: err}
	}
	return Result{Label: label}
}

func (p *Predictor) predict(attendance, marks float64, feeStatus, financialDifficulty string) (string, error) {
	feeCode, err := p.fee.Encode(feeStatus)
	if err != nil {
		return "", errors.Wrap(err, "encoding fee status")
	}
	finCode, err := p.fin.Encode(financialDifficulty)
	if err != nil {
		return "", errors.Wrap(err, "encoding financial difficulty")
	}

	code, err := p.model.Predict([]float64{attendance, marks, float64(feeCode), float64(finCode)})
	if err != nil {
		return "", errors.Wrap(err, "invoking classifier")
	}

	label, err := p.risk.Decode(code)
	if err != nil {
		return "", errors.Wrap(err, "decoding risk code")
	}
	return label, nil
}
