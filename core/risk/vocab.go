package risk

import "github.com/pkg/errors"

var errEmptyVocabulary = errors.New("vocabulary has no classes")

// Vocabulary is the fixed, ordered set of category values an encoder was
// fitted on. Immutable once built; safe for concurrent reads.
type Vocabulary struct {
	classes []string
	index   map[string]int
}

func NewVocabulary(classes []string) (*Vocabulary, error) {
	if len(classes) == 0 {
		return nil, errEmptyVocabulary
	}
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; dup {
			return nil, errors.Errorf("duplicate class %q in vocabulary", c)
		}
		index[c] = i
	}
	return &Vocabulary{classes: classes, index: index}, nil
}

func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Default returns the canonical fallback: the first fitted class.
func (v *Vocabulary) Default() string {
	return v.classes[0]
}

func (v *Vocabulary) Classes() []string {
	out := make([]string, len(v.classes))
	copy(out, v.classes)
	return out
}

// Encode maps a class label to its integer code.
func (v *Vocabulary) Encode(label string) (int, error) {
	code, ok := v.index[label]
	if !ok {
		return 0, errors.Errorf("label %q not in vocabulary", label)
	}
	return code, nil
}

// Decode maps an integer code back to its class label.
func (v *Vocabulary) Decode(code int) (string, error) {
	if code < 0 || code >= len(v.classes) {
		return "", errors.Errorf("code %d out of vocabulary range [0,%d)", code, len(v.classes))
	}
	return v.classes[code], nil
}
