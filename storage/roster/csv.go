// Package roster implements the student Repository on a flat CSV file: the
// persistence format doubles as the integration point for external reporting,
// so the canonical column set and order are part of the contract.
package roster

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/edusight/dropwatch/core"
	"github.com/edusight/dropwatch/core/student"
)

// nan is the missing-value sentinel some exporters leave in categorical cells.
const nan = "nan"

type repository struct {
	path string
	mu   sync.Mutex // single-writer; the roster assumes one concurrent operator
}

var _ student.Repository = (*repository)(nil)

func NewRepository(path string) student.Repository {
	return &repository{path: path}
}

// Load parses the backing file, backfilling any missing canonical column and
// coercing cell types. A missing file is bootstrapped with the canonical
// header. Malformed cells degrade to defaults; only filesystem errors fail.
func (repo *repository) Load() ([]student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.load()
}

func (repo *repository) load() ([]student.Student, error) {
	f, err := os.Open(repo.path)
	if os.IsNotExist(err) {
		if err = repo.bootstrap(); err != nil {
			return nil, err
		}
		return []student.Student{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening roster %s", repo.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may be ragged; missing cells default below
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing roster %s", repo.path)
	}
	if len(rows) == 0 {
		return []student.Student{}, nil
	}

	colIdx := indexColumns(rows[0])
	students := make([]student.Student, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := colIdx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		students = append(students, student.Student{
			ID:                  toInt(cell("ID")),
			Name:                cell("Name"),
			Attendance:          toPercent(cell("Attendance")),
			Marks:               toPercent(cell("Marks")),
			FeeStatus:           toCategory(cell("FeeStatus"), student.DefaultFeeStatus),
			FinancialDifficulty: toCategory(cell("FinancialDifficulty"), student.DefaultFinancialDifficulty),
		})
	}
	return students, nil
}

// Append writes one new row to the end of the file; existing bytes are never
// rewritten and ID uniqueness is not checked.
func (repo *repository) Append(s student.Student) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, err := os.Stat(repo.path); os.IsNotExist(err) {
		if err = repo.bootstrap(); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(repo.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening roster %s", repo.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(record(s)); err != nil {
		return errors.Wrap(err, "writing roster row")
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "flushing roster %s", repo.path)
}

// DeleteByName removes ALL records whose Name matches, then rewrites the
// whole file restricted to the canonical column set.
func (repo *repository) DeleteByName(name string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	students, err := repo.load()
	if err != nil {
		return err
	}

	kept := students[:0]
	for _, s := range students {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	return repo.rewrite(kept)
}

func (repo *repository) bootstrap() error {
	return repo.rewrite(nil)
}

func (repo *repository) rewrite(students []student.Student) error {
	f, err := os.Create(repo.path)
	if err != nil {
		return errors.Wrapf(err, "creating roster %s", repo.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(student.Columns); err != nil {
		return errors.Wrap(err, "writing roster header")
	}
	for _, s := range students {
		if err = w.Write(record(s)); err != nil {
			return errors.Wrap(err, "writing roster row")
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "flushing roster %s", repo.path)
}

func record(s student.Student) []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Name,
		formatPercent(s.Attendance),
		formatPercent(s.Marks),
		s.FeeStatus,
		s.FinancialDifficulty,
	}
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[core.CleanString(col)] = i
	}
	return idx
}

func toInt(cell string) int {
	i, err := strconv.Atoi(core.CleanString(cell))
	if err != nil {
		return 0
	}
	return i
}

// toPercent coerces a numeric cell; unparsable or NaN values become 0.
func toPercent(cell string) float64 {
	f, err := strconv.ParseFloat(core.CleanString(cell), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// toCategory coerces a categorical cell; empty and "nan" cells take the default.
func toCategory(cell, def string) string {
	cell = core.CleanString(cell)
	if cell == "" || strings.EqualFold(cell, nan) {
		return def
	}
	return cell
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
