package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/dropwatch/core/student"
)

func tempRoster(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "students.csv")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRepository_Load_bootstrapsMissingFile(t *testing.T) {
	path := tempRoster(t)
	repo := NewRepository(path)

	students, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, students)

	// exactly the canonical header, zero data rows
	assert.Equal(t, "ID,Name,Attendance,Marks,FeeStatus,FinancialDifficulty\n", readFile(t, path))
}

func TestRepository_roundTrip(t *testing.T) {
	repo := NewRepository(tempRoster(t))

	err := repo.Append(student.Student{
		ID:                  101,
		Name:                "Alice",
		Attendance:          80,
		Marks:               70,
		FeeStatus:           "Paid",
		FinancialDifficulty: "None",
		RiskLevel:           "Safe", // derived; must not be persisted
	})
	require.NoError(t, err)

	students, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.Student{
		ID:                  101,
		Name:                "Alice",
		Attendance:          80,
		Marks:               70,
		FeeStatus:           "Paid",
		FinancialDifficulty: "None",
	}, students[0])
}

func TestRepository_Append_doesNotRewrite(t *testing.T) {
	path := tempRoster(t)
	repo := NewRepository(path)

	_, err := repo.Load() // bootstrap
	require.NoError(t, err)
	before := readFile(t, path)

	require.NoError(t, repo.Append(student.Student{ID: 1, Name: "Alice", Attendance: 80, Marks: 70, FeeStatus: "Paid", FinancialDifficulty: "None"}))
	after := readFile(t, path)

	assert.True(t, strings.HasPrefix(after, before), "append must leave existing bytes untouched")
	assert.Equal(t, before+"1,Alice,80,70,Paid,None\n", after)
}

func TestRepository_Append_duplicateIDsAllowed(t *testing.T) {
	repo := NewRepository(tempRoster(t))

	require.NoError(t, repo.Append(student.Student{ID: 7, Name: "Bob", FeeStatus: "Paid", FinancialDifficulty: "None"}))
	require.NoError(t, repo.Append(student.Student{ID: 7, Name: "Bobby", FeeStatus: "Paid", FinancialDifficulty: "None"}))

	students, err := repo.Load()
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestRepository_DeleteByName_removesAllMatches(t *testing.T) {
	repo := NewRepository(tempRoster(t))

	require.NoError(t, repo.Append(student.Student{ID: 1, Name: "Bob", Attendance: 40, Marks: 40, FeeStatus: "Paid", FinancialDifficulty: "None"}))
	require.NoError(t, repo.Append(student.Student{ID: 2, Name: "Alice", Attendance: 90, Marks: 90, FeeStatus: "Paid", FinancialDifficulty: "None"}))
	require.NoError(t, repo.Append(student.Student{ID: 3, Name: "Bob", Attendance: 60, Marks: 60, FeeStatus: "Pending", FinancialDifficulty: "Severe"}))

	require.NoError(t, repo.DeleteByName("Bob"))

	students, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice", students[0].Name)
}

func TestRepository_Load_backfillsMissingColumns(t *testing.T) {
	path := tempRoster(t)
	writeFile(t, path, "ID,Name,Attendance,Marks,FeeStatus\n1,Alice,eighty,70,Paid\n2,Bob,90,,Pending\n")
	repo := NewRepository(path)

	students, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, students, 2)

	// FinancialDifficulty column absent: defaults for every row
	assert.Equal(t, "None", students[0].FinancialDifficulty)
	assert.Equal(t, "None", students[1].FinancialDifficulty)
	// unparsable / missing numerics coerce to 0
	assert.Equal(t, float64(0), students[0].Attendance)
	assert.Equal(t, float64(70), students[0].Marks)
	assert.Equal(t, float64(0), students[1].Marks)
}

func TestRepository_Load_coercesNaNSentinels(t *testing.T) {
	path := tempRoster(t)
	writeFile(t, path, "ID,Name,Attendance,Marks,FeeStatus,FinancialDifficulty\nx,Alice,NaN,nan,nan,NaN\n")
	repo := NewRepository(path)

	students, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, students, 1)

	s := students[0]
	assert.Equal(t, 0, s.ID)
	assert.Equal(t, float64(0), s.Attendance)
	assert.Equal(t, float64(0), s.Marks)
	assert.Equal(t, "Paid", s.FeeStatus)
	assert.Equal(t, "None", s.FinancialDifficulty)
}

func TestRepository_rewriteDropsExtraneousColumns(t *testing.T) {
	path := tempRoster(t)
	writeFile(t, path,
		"ID,Name,Attendance,Marks,FeeStatus,FinancialDifficulty,Risk Level\n"+
			"1,Alice,90,90,Paid,None,Safe\n"+
			"2,Bob,30,30,Pending,Severe,High Risk\n")
	repo := NewRepository(path)

	require.NoError(t, repo.DeleteByName("Bob"))

	content := readFile(t, path)
	assert.Equal(t, "ID,Name,Attendance,Marks,FeeStatus,FinancialDifficulty\n1,Alice,90,90,Paid,None\n", content)
}

func TestRepository_Load_raggedRows(t *testing.T) {
	path := tempRoster(t)
	writeFile(t, path, "ID,Name,Attendance,Marks,FeeStatus,FinancialDifficulty\n1,Alice\n")
	repo := NewRepository(path)

	students, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.Student{
		ID:                  1,
		Name:                "Alice",
		FeeStatus:           "Paid",
		FinancialDifficulty: "None",
	}, students[0])
}
