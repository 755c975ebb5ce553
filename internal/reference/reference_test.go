package reference

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var header = []string{
	"physicalhealthdays", "mentalhealthdays", "bmi",
	"age_Age 18to24", "age_Age 25to29", "age_Age 80orolder",
	"received_tetanus",
}

// setupTestDB opens a throwaway SQLite database holding an empty
// reference table with the given columns.
func setupTestDB(t *testing.T, table string, cols []string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reference.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("could not open test DB: %v", err)
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = `"` + c + `" REAL`
	}
	ddl := "CREATE TABLE " + table + " (" + strings.Join(quoted, ", ") + ")"
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create reference table: %v", err)
	}
	return db
}

func TestLoadFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.csv")
	content := strings.Join(header, ",") + "\n0,0,22.5,1,0,0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cols, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Columns(header), cols)
	assert.Equal(t, []string{"age_Age 18to24", "age_Age 25to29", "age_Age 80orolder"}, cols.AgeColumns())
}

func TestReadCSVHeader_IndexColumnAndBOM(t *testing.T) {
	cols, err := ReadCSVHeader(strings.NewReader("\ufeff,bmi,age_Age 18to24\n0,20,1\n"))
	require.NoError(t, err)
	assert.Equal(t, Columns{"bmi", "age_Age 18to24"}, cols)

	_, err = ReadCSVHeader(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadFile_NoAgeColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.csv")
	require.NoError(t, os.WriteFile(path, []byte("bmi,sleephours\n"), 0o644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrNoAgeColumns)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = LoadFile("reference.parquet")
	assert.Error(t, err)
}

func TestLoadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.xlsx")

	f := excelize.NewFile()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cols, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Columns(header), cols)
}

func TestLoadTable_KeepsColumnOrder(t *testing.T) {
	db := setupTestDB(t, "heart_disease_preprocessed_data", header)

	cols, err := LoadTable(context.Background(), db, "heart_disease_preprocessed_data")
	require.NoError(t, err)
	assert.Equal(t, Columns(header), cols)
}

func TestLoadTable_Missing(t *testing.T) {
	db := setupTestDB(t, "other", header)

	_, err := LoadTable(context.Background(), db, "heart_disease_preprocessed_data")
	assert.Error(t, err)
}
