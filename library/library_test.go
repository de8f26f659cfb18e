package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-31tone/slots"
)

func TestLoadKeepsRowOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	content := `chords:
  - name: tonic
    code: sym5 s31
  - code: "94 125 156"
  - name: scatter
    code: rand5
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := Load(path)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]slots.Row{
		{Name: "tonic", Code: "sym5 s31"},
		{Name: "", Code: "94 125 156"},
		{Name: "scatter", Code: "rand5"},
	}, rows)
}

func TestLoadRejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("chords: []\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	rows := Default()

	assert := assert.New(t)
	assert.NoError(Save(path, rows))
	loaded, err := Load(path)
	assert.NoError(err)
	assert.Equal(rows, loaded)
}

func TestDefaultTableRowsAllParse(t *testing.T) {
	for _, row := range Default() {
		assert.NotEmpty(t, row.Code)
	}
}
