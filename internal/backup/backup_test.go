package backup

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/petcare/internal/model"
)

func snapshot() Snapshot {
	claimed := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	return Snapshot{
		ExportedAt: time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC),
		Pet: model.Pet{
			ID:      "pet-1",
			Name:    "Mochi",
			Species: "cat",
			Stage:   model.StageChild,
			Stats:   model.Stats{Hunger: 50, Happiness: 60, Health: 90, Cleanliness: 40, Energy: 70},
			Level:   6,
			Balance: 240,
			Accessories: []model.Accessory{
				{ID: "crown", Name: "Crown", Slot: model.SlotHead},
			},
		},
		Streak:      3,
		LastBonusAt: &claimed,
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snapshot()))
	assert.Contains(t, buf.String(), `"version": 1`)
	assert.Contains(t, buf.String(), `"lastBonusDate": "2026-05-04T08:30:00Z"`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Mochi", got.Pet.Name)
	assert.Equal(t, 6, got.Pet.Level)
	assert.Equal(t, 3, got.Streak)
	require.NotNil(t, got.LastBonusAt)
	assert.True(t, got.LastBonusAt.Equal(*snapshot().LastBonusAt))
	require.Len(t, got.Pet.Accessories, 1)
}

func TestDecodeNullBonusDate(t *testing.T) {
	s := snapshot()
	s.LastBonusAt = nil
	raw, err := Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastBonusDate": null`)

	got, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Nil(t, got.LastBonusAt)
}

func TestDecodeClampsStats(t *testing.T) {
	inner := `{"id":"pet-1","name":"Mochi","species":"cat","stats":{"hunger":250,"happiness":-4,"health":50,"cleanliness":50,"energy":50},"level":0}`
	doc := `{"version":1,"pet":"` + base64.StdEncoding.EncodeToString([]byte(inner)) + `","streak":-2,"lastBonusDate":null}`

	got, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Pet.Stats.Hunger)
	assert.Equal(t, 0.0, got.Pet.Stats.Happiness)
	assert.Equal(t, 1, got.Pet.Level)
	assert.Equal(t, 0, got.Streak)
}

func TestDecodeRejectsBrokenDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "not json", doc: `backup`, want: ErrInvalidDocument},
		{name: "future version", doc: `{"version":7,"pet":"e30="}`, want: ErrUnsupportedVersion},
		{name: "missing pet", doc: `{"version":1}`, want: ErrInvalidDocument},
		{name: "bad base64", doc: `{"version":1,"pet":"%%%"}`, want: ErrInvalidDocument},
		{name: "bad inner json", doc: `{"version":1,"pet":"` + base64.StdEncoding.EncodeToString([]byte("{")) + `"}`, want: ErrInvalidDocument},
		{name: "pet without id", doc: `{"version":1,"pet":"e30="}`, want: ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "mochi.json")
	require.NoError(t, WriteFile(path, snapshot()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pet-1", got.Pet.ID)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDecodeKeepsReadError(t *testing.T) {
	doc, err := Marshal(snapshot())
	require.NoError(t, err)

	limited := http.MaxBytesReader(httptest.NewRecorder(), io.NopCloser(bytes.NewReader(doc)), 16)
	_, err = Decode(limited)

	require.ErrorIs(t, err, ErrInvalidDocument)
	var maxBytes *http.MaxBytesError
	assert.ErrorAs(t, err, &maxBytes)
}
