package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"1", "2", "3", "4"}, c.IDs())

	titles := []string{
		"Midnight in the Alley",
		"Coffee Shop Serenade",
		"Neural Highway",
		"The Last Garden",
	}
	for i, want := range titles {
		assert.Equal(t, want, c.At(i).Title, "record %d", i)
	}

	noir, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Noir Thriller", noir.Genre)
	assert.Equal(t, "120 min", noir.Duration)
	assert.Equal(t, "Sarah Mitchell", noir.Author)
	assert.Contains(t, noir.Content, "EXT. RAIN-SOAKED ALLEY - NIGHT")
	assert.NotContains(t, noir.Description, "\n", "folded description should be a single line")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantErr string
	}{
		{
			name:    "empty catalog",
			records: nil,
		},
		{
			name:    "unique ids",
			records: []Record{{ID: "a"}, {ID: "b"}},
		},
		{
			name:    "missing id",
			records: []Record{{ID: "a"}, {Title: "untitled"}},
			wantErr: "script at position 1 has no id",
		},
		{
			name:    "duplicate id",
			records: []Record{{ID: "a"}, {ID: "b"}, {ID: "a"}},
			wantErr: `duplicate id "a" at positions 0 and 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.records)
			if tt.wantErr != "" {
				require.Error(t, err)
				var le *LoadError
				require.True(t, errors.As(err, &le))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.records), c.Len())
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []Record{{ID: "1", Title: "Original"}}
	c, err := New(in)
	require.NoError(t, err)

	in[0].Title = "Changed"
	assert.Equal(t, "Original", c.At(0).Title)

	out := c.All()
	out[0].Title = "Changed again"
	assert.Equal(t, "Original", c.At(0).Title)
}

func TestGetUnknown(t *testing.T) {
	_, ok := Default().Get("nope")
	assert.False(t, ok)

	var nilCatalog *Catalog
	_, ok = nilCatalog.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 0, nilCatalog.Len())
}

func TestParse(t *testing.T) {
	doc := `
version: 1
scripts:
  - id: x
    title: First
  - id: y
    title: Second
    content: |-
      FADE IN:

      FADE OUT.
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)

	want := []Record{
		{ID: "x", Title: "First"},
		{ID: "y", Title: "Second", Content: "FADE IN:\n\nFADE OUT."},
	}
	if diff := cmp.Diff(want, c.All()); diff != "" {
		t.Errorf("Parse() records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"wrong version", "version: 2\nscripts: []\n", "unsupported catalog version: 2"},
		{"missing version", "scripts: []\n", "unsupported catalog version: 0"},
		{"malformed yaml", "version: [1\n", "malformed catalog document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(good, []byte("version: 1\nscripts:\n  - id: only\n"), 0o600))

	c, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, c.IDs())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: 3\n"), 0o600))

	_, err = LoadFile(bad)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, bad, le.Path)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDocumentRoundTrip(t *testing.T) {
	c := Default()
	doc := c.Document()

	assert.Equal(t, DocumentVersion, doc.Version)

	again, err := FromDocument(doc)
	require.NoError(t, err)
	if diff := cmp.Diff(c.All(), again.All()); diff != "" {
		t.Errorf("document round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	want := Default()
	data, err := Marshal(want.Document())
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, want.All(), got.All())
}

func TestDefaultDocumentParses(t *testing.T) {
	c, err := Parse(DefaultDocument())
	require.NoError(t, err)
	assert.Equal(t, Default().IDs(), c.IDs())
}
