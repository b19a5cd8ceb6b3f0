package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/premiere/internal/catalog"
)

func TestCatalogMessageCarriesSnapshot(t *testing.T) {
	cat := catalog.Default()
	data, err := Encode(NewCatalog("s1", 3, cat))
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeCatalog, msg.Type)
	assert.Equal(t, "s1", msg.Session)
	assert.Equal(t, uint64(3), msg.Seq)

	got, err := msg.CatalogValue()
	require.NoError(t, err)
	if diff := cmp.Diff(cat.All(), got.All()); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestHelloMessage(t *testing.T) {
	data, err := Encode(NewHello("abc", "v1.0.0"))
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeHello, msg.Type)
	assert.Equal(t, "v1.0.0", msg.Server)
	assert.False(t, msg.Time.IsZero())

	_, err = msg.CatalogValue()
	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestErrorMessage(t *testing.T) {
	data, err := Encode(NewError("abc", errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","session":"abc","error":"boom"}`, string(data))
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"not json", "{", "malformed feed message"},
		{"no type", `{"session":"x"}`, "no type"},
		{"unknown type", `{"type":"party"}`, `unknown feed message type "party"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalogValueValidates(t *testing.T) {
	doc := catalog.Document{Version: 1, Scripts: []catalog.Record{{ID: "1"}, {ID: "1"}}}
	msg := Message{Type: TypeCatalog, Catalog: &doc}

	_, err := msg.CatalogValue()
	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Reason, "duplicate id")
}
