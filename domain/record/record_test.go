package record

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	env, err := NewEnvelope("widget", "w_1", payload{Name: "a widget"}, "Widget: a widget")
	require.NoError(t, err)

	assert.Equal(t, "widget", env.RecordType)
	assert.Equal(t, "w_1", env.RecordID)
	assert.Equal(t, "Widget: a widget", env.Text)

	var got payload
	require.NoError(t, env.DecodeData(&got))
	assert.Equal(t, "a widget", got.Name)
}

func TestEnvelopeValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		wantErr bool
	}{
		{name: "valid", env: Envelope{RecordType: "widget", RecordID: "w_1"}},
		{name: "missing type", env: Envelope{RecordID: "w_1"}, wantErr: true},
		{name: "missing id", env: Envelope{RecordType: "widget"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeDataCorrupt(t *testing.T) {
	env := Envelope{
		RecordType: "widget",
		RecordID:   "w_1",
		Data:       json.RawMessage(`{"name": 42`),
	}

	var out struct{ Name string }
	err := env.DecodeData(&out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, "w_1", corrupt.Raw.RecordID)
}

func TestCorruptPayloadCarriesRawBytes(t *testing.T) {
	raw := []byte(`{broken`)
	err := NewCorruptPayload(raw, errors.New("unexpected token"))

	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.Equal(t, raw, err.RawJSON)
}

func TestScopeValidate(t *testing.T) {
	assert.NoError(t, NewScope("alice", "things").Validate())
	assert.Error(t, NewScope("", "things").Validate())
	assert.Error(t, NewScope("alice", "").Validate())
}

func TestNewID(t *testing.T) {
	id := NewID("app")
	assert.Regexp(t, regexp.MustCompile(`^app_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewID("app"))
}

func TestBuildListQuery(t *testing.T) {
	q := BuildListQuery(
		WithFilter("status", "open"),
		WithSort("created_at", true),
		WithLimit(5),
	)

	require.Len(t, q.Filters(), 1)
	assert.Equal(t, "status", q.Filters()[0].Field())
	assert.Equal(t, "open", q.Filters()[0].Value())
	assert.Equal(t, "created_at", q.SortBy())
	assert.True(t, q.Descending())
	assert.Equal(t, 5, q.LimitValue())
}
