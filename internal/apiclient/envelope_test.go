package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/labelboard/internal/domain/model"
)

func TestListEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []model.Category
		wantErr bool
	}{
		{name: "raw array", body: `[{"id":1,"name":"A"}]`, want: []model.Category{{ID: 1, Name: "A"}}},
		{name: "data wrapper", body: `{"data":[{"id":2,"name":"B"}]}`, want: []model.Category{{ID: 2, Name: "B"}}},
		{name: "empty data", body: `{"data":[]}`, want: []model.Category{}},
		{name: "null data", body: `{"data":null}`, want: []model.Category{}},
		{name: "data beside other fields", body: `{"message":"ok","data":[{"id":3,"name":"C"}]}`, want: []model.Category{{ID: 3, Name: "C"}}},
		{name: "data of the wrong shape", body: `{"data":{"id":1}}`, wantErr: true},
		{name: "no data field", body: `{"items":[]}`, wantErr: true},
		{name: "wrong type", body: `"nope"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env listEnvelope[model.Category]
			err := json.Unmarshal([]byte(tt.body), &env)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.Items)
		})
	}
}

func TestObjectEnvelope(t *testing.T) {
	var bare objectEnvelope[model.Label]
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"x","categories":[]}`), &bare))
	assert.Equal(t, int64(3), bare.Value.ID)

	var wrapped objectEnvelope[model.Label]
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"id":4,"name":"y"}}`), &wrapped))
	assert.Equal(t, int64(4), wrapped.Value.ID)
	assert.Equal(t, "y", wrapped.Value.Name)

	var withMessage objectEnvelope[model.Label]
	require.NoError(t, json.Unmarshal([]byte(`{"message":"Label created","data":{"id":5,"name":"z"}}`), &withMessage))
	assert.Equal(t, int64(5), withMessage.Value.ID)
	assert.Equal(t, "z", withMessage.Value.Name)

	var bad objectEnvelope[model.Label]
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &bad))
}
