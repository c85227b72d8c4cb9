package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelyear/pixelyear/internal/planner"
)

func TestDocKey(t *testing.T) {
	assert.Equal(t, "plan:user-1:2025", docKey("user-1", 2025))
}

func TestChangeChannel(t *testing.T) {
	assert.Equal(t, "plan:changes:user-1", changeChannel("user-1"))
}

func TestDecodeChangeEvent_Valid(t *testing.T) {
	in := `{"partition_key":2025,"data":{"2025-01-01":{"color":"red"}},"updated_at":"2025-06-01T10:00:00Z","origin":"dev-a"}`

	ev, err := decodeChangeEvent(in)
	require.NoError(t, err)
	assert.Equal(t, 2025, ev.PartitionKey)
	assert.Equal(t, "2025-06-01T10:00:00Z", ev.UpdatedAt)
	assert.Equal(t, "dev-a", ev.Origin)
	assert.Equal(t, planner.Annotation{Color: "red"}, ev.Data["2025-01-01"])
}

func TestDecodeChangeEvent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "not json", in: `garbage`},
		{name: "data is a string", in: `{"partition_key":2025,"data":"nope","updated_at":"t"}`},
		{name: "data is an array", in: `{"partition_key":2025,"data":[1,2],"updated_at":"t"}`},
		{name: "partition is a string", in: `{"partition_key":"2025","data":{},"updated_at":"t"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeChangeEvent(tt.in)
			require.Error(t, err)
		})
	}
}

func TestDocument_RejectsNonObjectData(t *testing.T) {
	in := `{"owner_id":"u","partition_key":2025,"data":42,"updated_at":"2025-06-01T10:00:00Z"}`

	var doc Document
	err := json.Unmarshal([]byte(in), &doc)
	require.Error(t, err, "a non-object data field must fail the typed decode")
}
