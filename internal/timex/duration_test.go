package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	var payload struct {
		Timeout Duration `json:"timeout"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"timeout":"3s"}`), &payload))
	assert.Equal(t, 3*time.Second, payload.Timeout.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"timeout":1500000000}`), &payload))
	assert.Equal(t, 1500*time.Millisecond, payload.Timeout.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"timeout":"xx"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"timeout":true}`), &payload))
}
