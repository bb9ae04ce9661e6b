package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetime_JSON(t *testing.T) {
	type payload struct {
		At Datetime `json:"at"`
	}

	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	b, err := json.Marshal(payload{At: NewDatetime(at)})
	require.NoError(t, err)
	require.JSONEq(t, `{"at":"2024-03-01T12:30:00Z"}`, string(b))

	got := new(payload)
	require.NoError(t, json.Unmarshal(b, got))
	require.True(t, at.Equal(got.At.Time()))

	b, err = json.Marshal(payload{})
	require.NoError(t, err)
	require.JSONEq(t, `{"at":null}`, string(b))

	require.Error(t, json.Unmarshal([]byte(`{"at":"yesterday"}`), got))
}

func TestDatetime_Scan(t *testing.T) {
	d := new(Datetime)
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, d.Scan(at))
	require.Equal(t, "2024-03-01T12:30:00Z", d.String())

	require.NoError(t, d.Scan("2024-03-02T00:00:00Z"))
	require.Equal(t, "2024-03-02T00:00:00Z", d.String())

	require.NoError(t, d.Scan(nil))
	require.True(t, d.Time().IsZero())

	require.Error(t, d.Scan(42))
}
