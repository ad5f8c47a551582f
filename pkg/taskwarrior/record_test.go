package taskwarrior

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	id := uuid.NewString()
	input := `{"uuid":"` + id + `","description":"Buy milk","status":"pending","due":"20230101T120000Z","project":"Groceries","tags":["buy","food"],"untilrel":"2 days"}`

	rec, err := ParseRecord([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, id, rec.UUID())
	assert.Equal(t, PENDING, rec.Status)
	assert.False(t, rec.IsTemplate())

	due, ok := rec.DueTime()
	require.True(t, ok)
	assert.True(t, due.Equal(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)))

	_, ok = rec.UntilTime()
	assert.False(t, ok)
	_, ok = rec.WaitTime()
	assert.False(t, ok)
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	for _, line := range []string{``, `{`, `[1,2]`, `null`, `"task"`, `{"due":"tomorrow"}`, `{"status":3}`} {
		_, err := ParseRecord([]byte(line))
		assert.Error(t, err, "line %q", line)
	}
}

func TestCustomTimeLayouts(t *testing.T) {
	var ct CustomTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-10T00:00:00Z"`), &ct))
	out, err := json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-10T00:00:00Z"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`"20240110T000000Z"`), &ct))
	out, err = json.Marshal(ct)
	require.NoError(t, err)
	assert.Equal(t, `"20240110T000000Z"`, string(out))

	out, err = json.Marshal(NewTime(time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"20240112T000000Z"`, string(out))
}

func TestIsTemplate(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`{"status":"recurring","recur":"weekly"}`, true},
		{`{"status":"recurring","recur":""}`, true},
		{`{"status":"recurring"}`, false},
		{`{"status":"recurring","recur":null}`, false},
		{`{"status":"pending","recur":"weekly"}`, false},
	}
	for _, tt := range tests {
		rec, err := ParseRecord([]byte(tt.line))
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.IsTemplate(), tt.line)
	}
}

func TestAttribute(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"uuid":"x","untilrel":"3d","waitrel":5,"blank":null}`))
	require.NoError(t, err)

	a := rec.Attribute("untilrel")
	assert.Equal(t, AttrText, a.Kind)
	assert.Equal(t, "3d", a.Text)

	assert.Equal(t, AttrOther, rec.Attribute("waitrel").Kind)
	assert.Equal(t, AttrOther, rec.Attribute("blank").Kind)
	assert.Equal(t, AttrAbsent, rec.Attribute("missing").Kind)
}

func TestEncodeUnmodifiedIsVerbatim(t *testing.T) {
	line := `{ "uuid": "x",  "status":"pending", "description":"a < b" }`
	rec, err := ParseRecord([]byte(line))
	require.NoError(t, err)

	out, err := rec.Encode()
	require.NoError(t, err)
	assert.Equal(t, line, string(out))
}

func TestEncodeKeepsUnknownFields(t *testing.T) {
	line := `{"uuid":"x","status":"pending","description":"a < b","due":"20240110T000000Z","annotations":[{"entry":"20240101T000000Z","description":"n"}],"untilrel":"2d"}`
	rec, err := ParseRecord([]byte(line))
	require.NoError(t, err)

	due, _ := rec.DueTime()
	rec.SetUntil(Shift(due, 2*86400))
	rec.SetWait(Shift(due, -86400))
	assert.True(t, rec.Modified())

	out, err := rec.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\n")
	assert.Contains(t, string(out), `"description":"a < b"`)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "20240112T000000Z", got["until"])
	assert.Equal(t, "20240109T000000Z", got["wait"])
	assert.Equal(t, "2d", got["untilrel"])
	assert.Equal(t, "pending", got["status"])
	assert.Len(t, got["annotations"], 1)
}
