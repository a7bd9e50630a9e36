package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScan(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Date
	}{
		{"nil", nil, ""},
		{"time", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), "2024-05-06"},
		{"bytes", []byte("2024-05-06"), "2024-05-06"},
		{"rfc3339", "2024-05-06T00:00:00Z", "2024-05-06"},
		{"sqlite text", "2024-05-06 00:00:00+00:00", "2024-05-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.in))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("yesterday"))
}

func TestDateValue(t *testing.T) {
	v, err := Date("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Date("2024-01-02").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v)
}

func TestDateJSON(t *testing.T) {
	var out struct {
		D  Date  `json:"d"`
		P  *Date `json:"p"`
		NP *Date `json:"np"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-02-29","p":"2024-03-01T10:00:00Z","np":null}`), &out))
	assert.Equal(t, Date("2024-02-29"), out.D)
	require.NotNil(t, out.P)
	assert.Equal(t, Date("2024-03-01"), *out.P)
	assert.Nil(t, out.NP)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"2024-02-30"}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"d":20240101}`), &out))

	b, err := json.Marshal(Date("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02"`, string(b))
}

func TestTemplates(t *testing.T) {
	tpls := MeetingTemplates()
	require.Len(t, tpls, 4)

	tpl, ok := TemplateFor(MeetingWeeklyRecap)
	require.True(t, ok)
	assert.Equal(t, "Weekly Recap Meeting", tpl.Title)
	assert.Equal(t, "45", tpl.Duration)
	assert.Len(t, tpl.Agenda, 5)

	tpls[0].Agenda[0] = "changed"
	again, _ := TemplateFor(tpls[0].Type)
	assert.NotEqual(t, "changed", again.Agenda[0])

	_, ok = TemplateFor("standup")
	assert.False(t, ok)
}
