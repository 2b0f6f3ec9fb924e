package mailgun

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteDescriptionQuirk(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"description":"Sample"}`, "Sample"},
		{"empty string", `{"description":""}`, ""},
		{"false", `{"description":false}`, "false"},
		{"null", `{"description":null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Route
			require.NoError(t, json.Unmarshal([]byte(tt.json), &r))
			assert.Equal(t, tt.want, r.Description)
		})
	}
}

func TestAccessLevelDecoding(t *testing.T) {
	tests := map[string]AccessLevel{
		`"readonly"`: AccessReadonly,
		`"members"`:  AccessMembers,
		`"everyone"`: AccessEveryone,
		`"Members"`:  AccessMembers,
		`"unknown"`:  AccessReadonly,
		`""`:         AccessReadonly,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			var a AccessLevel
			require.NoError(t, json.Unmarshal([]byte(in), &a))
			assert.Equal(t, want, a)
		})
	}

	var zero AccessLevel
	assert.Equal(t, "readonly", zero.String())
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"rfc1123", `"Tue, 09 Aug 2016 10:21:33 GMT"`, time.Date(2016, 8, 9, 10, 21, 33, 0, time.UTC), false},
		{"rfc1123z", `"Tue, 09 Aug 2016 10:21:33 +0000"`, time.Date(2016, 8, 9, 10, 21, 33, 0, time.UTC), false},
		{"rfc3339", `"2016-08-09T10:21:33Z"`, time.Date(2016, 8, 9, 10, 21, 33, 0, time.UTC), false},
		{"empty", `""`, time.Time{}, false},
		{"garbage", `"yesterday"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.in), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestMemberVarsRoundTrip(t *testing.T) {
	var m MailingListMember
	require.NoError(t, json.Unmarshal([]byte(`{"address":"a@b.com","vars":{}}`), &m))
	assert.NotNil(t, m.Vars)
	assert.Empty(t, m.Vars)
}

func TestUpdateRouteResponseDecoding(t *testing.T) {
	var u UpdateRouteResponse
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","priority":2,"description":false,"expression":"catch_all()","actions":["stop()"],"created_at":"Wed, 15 Feb 2012 13:03:31 GMT","message":"Route has been updated"}`), &u))

	assert.Equal(t, "r1", u.ID)
	assert.Equal(t, 2, u.Priority)
	assert.Equal(t, "false", u.Description)
	assert.Equal(t, "Route has been updated", u.Status)
}

func TestDecodeFailureOnBadTimestamp(t *testing.T) {
	var l MailingList
	err := json.Unmarshal([]byte(`{"address":"x@y","created_at":"not a date"}`), &l)
	assert.Error(t, err)
}
