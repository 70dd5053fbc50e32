package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuthPayload_KnownShapes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantToken   string
		wantRefresh string
		wantEmail   string
	}{
		{
			name:      "flat",
			body:      `{"token":"t1","email":"a@b.com"}`,
			wantToken: "t1", wantEmail: "a@b.com",
		},
		{
			name:        "wrapped in data",
			body:        `{"success":true,"data":{"access_token":"t2","refresh_token":"r2","email":"c@d.com"}}`,
			wantToken:   "t2",
			wantRefresh: "r2",
			wantEmail:   "c@d.com",
		},
		{
			name:      "wrapped in user",
			body:      `{"user":{"accessToken":"t3","email":"e@f.com"}}`,
			wantToken: "t3", wantEmail: "e@f.com",
		},
		{
			name:        "data with tokens and nested user",
			body:        `{"data":{"authToken":"t4","refreshToken":"r4","user":{"email":"g@h.com"}}}`,
			wantToken:   "t4",
			wantRefresh: "r4",
			wantEmail:   "g@h.com",
		},
		{
			name:      "no token at all",
			body:      `{"success":true,"data":{"email":"a@b.com","user_role":"reporter"}}`,
			wantEmail: "a@b.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeAuthPayload([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, ExtractToken(p))
			assert.Equal(t, tt.wantRefresh, ExtractRefreshToken(p))
			assert.Equal(t, tt.wantEmail, p.Email())
		})
	}
}

func TestDecodeAuthPayload_TopLevelWinsOverNested(t *testing.T) {
	p, err := DecodeAuthPayload([]byte(`{"token":"outer","data":{"token":"inner"},"user":{"token":"user"}}`))
	require.NoError(t, err)
	assert.Equal(t, "outer", ExtractToken(p))
}

func TestDecodeAuthPayload_FieldOrderWithinLayer(t *testing.T) {
	p, err := DecodeAuthPayload([]byte(`{"authToken":"c","access_token":"b","token":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, "a", ExtractToken(p))

	p, err = DecodeAuthPayload([]byte(`{"authToken":"c","access_token":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "b", ExtractToken(p))
}

func TestDecodeAuthPayload_UnknownShapes(t *testing.T) {
	for _, body := range []string{
		`[]`,
		`"token"`,
		`null`,
		`not json`,
		`{"success":true}`,
		`{"success":true,"data":[1,2,3]}`,
		`{"data":{"items":[]}}`,
	} {
		_, err := DecodeAuthPayload([]byte(body))
		require.ErrorIs(t, err, ErrUnknownPayload, body)
	}
}

func TestDecodeAuthPayload_IgnoresOddlyTypedFields(t *testing.T) {
	p, err := DecodeAuthPayload([]byte(`{"token":42,"email":"x@y.com","name":{"first":"X"},"user_role":7}`))
	require.NoError(t, err)
	assert.Equal(t, "", ExtractToken(p))
	assert.Equal(t, "x@y.com", p.Email())
}

func TestNewPayload_FromMap(t *testing.T) {
	p, err := NewPayload(map[string]any{"data": map[string]any{"token": "m1", "name": "Mia"}})
	require.NoError(t, err)
	assert.Equal(t, "m1", ExtractToken(p))
	assert.Equal(t, "Mia", NormalizeDisplayName(p))
}

func TestExtract_NilPayload(t *testing.T) {
	assert.Equal(t, "", ExtractToken(nil))
	assert.Equal(t, "", ExtractRefreshToken(nil))
}
