package shared

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"name": "test", "age": 30}`,
		},
		{
			name:        "unknown fields are ignored",
			requestBody: `{"name": "test", "extra": true}`,
		},
		{
			name:        "invalid json",
			requestBody: `{"name": "test", "age": 30,}`,
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "wrong type",
			requestBody: `{"age": "thirty"}`,
			wantErr:     true,
			errContains: "cannot unmarshal",
		},
		{
			name:        "empty body",
			requestBody: "",
			wantErr:     true,
			errContains: ErrEmptyBody.Error(),
		},
		{
			name:        "trailing data",
			requestBody: `{"name": "a"} {"name": "b"}`,
			wantErr:     true,
			errContains: "unexpected data",
		},
		{
			name:        "too large",
			requestBody: `{"name": "` + strings.Repeat("x", MaxBodyBytes) + `"}`,
			wantErr:     true,
			errContains: "too large",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.requestBody))
			var target sample
			err := DecodeJSON(httptest.NewRecorder(), req, &target)

			if tc.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "test", target.Name)
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})
	var target sample
	err := DecodeJSON(httptest.NewRecorder(), req, &target)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}
