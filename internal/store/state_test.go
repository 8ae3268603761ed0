package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		key       string
		wantErr   bool
	}{
		{"uuid key", "usernames", "0b6f1c8e-3d0a-4d5e-9a43-2f1f7a0c9b11", false},
		{"dotted namespace", "app.requests", "k1", false},
		{"colon in key", "ns", "a:b", false},
		{"empty namespace", "", "k", true},
		{"empty key", "ns", "", true},
		{"slash in key", "ns", "a/b", true},
		{"space in namespace", "my ns", "k", true},
		{"leading dot", "ns", ".hidden", true},
		{"too long", "ns", strings.Repeat("k", MaxKeyLength+1), true},
		{"max length", "ns", strings.Repeat("k", MaxKeyLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.namespace, tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode("ns", "k", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	_, err = Encode("ns", "k", make(chan int))
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = Encode("ns", "", 1)
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestDecode(t *testing.T) {
	var v struct{ A int }
	require.NoError(t, Decode("ns", "k", []byte(`{"A":3}`), &v))
	assert.Equal(t, 3, v.A)

	err := Decode("ns", "k", []byte(`not json`), &v)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "ns", storeErr.Namespace)
}
