package lossy_test

import (
	"context"
	"testing"

	"github.com/reoring/lossy"
	"github.com/reoring/lossy/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError_Message(t *testing.T) {
	var doc requiredDoc
	err := lossy.Unmarshal(context.Background(), []byte(`{"n":"x"}`), &doc)
	require.Error(t, err)
	assert.Equal(t, "type mismatch at n: expected int, found string", err.Error())

	i18n.SetLanguage("ja")
	t.Cleanup(func() { i18n.SetLanguage("en") })
	assert.Equal(t, "型が一致しません at n: expected int, found string", err.Error())
}

func TestDecodeError_KeyNotFoundPath(t *testing.T) {
	var v struct {
		Inner struct {
			N lossy.Value[int] `json:"n"`
		} `json:"inner"`
	}
	err := lossy.Unmarshal(context.Background(), []byte(`{"inner":{}}`), &v)
	de, ok := lossy.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, lossy.KindKeyNotFound, de.Kind)
	assert.Equal(t, "inner", de.Path.String())
	assert.Equal(t, "inner.n", de.FullPath().String())
	assert.Equal(t, `key not found at inner.n: no value for key "n"`, err.Error())
}
