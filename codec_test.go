package lossy_test

import (
	"testing"

	"github.com/reoring/lossy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cacheCodec is the shape storage layers expect.
type cacheCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

func TestCodec_RoundTripWithLosses(t *testing.T) {
	col := lossy.NewCollector()
	var c cacheCodec = lossy.Codec{Reporter: col}
	assert.Equal(t, "lossy/json", c.Name())

	var doc valuesDoc
	require.NoError(t, c.Unmarshal([]byte(`{"values":[1,{},3]}`), &doc))
	assert.Equal(t, []int{1, 3}, doc.Values.Get())
	assert.Equal(t, 1, col.Len())

	b, err := c.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[1,3]}`, string(b))
}

func TestCodec_YAML(t *testing.T) {
	c := lossy.Codec{YAML: true}
	assert.Equal(t, "lossy/yaml", c.Name())
	var doc valuesDoc
	require.NoError(t, c.Unmarshal([]byte("values:\n  - 1\n  - x\n"), &doc))
	assert.Equal(t, []int{1}, doc.Values.Get())
}
