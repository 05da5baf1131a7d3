package lossy_test

import (
	"testing"

	"github.com/reoring/lossy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type service struct {
	Name    lossy.Value[string]     `json:"name"`
	Ports   lossy.Slice[int]        `json:"ports"`
	Timeout lossy.Optional[float64] `json:"timeout"`
	Meta    struct {
		Owner lossy.Value[string]         `json:"owner"`
		Tags  lossy.OptionalSlice[string] `json:"tags"`
	} `json:"meta"`
}

func TestSchema_WrappersDescribePayload(t *testing.T) {
	s := lossy.Schema(&service{})
	require.NotNil(t, s)
	assert.ElementsMatch(t, []string{"name", "meta"}, s.Required)

	name, ok := s.Properties.Get("name")
	require.True(t, ok)
	assert.Equal(t, "string", name.Type)

	ports, ok := s.Properties.Get("ports")
	require.True(t, ok)
	assert.Equal(t, "array", ports.Type)
	require.NotNil(t, ports.Items)
	assert.Equal(t, "integer", ports.Items.Type)

	timeout, ok := s.Properties.Get("timeout")
	require.True(t, ok)
	assert.Equal(t, "number", timeout.Type)

	meta, ok := s.Properties.Get("meta")
	require.True(t, ok)
	assert.Equal(t, []string{"owner"}, meta.Required)
}
