package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageResponse(t *testing.T) {
	p := NewPageResponse([]string{"a", "b"}, 2, 2, 5)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPageResponse[string](nil, 1, 20, 0)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"page":1,"page_size":20,"total":0,"total_pages":0}`, string(raw))

	assert.Zero(t, NewPageResponse([]int{}, 1, 0, 10).TotalPages)
}
