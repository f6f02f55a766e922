package provisioning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional(t *testing.T) {
	t.Parallel()

	var zero Optional[int32]
	assert.False(t, zero.IsPresent())
	assert.Panics(t, func() { zero.MustGet() })

	some := Some(int32(8080))
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, int32(8080), v)
	assert.Equal(t, int32(8080), some.MustGet())
	assert.Equal(t, zero, None[int32]())

	// A present zero value is still present.
	assert.True(t, Some(int32(0)).IsPresent())
}

func TestOptional_MarshalJSON(t *testing.T) {
	t.Parallel()
	h := DeploymentHandle{Name: "api-dep", Namespace: "api-ns"}

	data, err := json.Marshal(h)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"api-dep","namespace":"api-ns","port":null}`, string(data))

	h.Port = Some(int32(8080))
	data, err = json.Marshal(h)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name":"api-dep","namespace":"api-ns","port":8080}`, string(data))
}
