package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chopperdaddy/punks-indexer/internal/types"
)

func TestStringPtr(t *testing.T) {
	p := types.StringPtr("0xabc")
	assert.NotNil(t, p)
	assert.Equal(t, "0xabc", *p)
}

func TestStringNilOrEmpty(t *testing.T) {
	assert.True(t, types.StringNilOrEmpty(nil))
	assert.True(t, types.StringNilOrEmpty(types.StringPtr("")))
	assert.False(t, types.StringNilOrEmpty(types.StringPtr("x")))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "", types.SafeString(nil))
	assert.Equal(t, "x", types.SafeString(types.StringPtr("x")))
}
