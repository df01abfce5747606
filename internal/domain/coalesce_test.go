package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, PaceRelaxed, Coalesce(PaceMode(""), PaceRelaxed, PaceNormal))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 3, Coalesce(0, 0, 3))
}

func TestValueOr(t *testing.T) {
	walk := 0
	assert.Equal(t, 0, ValueOr(20, nil, &walk), "an explicit zero wins over the fallback")
	assert.Equal(t, 20, ValueOr[int](20))
}
