package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("SCRIPTRUNNER_VERSION", "")
	assert.Equal(t, DefaultVersion, Get())

	t.Setenv("SCRIPTRUNNER_VERSION", "v2.5.0-test")
	assert.Equal(t, "v2.5.0-test", Get())
}
