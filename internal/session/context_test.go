package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()

	s := ctx.GetSession()
	assert.Equal(t, "No session loaded", s.Tag)

	install := ctx.GetInstall()
	assert.Equal(t, "No install loaded", install.Path)
}
