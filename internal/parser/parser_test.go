package parser

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)
	require.NotNil(t, p.Diagnostics())
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"plain pair", "mass = 1.25", "mass", "1.25", true},
		{"no spaces", "mass=1.25", "mass", "1.25", true},
		{"windows line ending", "mass = 1.25\r", "mass", "1.25", true},
		{"value keeps inner separators", "attN0 = top, pod_1", "attN0", "top, pod_1", true},
		{"second separator stays in value", "title = a = b", "title", "a = b", true},
		{"empty value", "author =", "author", "", true},
		{"blank", "", "", "", false},
		{"whitespace only", "   \t", "", "", false},
		{"comment", "// --- general parameters ---", "", "", false},
		{"no separator", "just some text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := splitLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}
