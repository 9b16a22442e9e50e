package irisdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "my-openai-config", true},
		{"dots and underscores", "cfg_v2.1", true},
		{"empty", "", false},
		{"semicolon injection", "bad;name", false},
		{"quote", "x' OR '1'='1", false},
		{"whitespace", "my config", false},
		{"parens", "EMBEDDING()", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateConfigName(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.input, got)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
