package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Name: CmdContinue}},
		{"n", Command{Name: CmdContinue, Args: []string{}}},
		{"select Object 1", Command{Name: CmdSelect, Args: []string{"Object", "1"}, Rest: "Object 1"}},
		{"= 42", Command{Name: CmdInput, Args: []string{"42"}, Rest: "42"}},
		{"CONNECT path:1 node:2", Command{Name: CmdConnect, Args: []string{"path:1", "node:2"}, Rest: "path:1 node:2"}},
		{"press Next line", Command{Name: CmdClick, Args: []string{"Next", "line"}, Rest: "Next line"}},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"jump", "select", "connect node:1", "click "} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}
