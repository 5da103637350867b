package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Line(t *testing.T) {
	var out bytes.Buffer
	p := NewFromReader(strings.NewReader("alice\r\nsecond\n"), &out)

	got, err := p.Line("Login: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Login: ", out.String())

	got, err = p.Line("")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestPrompter_LineWithoutNewline(t *testing.T) {
	p := NewFromReader(strings.NewReader("last"), &bytes.Buffer{})

	got, err := p.Line("")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Line("")
	assert.Error(t, err)
}

func TestPrompter_NewSecret(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "match", input: "pw\npw\n", want: "pw"},
		{name: "mismatch", input: "pw\nother\n", wantErr: true},
		{name: "no confirmation", input: "pw\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFromReader(strings.NewReader(tt.input), &bytes.Buffer{})

			got, err := p.NewSecret("Пароль: ", "Повторите пароль: ")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
