package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  error
	}{
		{input: "y\n", expected: true},
		{input: "YES\n", expected: true},
		{input: "  yes  \n", expected: true},
		{input: "n\n", expected: false},
		{input: "\n", expected: false},
		{input: "sure\n", expected: false},
		{input: "y", expected: true},
		{input: "", wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm(context.Background(), "Delete category c1?")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, "Delete category c1? [y/N]: ", out.String())
		})
	}
}

func TestConfirmCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(strings.NewReader("y\n"), io.Discard)
	ok, err := p.Confirm(ctx, "Discard?")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n2.0.0\n-\n"), &out)

	v, err := p.Line("Version", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v, "empty answer keeps the current value")

	v, err = p.Line("Version", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", v)

	v, err = p.Line("Staging URL", "https://staging.example.com")
	require.NoError(t, err)
	assert.Empty(t, v, "a dash clears the value")

	assert.Equal(t, "Version [1.0.0]: Version [1.0.0]: Staging URL [https://staging.example.com]: ", out.String())
}

func TestSecret(t *testing.T) {
	origTerm, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })

	t.Run("terminal", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		readPassword = func(int) ([]byte, error) { return []byte(" s3cret \n"), nil }

		var out bytes.Buffer
		v, err := New(strings.NewReader(""), &out).Secret("Token", true)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
		assert.Equal(t, "Token [hidden]: \n", out.String())
	})

	t.Run("terminal error", func(t *testing.T) {
		isTerminal = func(int) bool { return true }
		readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }

		_, err := New(strings.NewReader(""), io.Discard).Secret("Token", false)
		assert.ErrorContains(t, err, "failed to read token")
	})

	t.Run("piped input", func(t *testing.T) {
		isTerminal = func(int) bool { return false }

		v, err := New(strings.NewReader("piped-token\n"), io.Discard).Secret("Token", false)
		require.NoError(t, err)
		assert.Equal(t, "piped-token", v)
	})
}

func TestAutoConfirm(t *testing.T) {
	ok, err := AutoConfirm{}.Confirm(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
