package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceLoadsFirstEntry(t *testing.T) {
	path := writeFile(t, `[{"name":"anon","phq9Score":12,"phq9Severity":"Moderate"},{"name":"second"}]`)

	p, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon", p.Name)
	require.NotNil(t, p.PHQ9Score)
	assert.Equal(t, 12, *p.PHQ9Score)
	assert.Contains(t, p.Summary(), `"phq9Score":12`)
}

func TestFileSourceAcceptsSingleObject(t *testing.T) {
	path := writeFile(t, `{"gad7Score":7}`)

	p, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p.GAD7Score)
	assert.Equal(t, 7, *p.GAD7Score)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)

	_, err = NewFileSource(writeFile(t, `[]`)).Load(context.Background())
	assert.True(t, errors.Is(err, ErrNoProfile))

	_, err = NewFileSource(writeFile(t, `not json`)).Load(context.Background())
	assert.Error(t, err)
}
