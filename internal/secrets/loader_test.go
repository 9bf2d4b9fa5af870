package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("  from-file\n"), 0o600))
	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("\n"), 0o600))

	t.Setenv("CV_MATCHER_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{"file wins", Source{File: keyFile, Value: "inline", Env: "CV_MATCHER_TEST_KEY"}, "from-file", ""},
		{"inline before env", Source{Value: " inline ", Env: "CV_MATCHER_TEST_KEY"}, "inline", ""},
		{"env", Source{Env: "CV_MATCHER_TEST_KEY"}, "from-env", ""},
		{"missing file", Source{Name: "gemini api key", File: filepath.Join(dir, "nope")}, "", "reading gemini api key from file"},
		{"empty file", Source{File: emptyFile}, "", "is empty"},
		{"unset env", Source{Name: "key", Env: "CV_MATCHER_TEST_UNSET"}, "", "key is not configured (set CV_MATCHER_TEST_UNSET)"},
		{"nothing", Source{}, "", "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
