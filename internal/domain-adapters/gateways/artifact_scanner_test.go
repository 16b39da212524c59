package gateways

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestArtifactScanner_Scan(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tests", "ui")
	writeFile(t, filepath.Join(root, "auth", "test_login.py"), "def test_login_success():\n    pass\n")
	writeFile(t, filepath.Join(root, "cart", "test_checkout.py"), "def test_checkout_flow():\n    pass\n")
	writeFile(t, filepath.Join(root, "cart", "README.md"), "not a test")
	writeFile(t, filepath.Join(root, "conftest.py"), "")

	index, err := NewArtifactScanner(root, "", nil).Scan(context.Background())
	require.NoError(t, err)

	rootKey := filepath.ToSlash(root)
	assert.Equal(t, []string{
		rootKey + "/auth/test_login.py",
		rootKey + "/cart/test_checkout.py",
		rootKey + "/conftest.py",
	}, index.Paths())

	content, ok := index.Content(rootKey + "/auth/test_login.py")
	require.True(t, ok)
	assert.Contains(t, content, "test_login_success")
}

func TestArtifactScanner_RelativeRootKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tests", "ui", "cart", "test_checkout.py"), "")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	index, err := NewArtifactScanner("tests/ui", "test_*.py", nil).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/ui/cart/test_checkout.py"}, index.Paths())
}

func TestArtifactScanner_CustomPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "login.spec.ts"), "")
	writeFile(t, filepath.Join(root, "test_login.py"), "")

	index, err := NewArtifactScanner(root, "*.spec.ts", nil).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, "login.spec.ts", filepath.Base(index.Paths()[0]))
}

func TestArtifactScanner_MissingRoot(t *testing.T) {
	index, err := NewArtifactScanner(filepath.Join(t.TempDir(), "missing"), "", nil).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())
}

func TestArtifactScanner_InvalidPattern(t *testing.T) {
	_, err := NewArtifactScanner(t.TempDir(), "[", nil).Scan(context.Background())
	assert.Error(t, err)
}

func TestArtifactScanner_UnreadableFileIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "test_ok.py"), "ok")
	locked := filepath.Join(root, "test_locked.py")
	writeFile(t, locked, "secret")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o600) })

	index, err := NewArtifactScanner(root, "", nil).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, "test_ok.py", filepath.Base(index.Paths()[0]))
}
