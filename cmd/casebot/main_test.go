package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `title,description,script_path
Login Success,Verify that a user can log in with valid credentials,tests/ui/auth/test_login.py
Checkout Flow,Verify the full checkout process,
Profile Update,Verify that a user can change their display name,
`

// setupWorkspace writes a dataset and script tree and points the environment at them
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	dataset := filepath.Join(dir, "test_cases.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(testDataset), 0o600))

	root := filepath.Join(dir, "tests", "ui")
	for _, rel := range []string{"auth/test_login.py", "cart/test_checkout.py"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("def test(): pass\n"), 0o600))
	}

	// The CLI reads these; CI runners set some of them
	for _, key := range []string{
		"CASEBOT_CONFIG", "ARTIFACT_PATTERN", "MATCH_MODE", "MOCK_MODE", "GEMINI_API_KEY",
		"DISPATCH_MODE", "MOCK_GITHUB_MODE", "GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_REPO",
		"GITHUB_WORKFLOW_ID", "GITHUB_REF", "GITHUB_API_URL", "DISPATCH_TIMEOUT",
		"SLACK_BOT_TOKEN", "SLACK_APP_TOKEN", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATASET_PATH", dataset)
	t.Setenv("TESTS_ROOT", filepath.Join(dir, "tests", "ui"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch(t *testing.T) {
	dir := setupWorkspace(t)

	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{
			name:  "catalog script path",
			args:  []string{"search", "login"},
			wants: []string{"Title:       Login Success", "Script:      tests/ui/auth/test_login.py", "Source:      catalog"},
		},
		{
			name: "filename heuristic",
			args: []string{"search", "Checkout", "Flow"},
			wants: []string{
				"Title:       Checkout Flow",
				"Script:      " + filepath.ToSlash(filepath.Join(dir, "tests", "ui")) + "/cart/test_checkout.py",
				"Source:      heuristic",
			},
		},
		{
			name:  "no script",
			args:  []string{"search", "profile"},
			wants: []string{"Title:       Profile Update", "Script:      No matching script found"},
		},
		{
			name:  "no case",
			args:  []string{"search", "make", "me", "a", "coffee"},
			wants: []string{`No test case matches "make me a coffee"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.wants {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestSearch_MissingDataset(t *testing.T) {
	dir := setupWorkspace(t)
	t.Setenv("DATASET_PATH", filepath.Join(dir, "absent.csv"))

	_, err := execute(t, "", "search", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestList(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "list", "--artifacts")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 total)")
	assert.Contains(t, out, "Login Success")
	assert.Contains(t, out, "(no script_path)")
	assert.Contains(t, out, "cart/test_checkout.py")
}

func TestDispatch_Mock(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "dispatch", "tests/ui/auth/test_login.py")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode:     mock")
	assert.Contains(t, out, "Workflow: fumiharu/ui-automation-test-sample:ui-test.yml@main")
	assert.Contains(t, out, "Dispatched tests/ui/auth/test_login.py")
}

func TestDispatch_Live(t *testing.T) {
	setupWorkspace(t)

	var (
		mu      sync.Mutex
		gotPath string
		status  = http.StatusNoContent
		got     struct {
			Ref    string            `json:"ref"`
			Inputs map[string]string `json:"inputs"`
		}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(status)
		if status != http.StatusNoContent {
			_, _ = w.Write([]byte(`{"message":"Unexpected inputs provided"}`))
		}
	}))
	defer server.Close()

	t.Setenv("DISPATCH_MODE", "live")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_API_URL", server.URL)

	out, err := execute(t, "", "dispatch", "tests/ui/cart/test_checkout.py")
	require.NoError(t, err)
	assert.Contains(t, out, "Mode:     live")
	mu.Lock()
	assert.Equal(t, "/repos/fumiharu/ui-automation-test-sample/actions/workflows/ui-test.yml/dispatches", gotPath)
	assert.Equal(t, "main", got.Ref)
	assert.Equal(t, map[string]string{"test_target": "tests/ui/cart/test_checkout.py"}, got.Inputs)
	status = http.StatusUnprocessableEntity
	mu.Unlock()

	_, err = execute(t, "", "dispatch", "tests/ui/cart/test_checkout.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch failed")
}

func TestDispatch_LiveWithoutToken(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("MOCK_GITHUB_MODE", "false")

	_, err := execute(t, "", "dispatch", "tests/ui/auth/test_login.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing credential")
}

func TestSimulate(t *testing.T) {
	setupWorkspace(t)
	// simulate forces mock dispatch even when live is configured
	t.Setenv("DISPATCH_MODE", "live")

	input := strings.Join([]string{
		"login",
		"y",
		"make me a coffee",
		"profile",
		"checkout flow",
		"n",
		"exit",
		"never read",
	}, "\n")

	out, err := execute(t, input, "simulate")
	require.NoError(t, err)

	assert.Contains(t, out, "Found test case!")
	assert.Contains(t, out, "Test execution started for `tests/ui/auth/test_login.py`!")
	assert.Contains(t, out, "couldn't find any relevant test case for 'make me a coffee'")
	assert.Contains(t, out, "I found the test case 'Profile Update' but couldn't find a script")
	assert.Contains(t, out, "cart/test_checkout.py")
	assert.Contains(t, out, "Test execution cancelled.")
	assert.NotContains(t, out, "Failed to start test execution")
}

func TestSimulate_EndOfInput(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "login\n", "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Do you want to run this test?")
	assert.NotContains(t, out, "Test execution started")
}

func TestServe_RequiresSlackTokens(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
}
