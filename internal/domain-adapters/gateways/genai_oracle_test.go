package gateways

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ochairo/casebot/internal/domain/entities"
)

type fakeGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.answer, genai.RoleModel)}},
	}, nil
}

var oracleRecords = []entities.TestCaseRecord{
	entities.NewTestCaseRecord(0, "Login Success", "verify login", "tests/ui/auth/test_login.py", nil),
	entities.NewTestCaseRecord(1, "Checkout Flow", "purchase items", "", nil),
}

func TestGenAIOracle_SelectRecord(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantIdx int
		wantOK  bool
		wantErr bool
	}{
		{name: "index", answer: `{"index": 1}`, wantIdx: 1, wantOK: true},
		{name: "fenced", answer: "```json\n{\"index\": 0}\n```", wantIdx: 0, wantOK: true},
		{name: "none", answer: `{"index": null}`},
		{name: "out of range", answer: `{"index": 7}`},
		{name: "garbage", answer: `the second one`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{answer: tt.answer}
			idx, ok, err := newGenAIOracle(gen, "").SelectRecord(context.Background(), "buy something", oracleRecords)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantIdx, idx)
			require.Len(t, gen.prompts, 1)
			assert.Contains(t, gen.prompts[0], "buy something")
			assert.Contains(t, gen.prompts[0], "Checkout Flow")
		})
	}
}

func TestGenAIOracle_SelectArtifact(t *testing.T) {
	index := entities.NewArtifactIndex("tests/ui", map[string]string{
		"tests/ui/cart/test_checkout.py": "def test_checkout_flow(): pass",
	})

	gen := &fakeGenerator{answer: `{"path": "tests/ui/cart/test_checkout.py"}`}
	p, ok, err := newGenAIOracle(gen, "gemini-test").SelectArtifact(context.Background(), oracleRecords[1], index)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tests/ui/cart/test_checkout.py", p)
	assert.Contains(t, gen.prompts[0], "test_checkout_flow")

	gen = &fakeGenerator{answer: `{"path": ""}`}
	_, ok, err = newGenAIOracle(gen, "").SelectArtifact(context.Background(), oracleRecords[1], index)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenAIOracle_Errors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	_, _, err := newGenAIOracle(gen, "").SelectRecord(context.Background(), "login", oracleRecords)
	assert.ErrorContains(t, err, "quota exceeded")

	_, ok, err := newGenAIOracle(gen, "").SelectArtifact(context.Background(), oracleRecords[0], entities.NewArtifactIndex("", nil))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewGenAIOracle_RequiresKey(t *testing.T) {
	_, err := NewGenAIOracle(context.Background(), "", "")
	assert.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	short := "def test_login(): pass"
	assert.Equal(t, short, excerpt(short))

	ascii := strings.Repeat("a", excerptLength+10)
	assert.Len(t, excerpt(ascii), excerptLength)

	// a 3-byte rune straddles the cut
	multi := strings.Repeat("a", excerptLength-1) + "ログイン"
	got := excerpt(multi)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", excerptLength-1), got)
}
