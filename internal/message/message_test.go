package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/llm"
)

type fakeProvider struct {
	out      string
	err      error
	got      llm.Request
	deadline bool
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.got = req
	_, f.deadline = ctx.Deadline()
	return f.out, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Provider:       "openai",
		Temperature:    0.3,
		MaxTokens:      512,
		Timeout:        30,
		PromptTemplate: "Describe:\n${diff}\nDone. Again: ${diff}",
	}
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "a X b X", BuildPrompt("a ${diff} b ${diff}", "X"))
	assert.Equal(t, "no placeholder", BuildPrompt("no placeholder", "X"))
}

func TestGenerate(t *testing.T) {
	p := &fakeProvider{out: "```json\n{\"commit_message\": \"  feat: add x  \"}\n```"}
	g := New(p, testConfig())

	msg, err := g.Generate(context.Background(), "+x")
	require.NoError(t, err)
	assert.Equal(t, "feat: add x", msg)

	assert.Equal(t, "Describe:\n+x\nDone. Again: +x", p.got.Prompt)
	assert.Equal(t, "gpt-4o-mini", p.got.Model) // provider default
	assert.InDelta(t, 0.3, p.got.Temperature, 1e-9)
	assert.Equal(t, 512, p.got.MaxTokens)
	assert.True(t, p.deadline)
}

func TestGenerate_ExplicitModelNoTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Model = "gpt-4o"
	cfg.Timeout = 0
	p := &fakeProvider{out: "fix: y"}

	msg, err := New(p, cfg).Generate(context.Background(), "diff")
	require.NoError(t, err)
	assert.Equal(t, "fix: y", msg)
	assert.Equal(t, "gpt-4o", p.got.Model)
	assert.False(t, p.deadline)
}

func TestGenerate_ProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	_, err := New(&fakeProvider{err: boom}, testConfig()).Generate(context.Background(), "diff")
	require.ErrorIs(t, err, boom)
}

func TestGenerate_EmptyOutput(t *testing.T) {
	_, err := New(&fakeProvider{out: "  "}, testConfig()).Generate(context.Background(), "diff")
	require.ErrorIs(t, err, llm.ErrEmptyMessage)
	assert.Equal(t, "fake returned empty commit message", err.Error())
}

func TestGenerate_Unconfigured(t *testing.T) {
	_, err := (&Generator{}).Generate(context.Background(), "diff")
	require.Error(t, err)
}

func TestGenerate_DeadlineFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 1
	p := &blockingProvider{}

	start := time.Now()
	_, err := New(p, cfg).Generate(context.Background(), "diff")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) Complete(ctx context.Context, _ llm.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
