package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/jsonms/internal/testutils"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"who=Ada", "who=Bob", "x=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"who": {"Ada", "Bob"}, "x": {"a=b"}}, got)

	_, err = parseSets([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=v"})
	assert.Error(t, err)
}

func TestRunRender_Text(t *testing.T) {
	var out bytes.Buffer
	err := runRender(context.Background(), &out, renderOptions{
		Template: "Hello {who} and {other}!",
		Set:      []string{"who=Ada"},
		Output:   outputText,
		Missing:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada and !\nmissing: other\n", out.String())
}

func TestRunRender_HTML(t *testing.T) {
	var out bytes.Buffer
	err := runRender(context.Background(), &out, renderOptions{
		Template: "<{who}>",
		Set:      []string{"who=**Ada**"},
		Format:   "markdown",
		Tag:      "p",
		Output:   outputHTML,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<strong>Ada</strong>")
	assert.Contains(t, out.String(), "&lt;")
	assert.Contains(t, out.String(), "<p>")
}

func TestRunRender_FromLibrary(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"greeting.md": "---\nfragments:\n  who: [\"world\"]\n---\nHello {who}!",
	})

	var out bytes.Buffer
	err := runRender(context.Background(), &out, renderOptions{Name: "greeting", Templates: dir, Output: outputText})
	require.NoError(t, err)
	assert.Equal(t, "Hello world!\n", out.String())

	out.Reset()
	err = runRender(context.Background(), &out, renderOptions{Name: "greeting", Templates: dir, Set: []string{"who=Ada"}, Output: outputText})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada!\n", out.String())

	err = runRender(context.Background(), &out, renderOptions{Name: "nope", Templates: dir})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestRunRender_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runRender(context.Background(), &out, renderOptions{Name: "x"}))
	assert.Error(t, runRender(context.Background(), &out, renderOptions{Template: "x", Output: "pdf"}))
	assert.Error(t, runRender(context.Background(), &out, renderOptions{Template: "x", Tag: "<b>", Output: outputHTML}))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "jsonms version")
}
