package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnhancer struct {
	entities []Entity
	err      error
	inputs   []string
}

func (s *stubEnhancer) Enhance(text string) ([]Entity, error) {
	s.inputs = append(s.inputs, text)
	return s.entities, s.err
}

func newTestRegistry(t *testing.T, root string, enhancer EntityEnhancer) *ToolRegistry {
	t.Helper()
	registry, err := NewToolRegistry(NewTextExtractor(), enhancer, root)
	require.NoError(t, err)
	return registry
}

func TestToolRegistry_AdvertisesFixedToolSet(t *testing.T) {
	registry := newTestRegistry(t, "", &stubEnhancer{})

	specs := registry.Specs()

	require.Len(t, specs, len(AllTools))
	for i, name := range AllTools {
		assert.Equal(t, string(name), specs[i].Name)
		require.Len(t, specs[i].Params, 1)
		assert.True(t, specs[i].Params[0].Required)
	}
}

func TestToolRegistry_LookupUnknownTool(t *testing.T) {
	registry := newTestRegistry(t, "", &stubEnhancer{})

	_, err := registry.Lookup("delete_everything")

	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolRegistry_RejectsDuplicateNames(t *testing.T) {
	run := func(map[string]any) (string, error) { return "", nil }

	_, err := newToolRegistry(
		Tool{Name: ToolExtractTXT, Run: run},
		Tool{Name: ToolExtractTXT, Run: run},
	)

	assert.Error(t, err)
}

func TestToolRegistry_ExtractTool(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", "Jane Doe")
	registry := newTestRegistry(t, dir, &stubEnhancer{})

	tool, err := registry.Lookup(string(ToolExtractTXT))
	require.NoError(t, err)

	out, err := tool.Run(map[string]any{"txt_path": path})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out)
}

func TestToolRegistry_ExtractToolStaysInsideRoot(t *testing.T) {
	outside := writeFile(t, t.TempDir(), "secret.txt", "do not read")
	registry := newTestRegistry(t, t.TempDir(), &stubEnhancer{})

	tool, err := registry.Lookup(string(ToolExtractTXT))
	require.NoError(t, err)

	_, err = tool.Run(map[string]any{"txt_path": outside})
	assert.Error(t, err)

	_, err = tool.Run(map[string]any{"txt_path": filepath.Join("..", "..", "etc", "passwd")})
	assert.Error(t, err)
}

func TestToolRegistry_ExtractToolDoesNotFollowSymlinksOut(t *testing.T) {
	outside := writeFile(t, t.TempDir(), "secret.txt", "do not read")
	root := t.TempDir()
	link := filepath.Join(root, "cv.txt")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	registry := newTestRegistry(t, root, &stubEnhancer{})

	tool, err := registry.Lookup(string(ToolExtractTXT))
	require.NoError(t, err)

	out, err := tool.Run(map[string]any{"txt_path": link})
	assert.ErrorContains(t, err, "outside the upload directory")
	assert.Empty(t, out)
}

func TestToolRegistry_ArgumentErrors(t *testing.T) {
	registry := newTestRegistry(t, "", &stubEnhancer{})
	tool, err := registry.Lookup(string(ToolExtractPDF))
	require.NoError(t, err)

	_, err = tool.Run(map[string]any{})
	assert.ErrorContains(t, err, "pdf_path")

	_, err = tool.Run(map[string]any{"pdf_path": 42})
	assert.ErrorContains(t, err, "must be a string")
}

func TestToolRegistry_EnhanceTool(t *testing.T) {
	enhancer := &stubEnhancer{entities: []Entity{{Span: "Jane Doe", Label: "PERSON"}}}
	registry := newTestRegistry(t, "", enhancer)

	tool, err := registry.Lookup(string(ToolEnhanceEntities))
	require.NoError(t, err)

	out, err := tool.Run(map[string]any{"text": "Jane Doe"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"span":"Jane Doe","label":"PERSON"}]`, out)
	assert.Equal(t, []string{"Jane Doe"}, enhancer.inputs)
}

func TestToolRegistry_EnhanceToolError(t *testing.T) {
	registry := newTestRegistry(t, "", &stubEnhancer{err: errors.New("model unavailable")})
	tool, err := registry.Lookup(string(ToolEnhanceEntities))
	require.NoError(t, err)

	_, err = tool.Run(map[string]any{"text": "x"})
	assert.EqualError(t, err, "model unavailable")
}
