package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/api"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStaticSource(t *testing.T) {
	routes := []api.RouteDescriptor{
		{Name: "a", Kind: api.ResolverKindHTTP, URL: "http://a"},
		{Name: "b", Kind: api.ResolverKindDisk, Path: "/b"},
	}
	s := NewStaticSource(routes)
	routes[0].Name = "mutated"

	got, err := s.Routes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "static", s.Name())

	got[1].Name = "changed"
	again, _ := s.Routes(context.Background())
	assert.Equal(t, "b", again[1].Name)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Routes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiskSource_Routes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "orders", "openapi.json"), "{}")
	writeFile(t, filepath.Join(root, "billing", "swagger.yaml"), "swagger: '2.0'")
	writeFile(t, filepath.Join(root, "billing", "route.yaml"), "contextPath: /api/billing\nlabels:\n  team: money\ndocument: swagger.yaml\n")
	writeFile(t, filepath.Join(root, "inventory.yaml"), "openapi: 3.0.0")
	writeFile(t, filepath.Join(root, ".git", "config"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	s := NewDiskSource(root)
	routes, err := s.Routes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "billing", routes[0].Name)
	assert.Equal(t, api.ResolverKindDisk, routes[0].Kind)
	assert.Equal(t, "/api/billing", routes[0].EffectiveContextPath())
	assert.Equal(t, "money", routes[0].Labels["team"])
	assert.Equal(t, filepath.Join(root, "billing", "swagger.yaml"), routes[0].Path)

	assert.Equal(t, "inventory", routes[1].Name)
	assert.Equal(t, filepath.Join(root, "inventory.yaml"), routes[1].Path)

	assert.Equal(t, "orders", routes[2].Name)
	assert.Equal(t, "/orders", routes[2].EffectiveContextPath())
	assert.Equal(t, filepath.Join(root, "orders"), routes[2].Path)

	assert.Equal(t, "disk:"+root, s.Name())
}

func TestDiskSource_FileAndDirectoryWithSameName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pets", "openapi.json"), "{}")
	writeFile(t, filepath.Join(root, "pets.json"), "{}")

	routes, err := NewDiskSource(root).Routes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "pets", routes[0].Name)
	assert.Equal(t, filepath.Join(root, "pets"), routes[0].Path)
}

func TestDiskSource_SkipsBrokenOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good", "openapi.json"), "{}")
	writeFile(t, filepath.Join(root, "bad", "route.yaml"), "labels: [unclosed")
	writeFile(t, filepath.Join(root, "escape", "route.yaml"), "document: ../../etc/passwd\n")

	routes, err := NewDiskSource(root).Routes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "good", routes[0].Name)
}

func TestDiskSource_MissingRoot(t *testing.T) {
	_, err := NewDiskSource(filepath.Join(t.TempDir(), "nope")).Routes(context.Background())
	assert.Error(t, err)
}

func TestDiskSource_EmptyRoot(t *testing.T) {
	routes, err := NewDiskSource(t.TempDir()).Routes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, routes)
}
