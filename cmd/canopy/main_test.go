package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const atlasDoc = `{"frames":{"hero.png":{"frame":{"x":0,"y":0,"w":32,"h":16}}},"meta":{"image":"atlas.png"}}`

// --- Config ---

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigExplicitMissingFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"canopy.toml": `
root = "assets"
cache_size = 16
atlases = ["ui.json", "chars.json"]
debug = true
`})
	t.Chdir(dir)
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{Root: "assets", CacheSize: 16, Atlases: []string{"ui.json", "chars.json"}, Debug: true}, cfg)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"neg.toml": "cache_size = -1\n",
		"bad.toml": "root = [\n",
	})
	_, err := loadConfig(filepath.Join(dir, "neg.toml"))
	assert.ErrorContains(t, err, "cache_size")
	_, err = loadConfig(filepath.Join(dir, "bad.toml"))
	assert.Error(t, err)
}

// --- Commands ---

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"atlas.json": atlasDoc,
		"hud.json":   `{"type":"Node","name":"hud"}`,
		"main.json": `{"type":"Scene","width":100,"height":100,"children":[
			{"type":"Sprite","file":"hero.png","tag":7,"x":10,"y":20},
			{"type":"SubGraph","file":"hud.json","layout":{"mode":1,"align":"center"}}
		]}`,
	})

	out, err := run(t, "dump", "--root", dir, "--atlas", "atlas.json", "main.json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Scene pos=(0,0) world=(0,0) size=100x100 src=main.json", lines[0])
	assert.Equal(t, "  Sprite tag=7 pos=(10,20) world=(-40,-30) size=32x16 src=hero.png", lines[1])
	assert.Equal(t, `  Node "hud" pos=(50,50) world=(0,0) src=hud.json`, lines[2])
}

func TestDumpCommandStrict(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.json": `{"type":"Node","children":[{"type":"Mystery"}]}`,
	})

	out, err := run(t, "dump", "--root", dir, "main.json")
	require.NoError(t, err)
	assert.Contains(t, out, "! unknown-type $.children[0]")

	_, err = run(t, "dump", "--root", dir, "--strict", "main.json")
	assert.ErrorContains(t, err, "1 problem(s)")
}

func TestDumpCommandMissingDocument(t *testing.T) {
	_, err := run(t, "dump", "--root", t.TempDir(), "main.json")
	assert.Error(t, err)
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.yaml": "type: Node\nchildren:\n  - {type: Sprite, tag: 1}\n  - {type: Node}\n",
	})

	out, err := run(t, "query", "--root", dir, "main.yaml", "$.children[*]")
	require.NoError(t, err)
	assert.Equal(t, "{\"tag\":1,\"type\":\"Sprite\"}\n{\"type\":\"Node\"}\n", out)

	_, err = run(t, "query", "--root", dir, "main.yaml", "$[[[")
	assert.Error(t, err)
}

// --- Watch ---

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"hud.json":  `{"type":"Node","name":"before"}`,
		"main.json": `{"type":"Node","children":[{"type":"SubGraph","file":"hud.json"}]}`,
	})
	cfg := defaultConfig()
	cfg.Root = dir
	l, err := newLoader(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- watch(ctx, l, dir, "main.json", &out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), `"before"`) },
		2*time.Second, 10*time.Millisecond)

	writeFiles(t, dir, map[string]string{"hud.json": `{"type":"Node","name":"after"}`})
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), `"after"`) },
		5*time.Second, 20*time.Millisecond, "sub-graph edit should purge the cache and rebuild")

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchSeesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ui/menu.yaml": "type: Node\nname: before\n",
		"main.json":    `{"type":"Node","children":[{"type":"SubGraph","file":"ui/menu.yaml"}]}`,
	})
	cfg := defaultConfig()
	cfg.Root = dir
	l, err := newLoader(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- watch(ctx, l, dir, "main.json", &out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), `"before"`) },
		2*time.Second, 10*time.Millisecond)

	writeFiles(t, dir, map[string]string{"ui/menu.yaml": "type: Node\nname: after\n"})
	assert.Eventually(t, func() bool { return strings.Contains(out.String(), `"after"`) },
		5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
