package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resgen/internal/core/config"
	"resgen/internal/core/ports"
	"resgen/internal/data/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fixture lays out a small project: two images, one strings table and one
// data file.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Resources", "icon.png"), pngBytes(t))
	writeFile(t, filepath.Join(root, "Resources", "logo.png"), pngBytes(t))
	writeFile(t, filepath.Join(root, "Resources", "en.lproj", "Localizable.strings"), []byte(`"greeting" = "Hello %@";`+"\n"))
	writeFile(t, filepath.Join(root, "Resources", "data.json"), []byte(`{"ok": true}`))
	return root
}

func newApp(t *testing.T, root string, mutate func(*config.Config), opts ...Option) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	if mutate != nil {
		mutate(cfg)
	}
	paths, err := config.ResolvePaths(cfg, root)
	require.NoError(t, err)
	a, err := New(cfg, paths, opts...)
	require.NoError(t, err)
	return a
}

func readOutput(t *testing.T, a *App) string {
	t.Helper()
	data, err := os.ReadFile(a.Paths.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_WritesOutput(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, nil)

	res, err := a.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.NotEmpty(t, res.RunID)
	assert.NotEmpty(t, res.Digest)
	assert.Equal(t, 2, res.Resources["image"])
	assert.Equal(t, 1, res.Resources["file"])
	assert.Equal(t, 1, res.Resources["strings"])
	assert.Positive(t, res.Leaves)

	out := readOutput(t, a)
	assert.Contains(t, out, "This is a generated file, do not edit!")
	assert.Contains(t, out, "icon")
	assert.Contains(t, out, "logo")
	assert.Contains(t, out, "greeting")
	assert.NotContains(t, out, "Potentially Unused Images")

	last := a.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, history.StatusOK, last.Status)
	assert.Equal(t, "generate", last.Trigger)
}

func TestGenerate_IsIdempotent(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, nil)
	ctx := context.Background()

	first, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	require.True(t, first.Changed)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(a.Paths.OutputFile, past, past))

	second, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Digest, second.Digest)

	info, err := os.Stat(a.Paths.OutputFile)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "unchanged output must not be rewritten")
}

func TestGenerate_DryRun(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, nil)
	ctx := context.Background()

	res, err := a.Generate(ctx, ports.GenerateRequest{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	_, err = os.Stat(a.Paths.OutputFile)
	assert.True(t, os.IsNotExist(err), "dry run must not write")

	_, err = a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	res, err = a.Generate(ctx, ports.GenerateRequest{DryRun: true})
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestGenerate_CollisionIsFatal(t *testing.T) {
	root := fixture(t)
	writeFile(t, filepath.Join(root, "Resources", "my icon.png"), pngBytes(t))
	writeFile(t, filepath.Join(root, "Resources", "my-icon.png"), pngBytes(t))

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	h := history.NewAdapter(store, 10)
	t.Cleanup(func() { _ = h.Close() })

	a := newApp(t, root, func(cfg *config.Config) {
		cfg.Output.SARIFReport = "reports/resgen.sarif"
	}, WithHistory(h))

	_, err = a.Generate(context.Background(), ports.GenerateRequest{})
	require.Error(t, err)

	_, statErr := os.Stat(a.Paths.OutputFile)
	assert.True(t, os.IsNotExist(statErr), "nothing may be written after a fatal error")

	sarif, err := os.ReadFile(a.Paths.SARIFReport)
	require.NoError(t, err)
	assert.Contains(t, string(sarif), "RES002")

	runs, err := a.History(context.Background(), time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}

func TestGenerate_AppendsUnusedBlock(t *testing.T) {
	root := fixture(t)
	writeFile(t, filepath.Join(root, "Sources", "View.swift"), []byte("let image = R.image.icon()\n"))

	a := newApp(t, root, func(cfg *config.Config) {
		cfg.Unused.Enabled = true
		cfg.Unused.Workers = 2
	})

	res, err := a.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"logo"}, res.Unused)

	out := readOutput(t, a)
	assert.True(t, strings.HasSuffix(out, "/* Potentially Unused Images\nlogo\n*/\n"), "unexpected tail:\n%s", out)
}

func TestGenerate_MissingSourceRootIsNotFatal(t *testing.T) {
	root := fixture(t)
	writeFile(t, filepath.Join(root, "Sources", "View.swift"), []byte("let image = R.image.icon()\n"))

	a := newApp(t, root, func(cfg *config.Config) {
		cfg.Unused.Enabled = true
		cfg.Sources.Roots = []string{"Sources", "Gone"}
		cfg.Output.SARIFReport = "reports/resgen.sarif"
	})

	res, err := a.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.FileExists(t, a.Paths.OutputFile)
	assert.Equal(t, []string{"logo"}, res.Unused)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, filepath.Join(root, "Gone"), res.Skipped[0].Path)

	sarif, err := os.ReadFile(a.Paths.SARIFReport)
	require.NoError(t, err)
	assert.Contains(t, string(sarif), "RES005")

	unusedRes, err := a.FindUnused(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"logo"}, unusedRes.Unused)
	assert.Len(t, unusedRes.Skipped, 1)
}

func TestFindUnused(t *testing.T) {
	root := fixture(t)
	writeFile(t, filepath.Join(root, "Sources", "View.swift"), []byte("let image = R.image.logo()\n"))
	writeFile(t, filepath.Join(root, "Sources", "Legacy.m"), []byte("// no images here\n"))

	a := newApp(t, root, nil)
	res, err := a.FindUnused(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"icon"}, res.Unused)
	assert.Equal(t, 2, res.Sources)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "R.image.icon", res.Candidates[0].Accessors["swift"])
	assert.Empty(t, res.Skipped)
}

func TestHistory(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, nil)
	_, err := a.History(context.Background(), time.Time{}, 0)
	assert.Error(t, err, "history is disabled without a store")

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	h := history.NewAdapter(store, 2)
	t.Cleanup(func() { _ = h.Close() })

	a = newApp(t, root, func(cfg *config.Config) {
		cfg.Project.ProductModule = "Demo"
	}, WithHistory(h))
	for i := 0; i < 3; i++ {
		_, err := a.Generate(context.Background(), ports.GenerateRequest{Trigger: "test"})
		require.NoError(t, err)
	}

	runs, err := a.History(context.Background(), time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2, "records are pruned to the retention limit")
	assert.Equal(t, "Demo", runs[0].ProjectKey)
	assert.Equal(t, "test", runs[0].Trigger)
	assert.False(t, runs[0].Changed)
	assert.False(t, runs[1].Changed)

	digest, err := h.LastDigest("Demo")
	require.NoError(t, err)
	assert.Equal(t, runs[0].Digest, digest)
}

func TestGenerate_ExcludesOwnFiles(t *testing.T) {
	root := fixture(t)
	configPath := filepath.Join(root, config.DefaultFileName)
	writeFile(t, configPath, []byte("version = 1\n"))

	a := newApp(t, root, func(cfg *config.Config) {
		cfg.Output.MarkdownReport = "resgen-report.md"
	}, WithConfigFile(configPath))
	ctx := context.Background()

	first, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Resources["file"])
	assert.Len(t, first.Reports, 1)

	second, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Resources["file"], "the report must not become a resource")
	assert.False(t, second.Changed)

	assert.False(t, a.Relevant(configPath))
	assert.False(t, a.Relevant(a.Paths.OutputFile))
	assert.False(t, a.Relevant(a.Paths.MarkdownReport))
	assert.True(t, a.Relevant(filepath.Join(root, "Resources", "new.png")))
	assert.False(t, a.Relevant(filepath.Join(root, "Sources", "View.swift")), "sources only matter with unused analysis")
}

func TestReload(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, nil)
	ctx := context.Background()
	_, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.Project.AccessLevel = "public"
	paths, err := config.ResolvePaths(cfg, root)
	require.NoError(t, err)
	require.NoError(t, a.Reload(cfg, paths))

	res, err := a.Generate(ctx, ports.GenerateRequest{})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, readOutput(t, a), "public ")
}

func TestWatch_RegeneratesOnChange(t *testing.T) {
	root := fixture(t)
	a := newApp(t, root, func(cfg *config.Config) {
		cfg.Watch.Debounce = 50 * time.Millisecond
		cfg.Watch.MinInterval = 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan ports.GenerateResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, func(res ports.GenerateResult, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	select {
	case res := <-results:
		assert.True(t, res.Changed)
	case <-time.After(5 * time.Second):
		t.Fatal("initial generation did not run")
	}

	added := filepath.Join(root, "Resources", "banner.png")
	data := pngBytes(t)
	require.Eventually(t, func() bool {
		// Rewriting keeps producing events until the watcher is attached.
		_ = os.WriteFile(added, data, 0o644)
		for {
			select {
			case res := <-results:
				if res.Changed && res.Resources["image"] == 3 {
					return true
				}
			default:
				return false
			}
		}
	}, 10*time.Second, 200*time.Millisecond)
	assert.Contains(t, readOutput(t, a), "banner")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
