// Package testutil provides a standardized harness for integration tests:
// site fixtures are written to a temp directory, loaded through the HCL
// loader, and built into an in-memory output filesystem.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	muwanx "github.com/muwanx/muwanx-go"
	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Result    *muwanx.BuildResult
	FS        billy.Filesystem
	SiteDir   string
}

// WriteFixtures materializes the given relative-path → content map under a
// fresh temp directory and returns its path.
func WriteFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return tmpDir
}

// BuildSite loads the site fixtures through the HCL loader and builds into
// an in-memory filesystem, capturing debug logs.
func BuildSite(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	siteDir := WriteFixtures(t, files)
	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	res := &HarnessResult{FS: memfs.New(), SiteDir: siteDir}

	builder, err := hcl.NewLoader().Load(ctx, siteDir)
	if err != nil {
		res.Err = err
		res.LogOutput = logBuffer.String()
		return res
	}

	res.Result, res.Err = builder.Build(ctx, muwanx.BuildOptions{
		BaseDir:  siteDir,
		OutputFS: res.FS,
	})
	res.LogOutput = logBuffer.String()
	return res
}

// ReadOutput returns the contents of a bundle-relative file from the
// harness's output filesystem.
func ReadOutput(t *testing.T, fs billy.Filesystem, path string) []byte {
	t.Helper()
	f, err := fs.Open(path)
	require.NoError(t, err, "open %s", path)
	defer f.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(f)
	require.NoError(t, err, "read %s", path)
	return buf.Bytes()
}

// MinimalModelXML is a small MJCF fixture with two actuators and a sensor.
const MinimalModelXML = `<mujoco model="fixture">
  <worldbody>
    <body name="torso">
      <joint name="hip" type="hinge"/>
      <geom type="sphere" size="0.1"/>
      <body name="leg">
        <joint name="knee" type="hinge"/>
        <geom type="capsule" size="0.05 0.2"/>
      </body>
    </body>
  </worldbody>
  <actuator>
    <position name="m1" joint="hip"/>
    <position name="m2" joint="knee"/>
  </actuator>
  <sensor>
    <jointpos name="hip_pos" joint="hip"/>
  </sensor>
</mujoco>
`
