package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// recordSession stores a finished session holding lines.
func recordSession(t *testing.T, svc *testServices, label string, lines ...string) string {
	t.Helper()
	ctx := context.Background()

	session, err := svc.capture.Begin(ctx, label, domain.SerialSettings{Port: "/dev/ttyACM0", Baud: domain.Baud9600})
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, svc.capture.Record(ctx, l, nil, time.Now()))
	}
	require.NoError(t, svc.capture.End(ctx))
	return session.ID
}

func TestCaptureListCmd(t *testing.T) {
	svc := setupTestServices(t)
	id := recordSession(t, svc, "bench", "1,2", "3,4")

	out, err := execute(t, "capture", "list")

	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "bench")
	assert.Contains(t, out, "/dev/ttyACM0")
}

func TestCaptureListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "capture", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No capture sessions.")
}

func TestCaptureExportCmd_Stdout(t *testing.T) {
	svc := setupTestServices(t)
	id := recordSession(t, svc, "", "1,2", "oops", "3,4")

	out, err := execute(t, "capture", "export", id)

	require.NoError(t, err)
	assert.Equal(t, "1,2\noops\n3,4\n", out)
}

func TestCaptureExportCmd_File(t *testing.T) {
	svc := setupTestServices(t)
	id := recordSession(t, svc, "", "5")
	path := filepath.Join(t.TempDir(), "out.txt")

	out, err := execute(t, "capture", "export", id, "--output", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 records")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5\n", string(data))
}

func TestCaptureExportCmd_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "capture", "export", "missing")

	assert.ErrorContains(t, err, "capture session not found: missing")
}

func TestCaptureDeleteCmd(t *testing.T) {
	svc := setupTestServices(t)
	id := recordSession(t, svc, "", "1")

	out, err := execute(t, "capture", "delete", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted capture session "+id)
	sessions, err := svc.captures.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCaptureDeleteCmd_Recording(t *testing.T) {
	svc := setupTestServices(t)
	session, err := svc.capture.Begin(context.Background(), "", domain.SerialSettings{Port: "synthetic", Baud: domain.Baud9600})
	require.NoError(t, err)

	_, err = execute(t, "capture", "delete", session.ID)

	assert.ErrorContains(t, err, "still recording")
}

func TestCaptureDeleteCmd_RequiresID(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "capture", "delete")

	assert.ErrorContains(t, err, "accepts 1 arg(s)")
}

func TestLabelOrDash(t *testing.T) {
	assert.Equal(t, "-", labelOrDash(""))
	assert.Equal(t, "x", labelOrDash("x"))
}
