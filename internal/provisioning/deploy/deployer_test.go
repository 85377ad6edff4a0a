package deploy

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genieops/teamsgenie/internal/config"
	"github.com/genieops/teamsgenie/internal/platform/azure/fakes"
	"github.com/genieops/teamsgenie/internal/provisioning"
)

func newTestContext(fake *fakes.FakeCloud) *provisioning.Context {
	cfg := &config.Config{
		TenantID:       "tenant-id",
		SubscriptionID: "sub-id",
		DatabricksHost: "https://adb-123.azuredatabricks.net",
		GenieSpaceID:   "space-1",
		BotName:        "genie-bot-test01",
	}
	cfg.Resolve("test01")

	ctx := provisioning.NewContext(context.Background(), cfg, fake)
	ctx.Sleep = func(time.Duration) {}
	return ctx
}

func newSourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("app_azure.py", "def init_func(argv):\n    pass\n")
	write("requirements.txt", "aiohttp\nbotbuilder-core\n")
	write("genie_client.py", "# helper\n")
	write(".env", "SECRET=1")
	write("__pycache__/app_azure.cpython-311.pyc", "bytecode")
	write("venv/lib/site.py", "# local env")
	write("manifest/manifest.template.json", "{}")
	return dir
}

func archiveNames(t *testing.T, data []byte) []string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func healthServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvisionArchivesSourceSet(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)
	ctx.State.PublicURL = healthServer(t, http.StatusOK).URL

	d := &Deployer{Dir: newSourceDir(t)}
	require.NoError(t, d.Provision(ctx))

	names := archiveNames(t, fake.DeployedArchive)
	assert.ElementsMatch(t, []string{"app_azure.py", "requirements.txt", "genie_client.py"}, names)
	assert.Empty(t, ctx.State.Warnings)
}

func TestProvisionMissingEntryFileFatal(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RequirementsFile), []byte("aiohttp\n"), 0o644))

	d := &Deployer{Dir: dir}
	err := d.Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), AppEntryFile)
	assert.False(t, fake.Called("DeployZip"))
}

func TestProvisionPushFailureFatal(t *testing.T) {
	fake := fakes.NewFakeCloud()
	fake.Err["DeployZip"] = errors.New("kudu unavailable")
	ctx := newTestContext(fake)

	d := &Deployer{Dir: newSourceDir(t)}
	err := d.Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push archive")
}

func TestProvisionUnhealthySiteIsWarning(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)
	ctx.State.PublicURL = healthServer(t, http.StatusServiceUnavailable).URL

	d := &Deployer{Dir: newSourceDir(t)}
	require.NoError(t, d.Provision(ctx))

	require.Len(t, ctx.State.Warnings, 1)
	assert.Equal(t, "probe health endpoint", ctx.State.Warnings[0].Step)
	assert.True(t, fake.Called("DeployZip"))
}

func TestProvisionWaitsBeforeProbe(t *testing.T) {
	fake := fakes.NewFakeCloud()
	ctx := newTestContext(fake)
	ctx.State.PublicURL = healthServer(t, http.StatusOK).URL

	var slept time.Duration
	ctx.Sleep = func(d time.Duration) { slept += d }

	d := &Deployer{Dir: newSourceDir(t)}
	require.NoError(t, d.Provision(ctx))
	assert.Equal(t, 30*time.Second, slept)
}
