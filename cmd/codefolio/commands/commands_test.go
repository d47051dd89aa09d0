package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefolio/cmd/codefolio/commands"
)

// Not parallel: every command installs the process-wide logger and
// telemetry providers.

const testLog = "commit,file,line,type,length,depth,date,time,timezone,datetime,author\n" +
	"a1,src/main.js,1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
	"a1,src/style.css,1,css,12,1,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
	"b2,src/main.js,2,js,31,2,2024-01-02,05:15:00,+00:00,2024-01-02T05:15:00Z,Ben\n"

const testProjects = `[
  {"title": "Lab Report", "year": 2024, "description": "Data viz with D3"},
  {"title": "Bike Map", "year": 2023, "description": "Mapbox traffic"},
  {"title": "Meta Page", "year": 2024, "description": "Commit scatter"}
]`

// fixture writes a config, change log and project list into a temp dir
// and returns the config path.
func fixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	logPath := filepath.Join(dir, "loc.csv")
	projectsPath := filepath.Join(dir, "projects.json")
	configPath := filepath.Join(dir, "codefolio.yaml")

	require.NoError(t, os.WriteFile(logPath, []byte(testLog), 0o600))
	require.NoError(t, os.WriteFile(projectsPath, []byte(testProjects), 0o600))

	cfg := "site:\n  title: Test Folio\n  repo_url: https://github.com/me/site\n" +
		"meta:\n  log: " + logPath + "\n  location: UTC\n" +
		"projects:\n  file: " + projectsPath + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))

	return configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := commands.NewRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())

	return out.String(), err
}

func TestMeta_Text(t *testing.T) {
	cfg := fixture(t)

	out, err := execute(t, "meta", "--config", cfg, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "CODE HISTORY")
	assert.Contains(t, out, "until January 2, 2024 at 5:15 AM")
	assert.Contains(t, out, "No commits selected")
	assert.Contains(t, out, "src/main.js")
}

func TestMeta_JSONAtStart(t *testing.T) {
	cfg := fixture(t)

	out, err := execute(t, "meta", "--config", cfg, "--progress", "0", "--format", "json")
	require.NoError(t, err)

	var model struct {
		TimeLabel string `json:"time_label"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	assert.Equal(t, "January 1, 2024 at 10:30 AM", model.TimeLabel)
}

func TestMeta_BrushSelectsCommits(t *testing.T) {
	cfg := fixture(t)

	out, err := execute(t, "meta", "--config", cfg, "--no-color", "--brush", "0,0,1000,600")
	require.NoError(t, err)

	assert.Contains(t, out, "2 commits selected")
	assert.Contains(t, out, "https://github.com/me/site/commit/a1")
}

func TestMeta_HTMLToFile(t *testing.T) {
	cfg := fixture(t)
	path := filepath.Join(t.TempDir(), "nested", "meta.html")

	out, err := execute(t, "meta", "--config", cfg, "--format", "html", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.NotContains(t, string(data), `name="progress"`)
}

func TestMeta_RejectsBadInput(t *testing.T) {
	cfg := fixture(t)

	_, err := execute(t, "meta", "--config", cfg, "--format", "xml")
	require.ErrorIs(t, err, commands.ErrUnknownFormat)

	_, err = execute(t, "meta", "--config", cfg, "--progress", "lots")
	require.Error(t, err)

	_, err = execute(t, "meta", "--config", cfg, "--brush", "1,2,3")
	require.Error(t, err)
}

func TestProjects_YAMLByYear(t *testing.T) {
	cfg := fixture(t)

	out, err := execute(t, "projects", "--config", cfg, "--year", "2024", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "total: 2")
	assert.Contains(t, out, "Lab Report")
	assert.NotContains(t, out, "title: Bike Map")
}

func TestProjects_TextSearch(t *testing.T) {
	cfg := fixture(t)

	out, err := execute(t, "projects", "--config", cfg, "--no-color", "--query", "mapbox")
	require.NoError(t, err)

	assert.Contains(t, out, "Bike Map")
	assert.NotContains(t, out, "Lab Report")
}

func TestBuild(t *testing.T) {
	cfg := fixture(t)
	outDir := t.TempDir()

	_, err := execute(t, "build", "--config", cfg)
	require.ErrorIs(t, err, commands.ErrNoOutputDir)

	out, err := execute(t, "build", "--config", cfg, "--output", outDir)
	require.NoError(t, err)

	for _, rel := range []string{"index.html", "projects/index.html", "meta/index.html", "contact/index.html"} {
		path := filepath.Join(outDir, filepath.FromSlash(rel))
		assert.FileExists(t, path)
		assert.Contains(t, out, path)
	}
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	_, err := execute(t, "meta", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codefolio ")
	assert.Contains(t, out, "commit:")
}

func TestLoggingFile(t *testing.T) {
	cfg := fixture(t)
	logPath := filepath.Join(t.TempDir(), "codefolio.log")

	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, append(data, []byte("  file: "+logPath+"\n")...), 0o600))

	_, err = execute(t, "meta", "--config", cfg, "--format", "json")
	require.NoError(t, err)
	assert.FileExists(t, logPath)
}
