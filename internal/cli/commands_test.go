package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

// runCommand executes the root command with args against isolated cache and
// config directories.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := testCLI().RootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestParseCommandWritesJSON(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lsdb.txt")
	output := filepath.Join(dir, "lsdb.json")
	if err := os.WriteFile(input, []byte(serveDump), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	if err := runCommand(t, "parse", input, "-o", output); err != nil {
		t.Fatalf("parse command failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var db lsdb.Database
	if err := json.Unmarshal(data, &db); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(db.RouterLSAs) != 1 || db.RouterLSAs[0].RouterID != "1.1.1.1" {
		t.Errorf("unexpected parse result: %+v", db)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	if err := runCommand(t, "parse", filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("parse of a missing file should fail")
	}
}

func TestRenderCommandProducesHTML(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lsdb.json")
	output := filepath.Join(dir, "topo.html")

	db := `{
		"router_lsas": [{"router_id": "1.1.1.1", "area_id": "0",
			"links": [{"link_id": "10.0.0.1", "metric": 10}]}],
		"network_lsas": [{"network_id": "10.0.0.1",
			"attached_routers": ["1.1.1.1"], "area_id": "0"}],
		"summary_lsas": []
	}`
	if err := os.WriteFile(input, []byte(db), 0644); err != nil {
		t.Fatalf("write database: %v", err)
	}

	if err := runCommand(t, "render", input, "--html", output); err != nil {
		t.Fatalf("render command failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "vis-network") {
		t.Error("output should embed vis-network")
	}
	if !strings.Contains(html, "1.1.1.1") {
		t.Error("output should contain the router ID")
	}
}

func TestRenderCommandLegacyKeys(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "legacy.json")
	output := filepath.Join(dir, "legacy.html")

	// Older exporters used routers/networks/attached.
	db := `{
		"routers": [{"router_id": "2.2.2.2", "links": [{"link": "10.0.0.9"}]}],
		"networks": [{"network_id": "10.0.0.9", "attached": "2.2.2.2"}]
	}`
	if err := os.WriteFile(input, []byte(db), 0644); err != nil {
		t.Fatalf("write database: %v", err)
	}

	if err := runCommand(t, "render", input, "--html", output); err != nil {
		t.Fatalf("render command failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "2.2.2.2") {
		t.Error("output should contain the router ID")
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	input := filepath.Join(t.TempDir(), "lsdb.json")
	if err := os.WriteFile(input, []byte(`{"router_lsas": []}`), 0644); err != nil {
		t.Fatalf("write database: %v", err)
	}

	if err := runCommand(t, "render", input, "-f", "pdf"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestRunCommandParsesAndRenders(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lsdb.txt")
	if err := os.WriteFile(input, []byte(serveDump), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	if err := runCommand(t, "run", input, "-f", "html,dot,json", "-o", filepath.Join(dir, "topo")); err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	for _, ext := range []string{"html", "dot", "json"} {
		path := filepath.Join(dir, "topo."+ext)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s output at %s: %v", ext, path, err)
		}
	}
}

func TestSnapshotSaveListShow(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lsdb.txt")
	if err := os.WriteFile(input, []byte(serveDump), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}

	// Point the file store's default directory at a temp home.
	t.Setenv("HOME", t.TempDir())

	if err := runCommand(t, "snapshot", "save", input, "-n", "core"); err != nil {
		t.Fatalf("snapshot save failed: %v", err)
	}
	if err := runCommand(t, "snapshot", "list"); err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	if err := runCommand(t, "cache", "path"); err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	if err := runCommand(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
}
