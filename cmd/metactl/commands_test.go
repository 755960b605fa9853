package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/editstore"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/manip"
)

const estEdit = `[{"Type":"Est","Manipulation":{"Entry":20,"Gender":"Male","Race":"Midlander","SetId":1,"Slot":"Head"}}]`

func TestDefaultCommand(t *testing.T) {
	testEnv(t)
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
		wantJSON    bool
	}{
		{
			name:        "est head",
			args:        []string{"default", "est", "type=head", "gender=male", "race=midlander", "set=1"},
			wantContain: []string{"set 1", ": 12"},
		},
		{
			name:        "gmp as JSON",
			args:        []string{"--json", "default", "gmp", "set=12"},
			wantContain: []string{`"Type": "Gmp"`, `"SetId": 12`},
			wantJSON:    true,
		},
		{
			name:    "unknown argument",
			args:    []string{"default", "gmp", "set=12", "colour=red"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			args:    []string{"default", "shp", "set=1"},
			wantErr: true,
		},
		{
			name:    "missing key",
			args:    []string{"default", "eqp", "slot=body"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("default error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			if tt.wantErr {
				return
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestImportDiffExport(t *testing.T) {
	store := testEnv(t)
	path := writeFile(t, t.TempDir(), "edits.json", estEdit)

	output, err := runCLI(t, "import", "default", path)
	require.NoError(t, err, output)
	assertContains(t, output, []string{"1 added, 0 changed, 0 deleted", "Applied generation 1"})

	info, err := editstore.FindByName(context.Background(), store, "default")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Generation)
	assert.Equal(t, 1, info.Count)

	output, err = runCLI(t, "--no-color", "diff", "default")
	require.NoError(t, err, output)
	assertContains(t, output, []string{"Head Midlander Male set 1", "20", "12", "Increased"})

	output, err = runCLI(t, "export", "default")
	require.NoError(t, err, output)
	set, err := manip.Decode([]byte(output), manip.FormatJSON)
	require.NoError(t, err)
	ests := manip.Of[manip.Est](set)
	require.Len(t, ests, 1)
	assert.Equal(t, entry.Est(20), ests[0].Entry)
}

func TestMetricsOut(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "edits.json", estEdit)
	out := filepath.Join(dir, "metakit.prom")

	output, err := runCLI(t, "--metrics-out", out, "import", "default", path)
	require.NoError(t, err, output)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `metakit_edit_commits_total{collection="default",result="ok"} 1`)
}

func TestImportUnchangedIsNoop(t *testing.T) {
	testEnv(t)
	path := writeFile(t, t.TempDir(), "edits.json", estEdit)

	_, err := runCLI(t, "import", "default", path)
	require.NoError(t, err)
	output, err := runCLI(t, "import", "default", path)
	require.NoError(t, err)
	assertContains(t, output, []string{"No pending changes"})
	assertNotContains(t, output, []string{"Applied generation"})
}

func TestImportDryRun(t *testing.T) {
	store := testEnv(t)
	path := writeFile(t, t.TempDir(), "edits.json", estEdit)

	output, err := runCLI(t, "import", "--dry-run", "default", path)
	require.NoError(t, err)
	assertContains(t, output, []string{"1 added", "Dry run"})

	info, err := editstore.FindByName(context.Background(), store, "default")
	require.NoError(t, err)
	assert.Zero(t, info.Count)
	assert.Zero(t, info.Generation)
}

func TestImportReplace(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	first := writeFile(t, dir, "a.json", estEdit)
	second := writeFile(t, dir, "b.yaml", `
- type: Gmp
  manipulation:
    set_id: 12
    entry:
      enabled: false
`)

	_, err := runCLI(t, "import", "default", first)
	require.NoError(t, err)
	output, err := runCLI(t, "--json", "import", "--replace", "default", second)
	require.NoError(t, err, output)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.EqualValues(t, 1, result["added"])
	assert.EqualValues(t, 1, result["deleted"])
	assert.EqualValues(t, 2, result["generation"])
}

func TestImportRejectsOutOfRange(t *testing.T) {
	store := testEnv(t)
	path := writeFile(t, t.TempDir(), "bad.json",
		`[{"Type":"Eqp","Manipulation":{"Entry":0,"SetId":0,"Slot":"Head"}}]`)

	_, err := runCLI(t, "import", "default", path)
	require.Error(t, err)

	info, err := editstore.FindByName(context.Background(), store, "default")
	require.NoError(t, err)
	assert.Zero(t, info.Generation)
}

func TestComposeCommand(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	low := filepath.Join(dir, "low")
	high := filepath.Join(dir, "high")
	off := filepath.Join(dir, "off")
	writeFile(t, low, "meta.json",
		`[{"Type":"Est","Manipulation":{"Entry":20,"Gender":"Male","Race":"Midlander","SetId":1,"Slot":"Head"}},
		  {"Type":"Gmp","Manipulation":{"Entry":{},"SetId":12}}]`)
	writeFile(t, high, "meta.yaml", `
- type: Est
  manipulation:
    entry: 30
    gender: Male
    race: Midlander
    set_id: 1
    slot: Head
`)
	writeFile(t, off, "meta.yml", `
- type: Est
  manipulation:
    entry: 40
    gender: Male
    race: Midlander
    set_id: 1
    slot: Head
`)

	output, err := runCLI(t, "compose", "default",
		"--mod", low+":1", "--mod", high+":5", "--mod", off+":9:disabled")
	require.NoError(t, err, output)
	assertContains(t, output, []string{"2 added", "2 manipulations"})

	output, err = runCLI(t, "export", "default", "--format", "yaml")
	require.NoError(t, err)
	set, err := manip.Decode([]byte(output), manip.FormatYAML)
	require.NoError(t, err)
	ests := manip.Of[manip.Est](set)
	require.Len(t, ests, 1)
	assert.Equal(t, entry.Est(30), ests[0].Entry)
	assert.Len(t, manip.Of[manip.Gmp](set), 1)
}

func TestComposeErrors(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()

	_, err := runCLI(t, "compose", "default")
	assert.Error(t, err)

	_, err = runCLI(t, "compose", "default", "--mod", dir+":x")
	assert.Error(t, err)

	_, err = runCLI(t, "compose", "default", "--mod", dir+":1")
	assert.ErrorContains(t, err, "no edit file")
}

func TestParseModFlag(t *testing.T) {
	folder, info, err := parseModFlag("mods/hats:5")
	require.NoError(t, err)
	assert.Equal(t, "mods/hats", folder)
	assert.Equal(t, "hats", info.FolderName)
	assert.Equal(t, 5, info.Priority)
	assert.True(t, info.Enabled)

	_, info, err = parseModFlag("mods/hats:-2:disabled")
	require.NoError(t, err)
	assert.False(t, info.Enabled)
	assert.Equal(t, -2, info.Priority)

	for _, bad := range []string{"mods/hats", ":1", "a:1:maybe", "a:1:on:x"} {
		_, _, err := parseModFlag(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveCommand(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "edits.json", estEdit)
	_, err := runCLI(t, "import", "default", path)
	require.NoError(t, err)

	dest := filepath.Join(dir, "extra_met.est")
	output, err := runCLI(t, "resolve", "default", "chara/xls/charadb/extra_met.est", "-o", dest)
	require.NoError(t, err, output)
	assertContains(t, output, []string{"Wrote", "1 manipulations applied"})

	resolved, err := os.ReadFile(dest)
	require.NoError(t, err)
	original := testutil.EstTable(map[testutil.EstKey]uint16{
		{SetID: 1, GenderRace: 101}: uint16(testutil.EstHeadSet1),
		{SetID: 2, GenderRace: 201}: 3,
	})
	assert.Len(t, resolved, len(original))
	assert.NotEqual(t, original, resolved)

	_, err = runCLI(t, "resolve", "missing", "chara/xls/charadb/extra_met.est")
	assert.Error(t, err)
}

func TestCollectionsCommand(t *testing.T) {
	testEnv(t)

	output, err := runCLI(t, "collections")
	require.NoError(t, err)
	assertContains(t, output, []string{"No collections"})

	path := writeFile(t, t.TempDir(), "edits.json", estEdit)
	for _, name := range []string{"beta", "alpha"} {
		_, err := runCLI(t, "import", name, path)
		require.NoError(t, err)
	}

	output, err = runCLI(t, "collections")
	require.NoError(t, err)
	assertContains(t, output, []string{"alpha", "beta"})

	output, err = runCLI(t, "--json", "collections")
	require.NoError(t, err)
	var rows []collectionRow
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0].Name)
	assert.Equal(t, uint64(1), rows[0].Generation)
	assert.Equal(t, 1, rows[0].Manipulations)
}

func TestQuietSuppressesInfo(t *testing.T) {
	testEnv(t)
	path := writeFile(t, t.TempDir(), "edits.json", estEdit)
	output, err := runCLI(t, "-q", "import", "default", path)
	require.NoError(t, err)
	assert.Empty(t, output)
}
