package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/gridmeta/internal/cli/config"
	"github.com/conduit-lang/gridmeta/internal/table/delegate"
	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
)

const projectConfig = "testdata/project/gridmeta.yml"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		configFile = ""
		noColor = false
		introspectFormat = formatTable
	})

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "gridmeta", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "derive", "introspect", "serve", "init", "completion"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	defer func() { Version = "dev" }()

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gridmeta version: 1.0.0-test")
	assert.Contains(t, out, "Go version: ")
}

func TestDerive_JSON(t *testing.T) {
	out, _, err := execute(t, "--config", projectConfig, "derive", "orders", "--format", "json")
	require.NoError(t, err)

	var tables []derivedTable
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "orders", tables[0].Table)
	assert.Equal(t, "Status", tables[0].DraftIndicator)

	props := tables[0].Properties
	require.Len(t, props, 5)

	customer, ok := propinfo.Find(props, "CustomerName")
	require.True(t, ok)
	assert.Equal(t, "Customer", customer.Label)

	amount, ok := propinfo.Find(props, "GrossAmount")
	require.True(t, ok)
	require.NotNil(t, amount.Unit)
	assert.Equal(t, "Currency", amount.Unit.Path)

	broken, ok := propinfo.Find(props, "Broken")
	require.True(t, ok)
	assert.False(t, broken.IsFilterable())
}

func TestDerive_AllTables(t *testing.T) {
	out, _, err := execute(t, "--config", projectConfig, "derive")
	require.NoError(t, err)

	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "items")
	assert.Contains(t, out, "Draft indicator: Status")
	assert.Contains(t, out, "Order Number")
}

func TestDerive_SalesExample(t *testing.T) {
	out, _, err := execute(t, "--config", "../../../examples/sales/gridmeta.yml", "derive", "--format", "json")
	require.NoError(t, err)

	var tables []derivedTable
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "items", tables[0].Table)
	assert.Equal(t, "Description", tables[0].DraftIndicator)
	assert.Equal(t, "orders", tables[1].Table)
	assert.Equal(t, "OrderNo", tables[1].DraftIndicator)
}

func TestDerive_UnknownTable(t *testing.T) {
	_, stderr, err := execute(t, "--config", projectConfig, "derive", "ordrs")
	assert.ErrorIs(t, err, delegate.ErrTableNotFound)
	assert.Contains(t, stderr, "Did you mean: orders?")
}

func TestDerive_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--config", projectConfig, "derive", "--format", "xml")
	assert.Error(t, err)
}

func TestDerive_MissingConfig(t *testing.T) {
	_, stderr, err := execute(t, "--config", "testdata/missing.yml", "derive")
	assert.Error(t, err)
	assert.Contains(t, stderr, "CONFIGURATION ERROR")
}

func TestIntrospectEntities(t *testing.T) {
	out, _, err := execute(t, "--config", projectConfig, "introspect", "entities")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales.Order")
	assert.Contains(t, out, "/Orders")
}

func TestIntrospectEntity(t *testing.T) {
	out, _, err := execute(t, "--config", projectConfig, "introspect", "entity", "Sales.Order")
	require.NoError(t, err)
	assert.Contains(t, out, "GrossAmount")
	assert.Contains(t, out, "ISOCurrency=Currency")
	assert.Contains(t, out, "Sales.OrderItem")

	_, stderr, err := execute(t, "--config", projectConfig, "introspect", "entity", "Sales.Ordr")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Did you mean: Sales.Order?")
}

func TestIntrospectPaths(t *testing.T) {
	out, _, err := execute(t, "--config", projectConfig, "introspect", "paths", "orders", "--format", "json")
	require.NoError(t, err)

	var paths []resolvedPath
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	require.Len(t, paths, 5)

	assert.Equal(t, "CustomerName", paths[1].Column)
	assert.True(t, paths[1].Resolved)
	assert.Equal(t, []string{"Customer"}, paths[1].Hops)
	assert.Equal(t, "Sales.Customer/Name (Edm.String)", paths[1].Target)

	assert.Equal(t, "Broken", paths[4].Column)
	assert.False(t, paths[4].Resolved)
	assert.NotEmpty(t, paths[4].Error)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "init", "--yes", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	data, err := os.ReadFile(filepath.Join(dir, "gridmeta.yml"))
	require.NoError(t, err)
	var content configFileContent
	require.NoError(t, yaml.Unmarshal(data, &content))
	assert.Equal(t, "metadata.yaml", content.Metadata)
	assert.Equal(t, config.SnapshotNone, content.Snapshot["backend"])

	cfg, err := config.LoadFile(filepath.Join(dir, "gridmeta.yml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	_, _, err = execute(t, "init", "--yes", "--dir", dir)
	assert.Error(t, err)

	_, _, err = execute(t, "init", "--yes", "--force", "--dir", dir)
	assert.NoError(t, err)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("8080"))
	assert.Error(t, validatePort("0"))
	assert.Error(t, validatePort("http"))
	assert.Error(t, validatePort(8080))
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "gridmeta")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompleteTableIDs(t *testing.T) {
	out, _, err := execute(t, "__complete", "--config", projectConfig, "derive", "or")
	require.NoError(t, err)
	assert.Contains(t, out, "orders")
	assert.NotContains(t, out, "items")
}
