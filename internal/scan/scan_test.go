package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fuelTank", "part.cfg"), "module = FuelTank\nname = fuelTank\n")
	writeFile(t, filepath.Join(dir, "commandPod", "part.cfg"), "module = CommandPod\nname = commandPod\n")
	// a part directory missing its config is skipped, not fatal
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "brokenPart"), 0o755))
	// loose files at the top level are not part directories
	writeFile(t, filepath.Join(dir, "readme.txt"), "notes")

	files, err := Parts(dir, slog.Default())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "commandPod", files[0].Name)
	assert.Equal(t, "fuelTank", files[1].Name)
	assert.Contains(t, files[1].Text, "module = FuelTank")
}

func TestParts_MissingDir(t *testing.T) {
	_, err := Parts(filepath.Join(t.TempDir(), "nope"), slog.Default())
	assert.Error(t, err)
}

func TestShips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "KerbalX.craft"), "ship = Kerbal X\n")
	writeFile(t, filepath.Join(dir, "Mun Lander.craft"), "ship = Mun Lander\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subassemblies"), 0o755))

	files, err := Ships(dir, slog.Default())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "KerbalX.craft", files[0].Name)
	assert.Equal(t, "Mun Lander.craft", files[1].Name)
	assert.Contains(t, files[0].Text, "Kerbal X")
}

func TestShips_MissingDir(t *testing.T) {
	_, err := Ships(filepath.Join(t.TempDir(), "nope"), slog.Default())
	assert.Error(t, err)
}
