package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServiceEnv(t *testing.T) {
	t.Helper()
	os.Unsetenv("SERVICES_CONFIG")
	for i := 1; i <= 5; i++ {
		os.Unsetenv("SERVICE_" + itoa(i) + "_NAME")
		os.Unsetenv("SERVICE_" + itoa(i) + "_URL")
	}
}

func itoa(i int) string {
	return string(rune('0' + i))
}

func TestLoad_DefaultsWhenNothingConfigured(t *testing.T) {
	clearServiceEnv(t)

	descriptors, err := Load()
	require.NoError(t, err)
	require.Len(t, descriptors, len(defaultDescriptors))
	assert.Equal(t, "dify-api", descriptors[0].Key, "defaults preserve their hardcoded order")
	assert.Equal(t, "qdrant", descriptors[len(descriptors)-1].Key)
}

func TestLoad_EnvironmentPairsInAscendingOrder(t *testing.T) {
	clearServiceEnv(t)
	defer clearServiceEnv(t)

	os.Setenv("SERVICE_1_NAME", "Alpha")
	os.Setenv("SERVICE_1_URL", "http://alpha:8080/health")
	os.Setenv("SERVICE_2_NAME", "Beta")
	os.Setenv("SERVICE_2_URL", "http://beta:8080/health")

	descriptors, err := Load()
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, "service_1", descriptors[0].Key)
	assert.Equal(t, "service_2", descriptors[1].Key)
	assert.Equal(t, "http://beta:8080/health", descriptors[1].URL)
}

func TestLoad_JSONFilePreservesKeyOrder(t *testing.T) {
	clearServiceEnv(t)
	defer clearServiceEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "services.json")
	// Intentionally not alphabetical, to prove ordering survives decoding.
	contents := `{
		"zeta": {"url": "http://zeta:8080/health", "name": "Zeta"},
		"alpha": {"url": "http://alpha:8080/health", "name": "Alpha", "optional": true}
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	os.Setenv("SERVICES_CONFIG", path)

	descriptors, err := Load()
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, "zeta", descriptors[0].Key)
	assert.Equal(t, "alpha", descriptors[1].Key)
	assert.True(t, descriptors[1].Optional)
}

func TestLoad_InvalidJSONFallsThroughToDefaults(t *testing.T) {
	clearServiceEnv(t)
	defer clearServiceEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "services.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	os.Setenv("SERVICES_CONFIG", path)

	descriptors, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Keys(cloneDefaults()), Keys(descriptors))
}

func TestLoad_RejectsUnparseableURL(t *testing.T) {
	clearServiceEnv(t)
	defer clearServiceEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "services.json")
	contents := `{"broken": {"url": "not-a-url", "name": "Broken"}}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	os.Setenv("SERVICES_CONFIG", path)

	descriptors, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Keys(cloneDefaults()), Keys(descriptors), "invalid source falls back to defaults")
}

func TestSortedCopyDoesNotMutateInput(t *testing.T) {
	input := cloneDefaults()
	sorted := sortedCopy(input)
	assert.Equal(t, "ollama", input[3].Key, "sortedCopy must not reorder its argument")
	assert.NotEqual(t, input[3].Key, sorted[3].Key)
}
