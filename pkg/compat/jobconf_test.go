package compat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTranslateJobConf(t *testing.T) {
	tests := []struct {
		key     string
		version string
		want    string
	}{
		{"user.name", "0.18", "user.name"},
		{"mapreduce.job.user.name", "0.18", "user.name"},
		{"user.name", "0.19", "user.name"},
		{"mapreduce.job.user.name", "0.19.2", "user.name"},
		{"user.name", "0.21", "mapreduce.job.user.name"},
		{"user.name", "1.0", "user.name"},
		{"user.name", "2.0", "mapreduce.job.user.name"},
		{"user.name", "2", "mapreduce.job.user.name"},
		{"user.name", "1", "user.name"},
		{"mapreduce.job.user.name", "1", "user.name"},
		{"mapreduce.job.user.name", "2.0", "mapreduce.job.user.name"},
		{"mapred.reduce.tasks", "2.4.1", "mapreduce.job.reduces"},
		{"mapreduce.job.reduces", "1.2.1", "mapred.reduce.tasks"},
		{"user.defined", "0.18", "user.defined"},
		{"user.defined", "2.0", "user.defined"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"@"+tt.version, func(t *testing.T) {
			require.Equal(t, tt.want, TranslateJobConf(tt.key, tt.version))
		})
	}
}

func TestCapabilityPredicates(t *testing.T) {
	require.False(t, SupportsCombinersInHadoopStreaming("0.19"))
	require.False(t, SupportsCombinersInHadoopStreaming("0.19.2"))
	require.True(t, SupportsCombinersInHadoopStreaming("0.20"))
	require.True(t, SupportsCombinersInHadoopStreaming("0.20.203"))

	require.False(t, UsesGenericJobConf("0.18"))
	require.True(t, UsesGenericJobConf("0.20"))
	require.True(t, UsesGenericJobConf("0.21"))

	require.False(t, SupportsNewDistributedCacheOptions("0.18"))
	require.False(t, SupportsNewDistributedCacheOptions("0.20"))
	require.True(t, SupportsNewDistributedCacheOptions("0.20.203"))

	require.False(t, UsesYARN("1.0"))
	require.True(t, UsesYARN("2.0"))
	require.True(t, UsesYARN("2.7.3"))
}

func TestCapabilityPredicates_BelowLowestThreshold(t *testing.T) {
	require.False(t, SupportsCombinersInHadoopStreaming("0.1"))
	require.False(t, UsesGenericJobConf("0.1"))
	require.False(t, SupportsNewDistributedCacheOptions("0.1"))
	require.False(t, UsesYARN("0.1"))
}

func TestJobConfAliases_Bijection(t *testing.T) {
	require.Len(t, legacyToCanonical, len(jobconfAliases))
	require.Len(t, canonicalToLegacy, len(jobconfAliases))

	for legacy, canonical := range legacyToCanonical {
		require.Equal(t, legacy, LegacyJobConf(canonical))
		require.Equal(t, canonical, CanonicalJobConf(legacy))
	}
}

func TestTranslateJobConfForAllVersions(t *testing.T) {
	require.Equal(t,
		[]string{"mapreduce.job.user.name", "user.name"},
		TranslateJobConfForAllVersions("user.name"))
	require.Equal(t,
		[]string{"mapreduce.job.user.name", "user.name"},
		TranslateJobConfForAllVersions("mapreduce.job.user.name"))
	require.Equal(t, []string{"user.defined"}, TranslateJobConfForAllVersions("user.defined"))
}

func TestTranslateJobConfMap(t *testing.T) {
	conf := map[string]string{
		"mapred.reduce.tasks": "4",
		"user.name":           "dave",
		"user.defined":        "x",
	}

	got := TranslateJobConfMap(conf, "2.0")
	want := map[string]string{
		"mapreduce.job.reduces":   "4",
		"mapreduce.job.user.name": "dave",
		"user.defined":            "x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TranslateJobConfMap() mismatch (-want +got):\n%s", diff)
	}

	// input is left untouched
	require.Equal(t, "4", conf["mapred.reduce.tasks"])
}

func TestTranslateJobConfMap_TargetSpellingWins(t *testing.T) {
	conf := map[string]string{
		"user.name":               "legacy",
		"mapreduce.job.user.name": "canonical",
	}

	// repeat to exercise different map iteration orders
	for i := 0; i < 20; i++ {
		require.Equal(t, map[string]string{"mapreduce.job.user.name": "canonical"}, TranslateJobConfMap(conf, "2.0"))
		require.Equal(t, map[string]string{"user.name": "legacy"}, TranslateJobConfMap(conf, "0.18"))
	}
}

func TestJobConfFromEnv(t *testing.T) {
	t.Run("legacy variable", func(t *testing.T) {
		env := EnvMap(map[string]string{"user_name": "Edsger W. Dijkstra"})

		value, ok := JobConfFromEnv(env, "user.name")
		require.True(t, ok)
		require.Equal(t, "Edsger W. Dijkstra", value)

		value, ok = JobConfFromEnv(env, "mapreduce.job.user.name")
		require.True(t, ok)
		require.Equal(t, "Edsger W. Dijkstra", value)
	})

	t.Run("canonical variable", func(t *testing.T) {
		env := EnvMap(map[string]string{"mapreduce_job_user_name": "Edsger W. Dijkstra"})

		require.Equal(t, "Edsger W. Dijkstra", JobConfFromEnvDefault(env, "user.name", ""))
		require.Equal(t, "Edsger W. Dijkstra", JobConfFromEnvDefault(env, "mapreduce.job.user.name", ""))
	})

	t.Run("legacy preferred over canonical", func(t *testing.T) {
		env := EnvMap(map[string]string{
			"user_name":               "old",
			"mapreduce_job_user_name": "new",
		})

		require.Equal(t, "old", JobConfFromEnvDefault(env, "mapreduce.job.user.name", ""))
	})

	t.Run("default", func(t *testing.T) {
		env := EnvMap(map[string]string{})

		_, ok := JobConfFromEnv(env, "user.name")
		require.False(t, ok)
		require.Equal(t, "dave", JobConfFromEnvDefault(env, "user.name", "dave"))
	})

	t.Run("key not in table", func(t *testing.T) {
		env := EnvMap(map[string]string{})

		_, ok := JobConfFromEnv(env, "user.defined")
		require.False(t, ok)
		require.Equal(t, "beauty", JobConfFromEnvDefault(env, "user.defined", "beauty"))

		env = EnvMap(map[string]string{"user_defined": "set"})
		require.Equal(t, "set", JobConfFromEnvDefault(env, "user.defined", "beauty"))
	})
}

func TestJobConfFromEnv_OSEnv(t *testing.T) {
	t.Setenv("mapreduce_task_partition", "3")

	value, ok := JobConfFromEnv(OSEnv, "mapred.task.partition")
	require.True(t, ok)
	require.Equal(t, "3", value)
}

func TestJobConfFromEnv_OnlyTriesKnownSpellings(t *testing.T) {
	var tried []string
	lookup := func(name string) (string, bool) {
		tried = append(tried, name)
		return "", false
	}

	JobConfFromEnv(lookup, "user.defined")
	require.Equal(t, []string{"user_defined"}, tried)

	tried = nil
	JobConfFromEnv(lookup, "mapreduce.job.user.name")
	require.Equal(t, []string{"user_name", "mapreduce_job_user_name"}, tried)
}

func TestJobConfFromMap(t *testing.T) {
	legacy := map[string]string{"user.name": "Edsger W. Dijkstra"}
	require.Equal(t, "Edsger W. Dijkstra", JobConfFromMapDefault(legacy, "user.name", ""))
	require.Equal(t, "Edsger W. Dijkstra", JobConfFromMapDefault(legacy, "mapreduce.job.user.name", ""))

	canonical := map[string]string{"mapreduce.job.user.name": "Edsger W. Dijkstra"}
	require.Equal(t, "Edsger W. Dijkstra", JobConfFromMapDefault(canonical, "user.name", ""))
	require.Equal(t, "Edsger W. Dijkstra", JobConfFromMapDefault(canonical, "mapreduce.job.user.name", ""))

	_, ok := JobConfFromMap(map[string]string{}, "user.name")
	require.False(t, ok)
	require.Equal(t, "dave", JobConfFromMapDefault(map[string]string{}, "user.name", "dave"))

	_, ok = JobConfFromMap(nil, "user.defined")
	require.False(t, ok)
	require.Equal(t, "beauty", JobConfFromMapDefault(nil, "user.defined", "beauty"))
}
