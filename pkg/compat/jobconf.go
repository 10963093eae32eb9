package compat

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Hadoop releases at which naming or behaviour changes.
const (
	VersionLegacy          = "0.18"
	VersionGenericJobConf  = "0.20"
	VersionNewCacheOptions = "0.20.203"
	VersionHadoop1         = "1.0"
	VersionYARN            = "2.0"
)

type namingEra int

const (
	eraLegacy namingEra = iota
	eraCanonical
)

// Hadoop 1.x is the renamed 0.20.2xx line and went back to the legacy names.
var jobconfEras = MustVersionTable(map[string]namingEra{
	VersionLegacy:         eraLegacy,
	VersionGenericJobConf: eraCanonical,
	VersionHadoop1:        eraLegacy,
	VersionYARN:           eraCanonical,
})

var (
	combinerSupport = MustVersionTable(map[string]bool{
		VersionLegacy:         false,
		VersionGenericJobConf: true,
	})
	genericJobConfSupport = MustVersionTable(map[string]bool{
		VersionLegacy:         false,
		VersionGenericJobConf: true,
	})
	newCacheOptionsSupport = MustVersionTable(map[string]bool{
		VersionLegacy:          false,
		VersionNewCacheOptions: true,
	})
	yarnSupport = MustVersionTable(map[string]bool{
		VersionLegacy: false,
		VersionYARN:   true,
	})
)

// jobconfAliases lists legacy jobconf keys and their canonical names.
var jobconfAliases = [][2]string{
	{"dfs.block.size", "dfs.blocksize"},
	{"fs.checkpoint.dir", "dfs.namenode.checkpoint.dir"},
	{"fs.checkpoint.edits.dir", "dfs.namenode.checkpoint.edits.dir"},
	{"fs.checkpoint.period", "dfs.namenode.checkpoint.period"},
	{"fs.default.name", "fs.defaultFS"},
	{"hadoop.job.history.user.location", "mapreduce.job.userhistorylocation"},
	{"io.sort.factor", "mapreduce.task.io.sort.factor"},
	{"io.sort.mb", "mapreduce.task.io.sort.mb"},
	{"io.sort.record.percent", "mapreduce.task.io.sort.record.percent"},
	{"io.sort.spill.percent", "mapreduce.map.sort.spill.percent"},
	{"job.end.notification.url", "mapreduce.job.end-notification.url"},
	{"job.end.retry.attempts", "mapreduce.job.end-notification.retry.attempts"},
	{"job.end.retry.interval", "mapreduce.job.end-notification.retry.interval"},
	{"job.local.dir", "mapreduce.job.local.dir"},
	{"jobclient.completion.poll.interval", "mapreduce.client.completion.pollinterval"},
	{"jobclient.output.filter", "mapreduce.client.output.filter"},
	{"jobclient.progress.monitor.poll.interval", "mapreduce.client.progressmonitor.pollinterval"},
	{"keep.failed.task.files", "mapreduce.task.files.preserve.failedtasks"},
	{"keep.task.files.pattern", "mapreduce.task.files.preserve.filepattern"},
	{"key.value.separator.in.input.line", "mapreduce.input.keyvaluelinerecordreader.key.value.separator"},
	{"map.input.file", "mapreduce.map.input.file"},
	{"map.input.length", "mapreduce.map.input.length"},
	{"map.input.start", "mapreduce.map.input.start"},
	{"map.output.key.field.separator", "mapreduce.map.output.key.field.separator"},
	{"map.output.key.value.fields.spec", "mapreduce.fieldsel.map.output.key.value.fields.spec"},
	{"mapred.cache.archives", "mapreduce.job.cache.archives"},
	{"mapred.cache.files", "mapreduce.job.cache.files"},
	{"mapred.child.tmp", "mapreduce.task.tmp.dir"},
	{"mapred.compress.map.output", "mapreduce.map.output.compress"},
	{"mapred.input.dir", "mapreduce.input.fileinputformat.inputdir"},
	{"mapred.jar", "mapreduce.job.jar"},
	{"mapred.job.id", "mapreduce.job.id"},
	{"mapred.job.name", "mapreduce.job.name"},
	{"mapred.job.priority", "mapreduce.job.priority"},
	{"mapred.job.queue.name", "mapreduce.job.queuename"},
	{"mapred.job.tracker", "mapreduce.jobtracker.address"},
	{"mapred.local.dir", "mapreduce.cluster.local.dir"},
	{"mapred.map.max.attempts", "mapreduce.map.maxattempts"},
	{"mapred.map.output.compression.codec", "mapreduce.map.output.compress.codec"},
	{"mapred.map.tasks", "mapreduce.job.maps"},
	{"mapred.map.tasks.speculative.execution", "mapreduce.map.speculative"},
	{"mapred.mapoutput.key.class", "mapreduce.map.output.key.class"},
	{"mapred.mapoutput.value.class", "mapreduce.map.output.value.class"},
	{"mapred.max.split.size", "mapreduce.input.fileinputformat.split.maxsize"},
	{"mapred.min.split.size", "mapreduce.input.fileinputformat.split.minsize"},
	{"mapred.output.compress", "mapreduce.output.fileoutputformat.compress"},
	{"mapred.output.compression.codec", "mapreduce.output.fileoutputformat.compress.codec"},
	{"mapred.output.compression.type", "mapreduce.output.fileoutputformat.compress.type"},
	{"mapred.output.dir", "mapreduce.output.fileoutputformat.outputdir"},
	{"mapred.output.key.class", "mapreduce.job.output.key.class"},
	{"mapred.output.key.comparator.class", "mapreduce.job.output.key.comparator.class"},
	{"mapred.output.value.class", "mapreduce.job.output.value.class"},
	{"mapred.reduce.max.attempts", "mapreduce.reduce.maxattempts"},
	{"mapred.reduce.tasks", "mapreduce.job.reduces"},
	{"mapred.reduce.tasks.speculative.execution", "mapreduce.reduce.speculative"},
	{"mapred.skip.on", "mapreduce.job.skiprecords"},
	{"mapred.task.id", "mapreduce.task.attempt.id"},
	{"mapred.task.is.map", "mapreduce.task.ismap"},
	{"mapred.task.partition", "mapreduce.task.partition"},
	{"mapred.task.timeout", "mapreduce.task.timeout"},
	{"mapred.text.key.comparator.options", "mapreduce.partition.keycomparator.options"},
	{"mapred.text.key.partitioner.options", "mapreduce.partition.keypartitioner.options"},
	{"mapred.tip.id", "mapreduce.task.id"},
	{"mapred.work.output.dir", "mapreduce.task.output.dir"},
	{"mapred.working.dir", "mapreduce.job.working.dir"},
	{"user.name", "mapreduce.job.user.name"},
}

var (
	legacyToCanonical = make(map[string]string, len(jobconfAliases))
	canonicalToLegacy = make(map[string]string, len(jobconfAliases))
)

func init() {
	for _, alias := range jobconfAliases {
		legacy, canonical := alias[0], alias[1]
		if _, exists := legacyToCanonical[legacy]; exists {
			panic(fmt.Sprintf("duplicate legacy jobconf key: %s", legacy))
		}
		if _, exists := canonicalToLegacy[canonical]; exists {
			panic(fmt.Sprintf("duplicate canonical jobconf key: %s", canonical))
		}
		legacyToCanonical[legacy] = canonical
		canonicalToLegacy[canonical] = legacy
	}
}

// CanonicalJobConf returns the canonical spelling of key. Keys that are not
// known legacy names are returned unchanged.
func CanonicalJobConf(key string) string {
	if canonical, ok := legacyToCanonical[key]; ok {
		return canonical
	}
	return key
}

// LegacyJobConf returns the legacy spelling of key. Keys without a registered
// legacy alias are returned unchanged.
func LegacyJobConf(key string) string {
	if legacy, ok := canonicalToLegacy[key]; ok {
		return legacy
	}
	return key
}

// TranslateJobConf returns the spelling of key that the given Hadoop version
// understands. Keys that are not in the alias table are assumed to be stable
// across versions.
func TranslateJobConf(key, version string) string {
	if jobconfEras.Resolve(version) == eraLegacy {
		return LegacyJobConf(key)
	}
	return CanonicalJobConf(key)
}

// TranslateJobConfForAllVersions returns every known spelling of key, sorted.
func TranslateJobConfForAllVersions(key string) []string {
	variants := []string{LegacyJobConf(key), CanonicalJobConf(key)}
	slices.Sort(variants)
	return slices.Compact(variants)
}

// TranslateJobConfMap translates every key of conf for the given Hadoop
// version. If two keys translate to the same name, the value whose key was
// already spelled for that version wins.
func TranslateJobConfMap(conf map[string]string, version string) map[string]string {
	translated := make(map[string]string, len(conf))
	for key, value := range conf {
		target := TranslateJobConf(key, version)
		if _, taken := translated[target]; taken && key != target {
			continue
		}
		translated[target] = value
	}
	return translated
}

// SupportsCombinersInHadoopStreaming reports whether Hadoop streaming at the
// given version accepts a combiner.
func SupportsCombinersInHadoopStreaming(version string) bool {
	return combinerSupport.Resolve(version)
}

// UsesGenericJobConf reports whether the given version understands the
// -D generic option for jobconf.
func UsesGenericJobConf(version string) bool {
	return genericJobConfSupport.Resolve(version)
}

// SupportsNewDistributedCacheOptions reports whether the given version
// supports the -files and -archives options.
func SupportsNewDistributedCacheOptions(version string) bool {
	return newCacheOptionsSupport.Resolve(version)
}

// UsesYARN reports whether the given version runs on YARN.
func UsesYARN(version string) bool {
	return yarnSupport.Resolve(version)
}

// LookupFunc looks up a configuration value by name. os.LookupEnv has this
// signature.
type LookupFunc func(name string) (string, bool)

// OSEnv reads the process environment.
var OSEnv LookupFunc = os.LookupEnv

// EnvMap adapts a plain map to a LookupFunc.
func EnvMap(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
}

// jobconfCandidates returns the legacy then canonical spelling of key,
// without duplicates.
func jobconfCandidates(key string) []string {
	legacy, canonical := LegacyJobConf(key), CanonicalJobConf(key)
	if legacy == canonical {
		return []string{key}
	}
	return []string{legacy, canonical}
}

// JobConfFromEnv looks key up in an environment where Hadoop has exported
// jobconf values with dots replaced by underscores. Both the legacy and the
// canonical spelling are tried regardless of Hadoop version.
func JobConfFromEnv(lookup LookupFunc, key string) (string, bool) {
	for _, candidate := range jobconfCandidates(key) {
		if value, ok := lookup(strings.ReplaceAll(candidate, ".", "_")); ok {
			return value, true
		}
	}
	return "", false
}

// JobConfFromEnvDefault is JobConfFromEnv returning def on a miss.
func JobConfFromEnvDefault(lookup LookupFunc, key, def string) string {
	if value, ok := JobConfFromEnv(lookup, key); ok {
		return value
	}
	return def
}

// JobConfFromMap looks key up in a jobconf map under both its legacy and
// canonical spelling.
func JobConfFromMap(conf map[string]string, key string) (string, bool) {
	for _, candidate := range jobconfCandidates(key) {
		if value, ok := conf[candidate]; ok {
			return value, true
		}
	}
	return "", false
}

// JobConfFromMapDefault is JobConfFromMap returning def on a miss.
func JobConfFromMapDefault(conf map[string]string, key, def string) string {
	if value, ok := JobConfFromMap(conf, key); ok {
		return value
	}
	return def
}
