package compat

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownCapability is returned when no capability has the requested name.
var ErrUnknownCapability = errors.New("capability not found")

// Names of the registered capabilities.
const (
	CapabilityCombiners           = "combiners"
	CapabilityGenericJobConf      = "generic-jobconf"
	CapabilityNewDistributedCache = "new-distributed-cache"
	CapabilityYARN                = "yarn"
)

// Predicate reports whether a Hadoop version has some capability.
type Predicate func(version string) bool

var capabilities = make(map[string]Predicate)

func init() {
	mustRegister(CapabilityCombiners, SupportsCombinersInHadoopStreaming)
	mustRegister(CapabilityGenericJobConf, UsesGenericJobConf)
	mustRegister(CapabilityNewDistributedCache, SupportsNewDistributedCacheOptions)
	mustRegister(CapabilityYARN, UsesYARN)
}

func register(name string, predicate Predicate) error {
	if _, exists := capabilities[name]; exists {
		return fmt.Errorf("capability already registered: %s", name)
	}
	capabilities[name] = predicate
	return nil
}

func mustRegister(name string, predicate Predicate) {
	if err := register(name, predicate); err != nil {
		panic(err)
	}
}

// Capability returns the predicate registered under name.
func Capability(name string) (Predicate, error) {
	predicate, exists := capabilities[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	return predicate, nil
}

// Capabilities returns the sorted names of all registered capabilities.
func Capabilities() []string {
	names := make([]string, 0, len(capabilities))
	for name := range capabilities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SupportedCapabilities evaluates every registered capability for version.
func SupportedCapabilities(version string) map[string]bool {
	supported := make(map[string]bool, len(capabilities))
	for name, predicate := range capabilities {
		supported[name] = predicate(version)
	}
	return supported
}
