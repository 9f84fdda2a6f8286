// Package backends defines the flat instruction trace produced by the linearizer, and the
// interface a backend implements to execute it.
//
// Two backends are provided:
//
//   - "go" (package simplego): interprets the trace one instruction at a time. It is the
//     reference for correctness.
//   - "kernels" (package kernels): partitions the trace into repeating groups and runs one
//     parameterized kernel per group, optionally in parallel.
//
// To include both, import the default package:
//
//	import _ "github.com/gomlx/looptrace/backends/default"
package backends

import (
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Backend executes linearized traces.
type Backend interface {
	// Name returns the short name of the backend. E.g.: "go" for the interpreter.
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// Execute runs the instructions of the trace in order, in place on their storages.
	Execute(trace []Instruction) error

	// Finalize releases all the associated resources immediately, and makes the backend invalid.
	Finalize()
}

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) (Backend, error)

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// List the names of the registered backends, sorted.
func List() []string {
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig is the name of the default backend configuration to use if specified.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// ConfigEnvVar is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific (e.g.: for the kernels backend, "parallelism=4").
const ConfigEnvVar = "LOOPTRACE_BACKEND"

// New returns a new default Backend.
//
// The default is:
//
// 1. The environment LOOPTRACE_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
func New() (Backend, error) {
	config, found := os.LookupEnv(ConfigEnvVar)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// NewWithConfig takes a configurations string formatted as
// "<backend_name>:<backend_configuration>", where "<backend_name>" is the name of a registered
// backend and "<backend_configuration>" is backend specific.
func NewWithConfig(config string) (Backend, error) {
	if len(registeredConstructors) == 0 {
		return nil, errors.New(`no registered backends for looptrace -- maybe import the default ones with import _ "github.com/gomlx/looptrace/backends/default"?`)
	}
	backendName := config
	var backendConfig string
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName = config[:idx]
		backendConfig = config[idx+1:]
	}
	if backendName == "" {
		backendName = firstRegistered
	}
	constructor, found := registeredConstructors[backendName]
	if !found {
		return nil, errors.Errorf("can't find backend %q for configuration %q given, registered backends: %q",
			backendName, config, List())
	}
	backend, err := constructor(backendConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "while creating backend %q", backendName)
	}
	return backend, nil
}

// SplitConfig splits a backend configuration "opt1,opt2=value,..." into its options.
// Each option is returned as a key and (possibly empty) value.
func SplitConfig(config string) (keys, values []string) {
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		keys = append(keys, strings.TrimSpace(key))
		values = append(values, strings.TrimSpace(value))
	}
	return
}
