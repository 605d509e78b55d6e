// Package builtin knows the Node.js core modules so that they can be classified
// apart from installed packages.
package builtin

import "strings"

// NodeScheme is the explicit prefix for core modules (e.g. "node:fs").
const NodeScheme = "node:"

var coreModules = []string{
	"assert", "assert/strict", "async_hooks", "buffer", "child_process", "cluster",
	"console", "constants", "crypto", "dgram", "diagnostics_channel", "dns", "dns/promises",
	"domain", "events", "fs", "fs/promises", "http", "http2", "https", "inspector",
	"inspector/promises", "module", "net", "os", "path", "path/posix", "path/win32",
	"perf_hooks", "process", "punycode", "querystring", "readline", "readline/promises",
	"repl", "stream", "stream/consumers", "stream/promises", "stream/web", "string_decoder",
	"sys", "timers", "timers/promises", "tls", "trace_events", "tty", "url", "util",
	"util/types", "v8", "vm", "wasi", "worker_threads", "zlib",
}

// BuiltinModules lists the Node.js core modules importable without the node: scheme.
var BuiltinModules = toSet(coreModules)

// schemeOnlyModules can only be imported with the node: scheme.
var schemeOnlyModules = toSet([]string{"sea", "sqlite", "test", "test/reporters"})

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// IsBuiltinModule reports whether specifier names a Node.js core module.
func IsBuiltinModule(specifier string) bool {
	if name, ok := strings.CutPrefix(specifier, NodeScheme); ok {
		return BuiltinModules[name] || schemeOnlyModules[name]
	}
	return BuiltinModules[specifier]
}
