package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to the server, visible in system.query_log
// role examples: "api", "cli", "mcp"
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()

	type kv = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []kv{
		{Name: "tasker", Version: clean(tag, "dev")},
		{Name: "role", Version: clean(role, "unknown")},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: vcsShortSHA()},
		{Name: "host", Version: clean(host, "unknown")},
	}}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

func clean(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
