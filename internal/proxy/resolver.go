package proxy

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"

	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

// Config holds the proxy settings snapshotted at the start of an invocation.
// It is built once and never re-reads the environment mid-operation.
type Config struct {
	Host          string
	Port          string
	NonProxyHosts string
}

// Resolve reads https_proxy and no_proxy from the process environment
// (either casing) and derives an immutable Config.
func Resolve() (Config, error) {
	v := viper.New()
	_ = v.BindEnv("https_proxy", "https_proxy", "HTTPS_PROXY")
	_ = v.BindEnv("no_proxy", "no_proxy", "NO_PROXY")

	return ResolveFrom(v.GetString("https_proxy"), v.GetString("no_proxy"))
}

// ResolveFrom derives a Config from explicit endpoint and exclusion settings.
// An empty endpoint yields an empty Config; exclusions without an endpoint
// are ignored because keytool only honours nonProxyHosts alongside a proxy.
func ResolveFrom(endpoint, noProxy string) (Config, error) {
	if endpoint == "" {
		return Config{}, nil
	}

	host, port, err := net.SplitHostPort(strings.TrimSpace(endpoint))
	if err != nil {
		return Config{}, keysyncerrors.NewConfigurationError("https_proxy",
			fmt.Sprintf("expected host:port, got %q", endpoint), err)
	}

	cfg := Config{Host: host, Port: port}
	if noProxy != "" {
		cfg.NonProxyHosts = rewriteExclusions(noProxy)
	}

	return cfg, nil
}

// rewriteExclusions converts a comma-separated no_proxy list into Java's
// nonProxyHosts syntax: entries are joined with '|' and leading-dot suffix
// patterns become '*.' wildcards.
func rewriteExclusions(noProxy string) string {
	parts := strings.Split(noProxy, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		pattern := strings.TrimSpace(part)
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, ".") {
			pattern = "*" + pattern
		}
		patterns = append(patterns, pattern)
	}
	return strings.Join(patterns, "|")
}

// Args renders the keytool JVM flags for this Config. An empty Config
// produces no flags.
func (c Config) Args() []string {
	if c.Host == "" {
		return nil
	}

	args := []string{
		fmt.Sprintf("-J-Dhttps.proxyHost=%s", c.Host),
		fmt.Sprintf("-J-Dhttps.proxyPort=%s", c.Port),
	}
	if c.NonProxyHosts != "" {
		// The property name is http.nonProxyHosts; the JVM has no separate
		// setting for HTTPS.
		args = append(args, fmt.Sprintf("-J-Dhttp.nonProxyHosts=%s", c.NonProxyHosts))
	}
	return args
}
