package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"

	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

func TestResolveFromEmptyEndpoint(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveFrom("", "")
	require.NoError(t, err)
	require.Empty(t, cfg.Args())
}

func TestResolveFromExclusionsWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveFrom("", ".internal,.corp")
	require.NoError(t, err)
	require.Empty(t, cfg.NonProxyHosts)
	require.Empty(t, cfg.Args())
}

func TestResolveFromEndpointOnly(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveFrom("proxy.example:8080", "")
	require.NoError(t, err)
	require.Equal(t, []string{
		"-J-Dhttps.proxyHost=proxy.example",
		"-J-Dhttps.proxyPort=8080",
	}, cfg.Args())
}

func TestResolveFromRewritesSuffixPatterns(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveFrom("proxy.example:8080", ".internal,.corp")
	require.NoError(t, err)
	require.Equal(t, "*.internal|*.corp", cfg.NonProxyHosts)
	require.Equal(t, []string{
		"-J-Dhttps.proxyHost=proxy.example",
		"-J-Dhttps.proxyPort=8080",
		"-J-Dhttp.nonProxyHosts=*.internal|*.corp",
	}, cfg.Args())
}

func TestResolveFromKeepsExplicitHosts(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveFrom("proxy.example:8080", "localhost,.svc.cluster.local, registry.local ")
	require.NoError(t, err)
	require.Equal(t, "localhost|*.svc.cluster.local|registry.local", cfg.NonProxyHosts)
}

func TestResolveFromMalformedEndpoint(t *testing.T) {
	t.Parallel()

	_, err := ResolveFrom("proxy.example", "")
	require.Error(t, err)

	var confErr *keysyncerrors.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	require.Equal(t, "https_proxy", confErr.Field)
}

func TestResolveReadsEnvironmentOnce(t *testing.T) {
	t.Setenv("https_proxy", "proxy.example:3128")
	t.Setenv("no_proxy", ".internal")

	cfg, err := Resolve()
	require.NoError(t, err)
	require.Equal(t, "proxy.example", cfg.Host)
	require.Equal(t, "3128", cfg.Port)
	require.Equal(t, "*.internal", cfg.NonProxyHosts)
}

func TestResolveHonoursUppercaseVariables(t *testing.T) {
	t.Setenv("https_proxy", "")
	t.Setenv("HTTPS_PROXY", "proxy.corp:8080")
	t.Setenv("no_proxy", "")
	t.Setenv("NO_PROXY", ".corp")

	cfg, err := Resolve()
	require.NoError(t, err)
	require.Equal(t, "proxy.corp", cfg.Host)
	require.Equal(t, "*.corp", cfg.NonProxyHosts)
}
