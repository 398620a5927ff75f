package dsn

import (
	"net/netip"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Environment variables supplying TLS material. They have the lowest
// precedence: URI query parameters and the option map override them.
const (
	EnvEnableSSL          = "CASS_CLIENT_ENABLE_SSL"
	EnvTrustStore         = "CASS_CLIENT_TRUSTSTORE"
	EnvTrustStorePassword = "CASS_CLIENT_TRUSTSTORE_PASSWORD"
	EnvKeyStore           = "CASS_CLIENT_KEYSTORE"
	EnvKeyStorePassword   = "CASS_CLIENT_KEYSTORE_PASSWORD"
	EnvKeyAlias           = "CASS_CLIENT_KEY_ALIAS"
	EnvCipherSuite        = "CASS_CLIENT_CIPHER_SUITE"
)

var envKeys = []struct {
	env string
	key string
}{
	{EnvEnableSSL, keySSL},
	{EnvTrustStore, keyTrustStore},
	{EnvTrustStorePassword, keyTrustStorePassword},
	{EnvKeyStore, keyKeyStore},
	{EnvKeyStorePassword, keyKeyStorePassword},
	{EnvKeyAlias, keyKeyAlias},
	{EnvCipherSuite, keyCipherSuites},
}

// LookupEnv has the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

type parseConfig struct {
	lookupEnv LookupEnv
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithEnv replaces the environment lookup. A nil lookup disables the
// environment layer.
func WithEnv(lookup LookupEnv) ParseOption {
	return func(c *parseConfig) {
		c.lookupEnv = lookup
	}
}

// HasScheme reports whether uri starts with the driver's scheme prefix.
func HasScheme(uri string) bool {
	return strings.HasPrefix(uri, Scheme)
}

// Parse turns a connection string and an option map into a Descriptor.
//
// The connection string has the shape
//
//	cassandra://host1[:port1][,host2[:port2]...]/[keyspace][?k1=v1&k2=v2...]
//
// Query pairs may be separated by '&' or ';'. When a key appears in both the
// option map and the query, the option map wins; when a key repeats inside the
// query, the last occurrence wins.
//
// Parameters:
//   - uri: Connection string
//   - options: Explicit options, may be nil
//   - opts: Parse options
//
// Returns:
//   - *Descriptor: Resolved descriptor
//   - error: *types.ParseError or *types.OptionError
func Parse(uri string, options map[string]string, opts ...ParseOption) (*Descriptor, error) {
	cfg := parseConfig{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !HasScheme(uri) {
		return nil, parseError(uri, "missing "+Scheme+" prefix")
	}
	rest := strings.TrimPrefix(uri, Scheme)

	var query string
	hasQuery := false
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, query, hasQuery = rest[:i], rest[i+1:], true
	}

	authority, path := rest, ""
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		authority, path = rest[:i], rest[i+1:]
	} else if hasQuery {
		return nil, parseError(uri, "options without a trailing slash")
	}

	hosts, reason := parseHosts(authority)
	if reason != "" {
		return nil, parseError(uri, reason)
	}

	keyspace, err := url.PathUnescape(path)
	if err != nil {
		return nil, parseError(uri, "invalid keyspace escape")
	}

	queryValues, reason := parseQuery(query)
	if reason != "" {
		return nil, parseError(uri, reason)
	}

	values := make(map[string]string)
	if cfg.lookupEnv != nil {
		for _, e := range envKeys {
			if v, ok := cfg.lookupEnv(e.env); ok {
				values[e.key] = v
			}
		}
	}
	extra := make(map[string]string)
	for _, layer := range []map[string]string{queryValues, lowerKeys(options)} {
		for k, v := range layer {
			values[k] = v
			if !recognized[k] {
				extra[k] = v
			}
		}
	}

	s, err := decodeSettings(values)
	if err != nil {
		return nil, err
	}

	desc := &Descriptor{
		Hosts:                    hosts,
		Keyspace:                 Keyspace(keyspace),
		Consistency:              s.Consistency,
		ConnectTimeout:           s.ConnectTimeout,
		Timeout:                  s.Timeout,
		ProtoVersion:             s.ProtoVersion,
		LocalDC:                  s.LocalDC,
		DisableInitialHostLookup: s.DisableInitialHostLookup,
		ReturnNullStrings:        s.ReturnNullStrings,
		Extra:                    extra,
	}
	if s.User != "" {
		desc.Credentials = &Credentials{Username: s.User, Password: s.Password}
	}
	if s.SSL {
		tlsCfg, err := buildTLS(s)
		if err != nil {
			return nil, err
		}
		desc.TLS = tlsCfg
	}

	return desc, nil
}

func buildTLS(s settings) (*TLSConfig, error) {
	suites, err := cipherSuiteIDs(s.CipherSuites)
	if err != nil {
		return nil, optionError(keyCipherSuites, strings.Join(s.CipherSuites, ","), err)
	}
	minVersion, err := tlsVersion(s.TLSMinVersion)
	if err != nil {
		return nil, optionError(keyTLSMinVersion, s.TLSMinVersion, err)
	}

	return &TLSConfig{
		TrustStore:              s.TrustStore,
		TrustStorePassword:      s.TrustStorePassword,
		KeyStore:                s.KeyStore,
		KeyStorePassword:        s.KeyStorePassword,
		KeyAlias:                s.KeyAlias,
		CipherSuites:            suites,
		MinVersion:              minVersion,
		VerifyServerCertificate: s.VerifyServerCertificate,
	}, nil
}

func parseHosts(authority string) ([]Host, string) {
	if strings.TrimSpace(authority) == "" {
		return nil, "no hosts"
	}

	parts := strings.Split(authority, ",")
	hosts := make([]Host, 0, len(parts))
	for _, part := range parts {
		h, reason := parseHost(strings.TrimSpace(part))
		if reason != "" {
			return nil, reason
		}
		hosts = append(hosts, h)
	}

	return hosts, ""
}

func parseHost(s string) (Host, string) {
	if s == "" {
		return Host{}, "empty host"
	}

	name, portStr := s, ""
	switch {
	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return Host{}, "unterminated IPv6 literal " + strconv.Quote(s)
		}
		name = s[1:end]
		tail := s[end+1:]
		if tail != "" {
			if !strings.HasPrefix(tail, ":") {
				return Host{}, "unexpected text after IPv6 literal " + strconv.Quote(s)
			}
			portStr = tail[1:]
		}
		if _, err := netip.ParseAddr(name); err != nil {
			return Host{}, "invalid IPv6 literal " + strconv.Quote(s)
		}
	case strings.Count(s, ":") > 1:
		// Bare IPv6 literal, which cannot carry a port.
		if _, err := netip.ParseAddr(s); err != nil {
			return Host{}, "invalid host " + strconv.Quote(s)
		}
	case strings.Contains(s, ":"):
		i := strings.IndexByte(s, ':')
		name, portStr = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}

	if name == "" {
		return Host{}, "empty host in " + strconv.Quote(s)
	}
	if strings.ContainsAny(name, "/@ \t") {
		return Host{}, "invalid host " + strconv.Quote(s)
	}

	port := DefaultPort
	if portStr != "" || strings.HasSuffix(s, ":") {
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return Host{}, "invalid port in " + strconv.Quote(s)
		}
		port = p
	}

	return Host{Name: name, Port: port}, ""
}

// parseQuery splits k=v pairs on '&' or ';'. Pairs without '=' are ignored.
func parseQuery(query string) (map[string]string, string) {
	out := make(map[string]string)
	for _, pair := range strings.FieldsFunc(query, func(r rune) bool { return r == '&' || r == ';' }) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, "invalid escape in option key " + strconv.Quote(k)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, "invalid escape in option " + strconv.Quote(key)
		}
		out[canonicalKey(key)] = value
	}

	return out, ""
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[canonicalKey(k)] = v
	}

	return out
}

var secretPattern = regexp.MustCompile(`(?i)((?:^|[?&;])(?:password|truststorepassword|keystorepassword)=)[^&;]*`)

// parseError builds a ParseError with secrets masked in the echoed URI.
func parseError(uri, reason string) error {
	return &types.ParseError{URI: secretPattern.ReplaceAllString(uri, "${1}xxxxx"), Reason: reason}
}
