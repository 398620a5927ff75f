package dsn

import (
	"crypto/tls"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

const (
	// Scheme is the prefix every connection string must start with.
	Scheme = "cassandra://"

	// DefaultPort is the native protocol port used when a host omits one.
	DefaultPort = 9042
)

// Host is one contact point.
type Host struct {
	Name string
	Port int
}

// String returns host:port, bracketing IPv6 literals.
func (h Host) String() string {
	return net.JoinHostPort(h.Name, strconv.Itoa(h.Port))
}

// Keyspace is a keyspace name as written in the connection string.
type Keyspace string

// IsZero reports whether no keyspace was given.
func (k Keyspace) IsZero() bool {
	return k == ""
}

// Quoted returns the keyspace as a double-quoted CQL identifier. Names that
// are already quoted are returned unchanged.
func (k Keyspace) Quoted() string {
	s := string(k)
	if s == "" || isQuoted(s) {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Name returns the identifier without surrounding quotes.
func (k Keyspace) Name() string {
	s := string(k)
	if !isQuoted(s) {
		return s
	}

	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// Credentials hold plain-text authentication material.
type Credentials struct {
	Username string
	Password string
}

// TLSConfig describes the secure transport. A nil *TLSConfig means plaintext.
type TLSConfig struct {
	// TrustStore is a PKCS#12 or PEM file with the CA certificates to trust.
	// Empty means the system roots.
	TrustStore         string
	TrustStorePassword string

	// KeyStore is a PKCS#12 or PEM file with the client certificate and key.
	KeyStore         string
	KeyStorePassword string

	// KeyAlias selects an entry of a PKCS#12 key store by friendly name.
	KeyAlias string

	// CipherSuites restricts the negotiated suites; empty means Go defaults.
	CipherSuites []uint16

	// MinVersion is a crypto/tls version constant; zero means Go defaults.
	MinVersion uint16

	// VerifyServerCertificate enables chain and host name verification.
	VerifyServerCertificate bool
}

// Descriptor is the fully resolved description of a cluster connection.
// It is immutable once returned by Parse.
type Descriptor struct {
	Hosts       []Host
	Keyspace    Keyspace
	Credentials *Credentials
	TLS         *TLSConfig
	Consistency types.Consistency

	ConnectTimeout           time.Duration
	Timeout                  time.Duration
	ProtoVersion             int
	LocalDC                  string
	DisableInitialHostLookup bool

	// ReturnNullStrings makes introspection return NULL instead of empty
	// strings for absent metadata.
	ReturnNullStrings bool

	// Extra holds unrecognized option keys verbatim.
	Extra map[string]string
}

// HostStrings returns the contact points as host:port strings.
func (d *Descriptor) HostStrings() []string {
	out := make([]string, len(d.Hosts))
	for i, h := range d.Hosts {
		out[i] = h.String()
	}

	return out
}

// String renders the descriptor as a connection string. Secrets are omitted.
func (d *Descriptor) String() string {
	var sb strings.Builder
	sb.WriteString(Scheme)
	sb.WriteString(strings.Join(d.HostStrings(), ","))
	sb.WriteByte('/')
	sb.WriteString(url.PathEscape(string(d.Keyspace)))

	q := url.Values{}
	q.Set(keyConsistency, d.Consistency.String())
	if d.Credentials != nil {
		q.Set(keyUser, d.Credentials.Username)
	}
	if d.TLS != nil {
		q.Set(keySSL, "true")
		q.Set(keyVerifyServerCertificate, strconv.FormatBool(d.TLS.VerifyServerCertificate))
		if d.TLS.TrustStore != "" {
			q.Set(keyTrustStore, d.TLS.TrustStore)
		}
		if d.TLS.KeyStore != "" {
			q.Set(keyKeyStore, d.TLS.KeyStore)
		}
		if d.TLS.MinVersion != 0 {
			q.Set(keyTLSMinVersion, tls.VersionName(d.TLS.MinVersion))
		}
	}
	if d.LocalDC != "" {
		q.Set(keyLocalDC, d.LocalDC)
	}
	if d.ReturnNullStrings {
		q.Set(keyReturnNullStrings, "true")
	}

	sb.WriteByte('?')
	sb.WriteString(q.Encode())

	return sb.String()
}
