package cluster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"

	v1 "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql/v1"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

type handleState int

const (
	stateBuilt handleState = iota
	stateLive
	stateClosed
)

// Handle is a cluster client configuration that has not opened a session yet.
//
// A Handle is single-use: Connect succeeds at most once, and a failed Connect
// tears the handle down.
type Handle struct {
	desc *dsn.Descriptor
	cfg  *gocql.ClusterConfig
	conf config

	mu       sync.Mutex
	state    handleState
	registry *codec.Registry
}

// NewHandle builds the cluster client configuration for desc.
//
// TLS material is loaded here so that bad stores fail before any network
// call.
//
// Parameters:
//   - desc: Resolved descriptor
//   - opts: Handle options
//
// Returns:
//   - *Handle: Handle ready for InstallCodecs and Connect
//   - error: *types.ConnectError wrapping ErrSecureTransport for bad TLS material
func NewHandle(desc *dsn.Descriptor, opts ...Option) (*Handle, error) {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}

	cfg := gocql.NewCluster(desc.HostStrings()...)
	cfg.Port = dsn.DefaultPort
	cfg.Keyspace = desc.Keyspace.Name()
	cfg.Consistency = v1.ToGocqlConsistency(desc.Consistency)
	cfg.DisableInitialHostLookup = desc.DisableInitialHostLookup
	cfg.Logger = gocqlLogger{logger: conf.logger}
	if desc.ConnectTimeout > 0 {
		cfg.ConnectTimeout = desc.ConnectTimeout
	}
	if desc.Timeout > 0 {
		cfg.Timeout = desc.Timeout
	}
	if desc.ProtoVersion > 0 {
		cfg.ProtoVersion = desc.ProtoVersion
	}
	if desc.LocalDC != "" {
		cfg.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(desc.LocalDC))
	}
	if desc.Credentials != nil {
		cfg.Authenticator = gocql.PasswordAuthenticator{
			Username: desc.Credentials.Username,
			Password: desc.Credentials.Password,
		}
	}
	if desc.TLS != nil {
		tlsCfg, err := buildTLSConfig(desc.TLS)
		if err != nil {
			return nil, err
		}
		cfg.SslOpts = &gocql.SslOptions{
			Config:                 tlsCfg,
			EnableHostVerification: desc.TLS.VerifyServerCertificate,
		}
	}

	return &Handle{desc: desc, cfg: cfg, conf: conf}, nil
}

// Config returns the cluster configuration the handle will connect with.
func (h *Handle) Config() *gocql.ClusterConfig {
	return h.cfg
}

// InstallCodecs sets the codec registry sessions of this handle will use and
// freezes it. Installing again replaces the registry.
//
// Returns ErrSessionLive once Connect has succeeded and ErrSessionClosed
// after the handle was torn down.
func (h *Handle) InstallCodecs(r *codec.Registry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case stateLive:
		return types.ErrSessionLive
	case stateClosed:
		return types.ErrSessionClosed
	case stateBuilt:
	}

	r.Freeze()
	h.registry = r

	return nil
}

// Close tears down a handle that has not connected. It is safe to call more
// than once and has no effect on sessions already returned by Connect.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == stateBuilt {
		h.state = stateClosed
	}
}

// Connect opens a session, scoped to the descriptor's keyspace when one is
// set.
//
// A context deadline shortens the connect and request timeouts; Connect
// never outlives it by more than one timeout period.
//
// Parameters:
//   - ctx: Context bounding the attempt
//
// Returns:
//   - *Session: Usable session
//   - error: *types.ConnectError wrapping ErrConnectionFailed,
//     ErrKeyspaceNotFound or ErrSecureTransport
func (h *Handle) Connect(ctx context.Context) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case stateLive:
		return nil, types.ErrSessionLive
	case stateClosed:
		return nil, types.ErrSessionClosed
	case stateBuilt:
	}
	if h.registry == nil {
		h.registry = codec.Default()
	}

	if err := ctx.Err(); err != nil {
		h.state = stateClosed
		return nil, h.connectError(types.ErrConnectionFailed, err)
	}

	cfg := h.configFor(ctx)
	h.conf.logger.Debug("opening session",
		"hosts", h.desc.HostStrings(),
		"keyspace", h.desc.Keyspace.Quoted(),
		"consistency", h.desc.Consistency.String(),
		"tls", h.desc.TLS != nil,
	)

	raw, err := h.conf.factory(cfg)
	if err != nil {
		h.state = stateClosed
		return nil, h.classify(ctx, cfg, err)
	}
	h.state = stateLive

	return newSession(raw, h.registry, h.desc, h.conf.metrics), nil
}

// configFor copies the configuration and clamps its timeouts to the
// context deadline.
func (h *Handle) configFor(ctx context.Context) *gocql.ClusterConfig {
	cfg := *h.cfg
	clampTimeouts(ctx, &cfg)

	return &cfg
}

func clampTimeouts(ctx context.Context, cfg *gocql.ClusterConfig) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return
	}
	remaining := max(time.Until(deadline), time.Millisecond)
	if cfg.ConnectTimeout <= 0 || remaining < cfg.ConnectTimeout {
		cfg.ConnectTimeout = remaining
	}
	if cfg.Timeout <= 0 || remaining < cfg.Timeout {
		cfg.Timeout = remaining
	}
}

// classify turns a session creation failure into the driver taxonomy. When a
// keyspace was requested, an unscoped probe session tells a missing keyspace
// apart from an unreachable cluster. The probe is skipped when the cause
// already rules the keyspace out, and it shares the caller's deadline.
func (h *Handle) classify(ctx context.Context, cfg *gocql.ClusterConfig, err error) error {
	kind := transportKind(err)
	if kind == types.ErrSecureTransport || h.desc.Keyspace.IsZero() {
		return h.connectError(kind, err)
	}
	if unreachable(err) || ctx.Err() != nil {
		return h.connectError(types.ErrConnectionFailed, err)
	}

	probeCfg := *cfg
	probeCfg.Keyspace = ""
	// Host selection policies cannot be shared between sessions.
	probeCfg.PoolConfig.HostSelectionPolicy = nil
	clampTimeouts(ctx, &probeCfg)

	probe, probeErr := h.conf.factory(&probeCfg)
	if probeErr != nil {
		h.conf.logger.Debug("keyspace probe failed", "error", probeErr)
		return h.connectError(transportKind(probeErr), err)
	}
	defer probe.Close()

	exists, metaErr := probe.KeyspaceExists(h.desc.Keyspace.Name())
	if metaErr != nil {
		h.conf.logger.Debug("keyspace metadata unavailable", "error", metaErr)
		return h.connectError(types.ErrConnectionFailed, err)
	}
	if !exists {
		return h.connectError(types.ErrKeyspaceNotFound, err)
	}

	return h.connectError(types.ErrConnectionFailed, err)
}

func (h *Handle) connectError(kind, cause error) error {
	return &types.ConnectError{
		Kind:     kind,
		Hosts:    h.desc.HostStrings(),
		Keyspace: h.desc.Keyspace.Quoted(),
		Cause:    cause,
	}
}

// Connect builds a handle for desc, installs registry and opens a session.
// A nil registry installs codec.Default().
//
// Parameters:
//   - ctx: Context bounding the attempt
//   - desc: Resolved descriptor
//   - registry: Codec registry for the session
//   - opts: Handle options
//
// Returns:
//   - *Session: Usable session
//   - error: *types.ConnectError on failure
func Connect(ctx context.Context, desc *dsn.Descriptor, registry *codec.Registry, opts ...Option) (*Session, error) {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}

	start := time.Now()
	conf.metrics.IncConnectTotal()

	session, err := connect(ctx, desc, registry, opts)
	conf.metrics.ObserveConnectDuration(time.Since(start).Seconds())
	if err != nil {
		conf.metrics.IncConnectError(types.Classify(err).String())
		conf.logger.Warn("connect failed", "hosts", desc.HostStrings(), "error", err)

		return nil, err
	}
	conf.metrics.IncSessionOpened()
	conf.logger.Info("session opened", "hosts", desc.HostStrings(), "keyspace", desc.Keyspace.Quoted())

	return session, nil
}

func connect(ctx context.Context, desc *dsn.Descriptor, registry *codec.Registry, opts []Option) (*Session, error) {
	h, err := NewHandle(desc, opts...)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		registry = codec.Default()
	}
	if err := h.InstallCodecs(registry); err != nil {
		h.Close()
		return nil, fmt.Errorf("install codecs: %w", err)
	}

	return h.Connect(ctx)
}
