// Package cluster opens client sessions from a resolved connection
// descriptor.
//
// Establishing a session takes three steps:
//
//	h, err := cluster.NewHandle(desc)          // build client config, load TLS material
//	err = h.InstallCodecs(codec.Default())     // freeze and install the registry
//	session, err := h.Connect(ctx)             // open the keyspace-scoped session
//
// Connect runs all three and records connect metrics.
//
// # Errors
//
// Every failure is a *types.ConnectError whose Kind is one of
// types.ErrConnectionFailed, types.ErrKeyspaceNotFound or
// types.ErrSecureTransport. The client's own error stays reachable through
// errors.As. A missing keyspace is told apart from an unreachable cluster by
// opening an unscoped probe session and reading keyspace metadata.
//
// # TLS
//
// Trust and key stores may be PEM files or PKCS#12 archives. When a PKCS#12
// key store holds several keys, the one named by the keyalias option is used,
// then the key named "client", then the first key.
package cluster
