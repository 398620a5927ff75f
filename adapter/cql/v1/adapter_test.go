package v1_test

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/require"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
	v1 "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql/v1" //nolint:revive // required for v1_test package
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// TestSessionImplementsInterface verifies that v1.Session implements cql.Session.
func TestSessionImplementsInterface(t *testing.T) {
	var _ cql.Session = (*v1.Session)(nil)
	var _ cql.Query = (*v1.Query)(nil)
	var _ cql.Iter = (*v1.Iter)(nil)
}

func TestNewSessionNil(t *testing.T) {
	session := v1.NewSession(nil)
	require.NotNil(t, session)
	require.Nil(t, v1.UnwrapSession(session))
}

// A nil iterator behaves like an empty result.
func TestNilIter(t *testing.T) {
	iter := &v1.Iter{}
	require.False(t, iter.Scan())
	require.NoError(t, iter.Close())
	require.Nil(t, iter.Columns())
	require.Nil(t, iter.Warnings())
}

func TestCreateSessionUnreachable(t *testing.T) {
	cfg := gocql.NewCluster("127.0.0.1")
	cfg.Port = 1
	cfg.ConnectTimeout = 100 * time.Millisecond
	cfg.DisableInitialHostLookup = true

	session, err := v1.CreateSession(cfg)
	require.Error(t, err)
	require.Nil(t, session)
}

// TestConsistencyConstants verifies consistency constants match gocql.
func TestConsistencyConstants(t *testing.T) {
	pairs := map[types.Consistency]gocql.Consistency{
		types.Any:         gocql.Any,
		types.One:         gocql.One,
		types.Two:         gocql.Two,
		types.Three:       gocql.Three,
		types.Quorum:      gocql.Quorum,
		types.All:         gocql.All,
		types.LocalQuorum: gocql.LocalQuorum,
		types.EachQuorum:  gocql.EachQuorum,
		types.LocalOne:    gocql.LocalOne,
	}

	for ours, theirs := range pairs {
		require.Equal(t, theirs, v1.ToGocqlConsistency(ours))
		require.Equal(t, theirs.String(), ours.String())
	}
}
