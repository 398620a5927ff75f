package cluster

import (
	"fmt"
	"strings"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// gocqlLogger forwards gocql's internal log lines to the driver logger at
// debug level.
type gocqlLogger struct {
	logger types.Logger
}

func (l gocqlLogger) Print(v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprint(v...)), "component", "gocql")
}

func (l gocqlLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "gocql")
}

func (l gocqlLogger) Println(v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)), "component", "gocql")
}
