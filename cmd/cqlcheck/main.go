// Command cqlcheck validates connection strings and probes clusters with the
// same code paths the driver uses.
//
//	cqlcheck parse "cassandra://h1,h2/app?consistency=quorum"
//	cqlcheck ping -o user=app -o password=secret "cassandra://h1/app"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
