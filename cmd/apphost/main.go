// Command apphost is the template host executable. It is built once and then
// bound to an application with apphost-writer; an unbound copy refuses to run.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/provide-io/flavor/go/apphost/pkg/apphost/host"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(host.ExitPanic)
		}
	}()

	exePath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(host.ExitIOError)
	}

	// All arguments belong to the application unless APPHOST_CLI=1
	host.Launch(exePath, os.Args[1:])
}
