// Command savvyctl issues REST requests and runs commands through the savvy
// components, using a config.yml / .env / SAVVY_* configuration.
package main

import (
	"context"
	"os"

	"github.com/kbukum/savvy/termination"
)

func main() {
	ctx, stop := termination.NotifyContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	termination.Exit(code)
}
