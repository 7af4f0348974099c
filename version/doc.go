// Package version reports build information for savvy binaries.
//
// Version, commit, branch and build time are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/savvy/version.Version=1.2.0 \
//	    -X github.com/kbukum/savvy/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Anything left unstamped falls back to the VCS data the Go toolchain embeds.
package version
