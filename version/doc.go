// Package version reports the build identity of the binary.
//
// Version and Commit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/trascrivi/version.Version=1.0.0"
//
// Without ldflags the VCS stamp from the Go toolchain is used.
package version
