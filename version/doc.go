// Package version reports the build version of itemfeed.
//
// Release builds set the variables through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/itemfeed/version.Version=1.2.0" ./cmd/itemfeed
//
// Other builds fall back to the module and VCS data embedded by the Go
// toolchain.
package version
