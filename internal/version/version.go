// Package version carries build identity, overridable at link time:
//
//	go build -ldflags "-X tunekeeper/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "runtime"

var (
	AppName        = "TuneKeeper"
	AppDescription = "A Discord music bot that keeps the queue rolling."
	AppRepository  = "https://github.com/keshon/tunekeeper"
	BuildDate      = ""
	GoVersion      = runtime.Version()
)
