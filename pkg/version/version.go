// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version provides information about the prefstore build.
// The variables are meant to be overridden at build time:
//
//	go build -ldflags '-X github.com/ligato/prefstore/pkg/version.gitCommit=...'
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"time"
)

var (
	app       = "prefstore"
	version   = "v0.1.0"
	gitCommit = "unknown"
	gitBranch = "HEAD"
	buildUser = "unknown"
	buildHost = "unknown"
	buildDate = ""
)

var (
	buildTime time.Time
	revision  string
)

func init() {
	if buildDate != "" {
		stamp, _ := strconv.ParseInt(buildDate, 10, 64)
		buildTime = time.Unix(stamp, 0)
	}
	revision = gitCommit
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if gitBranch != "HEAD" {
		revision += "@" + gitBranch
	}
}

// App returns the application name.
func App() string {
	return app
}

// Version returns the version string.
func Version() string {
	return version
}

// Short returns the application name with the version.
func Short() string {
	return fmt.Sprintf("%s %s", app, version)
}

// BuiltOn returns the build timestamp, empty for untagged builds.
func BuiltOn() string {
	if buildTime.IsZero() {
		return ""
	}
	return buildTime.Format(time.UnixDate)
}

// BuiltBy returns who built the binary and with which toolchain.
func BuiltBy() string {
	return fmt.Sprintf("%s@%s (%s %s/%s)",
		buildUser, buildHost, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Info returns the complete version info on a single line.
func Info() string {
	return fmt.Sprintf("%s %s (%s)", app, version, revision)
}

// Detail returns the version info on separate lines.
func Detail() string {
	return fmt.Sprintf(`%s
  Version:    %s
  Revision:   %s
  Built by:   %s
  Build date: %s
  Go runtime: %s (%s/%s)`,
		app, version, revision,
		BuiltBy(), BuiltOn(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
