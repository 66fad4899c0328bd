// Package debug gates diagnostic output on DM_DEBUG_* environment
// variables.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Fetch     bool
	Transform bool
	Patch     bool
	Commit    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Fetch = boolEnv("DM_DEBUG_FETCH")
	d.Transform = boolEnv("DM_DEBUG_TRANSFORM")
	d.Patch = boolEnv("DM_DEBUG_PATCH")
	d.Commit = boolEnv("DM_DEBUG_COMMIT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Fetch() bool {
	return d.Fetch
}
func Transform() bool {
	return d.Transform
}
func Patch() bool {
	return d.Patch
}
func Commit() bool {
	return d.Commit
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
