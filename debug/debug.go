package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Load  bool
	Save  bool
	Cache bool
	Scene bool
}

var d *debug

func init() {
	d = &debug{}
	d.Load = boolEnv("TRES_DEBUG_LOAD")
	d.Save = boolEnv("TRES_DEBUG_SAVE")
	d.Cache = boolEnv("TRES_DEBUG_CACHE")
	d.Scene = boolEnv("TRES_DEBUG_SCENE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Load() bool {
	return d.Load
}
func Save() bool {
	return d.Save
}
func Cache() bool {
	return d.Cache
}
func Scene() bool {
	return d.Scene
}

// Logf writes to stderr with a trailing newline.
func Logf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}
