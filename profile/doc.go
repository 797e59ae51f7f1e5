// Package profile provides optional runtime profiling of rollseg using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	rollseg --pprof-mode=cpu split roll.txt
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// Profiles are written to the directory given by [WithPath], by default a
// "pprof" directory under the user cache directory.
//
// Parallel segmentation (--workers) is the usual target: "cpu" and "trace"
// show how ranges are distributed, "mutex" and "block" show contention on
// the table cache.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
