// Package cli contains the command line interface for rollseg.
//
// # Usage
//
//	rollseg [flags] [split] [source]
//	rollseg [flags] get [-s source] sbl...
//	rollseg [flags] keys|check|repl [source]
//	rollseg init
//
// The source is a roll file, or "-" for standard input. Relative names are
// searched in the --path directories and then in $ROLLSEG_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (e.g. ~/.config/rollseg). The YAML file uses flag
// names as keys and may nest them by prefix:
//
//	log-level: debug
//	marker:
//	  pad: "#"
//	  min-run: 16
//
// "rollseg init" writes the current flag values to config.yaml. Flags given
// on the command line override both files.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Marker Options
//
//   - --marker-pad: Pad character framing marker text (default "*")
//   - --marker-min-run: Shortest run of pad characters forming a band
//   - --marker-pattern: Regular expression matching delimiter lines
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/rollseg/pprof)
package cli
