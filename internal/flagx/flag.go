// Package flagx lets several packages share one command line: each picks out
// only the flags it owns before handing them to its own flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowed flags of args together with their values.
// A value is either glued with '=' ("-c=conf.json") or the next argument
// when that does not start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}

// stringFlag extracts the value of a string flag known by several names.
func stringFlag(args []string, names ...string) string {
	var value string
	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, "", "")
		allowed = append(allowed, "-"+n, "--"+n)
	}
	_ = fs.Parse(FilterArgs(args, allowed))
	return value
}

// JsonConfigFlags returns the JSON config path given with -c or -config, or
// "" when there is none.
func JsonConfigFlags(args []string) string {
	return stringFlag(args, "c", "config")
}

// EnvFileFlags returns the dotenv path given with -e or -env-file, or "".
func EnvFileFlags(args []string) string {
	return stringFlag(args, "e", "env-file")
}
