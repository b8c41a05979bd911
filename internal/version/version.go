package version

import (
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Version information for the sexpr CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// major, minor, patch
var partColors = [3][]color.Attribute{
	{color.FgYellow, color.Bold},
	{color.FgGreen, color.Bold},
	{color.FgBlue, color.Bold},
}

// Info is the machine-readable build description.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	GoVersion  string `json:"go_version"`
}

// Get returns the current build description.
func Get() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
	}
}

// Colored renders v with major/minor/patch in distinct colors. Anything
// that is not MAJOR.MINOR.PATCH[-suffix] is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return v
	}
	out := make([]string, 3)
	for i, attrs := range partColors {
		c := color.New(attrs...)
		c.EnableColor()
		out[i] = c.Sprint(parts[i])
	}
	res := strings.Join(out, ".")
	if hasSuffix {
		res += "-" + suffix
	}
	return res
}
