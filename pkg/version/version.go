package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitTag    string
	GitBranch string
)

const (
	// Name reported in the user agent
	Name = "go-bfl"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Metadata describes the build, as reported by the version command
type Metadata struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Tag       string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Hash      string `json:"hash,omitempty" yaml:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	Platform  string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, branch or revision, or "dev" when none is known
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return s.Value[:12]
			}
		}
	}
	return "dev"
}

// UserAgent returns the value of the User-Agent header for API calls
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", Name, Version(), runtime.GOOS, runtime.GOARCH)
}

// Build returns the build metadata for the named executable
func Build(execName string) Metadata {
	metadata := Metadata{
		Name:     execName,
		Version:  Version(),
		Compiler: runtime.Version(),
		Tag:      GitTag,
		Branch:   GitBranch,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		metadata.Source = info.Main.Path
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				metadata.Hash = s.Value
			case "vcs.time":
				metadata.BuildTime = s.Value
			case "vcs.modified":
				metadata.Modified = s.Value == "true"
			}
		}
	}
	return metadata
}
