package version

import "fmt"

// Version represents the current version of wstat.
type Version struct {
	Major    string
	Minor    string
	Patch    string
	Metadata string
	Build    string
}

var (
	// WstatVersion is the current version of wstat.
	WstatVersion = Version{
		Major: "0", Minor: "3", Patch: "0", Metadata: "",
		Build: "$Id$",
	}
)

func (v Version) String() string {
	ver := fmt.Sprintf("Version: %s.%s.%s", v.Major, v.Minor, v.Patch)
	if v.Metadata != "" {
		ver += "-" + v.Metadata
	}
	return fmt.Sprintf("%s\nBuild: %s", ver, v.Build)
}
