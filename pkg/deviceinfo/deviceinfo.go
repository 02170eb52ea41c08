package deviceinfo

import (
	"fmt"
	"os"
	"runtime"
)

// clientName identifies this SDK in device descriptors.
const clientName = "gymdesk-admin"

// Info describes the client device. Field names follow the backend's
// deviceInfo contract.
type Info struct {
	Client   string `json:"client"`
	Version  string `json:"version"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Hostname string `json:"hostname,omitempty"`
}

// Collect builds the descriptor for the current host. The version is the
// embedding application's release version; empty becomes "dev".
func Collect(version string) Info {
	if version == "" {
		version = "dev"
	}

	host, _ := os.Hostname()

	return Info{
		Client:   clientName,
		Version:  version,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Hostname: host,
	}
}

// String returns a short human-readable identifier, e.g.
// "gymdesk-admin/1.4.2 linux/amd64 (front-desk-01)".
func (i Info) String() string {
	s := fmt.Sprintf("%s/%s %s/%s", i.Client, i.Version, i.OS, i.Arch)
	if i.Hostname != "" {
		s += " (" + i.Hostname + ")"
	}
	return s
}
