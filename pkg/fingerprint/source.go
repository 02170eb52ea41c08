package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Source provides the environment characteristics a fingerprint is built
// from. Implementations must be deterministic for a stable environment.
type Source interface {
	// Platform identifies the client runtime, the desktop analog of a
	// browser User-Agent string.
	Platform() string

	// Locale is a normalized BCP 47 language tag, e.g. "en-US".
	Locale() string

	// Display returns the primary display geometry in pixels.
	// Zero values mean the geometry is unknown and is skipped.
	Display() (width, height int)

	// TimezoneOffset is the local UTC offset in minutes.
	TimezoneOffset() int

	// RenderHash is an opaque hash of a rendering probe, the analog of a
	// canvas-content hash. Implementations without a rendering stack
	// return a stable surrogate.
	RenderHash() string
}

// System returns a Source backed by the host environment.
func System() Source {
	return systemSource{}
}

type systemSource struct{}

func (systemSource) Platform() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s/%s %s (%s)", runtime.GOOS, runtime.GOARCH, runtime.Version(), host)
}

func (systemSource) Locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		// Strip encoding suffix: "en_US.UTF-8" -> "en_US".
		if i := strings.IndexByte(raw, '.'); i >= 0 {
			raw = raw[:i]
		}
		if tag := language.Make(raw); tag != language.Und {
			return tag.String()
		}
	}
	return ""
}

func (systemSource) Display() (int, int) {
	// Headless hosts have no display server to query.
	return 0, 0
}

func (systemSource) TimezoneOffset() int {
	_, offset := time.Now().Zone()
	return offset / 60
}

func (systemSource) RenderHash() string {
	// No rendering stack on the host; hash the toolchain identity as a
	// stable surrogate so the component still contributes entropy.
	sum := sha256.Sum256([]byte(runtime.Version() + "|" + runtime.GOOS + "|" + runtime.GOARCH))
	return hex.EncodeToString(sum[:8])
}

// StaticSource is a fixed-value Source for tests and embedders that
// collect environment data themselves.
type StaticSource struct {
	PlatformID    string
	LocaleTag     string
	DisplayWidth  int
	DisplayHeight int
	TZOffset      int
	RenderProbe   string
}

func (s StaticSource) Platform() string    { return s.PlatformID }
func (s StaticSource) Locale() string      { return s.LocaleTag }
func (s StaticSource) Display() (int, int) { return s.DisplayWidth, s.DisplayHeight }
func (s StaticSource) TimezoneOffset() int { return s.TZOffset }
func (s StaticSource) RenderHash() string  { return s.RenderProbe }
