package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	fingerprintVersion = "v1:"
	// fingerprintHashLen uses 16 bytes (128 bits) for balance between
	// uniqueness and storage efficiency. SHA-256 provides 256 bits, but
	// 128 bits is sufficient for fingerprinting and halves storage.
	fingerprintHashLen = 16
	// fingerprintTotalLen is the total length of a fingerprint string:
	// 3 bytes ("v1:") + 32 bytes (hex encoding of 16 bytes) = 35 bytes
	fingerprintTotalLen = 35
)

// Generate creates a device fingerprint from the given environment source.
// Returns a version-prefixed fingerprint string in format: "v1:hash".
//
// By default all components are included. Use functional options to drop
// components that are expected to vary for your deployment:
//
//	fp := fingerprint.Generate(fingerprint.System())
//	fp := fingerprint.Generate(src, fingerprint.WithoutDisplay())
func Generate(src Source, opts ...Option) string {
	o := applyOptions(opts...)

	var components []string

	if o.includePlatform {
		components = append(components, src.Platform())
	}

	if o.includeLocale {
		components = append(components, src.Locale())
	}

	if o.includeDisplay {
		if w, h := src.Display(); w > 0 && h > 0 {
			components = append(components, fmt.Sprintf("%dx%d", w, h))
		}
	}

	if o.includeTimezone {
		components = append(components, fmt.Sprintf("tz%d", src.TimezoneOffset()))
	}

	if o.includeRenderHash {
		components = append(components, src.RenderHash())
	}

	// Filter out empty components to ensure consistent hashing.
	// Empty values could come from missing environment data or disabled options.
	filtered := make([]string, 0, len(components))
	for _, comp := range components {
		if comp != "" {
			filtered = append(filtered, comp)
		}
	}

	// Join with pipe delimiter to prevent collision attacks where
	// ["ab", "c"] and ["a", "bc"] would otherwise produce the same hash.
	combined := strings.Join(filtered, "|")
	hash := sha256.Sum256([]byte(combined))

	return fingerprintVersion + hex.EncodeToString(hash[:fingerprintHashLen])
}

// Validate compares the current environment fingerprint with a stored one.
// Returns nil on match, ErrMismatch on divergence, or ErrInvalidFingerprint
// when the stored value is not in "v1:hash" format.
//
// Use the same options that produced the stored fingerprint, otherwise a
// match is impossible even on the same device.
func Validate(src Source, stored string, opts ...Option) error {
	if !strings.HasPrefix(stored, fingerprintVersion) || len(stored) != fingerprintTotalLen {
		return ErrInvalidFingerprint
	}

	if Generate(src, opts...) == stored {
		return nil
	}

	return ErrMismatch
}
