// Package identity derives deterministic asset names from region payloads.
//
// A name has the form slug-ordinal-digest.ext. The digest is the first eight
// hex characters of the MD5 of the payload, so the same payload always maps
// to the same name and re-uploads overwrite instead of duplicating. Names
// longer than MaxLen collapse to generic-digest.ext.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
)

// DigestLen is the number of hex characters kept from the payload digest.
const DigestLen = 8

// DefaultMaxLen is the longest name a scheme produces before collapsing.
const DefaultMaxLen = 100

// Namer turns a located region into an asset file name.
type Namer interface {
	Name(r domain.Region) string
}

// Slugger proposes a readable slug for a payload. It returns "" when it has
// nothing to offer so the next slugger can try.
type Slugger interface {
	Slug(payload, context string) string
}

// SluggerFunc adapts a function to the Slugger interface.
type SluggerFunc func(payload, context string) string

// Slug calls f.
func (f SluggerFunc) Slug(payload, context string) string { return f(payload, context) }

// ExtensionFunc picks the file extension, including the dot, for a payload.
type ExtensionFunc func(payload string) string

// Fixed returns an ExtensionFunc that always yields ext.
func Fixed(ext string) ExtensionFunc {
	return func(string) string { return ext }
}

// KeepGIF yields ".gif" for GIF sources, which are uploaded unchanged, and
// ext for everything else.
func KeepGIF(ext string) ExtensionFunc {
	return func(payload string) string {
		if IsGIF(payload) {
			return ".gif"
		}
		return ext
	}
}

// IsGIF reports whether a target names a GIF file.
func IsGIF(target string) bool {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return strings.EqualFold(path.Ext(target), ".gif")
}

// Scheme is a Namer built from an ordered list of sluggers.
type Scheme struct {
	// Generic is the slug used when no slugger matches and when collapsing
	Generic string

	Sluggers  []Slugger
	Extension ExtensionFunc

	// MaxLen defaults to DefaultMaxLen
	MaxLen int
}

// Name implements Namer.
func (s Scheme) Name(r domain.Region) string {
	digest := Digest(r.Payload)
	ext := ""
	if s.Extension != nil {
		ext = s.Extension(r.Payload)
	}

	slug := s.slug(r)
	name := fmt.Sprintf("%s-%d-%s%s", slug, r.Ordinal, digest, ext)

	max := s.MaxLen
	if max <= 0 {
		max = DefaultMaxLen
	}
	if len(name) > max {
		return fmt.Sprintf("%s-%s%s", s.generic(), digest, ext)
	}
	return name
}

func (s Scheme) slug(r domain.Region) string {
	for _, sl := range s.Sluggers {
		if v := sl.Slug(r.Payload, r.Context); v != "" {
			return v
		}
	}
	return s.generic()
}

func (s Scheme) generic() string {
	if s.Generic == "" {
		return "asset"
	}
	return s.Generic
}

// Digest returns the short content digest of payload.
func Digest(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])[:DigestLen]
}
