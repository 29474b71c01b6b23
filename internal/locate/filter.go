package locate

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Filter decides whether a reference target should be migrated.
type Filter interface {
	Accept(target string) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(target string) bool

// Accept calls f.
func (f FilterFunc) Accept(target string) bool { return f(target) }

// DefaultImageExtensions are the suffixes that mark a target as an image.
var DefaultImageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".bmp", ".tiff", ".tif",
}

// DefaultImageHosts are hosts that serve images without a file extension.
var DefaultImageHosts = []string{
	"imgur.com",
	"i.imgur.com",
	"github.com",
	"githubusercontent.com",
	"unsplash.com",
	"pexels.com",
	"pixabay.com",
	"giphy.com",
}

// ImageFilter accepts targets that look like images.
//
// A target is accepted when it matches HostPattern (if set), or when its
// extension is listed in Extensions, or when its host is in Hosts.
// Targets starting with any Exclude prefix are always rejected.
type ImageFilter struct {
	Extensions  []string
	Hosts       []string
	HostPattern *regexp.Regexp
	Exclude     []string
}

// NewImageFilter returns a filter with the default extension and host lists
// that rejects anything already served from assetHost.
func NewImageFilter(assetHost string) *ImageFilter {
	f := &ImageFilter{
		Extensions: DefaultImageExtensions,
		Hosts:      DefaultImageHosts,
	}
	if assetHost != "" {
		f.Exclude = []string{assetHost}
	}
	return f
}

// Accept implements Filter.
func (f *ImageFilter) Accept(target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, prefix := range f.Exclude {
		if prefix != "" && strings.HasPrefix(target, prefix) {
			return false
		}
	}

	host := hostOf(target)
	if f.HostPattern != nil {
		return host != "" && f.HostPattern.MatchString(host)
	}

	ext := strings.ToLower(path.Ext(stripQuery(target)))
	for _, e := range f.Extensions {
		if ext == e {
			return true
		}
	}
	if host == "" {
		return false
	}
	for _, h := range f.Hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func stripQuery(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}

// hostOf returns the lower-cased host of an absolute or protocol-relative
// URL, or "" for local paths.
func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
