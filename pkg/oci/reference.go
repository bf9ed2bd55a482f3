package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/mchmarny/kaudit/pkg/errors"
)

// URIScheme marks an OCI registry target (oci://registry/repo:tag).
const URIScheme = "oci://"

// Reference is a parsed publish target: either an OCI registry
// reference or a local directory path.
type Reference struct {
	// IsOCI is true for registry references, false for local paths.
	IsOCI bool
	// Registry is the registry host (e.g. ghcr.io, localhost:5000).
	Registry string
	// Repository is the repository path within the registry.
	Repository string
	// Tag is the artifact tag. Empty means the caller applies a default.
	Tag string
	// LocalPath holds the directory path when IsOCI is false.
	LocalPath string
}

// ParseTarget parses a publish target string. Strings with the oci://
// scheme are parsed as image references; everything else is a local
// directory path.
func ParseTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{
			IsOCI:     false,
			LocalPath: target,
		}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}, nil
}

// String renders the reference back to its target form.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style reference without the scheme,
// or an empty string for local paths.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy carrying the given tag. Local-path references
// are returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}
