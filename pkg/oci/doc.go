// Package oci publishes audit report directories as OCI artifacts so
// report archives can live next to images in a registry. Targets are
// given as oci://registry/repository:tag URIs; anything else is treated
// as a local path.
package oci
