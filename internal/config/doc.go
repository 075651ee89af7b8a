// Package config reads .ddscan.yml files. A file found in the scan root
// overrides the user's global file under the XDG config directory; command
// line flags override both.
package config
