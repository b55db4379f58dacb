// Package cut provides the cobra command that cuts release branches across the repositories of a manifest.
package cut
