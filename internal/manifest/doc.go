// Package manifest loads the declarative list of repositories a release is cut for.
//
// A manifest is either a bare list of {repository, defaultbranch} entries or an object
// {ownerName, repositories: [...]}. JSON, YAML and TOML are accepted and picked by file extension.
package manifest
