// Package localgit cuts release branches in repositories checked out on local disk.
//
// Working tree operations run through go-git. Stashing, which go-git does not implement, runs the git
// executable through execshell.
package localgit
