// Package prompt reads interactive answers from a terminal or any line-oriented reader.
package prompt
