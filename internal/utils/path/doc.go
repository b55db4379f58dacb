// Package pathutils resolves repository checkout directories from manifest identifiers.
package pathutils
