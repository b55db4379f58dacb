// Package browser opens links in the operator's default web browser using the platform launcher.
package browser
