// Package dbus exposes a running popup on the session bus.
//
// The daemon exports io.github.jmylchreest.AnchorPop1 so that other
// processes can re-anchor the popup, dismiss it, replace its text and read
// back where it was placed. Client wraps the same interface for callers.
package dbus
