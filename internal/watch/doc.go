// Package watch rebuilds the documentation whenever one of its inputs changes.
//
// Input directories are watched with fsnotify. Events are debounced and
// coalesced so a burst of saves yields one rebuild, and rebuilds never overlap:
// a change seen while a build runs queues exactly one more build.
package watch
