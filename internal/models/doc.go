// Package models defines the domain entities for the playlist site.
//
// The package contains the four persisted resources and their defaults:
//   - [Song] : an entry on the public song request list
//   - [Genre] : a user-defined category referenced by songs via id
//   - [Profile] : the streamer profile shown on the public page
//   - [Settings] : site-wide display and command settings
//
// A [Snapshot] bundles a full point-in-time copy of all resources from one
// data source; the reconciliation layer selects and merges snapshots.
// Resources are persisted wrapped in [Metadata] carrying a version string and
// a lastModified timestamp stamped on every write.
package models
