// Package simplefiles provides the upload/download core of the simple-files
// application: a Service that writes raw bytes to an object store under a
// configured bucket and folder, and records the file's metadata in a
// repository for later listing and retrieval.
//
// Object stores (S3, MinIO, memory) live under storage/ and metadata
// repositories (Postgres, memory) under repo/. The HTTP surface is in api/.
//
// Consistency
//
// A save is two independent writes: the object upload followed by the record
// insert. There is no compensation when the second write fails; the result's
// Stage reports SaveStageStored so callers can see the orphaned object.
package simplefiles
