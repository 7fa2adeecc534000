// Package storage writes dashboard output files.
//
// A Manager owns one output directory. Zip archives and launch exports are
// written through it with a temporary file and a rename, so a reader never
// sees a half-written download. Writing the same name twice replaces the
// earlier file.
//
// Usage:
//
//	manager, err := storage.NewManager("downloads")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := manager.SaveBytes("astronaut_images.zip", a.Bytes())
//	if err != nil {
//	    log.Printf("Failed to save archive: %v", err)
//	}
package storage
