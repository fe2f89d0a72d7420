package main

import (
	"os"
	"time"
)

// modTime returns the modification time of path, or the zero time.
func modTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime().UTC()
}
