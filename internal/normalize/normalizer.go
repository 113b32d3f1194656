package normalize

import (
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// MarkerFileName is the file planted inside leaf-empty directories.
	MarkerFileName = ".gitkeep"

	gitMetadataDirectoryNameConstant = ".git"
	markerFilePermissionsConstant    = 0o644
)

// UnreadablePath records a directory that could not be inspected during normalization.
type UnreadablePath struct {
	Path  string
	Cause error
}

// Outcome summarizes a normalization pass over a directory tree.
type Outcome struct {
	MarkersCreated  []string
	UnreadablePaths []UnreadablePath
}

// DirectoryNormalizer plants marker files so Git retains otherwise-empty directories.
//
// A directory qualifies for a marker when it contains no subdirectories and no
// files other than a previously planted marker. Hidden files count as content.
// Repeated passes over the same tree are idempotent.
type DirectoryNormalizer struct{}

// NewDirectoryNormalizer constructs a DirectoryNormalizer.
func NewDirectoryNormalizer() *DirectoryNormalizer {
	return &DirectoryNormalizer{}
}

// NormalizeTree walks the tree rooted at rootPath and plants markers in every
// leaf-empty directory. Unreadable subdirectories are recorded in the outcome
// and skipped rather than aborting the walk. Git metadata directories are
// never inspected.
func (normalizer *DirectoryNormalizer) NormalizeTree(rootPath string) (Outcome, error) {
	outcome := Outcome{}

	walkError := filepath.WalkDir(rootPath, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			if currentPath == rootPath {
				return visitError
			}
			outcome.UnreadablePaths = append(outcome.UnreadablePaths, UnreadablePath{Path: currentPath, Cause: visitError})
			return fs.SkipDir
		}

		if !entry.IsDir() {
			return nil
		}

		if entry.Name() == gitMetadataDirectoryNameConstant && currentPath != rootPath {
			return fs.SkipDir
		}

		directoryEntries, readError := os.ReadDir(currentPath)
		if readError != nil {
			outcome.UnreadablePaths = append(outcome.UnreadablePaths, UnreadablePath{Path: currentPath, Cause: readError})
			return fs.SkipDir
		}

		if !isLeafEmpty(directoryEntries) {
			return nil
		}

		markerPresent := false
		for _, directoryEntry := range directoryEntries {
			if directoryEntry.Name() == MarkerFileName {
				markerPresent = true
				break
			}
		}
		if markerPresent {
			return nil
		}

		markerPath := filepath.Join(currentPath, MarkerFileName)
		writeError := os.WriteFile(markerPath, nil, markerFilePermissionsConstant)
		if writeError != nil {
			outcome.UnreadablePaths = append(outcome.UnreadablePaths, UnreadablePath{Path: currentPath, Cause: writeError})
			return nil
		}

		outcome.MarkersCreated = append(outcome.MarkersCreated, markerPath)
		return nil
	})
	if walkError != nil {
		return Outcome{}, walkError
	}

	return outcome, nil
}

func isLeafEmpty(directoryEntries []fs.DirEntry) bool {
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			return false
		}
		if directoryEntry.Name() != MarkerFileName {
			return false
		}
	}
	return true
}
