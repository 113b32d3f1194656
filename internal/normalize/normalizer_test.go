package normalize_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoforge/internal/normalize"
)

const normalizerSubtestTemplateConstant = "%d_%s"

func TestDirectoryNormalizerNormalizeTree(testInstance *testing.T) {
	testCases := []struct {
		name            string
		prepare         func(testInstance *testing.T, rootPath string)
		expectedMarkers []string
	}{
		{
			name:            "empty_root_receives_marker",
			prepare:         func(*testing.T, string) {},
			expectedMarkers: []string{normalize.MarkerFileName},
		},
		{
			name: "empty_leaf_directory_receives_marker",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "assets", "images"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "README.md"), []byte("docs"), 0o644))
			},
			expectedMarkers: []string{filepath.Join("assets", "images", normalize.MarkerFileName)},
		},
		{
			name: "directory_with_file_is_untouched",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "src"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "src", "main.go"), []byte("package main"), 0o644))
			},
			expectedMarkers: nil,
		},
		{
			name: "hidden_file_counts_as_content",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "config"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "config", ".env"), []byte("KEY=value"), 0o644))
			},
			expectedMarkers: nil,
		},
		{
			name: "parent_of_empty_directory_is_untouched",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "outer", "inner"), 0o755))
			},
			expectedMarkers: []string{filepath.Join("outer", "inner", normalize.MarkerFileName)},
		},
		{
			name: "git_metadata_directory_is_skipped",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, ".git", "refs", "heads"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "tracked.txt"), []byte("content"), 0o644))
			},
			expectedMarkers: nil,
		},
		{
			name: "existing_marker_is_not_duplicated",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "empty"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "empty", normalize.MarkerFileName), nil, 0o644))
			},
			expectedMarkers: nil,
		},
		{
			name: "multiple_empty_leaves_all_receive_markers",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "first"), 0o755))
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "second"), 0o755))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "keep.txt"), []byte("content"), 0o644))
			},
			expectedMarkers: []string{
				filepath.Join("first", normalize.MarkerFileName),
				filepath.Join("second", normalize.MarkerFileName),
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(normalizerSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			testCase.prepare(testInstance, rootPath)

			normalizer := normalize.NewDirectoryNormalizer()
			outcome, normalizationError := normalizer.NormalizeTree(rootPath)
			require.NoError(testInstance, normalizationError)
			require.Empty(testInstance, outcome.UnreadablePaths)

			expectedMarkerPaths := make([]string, 0, len(testCase.expectedMarkers))
			for _, relativeMarkerPath := range testCase.expectedMarkers {
				expectedMarkerPaths = append(expectedMarkerPaths, filepath.Join(rootPath, relativeMarkerPath))
			}
			require.ElementsMatch(testInstance, expectedMarkerPaths, outcome.MarkersCreated)

			for _, expectedMarkerPath := range expectedMarkerPaths {
				markerInfo, statError := os.Stat(expectedMarkerPath)
				require.NoError(testInstance, statError)
				require.Zero(testInstance, markerInfo.Size())
			}
		})
	}
}

func TestDirectoryNormalizerIdempotent(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "empty"), 0o755))

	normalizer := normalize.NewDirectoryNormalizer()

	firstOutcome, firstError := normalizer.NormalizeTree(rootPath)
	require.NoError(testInstance, firstError)
	require.Len(testInstance, firstOutcome.MarkersCreated, 1)

	secondOutcome, secondError := normalizer.NormalizeTree(rootPath)
	require.NoError(testInstance, secondError)
	require.Empty(testInstance, secondOutcome.MarkersCreated)
}

func TestDirectoryNormalizerRecordsUnreadableSubtree(testInstance *testing.T) {
	if os.Geteuid() == 0 {
		testInstance.Skip("directory permissions are not enforced for the superuser")
	}

	rootPath := testInstance.TempDir()
	lockedPath := filepath.Join(rootPath, "locked")
	require.NoError(testInstance, os.MkdirAll(lockedPath, 0o755))
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, "open"), 0o755))
	require.NoError(testInstance, os.Chmod(lockedPath, 0o000))
	testInstance.Cleanup(func() { _ = os.Chmod(lockedPath, 0o755) })

	normalizer := normalize.NewDirectoryNormalizer()
	outcome, normalizationError := normalizer.NormalizeTree(rootPath)
	require.NoError(testInstance, normalizationError)

	require.Len(testInstance, outcome.UnreadablePaths, 1)
	require.Equal(testInstance, lockedPath, outcome.UnreadablePaths[0].Path)
	require.Error(testInstance, outcome.UnreadablePaths[0].Cause)

	expectedMarkerPath := filepath.Join(rootPath, "open", normalize.MarkerFileName)
	require.ElementsMatch(testInstance, []string{expectedMarkerPath}, outcome.MarkersCreated)
	markerInfo, statError := os.Stat(expectedMarkerPath)
	require.NoError(testInstance, statError)
	require.Zero(testInstance, markerInfo.Size())
}

func TestDirectoryNormalizerMissingRoot(testInstance *testing.T) {
	normalizer := normalize.NewDirectoryNormalizer()
	_, normalizationError := normalizer.NormalizeTree(filepath.Join(testInstance.TempDir(), "missing"))
	require.Error(testInstance, normalizationError)
}
