package migration

import (
	"os"
	"regexp"
	"strings"
)

const (
	sourcePathFieldNameConstant     = "source path"
	repositoryNameFieldNameConstant = "repository name"
	visibilityFieldNameConstant     = "visibility"
	tokenFieldNameConstant          = "token"
	branchNameFieldNameConstant     = "branch name"
	remoteNameFieldNameConstant     = "remote name"
	commitMessageFieldNameConstant  = "commit message"

	requiredMessageConstant             = "value required"
	notADirectoryMessageConstant        = "path is not a directory"
	pathDoesNotExistMessageConstant     = "path does not exist"
	invalidCharactersMessageConstant    = "only letters, digits, periods, hyphens, and underscores are allowed"
	nameTooLongMessageConstant          = "must be at most 100 characters"
	periodPlacementMessageConstant      = "must not start or end with a period"
	consecutivePeriodsMessageConstant   = "must not contain consecutive periods"
	unrecognizedVisibilityMessage       = "must be private or public"
	unrecognizedTokenFormatMessage      = "unrecognized personal access token format"
	repositoryNameMaximumLengthConstant = 100

	classicTokenPrefixConstant          = "ghp_"
	classicTokenMinimumLengthConstant   = 40
	fineGrainedTokenPrefixConstant      = "github_pat_"
	fineGrainedTokenMinimumLength       = 50
	consecutivePeriodsFragmentConstant  = ".."
	periodConstant                      = "."
)

var repositoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateRequest checks every request field that can be judged before the
// pipeline starts. Commit message emptiness is deliberately left to the
// Commit step so earlier steps still run and report.
func ValidateRequest(request Request) error {
	if validationError := validateSourcePath(request.SourcePath); validationError != nil {
		return validationError
	}
	if validationError := ValidateRepositoryName(request.RepositoryName); validationError != nil {
		return validationError
	}
	if validationError := validateVisibility(request.Visibility); validationError != nil {
		return validationError
	}
	if validationError := ValidateTokenFormat(request.Token); validationError != nil {
		return validationError
	}
	if len(strings.TrimSpace(request.BranchName)) == 0 {
		return ValidationError{Field: branchNameFieldNameConstant, Message: requiredMessageConstant}
	}
	if len(strings.TrimSpace(request.RemoteName)) == 0 {
		return ValidationError{Field: remoteNameFieldNameConstant, Message: requiredMessageConstant}
	}
	return nil
}

func validateSourcePath(sourcePath string) error {
	trimmedPath := strings.TrimSpace(sourcePath)
	if len(trimmedPath) == 0 {
		return ValidationError{Field: sourcePathFieldNameConstant, Message: requiredMessageConstant}
	}

	pathInfo, statError := os.Stat(trimmedPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ValidationError{Field: sourcePathFieldNameConstant, Message: pathDoesNotExistMessageConstant}
		}
		return FileSystemError{Path: trimmedPath, Cause: statError}
	}
	if !pathInfo.IsDir() {
		return ValidationError{Field: sourcePathFieldNameConstant, Message: notADirectoryMessageConstant}
	}
	return nil
}

// ValidateRepositoryName enforces the hosting service's repository naming rules.
func ValidateRepositoryName(repositoryName string) error {
	trimmedName := strings.TrimSpace(repositoryName)
	if len(trimmedName) == 0 {
		return ValidationError{Field: repositoryNameFieldNameConstant, Message: requiredMessageConstant}
	}
	if len(trimmedName) > repositoryNameMaximumLengthConstant {
		return ValidationError{Field: repositoryNameFieldNameConstant, Message: nameTooLongMessageConstant}
	}
	if !repositoryNamePattern.MatchString(trimmedName) {
		return ValidationError{Field: repositoryNameFieldNameConstant, Message: invalidCharactersMessageConstant}
	}
	if strings.HasPrefix(trimmedName, periodConstant) || strings.HasSuffix(trimmedName, periodConstant) {
		return ValidationError{Field: repositoryNameFieldNameConstant, Message: periodPlacementMessageConstant}
	}
	if strings.Contains(trimmedName, consecutivePeriodsFragmentConstant) {
		return ValidationError{Field: repositoryNameFieldNameConstant, Message: consecutivePeriodsMessageConstant}
	}
	return nil
}

func validateVisibility(visibility RepositoryVisibility) error {
	switch visibility {
	case VisibilityPrivate, VisibilityPublic:
		return nil
	default:
		return ValidationError{Field: visibilityFieldNameConstant, Message: unrecognizedVisibilityMessage}
	}
}

// ValidateTokenFormat checks the shape of a personal access token without
// contacting the hosting service. The token value never appears in the
// returned error.
func ValidateTokenFormat(token string) error {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return ValidationError{Field: tokenFieldNameConstant, Message: requiredMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedToken, classicTokenPrefixConstant):
		if len(trimmedToken) >= classicTokenMinimumLengthConstant {
			return nil
		}
	case strings.HasPrefix(trimmedToken, fineGrainedTokenPrefixConstant):
		if len(trimmedToken) >= fineGrainedTokenMinimumLength {
			return nil
		}
	}

	return ValidationError{Field: tokenFieldNameConstant, Message: unrecognizedTokenFormatMessage}
}
