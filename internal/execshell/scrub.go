package execshell

import "regexp"

const credentialReplacementConstant = "://"

var credentialURLPattern = regexp.MustCompile(`://[^/@\s]+@`)

// ScrubCredentialURLs removes embedded userinfo from URLs inside command output.
func ScrubCredentialURLs(text string) string {
	return credentialURLPattern.ReplaceAllString(text, credentialReplacementConstant)
}
