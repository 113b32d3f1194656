// Package githubcli wraps the GitHub CLI for repoforge workflows.
//
// It layers typed request and response structures for gh api calls, exposes
// the provisioning interface consumed by the migration service, and
// integrates with execshell so interactions with GitHub can be mocked during
// testing. Access tokens travel to gh through the process environment only.
package githubcli
