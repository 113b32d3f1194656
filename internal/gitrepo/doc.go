// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for initializing repositories, staging and
// committing content, configuring remotes, renaming branches, and pushing,
// along with structured errors that classify common Git failure modes.
package gitrepo
