package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	gitUserPrefixConstant               = "git@"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
	requiredValueMessageConstant        = "value required"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, gitUserPrefixConstant):
		return parseSSHRemote(trimmedRemote)
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	_, hostAndPath, userFound := strings.Cut(remote, sshUserDelimiterConstant)
	if !userFound {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	host, path, pathFound := strings.Cut(hostAndPath, sshPathDelimiterConstant)
	if !pathFound {
		host, path, pathFound = strings.Cut(hostAndPath, pathSeparatorConstant)
		if !pathFound {
			return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
		}
	}

	owner, repository, splitFound := strings.Cut(path, pathSeparatorConstant)
	if !splitFound {
		return RemoteURL{}, RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}

	normalizedRepository, normalizeError := normalizeRepositoryName(repository)
	if normalizeError != nil {
		return RemoteURL{}, normalizeError
	}

	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Owner: owner, Repository: normalizedRepository}, nil
}

func parseHTTPSRemote(remote string) (RemoteURL, error) {
	pathComponents := strings.Split(remote, pathSeparatorConstant)
	if len(pathComponents) < 3 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	repository, normalizeError := normalizeRepositoryName(strings.Join(pathComponents[2:], pathSeparatorConstant))
	if normalizeError != nil {
		return RemoteURL{}, normalizeError
	}

	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: pathComponents[0], Owner: pathComponents[1], Repository: repository}, nil
}

func normalizeRepositoryName(repository string) (string, error) {
	trimmed := strings.TrimSuffix(repository, gitSuffixConstant)
	if len(trimmed) == 0 {
		return "", RemoteURLParseError{Input: repository, Message: invalidRemoteURLMessageConstant}
	}
	return trimmed, nil
}

// FormatRemoteURL creates a textual remote URL from a structured representation.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	if len(strings.TrimSpace(remote.Host)) == 0 {
		return "", RemoteURLParseError{Input: remote.Host, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(remote.Owner)) == 0 {
		return "", RemoteURLParseError{Input: remote.Owner, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(remote.Repository)) == 0 {
		return "", RemoteURLParseError{Input: remote.Repository, Message: requiredValueMessageConstant}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		return gitUserPrefixConstant + remote.Host + sshPathDelimiterConstant + remote.Owner + pathSeparatorConstant + remote.Repository + gitSuffixConstant, nil
	case RemoteProtocolHTTPS:
		return httpsProtocolPrefixConstant + remote.Host + pathSeparatorConstant + remote.Owner + pathSeparatorConstant + remote.Repository + gitSuffixConstant, nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
