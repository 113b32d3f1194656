package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repoforge/internal/execshell"
)

const (
	apiSubcommandConstant                   = "api"
	methodFlagConstant                      = "-X"
	rawFieldFlagConstant                    = "-f"
	typedFieldFlagConstant                  = "-F"
	httpMethodPostConstant                  = "POST"
	authenticatedUserEndpointConstant       = "user"
	userRepositoriesEndpointConstant        = "user/repos"
	repositoryEndpointTemplateConstant      = "repos/%s/%s"
	nameFieldAssignmentTemplateConstant     = "name=%s"
	privateFieldAssignmentTemplate          = "private=%t"
	descriptionFieldAssignmentTemplate      = "description=%s"
	tokenEnvironmentVariableNameConstant    = "GH_TOKEN"
	promptDisabledVariableNameConstant      = "GH_PROMPT_DISABLED"
	promptDisabledValueConstant             = "1"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	repositoryNameFieldNameConstant         = "repository_name"
	ownerFieldNameConstant                  = "owner"
	provisioningErrorTemplateConstant       = "%s failed: %s"
	provisioningErrorDetailTemplate         = "%s failed (%s): %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	notFoundFragmentConstant                = "404"
	unauthorizedFragmentConstant            = "401"
	badCredentialsFragmentConstant          = "bad credentials"
	rateLimitFragmentConstant               = "rate limit"
	forbiddenFragmentConstant               = "403"
	nameExistsFragmentConstant              = "name already exists"
	unprocessableFragmentConstant           = "422"
	resolveHostFragmentConstant             = "could not resolve host"
	timeoutFragmentConstant                 = "timeout"
	connectionFragmentConstant              = "connection refused"
	validateTokenOperationNameConstant      = OperationName("ValidateToken")
	repositoryExistsOperationNameConstant   = OperationName("CheckRepositoryExists")
	createRepositoryOperationNameConstant   = OperationName("CreateRepository")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// FailureKind classifies provisioning failures into actionable categories.
type FailureKind string

// Failure kind enumerations.
const (
	FailureKindUnknown        FailureKind = "unknown"
	FailureKindInvalidToken   FailureKind = "invalid_token"
	FailureKindRateLimited    FailureKind = "rate_limited"
	FailureKindNameTaken      FailureKind = "repository_name_taken"
	FailureKindNetworkTimeout FailureKind = "network_timeout"
)

// TokenIdentity describes the account resolved for a validated token.
type TokenIdentity struct {
	Login string
}

// RepositorySpecification describes the repository to provision.
type RepositorySpecification struct {
	Name        string
	Private     bool
	Description string
}

// ProvisionedRepository contains key details of a freshly created repository.
type ProvisionedRepository struct {
	Owner    string
	Name     string
	CloneURL string
	HTMLURL  string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// ProvisioningError wraps classified failures of GitHub provisioning operations.
type ProvisioningError struct {
	Operation OperationName
	Kind      FailureKind
	Detail    string
	Cause     error
}

// Error describes the provisioning failure.
func (provisioningError ProvisioningError) Error() string {
	if len(provisioningError.Detail) == 0 {
		return fmt.Sprintf(provisioningErrorTemplateConstant, provisioningError.Operation, provisioningError.Kind)
	}
	return fmt.Sprintf(provisioningErrorDetailTemplate, provisioningError.Operation, provisioningError.Kind, provisioningError.Detail)
}

// Unwrap exposes the underlying cause.
func (provisioningError ProvisioningError) Unwrap() error {
	return provisioningError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ValidateToken confirms the token authenticates and resolves its account login.
func (client *Client) ValidateToken(executionContext context.Context, token string) (TokenIdentity, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:            []string{apiSubcommandConstant, authenticatedUserEndpointConstant},
		EnvironmentVariables: tokenEnvironment(token),
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return TokenIdentity{}, classifyProvisioningFailure(validateTokenOperationNameConstant, executionError)
	}

	var response struct {
		Login string `json:"login"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return TokenIdentity{}, ResponseDecodingError{Operation: validateTokenOperationNameConstant, Cause: decodingError}
	}

	return TokenIdentity{Login: response.Login}, nil
}

// CheckRepositoryExists reports whether the owner already has a repository with the name.
func (client *Client) CheckRepositoryExists(executionContext context.Context, token string, owner string, repositoryName string) (bool, error) {
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return false, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return false, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(repositoryEndpointTemplateConstant, trimmedOwner, trimmedRepositoryName),
		},
		EnvironmentVariables: tokenEnvironment(token),
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			combinedOutput := strings.ToLower(commandFailure.Result.StandardError + "\n" + commandFailure.Result.StandardOutput)
			if strings.Contains(combinedOutput, notFoundFragmentConstant) {
				return false, nil
			}
		}
		return false, classifyProvisioningFailure(repositoryExistsOperationNameConstant, executionError)
	}

	return true, nil
}

// CreateRepository provisions a repository under the authenticated account.
func (client *Client) CreateRepository(executionContext context.Context, token string, specification RepositorySpecification) (ProvisionedRepository, error) {
	trimmedName := strings.TrimSpace(specification.Name)
	if len(trimmedName) == 0 {
		return ProvisionedRepository{}, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	arguments := []string{
		apiSubcommandConstant,
		userRepositoriesEndpointConstant,
		methodFlagConstant,
		httpMethodPostConstant,
		rawFieldFlagConstant,
		fmt.Sprintf(nameFieldAssignmentTemplateConstant, trimmedName),
		typedFieldFlagConstant,
		fmt.Sprintf(privateFieldAssignmentTemplate, specification.Private),
	}

	trimmedDescription := strings.TrimSpace(specification.Description)
	if len(trimmedDescription) > 0 {
		arguments = append(arguments, rawFieldFlagConstant, fmt.Sprintf(descriptionFieldAssignmentTemplate, trimmedDescription))
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            arguments,
		EnvironmentVariables: tokenEnvironment(token),
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return ProvisionedRepository{}, classifyProvisioningFailure(createRepositoryOperationNameConstant, executionError)
	}

	var response struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
		CloneURL string `json:"clone_url"`
		HTMLURL  string `json:"html_url"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return ProvisionedRepository{}, ResponseDecodingError{Operation: createRepositoryOperationNameConstant, Cause: decodingError}
	}

	return ProvisionedRepository{
		Owner:    response.Owner.Login,
		Name:     response.Name,
		CloneURL: response.CloneURL,
		HTMLURL:  response.HTMLURL,
	}, nil
}

func tokenEnvironment(token string) map[string]string {
	return map[string]string{
		tokenEnvironmentVariableNameConstant: token,
		promptDisabledVariableNameConstant:   promptDisabledValueConstant,
	}
}

func classifyProvisioningFailure(operation OperationName, executionError error) error {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		combinedOutput := strings.ToLower(commandFailure.Result.StandardError + "\n" + commandFailure.Result.StandardOutput)
		return ProvisioningError{
			Operation: operation,
			Kind:      classifyResponseFragments(combinedOutput),
			Detail:    firstOutputLine(commandFailure.Result.StandardError),
			Cause:     executionError,
		}
	}

	return ProvisioningError{Operation: operation, Kind: FailureKindUnknown, Detail: executionError.Error(), Cause: executionError}
}

func classifyResponseFragments(combinedOutput string) FailureKind {
	switch {
	case strings.Contains(combinedOutput, unauthorizedFragmentConstant),
		strings.Contains(combinedOutput, badCredentialsFragmentConstant):
		return FailureKindInvalidToken
	case strings.Contains(combinedOutput, rateLimitFragmentConstant),
		strings.Contains(combinedOutput, forbiddenFragmentConstant):
		return FailureKindRateLimited
	case strings.Contains(combinedOutput, nameExistsFragmentConstant),
		strings.Contains(combinedOutput, unprocessableFragmentConstant):
		return FailureKindNameTaken
	case strings.Contains(combinedOutput, resolveHostFragmentConstant),
		strings.Contains(combinedOutput, timeoutFragmentConstant),
		strings.Contains(combinedOutput, connectionFragmentConstant):
		return FailureKindNetworkTimeout
	default:
		return FailureKindUnknown
	}
}

func firstOutputLine(standardError string) string {
	trimmedOutput := strings.TrimSpace(standardError)
	if len(trimmedOutput) == 0 {
		return ""
	}
	outputLines := strings.Split(trimmedOutput, "\n")
	return strings.TrimSpace(outputLines[0])
}
