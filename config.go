package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrUpstreamTimeoutInvalid  = runtimeconfig.ErrUpstreamTimeoutInvalid
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrJWTSecretRequired       = runtimeconfig.ErrJWTSecretRequired
	ErrAuthTTLInvalid          = runtimeconfig.ErrAuthTTLInvalid
	ErrGitHubRepoInvalid       = runtimeconfig.ErrGitHubRepoInvalid
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
)

type (
	ServerConfig   = runtimeconfig.ServerConfig
	ContentConfig  = runtimeconfig.ContentConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	AuthConfig     = runtimeconfig.AuthConfig
	GitHubConfig   = runtimeconfig.GitHubConfig
	StorageConfig  = runtimeconfig.StorageConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)
