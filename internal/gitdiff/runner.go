package gitdiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/utils"
)

const (
	// DefaultTimeout bounds a single git invocation.
	DefaultTimeout = 30 * time.Second
	// DefaultCacheSize is the number of git outputs memoised per runner.
	DefaultCacheSize = 256

	defaultExecutable        = "git"
	insideWorkTreeOutput     = "true"
	cacheKeySeparator        = "\x00"
	errorCommandFormat       = "%w: git %s in %s: %v: %s"
	errorTimeoutFormat       = "%w after %s: git %s in %s"
	errorRepositoryFormat    = "%w: %s"
	errorCacheCreationFormat = "create git output cache: %w"
	logRunningGit            = "running git"
	logGitCacheHit           = "git output served from cache"
	logFieldRepository       = "repository"
	logFieldArguments        = "arguments"
)

var (
	// ErrRepositoryNotFound is returned when a path is missing or not a git working tree.
	ErrRepositoryNotFound = errors.New("git repository not found")
	// ErrGitTimeout is returned when git exceeds the runner timeout. It is retryable.
	ErrGitTimeout = errors.New("git command timed out")
	// ErrGitCommandFailed is returned when git exits unsuccessfully.
	ErrGitCommandFailed = errors.New("git command failed")
)

// IsRetryable reports whether err is a transient git failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGitTimeout)
}

// RunnerOptions configures a Runner. Zero values select the defaults.
type RunnerOptions struct {
	Executable string
	Timeout    time.Duration
	CacheSize  int
	Logger     *zap.Logger
}

// Runner executes git commands with a bounded timeout and memoises their output.
type Runner struct {
	executable string
	timeout    time.Duration
	cache      *lru.Cache[string, string]
	logger     *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(options RunnerOptions) (*Runner, error) {
	executable := options.Executable
	if executable == "" {
		executable = defaultExecutable
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cacheSize := options.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, cacheError := lru.New[string, string](cacheSize)
	if cacheError != nil {
		return nil, fmt.Errorf(errorCacheCreationFormat, cacheError)
	}
	return &Runner{
		executable: executable,
		timeout:    timeout,
		cache:      cache,
		logger:     utils.LoggerOrNop(options.Logger),
	}, nil
}

// Run executes git with arguments inside repository and returns stdout.
// Successful outputs are cached for the lifetime of the runner.
func (runner *Runner) Run(ctx context.Context, repository string, arguments ...string) (string, error) {
	cacheKey := repository + cacheKeySeparator + strings.Join(arguments, cacheKeySeparator)
	if cached, found := runner.cache.Get(cacheKey); found {
		runner.logger.Debug(logGitCacheHit, zap.String(logFieldRepository, repository), zap.Strings(logFieldArguments, arguments))
		return cached, nil
	}
	output, runError := runner.run(ctx, repository, arguments...)
	if runError != nil {
		return "", runError
	}
	runner.cache.Add(cacheKey, output)
	return output, nil
}

func (runner *Runner) run(ctx context.Context, repository string, arguments ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	commandContext, cancel := context.WithTimeout(ctx, runner.timeout)
	defer cancel()

	runner.logger.Debug(logRunningGit, zap.String(logFieldRepository, repository), zap.Strings(logFieldArguments, arguments))
	// #nosec G204
	command := exec.CommandContext(commandContext, runner.executable, arguments...)
	command.Dir = repository
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	runError := command.Run()
	joinedArguments := strings.Join(arguments, " ")
	if errors.Is(commandContext.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf(errorTimeoutFormat, ErrGitTimeout, runner.timeout, joinedArguments, repository)
	}
	if runError != nil {
		return "", fmt.Errorf(errorCommandFormat, ErrGitCommandFailed, joinedArguments, repository, runError, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// EnsureRepository verifies that path exists and is inside a git working tree.
func (runner *Runner) EnsureRepository(ctx context.Context, path string) error {
	fileInformation, statError := os.Stat(path)
	if statError != nil || !fileInformation.IsDir() {
		return fmt.Errorf(errorRepositoryFormat, ErrRepositoryNotFound, path)
	}
	output, runError := runner.run(ctx, path, "rev-parse", "--is-inside-work-tree")
	if runError != nil {
		if errors.Is(runError, ErrGitTimeout) {
			return runError
		}
		return fmt.Errorf(errorRepositoryFormat, ErrRepositoryNotFound, path)
	}
	if strings.TrimSpace(output) != insideWorkTreeOutput {
		return fmt.Errorf(errorRepositoryFormat, ErrRepositoryNotFound, path)
	}
	return nil
}
