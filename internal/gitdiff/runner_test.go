package gitdiff_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/temirov/ctxgen/internal/gitdiff"
)

func requireGit(testingHandle *testing.T) {
	testingHandle.Helper()
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testingHandle.Skip("git executable not available")
	}
}

func runGit(testingHandle *testing.T, repository string, arguments ...string) {
	testingHandle.Helper()
	command := exec.Command("git", arguments...)
	command.Dir = repository
	command.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=ctxgen", "GIT_AUTHOR_EMAIL=ctxgen@example.com",
		"GIT_COMMITTER_NAME=ctxgen", "GIT_COMMITTER_EMAIL=ctxgen@example.com",
	)
	if output, runError := command.CombinedOutput(); runError != nil {
		testingHandle.Fatalf("git %s: %v\n%s", strings.Join(arguments, " "), runError, output)
	}
}

func writeFile(testingHandle *testing.T, path, content string) {
	testingHandle.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		testingHandle.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", path, writeError)
	}
}

func TestRunnerChangedFilesAndDiff(testingHandle *testing.T) {
	requireGit(testingHandle)
	repository := testingHandle.TempDir()
	runGit(testingHandle, repository, "init", "--quiet")
	writeFile(testingHandle, filepath.Join(repository, "a.txt"), "one\n")
	runGit(testingHandle, repository, "add", ".")
	runGit(testingHandle, repository, "commit", "--quiet", "-m", "first")
	writeFile(testingHandle, filepath.Join(repository, "a.txt"), "one\ntwo\n")
	writeFile(testingHandle, filepath.Join(repository, "docs", "b.md"), "# b\n")
	runGit(testingHandle, repository, "add", ".")
	runGit(testingHandle, repository, "commit", "--quiet", "-m", "second")

	runner, runnerError := gitdiff.NewRunner(gitdiff.RunnerOptions{})
	if runnerError != nil {
		testingHandle.Fatalf("NewRunner: %v", runnerError)
	}
	if ensureError := runner.EnsureRepository(context.Background(), repository); ensureError != nil {
		testingHandle.Fatalf("EnsureRepository: %v", ensureError)
	}

	commitRange, _ := gitdiff.ResolveCommitRange("last")
	changedFiles, listError := runner.ChangedFiles(context.Background(), repository, commitRange)
	if listError != nil {
		testingHandle.Fatalf("ChangedFiles: %v", listError)
	}
	if strings.Join(changedFiles, ",") != "a.txt,docs/b.md" {
		testingHandle.Fatalf("unexpected changed files %v", changedFiles)
	}

	fileDiff, diffError := runner.FileDiff(context.Background(), repository, commitRange, "a.txt")
	if diffError != nil {
		testingHandle.Fatalf("FileDiff: %v", diffError)
	}
	if !strings.Contains(fileDiff, "+two") {
		testingHandle.Fatalf("diff missing added line:\n%s", fileDiff)
	}

	stats, statsError := runner.Stats(context.Background(), repository, commitRange, []string{"a.txt"})
	if statsError != nil {
		testingHandle.Fatalf("Stats: %v", statsError)
	}
	if !strings.Contains(stats, "1 file changed") {
		testingHandle.Fatalf("unexpected stats:\n%s", stats)
	}
}

func TestRunnerCachesOutput(testingHandle *testing.T) {
	requireGit(testingHandle)
	repository := testingHandle.TempDir()
	runGit(testingHandle, repository, "init", "--quiet")
	writeFile(testingHandle, filepath.Join(repository, "a.txt"), "one\n")
	runGit(testingHandle, repository, "add", ".")
	runGit(testingHandle, repository, "commit", "--quiet", "-m", "first")

	runner, _ := gitdiff.NewRunner(gitdiff.RunnerOptions{CacheSize: 4})
	first, firstError := runner.Run(context.Background(), repository, "rev-parse", "HEAD")
	if firstError != nil {
		testingHandle.Fatalf("rev-parse: %v", firstError)
	}
	writeFile(testingHandle, filepath.Join(repository, "a.txt"), "changed\n")
	runGit(testingHandle, repository, "commit", "--quiet", "-am", "second")
	second, _ := runner.Run(context.Background(), repository, "rev-parse", "HEAD")
	if first != second {
		testingHandle.Fatalf("expected cached output %q, got %q", first, second)
	}
}

func TestEnsureRepositoryRejectsPlainDirectories(testingHandle *testing.T) {
	requireGit(testingHandle)
	runner, _ := gitdiff.NewRunner(gitdiff.RunnerOptions{})
	missingError := runner.EnsureRepository(context.Background(), filepath.Join(testingHandle.TempDir(), "missing"))
	if !errors.Is(missingError, gitdiff.ErrRepositoryNotFound) {
		testingHandle.Fatalf("expected ErrRepositoryNotFound, got %v", missingError)
	}
}

func TestRunnerTimeoutIsRetryable(testingHandle *testing.T) {
	if _, lookupError := exec.LookPath("sleep"); lookupError != nil {
		testingHandle.Skip("sleep executable not available")
	}
	runner, _ := gitdiff.NewRunner(gitdiff.RunnerOptions{Executable: "sleep", Timeout: 50 * time.Millisecond})
	_, runError := runner.Run(context.Background(), testingHandle.TempDir(), "5")
	if !errors.Is(runError, gitdiff.ErrGitTimeout) {
		testingHandle.Fatalf("expected ErrGitTimeout, got %v", runError)
	}
	if !gitdiff.IsRetryable(runError) {
		testingHandle.Fatalf("timeout must be retryable")
	}
}

func stagedRepository(testingHandle *testing.T, files map[string]string) string {
	testingHandle.Helper()
	repository := testingHandle.TempDir()
	runGit(testingHandle, repository, "init", "--quiet")
	writeFile(testingHandle, filepath.Join(repository, "README"), "readme\n")
	runGit(testingHandle, repository, "add", ".")
	runGit(testingHandle, repository, "commit", "--quiet", "-m", "first")
	for name, content := range files {
		writeFile(testingHandle, filepath.Join(repository, name), content)
	}
	runGit(testingHandle, repository, "add", ".")
	return repository
}

func TestRunnerFileDiffTreatsPathsLiterally(testingHandle *testing.T) {
	requireGit(testingHandle)
	repository := stagedRepository(testingHandle, map[string]string{
		"a[1].txt": "bracket\n",
		"a1.txt":   "plain\n",
	})
	runner, _ := gitdiff.NewRunner(gitdiff.RunnerOptions{})
	commitRange, _ := gitdiff.ResolveCommitRange("staged")

	testCases := []struct {
		name            string
		path            string
		expectedLine    string
		unexpectedLines []string
	}{
		{name: "bracketed name", path: "a[1].txt", expectedLine: "+bracket", unexpectedLines: []string{"+plain", "a1.txt"}},
		{name: "plain name", path: "a1.txt", expectedLine: "+plain", unexpectedLines: []string{"+bracket", "a[1].txt"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			fileDiff, diffError := runner.FileDiff(context.Background(), repository, commitRange, testCase.path)
			if diffError != nil {
				subTest.Fatalf("FileDiff: %v", diffError)
			}
			if !strings.Contains(fileDiff, testCase.expectedLine) {
				subTest.Fatalf("diff for %s missing %q:\n%s", testCase.path, testCase.expectedLine, fileDiff)
			}
			for _, unexpectedLine := range testCase.unexpectedLines {
				if strings.Contains(fileDiff, unexpectedLine) {
					subTest.Fatalf("diff for %s also contains %q:\n%s", testCase.path, unexpectedLine, fileDiff)
				}
			}
		})
	}

	stats, statsError := runner.Stats(context.Background(), repository, commitRange, []string{"a[1].txt"})
	if statsError != nil {
		testingHandle.Fatalf("Stats: %v", statsError)
	}
	if !strings.Contains(stats, "1 file changed") {
		testingHandle.Fatalf("unexpected stats:\n%s", stats)
	}
}

func TestRunnerChangedFilesKeepsNamesVerbatim(testingHandle *testing.T) {
	requireGit(testingHandle)
	if runtime.GOOS == "windows" {
		testingHandle.Skip("file names with tabs and quotes are not portable")
	}
	repository := stagedRepository(testingHandle, map[string]string{
		" padded .txt":  "padded\n",
		"tab\there.txt": "tabbed\n",
		`quote"d.txt`:   "quoted\n",
	})
	runner, _ := gitdiff.NewRunner(gitdiff.RunnerOptions{})
	commitRange, _ := gitdiff.ResolveCommitRange("staged")

	changedFiles, listError := runner.ChangedFiles(context.Background(), repository, commitRange)
	if listError != nil {
		testingHandle.Fatalf("ChangedFiles: %v", listError)
	}
	expectedFiles := []string{" padded .txt", `quote"d.txt`, "tab\there.txt"}
	if strings.Join(changedFiles, "|") != strings.Join(expectedFiles, "|") {
		testingHandle.Fatalf("unexpected changed files %q, expected %q", changedFiles, expectedFiles)
	}
	for _, changedFile := range changedFiles {
		fileDiff, diffError := runner.FileDiff(context.Background(), repository, commitRange, changedFile)
		if diffError != nil {
			testingHandle.Fatalf("FileDiff %q: %v", changedFile, diffError)
		}
		if strings.TrimSpace(fileDiff) == "" {
			testingHandle.Fatalf("empty diff for %q", changedFile)
		}
	}
}
