// Package git provides the git operations llmc needs: validating that
// there is something to commit, rendering the staged diff and committing.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/alexander-akhmetov/llmc/internal/debug"
	"github.com/alexander-akhmetov/llmc/internal/domain"
)

// User-facing validation messages.
const (
	MsgNotRepository = "This directory is not a Git repository. Please run this command from within a Git repository."
	MsgNothingStaged = `No changes have been staged for commit. Use "git add <file>" to stage changes first.`
	MsgNoChanges     = "No changes detected. There is nothing to commit."
	MsgUnmerged      = "You have unmerged paths. Resolve the conflicts and stage the results before committing."
)

// maxListedFiles bounds each file list in validation details.
const maxListedFiles = 5

// Repo is a git repository rooted at (or above) a working directory.
// The repository is opened lazily so that "not a repository" surfaces
// through ValidateState instead of construction.
type Repo struct {
	workDir string
	repo    *gogit.Repository
}

// Open returns a Repo for workDir. Parent directories are searched for .git.
func Open(workDir string) *Repo {
	return &Repo{workDir: workDir}
}

func (r *Repo) open() (*gogit.Repository, error) {
	if r.repo != nil {
		return r.repo, nil
	}
	repo, err := gogit.PlainOpenWithOptions(r.workDir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open git repo at %s: %w", r.workDir, err)
	}
	r.repo = repo
	return repo, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repo) Root() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("get worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// ValidateState reports whether there are staged changes to describe.
func (r *Repo) ValidateState() domain.ValidationResult {
	repo, err := r.open()
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return domain.ValidationResult{Message: MsgNotRepository}
		}
		return domain.ValidationResult{Message: err.Error()}
	}

	_, unmerged, err := indexEntries(repo)
	if err != nil {
		return domain.ValidationResult{Message: err.Error()}
	}
	if len(unmerged) > 0 {
		var details strings.Builder
		fmt.Fprintf(&details, "\nUnmerged paths (%d file(s)):", len(unmerged))
		writeFileList(&details, unmerged)
		return domain.ValidationResult{Message: MsgUnmerged, Details: details.String()}
	}

	diff, err := r.StagedDiff()
	if err != nil {
		return domain.ValidationResult{Message: err.Error()}
	}
	if diff != "" {
		return domain.ValidationResult{Valid: true}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return domain.ValidationResult{Message: fmt.Sprintf("get worktree: %v", err)}
	}
	status, err := wt.Status()
	if err != nil {
		return domain.ValidationResult{Message: fmt.Sprintf("git status: %v", err)}
	}

	var unstaged, untracked []string
	for path, s := range status {
		switch {
		case s.Staging == gogit.Untracked || s.Worktree == gogit.Untracked:
			untracked = append(untracked, path)
		case s.Staging == gogit.Unmodified && isWorktreeChange(s.Worktree):
			unstaged = append(unstaged, path)
		}
	}

	if len(untracked) > 0 {
		root := wt.Filesystem.Root()
		kept, err := filterGitIgnored(root, untracked)
		if err != nil {
			debug.Logf("git: %v", err)
		} else {
			untracked = kept
		}
	}

	if len(unstaged) == 0 && len(untracked) == 0 {
		return domain.ValidationResult{Message: MsgNoChanges}
	}

	sort.Strings(unstaged)
	sort.Strings(untracked)

	var details strings.Builder
	if len(unstaged) > 0 {
		fmt.Fprintf(&details, "\nUnstaged changes found in %d file(s):", len(unstaged))
		writeFileList(&details, unstaged)
	}
	if len(untracked) > 0 {
		if details.Len() > 0 {
			details.WriteString("\n")
		}
		fmt.Fprintf(&details, "\nUntracked files found (%d file(s)):", len(untracked))
		writeFileList(&details, untracked)
	}

	return domain.ValidationResult{Message: MsgNothingStaged, Details: details.String()}
}

func isWorktreeChange(code gogit.StatusCode) bool {
	return code == gogit.Modified || code == gogit.Deleted || code == gogit.Added
}

func writeFileList(b *strings.Builder, files []string) {
	for i, f := range files {
		if i == maxListedFiles {
			fmt.Fprintf(b, "\n  ... and %d more", len(files)-maxListedFiles)
			return
		}
		b.WriteString("\n  ")
		b.WriteString(f)
	}
}

// StagedFile is one entry of the index that differs from HEAD.
type StagedFile struct {
	Status string
	Path   string
}

// StagedFiles lists staged paths with a readable status word.
func (r *Repo) StagedFiles() ([]StagedFile, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	var files []StagedFile
	for path, s := range status {
		if s.Staging == gogit.Unmodified || s.Staging == gogit.Untracked {
			continue
		}
		files = append(files, StagedFile{Status: stagedStatus(s.Staging), Path: path})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func stagedStatus(code gogit.StatusCode) string {
	switch code {
	case gogit.Added:
		return "added"
	case gogit.Modified:
		return "modified"
	case gogit.Deleted:
		return "deleted"
	case gogit.Renamed:
		return "renamed"
	case gogit.Copied:
		return "copied"
	case gogit.UpdatedButUnmerged:
		return "unmerged"
	default:
		return "changed"
	}
}

// Commit records the staged changes with message. It shells out to git so
// that the user's hooks and signing configuration apply.
func (r *Repo) Commit(message string) error {
	root, err := r.Root()
	if err != nil {
		return err
	}

	if sig := r.commitSignature(); sig != nil {
		debug.Logf("git: committing in %s as %s <%s>", root, sig.Name, sig.Email)
	}

	cmd := exec.Command("git", "commit", "-F", "-")
	cmd.Dir = root
	cmd.Stdin = strings.NewReader(message)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cerr := &CommandError{Command: "git commit", Stderr: stderr.String(), Err: err}
		// git reports "nothing to commit" on stdout.
		if strings.TrimSpace(cerr.Stderr) == "" {
			cerr.Stderr = stdout.String()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return cerr
	}

	debug.Logf("git: %s", strings.TrimSpace(stdout.String()))
	return nil
}

// commitSignature reads the identity git will commit as, for the debug
// log. Returns nil if neither user.name nor user.email is set.
func (r *Repo) commitSignature() *object.Signature {
	repo, err := r.open()
	if err != nil {
		return nil
	}
	// ConfigScoped merges system + global + local config, unlike Config()
	// which only reads .git/config.
	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil || (cfg.User.Name == "" && cfg.User.Email == "") {
		return nil
	}
	return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email}
}

// headHash returns the current HEAD commit, or the zero hash when HEAD is
// unborn.
func (r *Repo) headHash() (plumbing.Hash, error) {
	repo, err := r.open()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, nil
		}
		return plumbing.ZeroHash, fmt.Errorf("get HEAD: %w", err)
	}
	return ref.Hash(), nil
}

// filterGitIgnored removes ignored files from the list by running
// `git check-ignore -z --stdin` in the repository root. go-git's status
// does not apply core.excludesFile, so the global ignore file is only
// honoured here.
func filterGitIgnored(repoRoot string, files []string) ([]string, error) {
	if len(files) == 0 {
		return files, nil
	}

	cmd := exec.Command("git", "check-ignore", "--stdin", "-z")
	cmd.Dir = repoRoot
	cmd.Stdin = strings.NewReader(strings.Join(files, "\x00") + "\x00")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Exit status 1 means nothing matched.
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return files, nil
		}
		return nil, fmt.Errorf("git check-ignore: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	ignored := make(map[string]struct{})
	for name := range strings.SplitSeq(stdout.String(), "\x00") {
		if name != "" {
			ignored[name] = struct{}{}
		}
	}

	kept := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := ignored[f]; !ok {
			kept = append(kept, f)
		}
	}
	return kept, nil
}
