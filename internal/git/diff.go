package git

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
)

// entry is a path's blob and mode on one side of the diff.
type entry struct {
	hash plumbing.Hash
	mode filemode.FileMode
}

// StagedDiff renders the difference between HEAD and the index as a
// unified diff, equivalent in content to `git diff --cached`. It returns
// an empty string when nothing is staged.
func (r *Repo) StagedDiff() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	head, err := r.headEntries(repo)
	if err != nil {
		return "", err
	}
	staged, unmerged, err := indexEntries(repo)
	if err != nil {
		return "", err
	}
	for _, p := range unmerged {
		delete(head, p)
	}

	paths := make([]string, 0, len(head)+len(staged))
	for p := range head {
		paths = append(paths, p)
	}
	for p := range staged {
		if _, ok := head[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		from, inHead := head[p]
		to, inIndex := staged[p]
		if inHead && inIndex && from == to {
			continue
		}
		var fromPtr, toPtr *entry
		if inHead {
			fromPtr = &from
		}
		if inIndex {
			toPtr = &to
		}
		if err := writeFileDiff(&b, repo, p, fromPtr, toPtr); err != nil {
			return "", fmt.Errorf("diff %s: %w", p, err)
		}
	}
	return b.String(), nil
}

func (r *Repo) headEntries(repo *gogit.Repository) (map[string]entry, error) {
	entries := make(map[string]entry)

	hash, err := r.headHash()
	if err != nil {
		return nil, err
	}
	if hash.IsZero() {
		return entries, nil
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get HEAD tree: %w", err)
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		entries[f.Name] = entry{hash: f.Hash, mode: f.Mode}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD tree: %w", err)
	}
	return entries, nil
}

// indexEntries returns the resolved stage-0 entries of the index and the
// sorted paths that only have conflict stages. Intent-to-add entries are
// not staged content and are left out.
func indexEntries(repo *gogit.Repository) (map[string]entry, []string, error) {
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, nil, fmt.Errorf("read index: %w", err)
	}
	entries := make(map[string]entry, len(idx.Entries))
	conflicted := make(map[string]struct{})
	for _, e := range idx.Entries {
		if e.Stage != 0 {
			conflicted[e.Name] = struct{}{}
			continue
		}
		if e.IntentToAdd || e.Mode == filemode.Submodule {
			continue
		}
		entries[e.Name] = entry{hash: e.Hash, mode: e.Mode}
	}

	unmerged := make([]string, 0, len(conflicted))
	for p := range conflicted {
		delete(entries, p)
		unmerged = append(unmerged, p)
	}
	sort.Strings(unmerged)
	return entries, unmerged, nil
}

func writeFileDiff(b *strings.Builder, repo *gogit.Repository, path string, from, to *entry) error {
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", path, path)

	oldLabel, newLabel := "a/"+path, "b/"+path
	oldHash, newHash := plumbing.ZeroHash, plumbing.ZeroHash
	switch {
	case from == nil:
		fmt.Fprintf(b, "new file mode %s\n", modeString(to.mode))
		oldLabel = "/dev/null"
		newHash = to.hash
	case to == nil:
		fmt.Fprintf(b, "deleted file mode %s\n", modeString(from.mode))
		newLabel = "/dev/null"
		oldHash = from.hash
	default:
		if from.mode != to.mode {
			fmt.Fprintf(b, "old mode %s\nnew mode %s\n", modeString(from.mode), modeString(to.mode))
		}
		oldHash, newHash = from.hash, to.hash
	}

	if oldHash == newHash {
		return nil
	}
	if from != nil && to != nil && from.mode == to.mode {
		fmt.Fprintf(b, "index %s..%s %s\n", shortHash(oldHash), shortHash(newHash), modeString(to.mode))
	} else {
		fmt.Fprintf(b, "index %s..%s\n", shortHash(oldHash), shortHash(newHash))
	}

	oldData, err := readBlob(repo, oldHash)
	if err != nil {
		return err
	}
	newData, err := readBlob(repo, newHash)
	if err != nil {
		return err
	}

	if isBinary(oldData) || isBinary(newData) {
		fmt.Fprintf(b, "Binary files %s and %s differ\n", oldLabel, newLabel)
		return nil
	}

	b.WriteString(udiff.Unified(oldLabel, newLabel, string(oldData), string(newData)))
	return nil
}

func readBlob(repo *gogit.Repository, hash plumbing.Hash) ([]byte, error) {
	if hash.IsZero() {
		return nil, nil
	}
	blob, err := repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", hash, err)
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", hash, err)
	}
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", hash, err)
	}
	return data, nil
}

func isBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	ok, err := binary.IsBinary(bytes.NewReader(data))
	return err == nil && ok
}

func modeString(m filemode.FileMode) string {
	return strconv.FormatUint(uint64(m), 8)
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
