package gitutil

import (
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ProjectInfo names the repository and branch a directory belongs to.
type ProjectInfo struct {
	Path       string // the directory that was inspected
	Root       string // worktree root, empty outside a repository
	RepoName   string
	Branch     string // short branch name, or a short hash when detached
	IsWorktree bool   // a linked worktree rather than the main checkout
}

// DisplayName is the label shown for a location in task lists.
func (p ProjectInfo) DisplayName() string {
	switch {
	case p.RepoName != "" && p.Branch != "":
		return p.RepoName + " (" + p.Branch + ")"
	case p.RepoName != "":
		return p.RepoName
	}
	if base := filepath.Base(p.Path); base != "." && base != string(filepath.Separator) {
		return base
	}
	return p.Path
}

// GetProjectInfo inspects path with go-git. Paths outside a repository, or
// that no longer exist, still yield a usable ProjectInfo.
func GetProjectInfo(path string) ProjectInfo {
	info := ProjectInfo{Path: path}

	root, ok := FindGitRoot(path)
	if !ok {
		return info
	}
	info.Root = root

	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		info.RepoName = filepath.Base(root)
		return info
	}

	mainRoot, linked := mainCheckout(root)
	info.IsWorktree = linked
	info.RepoName = repoName(repo, mainRoot)
	info.Branch = currentBranch(repo)
	return info
}

// mainCheckout resolves a linked worktree to the checkout that owns it.
func mainCheckout(root string) (string, bool) {
	gitPath := filepath.Join(root, ".git")
	fi, err := os.Stat(gitPath)
	if err != nil || fi.IsDir() {
		return root, false
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return root, false
	}
	gitDir := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(content)), "gitdir:"))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}

	// <main>/.git/worktrees/<name>
	worktreesDir := filepath.Dir(gitDir)
	if filepath.Base(worktreesDir) != "worktrees" {
		return root, true
	}
	commonDir := filepath.Dir(worktreesDir)
	if filepath.Base(commonDir) == ".git" {
		return filepath.Dir(commonDir), true
	}
	// bare repository: name it after the repo directory, minus .git
	return strings.TrimSuffix(commonDir, ".git"), true
}

func repoName(repo *gogit.Repository, mainRoot string) string {
	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			if name := nameFromURL(urls[0]); name != "" {
				return name
			}
		}
	}
	return filepath.Base(strings.TrimRight(mainRoot, string(filepath.Separator)))
}

func nameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return url
}

func currentBranch(repo *gogit.Repository) string {
	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short()
		}
		hash := head.Hash().String()
		if len(hash) > 7 {
			hash = hash[:7]
		}
		return hash
	}

	// unborn branch: HEAD points at a ref that does not exist yet
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err == nil && ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short()
	}
	return ""
}
