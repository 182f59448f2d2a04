package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Repo implements domain.GitInfo using go-git. The repository is found by
// walking up from the given path, so a code root below the repository
// root resolves to the enclosing repository.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

func (g *Repo) IsGitRepo(path string) bool {
	_, err := open(path)
	return err == nil
}

// CommitHash returns the full SHA-1 of HEAD.
func (g *Repo) CommitHash(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
