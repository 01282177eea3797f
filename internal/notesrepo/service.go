// Package notesrepo keeps a git-backed revision history of every person's
// meeting notes. Each person gets one repository under the base directory
// with a single notes.json file on main; every edit is a commit, so the full
// audit trail survives note rewrites.
package notesrepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"groundwork/api/internal/store"
)

// Notes is the committed payload: meeting id to labeled note fields.
type Notes map[string]map[string]string

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsurePersonRepo initializes the repository for a person if it does not
// exist yet, committing an empty notes baseline.
func (s *Service) EnsurePersonRepo(personID, author string) error {
	lock := s.personLock(personID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(personID)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat repo path: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create repo dir: %w", err)
	}

	repo, err := git.PlainInit(path, false)
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := writeNotesFile(path, Notes{}); err != nil {
		return err
	}
	if _, err := worktree.Add("notes.json"); err != nil {
		return fmt.Errorf("git add initial notes: %w", err)
	}
	hash, err := worktree.Commit("Start notes history", &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return fmt.Errorf("commit initial notes: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)); err != nil {
		return fmt.Errorf("set main branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return fmt.Errorf("set HEAD to main: %w", err)
	}
	return nil
}

// CommitNotes writes the full note set and records a commit.
func (s *Service) CommitNotes(personID string, notes Notes, author, message string) (store.NoteRevision, error) {
	lock := s.personLock(personID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(personID)
	repo, err := git.PlainOpen(path)
	if err != nil {
		return store.NoteRevision{}, fmt.Errorf("open repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return store.NoteRevision{}, fmt.Errorf("open worktree: %w", err)
	}
	if err := writeNotesFile(path, notes); err != nil {
		return store.NoteRevision{}, err
	}
	if _, err := worktree.Add("notes.json"); err != nil {
		return store.NoteRevision{}, fmt.Errorf("git add notes: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return store.NoteRevision{}, fmt.Errorf("commit notes: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return store.NoteRevision{}, fmt.Errorf("read commit object: %w", err)
	}
	return toRevision(commitObj), nil
}

// GetNotesByHash returns the note set as of a given commit.
func (s *Service) GetNotesByHash(personID, hash string) (Notes, error) {
	lock := s.personLock(personID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(personID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	resolvedHash, err := resolveHash(repo, hash)
	if err != nil {
		return nil, err
	}
	commitObj, err := repo.CommitObject(resolvedHash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return readNotesFromCommit(commitObj)
}

// History lists commits newest first, up to limit (0 = all).
func (s *Service) History(personID string, limit int) ([]store.NoteRevision, error) {
	lock := s.personLock(personID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(personID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName("main"), true)
	if err != nil {
		return nil, fmt.Errorf("resolve main: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]store.NoteRevision, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toRevision(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func (s *Service) repoPath(personID string) string {
	return filepath.Join(s.baseDir, personID)
}

func (s *Service) personLock(personID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[personID]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[personID] = lock
	return lock
}

func writeNotesFile(repoRoot string, notes Notes) error {
	payload, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	if err := os.WriteFile(filepath.Join(repoRoot, "notes.json"), append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write notes.json: %w", err)
	}
	return nil
}

func readNotesFromCommit(commitObj *object.Commit) (Notes, error) {
	file, err := commitObj.File("notes.json")
	if err != nil {
		return nil, fmt.Errorf("read notes.json from commit: %w", err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read notes.json contents: %w", err)
	}
	var notes Notes
	if err := json.Unmarshal([]byte(contents), &notes); err != nil {
		return nil, fmt.Errorf("decode notes.json: %w", err)
	}
	return notes, nil
}

func resolveHash(repo *git.Repository, hash string) (plumbing.Hash, error) {
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve revision %s: %w", hash, err)
	}
	return *resolved, nil
}

func toRevision(commitObj *object.Commit) store.NoteRevision {
	return store.NoteRevision{
		Hash:      commitObj.Hash.String(),
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func signature(author string) *object.Signature {
	return &object.Signature{
		Name:  author,
		Email: fmt.Sprintf("%s@local.groundwork.dev", sanitizeEmail(author)),
		When:  time.Now(),
	}
}

func sanitizeEmail(author string) string {
	lower := strings.ToLower(strings.TrimSpace(author))
	if lower == "" {
		return "groundwork"
	}
	return strings.ReplaceAll(lower, " ", ".")
}
