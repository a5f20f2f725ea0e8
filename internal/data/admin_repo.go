package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
	apperrors "github.com/espandar/bi-portal/internal/errors"
)

// adminFile is the on-disk shape of the admin allow-list.
type adminFile struct {
	Admins []string `json:"admins"`
}

// AdminRepo manages the file-backed admin allow-list. Usernames are stored
// in short account form ("j.smith", never "j.smith@example.com") so admin
// checks match whatever identifier form the token carries.
type AdminRepo struct {
	path string
	mu   sync.Mutex
}

// NewAdminRepo constructs an AdminRepo over the given JSON file.
func NewAdminRepo(path string) *AdminRepo {
	return &AdminRepo{path: path}
}

// List returns the admin usernames.
func (r *AdminRepo) List(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := r.read()
	if err != nil {
		return nil, err
	}
	return file.Admins, nil
}

// IsAdmin reports whether any of the given identifiers is on the list.
func (r *AdminRepo) IsAdmin(_ context.Context, identifiers []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := r.read()
	if err != nil {
		return false, err
	}

	members := make(map[string]struct{}, len(file.Admins))
	for _, admin := range file.Admins {
		members[admin] = struct{}{}
	}
	for _, id := range identifiers {
		if _, ok := members[id]; ok {
			return true, nil
		}
		if _, ok := members[domainauth.AccountName(id)]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Add appends a username to the list. Returns a conflict error when the
// user is already an admin.
func (r *AdminRepo) Add(_ context.Context, username string) error {
	name := domainauth.AccountName(username)
	if name == "" {
		return apperrors.Validation("username is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := r.read()
	if err != nil {
		return err
	}

	for _, admin := range file.Admins {
		if admin == name {
			return apperrors.Conflict("user is already an admin")
		}
	}

	file.Admins = append(file.Admins, name)
	return r.write(file)
}

// Remove deletes a username from the list. Returns a not-found error when
// the user is not an admin.
func (r *AdminRepo) Remove(_ context.Context, username string) error {
	name := domainauth.AccountName(username)

	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := r.read()
	if err != nil {
		return err
	}

	kept := file.Admins[:0]
	found := false
	for _, admin := range file.Admins {
		if admin == name {
			found = true
			continue
		}
		kept = append(kept, admin)
	}
	if !found {
		return apperrors.NotFound("admin not found")
	}

	file.Admins = kept
	return r.write(file)
}

func (r *AdminRepo) read() (adminFile, error) {
	var file adminFile
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return adminFile{Admins: []string{}}, nil
		}
		return file, fmt.Errorf("read admin list %s: %w", r.path, err)
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return file, fmt.Errorf("parse admin list %s: %w", r.path, err)
	}
	if file.Admins == nil {
		file.Admins = []string{}
	}
	return file, nil
}

// write replaces the list atomically so a crash mid-write never leaves a
// truncated file.
func (r *AdminRepo) write(file adminFile) error {
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode admin list: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".admins-*")
	if err != nil {
		return fmt.Errorf("stage admin list: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage admin list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage admin list: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace admin list %s: %w", r.path, err)
	}
	return nil
}
