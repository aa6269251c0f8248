package store

import (
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func cloneUser(u User) User {
	u.Permissions = slices.Clone(u.Permissions)
	return u
}

func validRole(r Role) bool {
	return r == RoleAdmin || r == RoleFactory || r == RoleItaguai
}

// AddUser creates an account. The plaintext password is hashed here
// and never stored.
func (s *Store) AddUser(actor string, u User, password string) (User, error) {
	u.Username = strings.TrimSpace(strings.ToLower(u.Username))
	if u.Username == "" {
		return User{}, shared.Invalid("username", "username required")
	}
	if strings.TrimSpace(u.Name) == "" {
		return User{}, shared.Invalid("name", "name required")
	}
	if len(password) < 6 {
		return User{}, shared.Invalid("password", "password must be at least 6 characters")
	}
	if !validRole(u.Role) {
		return User{}, shared.Invalid("role", "unknown role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.IndexFunc(s.st.Users, func(x User) bool { return x.Username == u.Username }) >= 0 {
		return User{}, shared.Invalid("username", "username already taken")
	}
	u.ID = s.newID()
	u.PasswordHash = string(hash)
	s.st.Users = append(s.st.Users, cloneUser(u))
	s.commitLocked(actor, AuditCreate, "user", u.ID, u.Username)
	u.PasswordHash = ""
	return u, nil
}

// UpdateUser changes account details. The password hash is kept;
// passwords change only through ChangePassword.
func (s *Store) UpdateUser(actor string, u User) error {
	u.Username = strings.TrimSpace(strings.ToLower(u.Username))
	if u.Username == "" {
		return shared.Invalid("username", "username required")
	}
	if !validRole(u.Role) {
		return shared.Invalid("role", "unknown role")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Users, func(x User) bool { return x.ID == u.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	taken := slices.IndexFunc(s.st.Users, func(x User) bool {
		return x.Username == u.Username && x.ID != u.ID
	})
	if taken >= 0 {
		return shared.Invalid("username", "username already taken")
	}
	u.PasswordHash = s.st.Users[idx].PasswordHash
	s.st.Users[idx] = cloneUser(u)
	s.commitLocked(actor, AuditUpdate, "user", u.ID, u.Username)
	return nil
}

// ChangePassword verifies the current password before setting a new
// one.
func (s *Store) ChangePassword(actor, userID, current, next string) error {
	if len(next) < 6 {
		return shared.Invalid("password", "password must be at least 6 characters")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Users, func(x User) bool { return x.ID == userID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(s.st.Users[idx].PasswordHash), []byte(current)) != nil {
		return shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.st.Users[idx].PasswordHash = string(hash)
	s.commitLocked(actor, AuditUpdate, "user", userID, "password changed")
	return nil
}

// RemoveUser deletes the account. The last admin cannot be removed.
func (s *Store) RemoveUser(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Users, func(x User) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	if s.st.Users[idx].Role == RoleAdmin {
		admins := 0
		for _, u := range s.st.Users {
			if u.Role == RoleAdmin {
				admins++
			}
		}
		if admins == 1 {
			return shared.Invalid("role", "cannot remove the last admin")
		}
	}
	username := s.st.Users[idx].Username
	s.st.Users = slices.Delete(s.st.Users, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "user", id, username)
	return nil
}

// Login validates credentials. The error never distinguishes an
// unknown username from a wrong password. Success records a login
// audit entry and returns the account with the hash blanked.
func (s *Store) Login(username, password string) (User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Users, func(x User) bool { return x.Username == username })
	if idx < 0 {
		return User{}, shared.ErrInvalidCredentials
	}
	u := s.st.Users[idx]
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	s.commitLocked(u.Name, AuditLogin, "session", u.ID, "signed in")
	u = cloneUser(u)
	u.PasswordHash = ""
	return u, nil
}

// Users returns a copy of the user collection with hashes blanked.
func (s *Store) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.st.Users))
	for _, u := range s.st.Users {
		u = cloneUser(u)
		u.PasswordHash = ""
		out = append(out, u)
	}
	return out
}

// User fetches one account by ID with the hash blanked.
func (s *Store) User(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Users, func(x User) bool { return x.ID == id })
	if idx < 0 {
		return User{}, shared.ErrNotFound
	}
	u := cloneUser(s.st.Users[idx])
	u.PasswordHash = ""
	return u, nil
}
