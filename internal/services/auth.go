package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"casino-minigames/internal/models"
)

// Demo accounts available out of the box.
const (
	DemoAdminEmail    = "admin@animecasino.com"
	DemoAdminPassword = "admin"
	DemoUserEmail     = "user@animecasino.com"
	DemoUserPassword  = "user"
)

var (
	adminStartingBalance      = decimal.NewFromInt(10000)
	userStartingBalance       = decimal.NewFromInt(1000)
	registeredAdminBalance    = decimal.NewFromInt(5000)
	registeredStandardBalance = decimal.NewFromInt(1000)
)

type account struct {
	user *models.User
	hash []byte
}

// AuthService is an in-memory account book standing in for a real identity
// provider. Registration always succeeds.
type AuthService struct {
	mu      sync.RWMutex
	cost    int
	byEmail map[string]*account
	byID    map[string]*account
}

// NewAuthService seeds the demo accounts, hashing passwords with the given
// bcrypt cost.
func NewAuthService(cost int) (*AuthService, error) {
	s := &AuthService{
		cost:    cost,
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
	}

	seed := []struct {
		user     *models.User
		password string
	}{
		{&models.User{ID: "1", Username: "Admin", Email: DemoAdminEmail, Role: models.RoleAdmin, IsPremium: true, Balance: adminStartingBalance}, DemoAdminPassword},
		{&models.User{ID: "2", Username: "Jugador", Email: DemoUserEmail, Role: models.RoleUser, Balance: userStartingBalance}, DemoUserPassword},
	}
	for _, a := range seed {
		a.user.CreatedAt = time.Now()
		if err := s.put(a.user, a.password); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *AuthService) put(user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	acc := &account{user: user, hash: hash}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byEmail[normalizeEmail(user.Email)]; ok {
		delete(s.byID, old.user.ID)
	}
	s.byEmail[normalizeEmail(user.Email)] = acc
	s.byID[user.ID] = acc
	return nil
}

// Login checks the credentials. The returned user is a copy.
func (s *AuthService) Login(email, password string) (*models.User, bool) {
	s.mu.RLock()
	acc, ok := s.byEmail[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, false
	}
	return s.copyOf(acc), true
}

// Register creates a new account and always succeeds, replacing any account
// already using the email. Admins start premium with 5000, users with 1000.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, bool) {
	role := req.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	balance := registeredStandardBalance
	if role == models.RoleAdmin {
		balance = registeredAdminBalance
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Role:      role,
		IsPremium: role == models.RoleAdmin,
		Balance:   balance,
		CreatedAt: time.Now(),
	}
	if err := s.put(user, req.Password); err != nil {
		return nil, false
	}

	out := *user
	return &out, true
}

func (s *AuthService) GetUser(userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *acc.user
	return &out, nil
}

// UpgradeToPremium makes the user a premium admin.
func (s *AuthService) UpgradeToPremium(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	acc.user.IsPremium = true
	acc.user.Role = models.RoleAdmin
	out := *acc.user
	return &out, nil
}

// SetBalance stores the balance a closed session ended with, so the next
// session starts from it.
func (s *AuthService) SetBalance(userID string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	acc.user.Balance = balance
	return nil
}

func (s *AuthService) copyOf(acc *account) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := *acc.user
	return &out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
