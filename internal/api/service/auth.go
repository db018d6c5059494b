package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/security"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type RegisterClientInput struct {
	Name     string
	Phone    string
	Email    string
	Password string
}

type RegisterLabourInput struct {
	Name         string
	Phone        string
	Email        string
	Password     string
	Skills       []string
	StationRange *domain.StationRange
	ExpectedRate float64
}

type LoginInput struct {
	Phone    string
	Password string
}

// AuthResult is a signed-in user and their bearer token
type AuthResult struct {
	User  *domain.User
	Token string
}

func validateIdentity(name, phone string) (string, string, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return "", "", domain.Validationf("Missing fields")
	}
	if !phonePattern.MatchString(phone) {
		return "", "", domain.Validationf("Invalid phone number")
	}
	return name, phone, nil
}

func validatePassword(pw string) error {
	if len(pw) < security.MinPasswordLength {
		return domain.Validationf("Password must be at least %d characters", security.MinPasswordLength)
	}
	return nil
}

// normalizeSkills lower-cases, trims and de-duplicates skill tags
func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.ToLower(strings.TrimSpace(sk))
		if sk == "" || seen[sk] {
			continue
		}
		seen[sk] = true
		out = append(out, sk)
	}
	return out
}

func (s *Service) RegisterClient(ctx context.Context, in RegisterClientInput) (*AuthResult, error) {
	name, phone, err := validateIdentity(in.Name, in.Phone)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.Validationf("Missing fields")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:               s.newID(),
		Name:             name,
		Phone:            phone,
		Email:            email,
		PasswordHash:     hash,
		Role:             domain.RoleClient,
		ReliabilityScore: domain.DefaultReliabilityScore,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.createAndSignIn(ctx, user)
}

func (s *Service) RegisterLabour(ctx context.Context, in RegisterLabourInput) (*AuthResult, error) {
	name, phone, err := validateIdentity(in.Name, in.Phone)
	if err != nil {
		return nil, err
	}
	if in.ExpectedRate < 0 {
		return nil, domain.Validationf("Expected rate must not be negative")
	}

	var hash string
	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		if hash, err = security.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	var stations *domain.StationRange
	if in.StationRange != nil {
		r, err := s.stations.NormalizeRange(*in.StationRange)
		if err != nil {
			return nil, err
		}
		stations = &r
	}

	now := s.now()
	user := &domain.User{
		ID:               s.newID(),
		Name:             name,
		Phone:            phone,
		Email:            strings.TrimSpace(in.Email),
		PasswordHash:     hash,
		Role:             domain.RoleLaborer,
		ReliabilityScore: domain.DefaultReliabilityScore,
		StationRange:     stations,
		Skills:           normalizeSkills(in.Skills),
		ExpectedRate:     in.ExpectedRate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.createAndSignIn(ctx, user)
}

func (s *Service) createAndSignIn(ctx context.Context, user *domain.User) (*AuthResult, error) {
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return s.signIn(user)
}

func (s *Service) signIn(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the phone and password. Laborers registered without a
// password sign in by phone alone.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.store.GetUserByPhone(ctx, strings.TrimSpace(in.Phone))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	passwordless := user.Role == domain.RoleLaborer && user.PasswordHash == ""
	if !passwordless && !security.ComparePassword(user.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet
func (s *Service) EnsureAdmin(ctx context.Context, phone, password string) error {
	_, err := s.store.GetUserByPhone(ctx, phone)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.store.CreateUser(ctx, &domain.User{
		ID:               s.newID(),
		Name:             "admin",
		Phone:            phone,
		PasswordHash:     hash,
		Role:             domain.RoleAdmin,
		ReliabilityScore: domain.DefaultReliabilityScore,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}
