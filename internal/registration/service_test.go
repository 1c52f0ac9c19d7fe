package registration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/internal/profiles"
	"github.com/osfornecedores/fornecedores-backend/pkg/auth"
	"github.com/osfornecedores/fornecedores-backend/pkg/config"
	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
	pkgerrors "github.com/osfornecedores/fornecedores-backend/pkg/errors"
	"github.com/osfornecedores/fornecedores-backend/pkg/security"
)

type stubProfileRepo struct {
	byEmail map[string]*models.UserProfile
	created []*models.UserProfile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byEmail: map[string]*models.UserProfile{}}
}

func (s *stubProfileRepo) WithTx(tx *gorm.DB) profiles.Repository { return s }
func (s *stubProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	s.created = append(s.created, profile)
	s.byEmail[profile.Email] = profile
	return nil
}
func (s *stubProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return nil, nil
}
func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return s.byEmail[email], nil
}
func (s *stubProfileRepo) ApplySubscriptionByEmail(ctx context.Context, email string, update profiles.SubscriptionUpdate) (int64, error) {
	return 0, nil
}
func (s *stubProfileRepo) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig, config.TrialConfig) {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fornecedores-test",
		ExpirationMinutes: 60,
	}
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	trialCfg := config.TrialConfig{Duration: 7 * 24 * time.Hour}
	return jwtCfg, pwCfg, trialCfg
}

func buildService(t *testing.T, repo *stubProfileRepo, now time.Time) *Service {
	t.Helper()
	jwtCfg, pwCfg, trialCfg := testConfigs()
	svc, err := NewService(ServiceParams{
		Profiles: repo,
		JWT:      jwtCfg,
		Password: pwCfg,
		Trial:    trialCfg,
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestRegisterStartsTrialImmediately(t *testing.T) {
	repo := newStubProfileRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := buildService(t, repo, now)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Maria@Example.com ",
		Password: "correct-horse-battery",
		FullName: "Maria Silva",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
	if result.Profile.PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one profile, got %d", len(repo.created))
	}
	created := repo.created[0]
	if created.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.TrialStatus != enums.TrialStatusActive {
		t.Fatalf("expected active trial, got %s", created.TrialStatus)
	}
	if created.TrialStartDate == nil || !created.TrialStartDate.Equal(now) {
		t.Fatalf("expected trial start %s, got %v", now, created.TrialStartDate)
	}
	wantEnd := now.Add(7 * 24 * time.Hour)
	if created.TrialEndDate == nil || !created.TrialEndDate.Equal(wantEnd) {
		t.Fatalf("expected trial end %s, got %v", wantEnd, created.TrialEndDate)
	}
	if created.SubscriptionStatus != enums.SubscriptionStatusInactive {
		t.Fatalf("new accounts are not subscribed, got %s", created.SubscriptionStatus)
	}

	// Stored hash must verify against the original password.
	ok, err := security.VerifyPassword("correct-horse-battery", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newStubProfileRepo()
	now := time.Now().UTC()
	svc := buildService(t, repo, now)

	input := RegisterInput{Email: "maria@example.com", Password: "password123", FullName: "Maria"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if err == nil {
		t.Fatal("expected conflict")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newStubProfileRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := buildService(t, repo, now)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "joao@example.com",
		Password: "password123",
		FullName: "João",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "JOAO@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	jwtCfg, _, _ := testConfigs()
	claims, err := auth.ParseAccessToken(jwtCfg, result.Token)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.Email != "joao@example.com" {
		t.Fatalf("unexpected claims email %q", claims.Email)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	repo := newStubProfileRepo()
	svc := buildService(t, repo, time.Now().UTC())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "joao@example.com",
		Password: "password123",
		FullName: "João",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "joao@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected unauthorized")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	svc := buildService(t, newStubProfileRepo(), time.Now().UTC())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if err == nil {
		t.Fatal("expected unauthorized")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
