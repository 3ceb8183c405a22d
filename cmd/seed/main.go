// seed inserts development sample data for local testing: one clinic
// org with an admin, a member, and a billing user, plus a few records.
// Idempotent: exits early if the dev admin (admin@clinic.dev) exists.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	appointmentdomain "clinic-access-core/internal/appointment/domain"
	appointmentrepo "clinic-access-core/internal/appointment/repository"
	"clinic-access-core/internal/config"
	"clinic-access-core/internal/db"
	membershipdomain "clinic-access-core/internal/membership/domain"
	membershiprepo "clinic-access-core/internal/membership/repository"
	orgdomain "clinic-access-core/internal/organization/domain"
	orgrepo "clinic-access-core/internal/organization/repository"
	patientdomain "clinic-access-core/internal/patient/domain"
	patientrepo "clinic-access-core/internal/patient/repository"
	professionaldomain "clinic-access-core/internal/professional/domain"
	professionalrepo "clinic-access-core/internal/professional/repository"
	projectdomain "clinic-access-core/internal/project/domain"
	projectrepo "clinic-access-core/internal/project/repository"
	"clinic-access-core/internal/security"
	userdomain "clinic-access-core/internal/user/domain"
	userrepo "clinic-access-core/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, "admin@clinic.dev")
	if err != nil {
		log.Fatalf("lookup dev admin: %v", err)
	}
	if existing != nil {
		fmt.Println("seed: dev data already present, nothing to do")
		return
	}

	now := time.Now().UTC()
	hasher := security.NewHasher(cfg.BcryptCost)

	admin := seedUser(ctx, users, hasher, "admin@clinic.dev", "Dev Admin", now)
	member := seedUser(ctx, users, hasher, "member@clinic.dev", "Dev Member", now)
	billing := seedUser(ctx, users, hasher, "billing@clinic.dev", "Dev Billing", now)

	org := &orgdomain.Org{
		ID:        uuid.New().String(),
		Name:      "Dev Clinic",
		Slug:      "dev-clinic",
		OwnerID:   admin.ID,
		Status:    orgdomain.OrgStatusActive,
		CreatedAt: now,
	}
	if err := orgrepo.NewPostgresRepository(conn).Create(ctx, org); err != nil {
		log.Fatalf("seed org: %v", err)
	}

	memberships := membershiprepo.NewPostgresRepository(conn)
	for _, m := range []struct {
		user *userdomain.User
		role membershipdomain.Role
	}{
		{admin, membershipdomain.RoleAdmin},
		{member, membershipdomain.RoleMember},
		{billing, membershipdomain.RoleBilling},
	} {
		err := memberships.CreateMembership(ctx, &membershipdomain.Membership{
			ID:        uuid.New().String(),
			UserID:    m.user.ID,
			OrgID:     org.ID,
			Role:      m.role,
			CreatedAt: now,
		})
		if err != nil {
			log.Fatalf("seed membership %s: %v", m.role, err)
		}
	}

	patient := &patientdomain.Patient{
		ID:        uuid.New().String(),
		OrgID:     org.ID,
		Name:      "Ana Silva",
		Email:     "ana@example.com",
		Phone:     "+55 11 99999-0001",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := patientrepo.NewPostgresRepository(conn).Create(ctx, patient); err != nil {
		log.Fatalf("seed patient: %v", err)
	}

	professional := &professionaldomain.Professional{
		ID:        uuid.New().String(),
		OrgID:     org.ID,
		Name:      "Dr. Bruno Costa",
		Email:     "bruno@clinic.dev",
		Specialty: "Cardiology",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := professionalrepo.NewPostgresRepository(conn).Create(ctx, professional); err != nil {
		log.Fatalf("seed professional: %v", err)
	}

	err = appointmentrepo.NewPostgresRepository(conn).Create(ctx, &appointmentdomain.Appointment{
		ID:             uuid.New().String(),
		OrgID:          org.ID,
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		StartsAt:       now.Add(48 * time.Hour),
		EndsAt:         now.Add(48*time.Hour + 30*time.Minute),
		Status:         appointmentdomain.StatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		log.Fatalf("seed appointment: %v", err)
	}

	err = projectrepo.NewPostgresRepository(conn).Create(ctx, &projectdomain.Project{
		ID:        uuid.New().String(),
		OrgID:     org.ID,
		OwnerID:   member.ID,
		Name:      "Intake checklist",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		log.Fatalf("seed project: %v", err)
	}

	fmt.Printf("seed: created org %s (%s) with 3 users (password %q)\n", org.Slug, org.ID, devPassword)
	printDevTokens(cfg, admin, member, billing)
}

// devPassword is the password every seeded dev user gets. Local use only.
const devPassword = "clinic-dev"

func seedUser(ctx context.Context, repo *userrepo.PostgresRepository, hasher *security.Hasher, email, name string, now time.Time) *userdomain.User {
	hash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password for %s: %v", email, err)
	}
	u := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// printDevTokens mints an access token per seeded user so local requests
// can be made immediately. Skipped when no signing key is configured.
func printDevTokens(cfg *config.Config, users ...*userdomain.User) {
	if cfg.JWTPrivateKey == "" || cfg.JWTPublicKey == "" {
		return
	}
	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("parse JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("parse JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	for _, u := range users {
		token, expiresAt, err := tokens.Issue(u.ID, u.Email, u.Name)
		if err != nil {
			log.Fatalf("issue token for %s: %v", u.Email, err)
		}
		fmt.Printf("seed: token for %s (expires %s):\n  %s\n", u.Email, expiresAt.Format(time.RFC3339), token)
	}
}
