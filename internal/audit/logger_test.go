package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"clinic-access-core/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(ctx context.Context) string { return "192.168.1.1" }, zerolog.Nop())

	logger.LogEvent(context.Background(), "org-1", "user-1", "deny:update", "Patient", "rule denied")

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.OrgID != "org-1" || e.UserID != "user-1" || e.Action != "deny:update" || e.Resource != "Patient" {
		t.Errorf("entry = %+v", e)
	}
	if e.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want extractor value", e.IP)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Error("entry missing id or timestamp")
	}
}

func TestLogger_LogEvent_SentinelOrg(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil, zerolog.Nop())

	logger.LogEvent(context.Background(), "", "user-1", "deny:read", "Patient", "")

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	if repo.entries[0].OrgID != SentinelOrgID {
		t.Errorf("org_id = %q, want sentinel", repo.entries[0].OrgID)
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown with nil extractor", repo.entries[0].IP)
	}
}

func TestLogger_LogEvent_BestEffort(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	logger := NewLogger(repo, nil, zerolog.Nop())

	// Must not panic or propagate the repo failure.
	logger.LogEvent(context.Background(), "org-1", "user-1", "deny:read", "Patient", "")
}

func TestLogger_NilRepo_NoOp(t *testing.T) {
	logger := NewLogger(nil, nil, zerolog.Nop())
	logger.LogEvent(context.Background(), "org-1", "user-1", "deny:read", "Patient", "")
}
