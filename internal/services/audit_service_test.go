package services

import (
	"context"
	"strings"
	"testing"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/testutil"
)

func TestAuditService_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	svc := NewAuditService(db)

	t.Run("records user change with serialised changes", func(t *testing.T) {
		svc.Log(context.Background(), user.ID, "CREATE_BUDGET", "budget", user.ID, "127.0.0.1",
			map[string]interface{}{"amount": "500"})

		var entry models.AuditLog
		if err := db.Where("action = ?", "CREATE_BUDGET").First(&entry).Error; err != nil {
			t.Fatalf("expected audit entry: %v", err)
		}
		if entry.UserID == nil || *entry.UserID != user.ID {
			t.Errorf("expected user %s, got %v", user.ID, entry.UserID)
		}
		if !strings.Contains(entry.Changes, `"amount":"500"`) {
			t.Errorf("unexpected changes %q", entry.Changes)
		}
	})

	t.Run("feed change has no user", func(t *testing.T) {
		svc.Log(context.Background(), "", "DEACTIVATE_EXCHANGE_RATE", "exchange_rate", user.ID, "10.0.0.1", nil)

		var entry models.AuditLog
		if err := db.Where("action = ?", "DEACTIVATE_EXCHANGE_RATE").First(&entry).Error; err != nil {
			t.Fatalf("expected audit entry: %v", err)
		}
		if entry.UserID != nil {
			t.Errorf("expected nil user, got %s", *entry.UserID)
		}
		if entry.Changes != "" {
			t.Errorf("expected empty changes, got %q", entry.Changes)
		}
	})

	t.Run("cancelled request still records", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc.Log(ctx, user.ID, "DELETE_BUDGET", "budget", user.ID, "", nil)

		var count int64
		db.Model(&models.AuditLog{}).Where("action = ?", "DELETE_BUDGET").Count(&count)
		if count != 1 {
			t.Errorf("expected 1 entry, got %d", count)
		}
	})
}
