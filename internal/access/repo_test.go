package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/osfornecedores/fornecedores-backend/pkg/db/models"
	"github.com/osfornecedores/fornecedores-backend/pkg/enums"
)

func setupRulesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS feature_access_rules (
  id TEXT PRIMARY KEY,
  feature_key TEXT NOT NULL UNIQUE,
  trial_access_level TEXT NOT NULL DEFAULT 'none',
  trial_limit_value INTEGER NOT NULL DEFAULT 0,
  trial_message_locked TEXT NOT NULL DEFAULT '',
  non_subscriber_access_level TEXT NOT NULL DEFAULT 'none',
  non_subscriber_message_locked TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryRuleLifecycle(t *testing.T) {
	db := setupRulesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rule := &models.FeatureAccessRule{
		ID:                         uuid.New(),
		FeatureKey:                 "supplier_directory",
		TrialAccessLevel:           enums.AccessLevelLimitedCount,
		TrialLimitValue:            5,
		TrialMessageLocked:         "Assine para ver todos.",
		NonSubscriberAccessLevel:   enums.AccessLevelNone,
		NonSubscriberMessageLocked: "Apenas assinantes.",
	}
	require.NoError(t, repo.Create(ctx, rule))

	found, err := repo.FindByKey(ctx, "supplier_directory")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rule.ID, found.ID)
	assert.Equal(t, enums.AccessLevelLimitedCount, found.TrialAccessLevel)
	assert.Equal(t, 5, found.TrialLimitValue)

	missing, err := repo.FindByKey(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	found.TrialLimitValue = 10
	require.NoError(t, repo.Update(ctx, found))

	byID, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, 10, byID.TrialLimitValue)

	second := &models.FeatureAccessRule{
		ID:                       uuid.New(),
		FeatureKey:               "contact_details",
		TrialAccessLevel:         enums.AccessLevelFull,
		NonSubscriberAccessLevel: enums.AccessLevelNone,
	}
	require.NoError(t, repo.Create(ctx, second))

	rules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "contact_details", rules[0].FeatureKey)
	assert.Equal(t, "supplier_directory", rules[1].FeatureKey)

	require.NoError(t, repo.Delete(ctx, rule.ID))
	gone, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
