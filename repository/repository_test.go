package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/repository"
	testingutil "github.com/amirphl/meal-campaign-stats/testing"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutDB(t *testing.T) {
	t.Helper()
	if !testingutil.TestDBAvailable() {
		t.Skip("TEST_DB_HOST not set; skipping PostgreSQL integration test")
	}
}

func TestCampaignRepository(t *testing.T) {
	skipWithoutDB(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCampaignRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		now := utils.UTCNow().Truncate(time.Second)
		older := testingutil.NewCampaign("Older", now.AddDate(0, 0, -10), testingutil.WithUnitCost(models.MealTypeChicken, "4.50"))
		newer := testingutil.NewCampaign("Newer", now.AddDate(0, 0, -2))
		require.NoError(t, fixtures.Insert(newer, older))

		t.Run("ByIDs", func(t *testing.T) {
			campaigns, err := repo.ByIDs(ctx, []uuid.UUID{newer.ID, older.ID, uuid.New()})
			require.NoError(t, err)
			require.Len(t, campaigns, 2)
			assert.Equal(t, older.ID, campaigns[0].ID)
			assert.Equal(t, newer.ID, campaigns[1].ID)
			assert.Equal(t, "4.50", campaigns[0].ChickenCost.Decimal.StringFixed(2))
			assert.False(t, campaigns[0].FishCost.Valid)
		})

		t.Run("ByIDsEmpty", func(t *testing.T) {
			campaigns, err := repo.ByIDs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, campaigns)
		})

		t.Run("ByID", func(t *testing.T) {
			campaign, err := repo.ByID(ctx, older.ID)
			require.NoError(t, err)
			require.NotNil(t, campaign)
			assert.Equal(t, "Older", campaign.Name)
			assert.Equal(t, models.CampaignStateStarted, campaign.State)

			missing, err := repo.ByID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ByFilterStartedAfter", func(t *testing.T) {
			after := now.AddDate(0, 0, -5)
			campaigns, err := repo.ByFilter(ctx, models.CampaignFilter{StartedAfter: &after}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, campaigns, 1)
			assert.Equal(t, newer.ID, campaigns[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestOrderRepository(t *testing.T) {
	skipWithoutDB(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewOrderRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		now := utils.UTCNow().Truncate(time.Second)
		campaign := testingutil.NewCampaign("Launch Week", now.AddDate(0, 0, -3))
		other := testingutil.NewCampaign("Other", now.AddDate(0, 0, -3))
		alice := testingutil.NewCustomer("Alice", "Nguyen", utils.ToPtr("3 George St"))
		bob := testingutil.NewCustomer("Bob", "Smith", nil)
		hall := testingutil.NewPickupLocation("Town Hall", "Northside Pantry")

		first := testingutil.NewOrder(campaign, alice, hall, models.MealQuantities{Chicken: 2}, now.Add(-2*time.Hour))
		second := testingutil.NewOrder(campaign, bob, nil, models.MealQuantities{Fish: 1}, now.Add(-time.Hour))
		deleted := testingutil.NewOrder(other, alice, nil, models.MealQuantities{Veg: 1}, now.Add(-time.Hour))
		deleted.DeletedAt = &now
		require.NoError(t, fixtures.Insert(campaign, other, alice, bob, hall, first, second, deleted))

		t.Run("ByCampaignIDsLoadsRelations", func(t *testing.T) {
			orders, err := repo.ByCampaignIDs(ctx, []uuid.UUID{campaign.ID})
			require.NoError(t, err)
			require.Len(t, orders, 2)

			assert.Equal(t, first.ID, orders[0].ID)
			require.NotNil(t, orders[0].Customer)
			assert.Equal(t, "Alice", orders[0].Customer.FirstName)
			require.NotNil(t, orders[0].PickupLocation)
			assert.Equal(t, "Town Hall", orders[0].PickupLocation.Name)

			assert.Equal(t, second.ID, orders[1].ID)
			assert.Nil(t, orders[1].PickupLocation)
			assert.False(t, orders[1].Customer.HasAddress())
		})

		t.Run("ByCampaignIDsExcludesDeleted", func(t *testing.T) {
			orders, err := repo.ByCampaignIDs(ctx, []uuid.UUID{other.ID})
			require.NoError(t, err)
			assert.Empty(t, orders)

			all, err := repo.ByFilter(ctx, models.OrderFilter{CampaignIDs: []uuid.UUID{other.ID}}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.True(t, all[0].IsDeleted())
		})

		t.Run("ByFilterCustomer", func(t *testing.T) {
			orders, err := repo.ByFilter(ctx, models.OrderFilter{CustomerID: &alice.ID, ExcludeDeleted: true}, "created_at ASC", 0, 0)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, 2, orders[0].TotalMeals())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSMSMessageRepository(t *testing.T) {
	skipWithoutDB(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewSMSMessageRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		now := utils.UTCNow()
		campaign := testingutil.NewCampaign("SMS Week", now.AddDate(0, 0, -1))
		delivered := testingutil.NewSMS(campaign, models.SMSStatusDelivered, "Your OTP is 123456", nil, now.Add(-time.Hour))
		failed := testingutil.NewSMS(campaign, models.SMSStatusFailed, "Pickup reminder", utils.ToPtr("Invalid number"), now)
		unrelated := &models.SMSMessage{ID: uuid.New(), Status: models.SMSStatusSent, Body: "hello", CreatedAt: now}
		require.NoError(t, fixtures.Insert(campaign, delivered, failed, unrelated))

		messages, err := repo.ByCampaignIDs(ctx, []uuid.UUID{campaign.ID})
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, delivered.ID, messages[0].ID)
		assert.Equal(t, "Invalid number", messages[1].FailureReason())

		status := models.SMSStatusFailed
		onlyFailed, err := repo.ByFilter(ctx, models.SMSMessageFilter{CampaignIDs: []uuid.UUID{campaign.ID}, Status: &status}, "", 0, 0)
		require.NoError(t, err)
		assert.Len(t, onlyFailed, 1)

		return nil
	})
	require.NoError(t, err)
}

func TestAdminRepository(t *testing.T) {
	skipWithoutDB(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAdminRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		admin, err := fixtures.CreateTestAdmin(models.AdminRoleViewer)
		require.NoError(t, err)

		found, err := repo.ByID(ctx, admin.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, models.AdminRoleViewer, found.Role)
		assert.True(t, utils.IsTrue(found.IsActive))

		missing, err := repo.ByID(ctx, admin.ID+1000)
		assert.NoError(t, err)
		assert.Nil(t, missing)

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollsBack(t *testing.T) {
	skipWithoutDB(t)

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCampaignRepository(testDB.DB)
		ctx := context.Background()
		campaign := testingutil.NewCampaign("Rolled back", utils.UTCNow())

		txErr := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
			require.NoError(t, repo.Save(txCtx, campaign))
			return assert.AnError
		})
		assert.ErrorIs(t, txErr, assert.AnError)

		found, err := repo.ByID(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
		return nil
	})
	require.NoError(t, err)
}
