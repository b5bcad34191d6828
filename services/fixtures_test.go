package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/models"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema. The
// shared-cache DSN keeps every pooled connection on the same database.
func newTestDB(t *testing.T) database.Database {
	db, _ := newTestDBWithConn(t)
	return db
}

// newTestDBWithConn also hands back the raw gorm handle for tests that need
// to sabotage the schema mid-test.
func newTestDBWithConn(t *testing.T) (database.Database, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return database.New(db), db
}

func newTestLifecycle(t *testing.T, db database.Database) *Lifecycle {
	t.Helper()
	return NewLifecycle(db, nil, LifecycleConfig{})
}

func seedClient(t *testing.T, db database.Database) *models.Client {
	t.Helper()
	client := &models.Client{
		Name:         "Acme Corp",
		Email:        fmt.Sprintf("client-%s@example.com", uuid.NewString()),
		PasswordHash: "x",
	}
	require.NoError(t, db.ClientRepo().Add(client))
	return client
}

func seedFreelancer(t *testing.T, db database.Database) *models.Freelancer {
	t.Helper()
	freelancer := &models.Freelancer{
		Name:         "Jordan Dev",
		Email:        fmt.Sprintf("freelancer-%s@example.com", uuid.NewString()),
		PasswordHash: "x",
	}
	require.NoError(t, db.FreelancerRepo().Add(freelancer))
	return freelancer
}

func seedTask(t *testing.T, db database.Database, clientID uuid.UUID) *models.Task {
	t.Helper()
	task := &models.Task{
		ClientID:    clientID,
		Title:       "Build landing page",
		Description: "Responsive marketing site",
		BudgetMin:   300,
		BudgetMax:   800,
	}
	require.NoError(t, db.TaskRepo().Add(task))
	return task
}

func asClient(c *models.Client) Caller {
	return Caller{ID: c.ID, Role: models.RoleClient}
}

func asFreelancer(f *models.Freelancer) Caller {
	return Caller{ID: f.ID, Role: models.RoleFreelancer}
}

func asAdmin() Caller {
	return Caller{ID: uuid.New(), Role: models.RoleAdmin}
}

// awardedContract wires the standard scenario: an open task, a pending bid of
// 500, and the client awarding it.
func awardedContract(t *testing.T, db database.Database, lc *Lifecycle) (*models.Client, *models.Freelancer, *models.Task, *models.Application, *models.Contract) {
	t.Helper()

	client := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	application, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{
		TaskID:        task.ID,
		BidAmount:     500,
		EstimatedDays: 14,
	})
	require.NoError(t, err)

	contract, err := lc.AwardContract(asClient(client), application.ID)
	require.NoError(t, err)

	return client, freelancer, task, application, contract
}
