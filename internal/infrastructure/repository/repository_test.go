package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docket-dev/docket/internal/domain/ticket"
	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&models.TicketModel{},
		&models.TicketSequenceModel{},
		&models.ActivityModel{},
		&models.AttachmentModel{},
	))
	return gdb
}

var nextNumber int64

func newTestTicket(t *testing.T, projectID, title string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(ticket.NewTicketParams{
		ProjectID:   projectID,
		Title:       title,
		Description: "Steps to reproduce: " + title,
		TicketType:  vo.TypeBug,
		Tags:        []string{"ui"},
		Reporter:    ticket.ReporterInfo{ID: "reporter-1", Name: "Ada"},
	})
	require.NoError(t, err)
	nextNumber++
	require.NoError(t, tk.SetTicketNumber(nextNumber))
	return tk
}
