package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guardline/internal/apperrors"
	"guardline/internal/db"
	"guardline/internal/models"
)

type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMailer) SendSOSAlert(senderName, senderEmail, contactName, contactEmail string, lat, lon float64) bool {
	if f.failFor[contactEmail] {
		return false
	}
	f.sent = append(f.sent, contactEmail)
	return true
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func newService(t *testing.T) (*Service, *fakeMailer, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	mail := &fakeMailer{failFor: map[string]bool{}}
	svc := NewService(conn, mail, nil, 0, zap.NewNop())
	return svc, mail, conn
}

func seedUser(t *testing.T, conn *gorm.DB, name, email, phone string) *models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "x", Verified: true}
	if phone != "" {
		user.Phone = &phone
	}
	require.NoError(t, conn.Create(&user).Error)
	return &user
}

var here = Location{Latitude: 51.5, Longitude: -0.12}

func TestTriggerUnknownUser(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.TriggerAlert(context.Background(), 999, here, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTriggerWithoutContactsSynthesizesSelf(t *testing.T) {
	svc, mail, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "+15550001")

	res, err := svc.TriggerAlert(context.Background(), user.ID, here, "", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.AlertsSent)
	assert.Equal(t, 1, res.EmailsSent)
	assert.Equal(t, []string{"alice@example.com"}, mail.sent)

	var alerts []models.SosAlert
	require.NoError(t, conn.Where("sos_id = ?", res.SosID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Alice", alerts[0].ContactName)
	assert.Equal(t, "+15550001", alerts[0].ContactPhone)
}

func TestTriggerWithStoredContacts(t *testing.T) {
	svc, mail, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "+15550001")
	require.NoError(t, conn.Create(&models.EmergencyContact{
		UserID: user.ID, Name: "Bob", Phone: "+15550002", Email: "bob@example.com",
	}).Error)
	require.NoError(t, conn.Create(&models.EmergencyContact{
		UserID: user.ID, Name: "Carol", Phone: "+15550003", Email: "carol@example.com",
	}).Error)
	mail.failFor["carol@example.com"] = true

	res, err := svc.TriggerAlert(context.Background(), user.ID, here, models.AlertTypeAutomatic, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.AlertsSent)
	assert.Equal(t, 1, res.EmailsSent, "delivered count must not include failures")

	require.Len(t, res.Deliveries, 2)
	byEmail := map[string]bool{}
	for _, d := range res.Deliveries {
		byEmail[d.Email] = d.Delivered
	}
	assert.True(t, byEmail["bob@example.com"])
	assert.False(t, byEmail["carol@example.com"])

	var events []models.SosEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.AlertTypeAutomatic, events[0].AlertType)
	assert.Equal(t, here.Latitude, events[0].Latitude)

	var alerts []models.SosAlert
	require.NoError(t, conn.Where("sos_id = ?", events[0].ID).Find(&alerts).Error)
	assert.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.False(t, a.Resolved)
	}
}

func TestTriggerWithSuppliedContactsUsedVerbatim(t *testing.T) {
	svc, mail, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "")
	// stored contact that must be ignored when the caller supplies one
	require.NoError(t, conn.Create(&models.EmergencyContact{
		UserID: user.ID, Name: "Bob", Phone: "+15550002", Email: "bob@example.com",
	}).Error)

	supplied := []Contact{{Name: "Dave", Phone: "+15550004", Email: "dave@example.com"}}
	res, err := svc.TriggerAlert(context.Background(), user.ID, here, "", supplied)
	require.NoError(t, err)

	assert.Equal(t, 1, res.AlertsSent)
	assert.Equal(t, []string{"dave@example.com"}, mail.sent)

	var alert models.SosAlert
	require.NoError(t, conn.Where("sos_id = ?", res.SosID).First(&alert).Error)
	assert.Equal(t, "Dave", alert.ContactName)
}

func TestTriggerContactWithoutEmailSkipsSend(t *testing.T) {
	svc, mail, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "")

	supplied := []Contact{{Name: "Dave", Phone: "+15550004"}}
	res, err := svc.TriggerAlert(context.Background(), user.ID, here, "", supplied)
	require.NoError(t, err)

	assert.Equal(t, 1, res.AlertsSent, "alert row persists even with no address")
	assert.Equal(t, 0, res.EmailsSent)
	assert.Empty(t, mail.sent)
}

func TestTriggerDefaultsAlertType(t *testing.T) {
	svc, _, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "")

	res, err := svc.TriggerAlert(context.Background(), user.ID, here, "", nil)
	require.NoError(t, err)

	var event models.SosEvent
	require.NoError(t, conn.First(&event, res.SosID).Error)
	assert.Equal(t, models.AlertTypeManual, event.AlertType)
}

func TestResolveAlert(t *testing.T) {
	svc, _, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "")

	res, err := svc.TriggerAlert(context.Background(), user.ID, here, "", nil)
	require.NoError(t, err)

	var alert models.SosAlert
	require.NoError(t, conn.Where("sos_id = ?", res.SosID).First(&alert).Error)

	require.NoError(t, svc.ResolveAlert(context.Background(), alert.ID))

	require.NoError(t, conn.First(&alert, alert.ID).Error)
	assert.True(t, alert.Resolved)

	// resolving again is a no-op, not an error
	require.NoError(t, svc.ResolveAlert(context.Background(), alert.ID))
	require.NoError(t, conn.First(&alert, alert.ID).Error)
	assert.True(t, alert.Resolved)
}

func TestResolveUnknownAlert(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.ResolveAlert(context.Background(), 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAlertHistory(t *testing.T) {
	svc, _, conn := newService(t)
	sender := seedUser(t, conn, "Alice", "alice@example.com", "+15550001")
	receiver := seedUser(t, conn, "Bob", "bob@example.com", "+15550002")

	event := models.SosEvent{UserID: sender.ID, Latitude: 51.5, Longitude: -0.12, AlertType: "manual"}
	require.NoError(t, conn.Create(&event).Error)

	older := models.SosAlert{
		SosID: event.ID, ContactName: "Bob", ContactPhone: "+15550002",
		Resolved: true, CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := models.SosAlert{
		SosID: event.ID, ContactName: "Bob", ContactPhone: "+15550002",
		CreatedAt: time.Now(),
	}
	unrelated := models.SosAlert{
		SosID: event.ID, ContactName: "Someone", ContactPhone: "+15559999",
	}
	require.NoError(t, conn.Create(&older).Error)
	require.NoError(t, conn.Create(&newer).Error)
	require.NoError(t, conn.Create(&unrelated).Error)

	entries, err := svc.AlertHistory(context.Background(), receiver.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only alerts addressed to the user's phone")

	assert.Equal(t, newer.ID, entries[0].ID, "newest first")
	assert.Equal(t, "active", entries[0].Status)
	assert.Equal(t, older.ID, entries[1].ID)
	assert.Equal(t, "resolved", entries[1].Status)

	assert.Equal(t, "Alice", entries[0].SenderName)
	assert.Equal(t, event.ID, entries[0].SosID)
	assert.Equal(t, "manual", entries[0].Type)
	assert.Equal(t, 51.5, entries[0].Latitude)
}

func TestAlertHistoryEmptyForUserWithoutPhone(t *testing.T) {
	svc, _, conn := newService(t)
	user := seedUser(t, conn, "Alice", "alice@example.com", "")

	entries, err := svc.AlertHistory(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
