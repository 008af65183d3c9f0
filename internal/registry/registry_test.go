package registry

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/prober"
	"github.com/appdex-dev/appdex/internal/types"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRegistry(t *testing.T) (*Registry, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	if err := database.AutoMigrate(&models.Application{}, &models.ProbeCheck{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(database, prober.New(time.Second)), database
}

func upServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestCreateStampsStatusAndPersists(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	app := models.Application{
		ApplicationID:  "A1",
		Name:           "Billing",
		TechnicalOwner: "owner@example.com",
		ProdURL:        server.URL,
	}

	if err := reg.Create(&app); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var stored models.Application
	if err := database.First(&stored, app.ID).Error; err != nil {
		t.Fatalf("fetch stored: %v", err)
	}

	if stored.Status != types.StatusUp {
		t.Errorf("status = %q, want %q", stored.Status, types.StatusUp)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	reg, _ := setupRegistry(t)

	err := reg.Create(&models.Application{Name: "NoID"})

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateDuplicateApplicationIDConflicts(t *testing.T) {
	reg, _ := setupRegistry(t)
	server := upServer(t)

	first := models.Application{
		ApplicationID:  "DUP",
		Name:           "First",
		TechnicalOwner: "a@example.com",
		ProdURL:        server.URL,
	}

	if err := reg.Create(&first); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	second := models.Application{
		ApplicationID:  "DUP",
		Name:           "Second",
		TechnicalOwner: "b@example.com",
		ProdURL:        server.URL,
	}

	if err := reg.Create(&second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSparseUniquenessAllowsManyEmptyKeys(t *testing.T) {
	reg, database := setupRegistry(t)

	// Records without a business key arrive through bulk import; the
	// partial index must not collide on the empty value.
	rows := []map[string]string{
		{"Name": "NoKeyOne"},
		{"Name": "NoKeyTwo"},
	}

	inserted, _, err := reg.BulkImport(rows)
	if err != nil {
		t.Fatalf("BulkImport: %v", err)
	}

	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}

	var count int64
	database.Model(&models.Application{}).Where("application_id = ''").Count(&count)

	if count != 2 {
		t.Errorf("stored empty-key records = %d, want 2", count)
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	reg, database := setupRegistry(t)

	app := models.Application{
		ApplicationID:  "A1",
		Name:           "Old",
		TechnicalOwner: "owner@example.com",
		ProdURL:        "http://x.internal",
		Status:         types.StatusUp,
	}

	if err := database.Create(&app).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := reg.Update(app.ID, map[string]string{"name": "New"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var stored models.Application
	if err := database.First(&stored, app.ID).Error; err != nil {
		t.Fatalf("fetch stored: %v", err)
	}

	if stored.Name != "New" {
		t.Errorf("name = %q, want %q", stored.Name, "New")
	}

	if stored.ApplicationID != "A1" || stored.ProdURL != "http://x.internal" {
		t.Errorf("untouched fields changed: %+v", stored)
	}

	// prodUrl was not in the patch, so the cached status must survive.
	if stored.Status != types.StatusUp {
		t.Errorf("status = %q, want %q", stored.Status, types.StatusUp)
	}
}

func TestUpdateWithNewProdURLReprobes(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	app := models.Application{
		ApplicationID:  "A2",
		Name:           "App",
		TechnicalOwner: "owner@example.com",
		ProdURL:        "http://old.internal",
		Status:         types.StatusDown,
	}

	if err := database.Create(&app).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := reg.Update(app.ID, map[string]string{"prodUrl": server.URL}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var stored models.Application
	database.First(&stored, app.ID)

	if stored.Status != types.StatusUp {
		t.Errorf("status = %q, want %q after re-probe", stored.Status, types.StatusUp)
	}
}

func TestUpdateIgnoresUnknownAndIdentityFields(t *testing.T) {
	reg, database := setupRegistry(t)

	app := models.Application{
		ApplicationID:  "A3",
		Name:           "App",
		TechnicalOwner: "owner@example.com",
		ProdURL:        "http://x.internal",
		Status:         types.StatusUnknown,
	}

	if err := database.Create(&app).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := reg.Update(app.ID, map[string]string{
		"status":  types.StatusUp,
		"unknown": "field",
	})

	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var stored models.Application
	database.First(&stored, app.ID)

	if stored.Status != types.StatusUnknown {
		t.Errorf("status is not client-settable, got %q", stored.Status)
	}
}

func TestUpdateNotFound(t *testing.T) {
	reg, _ := setupRegistry(t)

	if err := reg.Update(9999, map[string]string{"name": "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	reg, _ := setupRegistry(t)

	if err := reg.Delete(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsPermanent(t *testing.T) {
	reg, database := setupRegistry(t)

	app := models.Application{Name: "Gone", TechnicalOwner: "x", ProdURL: "http://x"}
	if err := database.Create(&app).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := reg.Delete(app.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	database.Model(&models.Application{}).Where("id = ?", app.ID).Count(&count)

	if count != 0 {
		t.Error("record still present after delete")
	}
}

func TestBulkImportCountReflectsActualInserts(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	existing := models.Application{ApplicationID: "TAKEN", Name: "Existing"}
	if err := database.Create(&existing).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows := []map[string]string{
		{"App ID": "B1", "App Name": "One", "Prod URL": server.URL},
		{"App ID": "B2", "App Name": "Two"},
		{"App ID": "TAKEN", "App Name": "Duplicate"},
		{"Foo": "no recognized headers"},
	}

	inserted, ids, err := reg.BulkImport(rows)
	if err != nil {
		t.Fatalf("BulkImport: %v", err)
	}

	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	if len(ids) != inserted {
		t.Errorf("len(ids) = %d, want %d", len(ids), inserted)
	}

	var count int64
	database.Model(&models.Application{}).Count(&count)

	if count != 3 { // existing + two imported
		t.Errorf("stored records = %d, want 3", count)
	}
}

func TestBulkImportStampsStatuses(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	rows := []map[string]string{
		{"App ID": "C1", "App Name": "Reachable", "Prod URL": server.URL},
		{"App ID": "C2", "App Name": "NoURL"},
	}

	if _, _, err := reg.BulkImport(rows); err != nil {
		t.Fatalf("BulkImport: %v", err)
	}

	var reachable, noURL models.Application
	database.Where("application_id = ?", "C1").First(&reachable)
	database.Where("application_id = ?", "C2").First(&noURL)

	if reachable.Status != types.StatusUp {
		t.Errorf("reachable status = %q, want %q", reachable.Status, types.StatusUp)
	}

	// The bulk path stamps unknown, not down, for a missing URL.
	if noURL.Status != types.StatusUnknown {
		t.Errorf("missing-URL status = %q, want %q", noURL.Status, types.StatusUnknown)
	}
}

func TestListAllRefreshesStatuses(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	stale := models.Application{Name: "Stale", ProdURL: server.URL, Status: types.StatusDown}
	missing := models.Application{Name: "NoURL", Status: types.StatusUnknown}

	if err := database.Create(&stale).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := database.Create(&missing).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	apps, err := reg.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	if len(apps) != 2 {
		t.Fatalf("len(apps) = %d, want 2", len(apps))
	}

	if apps[0].Status != types.StatusUp {
		t.Errorf("refreshed status = %q, want %q", apps[0].Status, types.StatusUp)
	}

	// The read path stamps down, not unknown, for a missing URL.
	if apps[1].Status != types.StatusDown {
		t.Errorf("missing-URL status = %q, want %q", apps[1].Status, types.StatusDown)
	}

	var stored models.Application
	database.First(&stored, stale.ID)

	if stored.Status != types.StatusUp {
		t.Errorf("refreshed status was not persisted, got %q", stored.Status)
	}
}

func TestRefreshAllRecordsChecksAndChanges(t *testing.T) {
	reg, database := setupRegistry(t)
	server := upServer(t)

	app := models.Application{Name: "App", ProdURL: server.URL, Status: types.StatusDown}
	if err := database.Create(&app).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	refreshed, changes, err := reg.RefreshAll()
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	if refreshed != 1 {
		t.Errorf("refreshed = %d, want 1", refreshed)
	}

	if len(changes) != 1 || changes[0].From != types.StatusDown || changes[0].To != types.StatusUp {
		t.Errorf("changes = %+v, want one down->up transition", changes)
	}

	checks, err := reg.Checks(app.ID, 10)
	if err != nil {
		t.Fatalf("Checks: %v", err)
	}

	if len(checks) != 1 || checks[0].Status != types.StatusUp {
		t.Errorf("checks = %+v, want one up check", checks)
	}
}

func TestChecksNotFound(t *testing.T) {
	reg, _ := setupRegistry(t)

	if _, err := reg.Checks(9999, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
