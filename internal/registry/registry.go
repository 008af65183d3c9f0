// Package registry orchestrates application-record mutations: it gates
// nothing itself (the router's middleware does), but it validates input,
// stamps reachability via the prober and delegates persistence to gorm.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/appdex-dev/appdex/internal/ingest"
	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/prober"
	"github.com/appdex-dev/appdex/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// updateColumns whitelists the client-settable fields for partial updates,
// keyed by canonical field name. Identity and status are never in it.
var updateColumns = map[string]string{
	"applicationID":        "application_id",
	"name":                 "name",
	"technicalOwner":       "technical_owner",
	"secondaryOwner":       "secondary_owner",
	"businessOwner":        "business_owner",
	"informationSteward":   "information_steward",
	"productLine":          "product_line",
	"productOwner":         "product_owner",
	"productLineArchitect": "product_line_architect",
	"technicalTeamLead":    "technical_team_lead",
	"apm":                  "apm",
	"prodUrl":              "prod_url",
	"devUrl":               "dev_url",
	"repoUrl":              "repo_url",
	"prodResourceGroup":    "prod_resource_group",
	"testResourceGroup":    "test_resource_group",
	"technology":           "technology",
	"domain":               "domain",
}

// StatusChange records an application whose reachability flipped during a
// refresh sweep.
type StatusChange struct {
	Application models.Application
	From        string
	To          string
}

type Registry struct {
	db     *gorm.DB
	prober *prober.Prober
}

func New(db *gorm.DB, p *prober.Prober) *Registry {
	return &Registry{db: db, prober: p}
}

// Create validates the required fields, probes the production URL to stamp
// the initial status and persists the record. A duplicate non-empty
// applicationID fails with ErrConflict.
func (r *Registry) Create(app *models.Application) error {
	required := map[string]string{
		"applicationID":  app.ApplicationID,
		"name":           app.Name,
		"technicalOwner": app.TechnicalOwner,
		"prodUrl":        app.ProdURL,
	}

	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: missing required field %q", ErrValidation, field)
		}
	}

	if err := r.ensureUniqueApplicationID(app.ApplicationID, 0); err != nil {
		return err
	}

	app.Status = r.prober.Check(app.ProdURL).Status

	if err := r.db.Create(app).Error; err != nil {
		return err
	}

	return nil
}

// Update merges the given canonical fields over the stored record, leaving
// everything else untouched. The status is re-probed only when the patch
// includes a new production URL.
func (r *Registry) Update(id uint, fields map[string]string) error {
	var app models.Application

	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	updates := make(map[string]interface{})

	for field, value := range fields {
		if column, ok := updateColumns[field]; ok {
			updates[column] = value
		}
	}

	if newID, ok := updates["application_id"].(string); ok && newID != app.ApplicationID {
		if err := r.ensureUniqueApplicationID(newID, app.ID); err != nil {
			return err
		}
	}

	if prodURL, ok := updates["prod_url"].(string); ok {
		updates["status"] = r.prober.Check(prodURL).Status
	}

	if len(updates) == 0 {
		return nil
	}

	return r.db.Model(&app).Updates(updates).Error
}

// Delete removes the record permanently.
func (r *Registry) Delete(id uint) error {
	result := r.db.Delete(&models.Application{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Registry) Get(id uint) (models.Application, error) {
	var app models.Application

	if err := r.db.First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app, ErrNotFound
		}
		return app, err
	}

	return app, nil
}

// ListAll fetches every record and refreshes reachability before
// returning, trading list latency (bounded by the probe timeout, since
// probes fan out) for freshness. Refreshed statuses are written back so
// the stored value reflects the most recent probe.
func (r *Registry) ListAll() ([]models.Application, error) {
	var apps []models.Application

	if err := r.db.Order("id").Find(&apps).Error; err != nil {
		return nil, err
	}

	results := r.prober.CheckAll(prodURLs(apps), types.StatusDown)

	for i := range apps {
		if apps[i].Status == results[i].Status {
			continue
		}

		apps[i].Status = results[i].Status

		if err := r.db.Model(&apps[i]).Update("status", results[i].Status).Error; err != nil {
			log.Printf("Failed to store refreshed status for application %d: %v", apps[i].ID, err)
		}
	}

	return apps, nil
}

// BulkImport normalizes raw spreadsheet rows, probes the whole batch
// concurrently and inserts row by row. A row that maps to nothing or
// trips a unique constraint is skipped, never aborting the batch, so the
// returned count and ids report exactly what was persisted.
func (r *Registry) BulkImport(rows []map[string]string) (int, []uint, error) {
	var apps []models.Application

	for _, row := range rows {
		mapped := ingest.MapRow(row)

		if len(mapped) == 0 {
			continue
		}

		apps = append(apps, applicationFromFields(mapped))
	}

	results := r.prober.CheckAll(prodURLs(apps), types.StatusUnknown)

	for i := range apps {
		apps[i].Status = results[i].Status
	}

	inserted := 0
	var insertedIDs []uint

	for i := range apps {
		if err := r.db.Create(&apps[i]).Error; err != nil {
			log.Printf("Skipping row %d of bulk import: %v", i, err)
			continue
		}

		inserted++
		insertedIDs = append(insertedIDs, apps[i].ID)
	}

	return inserted, insertedIDs, nil
}

// Checks returns the most recent probe history for one application.
func (r *Registry) Checks(id uint, limit int) ([]models.ProbeCheck, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	var checks []models.ProbeCheck

	if err := r.db.Where("application_id = ?", id).
		Order("checked_at DESC").
		Limit(limit).
		Find(&checks).Error; err != nil {
		return nil, err
	}

	return checks, nil
}

// RefreshAll probes every application, stores the refreshed statuses and a
// ProbeCheck history row per record, and reports which records flipped.
// The background refresher calls this on every sweep.
func (r *Registry) RefreshAll() (int, []StatusChange, error) {
	var apps []models.Application

	if err := r.db.Order("id").Find(&apps).Error; err != nil {
		return 0, nil, err
	}

	results := r.prober.CheckAll(prodURLs(apps), types.StatusDown)

	var changes []StatusChange

	for i := range apps {
		previous := apps[i].Status

		if previous != results[i].Status {
			apps[i].Status = results[i].Status

			if err := r.db.Model(&apps[i]).Update("status", results[i].Status).Error; err != nil {
				log.Printf("Failed to store refreshed status for application %d: %v", apps[i].ID, err)
				continue
			}

			changes = append(changes, StatusChange{Application: apps[i], From: previous, To: results[i].Status})
		}

		r.storeCheck(apps[i].ID, results[i])
	}

	return len(apps), changes, nil
}

func (r *Registry) storeCheck(appID uint, result prober.Result) {
	detail, err := json.Marshal(result)
	if err != nil {
		detail = []byte("{}")
	}

	check := models.ProbeCheck{
		ApplicationID: appID,
		Status:        result.Status,
		ResponseTime:  result.ResponseTime,
		Detail:        datatypes.JSON(detail),
		CheckedAt:     time.Now(),
	}

	if err := r.db.Create(&check).Error; err != nil {
		log.Printf("Failed to store check result for application %d: %v", appID, err)
	}
}

func (r *Registry) ensureUniqueApplicationID(applicationID string, selfID uint) error {
	if applicationID == "" {
		return nil
	}

	var count int64

	err := r.db.Model(&models.Application{}).
		Where("application_id = ? AND id <> ?", applicationID, selfID).
		Count(&count).Error

	if err != nil {
		return err
	}

	if count > 0 {
		return ErrConflict
	}

	return nil
}

func prodURLs(apps []models.Application) []string {
	urls := make([]string, len(apps))

	for i := range apps {
		urls[i] = apps[i].ProdURL
	}

	return urls
}

func applicationFromFields(fields map[string]string) models.Application {
	return models.Application{
		ApplicationID:        fields["applicationID"],
		Name:                 fields["name"],
		TechnicalOwner:       fields["technicalOwner"],
		SecondaryOwner:       fields["secondaryOwner"],
		BusinessOwner:        fields["businessOwner"],
		InformationSteward:   fields["informationSteward"],
		ProductLine:          fields["productLine"],
		ProductOwner:         fields["productOwner"],
		ProductLineArchitect: fields["productLineArchitect"],
		TechnicalTeamLead:    fields["technicalTeamLead"],
		APM:                  fields["apm"],
		ProdURL:              fields["prodUrl"],
		DevURL:               fields["devUrl"],
		RepoURL:              fields["repoUrl"],
		ProdResourceGroup:    fields["prodResourceGroup"],
		TestResourceGroup:    fields["testResourceGroup"],
		Technology:           fields["technology"],
		Domain:               fields["domain"],
	}
}
