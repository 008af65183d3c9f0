package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/registry"
	"github.com/gin-gonic/gin"
)

type CreateApplicationRequest struct {
	ApplicationID        string `json:"applicationID" binding:"required"`
	Name                 string `json:"name" binding:"required"`
	TechnicalOwner       string `json:"technicalOwner" binding:"required"`
	SecondaryOwner       string `json:"secondaryOwner"`
	BusinessOwner        string `json:"businessOwner"`
	InformationSteward   string `json:"informationSteward"`
	ProductLine          string `json:"productLine"`
	ProductOwner         string `json:"productOwner"`
	ProductLineArchitect string `json:"productLineArchitect"`
	TechnicalTeamLead    string `json:"technicalTeamLead"`
	APM                  string `json:"apm"`
	ProdURL              string `json:"prodUrl" binding:"required,url"`
	DevURL               string `json:"devUrl"`
	RepoURL              string `json:"repoUrl"`
	ProdResourceGroup    string `json:"prodResourceGroup"`
	TestResourceGroup    string `json:"testResourceGroup"`
	Technology           string `json:"technology"`
	Domain               string `json:"domain"`
}

type ApplicationHandler struct {
	Registry *registry.Registry
}

func NewApplicationHandler(reg *registry.Registry) *ApplicationHandler {
	return &ApplicationHandler{Registry: reg}
}

func (h *ApplicationHandler) List(ctx *gin.Context) {
	apps, err := h.Registry.ListAll()

	if err != nil {
		log.Printf("Failed to list applications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching applications"})
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}

	ctx.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Get(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	app, err := h.Registry.Get(id)

	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
			return
		}
		log.Printf("Failed to fetch application %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching application"})
		return
	}

	ctx.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Checks(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	checks, err := h.Registry.Checks(id, 50)

	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
			return
		}
		log.Printf("Failed to fetch checks for application %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching checks"})
		return
	}

	if checks == nil {
		checks = []models.ProbeCheck{}
	}

	ctx.JSON(http.StatusOK, checks)
}

func (h *ApplicationHandler) Create(ctx *gin.Context) {
	var req CreateApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	app := models.Application{
		ApplicationID:        req.ApplicationID,
		Name:                 req.Name,
		TechnicalOwner:       req.TechnicalOwner,
		SecondaryOwner:       req.SecondaryOwner,
		BusinessOwner:        req.BusinessOwner,
		InformationSteward:   req.InformationSteward,
		ProductLine:          req.ProductLine,
		ProductOwner:         req.ProductOwner,
		ProductLineArchitect: req.ProductLineArchitect,
		TechnicalTeamLead:    req.TechnicalTeamLead,
		APM:                  req.APM,
		ProdURL:              req.ProdURL,
		DevURL:               req.DevURL,
		RepoURL:              req.RepoURL,
		ProdResourceGroup:    req.ProdResourceGroup,
		TestResourceGroup:    req.TestResourceGroup,
		Technology:           req.Technology,
		Domain:               req.Domain,
	}

	if err := h.Registry.Create(&app); err != nil {
		switch {
		case errors.Is(err, registry.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, registry.ErrConflict):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Application ID already exists"})
		default:
			log.Printf("Failed to create application: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding application"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": app.ID, "message": "Added successfully"})
}

func (h *ApplicationHandler) Update(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	var body map[string]interface{}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	// Identity fields are never client-settable.
	delete(body, "_id")
	delete(body, "id")

	fields := make(map[string]string)

	for key, value := range body {
		if text, ok := coerceString(value); ok {
			fields[key] = text
		}
	}

	if err := h.Registry.Update(id, fields); err != nil {
		switch {
		case errors.Is(err, registry.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Application not found"})
		case errors.Is(err, registry.ErrConflict):
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Application ID already exists"})
		default:
			log.Printf("Failed to update application %d: %v", id, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating application"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Application updated successfully"})
}

func (h *ApplicationHandler) Delete(ctx *gin.Context) {
	id, ok := applicationID(ctx)
	if !ok {
		return
	}

	if err := h.Registry.Delete(id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Application not found."})
			return
		}
		log.Printf("Failed to delete application %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting application."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully."})
}

func (h *ApplicationHandler) BulkImport(ctx *gin.Context) {
	var rawRows []map[string]interface{}

	if err := ctx.BindJSON(&rawRows); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Request body must be an array"})
		return
	}

	rows := make([]map[string]string, 0, len(rawRows))

	for _, rawRow := range rawRows {
		row := make(map[string]string)
		for header, value := range rawRow {
			if text, ok := coerceString(value); ok {
				row[header] = text
			}
		}
		rows = append(rows, row)
	}

	inserted, insertedIDs, err := h.Registry.BulkImport(rows)

	if err != nil {
		log.Printf("Bulk import failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process bulk upload"})
		return
	}

	if insertedIDs == nil {
		insertedIDs = []uint{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Successfully uploaded %d applications", inserted),
		"insertedCount": inserted,
		"insertedIds":   insertedIDs,
	})
}

func applicationID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID format"})
		return 0, false
	}

	return uint(id), true
}

// coerceString accepts the scalar JSON values spreadsheets produce.
func coerceString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
