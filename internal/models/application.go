package models

// Application is one monitored internal system. ApplicationID is a
// human-assigned business key: the partial unique index only applies to
// non-empty values, so any number of records may leave it blank.
//
// Status is a cached value stamped by the prober at write time and
// refreshed by the list path and the background refresher. It is only as
// fresh as the last probe.
type Application struct {
	BaseModel

	ApplicationID        string `gorm:"index:idx_applications_application_id,unique,where:application_id <> ''" json:"applicationID"`
	Name                 string `gorm:"not null" json:"name"`
	TechnicalOwner       string `json:"technicalOwner"`
	SecondaryOwner       string `json:"secondaryOwner"`
	BusinessOwner        string `json:"businessOwner"`
	InformationSteward   string `json:"informationSteward"`
	ProductLine          string `json:"productLine"`
	ProductOwner         string `json:"productOwner"`
	ProductLineArchitect string `json:"productLineArchitect"`
	TechnicalTeamLead    string `json:"technicalTeamLead"`
	APM                  string `json:"apm"`
	ProdURL              string `json:"prodUrl"`
	DevURL               string `json:"devUrl"`
	RepoURL              string `json:"repoUrl"`
	ProdResourceGroup    string `json:"prodResourceGroup"`
	TestResourceGroup    string `json:"testResourceGroup"`
	Technology           string `json:"technology"`
	Domain               string `json:"domain"`
	Status               string `json:"status"`

	// Relationships
	ProbeChecks []ProbeCheck `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
