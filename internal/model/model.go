package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Install{},
	&Session{},
	&PartRecord{},
	&Ship{},
	&Placement{},
	&StageRow{},
	&UnknownKey{},
	&LoadEvent{},
	&SessionPerformance{},
}

var DatabaseModelsSQLite = []interface{}{
	&Install{},
	&Session{},
	&PartRecord{},
	&Ship{},
	&Placement{},
	&StageRow{},
	&UnknownKey{},
	&LoadEvent{},
	&SessionPerformance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// Install identifies one game directory that sessions load from
type Install struct {
	gorm.Model
	Path        string `json:"path" gorm:"size:255;index:idx_install_path"`
	GameVersion string `json:"gameVersion" gorm:"size:64"`
	PartsSubdir string `json:"partsSubdir" gorm:"size:64"`
	ShipsSubdir string `json:"shipsSubdir" gorm:"size:64"`
	Sessions    []Session
}

func (*Install) TableName() string {
	return "installs"
}

func (i *Install) GetOrInsert(db *gorm.DB) (
	created bool,
	err error,
) {
	var existingInstall Install
	err = db.Where("path = ?", i.Path).First(&existingInstall).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// insert
			err = db.Create(i).Error
			return true, err
		}
		return false, err
	}
	// overwrite with db record if found
	*i = existingInstall
	return false, nil
}

// Session is one analysis run over an install
type Session struct {
	gorm.Model
	StartTime   time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_session_start"`
	Tag         string    `json:"tag" gorm:"size:127"`
	ToolVersion string    `json:"toolVersion" gorm:"size:64;default:1.0.0"`
	InstallID   uint
	Install     Install `gorm:"foreignkey:InstallID"`

	// Summary counters filled in when the session ends
	PartsLoaded  uint `json:"partsLoaded"`
	ShipsLoaded  uint `json:"shipsLoaded"`
	LoadFailures uint `json:"loadFailures"`
	UnknownKeys  uint `json:"unknownKeys"`

	PartRecords     []PartRecord
	Ships           []Ship
	LoadEvents      []LoadEvent
	UnknownKeyRows  []UnknownKey
	PerformanceRows []SessionPerformance
}

func (*Session) TableName() string {
	return "sessions"
}

// SessionPerformance is the model for loader performance metrics
type SessionPerformance struct {
	Time                time.Time         `json:"time" gorm:"type:timestamptz;index:idx_perf_time"`
	SessionID           uint              `json:"sessionId" gorm:"index:idx_sessionperformance_session_id"`
	Session             Session           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	WriteQueueLengths   WriteQueueLengths `json:"writeQueueLengths" gorm:"embedded;embeddedPrefix:writequeue_"`
	LastWriteDurationMs float32           `json:"lastWriteDurationMs"`
}

func (*SessionPerformance) TableName() string {
	return "session_performances"
}

// WriteQueueLengths is the model for the write queue lengths
type WriteQueueLengths struct {
	PartRecords uint16 `json:"partRecords"`
	Ships       uint16 `json:"ships"`
	Placements  uint16 `json:"placements"`
	StageRows   uint16 `json:"stageRows"`
	UnknownKeys uint16 `json:"unknownKeys"`
	LoadEvents  uint16 `json:"loadEvents"`
}

////////////////////////
// CATALOG MODELS
////////////////////////

// PartRecord is one catalog entry as loaded for a session.
// Uses composite primary key (SessionID, Name) - later duplicate names
// overwrite the earlier definition, matching catalog semantics.
type PartRecord struct {
	SessionID uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	Name      string         `json:"name" gorm:"primaryKey;size:127"`
	Session   Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`

	Module       string          `json:"module" gorm:"size:64;index:idx_partrecord_module"` // Variant module name (mod.LiquidEngine etc.)
	Title        string          `json:"title" gorm:"size:127"`                             // Display title from the definition
	Author       string          `json:"author" gorm:"size:127"`                            // Definition author
	Manufacturer string          `json:"manufacturer" gorm:"size:127"`
	FileName     string          `json:"fileName" gorm:"size:255"` // Input unit the definition came from
	Mass         float64         `json:"mass"`
	Cost         float64         `json:"cost"`
	Category     int             `json:"category"`
	IsEngine     bool            `json:"isEngine" gorm:"default:false"`
	Explosion    sql.NullFloat64 `json:"explosion" gorm:"default:NULL"`            // Explosion rating when the variant carries one
	Attributes   datatypes.JSON  `json:"attributes" gorm:"type:jsonb;default:'{}'"` // Full attribute snapshot
	NodeStack    datatypes.JSON  `json:"nodeStack" gorm:"type:jsonb;default:'{}'"`  // Attachment node geometry map
}

func (*PartRecord) TableName() string {
	return "part_records"
}

////////////////////////
// SHIP MODELS
////////////////////////

// Ship is one loaded vehicle assembly
type Ship struct {
	gorm.Model
	SessionID uint    `json:"sessionId" gorm:"index:idx_ship_session_id"`
	Session   Session `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`

	Name       string  `json:"name" gorm:"size:200"`
	Version    string  `json:"version" gorm:"size:64"` // Game version recorded in the assembly file
	FileName   string  `json:"fileName" gorm:"size:255"`
	PartCount  int     `json:"partCount"`
	StageCount int     `json:"stageCount"`
	TotalMass  float64 `json:"totalMass"` // Sum of catalog masses over all placed parts

	Placements []Placement
	StageRows  []StageRow
}

func (*Ship) TableName() string {
	return "ships"
}

// Placement is one placed part instance in a ship
type Placement struct {
	ID        uint    `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID uint    `json:"sessionId" gorm:"index:idx_placement_session_id"`
	ShipID    uint    `json:"shipId" gorm:"index:idx_placement_ship_id"`
	Ship      Ship    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:ShipID;"`

	PartID   string `json:"partId" gorm:"size:127;index:idx_placement_part_id"` // Instance identifier from the assembly file
	PartName string `json:"partName" gorm:"size:127"`                           // Catalog name the instance realizes
	Module   string `json:"module" gorm:"size:64"`                              // Variant module of the catalog entry

	Position  geom.Point     `json:"position"`  // Assembly-space position as XYZ point
	Elevation float64        `json:"elevation"` // Z coordinate, kept queryable without geometry functions
	Rotation  datatypes.JSON `json:"rotation" gorm:"type:jsonb;default:'[]'"` // Rotation float list as written

	IgnitionStage int `json:"ignitionStage" gorm:"default:-1"` // -1 = not staged
	DetachStage   int `json:"detachStage" gorm:"default:-1"`   // -1 = never detaches
	SequenceIndex int `json:"sequenceIndex" gorm:"default:-1"`
	SequenceOrder int `json:"sequenceOrder" gorm:"default:-1"`
	AttachMode    int `json:"attachMode" gorm:"default:0"`

	Attachments        datatypes.JSON `json:"attachments" gorm:"type:jsonb;default:'{}'"`        // location -> instance id
	SurfaceAttachments datatypes.JSON `json:"surfaceAttachments" gorm:"type:jsonb;default:'[]'"` // instance id list
	SymmetrySiblings   datatypes.JSON `json:"symmetrySiblings" gorm:"type:jsonb;default:'[]'"`   // instance id list
	Links              datatypes.JSON `json:"links" gorm:"type:jsonb;default:'[]'"`              // instance id list
}

func (*Placement) TableName() string {
	return "placements"
}

// StageRow is one derived stage of a ship's staging plan
type StageRow struct {
	ID        uint `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID uint `json:"sessionId" gorm:"index:idx_stagerow_session_id"`
	ShipID    uint `json:"shipId" gorm:"index:idx_stagerow_ship_id"`
	Ship      Ship `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:ShipID;"`

	Ordinal        int     `json:"ordinal"`
	CumulativeMass float64 `json:"cumulativeMass"` // Mass ignited in this stage and every earlier one
	ThrusterCount  int     `json:"thrusterCount"`

	IgnitionIDs datatypes.JSON `json:"ignitionIds" gorm:"type:jsonb;default:'[]'"` // instance ids igniting here
	DetachIDs   datatypes.JSON `json:"detachIds" gorm:"type:jsonb;default:'[]'"`   // instance ids detaching here
	ThrusterIDs datatypes.JSON `json:"thrusterIds" gorm:"type:jsonb;default:'[]'"` // engines still available at this stage
}

func (*StageRow) TableName() string {
	return "stage_rows"
}

////////////////////////
// DIAGNOSTIC MODELS
////////////////////////

// UnknownKey records one unrecognized attribute key seen during a load
type UnknownKey struct {
	ID        uint    `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID uint    `json:"sessionId" gorm:"index:idx_unknownkey_session_id"`
	Session   Session `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`

	Key    string `json:"key" gorm:"size:127;index:idx_unknownkey_key"` // Literal key text
	Entity string `json:"entity" gorm:"size:200"`                       // Rendered label of the entity that carried it
	Value  string `json:"value"`                                        // Raw value text
}

func (*UnknownKey) TableName() string {
	return "unknown_keys"
}

// LoadEvent is a generic event in a session's lifecycle
//
// Common names: "catalog:load", "fleet:load", "fleet:scan"
type LoadEvent struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time      `json:"time" gorm:"type:timestamptz;"`
	SessionID uint           `json:"sessionId" gorm:"index:idx_loadevent_session_id"`
	Session   Session        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Name      string         `json:"name" gorm:"size:64"`
	Message   string         `json:"message"`
	ExtraData datatypes.JSON `json:"extraData" gorm:"type:jsonb;default:'{}'"`
}

func (*LoadEvent) TableName() string {
	return "load_events"
}
