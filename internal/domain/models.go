package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// GrowerID identifies a grower organization (the tenant)
type GrowerID string

// GrowerAll is the wildcard tenant used by platform administrators
const GrowerAll GrowerID = "all"

// Grower represents a grower organization (stored in database)
type Grower struct {
	ID        GrowerID  `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	ShortName string    `gorm:"type:varchar(50);not null;column:short_name" json:"shortName"`
	OrgNumber string    `gorm:"type:varchar(20);column:org_number" json:"orgNumber,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Commodity represents the crop commodity handled by a pool or field
type Commodity string

const (
	CommodityNavel       Commodity = "navel"
	CommodityValencia    Commodity = "valencia"
	CommodityMandarin    Commodity = "mandarin"
	CommodityLemon       Commodity = "lemon"
	CommodityGrapefruit  Commodity = "grapefruit"
	CommodityAvocado     Commodity = "avocado"
	CommoditySubtropical Commodity = "subtropical"
	CommodityOther       Commodity = "other"
)

// IsValid checks if the Commodity is a valid enum value
func (c Commodity) IsValid() bool {
	switch c {
	case CommodityNavel, CommodityValencia, CommodityMandarin, CommodityLemon,
		CommodityGrapefruit, CommodityAvocado, CommoditySubtropical, CommodityOther:
		return true
	}
	return false
}

// Farm represents a ranch owned by a grower
type Farm struct {
	BaseModel
	GrowerID   GrowerID `gorm:"type:varchar(50);not null;index;column:grower_id"`
	Grower     *Grower  `gorm:"foreignKey:GrowerID"`
	Name       string   `gorm:"type:varchar(200);not null;index"`
	County     string   `gorm:"type:varchar(100)"`
	Address    string   `gorm:"type:varchar(500)"`
	TotalAcres float64  `gorm:"type:decimal(10,2);not null;default:0;column:total_acres"`
	IsActive   bool     `gorm:"not null;default:true;column:is_active"`
	Fields     []Field  `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE"`
}

// Field represents a planted block within a farm
type Field struct {
	BaseModel
	FarmID      uuid.UUID `gorm:"type:uuid;not null;index;column:farm_id"`
	Farm        *Farm     `gorm:"foreignKey:FarmID"`
	GrowerID    GrowerID  `gorm:"type:varchar(50);not null;index;column:grower_id"`
	Name        string    `gorm:"type:varchar(200);not null;index"`
	Commodity   Commodity `gorm:"type:varchar(50);not null;index"`
	Variety     string    `gorm:"type:varchar(100)"`
	Acres       float64   `gorm:"type:decimal(10,2);not null;default:0"`
	PlantedYear *int      `gorm:"column:planted_year"`
	Rootstock   string    `gorm:"type:varchar(100)"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active"`
}

// Packinghouse represents a packing/marketing house receiving fruit
type Packinghouse struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	City          string `gorm:"type:varchar(100)"`
	ContactPerson string `gorm:"type:varchar(200);column:contact_person"`
	ContactEmail  string `gorm:"type:varchar(255);column:contact_email"`
	ContactPhone  string `gorm:"type:varchar(50);column:contact_phone"`
	FeedCode      string `gorm:"type:varchar(50);column:feed_code"` // identifier in the packinghouse reporting feed
	IsActive      bool   `gorm:"not null;default:true;column:is_active"`
	Pools         []Pool `gorm:"foreignKey:PackinghouseID"`
}

// PoolStatus represents the lifecycle status of a pool
type PoolStatus string

const (
	PoolStatusActive  PoolStatus = "active"
	PoolStatusClosed  PoolStatus = "closed"
	PoolStatusSettled PoolStatus = "settled"
)

// IsValid checks if the PoolStatus is a valid enum value
func (ps PoolStatus) IsValid() bool {
	switch ps {
	case PoolStatusActive, PoolStatusClosed, PoolStatusSettled:
		return true
	}
	return false
}

// Pool represents a packinghouse batch-accounting unit grouping deliveries,
// packout reports and settlements for one commodity and season
type Pool struct {
	BaseModel
	GrowerID       GrowerID        `gorm:"type:varchar(50);not null;index;column:grower_id"`
	PackinghouseID uuid.UUID       `gorm:"type:uuid;not null;index;column:packinghouse_id"`
	Packinghouse   *Packinghouse   `gorm:"foreignKey:PackinghouseID"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Commodity      Commodity       `gorm:"type:varchar(50);not null;index"`
	Season         string          `gorm:"type:varchar(20);not null;index"` // e.g. "2025-2026"
	Status         PoolStatus      `gorm:"type:varchar(50);not null;default:'active';index"`
	Deliveries     []Delivery      `gorm:"foreignKey:PoolID"`
	PackoutReports []PackoutReport `gorm:"foreignKey:PoolID"`
	Settlements    []Settlement    `gorm:"foreignKey:PoolID"`
}

// HarvestStatus represents the status of a harvest record
type HarvestStatus string

const (
	HarvestStatusInProgress HarvestStatus = "in_progress"
	HarvestStatusVerified   HarvestStatus = "verified"
)

// IsValid checks if the HarvestStatus is a valid enum value
func (hs HarvestStatus) IsValid() bool {
	switch hs {
	case HarvestStatusInProgress, HarvestStatusVerified:
		return true
	}
	return false
}

// HarvestUnit is the unit a harvest quantity was recorded in
type HarvestUnit string

const (
	UnitBins HarvestUnit = "BINS"
	UnitLbs  HarvestUnit = "LBS"
)

// DefaultBinWeightLbs is the assumed weight of a full field bin when a
// harvest record does not carry its own calibrated bin weight.
const DefaultBinWeightLbs = 900.0

// Harvest represents one recorded pick on a field
type Harvest struct {
	BaseModel
	GrowerID           GrowerID       `gorm:"type:varchar(50);not null;index;column:grower_id"`
	FieldID            uuid.UUID      `gorm:"type:uuid;not null;index;column:field_id"`
	Field              *Field         `gorm:"foreignKey:FieldID"`
	FarmName           string         `gorm:"type:varchar(200);column:farm_name"`
	FieldName          string         `gorm:"type:varchar(200);column:field_name"`
	HarvestDate        time.Time      `gorm:"type:date;not null;index;column:harvest_date"`
	PickNumber         int            `gorm:"not null;default:1;column:pick_number"`
	Variety            string         `gorm:"type:varchar(100)"`
	Acres              float64        `gorm:"type:decimal(10,2);not null;default:0"`
	TotalQuantity      float64        `gorm:"type:decimal(12,2);not null;default:0;column:total_quantity"`
	Unit               HarvestUnit    `gorm:"type:varchar(10);not null;default:'BINS'"`
	BinWeightLbs       float64        `gorm:"type:decimal(8,2);not null;default:900;column:bin_weight_lbs"`
	Status             HarvestStatus  `gorm:"type:varchar(50);not null;default:'in_progress';index"`
	PHIVerified        bool           `gorm:"not null;default:false;column:phi_verified"`
	EquipmentCleaned   bool           `gorm:"not null;default:false;column:equipment_cleaned"`
	ContaminationCheck bool           `gorm:"not null;default:false;column:contamination_check"`
	CrewNames          pq.StringArray `gorm:"type:text[];column:crew_names"`
	Notes              string         `gorm:"type:text"`
	RecordedByID       string         `gorm:"type:varchar(100);column:recorded_by_id"`
	RecordedByName     string         `gorm:"type:varchar(200);column:recorded_by_name"`
	Deliveries         []Delivery     `gorm:"foreignKey:HarvestID"`
	LaborEntries       []LaborEntry   `gorm:"foreignKey:HarvestID"`
}

// ComplianceComplete reports whether all pre-harvest compliance checks passed
func (h *Harvest) ComplianceComplete() bool {
	return h.PHIVerified && h.EquipmentCleaned && h.ContaminationCheck
}

// LaborEntry represents a crew's picking tally charged against a harvest.
// It is the second allocation channel reconciled against the harvest total.
type LaborEntry struct {
	BaseModel
	GrowerID  GrowerID  `gorm:"type:varchar(50);not null;index;column:grower_id"`
	HarvestID uuid.UUID `gorm:"type:uuid;not null;index;column:harvest_id"`
	Harvest   *Harvest  `gorm:"foreignKey:HarvestID"`
	CrewName  string    `gorm:"type:varchar(200);not null;column:crew_name"`
	WorkDate  time.Time `gorm:"type:date;not null;column:work_date"`
	Bins      float64   `gorm:"type:decimal(12,2);not null;default:0"`
	Workers   int       `gorm:"not null;default:0"`
	Notes     string    `gorm:"type:text"`
}

// Delivery represents one truckload delivered into a pool
type Delivery struct {
	BaseModel
	GrowerID     GrowerID   `gorm:"type:varchar(50);not null;index;column:grower_id"`
	PoolID       uuid.UUID  `gorm:"type:uuid;not null;index;column:pool_id"`
	Pool         *Pool      `gorm:"foreignKey:PoolID"`
	FieldID      uuid.UUID  `gorm:"type:uuid;not null;index;column:field_id"`
	Field        *Field     `gorm:"foreignKey:FieldID"`
	HarvestID    *uuid.UUID `gorm:"type:uuid;index;column:harvest_id"` // traceability link, optional
	Harvest      *Harvest   `gorm:"foreignKey:HarvestID"`
	TicketNumber string     `gorm:"type:varchar(50);not null;index;column:ticket_number"`
	DeliveryDate time.Time  `gorm:"type:date;not null;index;column:delivery_date"`
	Bins         float64    `gorm:"type:decimal(12,2);not null;default:0"`
	FieldBoxes   *float64   `gorm:"type:decimal(12,2);column:field_boxes"`
	WeightLbs    *float64   `gorm:"type:decimal(12,2);column:weight_lbs"`
	Notes        string     `gorm:"type:text"`
}

// IsLinked reports whether the delivery is traceable to a harvest record
func (d *Delivery) IsLinked() bool {
	return d.HarvestID != nil
}

// PackoutReport represents a packinghouse grade/size report for one period
type PackoutReport struct {
	BaseModel
	GrowerID        GrowerID           `gorm:"type:varchar(50);not null;index;column:grower_id"`
	PoolID          uuid.UUID          `gorm:"type:uuid;not null;index;column:pool_id"`
	Pool            *Pool              `gorm:"foreignKey:PoolID"`
	FieldID         *uuid.UUID         `gorm:"type:uuid;index;column:field_id"`
	Field           *Field             `gorm:"foreignKey:FieldID"`
	PeriodStart     time.Time          `gorm:"type:date;not null;column:period_start"`
	PeriodEnd       time.Time          `gorm:"type:date;not null;index;column:period_end"`
	BinsThisPeriod  float64            `gorm:"type:decimal(12,2);not null;default:0;column:bins_this_period"`
	BinsCumulative  float64            `gorm:"type:decimal(12,2);not null;default:0;column:bins_cumulative"`
	PackedPercent   float64            `gorm:"type:decimal(5,2);not null;default:0;column:packed_percent"`
	HouseAvgPercent *float64           `gorm:"type:decimal(5,2);column:house_avg_percent"`
	GradeLines      []PackoutGradeLine `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// PackoutGradeLine represents one grade/size line of a packout report
type PackoutGradeLine struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ReportID           uuid.UUID `gorm:"type:uuid;not null;index;column:report_id"`
	Grade              string    `gorm:"type:varchar(50);not null"`
	Size               string    `gorm:"type:varchar(20);not null"`
	Quantity           float64   `gorm:"type:decimal(12,2);not null;default:0"`
	Percent            float64   `gorm:"type:decimal(5,2);not null;default:0"`
	CumulativeQuantity float64   `gorm:"type:decimal(12,2);not null;default:0;column:cumulative_quantity"`
	CumulativePercent  float64   `gorm:"type:decimal(5,2);not null;default:0;column:cumulative_percent"`
	HouseAvgPercent    *float64  `gorm:"type:decimal(5,2);column:house_avg_percent"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// DeductionCategory classifies settlement charges
type DeductionCategory string

const (
	DeductionPacking    DeductionCategory = "packing"
	DeductionAssessment DeductionCategory = "assessment"
	DeductionPickHaul   DeductionCategory = "pick_haul"
	DeductionCapital    DeductionCategory = "capital"
	DeductionMarketing  DeductionCategory = "marketing"
	DeductionOther      DeductionCategory = "other"
)

// IsValid checks if the DeductionCategory is a valid enum value
func (dc DeductionCategory) IsValid() bool {
	switch dc {
	case DeductionPacking, DeductionAssessment, DeductionPickHaul,
		DeductionCapital, DeductionMarketing, DeductionOther:
		return true
	}
	return false
}

// Settlement represents a packinghouse financial statement for a pool
type Settlement struct {
	BaseModel
	GrowerID        GrowerID              `gorm:"type:varchar(50);not null;index;column:grower_id"`
	PoolID          uuid.UUID             `gorm:"type:uuid;not null;index;column:pool_id"`
	Pool            *Pool                 `gorm:"foreignKey:PoolID"`
	FieldID         *uuid.UUID            `gorm:"type:uuid;index;column:field_id"`
	Field           *Field                `gorm:"foreignKey:FieldID"`
	StatementDate   time.Time             `gorm:"type:date;not null;index;column:statement_date"`
	StatementNumber string                `gorm:"type:varchar(50);column:statement_number"`
	TotalBins       float64               `gorm:"type:decimal(12,2);not null;default:0;column:total_bins"`
	TotalCredits    float64               `gorm:"type:decimal(15,2);not null;default:0;column:total_credits"`
	TotalDeductions float64               `gorm:"type:decimal(15,2);not null;default:0;column:total_deductions"`
	NetReturn       float64               `gorm:"type:decimal(15,2);not null;default:0;column:net_return"`
	HouseAvgPerBin  *float64              `gorm:"type:decimal(10,2);column:house_avg_per_bin"`
	PriorAdvances   float64               `gorm:"type:decimal(15,2);not null;default:0;column:prior_advances"`
	AmountDue       float64               `gorm:"type:decimal(15,2);not null;default:0;column:amount_due"`
	GradeLines      []SettlementGradeLine `gorm:"foreignKey:SettlementID;constraint:OnDelete:CASCADE"`
	Deductions      []SettlementDeduction `gorm:"foreignKey:SettlementID;constraint:OnDelete:CASCADE"`
}

// SettlementGradeLine represents one revenue line of a settlement statement
type SettlementGradeLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SettlementID uuid.UUID `gorm:"type:uuid;not null;index;column:settlement_id"`
	Grade        string    `gorm:"type:varchar(50);not null"`
	Size         string    `gorm:"type:varchar(20);not null"`
	Quantity     float64   `gorm:"type:decimal(12,2);not null;default:0"`
	Percent      float64   `gorm:"type:decimal(5,2);not null;default:0"`
	FOBRate      float64   `gorm:"type:decimal(10,2);not null;default:0;column:fob_rate"`
	TotalAmount  float64   `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// SettlementDeduction represents one charge line of a settlement statement
type SettlementDeduction struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SettlementID uuid.UUID         `gorm:"type:uuid;not null;index;column:settlement_id"`
	Category     DeductionCategory `gorm:"type:varchar(50);not null;default:'other';index"`
	Description  string            `gorm:"type:varchar(500)"`
	Quantity     float64           `gorm:"type:decimal(12,2);not null;default:0"`
	Unit         string            `gorm:"type:varchar(20)"`
	Rate         float64           `gorm:"type:decimal(10,4);not null;default:0"`
	Amount       float64           `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RolePlatformAdmin UserRoleType = "platform_admin"
	RoleGrowerAdmin   UserRoleType = "grower_admin"
	RoleFieldManager  UserRoleType = "field_manager"
	RoleOffice        UserRoleType = "office"
	RoleViewer        UserRoleType = "viewer"
	RoleAPIService    UserRoleType = "api_service"
)

// User represents a user in the system
type User struct {
	ID          string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	FirstName   string         `gorm:"type:varchar(100);column:first_name" json:"firstName,omitempty"`
	LastName    string         `gorm:"type:varchar(100);column:last_name" json:"lastName,omitempty"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	Roles       pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	GrowerID    *GrowerID      `gorm:"type:varchar(50);column:grower_id" json:"growerId,omitempty"`
	Grower      *Grower        `gorm:"foreignKey:GrowerID" json:"grower,omitempty"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// FullName returns the user's full name, or display name if first/last not set
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.DisplayName
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeReconcileUnder    NotificationType = "reconcile_under"
	NotificationTypeReconcileOver     NotificationType = "reconcile_over"
	NotificationTypeSettlementPosted  NotificationType = "settlement_posted"
	NotificationTypePackoutPosted     NotificationType = "packout_posted"
	NotificationTypeComplianceMissing NotificationType = "compliance_missing"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     string `gorm:"type:varchar(100);not null;index;column:user_id"`
	Type       string `gorm:"type:varchar(50);not null"`
	Title      string `gorm:"type:varchar(200);not null"`
	Message    string `gorm:"type:varchar(500);not null"`
	Read       bool   `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}
