package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Results    any   `json:"results"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// AuthUserDTO describes the current authenticated user
type AuthUserDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Roles           []string `json:"roles"`
	GrowerID        string   `json:"growerId,omitempty"`
	IsPlatformAdmin bool     `json:"isPlatformAdmin"`
	IsGrowerAdmin   bool     `json:"isGrowerAdmin"`
	CanWrite        bool     `json:"canWrite"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type FarmDTO struct {
	ID         uuid.UUID  `json:"id"`
	GrowerID   GrowerID   `json:"growerId"`
	Name       string     `json:"name"`
	County     string     `json:"county,omitempty"`
	Address    string     `json:"address,omitempty"`
	TotalAcres float64    `json:"totalAcres"`
	IsActive   bool       `json:"isActive"`
	Fields     []FieldDTO `json:"fields,omitempty"`
	CreatedAt  string     `json:"createdAt"` // ISO 8601
	UpdatedAt  string     `json:"updatedAt"` // ISO 8601
}

type FieldDTO struct {
	ID          uuid.UUID `json:"id"`
	FarmID      uuid.UUID `json:"farmId"`
	FarmName    string    `json:"farmName,omitempty"`
	Name        string    `json:"name"`
	Commodity   Commodity `json:"commodity"`
	Variety     string    `json:"variety,omitempty"`
	Acres       float64   `json:"acres"`
	PlantedYear *int      `json:"plantedYear,omitempty"`
	Rootstock   string    `json:"rootstock,omitempty"`
	IsActive    bool      `json:"isActive"`
}

type PackinghouseDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	City          string    `json:"city,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	FeedCode      string    `json:"feedCode,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type PoolDTO struct {
	ID               uuid.UUID  `json:"id"`
	PackinghouseID   uuid.UUID  `json:"packinghouseId"`
	PackinghouseName string     `json:"packinghouseName,omitempty"`
	Name             string     `json:"name"`
	Commodity        Commodity  `json:"commodity"`
	Season           string     `json:"season"`
	Status           PoolStatus `json:"status"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
}

type HarvestDTO struct {
	ID                 uuid.UUID     `json:"id"`
	FieldID            uuid.UUID     `json:"fieldId"`
	FarmName           string        `json:"farmName,omitempty"`
	FieldName          string        `json:"fieldName,omitempty"`
	HarvestDate        string        `json:"harvestDate"` // YYYY-MM-DD
	PickNumber         int           `json:"pickNumber"`
	Variety            string        `json:"variety,omitempty"`
	Acres              float64       `json:"acres"`
	TotalQuantity      float64       `json:"totalQuantity"`
	Unit               HarvestUnit   `json:"unit"`
	BinWeightLbs       float64       `json:"binWeightLbs"`
	Status             HarvestStatus `json:"status"`
	PHIVerified        bool          `json:"phiVerified"`
	EquipmentCleaned   bool          `json:"equipmentCleaned"`
	ContaminationCheck bool          `json:"contaminationCheck"`
	CrewNames          []string      `json:"crewNames,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	RecordedByName     string        `json:"recordedByName,omitempty"`
	CreatedAt          string        `json:"createdAt"`
	UpdatedAt          string        `json:"updatedAt"`
}

type DeliveryDTO struct {
	ID           uuid.UUID  `json:"id"`
	PoolID       uuid.UUID  `json:"poolId"`
	PoolName     string     `json:"poolName,omitempty"`
	FieldID      uuid.UUID  `json:"fieldId"`
	FieldName    string     `json:"fieldName,omitempty"`
	HarvestID    *uuid.UUID `json:"harvestId,omitempty"`
	TicketNumber string     `json:"ticketNumber"`
	DeliveryDate string     `json:"deliveryDate"` // YYYY-MM-DD
	Bins         float64    `json:"bins"`
	FieldBoxes   *float64   `json:"fieldBoxes,omitempty"`
	WeightLbs    *float64   `json:"weightLbs,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}

type LaborEntryDTO struct {
	ID        uuid.UUID `json:"id"`
	HarvestID uuid.UUID `json:"harvestId"`
	CrewName  string    `json:"crewName"`
	WorkDate  string    `json:"workDate"` // YYYY-MM-DD
	Bins      float64   `json:"bins"`
	Workers   int       `json:"workers"`
	Notes     string    `json:"notes,omitempty"`
}

type PackoutGradeLineDTO struct {
	Grade              string   `json:"grade"`
	Size               string   `json:"size"`
	Quantity           float64  `json:"quantity"`
	Percent            float64  `json:"percent"`
	CumulativeQuantity float64  `json:"cumulativeQuantity"`
	CumulativePercent  float64  `json:"cumulativePercent"`
	HouseAvgPercent    *float64 `json:"houseAvgPercent,omitempty"`
}

type PackoutReportDTO struct {
	ID              uuid.UUID             `json:"id"`
	PoolID          uuid.UUID             `json:"poolId"`
	FieldID         *uuid.UUID            `json:"fieldId,omitempty"`
	FieldName       string                `json:"fieldName,omitempty"`
	PeriodStart     string                `json:"periodStart"`
	PeriodEnd       string                `json:"periodEnd"`
	BinsThisPeriod  float64               `json:"binsThisPeriod"`
	BinsCumulative  float64               `json:"binsCumulative"`
	PackedPercent   float64               `json:"packedPercent"`
	HouseAvgPercent *float64              `json:"houseAvgPercent,omitempty"`
	GradeLines      []PackoutGradeLineDTO `json:"gradeLines,omitempty"`
	CreatedAt       string                `json:"createdAt"`
}

type SettlementGradeLineDTO struct {
	Grade       string  `json:"grade"`
	Size        string  `json:"size"`
	Quantity    float64 `json:"quantity"`
	Percent     float64 `json:"percent"`
	FOBRate     float64 `json:"fobRate"`
	TotalAmount float64 `json:"totalAmount"`
}

type SettlementDeductionDTO struct {
	Category    DeductionCategory `json:"category"`
	Description string            `json:"description,omitempty"`
	Quantity    float64           `json:"quantity"`
	Unit        string            `json:"unit,omitempty"`
	Rate        float64           `json:"rate"`
	Amount      float64           `json:"amount"`
}

type SettlementDTO struct {
	ID              uuid.UUID                `json:"id"`
	PoolID          uuid.UUID                `json:"poolId"`
	PoolName        string                   `json:"poolName,omitempty"`
	FieldID         *uuid.UUID               `json:"fieldId,omitempty"`
	StatementDate   string                   `json:"statementDate"`
	StatementNumber string                   `json:"statementNumber,omitempty"`
	TotalBins       float64                  `json:"totalBins"`
	TotalCredits    float64                  `json:"totalCredits"`
	TotalDeductions float64                  `json:"totalDeductions"`
	NetReturn       float64                  `json:"netReturn"`
	HouseAvgPerBin  *float64                 `json:"houseAvgPerBin,omitempty"`
	PriorAdvances   float64                  `json:"priorAdvances"`
	AmountDue       float64                  `json:"amountDue"`
	GradeLines      []SettlementGradeLineDTO `json:"gradeLines,omitempty"`
	Deductions      []SettlementDeductionDTO `json:"deductions,omitempty"`
	CreatedAt       string                   `json:"createdAt"`
}

// PoolSummaryDTO is the joint pool dashboard payload. Each section is loaded
// independently; a failed fetch leaves that section empty and flags it in
// Unavailable instead of failing the whole summary.
type PoolSummaryDTO struct {
	Pool           PoolDTO            `json:"pool"`
	Deliveries     []DeliveryDTO      `json:"deliveries"`
	PackoutReports []PackoutReportDTO `json:"packoutReports"`
	Settlements    []SettlementDTO    `json:"settlements"`
	TotalBins      float64            `json:"totalBins"`
	Unavailable    []string           `json:"unavailable,omitempty"`
}

// --- Requests ---

type CreateFarmRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	County     string  `json:"county" validate:"max=100"`
	Address    string  `json:"address" validate:"max=500"`
	TotalAcres float64 `json:"totalAcres" validate:"gte=0"`
}

type UpdateFarmRequest struct {
	Name       *string  `json:"name" validate:"omitempty,max=200"`
	County     *string  `json:"county" validate:"omitempty,max=100"`
	Address    *string  `json:"address" validate:"omitempty,max=500"`
	TotalAcres *float64 `json:"totalAcres" validate:"omitempty,gte=0"`
	IsActive   *bool    `json:"isActive"`
}

type CreateFieldRequest struct {
	FarmID      uuid.UUID `json:"farmId" validate:"required"`
	Name        string    `json:"name" validate:"required,max=200"`
	Commodity   Commodity `json:"commodity" validate:"required"`
	Variety     string    `json:"variety" validate:"max=100"`
	Acres       float64   `json:"acres" validate:"gte=0"`
	PlantedYear *int      `json:"plantedYear" validate:"omitempty,gte=1900,lte=2100"`
	Rootstock   string    `json:"rootstock" validate:"max=100"`
}

type CreatePackinghouseRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	City          string `json:"city" validate:"max=100"`
	ContactPerson string `json:"contactPerson" validate:"max=200"`
	ContactEmail  string `json:"contactEmail" validate:"omitempty,email,max=255"`
	ContactPhone  string `json:"contactPhone" validate:"max=50"`
	FeedCode      string `json:"feedCode" validate:"max=50"`
}

type CreatePoolRequest struct {
	PackinghouseID uuid.UUID `json:"packinghouseId" validate:"required"`
	Name           string    `json:"name" validate:"required,max=200"`
	Commodity      Commodity `json:"commodity" validate:"required"`
	Season         string    `json:"season" validate:"required,max=20"`
}

type CreateHarvestRequest struct {
	FieldID            uuid.UUID   `json:"fieldId" validate:"required"`
	HarvestDate        time.Time   `json:"harvestDate" validate:"required"`
	PickNumber         int         `json:"pickNumber" validate:"gte=1"`
	Variety            string      `json:"variety" validate:"max=100"`
	Acres              float64     `json:"acres" validate:"gte=0"`
	TotalQuantity      float64     `json:"totalQuantity" validate:"gte=0"`
	Unit               HarvestUnit `json:"unit" validate:"omitempty,oneof=BINS LBS"`
	BinWeightLbs       float64     `json:"binWeightLbs" validate:"gte=0"`
	PHIVerified        bool        `json:"phiVerified"`
	EquipmentCleaned   bool        `json:"equipmentCleaned"`
	ContaminationCheck bool        `json:"contaminationCheck"`
	CrewNames          []string    `json:"crewNames"`
	Notes              string      `json:"notes"`
}

type UpdateHarvestRequest struct {
	HarvestDate        *time.Time     `json:"harvestDate"`
	PickNumber         *int           `json:"pickNumber" validate:"omitempty,gte=1"`
	Variety            *string        `json:"variety" validate:"omitempty,max=100"`
	Acres              *float64       `json:"acres" validate:"omitempty,gte=0"`
	TotalQuantity      *float64       `json:"totalQuantity" validate:"omitempty,gte=0"`
	BinWeightLbs       *float64       `json:"binWeightLbs" validate:"omitempty,gte=0"`
	Status             *HarvestStatus `json:"status" validate:"omitempty,oneof=in_progress verified"`
	PHIVerified        *bool          `json:"phiVerified"`
	EquipmentCleaned   *bool          `json:"equipmentCleaned"`
	ContaminationCheck *bool          `json:"contaminationCheck"`
	Notes              *string        `json:"notes"`
}

type CreateDeliveryRequest struct {
	PoolID       uuid.UUID  `json:"poolId" validate:"required"`
	FieldID      uuid.UUID  `json:"fieldId" validate:"required"`
	HarvestID    *uuid.UUID `json:"harvestId"`
	TicketNumber string     `json:"ticketNumber" validate:"required,max=50"`
	DeliveryDate time.Time  `json:"deliveryDate" validate:"required"`
	Bins         float64    `json:"bins" validate:"gte=0"`
	FieldBoxes   *float64   `json:"fieldBoxes" validate:"omitempty,gte=0"`
	WeightLbs    *float64   `json:"weightLbs" validate:"omitempty,gte=0"`
	Notes        string     `json:"notes"`
}

type CreateLaborEntryRequest struct {
	HarvestID uuid.UUID `json:"harvestId" validate:"required"`
	CrewName  string    `json:"crewName" validate:"required,max=200"`
	WorkDate  time.Time `json:"workDate" validate:"required"`
	Bins      float64   `json:"bins" validate:"gte=0"`
	Workers   int       `json:"workers" validate:"gte=0"`
	Notes     string    `json:"notes"`
}

// CreatePackoutReportRequest carries an extracted packout statement. The
// extraction itself happens upstream; this payload is already structured.
type CreatePackoutReportRequest struct {
	PoolID          uuid.UUID                 `json:"poolId" validate:"required"`
	FieldID         *uuid.UUID                `json:"fieldId"`
	PeriodStart     time.Time                 `json:"periodStart" validate:"required"`
	PeriodEnd       time.Time                 `json:"periodEnd" validate:"required"`
	BinsThisPeriod  float64                   `json:"binsThisPeriod" validate:"gte=0"`
	BinsCumulative  float64                   `json:"binsCumulative" validate:"gte=0"`
	PackedPercent   float64                   `json:"packedPercent" validate:"gte=0,lte=100"`
	HouseAvgPercent *float64                  `json:"houseAvgPercent" validate:"omitempty,gte=0,lte=100"`
	GradeLines      []PackoutGradeLineRequest `json:"gradeLines" validate:"dive"`
}

type PackoutGradeLineRequest struct {
	Grade              string   `json:"grade" validate:"required,max=50"`
	Size               string   `json:"size" validate:"required,max=20"`
	Quantity           float64  `json:"quantity" validate:"gte=0"`
	Percent            float64  `json:"percent" validate:"gte=0,lte=100"`
	CumulativeQuantity float64  `json:"cumulativeQuantity" validate:"gte=0"`
	CumulativePercent  float64  `json:"cumulativePercent" validate:"gte=0,lte=100"`
	HouseAvgPercent    *float64 `json:"houseAvgPercent" validate:"omitempty,gte=0,lte=100"`
}

// CreateSettlementRequest carries an extracted settlement statement.
type CreateSettlementRequest struct {
	PoolID          uuid.UUID                    `json:"poolId" validate:"required"`
	FieldID         *uuid.UUID                   `json:"fieldId"`
	StatementDate   time.Time                    `json:"statementDate" validate:"required"`
	StatementNumber string                       `json:"statementNumber" validate:"max=50"`
	TotalBins       float64                      `json:"totalBins" validate:"gte=0"`
	TotalCredits    float64                      `json:"totalCredits" validate:"gte=0"`
	TotalDeductions float64                      `json:"totalDeductions" validate:"gte=0"`
	HouseAvgPerBin  *float64                     `json:"houseAvgPerBin"`
	PriorAdvances   float64                      `json:"priorAdvances" validate:"gte=0"`
	GradeLines      []SettlementGradeLineRequest `json:"gradeLines" validate:"dive"`
	Deductions      []SettlementDeductionRequest `json:"deductions" validate:"dive"`
}

type SettlementGradeLineRequest struct {
	Grade       string  `json:"grade" validate:"required,max=50"`
	Size        string  `json:"size" validate:"required,max=20"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Percent     float64 `json:"percent" validate:"gte=0,lte=100"`
	FOBRate     float64 `json:"fobRate" validate:"gte=0"`
	TotalAmount float64 `json:"totalAmount"`
}

type SettlementDeductionRequest struct {
	Category    DeductionCategory `json:"category" validate:"required"`
	Description string            `json:"description" validate:"max=500"`
	Quantity    float64           `json:"quantity" validate:"gte=0"`
	Unit        string            `json:"unit" validate:"max=20"`
	Rate        float64           `json:"rate"`
	Amount      float64           `json:"amount"`
}
