package mapper

import (
	"time"

	"github.com/groveline/orchard-api/internal/domain"
)

const (
	timestampFormat = "2006-01-02T15:04:05Z"
	dateFormat      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}

// ToFarmDTO converts Farm to FarmDTO
func ToFarmDTO(farm *domain.Farm) domain.FarmDTO {
	dto := domain.FarmDTO{
		ID:         farm.ID,
		GrowerID:   farm.GrowerID,
		Name:       farm.Name,
		County:     farm.County,
		Address:    farm.Address,
		TotalAcres: farm.TotalAcres,
		IsActive:   farm.IsActive,
		CreatedAt:  formatTimestamp(farm.CreatedAt),
		UpdatedAt:  formatTimestamp(farm.UpdatedAt),
	}
	for i := range farm.Fields {
		dto.Fields = append(dto.Fields, ToFieldDTO(&farm.Fields[i]))
	}
	return dto
}

// ToFieldDTO converts Field to FieldDTO
func ToFieldDTO(field *domain.Field) domain.FieldDTO {
	dto := domain.FieldDTO{
		ID:          field.ID,
		FarmID:      field.FarmID,
		Name:        field.Name,
		Commodity:   field.Commodity,
		Variety:     field.Variety,
		Acres:       field.Acres,
		PlantedYear: field.PlantedYear,
		Rootstock:   field.Rootstock,
		IsActive:    field.IsActive,
	}
	if field.Farm != nil {
		dto.FarmName = field.Farm.Name
	}
	return dto
}

// ToPackinghouseDTO converts Packinghouse to PackinghouseDTO
func ToPackinghouseDTO(house *domain.Packinghouse) domain.PackinghouseDTO {
	return domain.PackinghouseDTO{
		ID:            house.ID,
		Name:          house.Name,
		City:          house.City,
		ContactPerson: house.ContactPerson,
		ContactEmail:  house.ContactEmail,
		ContactPhone:  house.ContactPhone,
		FeedCode:      house.FeedCode,
		IsActive:      house.IsActive,
		CreatedAt:     formatTimestamp(house.CreatedAt),
		UpdatedAt:     formatTimestamp(house.UpdatedAt),
	}
}

// ToPoolDTO converts Pool to PoolDTO
func ToPoolDTO(pool *domain.Pool) domain.PoolDTO {
	dto := domain.PoolDTO{
		ID:             pool.ID,
		PackinghouseID: pool.PackinghouseID,
		Name:           pool.Name,
		Commodity:      pool.Commodity,
		Season:         pool.Season,
		Status:         pool.Status,
		CreatedAt:      formatTimestamp(pool.CreatedAt),
		UpdatedAt:      formatTimestamp(pool.UpdatedAt),
	}
	if pool.Packinghouse != nil {
		dto.PackinghouseName = pool.Packinghouse.Name
	}
	return dto
}

// ToHarvestDTO converts Harvest to HarvestDTO
func ToHarvestDTO(harvest *domain.Harvest) domain.HarvestDTO {
	dto := domain.HarvestDTO{
		ID:                 harvest.ID,
		FieldID:            harvest.FieldID,
		HarvestDate:        formatDate(harvest.HarvestDate),
		PickNumber:         harvest.PickNumber,
		Variety:            harvest.Variety,
		Acres:              harvest.Acres,
		TotalQuantity:      harvest.TotalQuantity,
		Unit:               harvest.Unit,
		BinWeightLbs:       harvest.BinWeightLbs,
		Status:             harvest.Status,
		PHIVerified:        harvest.PHIVerified,
		EquipmentCleaned:   harvest.EquipmentCleaned,
		ContaminationCheck: harvest.ContaminationCheck,
		CrewNames:          []string(harvest.CrewNames),
		Notes:              harvest.Notes,
		RecordedByName:     harvest.RecordedByName,
		CreatedAt:          formatTimestamp(harvest.CreatedAt),
		UpdatedAt:          formatTimestamp(harvest.UpdatedAt),
	}
	if harvest.Field != nil {
		dto.FieldName = harvest.Field.Name
		if harvest.Field.Farm != nil {
			dto.FarmName = harvest.Field.Farm.Name
		}
	}
	return dto
}

// ToDeliveryDTO converts Delivery to DeliveryDTO
func ToDeliveryDTO(delivery *domain.Delivery) domain.DeliveryDTO {
	dto := domain.DeliveryDTO{
		ID:           delivery.ID,
		PoolID:       delivery.PoolID,
		FieldID:      delivery.FieldID,
		HarvestID:    delivery.HarvestID,
		TicketNumber: delivery.TicketNumber,
		DeliveryDate: formatDate(delivery.DeliveryDate),
		Bins:         delivery.Bins,
		FieldBoxes:   delivery.FieldBoxes,
		WeightLbs:    delivery.WeightLbs,
		Notes:        delivery.Notes,
		CreatedAt:    formatTimestamp(delivery.CreatedAt),
		UpdatedAt:    formatTimestamp(delivery.UpdatedAt),
	}
	if delivery.Pool != nil {
		dto.PoolName = delivery.Pool.Name
	}
	if delivery.Field != nil {
		dto.FieldName = delivery.Field.Name
	}
	return dto
}

// ToLaborEntryDTO converts LaborEntry to LaborEntryDTO
func ToLaborEntryDTO(entry *domain.LaborEntry) domain.LaborEntryDTO {
	return domain.LaborEntryDTO{
		ID:        entry.ID,
		HarvestID: entry.HarvestID,
		CrewName:  entry.CrewName,
		WorkDate:  formatDate(entry.WorkDate),
		Bins:      entry.Bins,
		Workers:   entry.Workers,
		Notes:     entry.Notes,
	}
}

// ToPackoutReportDTO converts PackoutReport to PackoutReportDTO
func ToPackoutReportDTO(report *domain.PackoutReport) domain.PackoutReportDTO {
	dto := domain.PackoutReportDTO{
		ID:              report.ID,
		PoolID:          report.PoolID,
		FieldID:         report.FieldID,
		PeriodStart:     formatDate(report.PeriodStart),
		PeriodEnd:       formatDate(report.PeriodEnd),
		BinsThisPeriod:  report.BinsThisPeriod,
		BinsCumulative:  report.BinsCumulative,
		PackedPercent:   report.PackedPercent,
		HouseAvgPercent: report.HouseAvgPercent,
		CreatedAt:       formatTimestamp(report.CreatedAt),
	}
	if report.Field != nil {
		dto.FieldName = report.Field.Name
	}
	for i := range report.GradeLines {
		line := &report.GradeLines[i]
		dto.GradeLines = append(dto.GradeLines, domain.PackoutGradeLineDTO{
			Grade:              line.Grade,
			Size:               line.Size,
			Quantity:           line.Quantity,
			Percent:            line.Percent,
			CumulativeQuantity: line.CumulativeQuantity,
			CumulativePercent:  line.CumulativePercent,
			HouseAvgPercent:    line.HouseAvgPercent,
		})
	}
	return dto
}

// ToSettlementDTO converts Settlement to SettlementDTO
func ToSettlementDTO(settlement *domain.Settlement) domain.SettlementDTO {
	dto := domain.SettlementDTO{
		ID:              settlement.ID,
		PoolID:          settlement.PoolID,
		FieldID:         settlement.FieldID,
		StatementDate:   formatDate(settlement.StatementDate),
		StatementNumber: settlement.StatementNumber,
		TotalBins:       settlement.TotalBins,
		TotalCredits:    settlement.TotalCredits,
		TotalDeductions: settlement.TotalDeductions,
		NetReturn:       settlement.NetReturn,
		HouseAvgPerBin:  settlement.HouseAvgPerBin,
		PriorAdvances:   settlement.PriorAdvances,
		AmountDue:       settlement.AmountDue,
		CreatedAt:       formatTimestamp(settlement.CreatedAt),
	}
	if settlement.Pool != nil {
		dto.PoolName = settlement.Pool.Name
	}
	for i := range settlement.GradeLines {
		line := &settlement.GradeLines[i]
		dto.GradeLines = append(dto.GradeLines, domain.SettlementGradeLineDTO{
			Grade:       line.Grade,
			Size:        line.Size,
			Quantity:    line.Quantity,
			Percent:     line.Percent,
			FOBRate:     line.FOBRate,
			TotalAmount: line.TotalAmount,
		})
	}
	for i := range settlement.Deductions {
		ded := &settlement.Deductions[i]
		dto.Deductions = append(dto.Deductions, domain.SettlementDeductionDTO{
			Category:    ded.Category,
			Description: ded.Description,
			Quantity:    ded.Quantity,
			Unit:        ded.Unit,
			Rate:        ded.Rate,
			Amount:      ded.Amount,
		})
	}
	return dto
}
