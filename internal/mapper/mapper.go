package mapper

import (
	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
)

// ToAdminDTO converts Admin to AdminDTO. The password hash is never exposed.
func ToAdminDTO(admin *domain.Admin) domain.AdminDTO {
	return domain.AdminDTO{
		ID:        admin.ID,
		Name:      admin.Name,
		Email:     admin.Email,
		CreatedAt: admin.CreatedAt,
	}
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Company:   client.Company,
		Address:   client.Address,
		GSTNumber: client.GSTNumber,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// ToClientSummaryDTO converts Client to the summary embedded in other resources
func ToClientSummaryDTO(client *domain.Client) *domain.ClientSummaryDTO {
	if client == nil {
		return nil
	}
	return &domain.ClientSummaryDTO{
		ID:      client.ID,
		Name:    client.Name,
		Company: client.Company,
		Email:   client.Email,
		Phone:   client.Phone,
	}
}

// ToCrewDTO converts Crew to CrewDTO. The password hash is never exposed.
func ToCrewDTO(crew *domain.Crew) domain.CrewDTO {
	return domain.CrewDTO{
		ID:        crew.ID,
		Name:      crew.Name,
		Username:  crew.Username,
		IsActive:  crew.IsActive,
		CreatedAt: crew.CreatedAt,
		UpdatedAt: crew.UpdatedAt,
	}
}

// ToCrewSummaryDTO converts Crew to the summary embedded in other resources
func ToCrewSummaryDTO(crew *domain.Crew) domain.CrewSummaryDTO {
	return domain.CrewSummaryDTO{ID: crew.ID, Name: crew.Name, Username: crew.Username}
}

// ToVehicleDTO converts Vehicle to VehicleDTO
func ToVehicleDTO(vehicle *domain.Vehicle) domain.VehicleDTO {
	return domain.VehicleDTO{
		ID:                 vehicle.ID,
		Name:               vehicle.Name,
		Type:               string(vehicle.Type),
		RegistrationNumber: vehicle.RegistrationNumber,
		Model:              vehicle.Model,
		Year:               vehicle.Year,
		Status:             string(vehicle.Status),
		InsuranceExpiry:    vehicle.InsuranceExpiry,
		PollutionExpiry:    vehicle.PollutionExpiry,
		ServiceDueDate:     vehicle.ServiceDueDate,
		CreatedAt:          vehicle.CreatedAt,
		UpdatedAt:          vehicle.UpdatedAt,
	}
}

// ToVehicleSummaryDTO converts Vehicle to the summary embedded in other resources
func ToVehicleSummaryDTO(vehicle *domain.Vehicle) *domain.VehicleSummaryDTO {
	if vehicle == nil {
		return nil
	}
	return &domain.VehicleSummaryDTO{
		ID:                 vehicle.ID,
		Name:               vehicle.Name,
		RegistrationNumber: vehicle.RegistrationNumber,
		Type:               string(vehicle.Type),
	}
}

// ToInstrumentDTO converts Instrument to InstrumentDTO
func ToInstrumentDTO(instrument *domain.Instrument) domain.InstrumentDTO {
	return domain.InstrumentDTO{
		ID:             instrument.ID,
		Name:           instrument.Name,
		Type:           instrument.Type,
		SerialNumber:   instrument.SerialNumber,
		Status:         string(instrument.Status),
		LastServicedOn: instrument.LastServicedOn,
		CreatedAt:      instrument.CreatedAt,
		UpdatedAt:      instrument.UpdatedAt,
	}
}

// ToInstrumentSummaryDTO converts Instrument to the summary embedded in sites
func ToInstrumentSummaryDTO(instrument *domain.Instrument) domain.InstrumentSummaryDTO {
	return domain.InstrumentSummaryDTO{
		ID:           instrument.ID,
		Name:         instrument.Name,
		SerialNumber: instrument.SerialNumber,
		Status:       string(instrument.Status),
	}
}

// ToSiteDTO converts Site to SiteDTO without expansions
func ToSiteDTO(site *domain.Site) domain.SiteDTO {
	return domain.SiteDTO{
		ID:            site.ID,
		Name:          site.Name,
		Address:       site.Address,
		City:          site.City,
		State:         site.State,
		LocationURL:   site.LocationURL,
		StartDate:     site.StartDate,
		EndDate:       site.EndDate,
		Status:        string(site.Status),
		ClientID:      site.ClientID,
		VehicleID:     site.VehicleID,
		BillID:        site.BillID,
		CrewIDs:       nonNilIDs(site.CrewIDs),
		InstrumentIDs: nonNilIDs(site.InstrumentIDs),
		CreatedAt:     site.CreatedAt,
		UpdatedAt:     site.UpdatedAt,
	}
}

// ToSiteSummaryDTO converts Site to the summary embedded in bills and expenses
func ToSiteSummaryDTO(site *domain.Site) domain.SiteSummaryDTO {
	return domain.SiteSummaryDTO{
		ID:     site.ID,
		Name:   site.Name,
		City:   site.City,
		Status: string(site.Status),
	}
}

// ToBillDTO converts Bill and its items to BillDTO
func ToBillDTO(bill *domain.Bill) domain.BillDTO {
	items := make([]domain.BillItemDTO, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = domain.BillItemDTO{
			SiteID:      item.SiteID,
			SiteName:    item.SiteName,
			Description: item.Description,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}
	return domain.BillDTO{
		ID:             bill.ID,
		CustomerID:     bill.CustomerID,
		BillNumber:     bill.BillNumber,
		BillDate:       bill.BillDate,
		SiteIDs:        nonNilIDs(bill.SiteIDs),
		Items:          items,
		Subtotal:       bill.Subtotal,
		IsGSTBill:      bill.IsGSTBill,
		StateGST:       bill.StateGST,
		CentralGST:     bill.CentralGST,
		TotalTaxAmount: bill.TotalTaxAmount,
		TotalAmount:    bill.TotalAmount,
		PaymentStatus:  string(bill.PaymentStatus),
		Notes:          bill.Notes,
		CreatedAt:      bill.CreatedAt,
		UpdatedAt:      bill.UpdatedAt,
	}
}

// ToBillSummaryDTO converts Bill to the summary embedded in sites
func ToBillSummaryDTO(bill *domain.Bill) *domain.BillSummaryDTO {
	if bill == nil {
		return nil
	}
	return &domain.BillSummaryDTO{
		ID:            bill.ID,
		BillNumber:    bill.BillNumber,
		TotalAmount:   bill.TotalAmount,
		PaymentStatus: string(bill.PaymentStatus),
	}
}

// ToBillItems converts request items to models in request order
func ToBillItems(reqs []domain.BillItemRequest) []domain.BillItem {
	items := make([]domain.BillItem, len(reqs))
	for i, req := range reqs {
		items[i] = domain.BillItem{
			Position:    i,
			SiteID:      req.SiteID,
			SiteName:    req.SiteName,
			Description: req.Description,
			Rate:        req.Rate,
			Amount:      req.Amount,
		}
	}
	return items
}

// ToExpenseDTO converts Expense to ExpenseDTO without expansions
func ToExpenseDTO(expense *domain.Expense) domain.ExpenseDTO {
	return domain.ExpenseDTO{
		ID:          expense.ID,
		Type:        string(expense.Type),
		SiteID:      expense.SiteID,
		CrewID:      expense.CrewID,
		Amount:      expense.Amount,
		Description: expense.Description,
		ExpenseDate: expense.ExpenseDate,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}

// ToEnquiryDTO converts Enquiry to EnquiryDTO
func ToEnquiryDTO(enquiry *domain.Enquiry) domain.EnquiryDTO {
	return domain.EnquiryDTO{
		ID:            enquiry.ID,
		Subject:       enquiry.Subject,
		Message:       enquiry.Message,
		Status:        string(enquiry.Status),
		FollowUpDate:  enquiry.FollowUpDate,
		ResponseNotes: enquiry.ResponseNotes,
		CreatedAt:     enquiry.CreatedAt,
		UpdatedAt:     enquiry.UpdatedAt,
	}
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
