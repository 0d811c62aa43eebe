package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Envelope
// ============================================================================

// Response is the success envelope
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a sliced list result
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total / limit)
func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// PaginatedResponse is a page of DTOs returned by list services
type PaginatedResponse struct {
	Data       interface{}
	Pagination *Pagination
}

// ============================================================================
// Auth
// ============================================================================

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AdminDTO `json:"user"`
}

// ============================================================================
// Clients
// ============================================================================

type CreateClientRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"max=50"`
	Company   string `json:"company" validate:"max=255"`
	Address   string `json:"address" validate:"max=1000"`
	GSTNumber string `json:"gstNumber" validate:"max=50"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Company   *string `json:"company" validate:"omitempty,max=255"`
	Address   *string `json:"address" validate:"omitempty,max=1000"`
	GSTNumber *string `json:"gstNumber" validate:"omitempty,max=50"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

type ClientDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Company   string          `json:"company,omitempty"`
	Address   string          `json:"address,omitempty"`
	GSTNumber string          `json:"gstNumber,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Stats     *ClientStatsDTO `json:"stats,omitempty"`
}

type ClientStatsDTO struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalBills        int     `json:"totalBills"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PaidAmount        float64 `json:"paidAmount"`
	PendingAmount     float64 `json:"pendingAmount"`
}

type ClientSummaryDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Company string    `json:"company,omitempty"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
}

// ============================================================================
// Crews
// ============================================================================

type CreateCrewRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	IsActive *bool  `json:"isActive"`
}

type UpdateCrewRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	IsActive *bool   `json:"isActive"`
}

type CrewDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CrewSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

// ============================================================================
// Vehicles
// ============================================================================

type CreateVehicleRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	Type               string `json:"type" validate:"required,oneof=car truck van bike other"`
	RegistrationNumber string `json:"registrationNumber" validate:"required,max=50"`
	Model              string `json:"model" validate:"max=100"`
	Year               *int   `json:"year" validate:"omitempty,gte=1900"`
	Status             string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
	InsuranceExpiry    *Date  `json:"insuranceExpiry"`
	PollutionExpiry    *Date  `json:"pollutionExpiry"`
	ServiceDueDate     *Date  `json:"serviceDueDate"`
}

type UpdateVehicleRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=100"`
	Type               *string `json:"type" validate:"omitempty,oneof=car truck van bike other"`
	RegistrationNumber *string `json:"registrationNumber" validate:"omitempty,min=1,max=50"`
	Model              *string `json:"model" validate:"omitempty,max=100"`
	Year               *int    `json:"year" validate:"omitempty,gte=1900"`
	Status             *string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
	InsuranceExpiry    *Date   `json:"insuranceExpiry"`
	PollutionExpiry    *Date   `json:"pollutionExpiry"`
	ServiceDueDate     *Date   `json:"serviceDueDate"`
}

type VehicleDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	RegistrationNumber string     `json:"registrationNumber"`
	Model              string     `json:"model,omitempty"`
	Year               *int       `json:"year,omitempty"`
	Status             string     `json:"status"`
	InsuranceExpiry    *time.Time `json:"insuranceExpiry,omitempty"`
	PollutionExpiry    *time.Time `json:"pollutionExpiry,omitempty"`
	ServiceDueDate     *time.Time `json:"serviceDueDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type VehicleSummaryDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber"`
	Type               string    `json:"type"`
}

// ============================================================================
// Instruments
// ============================================================================

type CreateInstrumentRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Type           string `json:"type" validate:"required,max=100"`
	SerialNumber   string `json:"serialNumber" validate:"required,max=100"`
	Status         string `json:"status" validate:"omitempty,oneof=available in-use repair lost"`
	LastServicedOn *Date  `json:"lastServicedOn"`
}

type UpdateInstrumentRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	Type           *string `json:"type" validate:"omitempty,min=1,max=100"`
	SerialNumber   *string `json:"serialNumber" validate:"omitempty,min=1,max=100"`
	Status         *string `json:"status" validate:"omitempty,oneof=available in-use repair lost"`
	LastServicedOn *Date   `json:"lastServicedOn"`
}

type InstrumentDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	SerialNumber   string     `json:"serialNumber"`
	Status         string     `json:"status"`
	LastServicedOn *time.Time `json:"lastServicedOn,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type InstrumentSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serialNumber"`
	Status       string    `json:"status"`
}

// ============================================================================
// Sites
// ============================================================================

type CreateSiteRequest struct {
	Name          string      `json:"name" validate:"required,max=255"`
	Address       string      `json:"address" validate:"required,max=1000"`
	City          string      `json:"city" validate:"required,max=100"`
	State         string      `json:"state" validate:"required,max=100"`
	LocationURL   string      `json:"locationUrl" validate:"omitempty,url"`
	StartDate     *Date       `json:"startDate" validate:"required"`
	EndDate       *Date       `json:"endDate"`
	Status        string      `json:"status" validate:"omitempty,sitestatus"`
	ClientID      *uuid.UUID  `json:"clientId"`
	VehicleID     *uuid.UUID  `json:"vehicleId"`
	BillID        *uuid.UUID  `json:"billId"`
	CrewIDs       []uuid.UUID `json:"crewIds"`
	InstrumentIDs []uuid.UUID `json:"instrumentIds"`
}

type UpdateSiteRequest struct {
	Name          *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Address       *string      `json:"address" validate:"omitempty,min=1,max=1000"`
	City          *string      `json:"city" validate:"omitempty,min=1,max=100"`
	State         *string      `json:"state" validate:"omitempty,min=1,max=100"`
	LocationURL   *string      `json:"locationUrl" validate:"omitempty,url"`
	StartDate     *Date        `json:"startDate"`
	EndDate       *Date        `json:"endDate"`
	Status        *string      `json:"status" validate:"omitempty,sitestatus"`
	ClientID      *uuid.UUID   `json:"clientId"`
	VehicleID     *uuid.UUID   `json:"vehicleId"`
	CrewIDs       *[]uuid.UUID `json:"crewIds"`
	InstrumentIDs *[]uuid.UUID `json:"instrumentIds"`
}

type SiteDTO struct {
	ID            uuid.UUID              `json:"id"`
	Name          string                 `json:"name"`
	Address       string                 `json:"address"`
	City          string                 `json:"city"`
	State         string                 `json:"state"`
	LocationURL   string                 `json:"locationUrl,omitempty"`
	StartDate     time.Time              `json:"startDate"`
	EndDate       *time.Time             `json:"endDate,omitempty"`
	Status        string                 `json:"status"`
	ClientID      *uuid.UUID             `json:"clientId,omitempty"`
	VehicleID     *uuid.UUID             `json:"vehicleId,omitempty"`
	BillID        *uuid.UUID             `json:"billId,omitempty"`
	CrewIDs       []uuid.UUID            `json:"crewIds"`
	InstrumentIDs []uuid.UUID            `json:"instrumentIds"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	Client        *ClientSummaryDTO      `json:"client,omitempty"`
	Vehicle       *VehicleSummaryDTO     `json:"vehicle,omitempty"`
	Bill          *BillSummaryDTO        `json:"bill,omitempty"`
	Crews         []CrewSummaryDTO       `json:"crews,omitempty"`
	Instruments   []InstrumentSummaryDTO `json:"instruments,omitempty"`
}

type SiteSummaryDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	City   string    `json:"city"`
	Status string    `json:"status"`
}

// ============================================================================
// Bills
// ============================================================================

type BillItemRequest struct {
	SiteID      uuid.UUID `json:"siteId" validate:"required"`
	SiteName    string    `json:"siteName" validate:"max=255"`
	Description string    `json:"description" validate:"max=1000"`
	Rate        float64   `json:"rate" validate:"gte=0"`
	Amount      float64   `json:"amount" validate:"gte=0"`
}

type CreateBillRequest struct {
	CustomerID    uuid.UUID         `json:"customerId" validate:"required"`
	BillNumber    string            `json:"billNumber" validate:"required,max=50"`
	BillDate      *Date             `json:"billDate" validate:"required"`
	Items         []BillItemRequest `json:"items" validate:"required,min=1,dive"`
	IsGSTBill     bool              `json:"isGSTBill"`
	StateGST      float64           `json:"stateGST" validate:"gte=0,lte=100"`
	CentralGST    float64           `json:"centralGST" validate:"gte=0,lte=100"`
	PaymentStatus string            `json:"paymentStatus" validate:"omitempty,oneof=UNPAID PARTIAL PAID"`
	Notes         string            `json:"notes" validate:"max=2000"`
}

type UpdateBillRequest struct {
	CustomerID    *uuid.UUID         `json:"customerId"`
	BillNumber    *string            `json:"billNumber" validate:"omitempty,min=1,max=50"`
	BillDate      *Date              `json:"billDate"`
	Items         *[]BillItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	IsGSTBill     *bool              `json:"isGSTBill"`
	StateGST      *float64           `json:"stateGST" validate:"omitempty,gte=0,lte=100"`
	CentralGST    *float64           `json:"centralGST" validate:"omitempty,gte=0,lte=100"`
	PaymentStatus *string            `json:"paymentStatus" validate:"omitempty,oneof=UNPAID PARTIAL PAID"`
	Notes         *string            `json:"notes" validate:"omitempty,max=2000"`
}

type BillItemDTO struct {
	SiteID      uuid.UUID `json:"siteId"`
	SiteName    string    `json:"siteName,omitempty"`
	Description string    `json:"description,omitempty"`
	Rate        float64   `json:"rate"`
	Amount      float64   `json:"amount"`
}

type BillDTO struct {
	ID             uuid.UUID         `json:"id"`
	CustomerID     uuid.UUID         `json:"customerId"`
	Customer       *ClientSummaryDTO `json:"customer,omitempty"`
	BillNumber     string            `json:"billNumber"`
	BillDate       time.Time         `json:"billDate"`
	SiteIDs        []uuid.UUID       `json:"siteIds"`
	Sites          []SiteSummaryDTO  `json:"sites,omitempty"`
	Items          []BillItemDTO     `json:"items"`
	Subtotal       float64           `json:"subtotal"`
	IsGSTBill      bool              `json:"isGSTBill"`
	StateGST       float64           `json:"stateGST"`
	CentralGST     float64           `json:"centralGST"`
	TotalTaxAmount float64           `json:"totalTaxAmount"`
	TotalAmount    float64           `json:"totalAmount"`
	PaymentStatus  string            `json:"paymentStatus"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type BillSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	BillNumber    string    `json:"billNumber"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentStatus string    `json:"paymentStatus"`
}

type NextBillNumberDTO struct {
	NextBillNumber string `json:"nextBillNumber"`
}

// ============================================================================
// Expenses
// ============================================================================

type CreateExpenseRequest struct {
	Type        string     `json:"type" validate:"required,oneof=FUEL FOOD SALARY OTHERS"`
	SiteID      *uuid.UUID `json:"siteId"`
	CrewID      *uuid.UUID `json:"crewId"`
	Amount      *float64   `json:"amount" validate:"required,gte=0"`
	Description string     `json:"description" validate:"max=1000"`
	ExpenseDate *Date      `json:"expenseDate" validate:"required"`
}

type UpdateExpenseRequest struct {
	Type        *string    `json:"type" validate:"omitempty,oneof=FUEL FOOD SALARY OTHERS"`
	SiteID      *uuid.UUID `json:"siteId"`
	CrewID      *uuid.UUID `json:"crewId"`
	Amount      *float64   `json:"amount" validate:"omitempty,gte=0"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	ExpenseDate *Date      `json:"expenseDate"`
}

type ExpenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	SiteID      *uuid.UUID      `json:"siteId,omitempty"`
	CrewID      *uuid.UUID      `json:"crewId,omitempty"`
	Site        *SiteSummaryDTO `json:"site,omitempty"`
	Crew        *CrewSummaryDTO `json:"crew,omitempty"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description,omitempty"`
	ExpenseDate time.Time       `json:"expenseDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ============================================================================
// Enquiries
// ============================================================================

type CreateEnquiryRequest struct {
	Subject       string `json:"subject" validate:"required,max=255"`
	Message       string `json:"message" validate:"required,max=5000"`
	Status        string `json:"status" validate:"omitempty,oneof=new in-progress completed closed"`
	FollowUpDate  *Date  `json:"followUpDate"`
	ResponseNotes string `json:"responseNotes" validate:"max=5000"`
}

type UpdateEnquiryRequest struct {
	Subject       *string `json:"subject" validate:"omitempty,min=1,max=255"`
	Message       *string `json:"message" validate:"omitempty,min=1,max=5000"`
	Status        *string `json:"status" validate:"omitempty,oneof=new in-progress completed closed"`
	FollowUpDate  *Date   `json:"followUpDate"`
	ResponseNotes *string `json:"responseNotes" validate:"omitempty,max=5000"`
}

type EnquiryDTO struct {
	ID            uuid.UUID  `json:"id"`
	Subject       string     `json:"subject"`
	Message       string     `json:"message"`
	Status        string     `json:"status"`
	FollowUpDate  *time.Time `json:"followUpDate,omitempty"`
	ResponseNotes string     `json:"responseNotes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ============================================================================
// Dashboard
// ============================================================================

type RevenuePointDTO struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
	BillCount int     `json:"billCount"`
}

type RevenueTotalsDTO struct {
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
	BillCount int     `json:"billCount"`
}

type RevenueChartDTO struct {
	Period    string            `json:"period"`
	GroupBy   string            `json:"groupBy"`
	StartDate *time.Time        `json:"startDate"`
	EndDate   time.Time         `json:"endDate"`
	Data      []RevenuePointDTO `json:"data"`
	Totals    RevenueTotalsDTO  `json:"totals"`
}

type SiteStatusCountDTO struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SiteStatusDistributionDTO struct {
	Total    int                  `json:"total"`
	Statuses []SiteStatusCountDTO `json:"statuses"`
}

type ExpenseTypeTotalDTO struct {
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

type ExpenseBreakdownDTO struct {
	Period string                `json:"period"`
	ByType []ExpenseTypeTotalDTO `json:"byType"`
	Total  float64               `json:"total"`
}

type TopClientDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Company           string    `json:"company,omitempty"`
	TotalProjects     int       `json:"totalProjects"`
	CompletedProjects int       `json:"completedProjects"`
	ActiveProjects    int       `json:"activeProjects"`
	TotalRevenue      float64   `json:"totalRevenue"`
	PaidAmount        float64   `json:"paidAmount"`
	PendingAmount     float64   `json:"pendingAmount"`
}

type VehicleReminderDTO struct {
	VehicleID          uuid.UUID `json:"vehicleId"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber"`
	Kind               string    `json:"kind"`
	DueDate            time.Time `json:"dueDate"`
	DaysLeft           int       `json:"daysLeft"`
}

type InstrumentReminderDTO struct {
	InstrumentID   uuid.UUID  `json:"instrumentId"`
	Name           string     `json:"name"`
	SerialNumber   string     `json:"serialNumber"`
	LastServicedOn *time.Time `json:"lastServicedOn"`
}

type EnquiryReminderDTO struct {
	EnquiryID    uuid.UUID `json:"enquiryId"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	FollowUpDate time.Time `json:"followUpDate"`
}

type RemindersDTO struct {
	WindowDays  int                     `json:"windowDays"`
	Vehicles    []VehicleReminderDTO    `json:"vehicles"`
	Instruments []InstrumentReminderDTO `json:"instruments"`
	Enquiries   []EnquiryReminderDTO    `json:"enquiries"`
}
