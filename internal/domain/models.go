package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the identity and timestamps shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the caller has not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// OwnedModel is a BaseModel partitioned by its owning admin
type OwnedModel struct {
	BaseModel
	AdminID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// Admin is the tenant root. Every other entity is owned by exactly one admin.
type Admin struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
}

// Client is a customer of the surveying business
type Client struct {
	OwnedModel
	Name      string `gorm:"type:varchar(255);not null"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
	Company   string `gorm:"type:varchar(255)"`
	Address   string `gorm:"type:text"`
	GSTNumber string `gorm:"type:varchar(50);column:gst_number"`
	Notes     string `gorm:"type:text"`
}

// Crew is a field worker. Username is unique per admin.
type Crew struct {
	BaseModel
	AdminID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_crews_admin_username,priority:1"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_crews_admin_username,priority:2"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash"`
	IsActive     bool      `gorm:"not null;column:is_active"`
}

// TableName keeps the plural the API uses
func (Crew) TableName() string {
	return "crews"
}

// VehicleType classifies a vehicle
type VehicleType string

const (
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeTruck VehicleType = "truck"
	VehicleTypeVan   VehicleType = "van"
	VehicleTypeBike  VehicleType = "bike"
	VehicleTypeOther VehicleType = "other"
)

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

// Vehicle is a company vehicle. Registration numbers are globally unique.
type Vehicle struct {
	OwnedModel
	Name               string        `gorm:"type:varchar(100);not null"`
	Type               VehicleType   `gorm:"type:varchar(20);not null"`
	RegistrationNumber string        `gorm:"type:varchar(50);not null;uniqueIndex;column:registration_number"`
	Model              string        `gorm:"type:varchar(100)"`
	Year               *int          `gorm:"type:int"`
	Status             VehicleStatus `gorm:"type:varchar(20);not null;default:'active'"`
	InsuranceExpiry    *time.Time    `gorm:"column:insurance_expiry"`
	PollutionExpiry    *time.Time    `gorm:"column:pollution_expiry"`
	ServiceDueDate     *time.Time    `gorm:"column:service_due_date"`
}

// InstrumentStatus tracks availability of survey equipment
type InstrumentStatus string

const (
	InstrumentStatusAvailable InstrumentStatus = "available"
	InstrumentStatusInUse     InstrumentStatus = "in-use"
	InstrumentStatusRepair    InstrumentStatus = "repair"
	InstrumentStatusLost      InstrumentStatus = "lost"
)

// Instrument is a piece of survey equipment. Serial numbers are globally
// unique. Status follows site membership.
type Instrument struct {
	OwnedModel
	Name           string           `gorm:"type:varchar(100);not null"`
	Type           string           `gorm:"type:varchar(100);not null"`
	SerialNumber   string           `gorm:"type:varchar(100);not null;uniqueIndex;column:serial_number"`
	Status         InstrumentStatus `gorm:"type:varchar(20);not null;default:'available'"`
	LastServicedOn *time.Time       `gorm:"column:last_serviced_on"`
}

// SiteStatus is a workflow marker advanced by billing events
type SiteStatus string

const (
	SiteStatusPending          SiteStatus = "PENDING"
	SiteStatusOnSiteCompleted  SiteStatus = "ON SITE COMPLETED"
	SiteStatusDrawingCompleted SiteStatus = "DRAWING COMPLETED"
	SiteStatusBillSubmitted    SiteStatus = "BILL SUBMITTED"
	SiteStatusBillPaid         SiteStatus = "BILL PAID"
	SiteStatusProjectCompleted SiteStatus = "PROJECT COMPLETED"
)

// SiteStatuses lists every site status in workflow order
var SiteStatuses = []SiteStatus{
	SiteStatusPending,
	SiteStatusOnSiteCompleted,
	SiteStatusDrawingCompleted,
	SiteStatusBillSubmitted,
	SiteStatusBillPaid,
	SiteStatusProjectCompleted,
}

// IsValid reports whether s is a known site status
func (s SiteStatus) IsValid() bool {
	for _, known := range SiteStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Site is a field project location
type Site struct {
	OwnedModel
	ClientID      *uuid.UUID  `gorm:"type:uuid;index"`
	VehicleID     *uuid.UUID  `gorm:"type:uuid"`
	BillID        *uuid.UUID  `gorm:"type:uuid;index"`
	Name          string      `gorm:"type:varchar(255);not null"`
	Address       string      `gorm:"type:text;not null"`
	City          string      `gorm:"type:varchar(100);not null"`
	State         string      `gorm:"type:varchar(100);not null"`
	LocationURL   string      `gorm:"type:text;column:location_url"`
	StartDate     time.Time   `gorm:"not null;index"`
	EndDate       *time.Time  `gorm:""`
	Status        SiteStatus  `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	CrewIDs       []uuid.UUID `gorm:"type:text;serializer:json;column:crew_ids"`
	InstrumentIDs []uuid.UUID `gorm:"type:text;serializer:json;column:instrument_ids"`
}

// PaymentStatus of a bill
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// SiteStatusFor derives the status a billed site takes from its bill
func SiteStatusFor(status PaymentStatus) SiteStatus {
	if status == PaymentStatusPaid {
		return SiteStatusBillPaid
	}
	return SiteStatusBillSubmitted
}

// Bill is an invoice covering one or more sites. Subtotal, tax and total
// are always derived from the items.
type Bill struct {
	BaseModel
	AdminID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_bills_admin_number,priority:1"`
	CustomerID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	BillNumber     string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_bills_admin_number,priority:2;column:bill_number"`
	BillDate       time.Time     `gorm:"not null;index;column:bill_date"`
	SiteIDs        []uuid.UUID   `gorm:"type:text;serializer:json;column:site_ids"`
	Items          []BillItem    `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	Subtotal       float64       `gorm:"type:numeric(14,2);not null;default:0"`
	IsGSTBill      bool          `gorm:"not null;default:false;column:is_gst_bill"`
	StateGST       float64       `gorm:"type:numeric(5,2);not null;default:0;column:state_gst"`
	CentralGST     float64       `gorm:"type:numeric(5,2);not null;default:0;column:central_gst"`
	TotalTaxAmount float64       `gorm:"type:numeric(14,2);not null;default:0;column:total_tax_amount"`
	TotalAmount    float64       `gorm:"type:numeric(14,2);not null;default:0;column:total_amount"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';column:payment_status"`
	Notes          string        `gorm:"type:text"`
}

// BillItem is one line of a bill, tied to a site
type BillItem struct {
	BaseModel
	BillID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null;default:0"`
	SiteID      uuid.UUID `gorm:"type:uuid;not null"`
	SiteName    string    `gorm:"type:varchar(255);column:site_name"`
	Description string    `gorm:"type:text"`
	Rate        float64   `gorm:"type:numeric(14,2);not null;default:0"`
	Amount      float64   `gorm:"type:numeric(14,2);not null;default:0"`
}

// ExpenseType categorises spending
type ExpenseType string

const (
	ExpenseTypeFuel   ExpenseType = "FUEL"
	ExpenseTypeFood   ExpenseType = "FOOD"
	ExpenseTypeSalary ExpenseType = "SALARY"
	ExpenseTypeOthers ExpenseType = "OTHERS"
)

// Expense is money spent, optionally against a site or crew member
type Expense struct {
	OwnedModel
	Type        ExpenseType `gorm:"type:varchar(20);not null;index"`
	SiteID      *uuid.UUID  `gorm:"type:uuid;index"`
	CrewID      *uuid.UUID  `gorm:"type:uuid;index"`
	Amount      float64     `gorm:"type:numeric(14,2);not null;default:0"`
	Description string      `gorm:"type:text"`
	ExpenseDate time.Time   `gorm:"not null;index;column:expense_date"`
}

// EnquiryStatus tracks a sales enquiry
type EnquiryStatus string

const (
	EnquiryStatusNew        EnquiryStatus = "new"
	EnquiryStatusInProgress EnquiryStatus = "in-progress"
	EnquiryStatusCompleted  EnquiryStatus = "completed"
	EnquiryStatusClosed     EnquiryStatus = "closed"
)

// Enquiry is an inbound sales request
type Enquiry struct {
	OwnedModel
	Subject       string        `gorm:"type:varchar(255);not null"`
	Message       string        `gorm:"type:text;not null"`
	Status        EnquiryStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	FollowUpDate  *time.Time    `gorm:"column:follow_up_date"`
	ResponseNotes string        `gorm:"type:text;column:response_notes"`
}

// TableName keeps the plural the API uses
func (Enquiry) TableName() string {
	return "enquiries"
}

// Owned is implemented by every admin-partitioned model
type Owned interface {
	SetOwner(adminID uuid.UUID)
}

func (o *OwnedModel) SetOwner(adminID uuid.UUID) { o.AdminID = adminID }
func (c *Crew) SetOwner(adminID uuid.UUID) { c.AdminID = adminID }
func (b *Bill) SetOwner(adminID uuid.UUID) { b.AdminID = adminID }
