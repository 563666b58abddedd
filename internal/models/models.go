package models

import "time"

// Status values shared by most entities
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Category is a service category shown in the marketplace
type Category struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name" validate:"nonblank,min=2,max=100"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	Image       string     `json:"image,omitempty" validate:"omitempty,absurl"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Pincode is a serviceable area
type Pincode struct {
	ID        string     `json:"id,omitempty"`
	Pincode   string     `json:"pincode" validate:"nonblank,pincode"`
	AreaName  string     `json:"areaName" validate:"nonblank,min=2"`
	City      string     `json:"city,omitempty"`
	State     string     `json:"state,omitempty"`
	Status    string     `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Feature is a short line on a plan card
type Feature struct {
	Name     string `json:"name" validate:"nonblank,max=100"`
	Included bool   `json:"included"`
}

// FullFeature is a longer description line on a plan detail page
type FullFeature struct {
	Text string `json:"text" validate:"nonblank,max=500"`
}

// SubscriptionPlan is a technician/franchise subscription plan.
// DiscountPercentage, GSTAmount and FinalPrice are derived from the
// price fields and sent as plain values on save.
type SubscriptionPlan struct {
	ID                 string        `json:"id,omitempty"`
	Name               string        `json:"name" validate:"nonblank,min=3,max=100"`
	Description        string        `json:"description,omitempty" validate:"max=1000"`
	Duration           string        `json:"duration,omitempty" validate:"omitempty,oneof=monthly quarterly halfyearly yearly"`
	OriginalPrice      float64       `json:"originalPrice" validate:"gte=0"`
	Price              float64       `json:"price" validate:"gte=0"`
	DiscountPercentage *float64      `json:"discountPercentage"`
	GSTPercentage      float64       `json:"gstPercentage" validate:"gte=0"`
	GSTAmount          float64       `json:"gstAmount"`
	FinalPrice         float64       `json:"finalPrice"`
	CommissionAmount   float64       `json:"commissionAmount" validate:"gte=0"`
	Features           []Feature     `json:"features" validate:"dive"`
	FullFeatures       []FullFeature `json:"fullFeatures" validate:"dive"`
	IsPopular          bool          `json:"isPopular"`
	Status             string        `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	CreatedAt          *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time    `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no slices with p
func (p SubscriptionPlan) Clone() SubscriptionPlan {
	out := p
	if p.DiscountPercentage != nil {
		d := *p.DiscountPercentage
		out.DiscountPercentage = &d
	}
	if p.Features != nil {
		out.Features = append([]Feature(nil), p.Features...)
	}
	if p.FullFeatures != nil {
		out.FullFeatures = append([]FullFeature(nil), p.FullFeatures...)
	}
	return out
}

// User is a marketplace customer
type User struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name" validate:"nonblank,min=2"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string     `json:"phone" validate:"nonblank,phone"`
	Password  string     `json:"password,omitempty" validate:"omitempty,min=6"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Technician is a service provider registered by an admin
type Technician struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name" validate:"nonblank,min=2"`
	Email       string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string     `json:"phone" validate:"nonblank,phone"`
	Password    string     `json:"password,omitempty" validate:"omitempty,min=6"`
	Category    string     `json:"category,omitempty"`
	FranchiseID string     `json:"franchiseId,omitempty"`
	Status      string     `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Franchise is a regional partner
type Franchise struct {
	ID            string     `json:"id,omitempty"`
	FranchiseName string     `json:"franchiseName"`
	OwnerName     string     `json:"ownerName"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	City          string     `json:"city,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// CompanyReview is a customer review of the company
type CompanyReview struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Rating    float64    `json:"rating"`
	Review    string     `json:"review"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// AppVersion is a released build of one of the mobile apps.
// Optional links are omitted from payloads when empty.
type AppVersion struct {
	ID            string     `json:"id,omitempty"`
	Name          string     `json:"name" validate:"nonblank,min=2"`
	Version       string     `json:"version" validate:"nonblank,semver"`
	ProductionURL string     `json:"productionUrl" validate:"nonblank,absurl"`
	StagingURL    string     `json:"stagingUrl,omitempty" validate:"omitempty,absurl"`
	PlayStoreLink string     `json:"playStoreLink,omitempty" validate:"omitempty,absurl"`
	Description   string     `json:"description,omitempty" validate:"max=1000"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// GuestBooking is a booking made without an account
type GuestBooking struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address,omitempty"`
	Pincode     string     `json:"pincode,omitempty"`
	Service     string     `json:"service,omitempty"`
	BookingDate string     `json:"bookingDate,omitempty"`
	Status      string     `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Contact is an enquiry submitted through the contact form
type Contact struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
