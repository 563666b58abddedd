package gateway

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/sorenmh/homeservices-admin/internal/models"
)

// API exposes typed calls for every admin resource
type API struct {
	c Caller
}

// NewAPI wraps a Caller
func NewAPI(c Caller) *API {
	return &API{c: c}
}

func pageArgs(offset, limit int) []Arg {
	return []Arg{
		Query("offset", strconv.Itoa(offset)),
		Query("limit", strconv.Itoa(limit)),
	}
}

// Categories

func (a *API) ListCategories(ctx context.Context) (Result[[]models.Category], error) {
	return Invoke[[]models.Category](ctx, a.c, ListCategories, nil)
}

func (a *API) CreateCategory(ctx context.Context, c models.Category) (Result[models.Category], error) {
	return Invoke[models.Category](ctx, a.c, CreateCategory, c)
}

func (a *API) UpdateCategory(ctx context.Context, id string, c models.Category) (Result[models.Category], error) {
	return Invoke[models.Category](ctx, a.c, UpdateCategory, c, Path(id))
}

func (a *API) DeleteCategory(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteCategory, nil, Path(id))
}

// Service areas

func (a *API) ListPincodes(ctx context.Context) (Result[[]models.Pincode], error) {
	return Invoke[[]models.Pincode](ctx, a.c, ListPincodes, nil)
}

func (a *API) CreatePincode(ctx context.Context, p models.Pincode) (Result[models.Pincode], error) {
	return Invoke[models.Pincode](ctx, a.c, CreatePincode, p)
}

func (a *API) UpdatePincode(ctx context.Context, id string, p models.Pincode) (Result[models.Pincode], error) {
	return Invoke[models.Pincode](ctx, a.c, UpdatePincode, p, Path(id))
}

func (a *API) DeletePincode(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeletePincode, nil, Path(id))
}

// Subscription plans

func (a *API) ListPlans(ctx context.Context) (Result[[]models.SubscriptionPlan], error) {
	return Invoke[[]models.SubscriptionPlan](ctx, a.c, ListPlans, nil)
}

func (a *API) CreatePlan(ctx context.Context, p models.SubscriptionPlan) (Result[models.SubscriptionPlan], error) {
	return Invoke[models.SubscriptionPlan](ctx, a.c, CreatePlan, p)
}

func (a *API) UpdatePlan(ctx context.Context, id string, p models.SubscriptionPlan) (Result[models.SubscriptionPlan], error) {
	return Invoke[models.SubscriptionPlan](ctx, a.c, UpdatePlan, p, Path(id))
}

func (a *API) DeletePlan(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeletePlan, nil, Path(id))
}

// Accounts. Lists are paged by the backend.

func (a *API) ListUsers(ctx context.Context, offset, limit int) (Result[[]models.User], error) {
	return Invoke[[]models.User](ctx, a.c, ListUsers, nil, pageArgs(offset, limit)...)
}

func (a *API) CreateUser(ctx context.Context, u models.User) (Result[models.User], error) {
	return Invoke[models.User](ctx, a.c, CreateUser, u)
}

func (a *API) DeleteUser(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteUser, nil, Path(id))
}

func (a *API) ListTechnicians(ctx context.Context, offset, limit int) (Result[[]models.Technician], error) {
	return Invoke[[]models.Technician](ctx, a.c, ListTechnicians, nil, pageArgs(offset, limit)...)
}

func (a *API) CreateTechnician(ctx context.Context, t models.Technician) (Result[models.Technician], error) {
	return Invoke[models.Technician](ctx, a.c, CreateTechnician, t)
}

func (a *API) DeleteTechnician(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteTechnician, nil, Path(id))
}

func (a *API) ListFranchises(ctx context.Context, offset, limit int) (Result[[]models.Franchise], error) {
	return Invoke[[]models.Franchise](ctx, a.c, ListFranchises, nil, pageArgs(offset, limit)...)
}

// Reviews

func (a *API) ListReviews(ctx context.Context) (Result[[]models.CompanyReview], error) {
	return Invoke[[]models.CompanyReview](ctx, a.c, ListReviews, nil)
}

// Guest bookings

func (a *API) ListGuestBookings(ctx context.Context) (Result[[]models.GuestBooking], error) {
	return Invoke[[]models.GuestBooking](ctx, a.c, ListGuestBookings, nil)
}

func (a *API) CompleteGuestBooking(ctx context.Context, id string) (Result[models.GuestBooking], error) {
	return Invoke[models.GuestBooking](ctx, a.c, CompleteGuestBooking, nil, Path(id))
}

func (a *API) DeleteGuestBooking(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteGuestBooking, nil, Path(id))
}

// App versions

func (a *API) ListAppVersions(ctx context.Context) (Result[[]models.AppVersion], error) {
	return Invoke[[]models.AppVersion](ctx, a.c, ListAppVersions, nil)
}

func (a *API) CreateAppVersion(ctx context.Context, v models.AppVersion) (Result[models.AppVersion], error) {
	return Invoke[models.AppVersion](ctx, a.c, CreateAppVersion, v)
}

func (a *API) UpdateAppVersion(ctx context.Context, id string, v models.AppVersion) (Result[models.AppVersion], error) {
	return Invoke[models.AppVersion](ctx, a.c, UpdateAppVersion, v, Path(id))
}

func (a *API) DeleteAppVersion(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteAppVersion, nil, Path(id))
}

// Contact enquiries

func (a *API) ListContacts(ctx context.Context) (Result[[]models.Contact], error) {
	return Invoke[[]models.Contact](ctx, a.c, ListContacts, nil)
}

func (a *API) DeleteContact(ctx context.Context, id string) (Result[json.RawMessage], error) {
	return Invoke[json.RawMessage](ctx, a.c, DeleteContact, nil, Path(id))
}
