package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PayloadKey is the envelope field an endpoint family puts its payload in.
// The backend is not consistent about it, so it is declared per endpoint.
type PayloadKey string

const (
	KeyData   PayloadKey = "data"
	KeyResult PayloadKey = "result"
)

// Endpoint is a named backend operation
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Key    PayloadKey
}

// Arg is a path parameter or a query parameter passed to Call
type Arg struct {
	key   string
	value string
	query bool
}

// Path fills the next ":param" placeholder of the endpoint path
func Path(value string) Arg {
	return Arg{value: value}
}

// Query adds key=value to the query string
func Query(key, value string) Arg {
	return Arg{key: key, value: value, query: true}
}

// Resolve builds the request path and query for the given args
func (e Endpoint) Resolve(args ...Arg) (string, url.Values, error) {
	var pathArgs []string
	query := url.Values{}
	for _, a := range args {
		if a.query {
			query.Add(a.key, a.value)
			continue
		}
		pathArgs = append(pathArgs, a.value)
	}

	segments := strings.Split(e.Path, "/")
	next := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if next >= len(pathArgs) {
			return "", nil, fmt.Errorf("%s: missing value for %s", e.Name, seg)
		}
		if pathArgs[next] == "" {
			return "", nil, fmt.Errorf("%s: empty value for %s", e.Name, seg)
		}
		segments[i] = url.PathEscape(pathArgs[next])
		next++
	}
	if next != len(pathArgs) {
		return "", nil, fmt.Errorf("%s: %d unused path arguments", e.Name, len(pathArgs)-next)
	}

	return strings.Join(segments, "/"), query, nil
}

// Categories
var (
	ListCategories = Endpoint{"categories.list", http.MethodGet, "/api/categories/get", KeyData}
	CreateCategory = Endpoint{"categories.create", http.MethodPost, "/api/categories/create", KeyData}
	UpdateCategory = Endpoint{"categories.update", http.MethodPut, "/api/categories/:id", KeyData}
	DeleteCategory = Endpoint{"categories.delete", http.MethodDelete, "/api/categories/:id", KeyData}
)

// Service areas
var (
	ListPincodes  = Endpoint{"pincodes.list", http.MethodGet, "/api/pincodes/allAreas", KeyData}
	CreatePincode = Endpoint{"pincodes.create", http.MethodPost, "/api/pincodes/addArea", KeyData}
	UpdatePincode = Endpoint{"pincodes.update", http.MethodPut, "/api/pincodes/updateArea/:id", KeyData}
	DeletePincode = Endpoint{"pincodes.delete", http.MethodDelete, "/api/pincodes/deleteArea/:id", KeyData}
)

// Subscription plans
var (
	ListPlans  = Endpoint{"plans.list", http.MethodGet, "/api/subscriptions/plans", KeyData}
	CreatePlan = Endpoint{"plans.create", http.MethodPost, "/api/subscriptions/plans", KeyData}
	UpdatePlan = Endpoint{"plans.update", http.MethodPut, "/api/subscriptions/plans/:id", KeyData}
	DeletePlan = Endpoint{"plans.delete", http.MethodDelete, "/api/subscriptions/plans/:id", KeyData}
)

// Accounts. These families answer with "result".
var (
	ListUsers        = Endpoint{"users.list", http.MethodGet, "/api/userAuth/getAllUsers", KeyResult}
	CreateUser       = Endpoint{"users.create", http.MethodPost, "/api/userAuth/registerUserByAdmin", KeyResult}
	DeleteUser       = Endpoint{"users.delete", http.MethodDelete, "/api/userAuth/deleteUser/:id", KeyResult}
	ListTechnicians  = Endpoint{"technicians.list", http.MethodGet, "/api/techAuth/getAllTechnicians", KeyResult}
	CreateTechnician = Endpoint{"technicians.create", http.MethodPost, "/api/techAuth/registerByAdmin", KeyResult}
	DeleteTechnician = Endpoint{"technicians.delete", http.MethodDelete, "/api/techAuth/deleteTechnician/:id", KeyResult}
	ListFranchises   = Endpoint{"franchises.list", http.MethodGet, "/api/franchiseAuth/getAllFranchises", KeyResult}
)

// Reviews
var (
	ListReviews = Endpoint{"reviews.list", http.MethodGet, "/api/companyReview/getCompanyReviews", KeyData}
)

// Guest bookings
var (
	ListGuestBookings    = Endpoint{"bookings.list", http.MethodGet, "/api/guestBooking/getAllGuestBooking", KeyResult}
	CompleteGuestBooking = Endpoint{"bookings.complete", http.MethodPut, "/api/guestBooking/markCompleted/:id", KeyResult}
	DeleteGuestBooking   = Endpoint{"bookings.delete", http.MethodDelete, "/api/guestBooking/deleteGuestBooking/:id", KeyResult}
)

// App versions
var (
	ListAppVersions  = Endpoint{"appversions.list", http.MethodGet, "/api/appVersion/getAllVersions", KeyData}
	CreateAppVersion = Endpoint{"appversions.create", http.MethodPost, "/api/appVersion/createVersion", KeyData}
	UpdateAppVersion = Endpoint{"appversions.update", http.MethodPut, "/api/appVersion/updateVersion/:id", KeyData}
	DeleteAppVersion = Endpoint{"appversions.delete", http.MethodDelete, "/api/appVersion/deleteVersion/:id", KeyData}
)

// Contact enquiries
var (
	ListContacts  = Endpoint{"contacts.list", http.MethodGet, "/api/contact/getAllContacts", KeyData}
	DeleteContact = Endpoint{"contacts.delete", http.MethodDelete, "/api/contact/deleteContact/:id", KeyData}
)

// Endpoints lists every endpoint the console talks to
func Endpoints() []Endpoint {
	return []Endpoint{
		ListCategories, CreateCategory, UpdateCategory, DeleteCategory,
		ListPincodes, CreatePincode, UpdatePincode, DeletePincode,
		ListPlans, CreatePlan, UpdatePlan, DeletePlan,
		ListUsers, CreateUser, DeleteUser,
		ListTechnicians, CreateTechnician, DeleteTechnician,
		ListFranchises,
		ListReviews,
		ListGuestBookings, CompleteGuestBooking, DeleteGuestBooking,
		ListAppVersions, CreateAppVersion, UpdateAppVersion, DeleteAppVersion,
		ListContacts, DeleteContact,
	}
}
