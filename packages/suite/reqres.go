package suite

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public ReqRes demo service.
const DefaultBaseURL = "https://reqres.in"

const (
	reqresEmail        = "eve.holt@reqres.in"
	delayedCaseTimeout = 10 * time.Second
)

func noFailOnStatus() *bool {
	b := false
	return &b
}

// Default returns the built-in ReqRes suite.
//
// The update, patch and delete cases target user 2, which the read cases
// also fetch. The remote fixture is not reset between runs, so the cases
// are meant to run in the order given here.
func Default() *Suite {
	return &Suite{
		Name:    "ReqRes API Endpoints Tests",
		BaseURL: DefaultBaseURL,
		Cases: []TestCase{
			{
				Name:         "GET /api/users - Validate list of users",
				Method:       http.MethodGet,
				URL:          "/api/users",
				ExpectStatus: http.StatusOK,
				Tags:         []string{"users", "read"},
				Assertions:   []Assertion{LengthGreaterThan("data", 0)},
			},
			{
				Name:         "GET /api/users/2 - Validate single user details",
				Method:       http.MethodGet,
				URL:          "/api/users/2",
				ExpectStatus: http.StatusOK,
				Tags:         []string{"users", "read"},
				Assertions:   []Assertion{Equals("data.id", 2)},
			},
			{
				Name:             "GET /api/users/999 - User not found",
				Method:           http.MethodGet,
				URL:              "/api/users/999",
				ExpectStatus:     http.StatusNotFound,
				FailOnStatusCode: noFailOnStatus(),
				Tags:             []string{"users", "read"},
			},
			{
				Name:         "GET /api/unknown - Validate list of resources",
				Method:       http.MethodGet,
				URL:          "/api/unknown",
				ExpectStatus: http.StatusOK,
				Tags:         []string{"resources", "read"},
				Assertions:   []Assertion{Exists("data[0].name")},
			},
			{
				Name:         "GET /api/unknown/2 - Validate single resource",
				Method:       http.MethodGet,
				URL:          "/api/unknown/2",
				ExpectStatus: http.StatusOK,
				Tags:         []string{"resources", "read"},
				Assertions:   []Assertion{Exists("data.name")},
			},
			{
				Name:             "GET /api/unknown/999 - Resource not found",
				Method:           http.MethodGet,
				URL:              "/api/unknown/999",
				ExpectStatus:     http.StatusNotFound,
				FailOnStatusCode: noFailOnStatus(),
				Tags:             []string{"resources", "read"},
			},
			{
				Name:         "POST /api/users - Create a new user",
				Method:       http.MethodPost,
				URL:          "/api/users",
				Body:         map[string]any{"name": "John", "job": "Developer"},
				ExpectStatus: http.StatusCreated,
				Tags:         []string{"users", "write"},
				Assertions:   []Assertion{Exists("id")},
			},
			{
				Name:         "PUT /api/users/2 - Update user data",
				Method:       http.MethodPut,
				URL:          "/api/users/2",
				Body:         map[string]any{"name": "John", "job": "Manager"},
				ExpectStatus: http.StatusOK,
				Tags:         []string{"users", "write"},
				Assertions:   []Assertion{Equals("job", "Manager")},
			},
			{
				Name:         "PATCH /api/users/2 - Partially update user data",
				Method:       http.MethodPatch,
				URL:          "/api/users/2",
				Body:         map[string]any{"job": "Senior Developer"},
				ExpectStatus: http.StatusOK,
				Tags:         []string{"users", "write"},
				Assertions:   []Assertion{Equals("job", "Senior Developer")},
			},
			{
				Name:         "DELETE /api/users/2 - Delete a user",
				Method:       http.MethodDelete,
				URL:          "/api/users/2",
				ExpectStatus: http.StatusNoContent,
				Tags:         []string{"users", "write"},
			},
			{
				Name:         "POST /api/register - Successful registration",
				Method:       http.MethodPost,
				URL:          "/api/register",
				Body:         map[string]any{"email": reqresEmail, "password": "pistol"},
				ExpectStatus: http.StatusOK,
				Tags:         []string{"auth"},
				Assertions:   []Assertion{Exists("token")},
			},
			{
				Name:             "POST /api/register - Unsuccessful registration",
				Method:           http.MethodPost,
				URL:              "/api/register",
				Body:             map[string]any{"email": reqresEmail},
				ExpectStatus:     http.StatusBadRequest,
				FailOnStatusCode: noFailOnStatus(),
				Tags:             []string{"auth"},
				Assertions:       []Assertion{Exists("error")},
			},
			{
				Name:         "POST /api/login - Successful login",
				Method:       http.MethodPost,
				URL:          "/api/login",
				Body:         map[string]any{"email": reqresEmail, "password": "cityslicka"},
				ExpectStatus: http.StatusOK,
				Tags:         []string{"auth"},
				Assertions:   []Assertion{Exists("token")},
			},
			{
				Name:             "POST /api/login - Unsuccessful login",
				Method:           http.MethodPost,
				URL:              "/api/login",
				Body:             map[string]any{"email": reqresEmail},
				ExpectStatus:     http.StatusBadRequest,
				FailOnStatusCode: noFailOnStatus(),
				Tags:             []string{"auth"},
				Assertions:       []Assertion{Exists("error")},
			},
			{
				Name:         "GET /api/users?delay=3 - Test delayed response",
				Method:       http.MethodGet,
				URL:          "/api/users?delay=3",
				ExpectStatus: http.StatusOK,
				Timeout:      delayedCaseTimeout,
				Tags:         []string{"users", "read", "slow"},
				Assertions:   []Assertion{LengthGreaterThan("data", 0)},
			},
		},
	}
}
