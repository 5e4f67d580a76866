package handlers

import "time"

// RedirectView is the API representation of a redirect record.
type RedirectView struct {
	ID          string    `doc:"Record identifier"     example:"9b2b4a3e-7f41-4f7a-9b77-2f9f2b2c1d10" json:"id"`
	Source      string    `doc:"Source path pattern"   example:"/blog/*"                              json:"source"`
	Destination string    `doc:"Destination URL"       example:"/articles"                            json:"destination"`
	StatusCode  int       `doc:"HTTP redirect status"  example:"301"                                  json:"status_code"`
	CreatedAt   time.Time `doc:"Creation time"         json:"created_at"`
	UpdatedAt   time.Time `doc:"Last modification time" json:"updated_at"`
}

// StatusCodeOption is one entry of the permitted status-code enumeration.
type StatusCodeOption struct {
	Code  int    `doc:"HTTP status code" example:"301"               json:"code"`
	Label string `doc:"Human label"      example:"301 - Permanent"   json:"label"`
}

// ListRedirectsResponse is the response for listing redirects.
type ListRedirectsResponse struct {
	Body struct {
		Redirects   []RedirectView     `json:"redirects"`
		StatusCodes []StatusCodeOption `json:"status_codes"`
	}
}

// CreateRedirectRequest is the request body for creating a redirect.
type CreateRedirectRequest struct {
	Body struct {
		Source      string `doc:"Source path pattern, may contain * wildcards" example:"/old-page"  json:"source"      minLength:"1"`
		Destination string `doc:"Destination URL"                              example:"/new-page"  json:"destination" minLength:"1"`
		StatusCode  int    `doc:"HTTP redirect status"                         enum:"301,302,307,308" json:"status_code,omitempty"`
	}
}

// CreateRedirectResponse is the response for a successfully created redirect.
type CreateRedirectResponse struct {
	Body RedirectView
}

// GetRedirectRequest identifies a single redirect.
type GetRedirectRequest struct {
	ID string `doc:"Record identifier" path:"id"`
}

// GetRedirectResponse carries a single redirect.
type GetRedirectResponse struct {
	Body RedirectView
}

// UpdateRedirectRequest is a partial update; omitted fields are untouched.
type UpdateRedirectRequest struct {
	ID   string `doc:"Record identifier" path:"id"`
	Body struct {
		Source      *string `doc:"Source path pattern"  json:"source,omitempty"      minLength:"1"`
		Destination *string `doc:"Destination URL"      json:"destination,omitempty" minLength:"1"`
		StatusCode  *int    `doc:"HTTP redirect status" enum:"301,302,307,308"       json:"status_code,omitempty"`
	}
}

// UpdateRedirectResponse carries the updated redirect.
type UpdateRedirectResponse struct {
	Body RedirectView
}

// DeleteRedirectRequest identifies the redirect to delete.
type DeleteRedirectRequest struct {
	ID string `doc:"Record identifier" path:"id"`
}
