package handlers

import (
	"net/http"
	"path"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the redirect CRUD routes under the admin prefix.
func RegisterRoutes(api huma.API, h *RedirectHandler, adminPrefix string) {
	base := path.Join("/", adminPrefix, "redirects")

	huma.Register(api, huma.Operation{
		OperationID: "list-redirects",
		Method:      http.MethodGet,
		Path:        base,
		Summary:     "List redirects",
		Description: "Lists all redirect records together with the permitted status codes.",
		Tags:        []string{"Redirects"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "create-redirect",
		Method:      http.MethodPost,
		Path:        base,
		Summary:     "Create redirect",
		Description: "Creates a new redirect record. The source must be unique after normalization.",
		Tags:        []string{"Redirects"},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-redirect",
		Method:      http.MethodGet,
		Path:        base + "/{id}",
		Summary:     "Get redirect",
		Tags:        []string{"Redirects"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-redirect",
		Method:      http.MethodPatch,
		Path:        base + "/{id}",
		Summary:     "Update redirect",
		Description: "Applies a partial update to a redirect record.",
		Tags:        []string{"Redirects"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-redirect",
		Method:        http.MethodDelete,
		Path:          base + "/{id}",
		Summary:       "Delete redirect",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Redirects"},
	}, h.Delete)
}
