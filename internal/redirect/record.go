package redirect

import "time"

// Record represents a stored source-pattern to destination-URL mapping.
type Record struct {
	ID          string    `json:"id"          yaml:"id"`
	Source      string    `json:"source"      yaml:"source"`
	Destination string    `json:"destination" yaml:"destination"`
	StatusCode  int       `json:"status_code" yaml:"status_code"`
	CreatedAt   time.Time `json:"created_at"  yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  yaml:"updated_at"`
}

// DefaultStatusCode is used when a redirect is created without one.
const DefaultStatusCode = 301

// StatusCodes maps the permitted redirect status codes to human labels.
var StatusCodes = map[int]string{
	301: "301 - Permanent",
	302: "302 - Temporary",
	307: "307 - Temporary (Preserve Method)",
	308: "308 - Permanent (Preserve Method)",
}

// ValidStatusCode reports whether code is one of the permitted redirect codes.
func ValidStatusCode(code int) bool {
	_, ok := StatusCodes[code]
	return ok
}
