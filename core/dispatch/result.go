package dispatch

// Status classifies a handler outcome.
type Status int

const (
	// StatusOK is a successful operation.
	StatusOK Status = iota
	// StatusNotOK is a failed validation or constraint violation; write
	// flows loop back into StateRetry.
	StatusNotOK
	// StatusWarning is a success with a warning flash.
	StatusWarning
)

// Kind selects how a result is served.
type Kind int

const (
	// KindPage composes a template response.
	KindPage Kind = iota
	// KindDownload streams a file with a Content-Disposition header.
	KindDownload
	// KindCustom writes a pre-built body, bypassing composition.
	KindCustom
	// KindNoContent answers with a refresh stub of the current route.
	KindNoContent
)

// Result is the tagged outcome of a handler operation.
type Result struct {
	Status  Status
	Kind    Kind
	Message string

	// Page content accumulated by read operations.
	Head      string
	Data      string
	Paginator string

	// Single-record context for view/edit pages.
	ID          int64
	DisplayName string

	// Download fields.
	DownloadPath string
	DownloadName string
	MIME         string

	// Custom response fields.
	Body        []byte
	ContentType string
	StatusCode  int
}

// OK returns a successful page result.
func OK() *Result {
	return &Result{Status: StatusOK, Kind: KindPage}
}

// NotOK returns a failed result with an inline message; write flows turn it
// into a retry.
func NotOK(msg string) *Result {
	return &Result{Status: StatusNotOK, Kind: KindPage, Message: msg}
}

// Warning returns a successful result with a warning flash.
func Warning(msg string) *Result {
	return &Result{Status: StatusWarning, Kind: KindPage, Message: msg}
}

// Download returns a file download result.
func Download(path, name, mime string) *Result {
	return &Result{Status: StatusOK, Kind: KindDownload, DownloadPath: path, DownloadName: name, MIME: mime}
}

// Custom returns a pre-built response that bypasses composition.
func Custom(body []byte, contentType string, statusCode int) *Result {
	return &Result{Status: StatusOK, Kind: KindCustom, Body: body, ContentType: contentType, StatusCode: statusCode}
}

// NoContent returns a result that triggers a client-side refresh of the
// current route.
func NoContent() *Result {
	return &Result{Status: StatusOK, Kind: KindNoContent}
}
