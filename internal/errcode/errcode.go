package errcode

// Error code convention:
// - 0: no error
// - 4xxx: recoverable/business errors (the request may still produce a degraded result)
// - 5xxx: system errors (the pipeline must stop)
// - 50000: analysis pipeline failure surfaced in the response envelope
const (
	OK                = 0
	InvalidParams     = 4000
	ResourceMissing   = 4004
	Unauthorized      = 4010
	UnsupportedFormat = 4150
	ExtractionFailed  = 4151
	SystemError       = 5000
	AnalysisFailed    = 50000
)

var messages = map[int]string{
	OK:                "ok",
	InvalidParams:     "invalid parameters",
	ResourceMissing:   "resource not found",
	Unauthorized:      "unauthorized",
	UnsupportedFormat: "unsupported document format",
	ExtractionFailed:  "document text extraction failed",
	SystemError:       "internal system error",
	AnalysisFailed:    "resume analysis failed",
}

// Msg returns the default message for a code.
func Msg(code int) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "unknown error"
}
