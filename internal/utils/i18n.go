package utils

// Server-side messages for fixed keys. Answer text and analyses are never
// translated.

const (
	MsgSurveyCreated     = "survey.created"
	MsgSurveyNotFound    = "survey.not_found"
	MsgCreateFailed      = "survey.create_failed"
	MsgListFailed        = "survey.list_failed"
	MsgFetchFailed       = "survey.fetch_failed"
	MsgStatsFailed       = "survey.stats_failed"
	MsgAnalysisSaved     = "analysis.saved"
	MsgSearchDisabled    = "search.disabled"
	MsgShareInvalid      = "share.invalid"
	MsgShareDisabled     = "share.disabled"
	MsgAnalysisMissing   = "analysis.missing"
	MsgInvalidRequest    = "request.invalid"
	MsgInternalError     = "error.internal"
	MsgSearchQueryNeeded = "search.query_required"
)

var translations = map[string]map[string]string{
	"en": {
		MsgSurveyCreated:     "Survey created successfully",
		MsgSurveyNotFound:    "Survey not found",
		MsgCreateFailed:      "Error creating survey",
		MsgListFailed:        "Error fetching surveys",
		MsgFetchFailed:       "Error fetching survey",
		MsgStatsFailed:       "Error fetching stats",
		MsgAnalysisSaved:     "Analysis saved",
		MsgSearchDisabled:    "Search is disabled",
		MsgShareInvalid:      "Invalid share link",
		MsgShareDisabled:     "Share links are disabled",
		MsgAnalysisMissing:   "Analysis not found",
		MsgInvalidRequest:    "Invalid request",
		MsgInternalError:     "Internal server error",
		MsgSearchQueryNeeded: "Query parameter q is required",
	},
	"he": {
		MsgSurveyCreated:     "השאלון נשמר בהצלחה",
		MsgSurveyNotFound:    "השאלון לא נמצא",
		MsgCreateFailed:      "שגיאה בשמירת השאלון",
		MsgListFailed:        "שגיאה בטעינת השאלונים",
		MsgFetchFailed:       "שגיאה בטעינת השאלון",
		MsgStatsFailed:       "שגיאה בטעינת הסטטיסטיקה",
		MsgAnalysisSaved:     "הניתוח נשמר",
		MsgSearchDisabled:    "החיפוש כבוי",
		MsgShareInvalid:      "קישור השיתוף אינו תקין",
		MsgShareDisabled:     "קישורי שיתוף כבויים",
		MsgAnalysisMissing:   "הניתוח לא נמצא",
		MsgInvalidRequest:    "בקשה לא תקינה",
		MsgInternalError:     "שגיאת שרת פנימית",
		MsgSearchQueryNeeded: "יש לציין את הפרמטר q",
	},
}

// SupportedLocales lists the locales T has messages for. The first is the default.
var SupportedLocales = []string{"en", "he"}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
