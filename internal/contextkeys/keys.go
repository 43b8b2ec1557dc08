package contextkeys

type contextKey string

const RequesterKey contextKey = "requester"
const LocaleKey contextKey = "locale"
const CSRFTokenKey contextKey = "csrf_token"
