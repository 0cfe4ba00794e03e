package utils

// SessionKeyPrefix namespaces persisted session identities.
const SessionKeyPrefix = "medischedule_user:"

// SessionCookieName carries the signed session token.
const SessionCookieName = "medischedule_session"

// DateLayout is the calendar date format used for slots and appointments.
const DateLayout = "2006-01-02"

// ClockLayout is the 12-hour clock format used for slot times.
const ClockLayout = "03:04 PM"
