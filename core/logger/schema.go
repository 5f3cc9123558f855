package logger

import "strings"

var levelNames = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

// status and outcome values accepted verbatim; anything else in outcome is dropped.
var (
	knownStatus = map[string]struct{}{
		"ok": {}, "fail": {}, "skip": {}, "rate_limited": {}, "cancelled": {}, "rejected": {},
	}
	knownOutcome = map[string]struct{}{
		"ok": {}, "fail": {}, "cancelled": {}, "expired": {}, "reprompt": {},
		"submitted": {}, "approved": {}, "declined": {}, "not_found": {},
	}
)

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := levelNames[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if _, ok := knownOutcome[outcome]; !ok {
		return "", false
	}
	return outcome, true
}

func isKnownStatus(status string) bool {
	_, ok := knownStatus[status]
	return ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"state",
	"next_state",
	"cb_key",
	"action",
	"target_user_id",
	"submission_id",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"pending_count",
	"payload",
	"username",
	"mode",
	"listen",
	"public_url",
	"db",
	"host",
	"port",
	"err",
	"err_code",
	"cause",
	"attempts",
}
