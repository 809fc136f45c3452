package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedEmail(t *testing.T) {
	assert.Equal(t, "a****@*******.com", SanitizedEmail("alice@example.com"))
	assert.Equal(t, "b@***.io", SanitizedEmail("b@foo.io"))
	assert.Equal(t, "[invalid-email]", SanitizedEmail("not-an-email"))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "ab******", MaskToken("abcdef12"))
	assert.Equal(t, "**", MaskToken("ab"))
	assert.Equal(t, "", MaskToken(""))
}

func TestRedactedAttr(t *testing.T) {
	assert.Equal(t, "[REDACTED]", RedactedAttr("k", "v", "production").Value.String())
	assert.Equal(t, "v", RedactedAttr("k", "v", "development").Value.String())
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, SanitizeQueryString("code=abc123"))
	assert.True(t, SanitizeQueryString("Password=x"))
	assert.False(t, SanitizeQueryString("page=2&sort=points"))
}

func TestAuditLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogElevation(AuditEvent{
		EventType:     "admin_code_redeem",
		AccountID:     "7",
		Success:       false,
		FailureReason: "incorrect_code",
		Metadata:      map[string]string{"source": "test"},
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "elevation", entry["audit_type"])
	assert.Equal(t, "7", entry["account_id"])
	assert.Equal(t, "incorrect_code", entry["failure_reason"])
	assert.Equal(t, "test", entry["source"])

	buf.Reset()
	al.LogAccountAction("account_deleted", "9", "203.0.113.1", nil)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "account", entry["audit_type"])
}
