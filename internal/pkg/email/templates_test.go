package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusChangeEmail(t *testing.T) {
	subject, body := StatusChangeEmail("Jordan Lee", "Broken projector in B204", "Approved", "A technician is scheduled for Monday.")

	assert.Equal(t, "Your request is now Approved - EduAssist", subject)
	assert.Contains(t, body, "Hello Jordan Lee,")
	assert.Contains(t, body, "<strong>Broken projector in B204</strong>")
	assert.Contains(t, body, "<strong>Approved</strong>")
	assert.Contains(t, body, "A technician is scheduled for Monday.")
}

func TestStatusChangeEmailWithoutAdminMessage(t *testing.T) {
	_, body := StatusChangeEmail("Jordan Lee", "Broken projector", "Cancelled", "")

	assert.NotContains(t, body, "Message from our team")
}
