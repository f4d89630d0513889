package email

import "fmt"

// StatusChangeEmail renders the subject and HTML body of a request status
// change notification.
func StatusChangeEmail(recipientName, requestTitle, statusLabel, adminMessage string) (subject, body string) {
	subject = fmt.Sprintf("Your request is now %s - EduAssist", statusLabel)

	adminBlock := ""
	if adminMessage != "" {
		adminBlock = fmt.Sprintf(`
				<div style="background-color: #f5f5f5; border-left: 4px solid #4a86e8; padding: 12px; margin: 20px 0;">
					<p style="margin: 0;"><strong>Message from our team:</strong></p>
					<p style="margin: 8px 0 0;">%s</p>
				</div>
`, adminMessage)
	}

	body = fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Request Update</h2>
				<p>Hello %s,</p>
				<p>Your request <strong>%s</strong> has been updated to status: <strong>%s</strong>.</p>
				%s
				<p>You can view the full details of your request by logging into your EduAssist account.</p>

				<p>Best regards,<br>The EduAssist Team</p>
			</div>
		</body>
		</html>
	`, recipientName, requestTitle, statusLabel, adminBlock)

	return subject, body
}
