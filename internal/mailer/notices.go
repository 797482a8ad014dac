package mailer

import (
	"fmt"
	"html/template"

	"studkits-backend/internal/models"
)

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// RequestSubmittedNotice tells the admin a new request is waiting.
func RequestSubmittedNotice(req *models.ProjectRequest) (subject, body string) {
	subject = fmt.Sprintf("New Request: %s", req.Title())
	body = fmt.Sprintf(`
		<p>A new custom %s request has been submitted and is waiting for approval in the admin panel.</p>
		<hr>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Title:</strong> %s</p>
		<p><strong>Description:</strong> %s</p>`,
		esc(req.Type), esc(req.Name), esc(req.Email), esc(req.Title()),
		esc(req.Description.String))
	return subject, body
}

// RequestApprovedNotice tells the customer their project is underway and how
// to track it.
func RequestApprovedNotice(req *models.ProjectRequest, projectID, trackingURL string) (subject, body string) {
	subject = fmt.Sprintf("Your Project Request Has Been Approved! (%s)", req.Title())
	body = fmt.Sprintf(`
		<h2>Great news! Your project request has been approved.</h2>
		<p>Your project tracking ID is: %s</p>
		<p>You can track your project's progress at any time by visiting our tracking page:</p>
		<p><a href="%s">View Project Status</a></p>
		<hr>
		<h3>Project Details:</h3>
		<p><strong>Title:</strong> %s</p>
		%s
		<p>We'll keep you updated on your project's progress through each stage.</p>`,
		esc(projectID), esc(trackingURL), esc(req.Title()),
		descriptionBlock(req))
	return subject, body
}

// RequestDeclinedNotice tells the customer their request was not accepted.
func RequestDeclinedNotice(req *models.ProjectRequest) (subject, body string) {
	subject = fmt.Sprintf("Update on Your Project Request (%s)", req.Title())
	body = fmt.Sprintf(`
		<h2>Update on Your Project Request</h2>
		<p>Thank you for your interest in our services. After careful review of your project request, we regret to inform you that we are unable to proceed with it at this time.</p>
		<p>Please feel free to reach out to us if you would like to discuss alternative solutions or submit a modified request.</p>
		<hr>
		<h3>Project Details:</h3>
		<p><strong>Title:</strong> %s</p>
		%s
		<p>We appreciate your understanding and hope to work with you in the future.</p>`,
		esc(req.Title()), descriptionBlock(req))
	return subject, body
}

// ContactNotice forwards a contact-form message to the admin inbox.
func ContactNotice(in *models.ContactInput) (subject, body string) {
	subject = fmt.Sprintf("Contact Form: %s", in.Name)
	if in.Subject != "" {
		subject = fmt.Sprintf("Contact Form: %s", in.Subject)
	}
	body = fmt.Sprintf(`
		<p><strong>From:</strong> %s &lt;%s&gt;</p>
		<hr>
		<p>%s</p>`,
		esc(in.Name), esc(in.Email), esc(in.Message))
	return subject, body
}

func descriptionBlock(req *models.ProjectRequest) string {
	if !req.Description.Valid || req.Description.String == "" {
		return ""
	}
	return fmt.Sprintf("<p><strong>Description:</strong> %s</p>", esc(req.Description.String))
}
