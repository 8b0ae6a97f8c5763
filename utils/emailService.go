package utils

import (
	"fmt"
	"lms/config"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Classia Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	// Debug Logs
	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\nFrom: %s\n", to, subject, from)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	fmt.Println("--- Email Sent Successfully ---")
	return nil
}

// HTML Wrapper for "Resin Design" (Professional Look)
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>CLASSIA ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Classia Academy. All rights reserved.<br>
				Keep learning, one module at a time.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) error {
	subject := "Welcome to Classia Academy"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Classia Academy</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now browse our published courses and start learning right away.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	return SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Login Notification
func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	subject := "New Login Alert"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box" style="background: #FFFFFF; border: 1px solid #E0E0E0; border-left: 4px solid #d7b56d;">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Time:</strong> %s</li>
				<li style="margin-bottom: 8px;"><strong>IP Address:</strong> %s</li>
				<li><strong>Device:</strong> %s</li>
			</ul>
		</div>
		<p>If this was you, you can safely ignore this email.</p>
		<p style="color: #DC3545; font-weight: bold;">If you did not authorize this login, please contact support immediately.</p>
	`, name, timeStr, ip, device)

	go SendEmail([]string{email}, subject, getEmailTemplate("New Login Detected", body))
}

// 3. Progress Reminder (stale enrollments)
func SendProgressReminderEmail(email, name, courseName string, progress float64) error {
	subject := "Continue Learning: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are <strong>%.0f%%</strong> of the way through <strong>%s</strong>.</p>
		<div class="info-box">
			Pick up where you left off and keep your streak going. The next module is waiting for you.
		</div>
		<a href="#" class="btn">Resume Course</a>
	`, name, progress, courseName)

	return SendEmail([]string{email}, subject, getEmailTemplate("Your Course Misses You", body))
}

// 4. Course Completed
func SendCourseCompletedEmail(email, name, courseName string) {
	subject := "Course Completed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have completed all modules of <strong>%s</strong>.</p>
		<p>You can now request your certificate from your dashboard.</p>
		<a href="#" class="btn">Request Certificate</a>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Completed", body))
}
