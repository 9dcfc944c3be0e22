package utils

import (
	"fmt"
	"log"

	"urjakart/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendEmail delivers one HTML email through SendGrid. Best effort: callers
// run this in a goroutine and a failure only logs.
func sendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridKey == "" {
		log.Println("SENDGRID_API_KEY not set, skipping email to " + toEmail)
		return nil
	}

	from := mail.NewEmail("Urjakart Payments", config.AppConfig.ReceiptSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return nil
}

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
				<h2 style="color: #333333; text-align: center;">%s</h2>
				%s
				<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Thank you for shopping with Urjakart.</p>
			</div>
		</body>
	</html>`, title, bodyContent)
}

// SendPaymentReceiptEmail notifies the user their UPI payment succeeded
func SendPaymentReceiptEmail(email, name, orderNumber string, amount float64, txnRef string) {
	body := fmt.Sprintf(`
		<p style="font-size: 16px; color: #555555;">Hi %s,</p>
		<p style="font-size: 16px; color: #555555;">We received your payment of <b>INR %.2f</b> for order <b>%s</b>.</p>
		<p style="font-size: 14px; color: #999999;">Transaction reference: %s</p>
		<p style="font-size: 14px; color: #999999;">Your order is now being processed.</p>
	`, name, amount, orderNumber, txnRef)

	if err := sendEmail(email, name, "Payment received for order "+orderNumber, emailTemplate("Payment Successful", body)); err != nil {
		log.Printf("Failed to send payment receipt for order %s: %v", orderNumber, err)
	}
}

// SendRefundEmail notifies the user an admin refunded their payment
func SendRefundEmail(email, name, orderNumber string, amount float64) {
	body := fmt.Sprintf(`
		<p style="font-size: 16px; color: #555555;">Hi %s,</p>
		<p style="font-size: 16px; color: #555555;">Your payment of <b>INR %.2f</b> for order <b>%s</b> has been refunded.</p>
		<p style="font-size: 14px; color: #999999;">The amount should reach your account within 5-7 business days.</p>
	`, name, amount, orderNumber)

	if err := sendEmail(email, name, "Refund issued for order "+orderNumber, emailTemplate("Refund Issued", body)); err != nil {
		log.Printf("Failed to send refund email for order %s: %v", orderNumber, err)
	}
}
