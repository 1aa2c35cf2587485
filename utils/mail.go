package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/spf13/cast"
	gomail "gopkg.in/gomail.v2"

	"github.com/bravoke/bravo-suppliers-api/models"
)

const orderEmailTemplate = `
<h2>New Order #{{.Order.OrderNumber}}</h2>
<p><strong>Customer:</strong> {{.Order.FirstName}} {{.Order.LastName}}</p>
<p><strong>Phone:</strong> {{.Order.Phone}}</p>
<p><strong>Email:</strong> {{if .Order.Email}}{{.Order.Email}}{{else}}N/A{{end}}</p>
<p><strong>Delivery Address:</strong> {{.Order.Address}}</p>
<p><strong>Notes:</strong> {{if .Order.Notes}}{{.Order.Notes}}{{else}}None{{end}}</p>

<h3>Order Summary</h3>
<table style="width: 100%; border-collapse: collapse;">
    <tr style="background-color: #f2f2f2;">
        <th style="padding: 8px; border: 1px solid #ddd;">Product</th>
        <th style="padding: 8px; border: 1px solid #ddd;">Qty</th>
        <th style="padding: 8px; border: 1px solid #ddd;">Price</th>
        <th style="padding: 8px; border: 1px solid #ddd;">Subtotal</th>
    </tr>
    {{range .Items}}
    <tr>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Name}}</td>
        <td style="padding: 8px; border: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">KSh {{printf "%.2f" .Price}}</td>
        <td style="padding: 8px; border: 1px solid #ddd; text-align: right;">KSh {{printf "%.2f" .LineTotal}}</td>
    </tr>
    {{end}}
</table>

<p><strong>Subtotal:</strong> KSh {{printf "%.2f" .Subtotal}}</p>
<p><strong>Delivery Fee:</strong> KSh {{printf "%.2f" .DeliveryFee}}</p>
<p><strong>Total Amount:</strong> KSh {{printf "%.2f" .Order.TotalAmount}}</p>

<p>Thank you for choosing Bravo Suppliers Ke.!</p>
`

var orderEmailTmpl = template.Must(template.New("order_email").Parse(orderEmailTemplate))

type orderEmailLine struct {
	Name      string
	Quantity  int
	Price     float64
	LineTotal float64
}

type orderEmailData struct {
	Order       models.Order
	Items       []orderEmailLine
	Subtotal    float64
	DeliveryFee float64
}

// SendOrderEmail notifies the shop admin, and the customer when an email
// address was given, about a freshly placed order.
func SendOrderEmail(order models.Order, items []models.OrderItem, deliveryFee float64) error {
	recipients := []string{os.Getenv("ADMIN_EMAIL")}
	if order.Email != "" {
		recipients = append(recipients, order.Email)
	}

	data := orderEmailData{Order: order, DeliveryFee: deliveryFee}
	for _, item := range items {
		lineTotal := float64(item.Quantity) * item.Price
		data.Subtotal += lineTotal
		data.Items = append(data.Items, orderEmailLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: lineTotal,
		})
	}

	var body bytes.Buffer
	if err := orderEmailTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering order email: %w", err)
	}

	return SendEmail(recipients, "New Order Received - Bravo Suppliers Ke.", body.String())
}

func SendEmail(to []string, subject, htmlBody string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", os.Getenv("MAIL_FROM"))
	message.SetHeader("To", to...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		cast.ToInt(os.Getenv("SMTP_PORT")),
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
	)

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTestEmail verifies the mail configuration end to end.
func SendTestEmail() error {
	return SendEmail(
		[]string{os.Getenv("ADMIN_EMAIL")},
		"Test Email from Bravo Suppliers",
		"<p>This is a test email to verify email configuration.</p>",
	)
}
