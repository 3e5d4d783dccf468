package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f6f4ef;
            color: #2b2b2b;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #ffffff;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #e4ded2;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            color: #2f6f4f;
            margin: 0;
        }
        h2 {
            color: #2b2b2b;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #555555;
            font-size: 16px;
            line-height: 1.6;
            margin: 0 0 16px;
        }
        .btn {
            display: inline-block;
            background: #2f6f4f;
            color: #ffffff !important;
            text-decoration: none;
            padding: 14px 28px;
            border-radius: 8px;
            font-weight: 600;
            font-size: 16px;
            margin: 16px 0;
        }
        .details {
            background: #f6f4ef;
            border-radius: 8px;
            padding: 16px;
            margin: 16px 0;
        }
        .details td {
            padding: 4px 8px;
            font-size: 14px;
            color: #555555;
        }
        .footer {
            text-align: center;
            margin-top: 32px;
            color: #999999;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo"><h1>PawTrails</h1></div>
            {{.Content}}
        </div>
        <div class="footer">
            <p>PawTrails — adventures for you and your dog.</p>
        </div>
    </div>
</body>
</html>
`

// BookingConfirmedTemplate notifies the customer of a confirmed booking
const BookingConfirmedTemplate = `
<h2>Your booking is confirmed! 🐾</h2>
<p>Hi {{.CustomerName}},</p>
<p>Thanks for booking <strong>{{.ProductTitle}}</strong>. Here are your details:</p>
<table class="details">
    <tr><td>Order number</td><td><strong>{{.OrderNumber}}</strong></td></tr>
    <tr><td>Date</td><td>{{.BookingDate}}</td></tr>
    <tr><td>Adults</td><td>{{.Adults}}</td></tr>
    <tr><td>Dogs</td><td>{{.Dogs}}</td></tr>
    <tr><td>Amount paid</td><td>{{.Amount}} {{.Currency}}</td></tr>
</table>
<p>Need to cancel? Use the link below — no account required.</p>
<a href="{{.CancelURL}}" class="btn">Manage booking</a>
`

// CancellationApprovedTemplate notifies the customer their cancellation was approved
const CancellationApprovedTemplate = `
<h2>Your cancellation is confirmed</h2>
<p>Hi {{.CustomerName}},</p>
<p>Your booking <strong>{{.OrderNumber}}</strong> for {{.ProductTitle}} has been cancelled.</p>
<p>Any refund due will be processed by your payment provider within 5-10 business days.</p>
`

// CancellationRejectedTemplate notifies the customer their cancellation was declined
const CancellationRejectedTemplate = `
<h2>About your cancellation request</h2>
<p>Hi {{.CustomerName}},</p>
<p>We could not approve your cancellation request for booking <strong>{{.OrderNumber}}</strong>.</p>
{{if .AdminNote}}<p>{{.AdminNote}}</p>{{end}}
<p>Your booking remains confirmed. Reply to this email if you have questions.</p>
`
