package cancellation

// CreateRequestInput is the public cancellation form. Either a single-use
// cancel token, or the order number plus the booking email, must be supplied.
type CreateRequestInput struct {
	Token         string `json:"token" validate:"omitempty,max=128"`
	OrderNumber   string `json:"order_number" validate:"omitempty,max=64"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	Reason        string `json:"reason" validate:"omitempty,max=2000"`
}

// ResolveRequestInput is the admin decision payload
type ResolveRequestInput struct {
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	AdminNote string `json:"admin_note" validate:"omitempty,max=2000"`
}
