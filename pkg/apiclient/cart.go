package apiclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrEmptyCart is returned when submitting a cart with no lines
var ErrEmptyCart = errors.New("cart is empty")

// CartLine is one item selection in the cart
type CartLine struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
	Quantity    int     `json:"quantity"`
}

// Estimate is the client-side price preview. The server recomputes all
// amounts at checkout; this is display only.
type Estimate struct {
	Days            int     `json:"days"`
	TotalAmount     float64 `json:"total_amount"`
	SecurityDeposit float64 `json:"security_deposit"`
}

// Cart collects item selections before checkout. Lines keep insertion
// order; adding an item already in the cart merges quantities.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// Add puts a line in the cart, merging with an existing line for the same item
func (c *Cart) Add(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == line.ItemID {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// SetQuantity changes a line's quantity; zero or less removes the line
func (c *Cart) SetQuantity(itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if quantity < 1 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// Remove drops a line from the cart
func (c *Cart) Remove(itemID string) {
	c.SetQuantity(itemID, 0)
}

// Lines returns a copy of the cart contents in insertion order
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Estimate previews the rental price for a date range. Partial days
// round up, matching the server's charging rule.
func (c *Cart) Estimate(start, end time.Time) Estimate {
	days := rentalDays(start, end)

	c.mu.Lock()
	defer c.mu.Unlock()

	est := Estimate{Days: days}
	for _, line := range c.lines {
		est.TotalAmount += line.PricePerDay * float64(days) * float64(line.Quantity)
		est.SecurityDeposit += line.PricePerDay * float64(line.Quantity)
	}
	return est
}

func rentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(hours / 24)
	if float64(days)*24 < hours {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// CheckoutRequest is the booking submission payload
type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	Items         []checkoutLine `json:"items"`
}

type checkoutLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CustomerInfo identifies the customer at checkout
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// Submit posts the cart as a booking. On success the cart is cleared; on
// any failure (including an availability conflict) the cart is preserved
// so the customer can adjust it.
func (c *Cart) Submit(ctx context.Context, client *Client, customer CustomerInfo, start, end time.Time) (map[string]interface{}, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := CheckoutRequest{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		StartDate:     start.Format(time.RFC3339),
		EndDate:       end.Format(time.RFC3339),
	}
	for _, line := range lines {
		req.Items = append(req.Items, checkoutLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	var booking map[string]interface{}
	if err := client.PostJSON(ctx, "/api/bookings", &req, &booking); err != nil {
		return nil, err
	}

	c.Clear()
	return booking, nil
}
