package dashboard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the highest positive quantity that raises an alert.
const LowStockThreshold = 50

type RecentOrder struct {
	ID          string          `json:"_id"`
	BuyerName   string          `json:"buyerName"`
	Product     string          `json:"product,omitempty"`
	Quantity    int             `json:"quantity,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	OrderDate   time.Time       `json:"orderDate"`
}

type StockItem struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Metrics is the backend's dashboard summary.
type Metrics struct {
	TotalOrdersPlaced int             `json:"totalOrdersPlaced"`
	OrdersReceived    int             `json:"ordersReceived"`
	ActiveProducts    int             `json:"activeProducts"`
	MonthlyRevenue    decimal.Decimal `json:"monthlyRevenue"`
	RecentOrders      []RecentOrder   `json:"recentOrders"`
	Products          []StockItem     `json:"products"`
}

type NotificationType string

const (
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
)

type Notification struct {
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Time    time.Time        `json:"time"`
}

// Notifications derives alerts: low stock first, then new (Pending)
// orders, then payments for Delivered orders.
func Notifications(m Metrics, now time.Time) []Notification {
	out := make([]Notification, 0)
	for _, p := range m.Products {
		if p.Quantity > 0 && p.Quantity <= LowStockThreshold {
			out = append(out, Notification{Message: "Low stock alert: " + p.Name, Type: NotifyWarning, Time: now})
		}
	}
	for _, o := range m.RecentOrders {
		if o.Status == "Pending" {
			out = append(out, Notification{Message: "New order from " + o.BuyerName, Type: NotifyInfo, Time: o.OrderDate})
		}
	}
	for _, o := range m.RecentOrders {
		if o.Status == "Delivered" {
			out = append(out, Notification{Message: fmt.Sprintf("Payment received for Order #%s", o.ID), Type: NotifySuccess, Time: o.OrderDate})
		}
	}
	return out
}

// Overview is the body of the overview view.
type Overview struct {
	Role          Role           `json:"role"`
	Views         []View         `json:"views"`
	Metrics       Metrics        `json:"metrics"`
	RevenueLakh   string         `json:"revenueLakh"`
	Notifications []Notification `json:"notifications"`
}

var lakh = decimal.NewFromInt(100000)

// RevenueInLakh formats an amount as "₹12.3L".
func RevenueInLakh(v decimal.Decimal) string {
	return "₹" + v.Div(lakh).StringFixed(1) + "L"
}
