package order

// Tracking steps shown to the buyer, in order.
var trackingSteps = []string{"Ordered", "Confirmed", "Packed", "Shipped", "Out for Delivery", "Delivered"}

// reached is how many tracking steps each status completes.
var reached = map[Status]int{
	StatusPending:   1,
	StatusApproved:  3,
	StatusRejected:  1,
	StatusShipped:   4,
	StatusDelivered: 6,
}

type Step struct {
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

type Tracking struct {
	OrderID  string `json:"orderId"`
	Status   Status `json:"status"`
	Rejected bool   `json:"rejected"`
	Steps    []Step `json:"steps"`
	Order    Order  `json:"order"`
}

func Track(o Order) Tracking {
	done := reached[o.Status]
	steps := make([]Step, len(trackingSteps))
	for i, name := range trackingSteps {
		steps[i] = Step{Status: name, Completed: i < done, Current: i == done-1}
	}
	return Tracking{
		OrderID:  o.ID,
		Status:   o.Status,
		Rejected: o.Status == StatusRejected,
		Steps:    steps,
		Order:    o,
	}
}
