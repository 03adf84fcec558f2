package models

// DashboardStats holds the headline counters for the dashboard.
type DashboardStats struct {
	TotalMembers        int `json:"total_members"`
	ActiveMembers       int `json:"active_members"`
	ExpiringIn10Days    int `json:"expiring_in_10_days"`
	ExpiredInLast30Days int `json:"expired_in_last_30_days"`
	BirthdaysToday      int `json:"birthdays_today"`
	TotalLeads          int `json:"total_leads"`
}

// DueMember is a client with an outstanding balance.
type DueMember struct {
	ClientID    int64   `json:"client_id"`
	ClientName  string  `json:"clientname"`
	PhoneNumber string  `json:"phonenumber"`
	PlanName    string  `json:"planname"`
	PlanAmount  float64 `json:"plan_amount"`
	TotalPaid   float64 `json:"total_paid"`
	BalanceDue  float64 `json:"balance_due"`
	EndDate     *string `json:"end_date,omitempty"`
}

// RevenuePoint is one bucket in a revenue series.
// Period is the bucket's start date in YYYY-MM-DD form.
type RevenuePoint struct {
	Period       string  `json:"period"`
	TotalRevenue float64 `json:"total_revenue"`
}

// GrowthPoint is one bucket in a new-client series.
type GrowthPoint struct {
	Period     string `json:"period"`
	NewClients int    `json:"new_clients"`
}

// PlanRevenue is total revenue attributed to one plan.
type PlanRevenue struct {
	PlanName     string  `json:"plan_name"`
	TotalRevenue float64 `json:"total_revenue"`
}

// PlanDistributionItem is the client count for one plan.
type PlanDistributionItem struct {
	PlanName    string `json:"plan_name"`
	ClientCount int    `json:"client_count"`
}

// PaymentMethodStat is the usage tally for one payment method.
type PaymentMethodStat struct {
	Method      string  `json:"method"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// StatusCount is the client count for one membership status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AgeGroupCount is the client count for one age bracket.
type AgeGroupCount struct {
	AgeGroup string `json:"age_group"`
	Count    int    `json:"count"`
}

// GenderCount is the client count for one gender.
type GenderCount struct {
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}
