package view

// FilterTab is one filter button with the number of orders it matches.
type FilterTab struct {
	Value  string
	Label  string
	Count  int
	Active bool
}

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

type OrderItemRow struct {
	Title    string
	ImageURL string
}

type OrderRow struct {
	ID       string
	Customer string
	Email    string
	Phone    string
	Address  string
	City     string
	ZipCode  string
	Total    string
	Discount string
	Date     string

	Status        string
	StatusLabel   string
	StatusOptions []StatusOption

	Expanded bool
	Items    []OrderItemRow
}

type DashboardPage struct {
	Flash   *Flash
	Filter  string
	Filters []FilterTab
	Orders  []OrderRow

	// DeletePrompt is shown by the confirmation dialog of the delete form.
	DeletePrompt string
}

type LoginForm struct {
	Email string
}

type LoginPage struct {
	Flash   *Flash
	Form    LoginForm
	Errors  map[string]string
	Message string
}

type ErrorPage struct {
	Status    int
	Title     string
	Message   string
	RequestID string
}
