package mensa

// Wire types match the feed vocabulary the dashboard front end consumes.

type Prices struct {
	Student string `json:"studierende"`
	Staff   string `json:"angestellte"`
	Guest   string `json:"gaeste"`
	Pupil   string `json:"schueler"`
}

type Item struct {
	Category  string `json:"art"`
	Name      string `json:"name"`
	Tags      string `json:"zusatz"`
	Allergens string `json:"allergene"`
	Additives string `json:"kennzeichnungen"`
	Prices    Prices `json:"preise"`
}

// Day is one day of the menu feed. Date keeps the source's raw day.month.year
// string; DateISO is empty when the source date did not parse.
type Day struct {
	Date       string `json:"datum"`
	DateISO    string `json:"datum_formatted"`
	Weekday    string `json:"weekday"`
	IsToday    bool   `json:"is_today"`
	IsTomorrow bool   `json:"is_tomorrow"`
	Items      []Item `json:"menues"`
}

// Menu is the normalized two-day view served to the dashboard.
type Menu struct {
	MensaName string `json:"mensa_name"`
	Days      []Day  `json:"days"`
}
