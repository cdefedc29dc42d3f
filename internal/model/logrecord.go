package model

import "time"

// Sentinel marks a field that could not be extracted from a log line.
const Sentinel = "-"

// LogRecord is one access log line split into its Combined Log Format fields.
type LogRecord struct {
	IP       string `json:"ip"`
	Identd   string `json:"identd"`
	User     string `json:"user"`
	Date     string `json:"date"`
	GMT      string `json:"gmt"`
	Action   string `json:"action"`
	Status   string `json:"status"`
	Size     string `json:"size"`
	Referrer string `json:"referrer"`
	Browser  string `json:"browser"`
}

// Values returns the fields in column order.
func (r LogRecord) Values() []string {
	return []string{r.IP, r.Identd, r.User, r.Date, r.GMT, r.Action, r.Status, r.Size, r.Referrer, r.Browser}
}

// ShippedRecord is what the producer sends through Kafka. ID is assigned on the
// consumer side from the message position.
type ShippedRecord struct {
	ID         string    `json:"id,omitempty"`
	Record     LogRecord `json:"record"`
	SourceFile string    `json:"source_file"`
	Raw        string    `json:"raw_log"`
}

// EnrichedRecord is the indexed document: the parsed line plus XSS verdict and geolocation.
type EnrichedRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"@timestamp"`
	IP          string    `json:"ip"`
	Identd      string    `json:"identd"`
	User        string    `json:"user"`
	Date        string    `json:"date"`
	GMT         string    `json:"gmt"`
	Action      string    `json:"action"`
	Status      string    `json:"status"`
	Size        string    `json:"size"`
	Referrer    string    `json:"referrer"`
	Browser     string    `json:"browser"`
	XSSSuspect  bool      `json:"xss_suspect"`
	CountryCode string    `json:"country_code,omitempty"`
	Alpha3      string    `json:"alpha_3,omitempty"`
	Latitude    string    `json:"latitude,omitempty"`
	Longitude   string    `json:"longitude,omitempty"`
	SourceFile  string    `json:"source_file"`
	Raw         string    `json:"raw_log"`
}

// NewEnrichedRecord copies the parsed fields of r; geo and XSS fields are left for the enricher.
func NewEnrichedRecord(r LogRecord) EnrichedRecord {
	return EnrichedRecord{
		IP:       r.IP,
		Identd:   r.Identd,
		User:     r.User,
		Date:     r.Date,
		GMT:      r.GMT,
		Action:   r.Action,
		Status:   r.Status,
		Size:     r.Size,
		Referrer: r.Referrer,
		Browser:  r.Browser,
	}
}

// SetGeo copies g onto the record.
func (e *EnrichedRecord) SetGeo(g GeoInfo) {
	e.CountryCode = g.CountryCode
	e.Alpha3 = g.Alpha3
	e.Latitude = g.Latitude
	e.Longitude = g.Longitude
}
